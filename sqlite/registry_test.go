package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	segsocial "github.com/wachinalpha/Bot-seguridad-social"
	"github.com/wachinalpha/Bot-seguridad-social/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func registryDocument(id, categoria string) *segsocial.Document {
	return &segsocial.Document{
		ID:         id,
		Title:      "Ley " + id,
		Summary:    "Resumen de la ley " + id,
		ContentRef: id + ".md",
		Metadata:   map[string]string{"categoria": categoria, "url": "https://example.com/" + id},
		IngestedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestDocumentRegistry_UpsertAndFind(t *testing.T) {
	t.Parallel()

	registry := sqlite.NewDocumentRegistry(newTestDB(t))
	ctx := context.Background()

	doc := registryDocument("ley_24241", "jubilaciones")
	require.NoError(t, registry.UpsertDocument(ctx, doc))

	found, err := registry.FindDocumentByID(ctx, "ley_24241")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, found.ID)
	assert.Equal(t, doc.Title, found.Title)
	assert.Equal(t, doc.Summary, found.Summary)
	assert.Equal(t, doc.ContentRef, found.ContentRef)
	assert.Equal(t, doc.Metadata, found.Metadata)
	assert.True(t, doc.IngestedAt.Equal(found.IngestedAt))
}

func TestDocumentRegistry_UpsertReplacesExisting(t *testing.T) {
	t.Parallel()

	registry := sqlite.NewDocumentRegistry(newTestDB(t))
	ctx := context.Background()

	doc := registryDocument("ley_24714", "asignaciones")
	require.NoError(t, registry.UpsertDocument(ctx, doc))

	doc.Summary = "Resumen actualizado"
	require.NoError(t, registry.UpsertDocument(ctx, doc))

	found, err := registry.FindDocumentByID(ctx, "ley_24714")
	require.NoError(t, err)
	assert.Equal(t, "Resumen actualizado", found.Summary)

	docs, err := registry.FindDocuments(ctx, segsocial.DocumentFilter{})
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDocumentRegistry_UpsertSetsIngestedAt(t *testing.T) {
	t.Parallel()

	registry := sqlite.NewDocumentRegistry(newTestDB(t))
	ctx := context.Background()

	doc := registryDocument("ley_24557", "riesgos")
	doc.IngestedAt = time.Time{}
	require.NoError(t, registry.UpsertDocument(ctx, doc))
	assert.False(t, doc.IngestedAt.IsZero())
}

func TestDocumentRegistry_UpsertValidates(t *testing.T) {
	t.Parallel()

	registry := sqlite.NewDocumentRegistry(newTestDB(t))

	err := registry.UpsertDocument(context.Background(), &segsocial.Document{Title: "sin id"})
	assert.Equal(t, segsocial.EINVALID, segsocial.ErrorCode(err))
}

func TestDocumentRegistry_FindNotFound(t *testing.T) {
	t.Parallel()

	registry := sqlite.NewDocumentRegistry(newTestDB(t))

	_, err := registry.FindDocumentByID(context.Background(), "ley_00000")
	require.Error(t, err)
	assert.Equal(t, segsocial.ENOTFOUND, segsocial.ErrorCode(err))
}

func TestDocumentRegistry_FindDocuments(t *testing.T) {
	t.Parallel()

	registry := sqlite.NewDocumentRegistry(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, registry.UpsertDocument(ctx, registryDocument("ley_24241", "jubilaciones")))
	require.NoError(t, registry.UpsertDocument(ctx, registryDocument("ley_24714", "asignaciones")))
	require.NoError(t, registry.UpsertDocument(ctx, registryDocument("ley_26425", "jubilaciones")))

	t.Run("all documents ordered by id", func(t *testing.T) {
		docs, err := registry.FindDocuments(ctx, segsocial.DocumentFilter{})
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, "ley_24241", docs[0].ID)
		assert.Equal(t, "ley_24714", docs[1].ID)
		assert.Equal(t, "ley_26425", docs[2].ID)
	})

	t.Run("filter by category", func(t *testing.T) {
		categoria := "jubilaciones"
		docs, err := registry.FindDocuments(ctx, segsocial.DocumentFilter{Category: &categoria})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "ley_24241", docs[0].ID)
		assert.Equal(t, "ley_26425", docs[1].ID)
	})

	t.Run("filter by id", func(t *testing.T) {
		id := "ley_24714"
		docs, err := registry.FindDocuments(ctx, segsocial.DocumentFilter{ID: &id})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "ley_24714", docs[0].ID)
	})

	t.Run("pagination", func(t *testing.T) {
		docs, err := registry.FindDocuments(ctx, segsocial.DocumentFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "ley_24714", docs[0].ID)
	})
}

func TestDocumentRegistry_Delete(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	registry := sqlite.NewDocumentRegistry(db)
	sessions := sqlite.NewCacheSessionStore(db)
	ctx := context.Background()

	require.NoError(t, registry.UpsertDocument(ctx, registryDocument("ley_24241", "jubilaciones")))
	require.NoError(t, sessions.SaveSession(ctx, &segsocial.CacheSession{
		Handle:      "cachedContents/abc",
		DocumentID:  "ley_24241",
		ContentHash: "deadbeefdeadbeef",
		Model:       "gemini-2.5-flash",
		CreatedAt:   time.Now().UTC(),
		ExpiresAt:   time.Now().UTC().Add(time.Hour),
	}))

	require.NoError(t, registry.DeleteDocument(ctx, "ley_24241"))

	_, err := registry.FindDocumentByID(ctx, "ley_24241")
	assert.Equal(t, segsocial.ENOTFOUND, segsocial.ErrorCode(err))

	// Cascade removes the document's sessions.
	remaining, err := sessions.ListSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	err = registry.DeleteDocument(ctx, "ley_24241")
	assert.Equal(t, segsocial.ENOTFOUND, segsocial.ErrorCode(err))
}
