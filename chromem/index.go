// Package chromem provides an embedded vector index implementation of
// segsocial.DocumentIndex backed by chromem-go.
package chromem

import (
	"context"
	"strings"
	"time"

	"github.com/philippgille/chromem-go"
	segsocial "github.com/wachinalpha/Bot-seguridad-social"
)

// CollectionName is the chromem collection holding the corpus.
const CollectionName = "legal_documents"

// metaPrefix namespaces user metadata keys so they cannot collide with
// the reserved document fields below.
const metaPrefix = "meta."

const (
	metaTitle      = "title"
	metaSummary    = "summary"
	metaContentRef = "content_ref"
	metaIngestedAt = "ingested_at"
)

// Ensure DocumentIndex implements segsocial.DocumentIndex at compile time.
var _ segsocial.DocumentIndex = (*DocumentIndex)(nil)

// DocumentIndex implements segsocial.DocumentIndex using chromem-go.
// Embeddings are computed by the caller and stored as-is; the index
// never calls an embedding provider itself.
type DocumentIndex struct {
	collection *chromem.Collection
}

// NewDocumentIndex creates a DocumentIndex persisted under path. An
// empty path keeps the index in memory, which is what tests use.
func NewDocumentIndex(path string) (*DocumentIndex, error) {
	var db *chromem.DB
	if path == "" {
		db = chromem.NewDB()
	} else {
		d, err := chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, err
		}
		db = d
	}

	// The embedding func is nil on purpose: documents always arrive
	// with vectors already computed.
	collection, err := db.GetOrCreateCollection(CollectionName, nil, nil)
	if err != nil {
		return nil, err
	}

	return &DocumentIndex{collection: collection}, nil
}

// IndexDocument adds or replaces a document and its vector.
func (i *DocumentIndex) IndexDocument(ctx context.Context, doc *segsocial.Document, vector []float32) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if len(vector) == 0 {
		return segsocial.Errorf(segsocial.EINVALID, "embedding vector required")
	}

	metadata := map[string]string{
		metaTitle:      doc.Title,
		metaSummary:    doc.Summary,
		metaContentRef: doc.ContentRef,
		metaIngestedAt: doc.IngestedAt.UTC().Format(time.RFC3339),
	}
	for k, v := range doc.Metadata {
		metadata[metaPrefix+k] = v
	}

	return i.collection.AddDocument(ctx, chromem.Document{
		ID:        doc.ID,
		Metadata:  metadata,
		Embedding: vector,
		Content:   doc.SearchableText(),
	})
}

// Search returns up to topK documents ordered by descending similarity.
func (i *DocumentIndex) Search(ctx context.Context, vector []float32, topK int) ([]*segsocial.Document, error) {
	if topK <= 0 {
		return nil, segsocial.Errorf(segsocial.EINVALID, "topK must be positive")
	}

	// chromem rejects queries asking for more results than stored.
	if count := i.collection.Count(); topK > count {
		if count == 0 {
			return nil, nil
		}
		topK = count
	}

	results, err := i.collection.QueryEmbedding(ctx, vector, topK, nil, nil)
	if err != nil {
		return nil, err
	}

	docs := make([]*segsocial.Document, len(results))
	for n, result := range results {
		docs[n] = documentFromMetadata(result.ID, result.Metadata)
	}
	return docs, nil
}

// FindDocumentByID retrieves an indexed document by ID.
func (i *DocumentIndex) FindDocumentByID(ctx context.Context, id string) (*segsocial.Document, error) {
	doc, err := i.collection.GetByID(ctx, id)
	if err != nil {
		return nil, segsocial.Errorf(segsocial.ENOTFOUND, "document %q not found", id)
	}
	return documentFromMetadata(doc.ID, doc.Metadata), nil
}

// DeleteDocument removes a document from the index.
func (i *DocumentIndex) DeleteDocument(ctx context.Context, id string) error {
	if _, err := i.collection.GetByID(ctx, id); err != nil {
		return segsocial.Errorf(segsocial.ENOTFOUND, "document %q not found", id)
	}
	return i.collection.Delete(ctx, nil, nil, id)
}

// CountDocuments returns the number of indexed documents.
func (i *DocumentIndex) CountDocuments(ctx context.Context) (int, error) {
	return i.collection.Count(), nil
}

// documentFromMetadata reconstructs a document record from the stored
// metadata round-trip.
func documentFromMetadata(id string, metadata map[string]string) *segsocial.Document {
	doc := &segsocial.Document{
		ID:         id,
		Title:      metadata[metaTitle],
		Summary:    metadata[metaSummary],
		ContentRef: metadata[metaContentRef],
	}
	if ts, err := time.Parse(time.RFC3339, metadata[metaIngestedAt]); err == nil {
		doc.IngestedAt = ts
	}
	for k, v := range metadata {
		if strings.HasPrefix(k, metaPrefix) {
			if doc.Metadata == nil {
				doc.Metadata = make(map[string]string)
			}
			doc.Metadata[strings.TrimPrefix(k, metaPrefix)] = v
		}
	}
	return doc
}
