package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
)

// Compile-time interface verification.
var _ segsocial.DocumentRegistry = (*DocumentRegistry)(nil)

// DocumentRegistry implements segsocial.DocumentRegistry using SQLite.
// It is the authoritative record of the ingested corpus; the vector
// index holds a projection of the same documents for retrieval.
type DocumentRegistry struct {
	db *DB
}

// NewDocumentRegistry creates a new DocumentRegistry.
func NewDocumentRegistry(db *DB) *DocumentRegistry {
	return &DocumentRegistry{db: db}
}

// UpsertDocument inserts a document or replaces the existing record
// with the same ID.
func (r *DocumentRegistry) UpsertDocument(ctx context.Context, doc *segsocial.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	if doc.IngestedAt.IsZero() {
		doc.IngestedAt = time.Now().UTC()
	}

	metadata, err := encodeMetadata(doc.Metadata)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, summary, content_ref, metadata, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			content_ref = excluded.content_ref,
			metadata = excluded.metadata,
			ingested_at = excluded.ingested_at
	`, doc.ID, doc.Title, doc.Summary, doc.ContentRef, metadata,
		doc.IngestedAt.Format(time.RFC3339))

	return err
}

// FindDocumentByID retrieves a document by ID.
func (r *DocumentRegistry) FindDocumentByID(ctx context.Context, id string) (*segsocial.Document, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, summary, content_ref, metadata, ingested_at
		FROM documents
		WHERE id = ?
	`, id)

	doc, err := scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return nil, segsocial.Errorf(segsocial.ENOTFOUND, "document not found")
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// FindDocuments retrieves documents matching the filter, ordered by ID.
func (r *DocumentRegistry) FindDocuments(ctx context.Context, filter segsocial.DocumentFilter) ([]*segsocial.Document, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, title, summary, content_ref, metadata, ingested_at FROM documents WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Category != nil {
		query.WriteString(" AND json_extract(metadata, '$.categoria') = ?")
		args = append(args, *filter.Category)
	}

	query.WriteString(" ORDER BY id ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*segsocial.Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// DeleteDocument permanently removes a document. Cache sessions bound
// to the document are removed by the foreign key cascade.
func (r *DocumentRegistry) DeleteDocument(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return segsocial.Errorf(segsocial.ENOTFOUND, "document not found")
	}

	return nil
}

// scanDocument reads one documents row using the given scan function.
func scanDocument(scan func(dest ...any) error) (*segsocial.Document, error) {
	var doc segsocial.Document
	var metadata, ingestedAt string

	if err := scan(&doc.ID, &doc.Title, &doc.Summary, &doc.ContentRef, &metadata, &ingestedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(metadata), &doc.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if len(doc.Metadata) == 0 {
		doc.Metadata = nil
	}

	var err error
	doc.IngestedAt, err = parseRFC3339(ingestedAt, "ingested_at")
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// encodeMetadata serializes document metadata as a JSON object so that
// fields remain queryable with json_extract.
func encodeMetadata(metadata map[string]string) (string, error) {
	if len(metadata) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	return string(b), nil
}
