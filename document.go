package segsocial

import (
	"context"
	"time"
)

// Document represents one complete legal text: the atomic unit of
// retrieval. The full text is never stored here; ContentRef points into
// the ContentStore and only Title and Summary are ever embedded.
type Document struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Summary    string            `json:"summary"`
	ContentRef string            `json:"contentRef"`
	Metadata   map[string]string `json:"metadata"`
	IngestedAt time.Time         `json:"ingestedAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.ID == "" {
		return Errorf(EINVALID, "document ID required")
	}
	if d.Title == "" {
		return Errorf(EINVALID, "document title required")
	}
	if d.ContentRef == "" {
		return Errorf(EINVALID, "document content ref required")
	}
	return nil
}

// SearchableText returns the lightweight text used for embedding.
// The full legal text is deliberately excluded.
func (d *Document) SearchableText() string {
	if d.Summary == "" {
		return d.Title
	}
	return d.Title + ". " + d.Summary
}

// Embedder converts text into a fixed-dimensionality vector.
type Embedder interface {
	// Embed returns the embedding vector for the given text.
	// Returns EINVALID for malformed input and EUPSTREAM for
	// provider failures.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// DocumentIndex stores per-document embedding vectors plus metadata and
// supports nearest-neighbor search. Vectors are computed by the caller;
// the index never embeds text itself.
type DocumentIndex interface {
	// IndexDocument adds or replaces a document and its vector.
	IndexDocument(ctx context.Context, doc *Document, vector []float32) error

	// Search returns up to topK documents ordered by descending
	// similarity to the given vector. An empty result is valid and
	// not an error.
	Search(ctx context.Context, vector []float32, topK int) ([]*Document, error)

	// FindDocumentByID retrieves an indexed document by ID.
	// Returns ENOTFOUND if the document does not exist.
	FindDocumentByID(ctx context.Context, id string) (*Document, error)

	// DeleteDocument removes a document from the index.
	// Returns ENOTFOUND if the document does not exist.
	DeleteDocument(ctx context.Context, id string) error

	// CountDocuments returns the number of indexed documents.
	CountDocuments(ctx context.Context) (int, error)
}

// ContentStore holds full document text addressable by content ref.
type ContentStore interface {
	// ReadContent returns the full text for the given ref.
	// Returns ENOTFOUND if no content exists at the ref.
	ReadContent(ctx context.Context, ref string) (string, error)

	// WriteContent stores the full text under the given ref,
	// replacing any previous content atomically.
	WriteContent(ctx context.Context, ref string, content string) error

	// RemoveContent deletes the content at the given ref.
	// Removing a missing ref is not an error.
	RemoveContent(ctx context.Context, ref string) error
}

// DocumentRegistry persists document records for corpus management.
// The retrieval path reads documents from the DocumentIndex; the
// registry is the ingestion-time system of record.
type DocumentRegistry interface {
	// UpsertDocument creates or replaces a document record.
	UpsertDocument(ctx context.Context, doc *Document) error

	// FindDocumentByID retrieves a document record by ID.
	// Returns ENOTFOUND if the record does not exist.
	FindDocumentByID(ctx context.Context, id string) (*Document, error)

	// FindDocuments retrieves document records matching the filter,
	// ordered by ID.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error)

	// DeleteDocument permanently removes a document record.
	// Returns ENOTFOUND if the record does not exist.
	DeleteDocument(ctx context.Context, id string) error
}

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	ID       *string `json:"id"`
	Category *string `json:"category"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
