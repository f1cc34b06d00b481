package mock

import (
	"context"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
)

var _ segsocial.DocumentRegistry = (*DocumentRegistry)(nil)

// DocumentRegistry is a mock implementation of segsocial.DocumentRegistry.
type DocumentRegistry struct {
	UpsertDocumentFn   func(ctx context.Context, doc *segsocial.Document) error
	FindDocumentByIDFn func(ctx context.Context, id string) (*segsocial.Document, error)
	FindDocumentsFn    func(ctx context.Context, filter segsocial.DocumentFilter) ([]*segsocial.Document, error)
	DeleteDocumentFn   func(ctx context.Context, id string) error
}

func (r *DocumentRegistry) UpsertDocument(ctx context.Context, doc *segsocial.Document) error {
	return r.UpsertDocumentFn(ctx, doc)
}

func (r *DocumentRegistry) FindDocumentByID(ctx context.Context, id string) (*segsocial.Document, error) {
	return r.FindDocumentByIDFn(ctx, id)
}

func (r *DocumentRegistry) FindDocuments(ctx context.Context, filter segsocial.DocumentFilter) ([]*segsocial.Document, error) {
	return r.FindDocumentsFn(ctx, filter)
}

func (r *DocumentRegistry) DeleteDocument(ctx context.Context, id string) error {
	return r.DeleteDocumentFn(ctx, id)
}
