package mock

import (
	"context"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
)

var _ segsocial.DocumentIndex = (*DocumentIndex)(nil)

// DocumentIndex is a mock implementation of segsocial.DocumentIndex.
type DocumentIndex struct {
	IndexDocumentFn    func(ctx context.Context, doc *segsocial.Document, vector []float32) error
	SearchFn           func(ctx context.Context, vector []float32, topK int) ([]*segsocial.Document, error)
	FindDocumentByIDFn func(ctx context.Context, id string) (*segsocial.Document, error)
	DeleteDocumentFn   func(ctx context.Context, id string) error
	CountDocumentsFn   func(ctx context.Context) (int, error)
}

func (i *DocumentIndex) IndexDocument(ctx context.Context, doc *segsocial.Document, vector []float32) error {
	return i.IndexDocumentFn(ctx, doc, vector)
}

func (i *DocumentIndex) Search(ctx context.Context, vector []float32, topK int) ([]*segsocial.Document, error) {
	return i.SearchFn(ctx, vector, topK)
}

func (i *DocumentIndex) FindDocumentByID(ctx context.Context, id string) (*segsocial.Document, error) {
	return i.FindDocumentByIDFn(ctx, id)
}

func (i *DocumentIndex) DeleteDocument(ctx context.Context, id string) error {
	return i.DeleteDocumentFn(ctx, id)
}

func (i *DocumentIndex) CountDocuments(ctx context.Context) (int, error) {
	return i.CountDocumentsFn(ctx)
}
