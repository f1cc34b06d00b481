package mock

import (
	"context"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
)

var _ segsocial.ContentStore = (*ContentStore)(nil)

// ContentStore is a mock implementation of segsocial.ContentStore.
type ContentStore struct {
	ReadContentFn   func(ctx context.Context, ref string) (string, error)
	WriteContentFn  func(ctx context.Context, ref string, content string) error
	RemoveContentFn func(ctx context.Context, ref string) error
}

func (s *ContentStore) ReadContent(ctx context.Context, ref string) (string, error) {
	return s.ReadContentFn(ctx, ref)
}

func (s *ContentStore) WriteContent(ctx context.Context, ref string, content string) error {
	return s.WriteContentFn(ctx, ref, content)
}

func (s *ContentStore) RemoveContent(ctx context.Context, ref string) error {
	return s.RemoveContentFn(ctx, ref)
}
