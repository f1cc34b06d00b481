package mock

import (
	"context"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
)

var _ segsocial.CacheSessionStore = (*CacheSessionStore)(nil)

// CacheSessionStore is a mock implementation of segsocial.CacheSessionStore.
type CacheSessionStore struct {
	SaveSessionFn              func(ctx context.Context, session *segsocial.CacheSession) error
	DeleteSessionFn            func(ctx context.Context, documentID, model string) error
	DeleteSessionsByDocumentFn func(ctx context.Context, documentID string) error
	ListSessionsFn             func(ctx context.Context) ([]*segsocial.CacheSession, error)
}

func (s *CacheSessionStore) SaveSession(ctx context.Context, session *segsocial.CacheSession) error {
	return s.SaveSessionFn(ctx, session)
}

func (s *CacheSessionStore) DeleteSession(ctx context.Context, documentID, model string) error {
	return s.DeleteSessionFn(ctx, documentID, model)
}

func (s *CacheSessionStore) DeleteSessionsByDocument(ctx context.Context, documentID string) error {
	return s.DeleteSessionsByDocumentFn(ctx, documentID)
}

func (s *CacheSessionStore) ListSessions(ctx context.Context) ([]*segsocial.CacheSession, error) {
	return s.ListSessionsFn(ctx)
}
