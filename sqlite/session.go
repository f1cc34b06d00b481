package sqlite

import (
	"context"
	"time"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
)

// Compile-time interface verification.
var _ segsocial.CacheSessionStore = (*CacheSessionStore)(nil)

// CacheSessionStore implements segsocial.CacheSessionStore using SQLite.
// It mirrors the in-memory cache ledger so sessions survive restarts;
// provider-side cached content commonly outlives the process.
type CacheSessionStore struct {
	db *DB
}

// NewCacheSessionStore creates a new CacheSessionStore.
func NewCacheSessionStore(db *DB) *CacheSessionStore {
	return &CacheSessionStore{db: db}
}

// SaveSession inserts a session or replaces the existing one for the
// same (document, model) pair.
func (s *CacheSessionStore) SaveSession(ctx context.Context, session *segsocial.CacheSession) error {
	if err := session.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cache_sessions (document_id, model, handle, content_hash, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(document_id, model) DO UPDATE SET
			handle = excluded.handle,
			content_hash = excluded.content_hash,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`, session.DocumentID, session.Model, session.Handle, session.ContentHash,
		session.CreatedAt.Format(time.RFC3339), session.ExpiresAt.Format(time.RFC3339))

	return err
}

// DeleteSession removes the session for a (document, model) pair.
// Deleting a session that does not exist is not an error.
func (s *CacheSessionStore) DeleteSession(ctx context.Context, documentID, model string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM cache_sessions WHERE document_id = ? AND model = ?", documentID, model)
	return err
}

// DeleteSessionsByDocument removes all sessions bound to a document.
func (s *CacheSessionStore) DeleteSessionsByDocument(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM cache_sessions WHERE document_id = ?", documentID)
	return err
}

// ListSessions returns all persisted sessions, including expired ones.
// Callers decide what is still usable.
func (s *CacheSessionStore) ListSessions(ctx context.Context) ([]*segsocial.CacheSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, model, handle, content_hash, created_at, expires_at
		FROM cache_sessions
		ORDER BY document_id, model
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*segsocial.CacheSession
	for rows.Next() {
		var session segsocial.CacheSession
		var createdAt, expiresAt string

		if err := rows.Scan(&session.DocumentID, &session.Model, &session.Handle,
			&session.ContentHash, &createdAt, &expiresAt); err != nil {
			return nil, err
		}

		if session.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		if session.ExpiresAt, err = parseRFC3339(expiresAt, "expires_at"); err != nil {
			return nil, err
		}

		sessions = append(sessions, &session)
	}

	return sessions, rows.Err()
}
