package segsocial

import (
	"context"
	"time"
)

// CacheSession records one provider-side prepared context for a
// document. At most one valid session exists per (DocumentID, Model)
// pair at any time; creating a new session supersedes the prior one.
type CacheSession struct {
	// Handle is the provider-assigned identifier for the prepared
	// context. Never empty on a recorded session.
	Handle string `json:"handle"`

	// DocumentID identifies the document the context was built from.
	DocumentID string `json:"documentId"`

	// ContentHash fingerprints the document text at creation time.
	// A mismatch against the current text invalidates the session.
	ContentHash string `json:"contentHash"`

	// Model is the generation model the context was created against.
	// A session is never reused across models.
	Model string `json:"model"`

	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Valid reports whether the session can be reused at the given time for
// a document whose current text hashes to contentHash under model.
func (s *CacheSession) Valid(now time.Time, contentHash, model string) bool {
	if s == nil || s.Handle == "" {
		return false
	}
	if !now.Before(s.ExpiresAt) {
		return false
	}
	return s.ContentHash == contentHash && s.Model == model
}

// Validate returns an error if the session contains invalid fields.
func (s *CacheSession) Validate() error {
	if s.Handle == "" {
		return Errorf(EINVALID, "cache session handle required")
	}
	if s.DocumentID == "" {
		return Errorf(EINVALID, "cache session document ID required")
	}
	if s.Model == "" {
		return Errorf(EINVALID, "cache session model required")
	}
	return nil
}

// Generator produces grounded answers, optionally through a
// provider-side prepared context.
type Generator interface {
	// Model returns the identifier of the generation model. Cache
	// sessions are bound to this identifier.
	Model() string

	// CreateCache uploads the document text as a prepared context
	// with the given time-to-live and returns the provider handle
	// plus its expiration. documentID marks the text so answers can
	// cite it. Returns EEXHAUSTED when the caching capability is not
	// entitled for the account and EUPSTREAM for other provider
	// failures.
	CreateCache(ctx context.Context, documentID, content string, ttl time.Duration) (handle string, expires time.Time, err error)

	// GenerateWithCache answers the query against an existing
	// prepared context. This is the cheap path: only the handle and
	// the query travel to the provider.
	GenerateWithCache(ctx context.Context, handle, query string) (string, error)

	// GenerateWithContent answers the query with the full document
	// text inlined. Functionally equivalent to the cached path, only
	// slower and costlier.
	GenerateWithContent(ctx context.Context, documentID, content, query string) (string, error)
}

// CacheSessionStore mirrors ledger records so sessions survive a
// process restart. Losing the mirror is a performance regression, not a
// correctness one: a missing session simply triggers re-creation.
type CacheSessionStore interface {
	// SaveSession creates or replaces the record for the session's
	// (DocumentID, Model) pair.
	SaveSession(ctx context.Context, session *CacheSession) error

	// DeleteSession removes the record for the pair. Deleting a
	// missing record is not an error.
	DeleteSession(ctx context.Context, documentID, model string) error

	// DeleteSessionsByDocument removes all records for a document
	// across model bindings.
	DeleteSessionsByDocument(ctx context.Context, documentID string) error

	// ListSessions returns all mirrored records.
	ListSessions(ctx context.Context) ([]*CacheSession, error)
}
