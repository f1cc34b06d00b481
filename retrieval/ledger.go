// Package retrieval implements the query → answer path: vector search
// over lightweight document embeddings, prepared-context cache
// coordination, and grounded answer generation.
package retrieval

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is the time-to-live requested for new prepared
// contexts when none is configured.
const DefaultCacheTTL = 60 * time.Minute

// DefaultCreateTimeout bounds a single remote cache creation call.
const DefaultCreateTimeout = 2 * time.Minute

type ledgerKey struct {
	documentID string
	model      string
}

// Ledger governs prepared-context session validity, creation, and
// capability degradation. Per (document, model) key it holds at most
// one session and guarantees at most one remote creation in flight.
//
// Once the generator signals that the caching capability is exhausted
// (not entitled for the account tier), the ledger disables itself for
// the remainder of the process and GetOrCreate returns nil sessions
// without attempting further remote calls. A fresh process re-attempts.
type Ledger struct {
	// TTL is the time-to-live requested for new prepared contexts.
	// Defaults to DefaultCacheTTL.
	TTL time.Duration

	// CreateTimeout bounds each remote creation call. Defaults to
	// DefaultCreateTimeout.
	CreateTimeout time.Duration

	// Store, when set, mirrors ledger records so sessions survive a
	// process restart. Mirror failures are logged, never fatal.
	Store segsocial.CacheSessionStore

	// Logger, when set, receives ledger state transitions.
	Logger *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	generator segsocial.Generator

	mu       sync.RWMutex
	sessions map[ledgerKey]*segsocial.CacheSession

	enabled atomic.Bool
	flight  singleflight.Group
}

// NewLedger creates a Ledger that creates prepared contexts through the
// given generator. Caching starts enabled.
func NewLedger(generator segsocial.Generator) *Ledger {
	l := &Ledger{
		generator: generator,
		sessions:  make(map[ledgerKey]*segsocial.CacheSession),
	}
	l.enabled.Store(true)
	return l
}

// GetOrCreate returns a usable session for the document, creating one
// remotely when no valid session exists. It returns (nil, nil) when
// caching is disabled or the capability turns out to be exhausted; the
// caller falls back to uncached generation. Any other creation failure
// propagates as EUPSTREAM.
//
// content must be the exact text whose fingerprint is contentHash; the
// ledger does not re-hash.
//
// Concurrent callers for the same key serialize on a single flight: the
// winner performs the remote creation on a detached, timeout-bounded
// context and losers reuse its result. Cancelling a waiting caller's
// context aborts its wait promptly without holding the key.
func (l *Ledger) GetOrCreate(ctx context.Context, documentID, content, contentHash string) (*segsocial.CacheSession, error) {
	if documentID == "" {
		return nil, segsocial.Errorf(segsocial.EINVALID, "document ID required")
	}
	if contentHash == "" {
		return nil, segsocial.Errorf(segsocial.EINVALID, "content hash required")
	}

	key := ledgerKey{documentID: documentID, model: l.generator.Model()}

	if s := l.lookup(key, contentHash); s != nil {
		return s, nil
	}
	if !l.enabled.Load() {
		return nil, nil
	}

	// The flight runs on a context detached from the caller so that a
	// disconnecting client cannot abort a creation other callers are
	// waiting on. The creation itself is bounded by CreateTimeout.
	flightCtx := context.WithoutCancel(ctx)
	ch := l.flight.DoChan(documentID+"\x00"+key.model, func() (any, error) {
		return l.create(flightCtx, key, content, contentHash)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		session, _ := res.Val.(*segsocial.CacheSession)
		if session == nil {
			return nil, nil
		}
		return session, nil
	}
}

// create performs the remote cache creation for one flight.
func (l *Ledger) create(ctx context.Context, key ledgerKey, content, contentHash string) (*segsocial.CacheSession, error) {
	// A racer that lost the fast path may have joined after the winner
	// recorded a session; re-validate before spending a remote call.
	if s := l.lookup(key, contentHash); s != nil {
		return s, nil
	}
	l.evictStale(ctx, key)
	if !l.enabled.Load() {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, l.createTimeout())
	defer cancel()

	handle, expires, err := l.generator.CreateCache(ctx, key.documentID, content, l.ttl())
	if err != nil {
		if segsocial.ErrorCode(err) == segsocial.EEXHAUSTED {
			l.disable(err)
			return nil, nil
		}
		// A timeout says nothing about entitlement: treat it as
		// transient and surface it rather than disabling caching.
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, segsocial.Errorf(segsocial.EUPSTREAM, "cache creation for %q timed out", key.documentID)
		}
		return nil, segsocial.Errorf(segsocial.EUPSTREAM, "cache creation for %q: %s", key.documentID, segsocial.ErrorMessage(err))
	}

	now := l.now()
	session := &segsocial.CacheSession{
		Handle:      handle,
		DocumentID:  key.documentID,
		ContentHash: contentHash,
		Model:       key.model,
		CreatedAt:   now,
		ExpiresAt:   expires,
	}
	if session.ExpiresAt.IsZero() {
		session.ExpiresAt = now.Add(l.ttl())
	}

	l.mu.Lock()
	l.sessions[key] = session
	l.mu.Unlock()

	if l.Store != nil {
		if err := l.Store.SaveSession(ctx, session); err != nil {
			l.log().Warn("cache session mirror write failed",
				"document", key.documentID,
				"error", err,
			)
		}
	}

	l.log().Info("prepared context created",
		"document", key.documentID,
		"model", key.model,
		"expires", session.ExpiresAt,
	)
	return session, nil
}

// evictStale drops an expired or superseded session for one binding
// from memory and the mirror. Without it a failed or skipped
// replacement would leave the stale row behind for Restore to revive.
func (l *Ledger) evictStale(ctx context.Context, key ledgerKey) {
	l.mu.Lock()
	s := l.sessions[key]
	if s != nil {
		delete(l.sessions, key)
	}
	l.mu.Unlock()

	if s == nil || l.Store == nil {
		return
	}
	if err := l.Store.DeleteSession(ctx, key.documentID, key.model); err != nil {
		l.log().Warn("cache session mirror delete failed",
			"document", key.documentID,
			"model", key.model,
			"error", err,
		)
	}
}

// lookup returns the session for the key if it is still valid.
func (l *Ledger) lookup(key ledgerKey, contentHash string) *segsocial.CacheSession {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if s := l.sessions[key]; s.Valid(l.now(), contentHash, key.model) {
		return s
	}
	return nil
}

// Invalidate removes ledger entries for a document across all model
// bindings, regardless of expiry. Administrative: used on forced
// re-ingestion or when a provider-side cache turns out to be gone.
func (l *Ledger) Invalidate(ctx context.Context, documentID string) error {
	if documentID == "" {
		return segsocial.Errorf(segsocial.EINVALID, "document ID required")
	}

	l.mu.Lock()
	for key := range l.sessions {
		if key.documentID == documentID {
			delete(l.sessions, key)
		}
	}
	l.mu.Unlock()

	if l.Store != nil {
		if err := l.Store.DeleteSessionsByDocument(ctx, documentID); err != nil {
			l.log().Warn("cache session mirror delete failed",
				"document", documentID,
				"error", err,
			)
		}
	}
	return nil
}

// Restore loads mirrored sessions into the in-memory index, skipping
// rows that already expired. Safe to call on a fresh process; without a
// store it is a no-op.
func (l *Ledger) Restore(ctx context.Context) error {
	if l.Store == nil {
		return nil
	}

	sessions, err := l.Store.ListSessions(ctx)
	if err != nil {
		return err
	}

	now := l.now()
	restored := 0
	l.mu.Lock()
	for _, s := range sessions {
		if !now.Before(s.ExpiresAt) {
			continue
		}
		l.sessions[ledgerKey{documentID: s.DocumentID, model: s.Model}] = s
		restored++
	}
	l.mu.Unlock()

	if restored > 0 {
		l.log().Info("cache sessions restored", "count", restored)
	}
	return nil
}

// Enabled reports whether prepared-context creation is still permitted.
func (l *Ledger) Enabled() bool {
	return l.enabled.Load()
}

// Len returns the number of recorded sessions, valid or not.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sessions)
}

// disable permanently turns off cache creation for this process.
// Idempotent; later calls only keep the flag false.
func (l *Ledger) disable(cause error) {
	if l.enabled.CompareAndSwap(true, false) {
		l.log().Warn("context caching disabled for this process",
			"cause", segsocial.ErrorMessage(cause),
		)
	}
}

func (l *Ledger) ttl() time.Duration {
	if l.TTL > 0 {
		return l.TTL
	}
	return DefaultCacheTTL
}

func (l *Ledger) createTimeout() time.Duration {
	if l.CreateTimeout > 0 {
		return l.CreateTimeout
	}
	return DefaultCreateTimeout
}

func (l *Ledger) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l *Ledger) log() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}
