package retrieval

import (
	"context"
	"log/slog"
	"strings"
	"time"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
)

// Default bounds for the coordinator's remote calls.
const (
	DefaultTopK            = 3
	DefaultEmbedTimeout    = 30 * time.Second
	DefaultSearchTimeout   = 10 * time.Second
	DefaultGenerateTimeout = 3 * time.Minute
)

// extraCandidates is how many results beyond TopK the search fetches so
// anchor reranking has room to work with.
const extraCandidates = 2

// Ensure Coordinator implements segsocial.QueryService at compile time.
var _ segsocial.QueryService = (*Coordinator)(nil)

// Coordinator executes the end-to-end query path: embed the query, find
// the most relevant document, reuse or create a prepared context, and
// generate a grounded answer. Cache-creation failures never abort a
// query; they degrade to the full-content path.
type Coordinator struct {
	Embedder  segsocial.Embedder
	Index     segsocial.DocumentIndex
	Contents  segsocial.ContentStore
	Generator segsocial.Generator
	Ledger    *Ledger

	// TopK is how many candidate documents the search considers.
	// Only the first candidate after reranking grounds the answer.
	// Defaults to DefaultTopK.
	TopK int

	// AnchorDocumentID, when set, names a foundational document that
	// is promoted to the front whenever it appears among the
	// candidates, so the base regime always wins ties.
	AnchorDocumentID string

	// Per-call timeouts. Zero values use the package defaults.
	EmbedTimeout    time.Duration
	SearchTimeout   time.Duration
	GenerateTimeout time.Duration

	// Logger, when set, receives per-query diagnostics.
	Logger *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// AnswerQuery answers a question grounded in the single most relevant
// document of the corpus.
func (c *Coordinator) AnswerQuery(ctx context.Context, query string) (*segsocial.QueryResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, segsocial.Errorf(segsocial.EINVALID, "query required")
	}

	start := c.now()

	vector, err := c.embed(ctx, query)
	if err != nil {
		return nil, err
	}

	candidates, err := c.search(ctx, vector)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		// Answering ungrounded is worse than refusing: surface this.
		return nil, segsocial.Errorf(segsocial.ENOTFOUND, "no relevant documents found")
	}

	doc := c.rerank(candidates)[0]
	c.log().Info("document selected",
		"document", doc.ID,
		"title", doc.Title,
		"candidates", len(candidates),
	)

	return c.answer(ctx, start, doc, query)
}

// AnswerWithDocument answers a question grounded in a specific document,
// bypassing retrieval.
func (c *Coordinator) AnswerWithDocument(ctx context.Context, documentID, query string) (*segsocial.QueryResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, segsocial.Errorf(segsocial.EINVALID, "query required")
	}
	if documentID == "" {
		return nil, segsocial.Errorf(segsocial.EINVALID, "document ID required")
	}

	start := c.now()

	doc, err := c.Index.FindDocumentByID(ctx, documentID)
	if err != nil {
		if segsocial.ErrorCode(err) == segsocial.ENOTFOUND {
			return nil, err
		}
		return nil, segsocial.Errorf(segsocial.EUPSTREAM, "document index: %s", segsocial.ErrorMessage(err))
	}

	return c.answer(ctx, start, doc, query)
}

// answer runs the cache-or-fallback generation path for one document.
func (c *Coordinator) answer(ctx context.Context, start time.Time, doc *segsocial.Document, query string) (*segsocial.QueryResult, error) {
	content, err := c.Contents.ReadContent(ctx, doc.ContentRef)
	if err != nil {
		return nil, segsocial.Errorf(segsocial.EUPSTREAM, "content store: %s", segsocial.ErrorMessage(err))
	}
	contentHash := segsocial.HashContent(content)

	session, err := c.Ledger.GetOrCreate(ctx, doc.ID, content, contentHash)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		// Cache creation must never abort the query: degrade to the
		// full-content path and keep the cause in the logs.
		c.log().Warn("prepared context unavailable, using full context",
			"document", doc.ID,
			"error", segsocial.ErrorMessage(err),
		)
		session = nil
	}

	if session != nil {
		answer, err := c.generateWithCache(ctx, session.Handle, query)
		if err == nil {
			return c.result(start, doc, answer, true), nil
		}
		if ctx.Err() != nil {
			return nil, segsocial.Errorf(segsocial.EUPSTREAM, "generator: %s", segsocial.ErrorMessage(err))
		}

		// The provider-side cache can disappear between ledger
		// validation and the generate call. Drop the session and
		// retry exactly once on the full-content path.
		if ierr := c.Ledger.Invalidate(ctx, doc.ID); ierr != nil {
			c.log().Warn("session invalidation failed", "document", doc.ID, "error", ierr)
		}
		c.log().Warn("cached generation failed, retrying with full context",
			"document", doc.ID,
			"error", segsocial.ErrorMessage(err),
		)
	}

	answer, err := c.generateWithContent(ctx, doc.ID, content, query)
	if err != nil {
		return nil, segsocial.Errorf(segsocial.EUPSTREAM, "generator: %s", segsocial.ErrorMessage(err))
	}

	return c.result(start, doc, answer, false), nil
}

func (c *Coordinator) embed(ctx context.Context, query string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, c.embedTimeout())
	defer cancel()

	vector, err := c.Embedder.Embed(ctx, query)
	if err != nil {
		if segsocial.ErrorCode(err) == segsocial.EINVALID {
			return nil, err
		}
		return nil, segsocial.Errorf(segsocial.EUPSTREAM, "embedder: %s", segsocial.ErrorMessage(err))
	}
	return vector, nil
}

func (c *Coordinator) search(ctx context.Context, vector []float32) ([]*segsocial.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, c.searchTimeout())
	defer cancel()

	docs, err := c.Index.Search(ctx, vector, c.topK()+extraCandidates)
	if err != nil {
		return nil, segsocial.Errorf(segsocial.EUPSTREAM, "document index: %s", segsocial.ErrorMessage(err))
	}
	return docs, nil
}

// rerank promotes the anchor document to the front when present and
// trims the candidate list to TopK.
func (c *Coordinator) rerank(candidates []*segsocial.Document) []*segsocial.Document {
	ranked := candidates
	if c.AnchorDocumentID != "" {
		for i, doc := range candidates {
			if doc.ID != c.AnchorDocumentID {
				continue
			}
			ranked = make([]*segsocial.Document, 0, len(candidates))
			ranked = append(ranked, doc)
			ranked = append(ranked, candidates[:i]...)
			ranked = append(ranked, candidates[i+1:]...)
			break
		}
	}
	if len(ranked) > c.topK() {
		ranked = ranked[:c.topK()]
	}
	return ranked
}

func (c *Coordinator) generateWithCache(ctx context.Context, handle, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.generateTimeout())
	defer cancel()
	return c.Generator.GenerateWithCache(ctx, handle, query)
}

func (c *Coordinator) generateWithContent(ctx context.Context, documentID, content, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.generateTimeout())
	defer cancel()
	return c.Generator.GenerateWithContent(ctx, documentID, content, query)
}

func (c *Coordinator) result(start time.Time, doc *segsocial.Document, answer string, cacheUsed bool) *segsocial.QueryResult {
	return &segsocial.QueryResult{
		Answer:        answer,
		DocumentID:    doc.ID,
		DocumentTitle: doc.Title,
		CacheUsed:     cacheUsed,
		Elapsed:       c.now().Sub(start),
	}
}

func (c *Coordinator) topK() int {
	if c.TopK > 0 {
		return c.TopK
	}
	return DefaultTopK
}

func (c *Coordinator) embedTimeout() time.Duration {
	if c.EmbedTimeout > 0 {
		return c.EmbedTimeout
	}
	return DefaultEmbedTimeout
}

func (c *Coordinator) searchTimeout() time.Duration {
	if c.SearchTimeout > 0 {
		return c.SearchTimeout
	}
	return DefaultSearchTimeout
}

func (c *Coordinator) generateTimeout() time.Duration {
	if c.GenerateTimeout > 0 {
		return c.GenerateTimeout
	}
	return DefaultGenerateTimeout
}

func (c *Coordinator) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Coordinator) log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
