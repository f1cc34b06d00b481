package ingest

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
)

// DefaultConcurrency bounds how many laws are processed at once.
const DefaultConcurrency = 4

// summaryLength is how much of a law's text goes into its summary when
// the config carries no description.
const summaryLength = 500

// cacheMinTokens is the provider's minimum cached-content size. Texts
// below it still work, they just never benefit from a prepared context.
const cacheMinTokens = 4096

// CacheInvalidator drops prepared-context bindings for a document.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, documentID string) error
}

// Result summarizes one corpus ingestion run.
type Result struct {
	Ingested int
	Failed   int
}

// Ingester loads laws from converted markdown files into all stores.
// Failures are per-law: one broken law does not abort the run.
type Ingester struct {
	Registry segsocial.DocumentRegistry
	Contents segsocial.ContentStore
	Index    segsocial.DocumentIndex
	Embedder segsocial.Embedder

	// Tokens, when set, is used to warn about laws too small to ever
	// be cached by the provider.
	Tokens segsocial.TokenCounter

	// SourceDir holds the converted law texts, one <document id>.md
	// file per law.
	SourceDir string

	// Concurrency bounds parallel law processing. Defaults to
	// DefaultConcurrency.
	Concurrency int

	// Limiter throttles embedding calls. Defaults to 2 requests per
	// second.
	Limiter *rate.Limiter

	Logger *slog.Logger
}

// IngestCorpus processes every law in the config. The returned error
// is non-nil only when the run as a whole could not proceed; per-law
// failures are logged and counted in Result.Failed.
func (i *Ingester) IngestCorpus(ctx context.Context, cfg *CorpusConfig) (*Result, error) {
	var ingested, failed atomic.Int64

	limiter := i.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Limit(2), 1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency())

	for _, ley := range cfg.Leyes {
		ley := ley
		g.Go(func() error {
			if err := i.ingestLaw(gctx, &ley, limiter); err != nil {
				failed.Add(1)
				i.log().Error("law ingestion failed",
					"document", ley.DocumentID(),
					"error", err)
				return nil
			}
			ingested.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Result{
		Ingested: int(ingested.Load()),
		Failed:   int(failed.Load()),
	}, nil
}

// ingestLaw writes one law through the content store, registry and
// vector index.
func (i *Ingester) ingestLaw(ctx context.Context, ley *LawConfig, limiter *rate.Limiter) error {
	doc := ley.Document()

	content, err := i.readSource(doc.ID)
	if err != nil {
		return err
	}

	if doc.Summary == "" {
		doc.Summary = extractSummary(content, doc.Title)
	}

	if err := i.Contents.WriteContent(ctx, doc.ContentRef, content); err != nil {
		return err
	}
	if err := i.Registry.UpsertDocument(ctx, doc); err != nil {
		return err
	}

	if err := limiter.Wait(ctx); err != nil {
		return err
	}
	vector, err := i.Embedder.Embed(ctx, doc.SearchableText())
	if err != nil {
		return err
	}
	if err := i.Index.IndexDocument(ctx, doc, vector); err != nil {
		return err
	}

	i.warnIfBelowCacheMinimum(ctx, doc.ID, content)

	i.log().Info("law ingested",
		"document", doc.ID,
		"title", doc.Title,
		"bytes", len(content))

	return nil
}

// readSource loads the converted markdown for a law.
func (i *Ingester) readSource(documentID string) (string, error) {
	path := filepath.Join(i.SourceDir, documentID+".md")
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", segsocial.Errorf(segsocial.ENOTFOUND, "source text %s not found", path)
	}
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", segsocial.Errorf(segsocial.EINVALID, "source text %s is empty", path)
	}
	return string(b), nil
}

// warnIfBelowCacheMinimum logs when a law's text is too small for the
// provider to cache. Counting is best effort.
func (i *Ingester) warnIfBelowCacheMinimum(ctx context.Context, documentID, content string) {
	if i.Tokens == nil {
		return
	}
	tokens, err := i.Tokens.CountTokens(ctx, content)
	if err != nil {
		i.log().Warn("token count failed", "document", documentID, "error", err)
		return
	}
	if tokens < cacheMinTokens {
		i.log().Warn("law below provider cache minimum, queries will inline its text",
			"document", documentID,
			"tokens", tokens,
			"minimum", cacheMinTokens)
	}
}

func (i *Ingester) concurrency() int {
	if i.Concurrency > 0 {
		return i.Concurrency
	}
	return DefaultConcurrency
}

func (i *Ingester) log() *slog.Logger {
	if i.Logger != nil {
		return i.Logger
	}
	return slog.Default()
}

// extractSummary takes the opening of a law's text, skipping markdown
// headers and blank lines, for use in embeddings and listings.
func extractSummary(content, title string) string {
	var b strings.Builder
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(line)
		if b.Len() >= summaryLength {
			break
		}
	}

	summary := b.String()
	if len(summary) > summaryLength {
		summary = summary[:summaryLength]
		if n := strings.LastIndex(summary, " "); n > 0 {
			summary = summary[:n]
		}
	}
	if len(summary) < 50 {
		return "Texto completo de la " + title
	}
	return summary
}

// Remover takes a document out of every store it was ingested into.
type Remover struct {
	Registry segsocial.DocumentRegistry
	Contents segsocial.ContentStore
	Index    segsocial.DocumentIndex
	Ledger   CacheInvalidator

	Logger *slog.Logger
}

// RemoveDocument removes the document from the ledger, vector index,
// content store and registry. Returns ENOTFOUND when the document was
// never ingested.
func (r *Remover) RemoveDocument(ctx context.Context, documentID string) error {
	doc, err := r.Registry.FindDocumentByID(ctx, documentID)
	if err != nil {
		return err
	}

	if r.Ledger != nil {
		if err := r.Ledger.Invalidate(ctx, documentID); err != nil {
			r.log().Warn("cache invalidation failed", "document", documentID, "error", err)
		}
	}

	if err := r.Index.DeleteDocument(ctx, documentID); err != nil &&
		segsocial.ErrorCode(err) != segsocial.ENOTFOUND {
		return err
	}

	if err := r.Contents.RemoveContent(ctx, doc.ContentRef); err != nil {
		return err
	}

	if err := r.Registry.DeleteDocument(ctx, documentID); err != nil {
		return err
	}

	r.log().Info("document removed", "document", documentID)
	return nil
}

func (r *Remover) log() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
