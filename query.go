package segsocial

import (
	"context"
	"time"
)

// QueryResult is the outcome of one answered query. Immutable after
// construction and never persisted by the core.
type QueryResult struct {
	// Answer is the generated text.
	Answer string `json:"answer"`

	// DocumentID identifies the document used for grounding.
	DocumentID string `json:"documentId"`

	// DocumentTitle is the grounding document's title.
	DocumentTitle string `json:"documentTitle"`

	// CacheUsed is true iff a valid prepared context existed or was
	// created and was actually used for generation.
	CacheUsed bool `json:"cacheUsed"`

	// Elapsed is the wall-clock duration of the full query path.
	Elapsed time.Duration `json:"elapsed"`
}

// QueryService answers natural language questions about the corpus.
type QueryService interface {
	// AnswerQuery answers a question grounded in the single most
	// relevant document. Returns EINVALID for an empty query and
	// ENOTFOUND when no relevant document exists.
	AnswerQuery(ctx context.Context, query string) (*QueryResult, error)

	// AnswerWithDocument answers a question grounded in a specific
	// document, bypassing retrieval. Returns ENOTFOUND if the
	// document does not exist.
	AnswerWithDocument(ctx context.Context, documentID, query string) (*QueryResult, error)
}

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
