package mock

import (
	"context"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
)

var _ segsocial.QueryService = (*QueryService)(nil)

// QueryService is a mock implementation of segsocial.QueryService.
type QueryService struct {
	AnswerQueryFn        func(ctx context.Context, query string) (*segsocial.QueryResult, error)
	AnswerWithDocumentFn func(ctx context.Context, documentID, query string) (*segsocial.QueryResult, error)
}

func (s *QueryService) AnswerQuery(ctx context.Context, query string) (*segsocial.QueryResult, error) {
	return s.AnswerQueryFn(ctx, query)
}

func (s *QueryService) AnswerWithDocument(ctx context.Context, documentID, query string) (*segsocial.QueryResult, error) {
	return s.AnswerWithDocumentFn(ctx, documentID, query)
}

var _ segsocial.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of segsocial.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return tc.CountTokensFn(ctx, text)
}
