// Package slog provides logging decorators for segsocial services.
package slog

import (
	"context"
	"log/slog"
	"time"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
)

// queryPreviewLength bounds how much of a query goes into log lines.
const queryPreviewLength = 120

// Ensure QueryService implements segsocial.QueryService.
var _ segsocial.QueryService = (*QueryService)(nil)

// QueryService wraps a segsocial.QueryService with structured logging
// of every answered query.
type QueryService struct {
	next   segsocial.QueryService
	logger *slog.Logger
}

// NewQueryService creates a new logging QueryService.
func NewQueryService(next segsocial.QueryService, logger *slog.Logger) *QueryService {
	return &QueryService{next: next, logger: logger}
}

// AnswerQuery delegates to the wrapped service and logs the outcome.
func (s *QueryService) AnswerQuery(ctx context.Context, query string) (*segsocial.QueryResult, error) {
	begin := time.Now()
	result, err := s.next.AnswerQuery(ctx, query)
	s.logOutcome("query answered", query, result, err, time.Since(begin))
	return result, err
}

// AnswerWithDocument delegates to the wrapped service and logs the outcome.
func (s *QueryService) AnswerWithDocument(ctx context.Context, documentID, query string) (*segsocial.QueryResult, error) {
	begin := time.Now()
	result, err := s.next.AnswerWithDocument(ctx, documentID, query)
	s.logOutcome("query answered with document", query, result, err, time.Since(begin))
	return result, err
}

func (s *QueryService) logOutcome(msg, query string, result *segsocial.QueryResult, err error, duration time.Duration) {
	if err != nil {
		s.logger.Error("query failed",
			"query", preview(query),
			"code", segsocial.ErrorCode(err),
			"error", err,
			"duration", duration,
		)
		return
	}
	s.logger.Info(msg,
		"query", preview(query),
		"document", result.DocumentID,
		"cache_used", result.CacheUsed,
		"duration", duration,
	)
}

// preview truncates a query for logging without splitting a UTF-8
// sequence.
func preview(query string) string {
	if len(query) <= queryPreviewLength {
		return query
	}
	cut := queryPreviewLength
	for cut > 0 && query[cut]&0xC0 == 0x80 {
		cut--
	}
	return query[:cut] + "..."
}
