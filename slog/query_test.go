package slog_test

import (
	"bytes"
	"context"
	stdslog "log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	segsocial "github.com/wachinalpha/Bot-seguridad-social"
	"github.com/wachinalpha/Bot-seguridad-social/mock"
	"github.com/wachinalpha/Bot-seguridad-social/slog"
)

func newCapturedLogger() (*stdslog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return stdslog.New(stdslog.NewTextHandler(&buf, nil)), &buf
}

func TestQueryService_LogsSuccess(t *testing.T) {
	t.Parallel()

	logger, buf := newCapturedLogger()
	inner := &mock.QueryService{
		AnswerQueryFn: func(_ context.Context, query string) (*segsocial.QueryResult, error) {
			return &segsocial.QueryResult{
				Answer:     "Según la ley...",
				DocumentID: "ley_24241",
				CacheUsed:  true,
				Elapsed:    time.Second,
			}, nil
		},
	}

	svc := slog.NewQueryService(inner, logger)
	result, err := svc.AnswerQuery(context.Background(), "¿Cuántos años de aportes necesito?")
	require.NoError(t, err)
	assert.True(t, result.CacheUsed)

	out := buf.String()
	assert.Contains(t, out, "query answered")
	assert.Contains(t, out, "ley_24241")
	assert.Contains(t, out, "cache_used=true")
}

func TestQueryService_LogsFailure(t *testing.T) {
	t.Parallel()

	logger, buf := newCapturedLogger()
	inner := &mock.QueryService{
		AnswerQueryFn: func(_ context.Context, query string) (*segsocial.QueryResult, error) {
			return nil, segsocial.Errorf(segsocial.ENOTFOUND, "no relevant documents found")
		},
	}

	svc := slog.NewQueryService(inner, logger)
	_, err := svc.AnswerQuery(context.Background(), "¿Qué dice la ley de alquileres?")
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "query failed")
	assert.Contains(t, out, "code="+segsocial.ENOTFOUND)
}

func TestQueryService_TruncatesLongQueries(t *testing.T) {
	t.Parallel()

	logger, buf := newCapturedLogger()
	inner := &mock.QueryService{
		AnswerQueryFn: func(_ context.Context, query string) (*segsocial.QueryResult, error) {
			return &segsocial.QueryResult{DocumentID: "ley_24241"}, nil
		},
	}

	svc := slog.NewQueryService(inner, logger)
	long := strings.Repeat("jubilación ", 40)
	_, err := svc.AnswerQuery(context.Background(), long)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "...")
	assert.NotContains(t, buf.String(), long)
}

func TestQueryService_AnswerWithDocument(t *testing.T) {
	t.Parallel()

	logger, buf := newCapturedLogger()
	inner := &mock.QueryService{
		AnswerWithDocumentFn: func(_ context.Context, documentID, query string) (*segsocial.QueryResult, error) {
			return &segsocial.QueryResult{DocumentID: documentID}, nil
		},
	}

	svc := slog.NewQueryService(inner, logger)
	result, err := svc.AnswerWithDocument(context.Background(), "ley_24714", "¿Quiénes cobran AUH?")
	require.NoError(t, err)
	assert.Equal(t, "ley_24714", result.DocumentID)
	assert.Contains(t, buf.String(), "query answered with document")
}
