package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	segsocial "github.com/wachinalpha/Bot-seguridad-social"
	main "github.com/wachinalpha/Bot-seguridad-social/cmd/segsocial"
	"github.com/wachinalpha/Bot-seguridad-social/mock"
)

func TestAskCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("asks question and prints answer", func(t *testing.T) {
		t.Parallel()

		queries := &mock.QueryService{
			AnswerQueryFn: func(_ context.Context, query string) (*segsocial.QueryResult, error) {
				if query == "¿Cuántos años de aportes necesito para jubilarme?" {
					return &segsocial.QueryResult{
						Answer:        "Según la Ley 24.241, se requieren 30 años de servicios con aportes [ley_24241:L19].",
						DocumentID:    "ley_24241",
						DocumentTitle: "Sistema Integrado de Jubilaciones y Pensiones",
						CacheUsed:     true,
						Elapsed:       1200 * time.Millisecond,
					}, nil
				}
				return nil, segsocial.Errorf(segsocial.ENOTFOUND, "no relevant documents found")
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  stderr,
			Queries: queries,
		}

		cmd := &main.AskCmd{Question: "¿Cuántos años de aportes necesito para jubilarme?"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "30 años de servicios")
		assert.Contains(t, stderr.String(), "ley_24241")
		assert.Contains(t, stderr.String(), "cache")
	})

	t.Run("asks with explicit document", func(t *testing.T) {
		t.Parallel()

		queries := &mock.QueryService{
			AnswerWithDocumentFn: func(_ context.Context, documentID, query string) (*segsocial.QueryResult, error) {
				return &segsocial.QueryResult{
					Answer:     "Respuesta sobre " + documentID,
					DocumentID: documentID,
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Queries: queries,
		}

		cmd := &main.AskCmd{Question: "¿Quiénes cobran AUH?", Doc: "ley_24714"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Respuesta sobre ley_24714")
	})

	t.Run("reports not found", func(t *testing.T) {
		t.Parallel()

		queries := &mock.QueryService{
			AnswerQueryFn: func(_ context.Context, query string) (*segsocial.QueryResult, error) {
				return nil, segsocial.Errorf(segsocial.ENOTFOUND, "no relevant documents found")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Queries: queries,
		}

		cmd := &main.AskCmd{Question: "¿Qué dice la ley de alquileres?"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, segsocial.ENOTFOUND, segsocial.ErrorCode(err))
		assert.Contains(t, stderr.String(), "no relevant documents found")
	})
}
