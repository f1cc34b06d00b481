// Package mock provides function-field mock implementations of the
// segsocial interfaces for use in tests.
package mock

import (
	"context"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
)

var _ segsocial.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of segsocial.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, text string) ([]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedFn(ctx, text)
}
