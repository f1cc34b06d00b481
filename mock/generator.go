package mock

import (
	"context"
	"time"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
)

var _ segsocial.Generator = (*Generator)(nil)

// Generator is a mock implementation of segsocial.Generator.
type Generator struct {
	ModelFn               func() string
	CreateCacheFn         func(ctx context.Context, documentID, content string, ttl time.Duration) (string, time.Time, error)
	GenerateWithCacheFn   func(ctx context.Context, handle, query string) (string, error)
	GenerateWithContentFn func(ctx context.Context, documentID, content, query string) (string, error)
}

func (g *Generator) Model() string {
	if g.ModelFn == nil {
		return "mock-model"
	}
	return g.ModelFn()
}

func (g *Generator) CreateCache(ctx context.Context, documentID, content string, ttl time.Duration) (string, time.Time, error) {
	return g.CreateCacheFn(ctx, documentID, content, ttl)
}

func (g *Generator) GenerateWithCache(ctx context.Context, handle, query string) (string, error) {
	return g.GenerateWithCacheFn(ctx, handle, query)
}

func (g *Generator) GenerateWithContent(ctx context.Context, documentID, content, query string) (string, error) {
	return g.GenerateWithContentFn(ctx, documentID, content, query)
}
