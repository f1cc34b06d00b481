// Package gemini provides Google Gemini implementations of the
// segsocial embedding, generation, and token counting interfaces.
// Prepared contexts map to Gemini's cached content feature.
package gemini

import (
	"context"
	"errors"
	"net/http"
	"time"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
	"google.golang.org/genai"
)

// DefaultModel is the generation model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Generator implements segsocial.Generator at compile time.
var _ segsocial.Generator = (*Generator)(nil)

// Generator implements segsocial.Generator using Google Gemini. One
// Generator is bound to one model; cache sessions created through it
// carry that binding.
type Generator struct {
	// URLs maps document IDs to official law URLs. When set, inline
	// citations in answers are rewritten as markdown links.
	URLs map[string]string

	client *genai.Client
	model  string
}

// NewGenerator creates a Generator bound to the given model. An empty
// model selects DefaultModel.
func NewGenerator(client *genai.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}
}

// Model returns the generation model identifier.
func (g *Generator) Model() string {
	return g.model
}

// CreateCache uploads the document as Gemini cached content. The system
// instruction is baked into the cache so cached generation requests
// carry only the query.
func (g *Generator) CreateCache(ctx context.Context, documentID, content string, ttl time.Duration) (string, time.Time, error) {
	block := FormatDocumentBlock(documentID, content)

	cache, err := g.client.Caches.Create(ctx, g.model, &genai.CreateCachedContentConfig{
		DisplayName: documentID,
		TTL:         ttl,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: SystemPrompt}},
		},
		Contents: []*genai.Content{
			genai.NewContentFromText(block, "user"),
		},
	})
	if err != nil {
		return "", time.Time{}, classifyCacheError(err)
	}
	if cache == nil || cache.Name == "" {
		return "", time.Time{}, segsocial.Errorf(segsocial.EINTERNAL, "gemini returned an unnamed cache")
	}

	return cache.Name, cache.ExpireTime, nil
}

// GenerateWithCache answers the query against an existing cached
// context. Only the task prompt travels to the provider.
func (g *Generator) GenerateWithCache(ctx context.Context, handle, query string) (string, error) {
	temp := float32(0.4)
	return g.generate(ctx, BuildTaskPrompt(query), &genai.GenerateContentConfig{
		CachedContent: handle,
		Temperature:   &temp,
	})
}

// GenerateWithContent answers the query with the full document text
// inlined. This is the fallback path when no prepared context exists.
func (g *Generator) GenerateWithContent(ctx context.Context, documentID, content, query string) (string, error) {
	temp := float32(0.4)
	prompt := BuildContextPrompt(FormatDocumentBlock(documentID, content), query)
	return g.generate(ctx, prompt, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: SystemPrompt}},
		},
		Temperature: &temp,
	})
}

func (g *Generator) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", classifyGenerateError(err)
	}
	if result == nil {
		return "", segsocial.Errorf(segsocial.EINTERNAL, "gemini returned nil result")
	}

	return LinkifyCitations(result.Text(), g.URLs), nil
}

// classifyCacheError maps provider failures during cache creation.
// 429 and 403 signal that the caching capability is not entitled for
// the account tier; everything else stays a regular upstream failure.
func classifyCacheError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests, http.StatusForbidden:
			return segsocial.Errorf(segsocial.EEXHAUSTED, "context caching not available: %s", apiErr.Message)
		}
		return segsocial.Errorf(segsocial.EUPSTREAM, "gemini cache creation: %s", apiErr.Message)
	}
	return err
}

func classifyGenerateError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return segsocial.Errorf(segsocial.EUPSTREAM, "gemini generation: %s", apiErr.Message)
	}
	return err
}
