package gemini

import (
	"context"
	"errors"
	"net/http"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
	"google.golang.org/genai"
)

// DefaultEmbeddingModel is the embedding model used when none is
// configured.
const DefaultEmbeddingModel = "text-embedding-004"

// Ensure Embedder implements segsocial.Embedder at compile time.
var _ segsocial.Embedder = (*Embedder)(nil)

// Embedder implements segsocial.Embedder using Google Gemini.
type Embedder struct {
	client *genai.Client
	model  string
}

// NewEmbedder creates an Embedder for the given embedding model. An
// empty model selects DefaultEmbeddingModel.
func NewEmbedder(client *genai.Client, model string) *Embedder {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &Embedder{client: client, model: model}
}

// Embed returns the embedding vector for the given text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, segsocial.Errorf(segsocial.EINVALID, "text required")
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model,
		[]*genai.Content{
			genai.NewContentFromText(text, "user"),
		},
		nil,
	)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			if apiErr.Code == http.StatusBadRequest {
				return nil, segsocial.Errorf(segsocial.EINVALID, "gemini embedding: %s", apiErr.Message)
			}
			return nil, segsocial.Errorf(segsocial.EUPSTREAM, "gemini embedding: %s", apiErr.Message)
		}
		return nil, err
	}
	if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, segsocial.Errorf(segsocial.EINTERNAL, "gemini returned an empty embedding")
	}

	return result.Embeddings[0].Values, nil
}
