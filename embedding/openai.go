package embedding

import (
	"context"
	"errors"

	"github.com/aitoolhub/search-service/logger"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIEmbedder generates embeddings against an OpenAI-compatible API.
type OpenAIEmbedder struct {
	embedder embeddings.Embedder
	logger   logger.Logger
}

// NewOpenAIEmbedder connects to the embedding host. An empty token is
// replaced with "none" for local OpenAI-compatible services that skip
// authentication.
func NewOpenAIEmbedder(host, model, token string, logger logger.Logger) (*OpenAIEmbedder, error) {
	if len(host) == 0 {
		return nil, errors.New("embedding host is required")
	}
	if len(token) == 0 {
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(host),
		openai.WithToken(token),
		openai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &OpenAIEmbedder{embedder: embedder, logger: logger}, nil
}

func (e *OpenAIEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Warn("embedding generation failed", "err", err.Error())
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, errors.New("embedder returned no vectors")
	}

	return vectors[0], nil
}
