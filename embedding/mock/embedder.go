// Package mock provides a deterministic test double for embedding.Embedder.
package mock

import (
	"context"
	"hash/fnv"
)

const vectorDimensions = 384

// Embedder returns hash-derived vectors unless EmbedTextFunc overrides it.
type Embedder struct {
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	CallCount int
}

func NewEmbedder() *Embedder {
	return &Embedder{}
}

func (m *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.CallCount++

	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}

	return deterministicVector(text, vectorDimensions), nil
}

// deterministicVector derives a stable pseudo-embedding from the text hash,
// so equal inputs always produce equal vectors.
func deterministicVector(text string, dimensions int) []float32 {
	hasher := fnv.New64a()
	hasher.Write([]byte(text))
	seed := hasher.Sum64()

	vector := make([]float32, dimensions)
	for i := range vector {
		seed = seed*6364136223846793005 + 1442695040888963407
		vector[i] = float32(int64(seed>>32))/float32(1<<31) - 0.5
	}

	return vector
}
