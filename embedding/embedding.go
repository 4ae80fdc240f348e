// Package embedding generates query vectors for semantic search.
package embedding

import "context"

// Embedder turns query text into a vector. Implementations must be safe for
// concurrent use.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}
