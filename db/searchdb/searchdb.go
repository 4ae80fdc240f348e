// Package searchdb is the client for the search procedures hosted by the
// Postgres backend.
package searchdb

import "context"

type DB interface {
	KeywordSearch(ctx context.Context, params KeywordParams) ([]ContentRow, error)
	SemanticSearch(ctx context.Context, queryEmbedding []float32, threshold float64, limit, offset int) ([]SemanticRow, error)
	FederatedSearch(ctx context.Context, query string, entities []string, limit, offset int) ([]UnifiedRow, error)
	FilterJobs(ctx context.Context, filters JobFilters, limit, offset int) ([]JobRow, int, error)
	AutocompleteSuggestions(ctx context.Context, prefix string, limit int) ([]Suggestion, error)
	SearchFacets(ctx context.Context) ([]Facet, error)
	Close() error
}
