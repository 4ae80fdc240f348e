package searchdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aitoolhub/search-service/config"
	"github.com/aitoolhub/search-service/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

const connectTimeout = 10 * time.Second

type PostgresDB struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// New creates and verifies a pgxpool connection to the search backend.
func New(ctx context.Context, logger logger.Logger, cfg *config.Config) (*PostgresDB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	logger.Info("connected to search backend")
	return &PostgresDB{pool: pool, logger: logger}, nil
}

func (db *PostgresDB) KeywordSearch(ctx context.Context, params KeywordParams) ([]ContentRow, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, description, category, slug, author, tags, created_at,
		        relevance_score, view_count, copy_count, bookmark_count
		 FROM keyword_search($1, $2, $3, $4, $5, $6, $7)`,
		params.Query, params.Categories, params.Tags, params.Authors, params.Sort,
		params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("keyword_search: %w", err)
	}
	defer rows.Close()

	results := []ContentRow{}
	for rows.Next() {
		var row ContentRow
		if err := rows.Scan(&row.ID, &row.Title, &row.Description, &row.Category,
			&row.Slug, &row.Author, &row.Tags, &row.CreatedAt, &row.RelevanceScore,
			&row.ViewCount, &row.CopyCount, &row.BookmarkCount); err != nil {
			return nil, fmt.Errorf("keyword_search scan: %w", err)
		}
		results = append(results, row)
	}

	return results, rows.Err()
}

func (db *PostgresDB) SemanticSearch(ctx context.Context, queryEmbedding []float32, threshold float64, limit, offset int) ([]SemanticRow, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT content_id, name, summary, category, slug, similarity
		 FROM semantic_search($1::vector, $2, $3, $4)`,
		vectorLiteral(queryEmbedding), threshold, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("semantic_search: %w", err)
	}
	defer rows.Close()

	results := []SemanticRow{}
	for rows.Next() {
		var row SemanticRow
		if err := rows.Scan(&row.ContentID, &row.Name, &row.Summary, &row.Category,
			&row.Slug, &row.Similarity); err != nil {
			return nil, fmt.Errorf("semantic_search scan: %w", err)
		}
		results = append(results, row)
	}

	return results, rows.Err()
}

func (db *PostgresDB) FederatedSearch(ctx context.Context, query string, entities []string, limit, offset int) ([]UnifiedRow, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT entity_type, id, title, description, category, slug, author, tags,
		        created_at, rank
		 FROM federated_search($1, $2, $3, $4)`,
		query, entities, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("federated_search: %w", err)
	}
	defer rows.Close()

	results := []UnifiedRow{}
	for rows.Next() {
		var row UnifiedRow
		if err := rows.Scan(&row.EntityType, &row.ID, &row.Title, &row.Description,
			&row.Category, &row.Slug, &row.Author, &row.Tags, &row.CreatedAt,
			&row.Rank); err != nil {
			return nil, fmt.Errorf("federated_search scan: %w", err)
		}
		results = append(results, row)
	}

	return results, rows.Err()
}

func (db *PostgresDB) FilterJobs(ctx context.Context, filters JobFilters, limit, offset int) ([]JobRow, int, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, description, category, slug, company, employment_type,
		        experience_level, remote, created_at, relevance_score, total_count
		 FROM filter_by_category_and_filters($1, $2, $3, $4, $5, $6)`,
		filters.Category, filters.EmploymentType, filters.ExperienceLevel,
		filters.Remote, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("filter_by_category_and_filters: %w", err)
	}
	defer rows.Close()

	results := []JobRow{}
	total := 0
	for rows.Next() {
		var row JobRow
		if err := rows.Scan(&row.ID, &row.Title, &row.Description, &row.Category,
			&row.Slug, &row.Company, &row.EmploymentType, &row.ExperienceLevel,
			&row.Remote, &row.CreatedAt, &row.RelevanceScore, &total); err != nil {
			return nil, 0, fmt.Errorf("filter_by_category_and_filters scan: %w", err)
		}
		results = append(results, row)
	}

	return results, total, rows.Err()
}

func (db *PostgresDB) AutocompleteSuggestions(ctx context.Context, prefix string, limit int) ([]Suggestion, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT text, search_count, is_popular
		 FROM get_autocomplete_suggestions($1, $2)`,
		prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("get_autocomplete_suggestions: %w", err)
	}
	defer rows.Close()

	suggestions := []Suggestion{}
	for rows.Next() {
		var suggestion Suggestion
		if err := rows.Scan(&suggestion.Text, &suggestion.SearchCount, &suggestion.IsPopular); err != nil {
			return nil, fmt.Errorf("get_autocomplete_suggestions scan: %w", err)
		}
		suggestions = append(suggestions, suggestion)
	}

	return suggestions, rows.Err()
}

func (db *PostgresDB) SearchFacets(ctx context.Context) ([]Facet, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT category, content_count, tags, authors FROM get_search_facets()`)
	if err != nil {
		return nil, fmt.Errorf("get_search_facets: %w", err)
	}
	defer rows.Close()

	facets := []Facet{}
	for rows.Next() {
		var facet Facet
		if err := rows.Scan(&facet.Category, &facet.ContentCount, &facet.Tags, &facet.Authors); err != nil {
			return nil, fmt.Errorf("get_search_facets scan: %w", err)
		}
		facets = append(facets, facet)
	}

	return facets, rows.Err()
}

func (db *PostgresDB) Close() error {
	db.pool.Close()
	return nil
}

// vectorLiteral renders an embedding in pgvector's text format.
func vectorLiteral(embedding []float32) string {
	var builder strings.Builder
	builder.WriteByte('[')
	for i, value := range embedding {
		if i > 0 {
			builder.WriteByte(',')
		}
		builder.WriteString(strconv.FormatFloat(float64(value), 'f', -1, 32))
	}
	builder.WriteByte(']')

	return builder.String()
}
