// Package search routes a request to one of three backend strategies,
// normalizes the results, and assembles the response.
package search

import (
	"context"
	"strings"
	"time"

	"github.com/aitoolhub/search-service/analytics"
	"github.com/aitoolhub/search-service/db/searchdb"
	"github.com/aitoolhub/search-service/embedding"
	"github.com/aitoolhub/search-service/logger"
)

var allEntities = []string{"content", "company", "job", "user"}

type Service struct {
	logger              logger.Logger
	db                  searchdb.DB
	embedder            embedding.Embedder
	analytics           *analytics.Emitter
	similarityThreshold float64
	embedTimeout        time.Duration
}

// New wires the orchestrator. embedder may be nil, which disables the
// semantic path entirely; emitter may be nil, which disables analytics.
func New(logger logger.Logger, db searchdb.DB, embedder embedding.Embedder, emitter *analytics.Emitter, similarityThreshold float64, embedTimeout time.Duration) *Service {
	return &Service{
		logger:              logger,
		db:                  db,
		embedder:            embedder,
		analytics:           emitter,
		similarityThreshold: similarityThreshold,
		embedTimeout:        embedTimeout,
	}
}

// Search executes the strategy the request classifies into and returns the
// assembled response. authHeader is only forwarded to analytics.
func (s *Service) Search(ctx context.Context, req Request, authHeader string) (*Response, error) {
	start := time.Now()
	strategy := SelectStrategy(req)

	var results []Result
	var dbTime time.Duration
	total := 0
	authoritativeTotal := false

	switch strategy {
	case StrategyJobs:
		dbStart := time.Now()
		rows, jobTotal, err := s.db.FilterJobs(ctx, jobFilters(req), req.Limit, req.Offset)
		dbTime = time.Since(dbStart)
		if err != nil {
			return nil, &BackendError{Proc: "filter_by_category_and_filters", Err: err}
		}
		results = normalizeJobRows(rows)
		total = jobTotal
		authoritativeTotal = true

	case StrategyUnified:
		entities := req.Entities
		if len(entities) == 0 {
			entities = allEntities
		}
		dbStart := time.Now()
		rows, err := s.db.FederatedSearch(ctx, strings.TrimSpace(req.Query), entities, req.Limit, req.Offset)
		dbTime = time.Since(dbStart)
		if err != nil {
			return nil, &BackendError{Proc: "federated_search", Err: err}
		}
		results = normalizeUnifiedRows(rows)

	default:
		contentResults, contentDBTime, err := s.searchContent(ctx, req)
		if err != nil {
			return nil, err
		}
		results = contentResults
		dbTime = contentDBTime
	}

	applyHighlights(results, req.Query)

	if s.analytics != nil {
		s.analytics.Emit(analytics.Event{
			Query:       req.Query,
			Filters:     analyticsFilters(req, strategy),
			ResultCount: len(results),
			SearchType:  string(strategy),
		}, authHeader)
	}

	if !authoritativeTotal {
		// Best approximation without a backend count.
		total = req.Offset + len(results)
	}

	return &Response{
		Results:    results,
		Query:      req.Query,
		Filters:    appliedFilters(req, strategy),
		Pagination: buildPagination(results, req, total, authoritativeTotal),
		Performance: Performance{
			DBTime:    dbTime.Milliseconds(),
			TotalTime: time.Since(start).Milliseconds(),
		},
		SearchType: string(strategy),
	}, nil
}

// searchContent is the two-phase content path: semantic first, keyword as
// the fallback and final authority. Only keyword errors surface. The
// returned duration covers the backend calls only, not embedding
// generation.
func (s *Service) searchContent(ctx context.Context, req Request) ([]Result, time.Duration, error) {
	query := strings.TrimSpace(req.Query)

	var dbTime time.Duration
	if len(query) > 0 && s.embedder != nil {
		results, semanticTime, reason, err := s.trySemantic(ctx, query, req)
		dbTime += semanticTime
		if reason == fallbackNone {
			return results, dbTime, nil
		}
		keyvals := []interface{}{"reason", string(reason)}
		if err != nil {
			keyvals = append(keyvals, "err", err.Error())
		}
		s.logger.Warn("semantic search unavailable, falling back to keyword search", keyvals...)
	}

	keywordStart := time.Now()
	rows, err := s.db.KeywordSearch(ctx, searchdb.KeywordParams{
		Query:      query,
		Categories: req.Categories,
		Tags:       req.Tags,
		Authors:    req.Authors,
		Sort:       req.Sort,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	dbTime += time.Since(keywordStart)
	if err != nil {
		return nil, dbTime, &BackendError{Proc: "keyword_search", Err: err}
	}

	return normalizeContentRows(rows), dbTime, nil
}

func (s *Service) trySemantic(ctx context.Context, query string, req Request) ([]Result, time.Duration, fallbackReason, error) {
	embedCtx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()

	vector, err := s.embedder.EmbedText(embedCtx, query)
	if err != nil {
		return nil, 0, fallbackEmbeddingError, err
	}

	semanticStart := time.Now()
	rows, err := s.db.SemanticSearch(ctx, vector, s.similarityThreshold, req.Limit, req.Offset)
	elapsed := time.Since(semanticStart)
	if err != nil {
		return nil, elapsed, fallbackSemanticError, err
	}
	if len(rows) == 0 {
		return nil, elapsed, fallbackSemanticEmpty, nil
	}

	return normalizeSemanticRows(rows), elapsed, fallbackNone, nil
}

// Autocomplete suggests completions for a query prefix.
func (s *Service) Autocomplete(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	rows, err := s.db.AutocompleteSuggestions(ctx, query, limit)
	if err != nil {
		return nil, &BackendError{Proc: "get_autocomplete_suggestions", Err: err}
	}

	suggestions := make([]Suggestion, len(rows))
	for i, row := range rows {
		suggestions[i] = Suggestion{
			Text:        row.Text,
			SearchCount: row.SearchCount,
			IsPopular:   row.IsPopular,
		}
	}
	return suggestions, nil
}

// Facets returns per-category counts with their tag and author sets.
func (s *Service) Facets(ctx context.Context) ([]Facet, error) {
	rows, err := s.db.SearchFacets(ctx)
	if err != nil {
		return nil, &BackendError{Proc: "get_search_facets", Err: err}
	}

	facets := make([]Facet, len(rows))
	for i, row := range rows {
		facets[i] = Facet{
			Category:     row.Category,
			ContentCount: row.ContentCount,
			Tags:         row.Tags,
			Authors:      row.Authors,
		}
	}
	return facets, nil
}

// jobFilters forwards only the filters the request actually set. Omitted
// filters stay NULL so the backend applies its own defaults.
func jobFilters(req Request) searchdb.JobFilters {
	filters := searchdb.JobFilters{Remote: req.JobRemote}
	if len(req.JobCategory) > 0 {
		filters.Category = &req.JobCategory
	}
	if len(req.JobEmployment) > 0 {
		filters.EmploymentType = &req.JobEmployment
	}
	if len(req.JobExperience) > 0 {
		filters.ExperienceLevel = &req.JobExperience
	}
	return filters
}

func buildPagination(results []Result, req Request, total int, authoritative bool) Pagination {
	hasMore := len(results) == req.Limit
	if authoritative {
		hasMore = req.Offset+req.Limit < total
	}

	return Pagination{
		Total:   total,
		Limit:   req.Limit,
		Offset:  req.Offset,
		HasMore: hasMore,
	}
}

func appliedFilters(req Request, strategy Strategy) AppliedFilters {
	switch strategy {
	case StrategyJobs:
		return AppliedFilters{
			JobCategory:   req.JobCategory,
			JobEmployment: req.JobEmployment,
			JobExperience: req.JobExperience,
			JobRemote:     req.JobRemote,
		}
	case StrategyUnified:
		return AppliedFilters{
			Entities: req.Entities,
		}
	default:
		return AppliedFilters{
			Categories: req.Categories,
			Tags:       req.Tags,
			Authors:    req.Authors,
			Sort:       req.Sort,
		}
	}
}

func analyticsFilters(req Request, strategy Strategy) map[string]any {
	filters := map[string]any{}
	switch strategy {
	case StrategyJobs:
		if len(req.JobCategory) > 0 {
			filters["jobCategory"] = req.JobCategory
		}
		if len(req.JobEmployment) > 0 {
			filters["jobEmployment"] = req.JobEmployment
		}
		if len(req.JobExperience) > 0 {
			filters["jobExperience"] = req.JobExperience
		}
		if req.JobRemote != nil {
			filters["jobRemote"] = *req.JobRemote
		}
	case StrategyUnified:
		filters["entities"] = req.Entities
	default:
		if len(req.Categories) > 0 {
			filters["categories"] = req.Categories
		}
		if len(req.Tags) > 0 {
			filters["tags"] = req.Tags
		}
		if len(req.Authors) > 0 {
			filters["authors"] = req.Authors
		}
		if len(req.Sort) > 0 {
			filters["sort"] = req.Sort
		}
	}
	return filters
}
