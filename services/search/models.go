package search

import (
	"time"

	"github.com/aitoolhub/search-service/db/searchdb"
)

// Request holds the normalized query parameters of one search call.
type Request struct {
	Query         string
	Categories    []string
	Tags          []string
	Authors       []string
	Entities      []string
	Sort          string
	JobCategory   string
	JobEmployment string
	JobExperience string
	JobRemote     *bool
	Limit         int
	Offset        int
}

// HasJobFilters reports whether any job filter is present. Any one of them
// forces the jobs strategy, whatever else the request carries.
func (r Request) HasJobFilters() bool {
	return len(r.JobCategory) > 0 ||
		len(r.JobEmployment) > 0 ||
		len(r.JobExperience) > 0 ||
		r.JobRemote != nil
}

// Result is the canonical hit shape all three strategies normalize into, so
// highlighting and response assembly never branch on strategy.
type Result struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Slug           string    `json:"slug"`
	Author         string    `json:"author,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitzero"`
	RelevanceScore float64   `json:"relevanceScore"`

	// Content-only engagement counters.
	ViewCount     int `json:"viewCount,omitempty"`
	CopyCount     int `json:"copyCount,omitempty"`
	BookmarkCount int `json:"bookmarkCount,omitempty"`

	// Job metadata.
	Company         string `json:"company,omitempty"`
	EmploymentType  string `json:"employmentType,omitempty"`
	ExperienceLevel string `json:"experienceLevel,omitempty"`
	Remote          *bool  `json:"remote,omitempty"`

	// Federated search tags each hit with its entity kind.
	EntityType string `json:"entityType,omitempty"`

	// Highlighting is additive: the original fields above are never altered.
	TitleHighlighted       string   `json:"title_highlighted,omitempty"`
	DescriptionHighlighted string   `json:"description_highlighted,omitempty"`
	AuthorHighlighted      string   `json:"author_highlighted,omitempty"`
	TagsHighlighted        []string `json:"tags_highlighted,omitempty"`
}

// AppliedFilters echoes the filters that were applicable to the chosen
// strategy.
type AppliedFilters struct {
	Categories    []string `json:"categories,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Authors       []string `json:"authors,omitempty"`
	Entities      []string `json:"entities,omitempty"`
	Sort          string   `json:"sort,omitempty"`
	JobCategory   string   `json:"jobCategory,omitempty"`
	JobEmployment string   `json:"jobEmployment,omitempty"`
	JobExperience string   `json:"jobExperience,omitempty"`
	JobRemote     *bool    `json:"jobRemote,omitempty"`
}

type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// Performance reports backend and total handling time in milliseconds.
type Performance struct {
	DBTime    int64 `json:"dbTime"`
	TotalTime int64 `json:"totalTime"`
}

type Response struct {
	Results     []Result       `json:"results"`
	Query       string         `json:"query"`
	Filters     AppliedFilters `json:"filters"`
	Pagination  Pagination     `json:"pagination"`
	Performance Performance    `json:"performance"`
	SearchType  string         `json:"searchType"`
}

type Suggestion struct {
	Text        string `json:"text"`
	SearchCount int    `json:"searchCount"`
	IsPopular   bool   `json:"isPopular"`
}

type Facet struct {
	Category     string   `json:"category"`
	ContentCount int      `json:"contentCount"`
	Tags         []string `json:"tags"`
	Authors      []string `json:"authors"`
}

func normalizeContentRows(rows []searchdb.ContentRow) []Result {
	results := make([]Result, len(rows))
	for i, row := range rows {
		results[i] = Result{
			ID:             row.ID,
			Title:          row.Title,
			Description:    row.Description,
			Category:       row.Category,
			Slug:           row.Slug,
			Author:         row.Author,
			Tags:           row.Tags,
			CreatedAt:      row.CreatedAt,
			RelevanceScore: row.RelevanceScore,
			ViewCount:      row.ViewCount,
			CopyCount:      row.CopyCount,
			BookmarkCount:  row.BookmarkCount,
		}
	}
	return results
}

// normalizeSemanticRows projects the narrower semantic schema onto the
// canonical shape: similarity becomes the relevance score and fields the
// semantic index does not carry stay zero-valued.
func normalizeSemanticRows(rows []searchdb.SemanticRow) []Result {
	results := make([]Result, len(rows))
	for i, row := range rows {
		results[i] = Result{
			ID:             row.ContentID,
			Title:          row.Name,
			Description:    row.Summary,
			Category:       row.Category,
			Slug:           row.Slug,
			RelevanceScore: row.Similarity,
		}
	}
	return results
}

func normalizeJobRows(rows []searchdb.JobRow) []Result {
	results := make([]Result, len(rows))
	for i, row := range rows {
		remote := row.Remote
		results[i] = Result{
			ID:              row.ID,
			Title:           row.Title,
			Description:     row.Description,
			Category:        row.Category,
			Slug:            row.Slug,
			Author:          row.Company,
			Company:         row.Company,
			EmploymentType:  row.EmploymentType,
			ExperienceLevel: row.ExperienceLevel,
			Remote:          &remote,
			CreatedAt:       row.CreatedAt,
			RelevanceScore:  row.RelevanceScore,
		}
	}
	return results
}

func normalizeUnifiedRows(rows []searchdb.UnifiedRow) []Result {
	results := make([]Result, len(rows))
	for i, row := range rows {
		results[i] = Result{
			ID:             row.ID,
			Title:          row.Title,
			Description:    row.Description,
			Category:       row.Category,
			Slug:           row.Slug,
			Author:         row.Author,
			Tags:           row.Tags,
			CreatedAt:      row.CreatedAt,
			RelevanceScore: row.Rank,
			EntityType:     row.EntityType,
		}
	}
	return results
}
