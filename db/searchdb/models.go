package searchdb

import "time"

// KeywordParams are the filters forwarded to keyword_search.
type KeywordParams struct {
	Query      string
	Categories []string
	Tags       []string
	Authors    []string
	Sort       string
	Limit      int
	Offset     int
}

// JobFilters are forwarded to filter_by_category_and_filters. Nil fields are
// absent, not "any" sentinels: the backend applies its own defaults.
type JobFilters struct {
	Category        *string
	EmploymentType  *string
	ExperienceLevel *string
	Remote          *bool
}

// ContentRow is one keyword_search hit.
type ContentRow struct {
	ID             string
	Title          string
	Description    string
	Category       string
	Slug           string
	Author         string
	Tags           []string
	CreatedAt      time.Time
	RelevanceScore float64
	ViewCount      int
	CopyCount      int
	BookmarkCount  int
}

// SemanticRow is one semantic_search hit. The semantic index carries fewer
// fields than the keyword index and scores by cosine similarity.
type SemanticRow struct {
	ContentID  string
	Name       string
	Summary    string
	Category   string
	Slug       string
	Similarity float64
}

// JobRow is one filter_by_category_and_filters hit.
type JobRow struct {
	ID              string
	Title           string
	Description     string
	Category        string
	Slug            string
	Company         string
	EmploymentType  string
	ExperienceLevel string
	Remote          bool
	CreatedAt       time.Time
	RelevanceScore  float64
}

// UnifiedRow is one federated_search hit across entity kinds.
type UnifiedRow struct {
	EntityType  string
	ID          string
	Title       string
	Description string
	Category    string
	Slug        string
	Author      string
	Tags        []string
	CreatedAt   time.Time
	Rank        float64
}

type Suggestion struct {
	Text        string
	SearchCount int
	IsPopular   bool
}

type Facet struct {
	Category     string
	ContentCount int
	Tags         []string
	Authors      []string
}
