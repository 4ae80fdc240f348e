package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aitoolhub/search-service/db/searchdb"
	"github.com/aitoolhub/search-service/embedding/mock"
)

func testContentRows(n int) []searchdb.ContentRow {
	rows := make([]searchdb.ContentRow, n)
	for i := range rows {
		rows[i] = searchdb.ContentRow{
			ID:             fmt.Sprintf("content-%d", i),
			Title:          "Claude for code review",
			Description:    "Using claude to review pull requests",
			Category:       "agents",
			Slug:           fmt.Sprintf("claude-for-code-review-%d", i),
			Author:         "ada",
			Tags:           []string{"claude", "review"},
			CreatedAt:      time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			RelevanceScore: 0.8,
		}
	}
	return rows
}

var searchValidationTestCases = []testCase{
	{
		name:           "QueryTooLong",
		queryParams:    map[string]string{"q": strings.Repeat("a", 201)},
		expectedStatus: http.StatusBadRequest,
	},
	{
		name:           "QueryWithMarkup",
		queryParams:    map[string]string{"q": "<script>alert(1)</script>"},
		expectedStatus: http.StatusBadRequest,
	},
	{
		name:           "InvalidSort",
		queryParams:    map[string]string{"q": "claude", "sort": "rating"},
		expectedStatus: http.StatusBadRequest,
	},
	{
		name:           "InvalidEntity",
		queryParams:    map[string]string{"q": "claude", "entities": "content,webring"},
		expectedStatus: http.StatusBadRequest,
	},
	{
		name:           "CategoryWithTraversal",
		queryParams:    map[string]string{"q": "claude", "categories": "../etc"},
		expectedStatus: http.StatusBadRequest,
	},
	{
		name:           "LimitZero",
		queryParams:    map[string]string{"q": "claude", "limit": "0"},
		expectedStatus: http.StatusBadRequest,
	},
	{
		name:           "LimitTooLarge",
		queryParams:    map[string]string{"q": "claude", "limit": "1000"},
		expectedStatus: http.StatusBadRequest,
	},
	{
		name:           "LimitNotANumber",
		queryParams:    map[string]string{"q": "claude", "limit": "abc"},
		expectedStatus: http.StatusBadRequest,
	},
	{
		name:           "NegativeOffset",
		queryParams:    map[string]string{"q": "claude", "offset": "-1"},
		expectedStatus: http.StatusBadRequest,
	},
	{
		name:           "InvalidRemoteFlag",
		queryParams:    map[string]string{"job_remote": "maybe"},
		expectedStatus: http.StatusBadRequest,
	},
	{
		name:           "EmptyRequestIsValid",
		queryParams:    map[string]string{},
		expectedStatus: http.StatusOK,
	},
}

func TestHandleSearchValidation(t *testing.T) {
	router := setupTestRouter(t, &fakeSearchDB{}, nil)

	for _, testCase := range searchValidationTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			w := makeTestHTTPRequest(router, assert, http.MethodGet, "/search", testCase.requestHeaders, testCase.queryParams)
			assert.Equal(testCase.expectedStatus, w.Code, "response was %s", w.Body.String())

			if testCase.expectedStatus == http.StatusBadRequest {
				var body map[string]any
				assert.NoError(json.Unmarshal(w.Body.Bytes(), &body))
				assert.Contains(body, "error")
			}
		})
	}
}

func TestHandleSearchContentEndToEnd(t *testing.T) {
	assert := require.New(t)

	db := &fakeSearchDB{keywordRows: testContentRows(5)}
	router := setupTestRouter(t, db, nil)

	w := makeTestHTTPRequest(router, assert, http.MethodGet, "/search", nil,
		map[string]string{"q": "claude", "categories": "agents", "limit": "5"})
	assert.Equal(http.StatusOK, w.Code, "response was %s", w.Body.String())
	assert.Equal("public, max-age=60", w.Header().Get("Cache-Control"))

	var response map[string]any
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal("content", response["searchType"])
	assert.Equal("claude", response["query"])

	results := response["results"].([]any)
	assert.Len(results, 5)

	first := results[0].(map[string]any)
	assert.Contains(first["title_highlighted"], "<mark>Claude</mark>")
	assert.Equal("Claude for code review", first["title"])

	pagination := response["pagination"].(map[string]any)
	assert.Equal(true, pagination["hasMore"], "full page should imply more results")
	assert.Equal(float64(5), pagination["limit"])

	performance := response["performance"].(map[string]any)
	assert.Contains(performance, "dbTime")
	assert.Contains(performance, "totalTime")
}

func TestHandleSearchSemanticFallbackEndToEnd(t *testing.T) {
	assert := require.New(t)

	db := &fakeSearchDB{keywordRows: testContentRows(2)}
	embedder := mock.NewEmbedder()
	embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
		return nil, fmt.Errorf("embedding host down")
	}

	router := setupTestRouter(t, db, embedder)

	w := makeTestHTTPRequest(router, assert, http.MethodGet, "/search", nil, map[string]string{"q": "claude"})
	assert.Equal(http.StatusOK, w.Code, "embedding failure must not surface: %s", w.Body.String())

	var response map[string]any
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(response["results"].([]any), 2)
	assert.Equal("content", response["searchType"])
}

func TestHandleSearchJobsStrategy(t *testing.T) {
	assert := require.New(t)

	db := &fakeSearchDB{
		jobRows: []searchdb.JobRow{
			{ID: "j1", Title: "Prompt Engineer", Category: "engineering", Company: "Acme",
				EmploymentType: "full-time", ExperienceLevel: "senior", Remote: true,
				CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		},
		jobTotal: 57,
	}
	router := setupTestRouter(t, db, nil)

	w := makeTestHTTPRequest(router, assert, http.MethodGet, "/search", nil,
		map[string]string{"job_category": "engineering", "limit": "20", "offset": "40"})
	assert.Equal(http.StatusOK, w.Code, "response was %s", w.Body.String())

	var response map[string]any
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal("jobs", response["searchType"])

	pagination := response["pagination"].(map[string]any)
	assert.Equal(float64(57), pagination["total"])
	assert.Equal(false, pagination["hasMore"])
}

func TestHandleSearchBackendFailure(t *testing.T) {
	assert := require.New(t)

	db := &fakeSearchDB{keywordErr: fmt.Errorf("connection refused")}
	router := setupTestRouter(t, db, nil)

	w := makeTestHTTPRequest(router, assert, http.MethodGet, "/search", nil, map[string]string{"q": "claude"})
	assert.Equal(http.StatusBadGateway, w.Code)

	var body map[string]any
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(body, "error")
}

func TestHandleSearchRateLimit(t *testing.T) {
	assert := require.New(t)

	db := &fakeSearchDB{}
	router := setupTestRouter(t, db, nil)

	headers := map[string]string{"X-Forwarded-For": "203.0.113.9"}
	for i := 0; i < 30; i++ {
		w := makeTestHTTPRequest(router, assert, http.MethodGet, "/search", headers, map[string]string{"q": "claude"})
		assert.Equal(http.StatusOK, w.Code, "request %d should be within budget", i+1)
	}

	w := makeTestHTTPRequest(router, assert, http.MethodGet, "/search", headers, map[string]string{"q": "claude"})
	assert.Equal(http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(w.Header().Get("Retry-After"))
	assert.Equal("0", w.Header().Get("X-RateLimit-Remaining"))

	// A different client is unaffected.
	w = makeTestHTTPRequest(router, assert, http.MethodGet, "/search", map[string]string{"X-Forwarded-For": "203.0.113.10"}, map[string]string{"q": "claude"})
	assert.Equal(http.StatusOK, w.Code)
}
