// Common test helpers
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/aitoolhub/search-service/db/searchdb"
	"github.com/aitoolhub/search-service/embedding"
	"github.com/aitoolhub/search-service/logger"
	"github.com/aitoolhub/search-service/ratelimit"
	"github.com/aitoolhub/search-service/services/search"
	"github.com/aitoolhub/search-service/validation"
)

type testCase struct {
	name           string
	queryParams    map[string]string
	requestHeaders map[string]string
	expectedStatus int
}

func newTestLogger() logger.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

// fakeSearchDB is a canned-response searchdb.DB.
type fakeSearchDB struct {
	keywordRows  []searchdb.ContentRow
	keywordErr   error
	semanticRows []searchdb.SemanticRow
	semanticErr  error
	unifiedRows  []searchdb.UnifiedRow
	jobRows      []searchdb.JobRow
	jobTotal     int
	suggestions  []searchdb.Suggestion
	facets       []searchdb.Facet
}

func (f *fakeSearchDB) KeywordSearch(context.Context, searchdb.KeywordParams) ([]searchdb.ContentRow, error) {
	return f.keywordRows, f.keywordErr
}

func (f *fakeSearchDB) SemanticSearch(context.Context, []float32, float64, int, int) ([]searchdb.SemanticRow, error) {
	return f.semanticRows, f.semanticErr
}

func (f *fakeSearchDB) FederatedSearch(context.Context, string, []string, int, int) ([]searchdb.UnifiedRow, error) {
	return f.unifiedRows, nil
}

func (f *fakeSearchDB) FilterJobs(context.Context, searchdb.JobFilters, int, int) ([]searchdb.JobRow, int, error) {
	return f.jobRows, f.jobTotal, nil
}

func (f *fakeSearchDB) AutocompleteSuggestions(context.Context, string, int) ([]searchdb.Suggestion, error) {
	return f.suggestions, nil
}

func (f *fakeSearchDB) SearchFacets(context.Context) ([]searchdb.Facet, error) {
	return f.facets, nil
}

func (f *fakeSearchDB) Close() error { return nil }

func setupTestRouter(t *testing.T, db searchdb.DB, embedder embedding.Embedder) *gin.Engine {
	t.Helper()

	testLogger := newTestLogger()
	validator, err := validation.New(testLogger)
	require.NoError(t, err, "could not create validator")

	limiter := ratelimit.New(ratelimit.NewMemoryStore(1000), testLogger)
	service := search.New(testLogger, db, embedder, nil, 0.3, time.Second)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupSearch(router, testLogger, service, validator, limiter)

	return router
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method, endpoint string, headers map[string]string, queryParams map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		values := url.Values{}
		for key, value := range queryParams {
			values.Set(key, value)
		}
		endpoint = endpoint + "?" + values.Encode()
	}

	req, err := http.NewRequest(method, endpoint, nil)
	assert.NoError(err)

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	router.ServeHTTP(w, req)

	return w
}
