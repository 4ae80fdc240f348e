package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aitoolhub/search-service/db/searchdb"
)

func TestHandleFacets(t *testing.T) {
	assert := require.New(t)

	db := &fakeSearchDB{
		facets: []searchdb.Facet{
			{Category: "agents", ContentCount: 42, Tags: []string{"claude", "automation"}, Authors: []string{"ada"}},
			{Category: "prompts", ContentCount: 17, Tags: []string{"writing"}, Authors: []string{"lin"}},
		},
	}
	router := setupTestRouter(t, db, nil)

	w := makeTestHTTPRequest(router, assert, http.MethodGet, "/search/facets", nil, nil)
	assert.Equal(http.StatusOK, w.Code, "response was %s", w.Body.String())
	assert.Equal("public, max-age=600", w.Header().Get("Cache-Control"))

	var response map[string]any
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &response))

	facets := response["facets"].([]any)
	assert.Len(facets, 2)

	first := facets[0].(map[string]any)
	assert.Equal("agents", first["category"])
	assert.Equal(float64(42), first["contentCount"])
}
