package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aitoolhub/search-service/db/searchdb"
)

var autocompleteTestCases = []testCase{
	{
		name:           "NoQuery",
		queryParams:    map[string]string{},
		expectedStatus: http.StatusBadRequest,
	},
	{
		name:           "QueryTooShort",
		queryParams:    map[string]string{"q": "c"},
		expectedStatus: http.StatusBadRequest,
	},
	{
		name:           "QueryWithMarkup",
		queryParams:    map[string]string{"q": "<img"},
		expectedStatus: http.StatusBadRequest,
	},
	{
		name:           "LimitOutOfRange",
		queryParams:    map[string]string{"q": "cl", "limit": "500"},
		expectedStatus: http.StatusBadRequest,
	},
	{
		name:           "ValidQuery",
		queryParams:    map[string]string{"q": "cl"},
		expectedStatus: http.StatusOK,
	},
}

func TestHandleAutocomplete(t *testing.T) {
	db := &fakeSearchDB{
		suggestions: []searchdb.Suggestion{
			{Text: "claude agents", SearchCount: 120, IsPopular: true},
			{Text: "claude api", SearchCount: 3, IsPopular: false},
		},
	}
	router := setupTestRouter(t, db, nil)

	for _, testCase := range autocompleteTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			w := makeTestHTTPRequest(router, assert, http.MethodGet, "/search/autocomplete", testCase.requestHeaders, testCase.queryParams)
			assert.Equal(testCase.expectedStatus, w.Code, "response was %s", w.Body.String())
		})
	}
}

func TestHandleAutocompleteResponseShape(t *testing.T) {
	assert := require.New(t)

	db := &fakeSearchDB{
		suggestions: []searchdb.Suggestion{
			{Text: "claude agents", SearchCount: 120, IsPopular: true},
		},
	}
	router := setupTestRouter(t, db, nil)

	w := makeTestHTTPRequest(router, assert, http.MethodGet, "/search/autocomplete", nil, map[string]string{"q": "cla"})
	assert.Equal(http.StatusOK, w.Code)
	assert.Equal("public, max-age=300", w.Header().Get("Cache-Control"))

	var response map[string]any
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal("cla", response["query"])

	suggestions := response["suggestions"].([]any)
	assert.Len(suggestions, 1)

	first := suggestions[0].(map[string]any)
	assert.Equal("claude agents", first["text"])
	assert.Equal(float64(120), first["searchCount"])
	assert.Equal(true, first["isPopular"])
}
