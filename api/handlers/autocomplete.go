package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aitoolhub/search-service/logger"
	"github.com/aitoolhub/search-service/services/search"
	"github.com/aitoolhub/search-service/validation"
)

const (
	minAutocompleteQueryLength = 2
	defaultAutocompleteLimit   = 10
	maxAutocompleteLimit       = 20

	autocompleteCacheControl = "public, max-age=300"
)

type AutocompleteResponse struct {
	Suggestions []search.Suggestion `json:"suggestions"`
	Query       string              `json:"query"`
}

func handleAutocomplete(service *search.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("q"))
		if len(query) < minAutocompleteQueryLength {
			writeError(c, http.StatusBadRequest, "query must be at least 2 characters")
			return
		}
		if strings.ContainsAny(query, "<>") {
			writeError(c, http.StatusBadRequest, "invalid query")
			return
		}

		limit, err := validation.ParseLimit(c.Query("limit"), defaultAutocompleteLimit, minLimit, maxAutocompleteLimit)
		if err != nil {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}

		suggestions, err := service.Autocomplete(c.Request.Context(), query, limit)
		if err != nil {
			var backendErr *search.BackendError
			if errors.As(err, &backendErr) {
				logger.Error("autocomplete backend failed", "proc", backendErr.Proc, "err", backendErr.Err.Error())
			} else {
				logger.Error("autocomplete failed", "err", err.Error())
			}
			writeError(c, http.StatusBadGateway, "autocomplete is temporarily unavailable")
			return
		}

		c.Header("Cache-Control", autocompleteCacheControl)
		c.JSON(http.StatusOK, AutocompleteResponse{Suggestions: suggestions, Query: query})
	}
}
