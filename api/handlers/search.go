package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aitoolhub/search-service/logger"
	"github.com/aitoolhub/search-service/ratelimit"
	"github.com/aitoolhub/search-service/services/search"
	"github.com/aitoolhub/search-service/validation"
)

const (
	defaultLimit = 20
	minLimit     = 1
	maxLimit     = 100

	searchCacheControl = "public, max-age=60"
)

type SearchRequest struct {
	Query         string   `form:"q" json:"q" validate:"valid_query"`
	Categories    []string `form:"categories" json:"categories" collection_format:"csv" validate:"omitempty,dive,valid_segment"`
	Tags          []string `form:"tags" json:"tags" collection_format:"csv" validate:"omitempty,dive,valid_segment"`
	Authors       []string `form:"authors" json:"authors" collection_format:"csv" validate:"omitempty,dive,valid_segment"`
	Entities      []string `form:"entities" json:"entities" collection_format:"csv" validate:"omitempty,dive,valid_entity"`
	Sort          string   `form:"sort" json:"sort" validate:"valid_sort"`
	JobCategory   string   `form:"job_category" json:"job_category" validate:"omitempty,valid_segment"`
	JobEmployment string   `form:"job_employment" json:"job_employment" validate:"omitempty,valid_segment"`
	JobExperience string   `form:"job_experience" json:"job_experience" validate:"omitempty,valid_segment"`
	JobRemote     *bool    `form:"job_remote" json:"job_remote"`
}

func SetupSearch(router *gin.Engine, logger logger.Logger, service *search.Service, validator *validation.Validator, limiter *ratelimit.Limiter) {
	searchRoutes := router.Group("/search")
	searchRoutes.GET("", rateLimitMiddleware(limiter, ratelimit.Search, logger), handleSearch(service, logger, validator))
	searchRoutes.GET("/autocomplete", rateLimitMiddleware(limiter, ratelimit.Autocomplete, logger), handleAutocomplete(service, logger))
	searchRoutes.GET("/facets", rateLimitMiddleware(limiter, ratelimit.Public, logger), handleFacets(service, logger))
}

func handleSearch(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SearchRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from search request", "err", err.Error())
			writeError(c, http.StatusBadRequest, "failed to parse query parameters")
			return
		}

		if err := validator.Validate(request); err != nil {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}

		limit, err := validation.ParseLimit(c.Query("limit"), defaultLimit, minLimit, maxLimit)
		if err != nil {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}

		offset, err := parseOffset(c.Query("offset"))
		if err != nil {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}

		response, err := service.Search(c.Request.Context(), search.Request{
			Query:         request.Query,
			Categories:    request.Categories,
			Tags:          request.Tags,
			Authors:       request.Authors,
			Entities:      request.Entities,
			Sort:          request.Sort,
			JobCategory:   request.JobCategory,
			JobEmployment: request.JobEmployment,
			JobExperience: request.JobExperience,
			JobRemote:     request.JobRemote,
			Limit:         limit,
			Offset:        offset,
		}, c.GetHeader("Authorization"))
		if err != nil {
			var backendErr *search.BackendError
			if errors.As(err, &backendErr) {
				logger.Error("search backend failed", "proc", backendErr.Proc, "err", backendErr.Err.Error())
				writeError(c, http.StatusBadGateway, "search is temporarily unavailable")
				return
			}
			logger.Error("search failed", "err", err.Error())
			writeError(c, http.StatusInternalServerError, "search failed")
			return
		}

		c.Header("Cache-Control", searchCacheControl)
		c.JSON(http.StatusOK, response)
	}
}

func parseOffset(raw string) (int, error) {
	if len(strings.TrimSpace(raw)) == 0 {
		return 0, nil
	}

	offset, err := strconv.Atoi(raw)
	if err != nil || offset < 0 {
		return 0, errors.New("offset must be a non-negative number")
	}

	return offset, nil
}
