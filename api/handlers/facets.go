package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aitoolhub/search-service/logger"
	"github.com/aitoolhub/search-service/services/search"
)

const facetsCacheControl = "public, max-age=600"

type FacetsResponse struct {
	Facets []search.Facet `json:"facets"`
}

func handleFacets(service *search.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		facets, err := service.Facets(c.Request.Context())
		if err != nil {
			var backendErr *search.BackendError
			if errors.As(err, &backendErr) {
				logger.Error("facets backend failed", "proc", backendErr.Proc, "err", backendErr.Err.Error())
			} else {
				logger.Error("facets failed", "err", err.Error())
			}
			writeError(c, http.StatusBadGateway, "facets are temporarily unavailable")
			return
		}

		c.Header("Cache-Control", facetsCacheControl)
		c.JSON(http.StatusOK, FacetsResponse{Facets: facets})
	}
}
