package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aitoolhub/search-service/api/handlers"
	"github.com/aitoolhub/search-service/logger"
	"github.com/aitoolhub/search-service/ratelimit"
	"github.com/aitoolhub/search-service/services/search"
	"github.com/aitoolhub/search-service/validation"
)

func setupRoutes(router *gin.Engine, logger logger.Logger, service *search.Service, validator *validation.Validator, limiter *ratelimit.Limiter) {
	router.GET("/health", health())

	handlers.SetupSearch(router, logger, service, validator, limiter)
}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter(logger logger.Logger) *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.Use(loggingMiddleware(logger))
	router.Use(_CORSMiddleware())
	// Recovery runs inside CORS so even a panicking handler responds with
	// the cross-origin headers already written.
	router.Use(gin.Recovery())

	return router
}
