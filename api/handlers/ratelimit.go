package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aitoolhub/search-service/logger"
	"github.com/aitoolhub/search-service/ratelimit"
)

// rateLimitMiddleware budgets requests per client under the given preset
// and annotates every response with the remaining budget.
func rateLimitMiddleware(limiter *ratelimit.Limiter, cfg ratelimit.Config, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := ratelimit.ClientIdentifier("", c.Request.Header)
		result := limiter.Check(c.Request.Context(), identifier, cfg)

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", cfg.MaxRequests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetAt.Unix()))

		if !result.Allowed {
			retryAfter := int(result.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			logger.Warn("rate limit exceeded", "identifier", identifier, "retry_after", retryAfter)
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			writeError(c, http.StatusTooManyRequests, "rate limit exceeded, slow down")
			return
		}

		c.Next()
	}
}
