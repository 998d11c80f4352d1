package middleware

import (
	"net/http"
	"strconv"

	"clearcheck/internal/redis"
	"clearcheck/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// CommandRateLimitMiddleware bounds write commands per client IP. Applied to
// the mutating endpoints only; reads stay unthrottled.
func CommandRateLimitMiddleware(limiter *redis.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		result, err := limiter.AllowCommand(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Redis trouble must not take the command surface down with it.
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("rate limit exceeded", httpdto.CodeRateLimited))
			c.Abort()
			return
		}

		c.Next()
	}
}

// RebuildRateLimitMiddleware bounds full projection rebuilds, which rescan
// whole tables and are easy to abuse.
func RebuildRateLimitMiddleware(limiter *redis.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || c.Query("reset") != "true" {
			c.Next()
			return
		}

		result, err := limiter.AllowRebuild(c.Request.Context(), c.ClientIP())
		if err != nil {
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("rebuild rate limit exceeded", httpdto.CodeRateLimited))
			c.Abort()
			return
		}

		c.Next()
	}
}

// setRateLimitHeaders sets standard rate limit response headers
func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}
