package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/whistleblow/internal/pkg/logger"
)

// CustomKeyMiddleware creates a rate limiting middleware with custom key
// function. An empty key falls back to the client IP.
func CustomKeyMiddleware(store Store, keyFunc func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ""
		if keyFunc != nil {
			key = keyFunc(c)
		}
		if key == "" {
			key = c.ClientIP() // Fallback to IP
		}

		res, err := store.Take(c.Request.Context(), key)
		if err != nil {
			// Fail open so a limiter outage does not take the API down.
			logger.WithFields(logger.Fields{"key": key}).WithError(err).Warn("rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", res.ResetAt.Format(time.RFC3339))

		if !res.Allowed {
			retryAfter := int(math.Ceil(time.Until(res.ResetAt).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded. Try again later.",
				"code":        "RATE_LIMITED",
				"retry_after": retryAfter,
				"reset_time":  res.ResetAt.Format(time.RFC3339),
			})
			return
		}

		c.Next()
	}
}
