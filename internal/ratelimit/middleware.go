package ratelimit

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware rejects requests above the per-IP limit with 429
func Middleware(limiter *KeyedLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limiter.config.Burst))
		if !limiter.Allow(c.ClientIP()) {
			retryAfter := int(math.Ceil(1 / limiter.config.RequestsPerSecond))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", fmt.Sprintf("%d", max(retryAfter, 1)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
				"code":  "rate_limit_exceeded",
			})
			return
		}

		c.Next()
	}
}
