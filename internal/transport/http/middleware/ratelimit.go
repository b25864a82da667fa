package middleware

import (
	"net/http"

	"bookingengine/internal/metrics"
	"bookingengine/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

const errRateLimited = "Rate limit exceeded"

// RateLimit decorates a route with a fixed budget per client address. Route
// logic never sees the limiter; passing ratelimit.Unlimited disengages it.
func RateLimit(limiter ratelimit.Limiter, route string, policy ratelimit.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := route + ":" + c.ClientIP()
		if !limiter.Allow(key, policy) {
			metrics.RateLimitedTotal.WithLabelValues(route).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": errRateLimited})
			return
		}
		c.Next()
	}
}
