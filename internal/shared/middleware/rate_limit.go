package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"dat-backend/internal/shared/response"
	"dat-backend/pkg/ratelimit"
)

// RateLimit applies the injected limiter per client IP. A limiter error
// fails open: losing the counter backend must not take the API down.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn().Err(err).Str("ip", c.ClientIP()).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		if !ok {
			response.TooManyRequests(c, "rate limit exceeded")
			c.Abort()
			return
		}

		c.Next()
	}
}
