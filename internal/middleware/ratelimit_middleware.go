package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/eren/driveshare/internal/app/models/dto"
	"github.com/eren/driveshare/internal/pkg/logger"
)

// RateLimiter limits requests per client IP using an in-memory store.
// The rate string uses the limiter format, e.g. "100-M" for 100 per minute.
func RateLimiter(rate string) gin.HandlerFunc {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		logger.Fatal().Err(err).Str("rate", rate).Msg("Invalid rate limit format")
	}

	instance := limiter.New(memory.NewStore(), parsed)

	return func(c *gin.Context) {
		limiterCtx, err := instance.Get(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Error().Err(err).Msg("Rate limiter store error")
			c.Next()
			return
		}

		if limiterCtx.Reached {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeTooManyRequests, "too many requests, please try again later"),
			))
			return
		}

		c.Next()
	}
}
