package middleware

import (
	"net/http"
	"time"

	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter counts requests per device (or IP when no device is known),
// per method and route, in fixed windows kept in Redis. A nil client
// disables limiting.
func RateLimiter(client *redis.Client, maxRequests int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || maxRequests <= 0 {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		subject := ShopperFrom(c).DeviceID
		if subject == "" {
			subject = c.ClientIP()
		}
		key := "rl:" + subject + ":" + c.Request.Method + ":" + c.FullPath()
		resetKey := key + ":resetAt"

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			logger.Error("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			models.RespondError(c, models.NewApiError(http.StatusInternalServerError, "Rate limiter unavailable", nil))
			c.Abort()
			return
		}

		// First request → set expiry and stable resetAt
		if count == 1 {
			client.Expire(ctx, key, window)
			client.Set(ctx, resetKey, time.Now().Add(window).Unix(), window)
		}

		resetAtUnix, _ := client.Get(ctx, resetKey).Int64()
		resetAt := time.Unix(resetAtUnix, 0)

		remaining := maxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		resetInSeconds := int(time.Until(resetAt).Seconds())
		if resetInSeconds < 0 {
			resetInSeconds = 0
		}

		rate := &models.RateLimiter{
			Limit:          maxRequests,
			Remaining:      remaining,
			ResetAt:        resetAt,
			ResetInSeconds: resetInSeconds,
		}
		c.Set("rateLimiter", rate)

		if int(count) > maxRequests {
			models.RespondError(c, models.NewApiError(http.StatusTooManyRequests, "Too many requests", nil))
			c.Abort()
			return
		}

		c.Next()
	}
}
