package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mastel22/boondocks-bn-backend/internal/cache"
	apierrors "github.com/Mastel22/boondocks-bn-backend/internal/errors"
	"github.com/Mastel22/boondocks-bn-backend/internal/logger"
	"github.com/Mastel22/boondocks-bn-backend/internal/util"
)

// RedisRateLimitMiddleware creates a fixed-window limiter shared by all server
// instances. A nil client falls back to the in-process limiter.
func RedisRateLimitMiddleware(client *cache.RedisClient, config RateLimitConfig, name string) gin.HandlerFunc {
	if client == nil {
		return NewRateLimiter(config).Middleware()
	}
	keyFunc := config.keyFunc()

	return func(c *gin.Context) {
		clientKey := keyFunc(c)
		key := fmt.Sprintf("rate_limit:%s:%s", name, clientKey)
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, ttl, err := client.IncrWindow(ctx, key, config.Window)
		if err != nil && count == 0 {
			// Fail closed
			logger.Log.Error("Rate limit increment failed, rejecting request",
				logger.WithIP(clientKey),
				zap.Error(err),
			)
			util.AbortWithAPIError(c, apierrors.ServiceUnavailable("rate limiter"))
			return
		}
		if err != nil {
			// Retried by the next request, which sees no expiry
			logger.Log.Warn("Failed to set rate limit expiration",
				logger.WithIP(clientKey),
				zap.Error(err),
			)
			ttl = config.Window
		}

		if count > int64(config.Limit) {
			retryAfter := int(ttl.Seconds()) + 1
			logger.Log.Warn("Rate limit exceeded",
				logger.WithIP(clientKey),
				zap.Int("max_requests", config.Limit),
				zap.Int64("current_requests", count),
			)
			rejectRateLimited(c, config.Limit, retryAfter)
			return
		}

		c.Next()
	}
}
