package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/autopro-kz/autopro/internal/infrastructure/ratelimit"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
	"github.com/autopro-kz/autopro/internal/shared/utils"
)

type limiter interface {
	Allow(ctx context.Context, key string, limit ratelimit.Limit) (bool, error)
}

// RateLimiter applies a named limit per authenticated user, or per client IP
// for anonymous routes such as provider callbacks. Limiter errors let the
// request through.
type RateLimiter struct {
	limiter limiter
	logger  logger.Interface
}

func NewRateLimiter(limiter limiter, logger logger.Interface) *RateLimiter {
	return &RateLimiter{limiter: limiter, logger: logger}
}

func (rl *RateLimiter) Limit(name string, limit ratelimit.Limit) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.limiter == nil {
			c.Next()
			return
		}

		key := name + ":ip:" + c.ClientIP()
		if userID, ok := utils.GetUserID(c); ok {
			key = name + ":user:" + strconv.FormatUint(uint64(userID), 10)
		}

		allowed, err := rl.limiter.Allow(c.Request.Context(), key, limit)
		if err != nil {
			rl.logger.Warnw("rate limiter unavailable, allowing request", "key", key, "error", err)
			c.Next()
			return
		}

		if !allowed {
			rl.logger.Warnw("rate limit exceeded", "key", key)
			utils.ErrorResponse(c, http.StatusTooManyRequests, i18n.KeyRateLimited)
			c.Abort()
			return
		}

		c.Next()
	}
}
