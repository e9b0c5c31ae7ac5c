package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bamiogunfemi/amy-sub000/internal/config"
	apperrors "github.com/bamiogunfemi/amy-sub000/pkg/util"
)

// Limiter applies a fixed-window counter per client IP and route, backed by
// Redis so the limit holds across service instances.
type Limiter struct {
	client *redis.Client
	cfg    config.RateLimitConfig
	logger *zap.Logger
}

// NewLimiter constructs a limiter. A nil Redis client disables limiting.
func NewLimiter(client *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) *Limiter {
	return &Limiter{client: client, cfg: cfg, logger: logger}
}

// Allow increments the window counter and reports whether the request is
// within bounds. Redis outages fail open: rejecting logins because the
// limiter store is down would lock everyone out.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil || !l.cfg.Enabled {
		return true
	}

	window := time.Duration(l.cfg.WindowSeconds) * time.Second
	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warn("rate limiter unavailable", zap.Error(err))
		return true
	}
	return count.Val() <= int64(l.cfg.MaxAttempts)
}

// Middleware guards a route with the limiter, keyed by route name and IP.
func (l *Limiter) Middleware(route string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("ratelimit:%s:%s", route, c.IP())
		if !l.Allow(c.UserContext(), key) {
			return apperrors.NewRateLimited()
		}
		return c.Next()
	}
}
