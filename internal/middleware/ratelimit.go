package middleware

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Limit is a per-route request budget. Toggle endpoints are cheap but get
// amplified by client retry loops, so they carry their own budget separate
// from the authoring routes.
type Limit struct {
	Name   string
	Max    int
	Window time.Duration
}

// key scopes the budget to the authenticated user, falling back to the
// remote IP for anonymous callers.
func (l Limit) key(c *fiber.Ctx) string {
	if uid, ok := c.Locals("userID").(uint); ok && uid != 0 {
		return fmt.Sprintf("rl:%s:user:%d", l.Name, uid)
	}
	return fmt.Sprintf("rl:%s:ip:%s", l.Name, c.IP())
}

// Allow consumes one unit of the budget behind key. It reports whether the
// request may proceed. Rate limiting is bypassed under APP_ENV=test, and a
// missing or failing redis never blocks traffic.
func Allow(ctx context.Context, rdb *redis.Client, key string, max int, window time.Duration) (bool, error) {
	if os.Getenv("APP_ENV") == "test" {
		return true, nil
	}
	if rdb == nil {
		return true, nil
	}

	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	// First hit in the window starts the clock.
	if cnt == 1 {
		rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(max), nil
}

// RateLimit returns a fiber middleware enforcing l on every request.
func RateLimit(rdb *redis.Client, l Limit) fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, err := Allow(c.Context(), rdb, l.key(c), l.Max, l.Window)
		if err != nil || allowed {
			return c.Next()
		}
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "rate limit exceeded",
		})
	}
}
