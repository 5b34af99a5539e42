package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateLimitClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestAllow_EnforcesBudget(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	rdb := rateLimitClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := Allow(ctx, rdb, "rl:toggle:user:7", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := Allow(ctx, rdb, "rl:toggle:user:7", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	// A different caller has a separate budget.
	allowed, err = Allow(ctx, rdb, "rl:toggle:user:8", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAllow_TestEnvironmentBypass(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	allowed, err := Allow(context.Background(), nil, "rl:toggle:user:7", 0, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAllow_NilRedisFailsOpen(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	allowed, err := Allow(context.Background(), nil, "rl:toggle:user:7", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimit_Middleware(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	rdb := rateLimitClient(t)

	app := fiber.New()
	limit := Limit{Name: "toggle", Max: 2, Window: time.Minute}
	app.Post("/toggle", RateLimit(rdb, limit), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/toggle", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	req := httptest.NewRequest(http.MethodPost, "/toggle", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestRateLimit_UserBudgetSeparateFromIP(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	rdb := rateLimitClient(t)

	app := fiber.New()
	limit := Limit{Name: "toggle", Max: 1, Window: time.Minute}
	app.Use(func(c *fiber.Ctx) error {
		if c.Get("X-User") == "1" {
			c.Locals("userID", uint(1))
		}
		return c.Next()
	})
	app.Post("/toggle", RateLimit(rdb, limit), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	// Authenticated caller exhausts their budget.
	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/toggle", nil)
		req.Header.Set("X-User", "1")
		resp, err := app.Test(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, want, resp.StatusCode, "request %d", i+1)
	}

	// The anonymous budget for the same IP is untouched.
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/toggle", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
