package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRateLimit_EnvironmentBypass(t *testing.T) {
	for _, env := range []string{"test", "development"} {
		t.Run(env, func(t *testing.T) {
			t.Setenv("APP_ENV", env)
			allowed, err := CheckRateLimit(context.Background(), nil, "r", "1", 1, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		})
	}
}

func TestCheckRateLimit_NilClient(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	_, err := CheckRateLimit(context.Background(), nil, "r", "1", 1, time.Minute)
	assert.Error(t, err)
}

func TestCheckRateLimit_Window(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, "likes", "profile:1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d within limit", i+1)
	}

	allowed, err := CheckRateLimit(ctx, rdb, "likes", "profile:1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed, "fourth request exceeds limit")

	// A different identity has its own window
	allowed, err = CheckRateLimit(ctx, rdb, "likes", "profile:2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	// Expiry resets the window
	mr.FastForward(2 * time.Minute)
	allowed, err = CheckRateLimit(ctx, rdb, "likes", "profile:1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	app := fiber.New()
	app.Get("/", RateLimit(rdb, 2, time.Minute, "test"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}
