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

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRateLimiter_Check(t *testing.T) {
	t.Parallel()

	t.Run("disabled limiter always allows", func(t *testing.T) {
		t.Parallel()
		l := NewRateLimiter(nil, false)
		for i := 0; i < 5; i++ {
			allowed, _, err := l.Check(context.Background(), "open", "ip:1", 1, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		}
	})

	t.Run("nil redis reports an error", func(t *testing.T) {
		t.Parallel()
		l := NewRateLimiter(nil, true)
		allowed, _, err := l.Check(context.Background(), "open", "ip:1", 1, time.Minute)
		assert.Error(t, err)
		assert.False(t, allowed)
	})

	t.Run("counts within the window", func(t *testing.T) {
		t.Parallel()
		mr, rdb := newTestRedis(t)
		l := NewRateLimiter(rdb, true)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			allowed, _, err := l.Check(ctx, "open", "user:7", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed, "request %d", i+1)
		}

		allowed, retryAfter, err := l.Check(ctx, "open", "user:7", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Greater(t, retryAfter, time.Duration(0))

		// a different identity has its own budget
		allowed, _, err = l.Check(ctx, "open", "user:8", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)

		mr.FastForward(time.Minute + time.Second)
		allowed, _, err = l.Check(ctx, "open", "user:7", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "window should reset after expiry")
	})
}

func TestRateLimiter_Middleware(t *testing.T) {
	t.Parallel()

	t.Run("returns 429 with Retry-After once exhausted", func(t *testing.T) {
		t.Parallel()
		_, rdb := newTestRedis(t)
		l := NewRateLimiter(rdb, true)

		app := fiber.New()
		app.Post("/gift/open", l.Limit(2, time.Minute, "gift_open"), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

		for i := 0; i < 2; i++ {
			resp, err := app.Test(httptest.NewRequest("POST", "/gift/open", nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		}

		resp, err := app.Test(httptest.NewRequest("POST", "/gift/open", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
	})

	t.Run("fail open when redis is down", func(t *testing.T) {
		t.Parallel()
		mr, rdb := newTestRedis(t)
		mr.Close()
		l := NewRateLimiter(rdb, true)

		app := fiber.New()
		app.Get("/", l.Limit(1, time.Minute, "x"), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("fail closed when redis is down", func(t *testing.T) {
		t.Parallel()
		l := NewRateLimiter(nil, true)

		app := fiber.New()
		app.Get("/", l.LimitWithPolicy(1, time.Minute, FailClosed, "x"), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	})
}
