package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedView struct {
	ID     string `json:"id"`
	Opened bool   `json:"opened"`
}

// These tests swap the package client, so they do not run in parallel.
func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		_ = client.Close()
		SetClient(nil)
	})
	return mr
}

func TestAside_MissThenHit(t *testing.T) {
	mr := useMiniredis(t)
	ctx := context.Background()
	key := GiftViewKey("g-1")

	calls := 0
	fetch := func(dest *cachedView) func() error {
		return func() error {
			calls++
			*dest = cachedView{ID: "g-1", Opened: false}
			return nil
		}
	}

	var first cachedView
	require.NoError(t, Aside(ctx, key, &first, GiftViewTTL, fetch(&first)))
	assert.Equal(t, "g-1", first.ID)
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists(key))
	assert.InDelta(t, GiftViewTTL.Seconds(), mr.TTL(key).Seconds(), 1)

	var second cachedView
	require.NoError(t, Aside(ctx, key, &second, GiftViewTTL, fetch(&second)))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "hit must not call fetch")
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	mr := useMiniredis(t)
	key := GiftViewKey("missing")

	var dest cachedView
	err := Aside(context.Background(), key, &dest, GiftViewTTL, func() error {
		return errors.New("not found")
	})
	assert.Error(t, err)
	assert.False(t, mr.Exists(key))
}

func TestAside_CorruptEntryRefetches(t *testing.T) {
	mr := useMiniredis(t)
	key := GiftViewKey("g-2")
	require.NoError(t, mr.Set(key, "{not json"))

	var dest cachedView
	err := Aside(context.Background(), key, &dest, GiftViewTTL, func() error {
		dest = cachedView{ID: "g-2", Opened: true}
		return nil
	})
	require.NoError(t, err)
	assert.True(t, dest.Opened)

	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"g-2","opened":true}`, got)
}

func TestInvalidate(t *testing.T) {
	mr := useMiniredis(t)
	require.NoError(t, mr.Set(GiftViewKey("a"), "{}"))
	require.NoError(t, mr.Set(UserKey(3), "{}"))

	Invalidate(context.Background(), GiftViewKey("a"), UserKey(3))

	assert.False(t, mr.Exists(GiftViewKey("a")))
	assert.False(t, mr.Exists(UserKey(3)))
}

func TestAside_WithoutRedis(t *testing.T) {
	SetClient(nil)

	var dest cachedView
	calls := 0
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(context.Background(), "k", &dest, time.Minute, func() error {
			calls++
			return nil
		}))
	}
	assert.Equal(t, 2, calls)
	Invalidate(context.Background(), "k")
}
