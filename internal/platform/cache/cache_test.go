package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	_ "github.com/meridian-erp/meridian-erp/testing"
)

type payload struct {
	Value string `json:"value"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), mr
}

func TestFetchJSONPopulatesAndHits(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return payload{Value: "fresh"}, nil
	}

	key, err := c.BuildKey(ctx, "reports", "tb", "2026-08-31")
	require.NoError(t, err)

	var first payload
	require.NoError(t, c.FetchJSON(ctx, key, &first, loader))
	require.Equal(t, "fresh", first.Value)
	require.Equal(t, 1, calls)

	var second payload
	require.NoError(t, c.FetchJSON(ctx, key, &second, loader))
	require.Equal(t, "fresh", second.Value)
	require.Equal(t, 1, calls, "second fetch must hit the cache")
}

func TestBumpRotatesKeys(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	before, err := c.BuildKey(ctx, "reports", "tb", "2026-08-31")
	require.NoError(t, err)
	require.NoError(t, c.Bump(ctx))
	after, err := c.BuildKey(ctx, "reports", "tb", "2026-08-31")
	require.NoError(t, err)
	require.NotEqual(t, before, after)
}

func TestNilCachePassesThrough(t *testing.T) {
	var c *Cache
	var out payload
	err := c.FetchJSON(context.Background(), "any", &out, func(context.Context) (interface{}, error) {
		return payload{Value: "direct"}, nil
	})
	require.NoError(t, err)
	require.Equal(t, "direct", out.Value)
}
