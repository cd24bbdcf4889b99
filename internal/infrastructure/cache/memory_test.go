package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_ExpiresAfterTTL(t *testing.T) {
	now := time.Date(2024, 11, 1, 9, 0, 0, 0, time.UTC)
	c := NewMemoryCache().WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "products:available", []byte("[]"), time.Minute))

	v, ok, err := c.Get(ctx, "products:available")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("[]"), v)

	now = now.Add(time.Minute)
	_, ok, err = c.Get(ctx, "products:available")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_ZeroTTLNeverExpires(t *testing.T) {
	now := time.Date(2024, 11, 1, 9, 0, 0, 0, time.UTC)
	c := NewMemoryCache().WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	now = now.Add(24 * time.Hour)

	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)
}

func TestMemoryCache_InvalidateByPattern(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	for _, key := range []string{"products:available", "products:all", "orders:active"} {
		require.NoError(t, c.Set(ctx, key, []byte("x"), time.Hour))
	}

	require.NoError(t, c.Invalidate(ctx, "products"))

	_, ok, _ := c.Get(ctx, "products:all")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "orders:active")
	assert.True(t, ok)
}

func TestMemoryCache_StoresCopy(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	value := []byte("abc")

	require.NoError(t, c.Set(ctx, "k", value, time.Hour))
	value[0] = 'z'

	got, _, _ := c.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), got)
}

func TestJSONHelpers(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, c, "k", []string{"a", "b"}, time.Hour))
	var out []string
	hit, err := GetJSON(ctx, c, "k", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a", "b"}, out)

	require.NoError(t, c.Set(ctx, "broken", []byte("{"), time.Hour))
	hit, err = GetJSON(ctx, c, "broken", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}
