package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hos-trip-service/internal/adapters/cache"
)

type cachedPlace struct {
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

func newTestTier(t *testing.T, ttl time.Duration) (*cache.RedisTier, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return cache.NewRedisTierFromClient(client, "geocode", ttl), mr
}

func TestRedisTier_SetThenGet_RoundTrips(t *testing.T) {
	tier, _ := newTestTier(t, time.Hour)
	ctx := context.Background()

	want := cachedPlace{DisplayName: "Chicago, IL", Lat: 41.8781, Lng: -87.6298}
	require.NoError(t, tier.Set(ctx, "Chicago, IL", want))

	var got cachedPlace
	ok, err := tier.Get(ctx, "Chicago, IL", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestRedisTier_Get_MissReturnsFalseNoError(t *testing.T) {
	tier, _ := newTestTier(t, time.Hour)

	var got cachedPlace
	ok, err := tier.Get(context.Background(), "never set", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisTier_Get_ExpiredEntryIsAMiss(t *testing.T) {
	tier, mr := newTestTier(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, tier.Set(ctx, "Madison, WI", cachedPlace{DisplayName: "Madison, WI"}))

	mr.FastForward(2 * time.Minute)

	var got cachedPlace
	ok, err := tier.Get(ctx, "Madison, WI", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisTier_HashedKeys_DoNotCollideAcrossDistinctInputs(t *testing.T) {
	tier, _ := newTestTier(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, tier.Set(ctx, "Chicago, IL", cachedPlace{DisplayName: "Chicago, IL"}))
	require.NoError(t, tier.Set(ctx, "Milwaukee, WI", cachedPlace{DisplayName: "Milwaukee, WI"}))

	var chicago, milwaukee cachedPlace
	ok1, err := tier.Get(ctx, "Chicago, IL", &chicago)
	require.NoError(t, err)
	ok2, err := tier.Get(ctx, "Milwaukee, WI", &milwaukee)
	require.NoError(t, err)

	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, "Chicago, IL", chicago.DisplayName)
	assert.Equal(t, "Milwaukee, WI", milwaukee.DisplayName)
}
