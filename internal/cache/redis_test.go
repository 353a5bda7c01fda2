package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return New(mr.Addr(), ""), mr
}

func TestGetLikedMeCount_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	count, hit, err := c.GetLikedMeCount(context.Background(), 7)
	require.NoError(t, err)
	require.False(t, hit)
	require.Zero(t, count)
}

func TestSetThenGetLikedMeCount(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetLikedMeCount(ctx, 7, 12))

	count, hit, err := c.GetLikedMeCount(ctx, 7)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, int64(12), count)

	mr.CheckGet(t, "dating:likedme:7", "12")
	require.Positive(t, mr.TTL("dating:likedme:7"))
}

func TestGetLikedMeCount_RefreshesTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetLikedMeCount(ctx, 7, 1))
	mr.SetTTL("dating:likedme:7", time.Minute)

	_, hit, err := c.GetLikedMeCount(ctx, 7)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, LikedMeTTL, mr.TTL("dating:likedme:7"))
}

func TestBumpLikedMeCount_ExistingKey(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetLikedMeCount(ctx, 7, 4))
	c.BumpLikedMeCount(ctx, 7, 1)

	mr.CheckGet(t, "dating:likedme:7", "5")
}

func TestBumpLikedMeCount_MissingKeyStaysMissing(t *testing.T) {
	c, mr := newTestCache(t)

	c.BumpLikedMeCount(context.Background(), 7, 1)

	require.False(t, mr.Exists("dating:likedme:7"))
}

func TestInvalidateLikedMeCount(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetLikedMeCount(ctx, 7, 4))
	c.InvalidateLikedMeCount(ctx, 7)

	require.False(t, mr.Exists("dating:likedme:7"))
}

func TestGetLikedMeCount_GarbageValueIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Set("dating:likedme:7", "not-a-number")

	count, hit, err := c.GetLikedMeCount(context.Background(), 7)
	require.NoError(t, err)
	require.False(t, hit)
	require.Zero(t, count)
}
