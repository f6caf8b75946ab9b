package local

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZSet_OrderAndUpdate(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	require.NoError(t, c.ZAdd(ctx, "lb", 40, "round-a"))
	require.NoError(t, c.ZAdd(ctx, "lb", 110, "round-b"))
	require.NoError(t, c.ZAdd(ctx, "lb", 75, "round-c"))
	require.NoError(t, c.ZAdd(ctx, "lb", 120, "round-a"))

	top, err := c.ZRevRangeWithScores(ctx, "lb", 0, -1)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "round-a", top[0].Member)
	assert.Equal(t, 120.0, top[0].Score)
	assert.Equal(t, "round-b", top[1].Member)
	assert.Equal(t, "round-c", top[2].Member)

	s, err := c.ZScore(ctx, "lb", "round-c")
	require.NoError(t, err)
	assert.Equal(t, 75.0, s)
}

func TestZSet_RangeBounds(t *testing.T) {
	c := NewCache()
	ctx := context.Background()
	for i, m := range []string{"a", "b", "c"} {
		require.NoError(t, c.ZAdd(ctx, "lb", float64(i), m))
	}
	got, err := c.ZRevRangeWithScores(ctx, "lb", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []ZEntry{{Member: "b", Score: 1}}, got)

	got, err = c.ZRevRangeWithScores(ctx, "lb", 5, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestZSet_KeepTopAndDel(t *testing.T) {
	c := NewCache()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, c.ZAdd(ctx, "lb", float64(i*10), string(rune('a'+i))))
	}
	require.NoError(t, c.ZKeepTop(ctx, "lb", 2))
	top, _ := c.ZRevRangeWithScores(ctx, "lb", 0, -1)
	assert.Len(t, top, 2)
	assert.Equal(t, "e", top[0].Member)

	_, err := c.ZScore(ctx, "lb", "a")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Del(ctx, "lb"))
	top, _ = c.ZRevRangeWithScores(ctx, "lb", 0, -1)
	assert.Empty(t, top)
}
