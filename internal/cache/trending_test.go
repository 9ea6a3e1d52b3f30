package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRank(t *testing.T) (*miniredis.Miniredis, *HeatRank) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewHeatRank(client, time.Minute)
}

func TestHeatRank_MissThenHit(t *testing.T) {
	_, rank := newRank(t)
	ctx := context.Background()

	// 键不存在算未命中，调用方走 DB
	ids, ok := rank.TopIDs(ctx, 0, 10)
	assert.False(t, ok)
	assert.Nil(t, ids)

	rank.Set(ctx, "t1", 3)
	rank.Set(ctx, "t2", 9)
	rank.Set(ctx, "t3", 5)

	ids, ok = rank.TopIDs(ctx, 0, 10)
	require.True(t, ok)
	assert.Equal(t, []string{"t2", "t3", "t1"}, ids)

	// 翻页
	ids, ok = rank.TopIDs(ctx, 1, 1)
	require.True(t, ok)
	assert.Equal(t, []string{"t3"}, ids)
}

func TestHeatRank_Remove(t *testing.T) {
	_, rank := newRank(t)
	ctx := context.Background()

	rank.Set(ctx, "t1", 3)
	rank.Set(ctx, "t2", 9)
	rank.Remove(ctx, "t2")

	ids, ok := rank.TopIDs(ctx, 0, 10)
	require.True(t, ok)
	assert.Equal(t, []string{"t1"}, ids)
}

func TestHeatRank_RebuildReplaces(t *testing.T) {
	mr, rank := newRank(t)
	ctx := context.Background()

	rank.Set(ctx, "stale", 100)
	rank.Rebuild(ctx, map[string]int64{"a": 1, "b": 7})

	ids, ok := rank.TopIDs(ctx, 0, 10)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, ids)
	// 重建带 TTL，榜单最终过期再从 DB 回填
	assert.Greater(t, mr.TTL("trending:heat"), time.Duration(0))

	// 空数据重建清掉整个键
	rank.Rebuild(ctx, nil)
	_, ok = rank.TopIDs(ctx, 0, 10)
	assert.False(t, ok)
}

func TestHeatRank_DisabledWithoutRedis(t *testing.T) {
	rank := NewHeatRank(nil, 0)
	ctx := context.Background()

	rank.Set(ctx, "t1", 3)
	rank.Remove(ctx, "t1")
	rank.Rebuild(ctx, map[string]int64{"t1": 3})
	ids, ok := rank.TopIDs(ctx, 0, 10)
	assert.False(t, ok)
	assert.Nil(t, ids)
}
