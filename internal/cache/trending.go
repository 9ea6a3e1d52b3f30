package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const heatKey = "trending:heat"

// HeatRank 热榜 ZSet 镜像：member=话题 ID，score=热度。
// Redis 未启用时所有写入空转、读取报未命中，排序由 DB 兜底。
// 写入尽力而为，失败不影响主流程。
type HeatRank struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewHeatRank(rdb *redis.Client, ttl time.Duration) *HeatRank {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &HeatRank{rdb: rdb, ttl: ttl}
}

func (h *HeatRank) enabled() bool { return h != nil && h.rdb != nil }

// Set 单话题热度写入
func (h *HeatRank) Set(ctx context.Context, topicID string, heat int64) {
	if !h.enabled() {
		return
	}
	_ = h.rdb.ZAdd(ctx, heatKey, redis.Z{Score: float64(heat), Member: topicID}).Err()
}

// Remove 关闭/删除话题时摘出榜单
func (h *HeatRank) Remove(ctx context.Context, topicIDs ...string) {
	if !h.enabled() || len(topicIDs) == 0 {
		return
	}
	members := make([]interface{}, len(topicIDs))
	for i, id := range topicIDs {
		members[i] = id
	}
	_ = h.rdb.ZRem(ctx, heatKey, members...).Err()
}

// TopIDs 热度倒序取一页话题 ID。第二个返回值为 false 表示未命中（键不存在
// 或 Redis 不可用），调用方走 DB 并回填。
func (h *HeatRank) TopIDs(ctx context.Context, offset, limit int) ([]string, bool) {
	if !h.enabled() {
		return nil, false
	}
	exists, err := h.rdb.Exists(ctx, heatKey).Result()
	if err != nil || exists == 0 {
		return nil, false
	}
	ids, err := h.rdb.ZRevRange(ctx, heatKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, false
	}
	return ids, true
}

// Rebuild 全量重建：Del + ZAdd + Expire 走一条 pipeline。
func (h *HeatRank) Rebuild(ctx context.Context, scores map[string]int64) {
	if !h.enabled() {
		return
	}
	pipe := h.rdb.Pipeline()
	pipe.Del(ctx, heatKey)
	if len(scores) > 0 {
		zs := make([]redis.Z, 0, len(scores))
		for id, heat := range scores {
			zs = append(zs, redis.Z{Score: float64(heat), Member: id})
		}
		pipe.ZAdd(ctx, heatKey, zs...)
		pipe.Expire(ctx, heatKey, h.ttl)
	}
	_, _ = pipe.Exec(ctx)
}
