package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/d60-Lab/techblog/internal/cache"
	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/repository"
)

func TestSweepOnce(t *testing.T) {
	db := setupServiceDB(t)
	mr, client := newTestRedis(t)
	orderRepo := repository.NewOrderRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	heat := cache.NewHeatRank(client, time.Minute)
	ctx := context.Background()

	now := time.Now()
	stale := &model.Order{
		OrderNo:   "stale-order",
		UserID:    "u1",
		ProductID: "p1",
		PayCents:  100,
		Status:    model.OrderStatusPending,
		ExpiresAt: now.Add(-time.Minute),
	}
	require.NoError(t, orderRepo.Create(ctx, stale))
	fresh := &model.Order{
		OrderNo:   "fresh-order",
		UserID:    "u1",
		ProductID: "p1",
		PayCents:  100,
		Status:    model.OrderStatusPending,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, orderRepo.Create(ctx, fresh))

	gone := &model.TrendingTopic{
		Title:     "过期话题",
		Kind:      model.TopicKindBinary,
		Status:    model.TopicStatusOpen,
		ExpiresAt: now.Add(-time.Minute),
	}
	require.NoError(t, topicRepo.Create(ctx, gone, nil))
	alive := &model.TrendingTopic{
		Title:     "进行中话题",
		Kind:      model.TopicKindBinary,
		Status:    model.TopicStatusOpen,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, topicRepo.Create(ctx, alive, nil))
	heat.Set(ctx, gone.ID, 5)
	heat.Set(ctx, alive.ID, 3)

	sweeper := NewSweeper(orderRepo, topicRepo, heat, time.Minute)
	sweeper.SweepOnce(ctx)

	got, err := orderRepo.GetByOrderNo(ctx, "stale-order")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusExpired, got.Status)
	got, err = orderRepo.GetByOrderNo(ctx, "fresh-order")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, got.Status)

	topic, err := topicRepo.GetByID(ctx, gone.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TopicStatusClosed, topic.Status)
	topic, err = topicRepo.GetByID(ctx, alive.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TopicStatusOpen, topic.Status)

	// 关闭的话题同时摘出热榜
	ids, hit := heat.TopIDs(ctx, 0, 10)
	require.True(t, hit)
	assert.Equal(t, []string{alive.ID}, ids)
	assert.True(t, mr.Exists("trending:heat"))
}

func TestSweeper_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))

	db := setupServiceDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	orderRepo := repository.NewOrderRepository(db)
	topicRepo := repository.NewTopicRepository(db)

	sweeper := NewSweeper(orderRepo, topicRepo, cache.NewHeatRank(nil, 0), 10*time.Millisecond)
	stop := sweeper.Start()
	time.Sleep(35 * time.Millisecond)
	require.NoError(t, stop(context.Background()))
}
