package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/techblog/internal/cache"
	"github.com/d60-Lab/techblog/internal/repository"
	"github.com/d60-Lab/techblog/pkg/logger"
)

// Sweeper 周期清扫：超时未付订单置过期、到期话题关闭并摘榜。
type Sweeper struct {
	orderRepo repository.OrderRepository
	topicRepo repository.TopicRepository
	heat      *cache.HeatRank
	every     time.Duration
}

func NewSweeper(orderRepo repository.OrderRepository, topicRepo repository.TopicRepository, heat *cache.HeatRank, every time.Duration) *Sweeper {
	if every <= 0 {
		every = time.Minute
	}
	return &Sweeper{orderRepo: orderRepo, topicRepo: topicRepo, heat: heat, every: every}
}

// Start 启动清扫循环，返回停止函数。
func (s *Sweeper) Start() func(context.Context) error {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(s.every)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.SweepOnce(context.Background())
			}
		}
	}()
	return func(ctx context.Context) error {
		close(stop)
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// SweepOnce 跑一轮清扫。cmd 工具也会直接调用。
func (s *Sweeper) SweepOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	now := time.Now()

	expired, err := s.orderRepo.ExpireBefore(ctx, now)
	if err != nil {
		logger.Warn("sweep orders failed", zap.Error(err))
	} else if expired > 0 {
		logger.Info("expired pending orders", zap.Int64("count", expired))
	}

	closed, err := s.topicRepo.CloseExpired(ctx, now)
	if err != nil {
		logger.Warn("sweep topics failed", zap.Error(err))
		return
	}
	if len(closed) > 0 {
		s.heat.Remove(ctx, closed...)
		logger.Info("closed expired topics", zap.Int("count", len(closed)))
	}
}
