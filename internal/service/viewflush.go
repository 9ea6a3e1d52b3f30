package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/techblog/internal/repository"
	"github.com/d60-Lab/techblog/pkg/logger"
)

const viewMirrorKey = "post:views"

// ViewFlusher 浏览数异步聚合器：内存累加 postID -> 增量，周期批量落库，
// 避免每次浏览都写一行 UPDATE。队列满直接丢（浏览数允许少记）。
// Redis 可用时同步把增量镜像进 hash，便于运维侧看实时总量。
type ViewFlusher struct {
	postRepo repository.PostRepository
	rdb      *redis.Client
	ch       chan string
	every    time.Duration
}

func NewViewFlusher(postRepo repository.PostRepository, rdb *redis.Client, every time.Duration, queueSize int) *ViewFlusher {
	if every <= 0 {
		every = 10 * time.Second
	}
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &ViewFlusher{postRepo: postRepo, rdb: rdb, ch: make(chan string, queueSize), every: every}
}

// Start 启动聚合循环，返回停止函数；停止时会做最后一次落库。
func (f *ViewFlusher) Start() func(context.Context) error {
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	go func() {
		defer close(doneCh)
		pending := make(map[string]int64)
		ticker := time.NewTicker(f.every)
		defer ticker.Stop()
		for {
			select {
			case postID := <-f.ch:
				pending[postID]++
			case <-ticker.C:
				f.flush(pending)
				pending = make(map[string]int64)
			case <-stopCh:
				// 排空通道里残留的命中再落最后一批
				for {
					select {
					case postID := <-f.ch:
						pending[postID]++
					default:
						f.flush(pending)
						return
					}
				}
			}
		}
	}()
	return func(ctx context.Context) error {
		close(stopCh)
		select {
		case <-doneCh:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (f *ViewFlusher) flush(pending map[string]int64) {
	if len(pending) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for postID, delta := range pending {
		if err := f.postRepo.AddViewDelta(ctx, postID, delta); err != nil {
			logger.Warn("view flush failed", zap.String("post", postID), zap.Int64("delta", delta), zap.Error(err))
			continue
		}
		if f.rdb != nil {
			_ = f.rdb.HIncrBy(ctx, viewMirrorKey, postID, delta).Err()
		}
	}
}

// Hit 记一次浏览。非阻塞，队列满丢弃。
func (f *ViewFlusher) Hit(postID string) {
	select {
	case f.ch <- postID:
	default:
		logger.Warn("view queue full, drop hit", zap.String("post", postID))
	}
}

// QueueLen 当前积压（采样值）。
func (f *ViewFlusher) QueueLen() int { return len(f.ch) }
