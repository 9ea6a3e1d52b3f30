package service

import (
	"context"
	"sync"
	"time"

	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/repository"
)

type SettingService interface {
	// Public 白名单内的公开设置，带进程内 TTL 缓存
	Public(ctx context.Context) (map[string]string, error)
	List(ctx context.Context) ([]*model.Setting, error)
	Set(ctx context.Context, key, value, description string) error
}

type settingService struct {
	settingRepo repository.SettingRepository

	mu       sync.RWMutex
	cached   map[string]string
	cachedAt time.Time
	ttl      time.Duration
}

func NewSettingService(settingRepo repository.SettingRepository, cacheTTL time.Duration) SettingService {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &settingService{settingRepo: settingRepo, ttl: cacheTTL}
}

func (s *settingService) Public(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	if s.cached != nil && time.Since(s.cachedAt) < s.ttl {
		out := s.cached
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	values, err := s.settingRepo.GetMany(ctx, model.PublicSettingKeys)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.cached = values
	s.cachedAt = time.Now()
	s.mu.Unlock()
	return values, nil
}

func (s *settingService) List(ctx context.Context) ([]*model.Setting, error) {
	return s.settingRepo.List(ctx)
}

func (s *settingService) Set(ctx context.Context, key, value, description string) error {
	if err := s.settingRepo.Upsert(ctx, key, value, description); err != nil {
		return err
	}
	// 写入后立刻失效，管理端改完马上生效
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
	return nil
}
