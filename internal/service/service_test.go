package service

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/internal/model"
)

// setupServiceDB 内存库 + 全量建表，每个测试独立一份。
func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.AllModels()...))
	return db
}

// newTestRedis miniredis 实例 + 客户端，随测试自动回收。
func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func seedUser(t *testing.T, db *gorm.DB, id string) *model.User {
	t.Helper()
	u := &model.User{
		ID:       id,
		Username: id,
		Email:    id + "@example.com",
		Password: "x",
		Nickname: "nick-" + id,
		Role:     model.RoleUser,
		Status:   model.UserStatusActive,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedPublishedPost(t *testing.T, db *gorm.DB, id string) *model.Post {
	t.Helper()
	now := time.Now()
	p := &model.Post{
		ID:          id,
		Slug:        "slug-" + id,
		Title:       "title " + id,
		Content:     "content",
		Status:      model.PostStatusPublished,
		PublishedAt: &now,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}
