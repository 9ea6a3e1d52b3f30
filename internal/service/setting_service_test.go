package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/repository"
)

func TestSettingPublic_WhitelistOnly(t *testing.T) {
	db := setupServiceDB(t)
	repo := repository.NewSettingRepository(db)
	svc := NewSettingService(repo, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, model.SettingSiteTitle, "码农周刊", "站点标题"))
	require.NoError(t, repo.Upsert(ctx, model.SettingAnnouncement, "周六停机维护", ""))
	require.NoError(t, repo.Upsert(ctx, "smtp_password", "hunter2", "邮件密码"))

	pub, err := svc.Public(ctx)
	require.NoError(t, err)
	assert.Equal(t, "码农周刊", pub[model.SettingSiteTitle])
	assert.Equal(t, "周六停机维护", pub[model.SettingAnnouncement])
	// 白名单外的键不出现在公开接口
	_, leaked := pub["smtp_password"]
	assert.False(t, leaked)

	// 管理端列表看得到全部
	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSettingPublic_CacheInvalidatedBySet(t *testing.T) {
	db := setupServiceDB(t)
	repo := repository.NewSettingRepository(db)
	svc := NewSettingService(repo, time.Hour)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, model.SettingSiteTitle, "旧标题", ""))
	pub, err := svc.Public(ctx)
	require.NoError(t, err)
	assert.Equal(t, "旧标题", pub[model.SettingSiteTitle])

	// 绕过服务直接改库：TTL 内仍然读到缓存
	require.NoError(t, repo.Upsert(ctx, model.SettingSiteTitle, "野改标题", ""))
	pub, err = svc.Public(ctx)
	require.NoError(t, err)
	assert.Equal(t, "旧标题", pub[model.SettingSiteTitle])

	// 经服务写入立即失效
	require.NoError(t, svc.Set(ctx, model.SettingSiteTitle, "新标题", ""))
	pub, err = svc.Public(ctx)
	require.NoError(t, err)
	assert.Equal(t, "新标题", pub[model.SettingSiteTitle])
}
