package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/repository"
)

func newGuestbookService(t *testing.T) (GuestbookService, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t)
	svc := NewGuestbookService(repository.NewGuestbookRepository(db), repository.NewUserRepository(db))
	return svc, db
}

func TestGuestbookPost_Anonymous(t *testing.T) {
	svc, _ := newGuestbookService(t)
	ctx := context.Background()

	_, err := svc.Post(ctx, "", "", "匿名内容")
	assert.ErrorIs(t, err, ErrNicknameRequired)
	_, err = svc.Post(ctx, "", "   ", "全是空格的昵称")
	assert.ErrorIs(t, err, ErrNicknameRequired)

	entry, err := svc.Post(ctx, "", "路人甲", "写得不错")
	require.NoError(t, err)
	assert.Nil(t, entry.UserID)
	assert.Equal(t, "路人甲", entry.Nickname)
	assert.Equal(t, model.GuestbookStatusVisible, entry.Status)
}

func TestGuestbookPost_LoggedInNicknameFallback(t *testing.T) {
	svc, db := newGuestbookService(t)
	ctx := context.Background()
	seedUser(t, db, "u1")
	noNick := &model.User{
		ID:       "u2",
		Username: "plainjoe",
		Email:    "joe@example.com",
		Password: "x",
		Role:     model.RoleUser,
		Status:   model.UserStatusActive,
	}
	require.NoError(t, db.Create(noNick).Error)

	// 不带昵称时取资料昵称
	entry, err := svc.Post(ctx, "u1", "", "登录留言")
	require.NoError(t, err)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "u1", *entry.UserID)
	assert.Equal(t, "nick-u1", entry.Nickname)

	// 资料没昵称就落回用户名
	entry, err = svc.Post(ctx, "u2", "", "再来一条")
	require.NoError(t, err)
	assert.Equal(t, "plainjoe", entry.Nickname)

	// 显式昵称优先
	entry, err = svc.Post(ctx, "u1", "马甲", "换个名字")
	require.NoError(t, err)
	assert.Equal(t, "马甲", entry.Nickname)
}

func TestGuestbookHideShow(t *testing.T) {
	svc, _ := newGuestbookService(t)
	ctx := context.Background()

	first, err := svc.Post(ctx, "", "甲", "第一条")
	require.NoError(t, err)
	_, err = svc.Post(ctx, "", "乙", "第二条")
	require.NoError(t, err)
	_, err = svc.Post(ctx, "", "丙", "第三条")
	require.NoError(t, err)

	require.NoError(t, svc.Hide(ctx, first.ID))
	page, err := svc.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	// 管理端连隐藏的一起看
	all, err := svc.ListAll(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	require.NoError(t, svc.Show(ctx, first.ID))
	page, err = svc.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	require.NoError(t, svc.Delete(ctx, first.ID))
	all, err = svc.ListAll(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)
}
