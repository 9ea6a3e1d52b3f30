package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/config"
	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/repository"
	"github.com/d60-Lab/techblog/pkg/jwtauth"
)

func newTokenManager() *jwtauth.Manager {
	return jwtauth.NewManager(config.JWTConfig{
		Secret:   "unit-test-secret",
		ExpireIn: time.Hour,
		Issuer:   "techblog-test",
	})
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupServiceDB(t)
	userRepo := repository.NewUserRepository(db)
	tokens := newTokenManager()
	svc := NewAuthService(userRepo, tokens, nil)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Nickname) // 没填昵称时用用户名
	assert.Equal(t, model.RoleUser, u.Role)
	assert.NotEqual(t, "s3cret!", u.Password)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	_, err = svc.Register(ctx, RegisterInput{Username: "bob", Email: "alice@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	got, token, err := svc.Login(ctx, "alice", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	claims, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, model.RoleUser, claims.Role)

	// 账号不存在与密码错误给同一个错误
	_, _, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, _, err = svc.Login(ctx, "nobody", "s3cret!")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLogin_BannedUser(t *testing.T) {
	db := setupServiceDB(t)
	userRepo := repository.NewUserRepository(db)
	svc := NewAuthService(userRepo, newTokenManager(), nil)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Username: "troll", Email: "troll@example.com", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, userRepo.UpdateStatus(ctx, u.ID, model.UserStatusBanned))

	_, _, err = svc.Login(ctx, "troll", "pw")
	assert.ErrorIs(t, err, ErrUserBanned)
}

func TestLogout_Denylist(t *testing.T) {
	db := setupServiceDB(t)
	mr, client := newTestRedis(t)
	userRepo := repository.NewUserRepository(db)
	tokens := newTokenManager()
	svc := NewAuthService(userRepo, tokens, client)
	ctx := context.Background()

	_, jti, err := tokens.Issue("u1", model.RoleUser)
	require.NoError(t, err)

	assert.False(t, svc.TokenRevoked(ctx, jti))
	require.NoError(t, svc.Logout(ctx, jti, time.Now().Add(time.Hour)))
	assert.True(t, svc.TokenRevoked(ctx, jti))
	// 名单项带剩余时长过期
	assert.Greater(t, mr.TTL("auth:denylist:"+jti), time.Duration(0))

	// 已过期令牌登出是空操作
	require.NoError(t, svc.Logout(ctx, "other-jti", time.Now().Add(-time.Minute)))
	assert.False(t, svc.TokenRevoked(ctx, "other-jti"))
}

func TestTokenRevoked_FailOpenWithoutRedis(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), newTokenManager(), nil)
	ctx := context.Background()

	require.NoError(t, svc.Logout(ctx, "some-jti", time.Now().Add(time.Hour)))
	assert.False(t, svc.TokenRevoked(ctx, "some-jti"))
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	db := setupServiceDB(t)
	userRepo := repository.NewUserRepository(db)
	svc := NewAuthService(userRepo, newTokenManager(), nil)
	ctx := context.Background()
	seedUser(t, db, "u1")

	bio := "写点 Go"
	got, err := svc.UpdateProfile(ctx, "u1", ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "写点 Go", got.Bio)
	assert.Equal(t, "nick-u1", got.Nickname) // 未提供的字段不动

	nick := "新昵称"
	got, err = svc.UpdateProfile(ctx, "u1", ProfileUpdate{Nickname: &nick})
	require.NoError(t, err)
	assert.Equal(t, "新昵称", got.Nickname)
	assert.Equal(t, "写点 Go", got.Bio)
}
