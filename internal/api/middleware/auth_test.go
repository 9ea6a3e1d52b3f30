package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/config"
	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/repository"
	"github.com/d60-Lab/techblog/internal/service"
	"github.com/d60-Lab/techblog/pkg/jwtauth"
)

const testCookie = "tb_token"

type authFixture struct {
	db     *gorm.DB
	tokens *jwtauth.Manager
	svc    service.AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.AllModels()...))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tokens := jwtauth.NewManager(config.JWTConfig{
		Secret:   "middleware-test-secret",
		ExpireIn: time.Hour,
		Issuer:   "techblog-test",
	})
	return &authFixture{
		db:     db,
		tokens: tokens,
		svc:    service.NewAuthService(repository.NewUserRepository(db), tokens, client),
	}
}

func (f *authFixture) createUser(t *testing.T, id, role, status string) {
	t.Helper()
	require.NoError(t, f.db.Create(&model.User{
		ID:       id,
		Username: id,
		Email:    id + "@example.com",
		Password: "x",
		Nickname: id,
		Role:     role,
		Status:   status,
	}).Error)
}

func whoamiRouter(f *authFixture) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthRequired(f.tokens, f.svc, testCookie), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	return r
}

func get(r *gin.Engine, path string, decorate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if decorate != nil {
		decorate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	f := newAuthFixture(t)
	f.createUser(t, "u1", model.RoleUser, model.UserStatusActive)
	r := whoamiRouter(f)

	token, _, err := f.tokens.Issue("u1", model.RoleUser)
	require.NoError(t, err)

	w := get(r, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "login required")

	// Bearer 头
	w = get(r, "/me", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())

	// Cookie 同样认
	w = get(r, "/me", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(r, "/me", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer garbage.token.here")
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_RevokedToken(t *testing.T) {
	f := newAuthFixture(t)
	f.createUser(t, "u1", model.RoleUser, model.UserStatusActive)
	r := whoamiRouter(f)

	token, jti, err := f.tokens.Issue("u1", model.RoleUser)
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(context.Background(), jti, time.Now().Add(time.Hour)))

	w := get(r, "/me", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token revoked")
}

func TestAuthRequired_BannedAndMissing(t *testing.T) {
	f := newAuthFixture(t)
	f.createUser(t, "banned", model.RoleUser, model.UserStatusBanned)
	r := whoamiRouter(f)

	token, _, err := f.tokens.Issue("banned", model.RoleUser)
	require.NoError(t, err)
	w := get(r, "/me", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 令牌有效但账号已注销
	ghost, _, err := f.tokens.Issue("ghost", model.RoleUser)
	require.NoError(t, err)
	w = get(r, "/me", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+ghost)
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "account not found")
}

func TestAdminRequired(t *testing.T) {
	f := newAuthFixture(t)
	f.createUser(t, "u1", model.RoleUser, model.UserStatusActive)
	f.createUser(t, "boss", model.RoleAdmin, model.UserStatusActive)

	r := gin.New()
	r.GET("/admin", AuthRequired(f.tokens, f.svc, testCookie), AdminRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	token, _, err := f.tokens.Issue("u1", model.RoleUser)
	require.NoError(t, err)
	w := get(r, "/admin", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "admin only")

	token, _, err = f.tokens.Issue("boss", model.RoleAdmin)
	require.NoError(t, err)
	w = get(r, "/admin", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	f := newAuthFixture(t)
	f.createUser(t, "u1", model.RoleUser, model.UserStatusActive)

	r := gin.New()
	r.GET("/feed", OptionalAuth(f.tokens, f.svc, testCookie), func(c *gin.Context) {
		c.String(http.StatusOK, "viewer="+UserID(c))
	})

	// 匿名放行
	w := get(r, "/feed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "viewer=", w.Body.String())

	// 烂令牌不拦路，按匿名处理
	w = get(r, "/feed", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer nope")
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "viewer=", w.Body.String())

	token, _, err := f.tokens.Issue("u1", model.RoleUser)
	require.NoError(t, err)
	w = get(r, "/feed", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "viewer=u1", w.Body.String())
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// 补充速率压到可忽略，突发额度 2
	r.GET("/ping", RateLimit(0.001, 2), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	assert.Equal(t, http.StatusOK, get(r, "/ping", nil).Code)
	assert.Equal(t, http.StatusOK, get(r, "/ping", nil).Code)
	w := get(r, "/ping", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "too many requests")
}
