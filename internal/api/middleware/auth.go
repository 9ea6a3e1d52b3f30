package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/service"
	"github.com/d60-Lab/techblog/pkg/jwtauth"
	"github.com/d60-Lab/techblog/pkg/response"
)

// gin context 键
const (
	CtxUserID   = "auth_user_id"
	CtxUserRole = "auth_user_role"
	CtxTokenJTI = "auth_token_jti"
	CtxTokenExp = "auth_token_exp"
)

// extractToken Cookie 优先，其次 Authorization: Bearer。
func extractToken(c *gin.Context, cookieName string) string {
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil && v != "" {
			return v
		}
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// AuthRequired 登录校验：验签、查注销名单、拒封禁账号。
// 通过后把用户 ID / 角色 / jti 放进请求上下文。
func AuthRequired(tokens *jwtauth.Manager, authSvc service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c, cookieName)
		if tokenStr == "" {
			response.Unauthorized(c, "login required")
			return
		}
		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			response.Unauthorized(c, err.Error())
			return
		}
		if authSvc.TokenRevoked(c.Request.Context(), claims.ID) {
			response.Unauthorized(c, "token revoked")
			return
		}
		user, err := authSvc.GetUser(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Unauthorized(c, "account not found")
			return
		}
		if user.Status == model.UserStatusBanned {
			response.Forbidden(c, "account banned")
			return
		}
		c.Set(CtxUserID, user.ID)
		c.Set(CtxUserRole, user.Role)
		c.Set(CtxTokenJTI, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(CtxTokenExp, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

// OptionalAuth 解析失败不拦截，匿名照常放行；成功则带上用户信息。
func OptionalAuth(tokens *jwtauth.Manager, authSvc service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c, cookieName)
		if tokenStr == "" {
			c.Next()
			return
		}
		claims, err := tokens.Parse(tokenStr)
		if err != nil || authSvc.TokenRevoked(c.Request.Context(), claims.ID) {
			c.Next()
			return
		}
		user, err := authSvc.GetUser(c.Request.Context(), claims.UserID)
		if err != nil || user.Status == model.UserStatusBanned {
			c.Next()
			return
		}
		c.Set(CtxUserID, user.ID)
		c.Set(CtxUserRole, user.Role)
		c.Set(CtxTokenJTI, claims.ID)
		c.Next()
	}
}

// AdminRequired 接在 AuthRequired 之后使用。
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserRole) != model.RoleAdmin {
			response.Forbidden(c, "admin only")
			return
		}
		c.Next()
	}
}

// UserID 取当前登录用户 ID，匿名返回空串。
func UserID(c *gin.Context) string { return c.GetString(CtxUserID) }

// IsAdmin 当前请求是否管理员身份
func IsAdmin(c *gin.Context) bool { return c.GetString(CtxUserRole) == model.RoleAdmin }
