package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/techblog/internal/api/middleware"
	"github.com/d60-Lab/techblog/internal/service"
	"github.com/d60-Lab/techblog/pkg/response"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32,alphanum"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Nickname string `json:"nickname" binding:"max=32"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Nickname  *string `json:"nickname" binding:"omitempty,max=32"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,max=256,url"`
	Bio       *string `json:"bio" binding:"omitempty,max=256"`
}

// Register 注册
// @Summary 注册账号
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body registerRequest true "注册信息"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.authSvc.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
	})
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) || errors.Is(err, service.ErrEmailTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, user)
}

// Login 登录，令牌同时写入 Cookie 与响应体
// @Summary 登录
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, token, err := h.authSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadCredentials):
			response.Unauthorized(c, err.Error())
		case errors.Is(err, service.ErrUserBanned):
			response.Forbidden(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	c.SetCookie(h.cookieName, token, h.cookieMaxAge, "/", "", false, true)
	response.Success(c, gin.H{"user": user, "token": token})
}

// Logout 注销当前令牌
// @Summary 退出登录
// @Tags 账号
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	jti := c.GetString(middleware.CtxTokenJTI)
	expiresAt := time.Now()
	if v, ok := c.Get(middleware.CtxTokenExp); ok {
		if t, ok := v.(time.Time); ok {
			expiresAt = t
		}
	}
	if err := h.authSvc.Logout(c.Request.Context(), jti, expiresAt); err != nil {
		response.InternalError(c, err)
		return
	}
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	response.Success(c, nil)
}

// Me 当前登录用户
// @Summary 当前用户信息
// @Tags 账号
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	user, err := h.authSvc.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Unauthorized(c, "account not found")
		return
	}
	response.Success(c, user)
}

// UpdateProfile 更新个人资料
// @Summary 更新个人资料
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body updateProfileRequest true "资料字段（缺省不改）"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/auth/me [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.authSvc.UpdateProfile(c.Request.Context(), middleware.UserID(c), service.ProfileUpdate{
		Nickname:  req.Nickname,
		AvatarURL: req.AvatarURL,
		Bio:       req.Bio,
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, user)
}
