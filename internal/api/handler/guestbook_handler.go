package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/internal/api/middleware"
	"github.com/d60-Lab/techblog/internal/service"
	"github.com/d60-Lab/techblog/pkg/response"
)

type guestbookRequest struct {
	Nickname string `json:"nickname" binding:"omitempty,max=32"`
	Content  string `json:"content" binding:"required,min=1,max=1000"`
}

// ListGuestbook 留言墙
// @Summary 留言墙
// @Tags 留言
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=service.GuestbookPage}
// @Router /api/v1/guestbook [get]
func (h *Handler) ListGuestbook(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	out, err := h.guestbookSvc.List(c.Request.Context(), page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, out)
}

// PostGuestbook 写留言。未登录必须带昵称，登录用户缺省用资料昵称。
// @Summary 写留言
// @Tags 留言
// @Accept json
// @Produce json
// @Param request body guestbookRequest true "留言内容"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/guestbook [post]
func (h *Handler) PostGuestbook(c *gin.Context) {
	var req guestbookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	entry, err := h.guestbookSvc.Post(c.Request.Context(), middleware.UserID(c), req.Nickname, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrNicknameRequired) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, entry)
}

// AdminListGuestbook 管理端留言列表（含隐藏）
// @Summary 管理端留言列表
// @Tags 管理
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=service.GuestbookPage}
// @Router /api/v1/admin/guestbook [get]
func (h *Handler) AdminListGuestbook(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	out, err := h.guestbookSvc.ListAll(c.Request.Context(), page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, out)
}

// SetGuestbookVisibility 隐藏 / 恢复留言
// @Summary 留言可见性
// @Tags 管理
// @Param id path string true "留言 ID"
// @Param action query string true "hide / show"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/guestbook/{id}/visibility [post]
func (h *Handler) SetGuestbookVisibility(c *gin.Context) {
	var err error
	switch c.Query("action") {
	case "hide":
		err = h.guestbookSvc.Hide(c.Request.Context(), c.Param("id"))
	case "show":
		err = h.guestbookSvc.Show(c.Request.Context(), c.Param("id"))
	default:
		response.BadRequest(c, "action must be hide or show")
		return
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "entry not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

// DeleteGuestbook 删除留言
// @Summary 删除留言
// @Tags 管理
// @Param id path string true "留言 ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/guestbook/{id} [delete]
func (h *Handler) DeleteGuestbook(c *gin.Context) {
	if err := h.guestbookSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "entry not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}
