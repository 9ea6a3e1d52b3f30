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

type createCommentRequest struct {
	ParentID *string `json:"parent_id" binding:"omitempty,uuid"`
	Content  string  `json:"content" binding:"required,min=1,max=2000"`
}

type editCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

// ListComments 文章评论树
// @Summary 文章评论树
// @Tags 评论
// @Param slug path string true "文章 slug"
// @Param page query int false "顶层页码" default(1)
// @Param page_size query int false "每页顶层数量" default(10)
// @Success 200 {object} response.Response{data=service.CommentPage}
// @Router /api/v1/posts/{slug}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	post, ok := h.postBySlug(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	out, err := h.commentSvc.Tree(c.Request.Context(), post.ID, middleware.UserID(c), page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, out)
}

// CreateComment 发表评论或回复
// @Summary 发表评论
// @Tags 评论
// @Accept json
// @Produce json
// @Param slug path string true "文章 slug"
// @Param request body createCommentRequest true "评论内容，parent_id 为空即顶层评论"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/posts/{slug}/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	post, ok := h.postBySlug(c)
	if !ok {
		return
	}
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	comment, err := h.commentSvc.Create(c.Request.Context(), post.ID, middleware.UserID(c), req.ParentID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotPublished), errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(c, "post or parent comment not found")
		case errors.Is(err, service.ErrParentMismatch), errors.Is(err, service.ErrCommentRecalled):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, comment)
}

// EditComment 编辑自己的评论
// @Summary 编辑评论
// @Tags 评论
// @Accept json
// @Produce json
// @Param id path string true "评论 ID"
// @Param request body editCommentRequest true "新内容"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/comments/{id} [put]
func (h *Handler) EditComment(c *gin.Context) {
	var req editCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	err := h.commentSvc.Edit(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(c, "comment not found")
		case errors.Is(err, service.ErrNotCommentOwner):
			response.Forbidden(c, err.Error())
		case errors.Is(err, service.ErrCommentRecalled):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, nil)
}

// RecallComment 撤回评论（作者或管理员），楼层保留、内容清空
// @Summary 撤回评论
// @Tags 评论
// @Param id path string true "评论 ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/comments/{id} [delete]
func (h *Handler) RecallComment(c *gin.Context) {
	err := h.commentSvc.Recall(c.Request.Context(), c.Param("id"), middleware.UserID(c), middleware.IsAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(c, "comment not found")
		case errors.Is(err, service.ErrNotCommentOwner):
			response.Forbidden(c, err.Error())
		case errors.Is(err, service.ErrCommentRecalled):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, nil)
}

// LikeComment 点赞评论
// @Summary 点赞评论
// @Tags 评论
// @Param id path string true "评论 ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/comments/{id}/like [post]
func (h *Handler) LikeComment(c *gin.Context) {
	err := h.commentSvc.Like(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(c, "comment not found")
		case errors.Is(err, service.ErrAlreadyLiked):
			response.Conflict(c, err.Error())
		case errors.Is(err, service.ErrCommentRecalled):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, nil)
}

// UnlikeComment 取消评论点赞
// @Summary 取消评论点赞
// @Tags 评论
// @Param id path string true "评论 ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/comments/{id}/like [delete]
func (h *Handler) UnlikeComment(c *gin.Context) {
	err := h.commentSvc.Unlike(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrNotLiked) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}
