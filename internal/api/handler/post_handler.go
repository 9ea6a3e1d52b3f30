package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/techblog/internal/api/middleware"
	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/service"
	"github.com/d60-Lab/techblog/pkg/response"
)

type postRequest struct {
	Title   string   `json:"title" binding:"required,max=128"`
	Slug    string   `json:"slug" binding:"required,max=128,slug"`
	Summary string   `json:"summary" binding:"max=512"`
	Content string   `json:"content" binding:"required"`
	Cover   string   `json:"cover" binding:"omitempty,max=256,url"`
	Status  string   `json:"status" binding:"omitempty,oneof=draft published"`
	Pinned  bool     `json:"pinned"`
	Tags    []string `json:"tags" binding:"max=10,dive,max=32"`
}

// ListPosts 文章列表
// @Summary 文章列表
// @Tags 文章
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param tag query string false "标签 slug"
// @Param keyword query string false "标题/摘要关键词"
// @Success 200 {object} response.Response{data=service.PostPage}
// @Router /api/v1/posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	out, err := h.postSvc.List(c.Request.Context(), service.PostQuery{
		TagSlug:  c.Query("tag"),
		Keyword:  c.Query("keyword"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, out)
}

// AdminListPosts 管理端文章列表（含草稿）
// @Summary 管理端文章列表
// @Tags 管理
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param status query string false "draft / published"
// @Success 200 {object} response.Response{data=service.PostPage}
// @Router /api/v1/admin/posts [get]
func (h *Handler) AdminListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	out, err := h.postSvc.List(c.Request.Context(), service.PostQuery{
		Status:       c.Query("status"),
		Keyword:      c.Query("keyword"),
		Page:         page,
		PageSize:     pageSize,
		IncludeDraft: true,
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, out)
}

// GetPost 文章详情（记一次浏览）
// @Summary 文章详情
// @Tags 文章
// @Param slug path string true "文章 slug"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/posts/{slug} [get]
func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.postSvc.GetBySlug(c.Request.Context(), c.Param("slug"), middleware.IsAdmin(c), true)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	liked, err := h.postSvc.Liked(c.Request.Context(), post.ID, middleware.UserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"post": post, "liked": liked})
}

// CreatePost 新建文章
// @Summary 新建文章
// @Tags 管理
// @Accept json
// @Produce json
// @Param request body postRequest true "文章内容"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/admin/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.postSvc.Create(c.Request.Context(), service.PostInput{
		Title:    req.Title,
		Slug:     req.Slug,
		Summary:  req.Summary,
		Content:  req.Content,
		Cover:    req.Cover,
		Status:   req.Status,
		Pinned:   req.Pinned,
		Tags:     req.Tags,
		AuthorID: middleware.UserID(c),
	})
	if err != nil {
		if errors.Is(err, service.ErrSlugTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, post)
}

// UpdatePost 更新文章
// @Summary 更新文章
// @Tags 管理
// @Accept json
// @Produce json
// @Param id path string true "文章 ID"
// @Param request body postRequest true "文章内容"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/posts/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.postSvc.Update(c.Request.Context(), c.Param("id"), service.PostInput{
		Title:   req.Title,
		Slug:    req.Slug,
		Summary: req.Summary,
		Content: req.Content,
		Cover:   req.Cover,
		Status:  req.Status,
		Pinned:  req.Pinned,
		Tags:    req.Tags,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrSlugTaken):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, post)
}

// DeletePost 删除文章（连带评论与点赞）
// @Summary 删除文章
// @Tags 管理
// @Param id path string true "文章 ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.postSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

// postBySlug 路径里的 slug 统一在这里换成文章实体；找不到时已写好响应。
func (h *Handler) postBySlug(c *gin.Context) (*model.Post, bool) {
	post, err := h.postSvc.GetBySlug(c.Request.Context(), c.Param("slug"), middleware.IsAdmin(c), false)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, err.Error())
			return nil, false
		}
		response.InternalError(c, err)
		return nil, false
	}
	return post, true
}

// LikePost 点赞文章
// @Summary 点赞文章
// @Tags 文章
// @Param slug path string true "文章 slug"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/posts/{slug}/like [post]
func (h *Handler) LikePost(c *gin.Context) {
	post, ok := h.postBySlug(c)
	if !ok {
		return
	}
	err := h.postSvc.Like(c.Request.Context(), post.ID, middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrAlreadyLiked):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, nil)
}

// UnlikePost 取消点赞
// @Summary 取消点赞
// @Tags 文章
// @Param slug path string true "文章 slug"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/posts/{slug}/like [delete]
func (h *Handler) UnlikePost(c *gin.Context) {
	post, ok := h.postBySlug(c)
	if !ok {
		return
	}
	err := h.postSvc.Unlike(c.Request.Context(), post.ID, middleware.UserID(c))
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

// ListTags 标签与文章数
// @Summary 标签列表
// @Tags 文章
// @Success 200 {object} response.Response
// @Router /api/v1/tags [get]
func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.postSvc.ListTags(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, tags)
}
