package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/techblog/internal/api/middleware"
	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/service"
	"github.com/d60-Lab/techblog/pkg/response"
)

type proposeTopicRequest struct {
	Title       string   `json:"title" binding:"required,max=128"`
	Description string   `json:"description" binding:"max=1024"`
	Kind        string   `json:"kind" binding:"required,oneof=binary multi"`
	Options     []string `json:"options" binding:"omitempty,max=8,dive,max=64"`
	ExpiresIn   int64    `json:"expires_in" binding:"omitempty,gt=0"` // 秒
}

type binaryVoteRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

type optionVoteRequest struct {
	OptionID string `json:"option_id" binding:"required,uuid"`
}

type topicCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=1000"`
}

// ListTopics 开放话题按热度分页
// @Summary 热议话题榜
// @Tags 话题
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=service.TopicPage}
// @Router /api/v1/topics [get]
func (h *Handler) ListTopics(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	out, err := h.topicSvc.List(c.Request.Context(), middleware.UserID(c), page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, out)
}

// GetTopic 话题详情（含当前用户投票）
// @Summary 话题详情
// @Tags 话题
// @Param id path string true "话题 ID"
// @Success 200 {object} response.Response{data=service.TopicView}
// @Failure 404 {object} response.Response
// @Router /api/v1/topics/{id} [get]
func (h *Handler) GetTopic(c *gin.Context) {
	view, err := h.topicSvc.Get(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrTopicNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, view)
}

// ProposeTopic 发起话题
// @Summary 发起话题
// @Tags 话题
// @Accept json
// @Produce json
// @Param request body proposeTopicRequest true "binary 无选项，multi 需 2-8 个选项"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/topics [post]
func (h *Handler) ProposeTopic(c *gin.Context) {
	var req proposeTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	topic, err := h.topicSvc.Propose(c.Request.Context(), middleware.UserID(c),
		req.Title, req.Description, req.Kind, req.Options, time.Duration(req.ExpiresIn)*time.Second)
	if err != nil {
		if errors.Is(err, service.ErrBadOptions) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, topic)
}

// VoteTopic 二元话题投票：重复同向撤销，反向改投
// @Summary 话题投票
// @Tags 话题
// @Accept json
// @Produce json
// @Param id path string true "话题 ID"
// @Param request body binaryVoteRequest true "up / down"
// @Success 200 {object} response.Response{data=service.VoteResult}
// @Failure 409 {object} response.Response
// @Router /api/v1/topics/{id}/vote [post]
func (h *Handler) VoteTopic(c *gin.Context) {
	var req binaryVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	direction := model.VoteUp
	if req.Direction == "down" {
		direction = model.VoteDown
	}
	result, err := h.topicSvc.VoteBinary(c.Request.Context(), c.Param("id"), middleware.UserID(c), direction)
	h.respondVote(c, result, err)
}

// VoteTopicOption 多选话题投票：重复同项撤销，换项改投
// @Summary 话题选项投票
// @Tags 话题
// @Accept json
// @Produce json
// @Param id path string true "话题 ID"
// @Param request body optionVoteRequest true "选项 ID"
// @Success 200 {object} response.Response{data=service.VoteResult}
// @Failure 409 {object} response.Response
// @Router /api/v1/topics/{id}/vote-option [post]
func (h *Handler) VoteTopicOption(c *gin.Context) {
	var req optionVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.topicSvc.VoteOption(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.OptionID)
	h.respondVote(c, result, err)
}

func (h *Handler) respondVote(c *gin.Context, result *service.VoteResult, err error) {
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTopicNotFound), errors.Is(err, service.ErrOptionNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrTopicClosed):
			response.Conflict(c, err.Error())
		case errors.Is(err, service.ErrBadVote), errors.Is(err, service.ErrBadDirection):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, result)
}

// ListTopicComments 话题讨论
// @Summary 话题讨论列表
// @Tags 话题
// @Param id path string true "话题 ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=service.TopicCommentPage}
// @Router /api/v1/topics/{id}/comments [get]
func (h *Handler) ListTopicComments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	out, err := h.topicSvc.Comments(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, out)
}

// AddTopicComment 话题下发言
// @Summary 话题发言
// @Tags 话题
// @Accept json
// @Produce json
// @Param id path string true "话题 ID"
// @Param request body topicCommentRequest true "内容"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/topics/{id}/comments [post]
func (h *Handler) AddTopicComment(c *gin.Context) {
	var req topicCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	comment, err := h.topicSvc.AddComment(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTopicNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrTopicClosed):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, comment)
}

// CloseTopic 提前关闭话题
// @Summary 关闭话题
// @Tags 管理
// @Param id path string true "话题 ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/topics/{id}/close [post]
func (h *Handler) CloseTopic(c *gin.Context) {
	if err := h.topicSvc.Close(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrTopicNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

// DeleteTopic 删除话题（连带投票与讨论）
// @Summary 删除话题
// @Tags 管理
// @Param id path string true "话题 ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/topics/{id} [delete]
func (h *Handler) DeleteTopic(c *gin.Context) {
	if err := h.topicSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrTopicNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}
