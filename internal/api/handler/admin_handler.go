package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/payment"
	"github.com/d60-Lab/techblog/internal/repository"
	"github.com/d60-Lab/techblog/internal/service"
	"github.com/d60-Lab/techblog/pkg/response"
)

type productRequest struct {
	Slug        string `json:"slug" binding:"required,max=64,slug"`
	Name        string `json:"name" binding:"required,max=128"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents" binding:"required,gt=0"`
	Type        string `json:"type" binding:"required,oneof=key membership"`
	MemberDays  int    `json:"member_days" binding:"omitempty,gt=0"`
	Status      string `json:"status" binding:"omitempty,oneof=on off"`
	SortWeight  int    `json:"sort_weight"`
}

type importKeysRequest struct {
	Secrets []string `json:"secrets" binding:"required,min=1,max=1000,dive,min=1,max=256"`
}

type couponRequest struct {
	Code           string    `json:"code" binding:"required,max=32"`
	Name           string    `json:"name" binding:"required,max=64"`
	DiscountCents  int64     `json:"discount_cents" binding:"omitempty,gte=0"`
	Percent        int       `json:"percent" binding:"omitempty,min=1,max=100"`
	MinAmountCents int64     `json:"min_amount_cents" binding:"omitempty,gte=0"`
	TotalCount     int       `json:"total_count" binding:"required,gt=0"`
	StartsAt       time.Time `json:"starts_at" binding:"required"`
	EndsAt         time.Time `json:"ends_at" binding:"required"`
	Status         string    `json:"status" binding:"omitempty,oneof=active disabled"`
}

type setUserStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active banned"`
}

type setChannelRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type setSettingRequest struct {
	Value       string `json:"value" binding:"required"`
	Description string `json:"description" binding:"omitempty,max=256"`
}

// AdminStats 仪表盘总览
// @Summary 仪表盘
// @Tags 管理
// @Success 200 {object} response.Response{data=service.DashboardStats}
// @Router /api/v1/admin/stats [get]
func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.adminSvc.Stats(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, stats)
}

// AdminListUsers 用户列表
// @Summary 用户列表
// @Tags 管理
// @Param keyword query string false "用户名/邮箱关键词"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=service.UserPage}
// @Router /api/v1/admin/users [get]
func (h *Handler) AdminListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	out, err := h.adminSvc.ListUsers(c.Request.Context(), c.Query("keyword"), page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, out)
}

// AdminSetUserStatus 封禁 / 解封用户
// @Summary 用户状态
// @Tags 管理
// @Accept json
// @Produce json
// @Param id path string true "用户 ID"
// @Param request body setUserStatusRequest true "active / banned"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/users/{id}/status [put]
func (h *Handler) AdminSetUserStatus(c *gin.Context) {
	var req setUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	err := h.adminSvc.SetUserStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(c, "user not found")
		case errors.Is(err, service.ErrBadUserStatus):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, nil)
}

// AdminGrantAdmin 授予管理员
// @Summary 授予管理员
// @Tags 管理
// @Param id path string true "用户 ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/users/{id}/grant-admin [post]
func (h *Handler) AdminGrantAdmin(c *gin.Context) {
	if err := h.adminSvc.GrantAdmin(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

// AdminRecentComments 全站最新评论（审查视图）
// @Summary 最新评论
// @Tags 管理
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=service.CommentPageFlat}
// @Router /api/v1/admin/comments [get]
func (h *Handler) AdminRecentComments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	out, err := h.adminSvc.RecentComments(c.Request.Context(), page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, out)
}

// AdminListOrders 订单列表
// @Summary 订单列表
// @Tags 管理
// @Param user_id query string false "按用户过滤"
// @Param status query string false "按状态过滤"
// @Param channel query string false "按支付渠道过滤"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=service.OrderPage}
// @Router /api/v1/admin/orders [get]
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	out, err := h.adminSvc.ListOrders(c.Request.Context(), repository.OrderListFilter{
		UserID:  c.Query("user_id"),
		Status:  c.Query("status"),
		Channel: c.Query("channel"),
		Offset:  (page - 1) * pageSize,
		Limit:   pageSize,
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, out)
}

// AdminRefundOrder 订单退款：paid -> refunded，卡密回收，会员时长不回收
// @Summary 订单退款
// @Tags 管理
// @Param order_no path string true "订单号"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/admin/orders/{order_no}/refund [post]
func (h *Handler) AdminRefundOrder(c *gin.Context) {
	err := h.paymentSvc.Refund(c.Request.Context(), c.Param("order_no"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrOrderNotRefundable):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, nil)
}

// AdminListProducts 商品列表（含下架）
// @Summary 商品列表
// @Tags 管理
// @Success 200 {object} response.Response
// @Router /api/v1/admin/products [get]
func (h *Handler) AdminListProducts(c *gin.Context) {
	products, err := h.shopSvc.ListProducts(c.Request.Context(), true)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, products)
}

// AdminCreateProduct 新建商品
// @Summary 新建商品
// @Tags 管理
// @Accept json
// @Produce json
// @Param request body productRequest true "商品信息"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/admin/products [post]
func (h *Handler) AdminCreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.Type == model.ProductTypeMembership && req.MemberDays <= 0 {
		response.BadRequest(c, "membership product needs member_days")
		return
	}
	p := &model.Product{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Type:        req.Type,
		MemberDays:  req.MemberDays,
		Status:      req.Status,
		SortWeight:  req.SortWeight,
	}
	if err := h.shopSvc.CreateProduct(c.Request.Context(), p); err != nil {
		if errors.Is(err, service.ErrSlugTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, p)
}

// AdminUpdateProduct 更新商品
// @Summary 更新商品
// @Tags 管理
// @Accept json
// @Produce json
// @Param id path string true "商品 ID"
// @Param request body productRequest true "商品信息"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/products/{id} [put]
func (h *Handler) AdminUpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.shopSvc.GetProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	p.Slug = req.Slug
	p.Name = req.Name
	p.Description = req.Description
	p.PriceCents = req.PriceCents
	p.Type = req.Type
	p.MemberDays = req.MemberDays
	if req.Status != "" {
		p.Status = req.Status
	}
	p.SortWeight = req.SortWeight
	if err := h.shopSvc.UpdateProduct(c.Request.Context(), p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			response.Conflict(c, "slug already taken")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, p)
}

// AdminImportKeys 批量导入卡密
// @Summary 导入卡密
// @Tags 管理
// @Accept json
// @Produce json
// @Param id path string true "商品 ID"
// @Param request body importKeysRequest true "卡密明文列表"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/products/{id}/keys [post]
func (h *Handler) AdminImportKeys(c *gin.Context) {
	var req importKeysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	n, err := h.shopSvc.ImportKeys(c.Request.Context(), c.Param("id"), req.Secrets)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, gin.H{"imported": n})
}

// AdminListCoupons 优惠券列表
// @Summary 优惠券列表
// @Tags 管理
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=service.CouponPage}
// @Router /api/v1/admin/coupons [get]
func (h *Handler) AdminListCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	out, err := h.adminSvc.ListCoupons(c.Request.Context(), page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, out)
}

// AdminCreateCoupon 新建优惠券
// @Summary 新建优惠券
// @Tags 管理
// @Accept json
// @Produce json
// @Param request body couponRequest true "券信息，定额减与折扣比例二选一"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/admin/coupons [post]
func (h *Handler) AdminCreateCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.DiscountCents <= 0 && req.Percent <= 0 {
		response.BadRequest(c, "coupon needs discount_cents or percent")
		return
	}
	coupon := &model.Coupon{
		Code:           req.Code,
		Name:           req.Name,
		DiscountCents:  req.DiscountCents,
		Percent:        req.Percent,
		MinAmountCents: req.MinAmountCents,
		TotalCount:     req.TotalCount,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		Status:         req.Status,
	}
	if err := h.adminSvc.CreateCoupon(c.Request.Context(), coupon); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			response.Conflict(c, "coupon code already exists")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, coupon)
}

// AdminUpdateCoupon 更新优惠券
// @Summary 更新优惠券
// @Tags 管理
// @Accept json
// @Produce json
// @Param id path string true "券 ID"
// @Param request body couponRequest true "券信息"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/coupons/{id} [put]
func (h *Handler) AdminUpdateCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	coupon := &model.Coupon{
		ID:             c.Param("id"),
		Code:           req.Code,
		Name:           req.Name,
		DiscountCents:  req.DiscountCents,
		Percent:        req.Percent,
		MinAmountCents: req.MinAmountCents,
		TotalCount:     req.TotalCount,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		Status:         req.Status,
	}
	if err := h.adminSvc.UpdateCoupon(c.Request.Context(), coupon); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "coupon not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, coupon)
}

// AdminDeleteCoupon 删除优惠券
// @Summary 删除优惠券
// @Tags 管理
// @Param id path string true "券 ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/coupons/{id} [delete]
func (h *Handler) AdminDeleteCoupon(c *gin.Context) {
	if err := h.adminSvc.DeleteCoupon(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "coupon not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

// AdminListChannels 支付渠道开关总览
// @Summary 支付渠道总览
// @Tags 管理
// @Success 200 {object} response.Response
// @Router /api/v1/admin/channels [get]
func (h *Handler) AdminListChannels(c *gin.Context) {
	channels, err := h.adminSvc.ListChannels(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, channels)
}

// AdminSetChannel 启停支付渠道
// @Summary 启停支付渠道
// @Tags 管理
// @Accept json
// @Produce json
// @Param code path string true "渠道编码"
// @Param request body setChannelRequest true "enabled 开关"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/channels/{code} [put]
func (h *Handler) AdminSetChannel(c *gin.Context) {
	var req setChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	err := h.adminSvc.SetChannelEnabled(c.Request.Context(), c.Param("code"), *req.Enabled)
	if err != nil {
		if errors.Is(err, payment.ErrChannelUnknown) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

// PublicSettings 公开站点设置
// @Summary 公开设置
// @Tags 设置
// @Success 200 {object} response.Response
// @Router /api/v1/settings [get]
func (h *Handler) PublicSettings(c *gin.Context) {
	values, err := h.settingSvc.Public(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, values)
}

// AdminListSettings 全部设置
// @Summary 全部设置
// @Tags 管理
// @Success 200 {object} response.Response
// @Router /api/v1/admin/settings [get]
func (h *Handler) AdminListSettings(c *gin.Context) {
	settings, err := h.settingSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, settings)
}

// AdminSetSetting 写设置（存在即更新）
// @Summary 写设置
// @Tags 管理
// @Accept json
// @Produce json
// @Param key path string true "设置键"
// @Param request body setSettingRequest true "值与说明"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/settings/{key} [put]
func (h *Handler) AdminSetSetting(c *gin.Context) {
	var req setSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.settingSvc.Set(c.Request.Context(), c.Param("key"), req.Value, req.Description); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}
