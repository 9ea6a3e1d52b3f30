package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/techblog/internal/api/middleware"
	"github.com/d60-Lab/techblog/internal/service"
	"github.com/d60-Lab/techblog/pkg/response"
)

type createOrderRequest struct {
	ProductID  string `json:"product_id" binding:"required,uuid"`
	CouponCode string `json:"coupon_code" binding:"omitempty,max=32"`
}

type checkCouponRequest struct {
	Code        string `json:"code" binding:"required,max=32"`
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
}

// ListProducts 在售商品列表
// @Summary 在售商品列表
// @Tags 商城
// @Success 200 {object} response.Response
// @Router /api/v1/shop/products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.shopSvc.ListProducts(c.Request.Context(), false)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, products)
}

// GetProduct 商品详情
// @Summary 商品详情
// @Tags 商城
// @Param slug path string true "商品 slug"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/shop/products/{slug} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.shopSvc.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, p)
}

// PreviewOrder 下单前价格试算
// @Summary 价格试算
// @Tags 商城
// @Param product_id query string true "商品 ID"
// @Param coupon_code query string false "优惠码"
// @Success 200 {object} response.Response{data=service.OrderPreview}
// @Failure 400 {object} response.Response
// @Router /api/v1/shop/preview [get]
func (h *Handler) PreviewOrder(c *gin.Context) {
	preview, err := h.shopSvc.Preview(c.Request.Context(), c.Query("product_id"), c.Query("coupon_code"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrCouponInvalid), errors.Is(err, service.ErrCouponMinAmount):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, preview)
}

// CheckCoupon 优惠码即时校验
// @Summary 优惠码校验
// @Tags 商城
// @Accept json
// @Produce json
// @Param request body checkCouponRequest true "优惠码与金额"
// @Success 200 {object} response.Response{data=service.OrderPreview}
// @Failure 400 {object} response.Response
// @Router /api/v1/shop/coupons/check [post]
func (h *Handler) CheckCoupon(c *gin.Context) {
	var req checkCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	preview, err := h.shopSvc.CheckCoupon(c.Request.Context(), req.Code, req.AmountCents)
	if err != nil {
		if errors.Is(err, service.ErrCouponInvalid) || errors.Is(err, service.ErrCouponMinAmount) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, preview)
}

// CreateOrder 创建待付订单
// @Summary 创建订单
// @Tags 商城
// @Accept json
// @Produce json
// @Param request body createOrderRequest true "商品与优惠码"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/shop/orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	order, err := h.shopSvc.CreateOrder(c.Request.Context(), middleware.UserID(c), req.ProductID, req.CouponCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrProductOffShelf),
			errors.Is(err, service.ErrOutOfStock),
			errors.Is(err, service.ErrCouponInvalid),
			errors.Is(err, service.ErrCouponMinAmount):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, order)
}

// MyOrders 我的订单
// @Summary 我的订单
// @Tags 商城
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=service.OrderPage}
// @Router /api/v1/shop/orders [get]
func (h *Handler) MyOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	out, err := h.shopSvc.MyOrders(c.Request.Context(), middleware.UserID(c), page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, out)
}

// GetOrder 订单详情
// @Summary 订单详情
// @Tags 商城
// @Param order_no path string true "订单号"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/shop/orders/{order_no} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.shopSvc.GetOrder(c.Request.Context(), c.Param("order_no"), middleware.UserID(c), middleware.IsAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrNotOrderOwner):
			response.Forbidden(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消待付订单
// @Summary 取消订单
// @Tags 商城
// @Param order_no path string true "订单号"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/shop/orders/{order_no}/cancel [post]
func (h *Handler) CancelOrder(c *gin.Context) {
	err := h.shopSvc.CancelOrder(c.Request.Context(), c.Param("order_no"), middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrNotOrderOwner):
			response.Forbidden(c, err.Error())
		case errors.Is(err, service.ErrOrderNotCancelable):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, nil)
}

// OrderKey 取已支付订单的卡密
// @Summary 订单卡密
// @Tags 商城
// @Param order_no path string true "订单号"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/shop/orders/{order_no}/key [get]
func (h *Handler) OrderKey(c *gin.Context) {
	secret, err := h.shopSvc.OrderKey(c.Request.Context(), c.Param("order_no"), middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrNoKeyForOrder):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrNotOrderOwner):
			response.Forbidden(c, err.Error())
		case errors.Is(err, service.ErrOrderNotPaid):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, gin.H{"key": secret})
}
