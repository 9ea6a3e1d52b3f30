package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/techblog/internal/api/middleware"
	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/payment"
	"github.com/d60-Lab/techblog/internal/service"
	"github.com/d60-Lab/techblog/pkg/response"
)

type startPaymentRequest struct {
	Channel string `json:"channel" binding:"required,oneof=wechat alipay xunhupay test"`
}

// ListChannels 可用支付渠道
// @Summary 支付渠道列表
// @Tags 支付
// @Success 200 {object} response.Response
// @Router /api/v1/shop/channels [get]
func (h *Handler) ListChannels(c *gin.Context) {
	channels, err := h.paymentSvc.Channels(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, channels)
}

// StartPayment 对待付订单发起支付
// @Summary 发起支付
// @Tags 支付
// @Accept json
// @Produce json
// @Param order_no path string true "订单号"
// @Param request body startPaymentRequest true "支付渠道"
// @Success 200 {object} response.Response{data=payment.CreateResp}
// @Failure 409 {object} response.Response
// @Router /api/v1/shop/orders/{order_no}/pay [post]
func (h *Handler) StartPayment(c *gin.Context) {
	var req startPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	resp, err := h.paymentSvc.StartPayment(c.Request.Context(), c.Param("order_no"), middleware.UserID(c), req.Channel, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrNotOrderOwner):
			response.Forbidden(c, err.Error())
		case errors.Is(err, service.ErrOrderNotPayable):
			response.Conflict(c, err.Error())
		case errors.Is(err, service.ErrChannelDisabled), errors.Is(err, payment.ErrChannelUnknown):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, resp)
}

// PaymentNotify 渠道异步回调。验签失败或金额不符不回确认，渠道会重试。
// @Summary 支付回调
// @Tags 支付
// @Param channel path string true "渠道编码"
// @Success 200 {string} string "渠道要求的确认报文"
// @Router /api/v1/shop/notify/{channel} [post]
func (h *Handler) PaymentNotify(c *gin.Context) {
	channel := c.Param("channel")
	params, err := notifyParams(c, channel)
	if err != nil {
		c.String(http.StatusBadRequest, "fail")
		return
	}
	contentType, body, err := h.paymentSvc.HandleNotify(c.Request.Context(), channel, params)
	if err != nil {
		c.String(http.StatusBadRequest, "fail")
		return
	}
	c.Data(http.StatusOK, contentType, []byte(body))
}

// notifyParams 按渠道口味取回调参数：微信发 XML 报文，其余走表单。
func notifyParams(c *gin.Context, channel string) (map[string]string, error) {
	if channel == model.ChannelWechat {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
		if err != nil {
			return nil, err
		}
		return payment.ParseXMLParams(body)
	}
	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	params := make(map[string]string, len(c.Request.Form))
	for k, v := range c.Request.Form {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params, nil
}

// PaymentStatus 支付结果轮询
// @Summary 支付结果轮询
// @Tags 支付
// @Param order_no path string true "订单号"
// @Success 200 {object} response.Response{data=service.PayStatus}
// @Router /api/v1/shop/orders/{order_no}/status [get]
func (h *Handler) PaymentStatus(c *gin.Context) {
	status, err := h.paymentSvc.Status(c.Request.Context(), c.Param("order_no"), middleware.UserID(c))
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
	response.Success(c, status)
}

// SimulateTestPay 测试渠道直付，仅测试渠道启用时可用
// @Summary 模拟支付
// @Tags 支付
// @Param order_no path string true "订单号"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/shop/orders/{order_no}/testpay [post]
func (h *Handler) SimulateTestPay(c *gin.Context) {
	err := h.paymentSvc.SimulateTestPay(c.Request.Context(), c.Param("order_no"), middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrNotOrderOwner):
			response.Forbidden(c, err.Error())
		case errors.Is(err, service.ErrTestPayDisabled):
			response.Forbidden(c, err.Error())
		case errors.Is(err, service.ErrOrderNotPayable):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Success(c, nil)
}
