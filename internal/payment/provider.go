package payment

import (
	"context"
	"errors"
	"sort"
	"strings"
)

var (
	ErrChannelUnknown = errors.New("unknown payment channel")
	ErrBadSignature   = errors.New("invalid notify signature")
	ErrNotifyFailed   = errors.New("notify reports failure")
)

// CreateReq 发起支付所需的订单信息
type CreateReq struct {
	OrderNo     string
	Subject     string
	AmountCents int64
	ClientIP    string
	NotifyURL   string
}

// CreateResp 渠道返回的支付载荷：跳转链接或二维码内容，二者至少其一。
type CreateResp struct {
	PayURL string `json:"pay_url,omitempty"`
	QRCode string `json:"qr_code,omitempty"`
}

// NotifyResult 回调验签后的结果
type NotifyResult struct {
	OrderNo     string
	TradeNo     string
	AmountCents int64
	Paid        bool
}

// Provider 支付渠道抽象。各渠道只做签名与收发，订单状态流转在服务层。
type Provider interface {
	Code() string
	CreatePayment(ctx context.Context, req *CreateReq) (*CreateResp, error)
	// VerifyNotify 验签并解析回调参数；验签失败返回 ErrBadSignature
	VerifyNotify(params map[string]string) (*NotifyResult, error)
	// SuccessAck 渠道要求的回调确认响应
	SuccessAck() (contentType, body string)
}

// Registry 渠道编码到 Provider 的分发表
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	m := make(map[string]Provider, len(providers))
	for _, p := range providers {
		m[p.Code()] = p
	}
	return &Registry{providers: m}
}

func (r *Registry) Get(code string) (Provider, error) {
	p, ok := r.providers[code]
	if !ok {
		return nil, ErrChannelUnknown
	}
	return p, nil
}

func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.providers))
	for code := range r.providers {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// sortedQuery 参数按键名升序拼成 k=v&k=v，空值跳过。微信/虎皮椒签名的公共步骤。
func sortedQuery(params map[string]string, skip ...string) string {
	skipSet := make(map[string]bool, len(skip))
	for _, k := range skip {
		skipSet[k] = true
	}
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" || skipSet[k] {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}
