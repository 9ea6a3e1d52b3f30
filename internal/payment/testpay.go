package payment

import (
	"context"
	"sync"

	"github.com/d60-Lab/techblog/internal/model"
)

// TestProvider 开发环境的模拟渠道：状态只存内存，进程重启即丢，
// 不做任何持久化，仅供本地联调支付流程。
type TestProvider struct {
	mu   sync.Mutex
	paid map[string]bool // orderNo -> 已模拟支付
}

func NewTestProvider() *TestProvider {
	return &TestProvider{paid: make(map[string]bool)}
}

func (p *TestProvider) Code() string { return model.ChannelTest }

func (p *TestProvider) CreatePayment(_ context.Context, req *CreateReq) (*CreateResp, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.paid[req.OrderNo]; !ok {
		p.paid[req.OrderNo] = false
	}
	return &CreateResp{PayURL: "/shop/test-pay?order_no=" + req.OrderNo}, nil
}

// VerifyNotify 测试渠道没有外部回调，参数即结果。
func (p *TestProvider) VerifyNotify(params map[string]string) (*NotifyResult, error) {
	orderNo := params["order_no"]
	if orderNo == "" {
		return nil, ErrNotifyFailed
	}
	return &NotifyResult{OrderNo: orderNo, TradeNo: "TEST-" + orderNo, Paid: true}, nil
}

func (p *TestProvider) SuccessAck() (string, string) { return "text/plain", "success" }

// MarkPaid 模拟用户完成支付
func (p *TestProvider) MarkPaid(orderNo string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paid[orderNo] = true
}

// Paid 查询模拟状态
func (p *TestProvider) Paid(orderNo string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paid[orderNo]
}
