package payment

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/d60-Lab/techblog/config"
	"github.com/d60-Lab/techblog/internal/model"
)

// XunhupayProvider 虎皮椒聚合收银台（表单 POST，MD5 hash 签名）。
type XunhupayProvider struct {
	cfg    config.XunhupayConfig
	client *http.Client
	now    func() time.Time
}

func NewXunhupayProvider(cfg config.XunhupayConfig) *XunhupayProvider {
	return &XunhupayProvider{cfg: cfg, client: &http.Client{Timeout: 10 * time.Second}, now: time.Now}
}

func (p *XunhupayProvider) Code() string { return model.ChannelXunhupay }

func (p *XunhupayProvider) CreatePayment(ctx context.Context, req *CreateReq) (*CreateResp, error) {
	params := map[string]string{
		"version":        "1.1",
		"appid":          p.cfg.AppID,
		"trade_order_id": req.OrderNo,
		"total_fee":      fmt.Sprintf("%.2f", float64(req.AmountCents)/100),
		"title":          req.Subject,
		"time":           strconv.FormatInt(p.now().Unix(), 10),
		"notify_url":     req.NotifyURL,
		"nonce_str":      strconv.FormatInt(p.now().UnixNano(), 10),
	}
	params["hash"] = p.hash(params)

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.Gateway,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("xunhupay request: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		ErrCode   int    `json:"errcode"`
		ErrMsg    string `json:"errmsg"`
		URL       string `json:"url"`
		URLQRCode string `json:"url_qrcode"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("xunhupay decode: %w", err)
	}
	if out.ErrCode != 0 {
		return nil, fmt.Errorf("xunhupay refused: %d %s", out.ErrCode, out.ErrMsg)
	}
	return &CreateResp{PayURL: out.URL, QRCode: out.URLQRCode}, nil
}

func (p *XunhupayProvider) VerifyNotify(params map[string]string) (*NotifyResult, error) {
	gotHash := params["hash"]
	if gotHash == "" || p.hash(params) != gotHash {
		return nil, ErrBadSignature
	}
	if params["status"] != "OD" { // OD = 已支付
		return nil, ErrNotifyFailed
	}
	return &NotifyResult{
		OrderNo:     params["trade_order_id"],
		TradeNo:     params["open_order_id"],
		AmountCents: yuanToCents(params["total_fee"]),
		Paid:        true,
	}, nil
}

func (p *XunhupayProvider) SuccessAck() (string, string) { return "text/plain", "success" }

// hash 排序串直拼 appsecret 后取 MD5 小写。
func (p *XunhupayProvider) hash(params map[string]string) string {
	raw := sortedQuery(params, "hash") + p.cfg.AppSecret
	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
