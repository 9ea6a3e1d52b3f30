package payment

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/d60-Lab/techblog/config"
	"github.com/d60-Lab/techblog/internal/model"
)

// AlipayProvider 支付宝电脑网站支付（页面跳转，RSA2 签名）。
type AlipayProvider struct {
	cfg        config.AlipayConfig
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

func NewAlipayProvider(cfg config.AlipayConfig) (*AlipayProvider, error) {
	p := &AlipayProvider{cfg: cfg}
	if cfg.PrivateKey != "" {
		key, err := parseRSAPrivateKey(cfg.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("alipay private key: %w", err)
		}
		p.privateKey = key
	}
	if cfg.PublicKey != "" {
		key, err := parseRSAPublicKey(cfg.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("alipay public key: %w", err)
		}
		p.publicKey = key
	}
	return p, nil
}

func (p *AlipayProvider) Code() string { return model.ChannelAlipay }

// CreatePayment 组装带签名的网关跳转链接，前端重定向即可拉起收银台。
func (p *AlipayProvider) CreatePayment(_ context.Context, req *CreateReq) (*CreateResp, error) {
	if p.privateKey == nil {
		return nil, errors.New("alipay private key not configured")
	}
	bizContent, err := json.Marshal(map[string]string{
		"out_trade_no": req.OrderNo,
		"subject":      req.Subject,
		"total_amount": fmt.Sprintf("%.2f", float64(req.AmountCents)/100),
		"product_code": "FAST_INSTANT_TRADE_PAY",
	})
	if err != nil {
		return nil, err
	}
	params := map[string]string{
		"app_id":      p.cfg.AppID,
		"method":      "alipay.trade.page.pay",
		"charset":     "utf-8",
		"sign_type":   "RSA2",
		"timestamp":   time.Now().Format("2006-01-02 15:04:05"),
		"version":     "1.0",
		"notify_url":  req.NotifyURL,
		"biz_content": string(bizContent),
	}
	sign, err := p.signRSA2(params)
	if err != nil {
		return nil, err
	}
	params["sign"] = sign

	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	return &CreateResp{PayURL: p.cfg.Gateway + "?" + values.Encode()}, nil
}

func (p *AlipayProvider) VerifyNotify(params map[string]string) (*NotifyResult, error) {
	if p.publicKey == nil {
		return nil, errors.New("alipay public key not configured")
	}
	sign := params["sign"]
	if sign == "" {
		return nil, ErrBadSignature
	}
	if err := p.verifyRSA2(params, sign); err != nil {
		return nil, ErrBadSignature
	}
	status := params["trade_status"]
	if status != "TRADE_SUCCESS" && status != "TRADE_FINISHED" {
		return nil, ErrNotifyFailed
	}
	return &NotifyResult{
		OrderNo:     params["out_trade_no"],
		TradeNo:     params["trade_no"],
		AmountCents: yuanToCents(params["total_amount"]),
		Paid:        true,
	}, nil
}

func (p *AlipayProvider) SuccessAck() (string, string) { return "text/plain", "success" }

// signRSA2 对排序参数串做 SHA256WithRSA 签名，base64 输出。
func (p *AlipayProvider) signRSA2(params map[string]string) (string, error) {
	digest := sha256.Sum256([]byte(sortedQuery(params, "sign", "sign_type")))
	sig, err := rsa.SignPKCS1v15(rand.Reader, p.privateKey, crypto.SHA256, digest[:])
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

func (p *AlipayProvider) verifyRSA2(params map[string]string, sign string) error {
	sig, err := base64.StdEncoding.DecodeString(sign)
	if err != nil {
		return err
	}
	digest := sha256.Sum256([]byte(sortedQuery(params, "sign", "sign_type")))
	return rsa.VerifyPKCS1v15(p.publicKey, crypto.SHA256, digest[:], sig)
}

func parseRSAPrivateKey(pemStr string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(normalizePEM(pemStr, "RSA PRIVATE KEY")))
	if block == nil {
		return nil, errors.New("no PEM block")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("not an RSA private key")
	}
	return key, nil
}

func parseRSAPublicKey(pemStr string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(normalizePEM(pemStr, "PUBLIC KEY")))
	if block == nil {
		return nil, errors.New("no PEM block")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("not an RSA public key")
	}
	return key, nil
}

// normalizePEM 兼容配置里只贴 base64 正文不带头尾的写法。
func normalizePEM(raw, blockType string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "-----BEGIN") {
		return raw
	}
	var b strings.Builder
	b.WriteString("-----BEGIN " + blockType + "-----\n")
	for len(raw) > 64 {
		b.WriteString(raw[:64] + "\n")
		raw = raw[64:]
	}
	b.WriteString(raw + "\n-----END " + blockType + "-----")
	return b.String()
}

// yuanToCents "12.34" -> 1234，解析失败返回 0。
func yuanToCents(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	parts := strings.SplitN(s, ".", 2)
	var cents int64
	for _, r := range parts[0] {
		if r < '0' || r > '9' {
			return 0
		}
		cents = cents*10 + int64(r-'0')
	}
	cents *= 100
	if len(parts) == 2 {
		frac := parts[1]
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		for _, r := range frac {
			if r < '0' || r > '9' {
				return 0
			}
		}
		cents += int64(frac[0]-'0')*10 + int64(frac[1]-'0')
	}
	return cents
}
