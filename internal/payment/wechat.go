package payment

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/techblog/config"
	"github.com/d60-Lab/techblog/internal/model"
)

// WechatProvider 微信 Native 扫码支付（统一下单 v2，XML + MD5 签名）。
type WechatProvider struct {
	cfg    config.WechatPayConfig
	client *http.Client
}

func NewWechatProvider(cfg config.WechatPayConfig) *WechatProvider {
	return &WechatProvider{cfg: cfg, client: &http.Client{Timeout: 10 * time.Second}}
}

func (p *WechatProvider) Code() string { return model.ChannelWechat }

func (p *WechatProvider) CreatePayment(ctx context.Context, req *CreateReq) (*CreateResp, error) {
	params := map[string]string{
		"appid":            p.cfg.AppID,
		"mch_id":           p.cfg.MchID,
		"nonce_str":        strings.ReplaceAll(uuid.New().String(), "-", ""),
		"body":             req.Subject,
		"out_trade_no":     req.OrderNo,
		"total_fee":        strconv.FormatInt(req.AmountCents, 10),
		"spbill_create_ip": req.ClientIP,
		"notify_url":       req.NotifyURL,
		"trade_type":       "NATIVE",
	}
	params["sign"] = p.sign(params)

	body, err := xml.Marshal(xmlMap(params))
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.Gateway, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "text/xml")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("wechat unifiedorder: %w", err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	fields, err := ParseXMLParams(respBody)
	if err != nil {
		return nil, fmt.Errorf("wechat unifiedorder parse: %w", err)
	}
	if fields["return_code"] != "SUCCESS" || fields["result_code"] != "SUCCESS" {
		return nil, fmt.Errorf("wechat unifiedorder refused: %s %s",
			fields["return_msg"], fields["err_code_des"])
	}
	return &CreateResp{QRCode: fields["code_url"]}, nil
}

func (p *WechatProvider) VerifyNotify(params map[string]string) (*NotifyResult, error) {
	gotSign := params["sign"]
	if gotSign == "" || p.sign(params) != gotSign {
		return nil, ErrBadSignature
	}
	if params["return_code"] != "SUCCESS" || params["result_code"] != "SUCCESS" {
		return nil, ErrNotifyFailed
	}
	amount, _ := strconv.ParseInt(params["total_fee"], 10, 64)
	return &NotifyResult{
		OrderNo:     params["out_trade_no"],
		TradeNo:     params["transaction_id"],
		AmountCents: amount,
		Paid:        true,
	}, nil
}

func (p *WechatProvider) SuccessAck() (string, string) {
	return "text/xml", "<xml><return_code><![CDATA[SUCCESS]]></return_code><return_msg><![CDATA[OK]]></return_msg></xml>"
}

// sign 微信 v2 签名：排序串 + &key=API 密钥，MD5 大写。
func (p *WechatProvider) sign(params map[string]string) string {
	raw := sortedQuery(params, "sign") + "&key=" + p.cfg.APIKey
	sum := md5.Sum([]byte(raw))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// xmlMap 把扁平参数编码成 <xml><k>v</k>...</xml>
type xmlMap map[string]string

func (m xmlMap) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name.Local = "xml"
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for k, v := range m {
		elem := xml.StartElement{Name: xml.Name{Local: k}}
		if err := e.EncodeElement(v, elem); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// ParseXMLParams 解析微信风格的单层 XML 为扁平 map。
func ParseXMLParams(data []byte) (map[string]string, error) {
	params := make(map[string]string)
	decoder := xml.NewDecoder(bytes.NewReader(data))
	var key string
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local != "xml" {
				key = t.Name.Local
			}
		case xml.CharData:
			if key != "" {
				params[key] += string(t)
			}
		case xml.EndElement:
			key = ""
		}
	}
	for k, v := range params {
		params[k] = strings.TrimSpace(v)
	}
	return params, nil
}
