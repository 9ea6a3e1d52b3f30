package payment

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/techblog/config"
)

func newWechat(gateway string) *WechatProvider {
	return NewWechatProvider(config.WechatPayConfig{
		AppID:   "wx-app",
		MchID:   "mch-1001",
		APIKey:  "wechat-api-key",
		Gateway: gateway,
	})
}

func wechatNotifyParams(p *WechatProvider) map[string]string {
	params := map[string]string{
		"return_code":    "SUCCESS",
		"result_code":    "SUCCESS",
		"appid":          "wx-app",
		"mch_id":         "mch-1001",
		"out_trade_no":   "20260101120000abcdef0000",
		"transaction_id": "4200001234",
		"total_fee":      "8000",
	}
	params["sign"] = p.sign(params)
	return params
}

func TestWechatVerifyNotify(t *testing.T) {
	p := newWechat("")
	params := wechatNotifyParams(p)

	result, err := p.VerifyNotify(params)
	require.NoError(t, err)
	assert.Equal(t, "20260101120000abcdef0000", result.OrderNo)
	assert.Equal(t, "4200001234", result.TradeNo)
	assert.Equal(t, int64(8000), result.AmountCents)
	assert.True(t, result.Paid)

	// 改金额不改签名
	params["total_fee"] = "1"
	_, err = p.VerifyNotify(params)
	assert.ErrorIs(t, err, ErrBadSignature)

	// 签名正确但渠道报失败
	params = wechatNotifyParams(p)
	params["result_code"] = "FAIL"
	params["sign"] = p.sign(params)
	_, err = p.VerifyNotify(params)
	assert.ErrorIs(t, err, ErrNotifyFailed)

	// 换了密钥等于换了世界
	other := NewWechatProvider(config.WechatPayConfig{APIKey: "another-key"})
	_, err = other.VerifyNotify(wechatNotifyParams(p))
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestWechatSign_SkipsSignField(t *testing.T) {
	p := newWechat("")
	params := map[string]string{"a": "1", "b": "2"}
	want := p.sign(params)
	params["sign"] = want
	// 已带 sign 的参数集重签结果不变
	assert.Equal(t, want, p.sign(params))
	assert.Regexp(t, "^[0-9A-F]{32}$", want)
}

func TestWechatCreatePayment(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		received, err = ParseXMLParams(body)
		require.NoError(t, err)
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(`<xml>
  <return_code><![CDATA[SUCCESS]]></return_code>
  <result_code><![CDATA[SUCCESS]]></result_code>
  <code_url><![CDATA[weixin://wxpay/bizpayurl?pr=abcd]]></code_url>
</xml>`))
	}))
	defer server.Close()

	p := newWechat(server.URL)
	resp, err := p.CreatePayment(context.Background(), &CreateReq{
		OrderNo:     "order-1",
		Subject:     "年度会员",
		AmountCents: 8000,
		ClientIP:    "1.2.3.4",
		NotifyURL:   "https://blog.example.com/api/v1/shop/notify/wechat",
	})
	require.NoError(t, err)
	assert.Equal(t, "weixin://wxpay/bizpayurl?pr=abcd", resp.QRCode)

	require.NotNil(t, received)
	assert.Equal(t, "order-1", received["out_trade_no"])
	assert.Equal(t, "8000", received["total_fee"])
	assert.Equal(t, "NATIVE", received["trade_type"])
	// 发出去的请求签名要能自验
	assert.Equal(t, received["sign"], p.sign(received))
}

func TestWechatCreatePayment_Refused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<xml><return_code>FAIL</return_code><return_msg>INVALID_REQUEST</return_msg></xml>`))
	}))
	defer server.Close()

	p := newWechat(server.URL)
	_, err := p.CreatePayment(context.Background(), &CreateReq{OrderNo: "o", AmountCents: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_REQUEST")
}

func TestParseXMLParams(t *testing.T) {
	data := []byte(`<xml>
  <return_code><![CDATA[SUCCESS]]></return_code>
  <out_trade_no>order-9</out_trade_no>
  <total_fee>120</total_fee>
  <attach><![CDATA[自定义 备注]]></attach>
</xml>`)
	got, err := ParseXMLParams(data)
	require.NoError(t, err)
	want := map[string]string{
		"return_code":  "SUCCESS",
		"out_trade_no": "order-9",
		"total_fee":    "120",
		"attach":       "自定义 备注",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
}
