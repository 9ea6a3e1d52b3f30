package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	tp := NewTestProvider()
	reg := NewRegistry(tp)

	got, err := reg.Get("test")
	require.NoError(t, err)
	assert.Same(t, tp, got.(*TestProvider))

	_, err = reg.Get("carrier-pigeon")
	assert.ErrorIs(t, err, ErrChannelUnknown)

	reg = NewRegistry(tp, &stubNamed{"wechat"}, &stubNamed{"alipay"})
	assert.Equal(t, []string{"alipay", "test", "wechat"}, reg.Codes())
}

// stubNamed 只占个编码位
type stubNamed struct{ code string }

func (s *stubNamed) Code() string { return s.code }
func (s *stubNamed) CreatePayment(context.Context, *CreateReq) (*CreateResp, error) {
	return nil, nil
}
func (s *stubNamed) VerifyNotify(map[string]string) (*NotifyResult, error) { return nil, nil }
func (s *stubNamed) SuccessAck() (string, string)                          { return "", "" }

func TestSortedQuery(t *testing.T) {
	params := map[string]string{
		"b":     "2",
		"a":     "1",
		"empty": "",
		"sign":  "SHOULD-SKIP",
		"z":     "最后",
	}
	assert.Equal(t, "a=1&b=2&z=最后", sortedQuery(params, "sign"))
	// 不跳过时 sign 参与拼接
	assert.Equal(t, "a=1&b=2&sign=SHOULD-SKIP&z=最后", sortedQuery(params))
	assert.Equal(t, "", sortedQuery(map[string]string{}))
}

func TestTestProvider(t *testing.T) {
	p := NewTestProvider()
	ctx := context.Background()

	resp, err := p.CreatePayment(ctx, &CreateReq{OrderNo: "o-1", AmountCents: 100})
	require.NoError(t, err)
	assert.Contains(t, resp.PayURL, "o-1")
	assert.False(t, p.Paid("o-1"))

	p.MarkPaid("o-1")
	assert.True(t, p.Paid("o-1"))

	_, err = p.VerifyNotify(map[string]string{})
	assert.ErrorIs(t, err, ErrNotifyFailed)

	result, err := p.VerifyNotify(map[string]string{"order_no": "o-1"})
	require.NoError(t, err)
	assert.Equal(t, "o-1", result.OrderNo)
	assert.Equal(t, "TEST-o-1", result.TradeNo)
	assert.True(t, result.Paid)
	assert.Zero(t, result.AmountCents)

	ct, body := p.SuccessAck()
	assert.Equal(t, "text/plain", ct)
	assert.Equal(t, "success", body)
}
