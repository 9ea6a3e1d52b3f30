package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/payment"
	"github.com/d60-Lab/techblog/internal/repository"
)

// stubProvider 回调结果完全可控，用来打金额对账、非成交通知这类分支
type stubProvider struct {
	code   string
	result payment.NotifyResult
}

func (p *stubProvider) Code() string { return p.code }

func (p *stubProvider) CreatePayment(_ context.Context, req *payment.CreateReq) (*payment.CreateResp, error) {
	return &payment.CreateResp{PayURL: "https://pay.example.com/" + p.code + "?order_no=" + req.OrderNo}, nil
}

func (p *stubProvider) VerifyNotify(map[string]string) (*payment.NotifyResult, error) {
	r := p.result
	return &r, nil
}

func (p *stubProvider) SuccessAck() (string, string) { return "text/plain", "ok" }

type payEnv struct {
	db          *gorm.DB
	shop        ShopService
	pay         PaymentService
	test        *payment.TestProvider
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	channelRepo repository.ChannelRepository
}

func newPayEnv(t *testing.T, extra ...payment.Provider) *payEnv {
	t.Helper()
	ctx := context.Background()
	db := setupServiceDB(t)
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	userRepo := repository.NewUserRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	require.NoError(t, channelRepo.SeedDefaults(ctx))
	require.NoError(t, channelRepo.SetEnabled(ctx, model.ChannelTest, true))

	test := payment.NewTestProvider()
	providers := append([]payment.Provider{test}, extra...)
	registry := payment.NewRegistry(providers...)
	return &payEnv{
		db:          db,
		shop:        NewShopService(productRepo, orderRepo, couponRepo, 30*time.Minute),
		pay:         NewPaymentService(db, orderRepo, productRepo, couponRepo, userRepo, channelRepo, registry, "https://blog.example.com"),
		test:        test,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		channelRepo: channelRepo,
	}
}

// 下一个待付的卡密订单：商品带 keys 张卡
func (e *payEnv) keyOrder(t *testing.T, id string, keys int) *model.Order {
	t.Helper()
	ctx := context.Background()
	p := seedProduct(t, e.db, id, model.ProductTypeKey, 5000, model.ProductStatusOn)
	secrets := make([]string, 0, keys)
	for i := 0; i < keys; i++ {
		secrets = append(secrets, "CDK-"+id+"-"+string(rune('A'+i)))
	}
	if len(secrets) > 0 {
		_, err := e.shop.ImportKeys(ctx, p.ID, secrets)
		require.NoError(t, err)
	}
	order, err := e.shop.CreateOrder(ctx, "u1", p.ID, "")
	require.NoError(t, err)
	return order
}

func TestStartPayment_Guards(t *testing.T) {
	env := newPayEnv(t)
	ctx := context.Background()
	order := env.keyOrder(t, "g1", 1)

	_, err := env.pay.StartPayment(ctx, order.OrderNo, "u2", model.ChannelTest, "1.2.3.4")
	assert.ErrorIs(t, err, ErrNotOrderOwner)

	_, err = env.pay.StartPayment(ctx, order.OrderNo, "u1", "carrier-pigeon", "1.2.3.4")
	assert.ErrorIs(t, err, payment.ErrChannelUnknown)

	// 渠道在库里但没开
	_, err = env.pay.StartPayment(ctx, order.OrderNo, "u1", model.ChannelWechat, "1.2.3.4")
	assert.ErrorIs(t, err, ErrChannelDisabled)

	resp, err := env.pay.StartPayment(ctx, order.OrderNo, "u1", model.ChannelTest, "1.2.3.4")
	require.NoError(t, err)
	assert.Contains(t, resp.PayURL, order.OrderNo)
	got, err := env.orderRepo.GetByOrderNo(ctx, order.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, model.ChannelTest, got.Channel)

	require.NoError(t, env.shop.CancelOrder(ctx, order.OrderNo, "u1"))
	_, err = env.pay.StartPayment(ctx, order.OrderNo, "u1", model.ChannelTest, "1.2.3.4")
	assert.ErrorIs(t, err, ErrOrderNotPayable)
}

func TestSimulateTestPay_FulfilsKeyOrder(t *testing.T) {
	env := newPayEnv(t)
	ctx := context.Background()
	order := env.keyOrder(t, "sim", 1)

	assert.ErrorIs(t, env.pay.SimulateTestPay(ctx, order.OrderNo, "u2"), ErrNotOrderOwner)

	require.NoError(t, env.pay.SimulateTestPay(ctx, order.OrderNo, "u1"))
	got, err := env.orderRepo.GetByOrderNo(ctx, order.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, got.Status)
	assert.Equal(t, "TEST-"+order.OrderNo, got.TradeNo)
	require.NotNil(t, got.PaidAt)
	assert.Equal(t, model.ChannelTest, got.Channel)

	secret, err := env.shop.OrderKey(ctx, order.OrderNo, "u1")
	require.NoError(t, err)
	assert.Equal(t, "CDK-sim-A", secret)
	p, err := env.shop.GetProductByID(ctx, got.ProductID)
	require.NoError(t, err)
	assert.Zero(t, p.Stock)

	// 已成交不能再付
	assert.ErrorIs(t, env.pay.SimulateTestPay(ctx, order.OrderNo, "u1"), ErrOrderNotPayable)

	// 关掉测试渠道后直接拒绝
	require.NoError(t, env.channelRepo.SetEnabled(ctx, model.ChannelTest, false))
	other := env.keyOrder(t, "sim2", 1)
	assert.ErrorIs(t, env.pay.SimulateTestPay(ctx, other.OrderNo, "u1"), ErrTestPayDisabled)
}

func TestHandleNotify_Idempotent(t *testing.T) {
	env := newPayEnv(t)
	ctx := context.Background()
	order := env.keyOrder(t, "dup", 1)
	require.NoError(t, env.orderRepo.SetChannel(ctx, order.OrderNo, model.ChannelTest))

	params := map[string]string{"order_no": order.OrderNo}
	ct, body, err := env.pay.HandleNotify(ctx, model.ChannelTest, params)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", ct)
	assert.Equal(t, "success", body)

	// 渠道重发同一回调：确认但不重复发卡
	_, _, err = env.pay.HandleNotify(ctx, model.ChannelTest, params)
	require.NoError(t, err)

	got, err := env.orderRepo.GetByOrderNo(ctx, order.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, got.Status)
	p, err := env.shop.GetProductByID(ctx, got.ProductID)
	require.NoError(t, err)
	assert.Zero(t, p.Stock)

	// 缺 order_no 直接判失败
	_, _, err = env.pay.HandleNotify(ctx, model.ChannelTest, map[string]string{})
	assert.ErrorIs(t, err, payment.ErrNotifyFailed)
}

func TestMembershipStacking(t *testing.T) {
	env := newPayEnv(t)
	ctx := context.Background()
	seedUser(t, env.db, "u1")
	vip := seedProduct(t, env.db, "vip", model.ProductTypeMembership, 2000, model.ProductStatusOn)

	first, err := env.shop.CreateOrder(ctx, "u1", vip.ID, "")
	require.NoError(t, err)
	require.NoError(t, env.pay.SimulateTestPay(ctx, first.OrderNo, "u1"))

	u, err := env.userRepo.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, u.MemberUntil)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), *u.MemberUntil, 5*time.Second)

	// 会员未到期再买，时长往后顺延而不是重置
	second, err := env.shop.CreateOrder(ctx, "u1", vip.ID, "")
	require.NoError(t, err)
	require.NoError(t, env.pay.SimulateTestPay(ctx, second.OrderNo, "u1"))

	u, err = env.userRepo.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, u.MemberUntil)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 60), *u.MemberUntil, 5*time.Second)
}

func TestCouponExhausted_RollsBackFulfil(t *testing.T) {
	env := newPayEnv(t)
	ctx := context.Background()
	seedUser(t, env.db, "u1")
	seedUser(t, env.db, "u2")
	vip := seedProduct(t, env.db, "vip", model.ProductTypeMembership, 2000, model.ProductStatusOn)
	seedCoupon(t, env.db, "LAST1", func(c *model.Coupon) {
		c.ID = "coupon-last1"
		c.TotalCount = 1
	})

	a, err := env.shop.CreateOrder(ctx, "u1", vip.ID, "LAST1")
	require.NoError(t, err)
	b, err := env.shop.CreateOrder(ctx, "u2", vip.ID, "LAST1")
	require.NoError(t, err)

	require.NoError(t, env.pay.SimulateTestPay(ctx, a.OrderNo, "u1"))

	// 下单到支付之间券被用光：整单回滚，订单留在待付
	err = env.pay.SimulateTestPay(ctx, b.OrderNo, "u2")
	assert.ErrorIs(t, err, ErrCouponExhausted)

	got, err := env.orderRepo.GetByOrderNo(ctx, b.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, got.Status)
	u2, err := env.userRepo.GetByID(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, u2.MemberUntil)
}

func TestHandleNotify_AmountMismatch(t *testing.T) {
	stub := &stubProvider{code: model.ChannelWechat}
	env := newPayEnv(t, stub)
	ctx := context.Background()
	require.NoError(t, env.channelRepo.SetEnabled(ctx, model.ChannelWechat, true))
	order := env.keyOrder(t, "wx", 1)

	stub.result = payment.NotifyResult{
		OrderNo:     order.OrderNo,
		TradeNo:     "WX-1",
		AmountCents: order.PayCents + 1,
		Paid:        true,
	}
	_, _, err := env.pay.HandleNotify(ctx, model.ChannelWechat, nil)
	assert.ErrorIs(t, err, ErrAmountMismatch)
	got, err := env.orderRepo.GetByOrderNo(ctx, order.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, got.Status)

	// 金额对上才落账
	stub.result.AmountCents = order.PayCents
	ct, body, err := env.pay.HandleNotify(ctx, model.ChannelWechat, nil)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", ct)
	assert.Equal(t, "ok", body)
	got, err = env.orderRepo.GetByOrderNo(ctx, order.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, got.Status)
	assert.Equal(t, "WX-1", got.TradeNo)
}

func TestHandleNotify_NonPaidAckedWithoutTouchingOrder(t *testing.T) {
	stub := &stubProvider{code: model.ChannelWechat}
	env := newPayEnv(t, stub)
	ctx := context.Background()
	order := env.keyOrder(t, "close", 1)

	// 关单、退款回执这类非成交通知只确认不落账
	stub.result = payment.NotifyResult{OrderNo: order.OrderNo, Paid: false}
	ct, body, err := env.pay.HandleNotify(ctx, model.ChannelWechat, nil)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", ct)
	assert.Equal(t, "ok", body)

	got, err := env.orderRepo.GetByOrderNo(ctx, order.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, got.Status)
}

func TestHandleNotify_KeySoldOutRollsBack(t *testing.T) {
	env := newPayEnv(t)
	ctx := context.Background()
	p := seedProduct(t, env.db, "scarce", model.ProductTypeKey, 5000, model.ProductStatusOn)
	_, err := env.shop.ImportKeys(ctx, p.ID, []string{"ONLY-ONE"})
	require.NoError(t, err)

	// 库存 1 时放进来两张待付单
	a, err := env.shop.CreateOrder(ctx, "u1", p.ID, "")
	require.NoError(t, err)
	b, err := env.shop.CreateOrder(ctx, "u2", p.ID, "")
	require.NoError(t, err)

	require.NoError(t, env.pay.SimulateTestPay(ctx, a.OrderNo, "u1"))

	// 卡密卖穿：拒绝确认回调，订单留在待付等补卡重试
	_, _, err = env.pay.HandleNotify(ctx, model.ChannelTest, map[string]string{"order_no": b.OrderNo})
	assert.ErrorIs(t, err, ErrOutOfStock)
	got, err := env.orderRepo.GetByOrderNo(ctx, b.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, got.Status)
}

func TestRefund(t *testing.T) {
	env := newPayEnv(t)
	ctx := context.Background()
	order := env.keyOrder(t, "rf", 1)

	assert.ErrorIs(t, env.pay.Refund(ctx, "no-such-no"), ErrOrderNotFound)
	assert.ErrorIs(t, env.pay.Refund(ctx, order.OrderNo), ErrOrderNotRefundable)

	require.NoError(t, env.pay.SimulateTestPay(ctx, order.OrderNo, "u1"))
	require.NoError(t, env.pay.Refund(ctx, order.OrderNo))

	got, err := env.orderRepo.GetByOrderNo(ctx, order.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusRefunded, got.Status)

	// 卡密解除占用回到货架
	_, err = env.productRepo.KeyByOrder(ctx, order.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	p, err := env.shop.GetProductByID(ctx, got.ProductID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.Stock)

	assert.ErrorIs(t, env.pay.Refund(ctx, order.OrderNo), ErrOrderNotRefundable)
}

func TestRefund_MembershipKeepsTime(t *testing.T) {
	env := newPayEnv(t)
	ctx := context.Background()
	seedUser(t, env.db, "u1")
	vip := seedProduct(t, env.db, "vip", model.ProductTypeMembership, 2000, model.ProductStatusOn)
	order, err := env.shop.CreateOrder(ctx, "u1", vip.ID, "")
	require.NoError(t, err)
	require.NoError(t, env.pay.SimulateTestPay(ctx, order.OrderNo, "u1"))

	// 退款不回收已到账的会员时长
	require.NoError(t, env.pay.Refund(ctx, order.OrderNo))
	u, err := env.userRepo.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, u.MemberUntil)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), *u.MemberUntil, 5*time.Second)
}

func TestChannels_IntersectsRegistry(t *testing.T) {
	stub := &stubProvider{code: model.ChannelWechat}
	env := newPayEnv(t, stub)
	ctx := context.Background()

	// 只有 test 开着
	channels, err := env.pay.Channels(ctx)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, model.ChannelTest, channels[0].Code)

	// alipay 开了但没配 Provider，不对外展示
	require.NoError(t, env.channelRepo.SetEnabled(ctx, model.ChannelAlipay, true))
	require.NoError(t, env.channelRepo.SetEnabled(ctx, model.ChannelWechat, true))
	channels, err = env.pay.Channels(ctx)
	require.NoError(t, err)
	require.Len(t, channels, 2)
	// 权重高的排前面
	assert.Equal(t, model.ChannelWechat, channels[0].Code)
	assert.Equal(t, model.ChannelTest, channels[1].Code)
}

func TestStatus_TestChannelMemoryFlag(t *testing.T) {
	env := newPayEnv(t)
	ctx := context.Background()
	order := env.keyOrder(t, "st", 1)

	_, err := env.pay.Status(ctx, order.OrderNo, "u2")
	assert.ErrorIs(t, err, ErrNotOrderOwner)

	st, err := env.pay.Status(ctx, order.OrderNo, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, st.Status)

	// 测试渠道打了内存标记、还没落账时，轮询也能看到已付
	require.NoError(t, env.orderRepo.SetChannel(ctx, order.OrderNo, model.ChannelTest))
	env.test.MarkPaid(order.OrderNo)
	st, err = env.pay.Status(ctx, order.OrderNo, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, st.Status)
}
