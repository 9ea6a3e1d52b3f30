package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/payment"
	"github.com/d60-Lab/techblog/internal/repository"
	"github.com/d60-Lab/techblog/pkg/logger"
)

var (
	ErrOrderNotPayable    = errors.New("order not payable")
	ErrChannelDisabled    = errors.New("payment channel disabled")
	ErrAmountMismatch     = errors.New("notify amount mismatch")
	ErrOrderNotRefundable = errors.New("order not refundable")
	ErrCouponExhausted    = errors.New("coupon exhausted at payment time")
	ErrTestPayDisabled    = errors.New("test channel disabled")
)

// PayStatus 支付轮询结果
type PayStatus struct {
	OrderNo string `json:"order_no"`
	Status  string `json:"status"`
}

type PaymentService interface {
	// Channels 启用且已注册 Provider 的渠道列表
	Channels(ctx context.Context) ([]*model.PaymentChannel, error)
	// StartPayment 对待付订单发起支付，渠道记到订单上
	StartPayment(ctx context.Context, orderNo, userID, channelCode, clientIP string) (*payment.CreateResp, error)
	// HandleNotify 渠道异步回调：验签、对账、成交落账。
	// 验签或金额不符返回错误（拒绝确认，渠道会重试）。
	HandleNotify(ctx context.Context, channelCode string, params map[string]string) (contentType, body string, err error)
	// Status 支付结果轮询
	Status(ctx context.Context, orderNo, userID string) (*PayStatus, error)
	// SimulateTestPay 测试渠道直付：打内存标记并走同一条成交事务
	SimulateTestPay(ctx context.Context, orderNo, userID string) error
	// Refund 管理员退款：paid -> refunded，释放卡密；会员时长不回收
	Refund(ctx context.Context, orderNo string) error
}

type paymentService struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	userRepo    repository.UserRepository
	channelRepo repository.ChannelRepository
	registry    *payment.Registry
	notifyBase  string // 回调地址前缀，如 https://blog.example.com
}

func NewPaymentService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	userRepo repository.UserRepository,
	channelRepo repository.ChannelRepository,
	registry *payment.Registry,
	notifyBase string,
) PaymentService {
	return &paymentService{
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		userRepo:    userRepo,
		channelRepo: channelRepo,
		registry:    registry,
		notifyBase:  notifyBase,
	}
}

func (s *paymentService) Channels(ctx context.Context) ([]*model.PaymentChannel, error) {
	channels, err := s.channelRepo.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	// 渠道开关在库里，Provider 凭证在配置里，两边都有才对外展示
	out := make([]*model.PaymentChannel, 0, len(channels))
	for _, c := range channels {
		if _, err := s.registry.Get(c.Code); err == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *paymentService) StartPayment(ctx context.Context, orderNo, userID, channelCode, clientIP string) (*payment.CreateResp, error) {
	order, err := s.orderRepo.GetByOrderNo(ctx, orderNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	if order.Status != model.OrderStatusPending || time.Now().After(order.ExpiresAt) {
		return nil, ErrOrderNotPayable
	}

	channel, err := s.channelRepo.GetByCode(ctx, channelCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrChannelUnknown
		}
		return nil, err
	}
	if !channel.Enabled {
		return nil, ErrChannelDisabled
	}
	provider, err := s.registry.Get(channelCode)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, order.ProductID)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.SetChannel(ctx, orderNo, channelCode); err != nil {
		return nil, err
	}
	return provider.CreatePayment(ctx, &payment.CreateReq{
		OrderNo:     order.OrderNo,
		Subject:     product.Name,
		AmountCents: order.PayCents,
		ClientIP:    clientIP,
		NotifyURL:   s.notifyBase + "/api/v1/shop/notify/" + channelCode,
	})
}

func (s *paymentService) HandleNotify(ctx context.Context, channelCode string, params map[string]string) (string, string, error) {
	provider, err := s.registry.Get(channelCode)
	if err != nil {
		return "", "", err
	}
	result, err := provider.VerifyNotify(params)
	if err != nil {
		return "", "", err
	}
	if !result.Paid {
		// 非成交通知（关单、退款回执等）直接确认，不动订单
		ct, body := provider.SuccessAck()
		return ct, body, nil
	}
	order, err := s.orderRepo.GetByOrderNo(ctx, result.OrderNo)
	if err != nil {
		return "", "", err
	}
	// 对账：渠道报的实收金额必须与应付一致
	if result.AmountCents > 0 && result.AmountCents != order.PayCents {
		logger.Error("notify amount mismatch",
			zap.String("order", result.OrderNo),
			zap.Int64("expect", order.PayCents),
			zap.Int64("got", result.AmountCents))
		return "", "", ErrAmountMismatch
	}
	if err := s.fulfil(ctx, order, result.TradeNo); err != nil {
		return "", "", err
	}
	ct, body := provider.SuccessAck()
	return ct, body, nil
}

// fulfil 成交事务：置已付、发卡或续会员、核销优惠券，单事务完成。
// 重复回调靠 pending 守卫幂等：已是 paid 直接成功返回。
func (s *paymentService) fulfil(ctx context.Context, order *model.Order, tradeNo string) error {
	if order.Status == model.OrderStatusPaid {
		return nil
	}
	product, err := s.productRepo.GetByID(ctx, order.ProductID)
	if err != nil {
		return err
	}
	now := time.Now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.orderRepo.MarkPaid(ctx, tx, order.OrderNo, tradeNo, now)
		if err != nil {
			return err
		}
		if !ok {
			// 并发回调已成交，或订单已被取消/过期。前者幂等成功；
			// 后者确认掉回调防止渠道无限重试，留日志人工对账。
			fresh, err := s.orderRepo.GetByOrderNo(ctx, order.OrderNo)
			if err != nil {
				return err
			}
			if fresh.Status != model.OrderStatusPaid {
				logger.Warn("paid notify for non-pending order",
					zap.String("order", order.OrderNo),
					zap.String("status", fresh.Status))
			}
			return nil
		}

		switch product.Type {
		case model.ProductTypeKey:
			if _, err := s.productRepo.AllocateKey(ctx, tx, product.ID, order.ID, now); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// 卡密卖穿：回滚整单，渠道重试给运营补卡的时间窗
					logger.Error("no key left for paid order",
						zap.String("order", order.OrderNo), zap.String("product", product.ID))
					return ErrOutOfStock
				}
				return err
			}
		case model.ProductTypeMembership:
			if err := s.userRepo.ExtendMembership(ctx, tx, order.UserID, product.MemberDays, now); err != nil {
				return err
			}
		}

		if order.CouponID != nil {
			ok, err := s.couponRepo.Consume(ctx, tx, *order.CouponID)
			if err != nil {
				return err
			}
			if !ok {
				logger.Error("coupon exhausted between order and payment",
					zap.String("order", order.OrderNo), zap.String("coupon", *order.CouponID))
				return ErrCouponExhausted
			}
		}
		return nil
	})
}

func (s *paymentService) Status(ctx context.Context, orderNo, userID string) (*PayStatus, error) {
	order, err := s.orderRepo.GetByOrderNo(ctx, orderNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	status := order.Status
	// 测试渠道先看内存标记，落账前轮询也能拿到已付
	if order.Channel == model.ChannelTest && status == model.OrderStatusPending {
		if p, err := s.registry.Get(model.ChannelTest); err == nil {
			if tp, ok := p.(*payment.TestProvider); ok && tp.Paid(orderNo) {
				status = model.OrderStatusPaid
			}
		}
	}
	return &PayStatus{OrderNo: orderNo, Status: status}, nil
}

func (s *paymentService) SimulateTestPay(ctx context.Context, orderNo, userID string) error {
	channel, err := s.channelRepo.GetByCode(ctx, model.ChannelTest)
	if err != nil || !channel.Enabled {
		return ErrTestPayDisabled
	}
	order, err := s.orderRepo.GetByOrderNo(ctx, orderNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	if order.UserID != userID {
		return ErrNotOrderOwner
	}
	if order.Status != model.OrderStatusPending || time.Now().After(order.ExpiresAt) {
		return ErrOrderNotPayable
	}

	p, err := s.registry.Get(model.ChannelTest)
	if err != nil {
		return ErrTestPayDisabled
	}
	tp, ok := p.(*payment.TestProvider)
	if !ok {
		return ErrTestPayDisabled
	}
	tp.MarkPaid(orderNo)
	if err := s.orderRepo.SetChannel(ctx, orderNo, model.ChannelTest); err != nil {
		return err
	}
	order.Channel = model.ChannelTest
	return s.fulfil(ctx, order, "TEST-"+orderNo)
}

func (s *paymentService) Refund(ctx context.Context, orderNo string) error {
	order, err := s.orderRepo.GetByOrderNo(ctx, orderNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	if order.Status != model.OrderStatusPaid {
		return ErrOrderNotRefundable
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.orderRepo.UpdateStatusTx(ctx, tx, orderNo, model.OrderStatusPaid, model.OrderStatusRefunded)
		if err != nil {
			return err
		}
		if !ok {
			return ErrOrderNotRefundable
		}
		// 卡密订单释放占用；会员订单无卡密，ReleaseKey 自然空转
		return s.productRepo.ReleaseKey(ctx, tx, order.ID)
	})
}
