package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/internal/model"
	"github.com/d60-Lab/techblog/internal/repository"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductOffShelf    = errors.New("product off shelf")
	ErrOutOfStock         = errors.New("out of stock")
	ErrCouponInvalid      = errors.New("coupon invalid or exhausted")
	ErrCouponMinAmount    = errors.New("order amount below coupon threshold")
	ErrOrderNotFound      = errors.New("order not found")
	ErrNotOrderOwner      = errors.New("not the order owner")
	ErrOrderNotCancelable = errors.New("order can not be cancelled")
	ErrOrderNotPaid       = errors.New("order not paid")
	ErrNoKeyForOrder      = errors.New("no key attached to order")
)

// OrderPreview 下单前的价格试算
type OrderPreview struct {
	AmountCents   int64 `json:"amount_cents"`
	DiscountCents int64 `json:"discount_cents"`
	PayCents      int64 `json:"pay_cents"`
}

type OrderPage struct {
	Total int64          `json:"total"`
	List  []*model.Order `json:"list"`
}

type ShopService interface {
	ListProducts(ctx context.Context, includeOff bool) ([]*model.Product, error)
	GetProduct(ctx context.Context, slug string) (*model.Product, error)
	GetProductByID(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, p *model.Product) error
	UpdateProduct(ctx context.Context, p *model.Product) error
	ImportKeys(ctx context.Context, productID string, secrets []string) (int, error)

	// Preview 试算优惠后应付金额，不落订单
	Preview(ctx context.Context, productID, couponCode string) (*OrderPreview, error)
	// CheckCoupon 对任意金额试算优惠码（下单页输码即时反馈）
	CheckCoupon(ctx context.Context, code string, amountCents int64) (*OrderPreview, error)
	// CreateOrder 建待付订单；couponCode 可为空。只校验、不占用优惠券，
	// 真正的核销发生在支付成交事务里。
	CreateOrder(ctx context.Context, userID, productID, couponCode string) (*model.Order, error)
	MyOrders(ctx context.Context, userID string, page, pageSize int) (*OrderPage, error)
	GetOrder(ctx context.Context, orderNo, userID string, isAdmin bool) (*model.Order, error)
	CancelOrder(ctx context.Context, orderNo, userID string) error
	// OrderKey 已支付卡密订单取卡密明文
	OrderKey(ctx context.Context, orderNo, userID string) (string, error)
}

type shopService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	couponRepo  repository.CouponRepository
	orderTTL    time.Duration
}

func NewShopService(productRepo repository.ProductRepository, orderRepo repository.OrderRepository, couponRepo repository.CouponRepository, orderTTL time.Duration) ShopService {
	if orderTTL <= 0 {
		orderTTL = 30 * time.Minute
	}
	return &shopService{productRepo: productRepo, orderRepo: orderRepo, couponRepo: couponRepo, orderTTL: orderTTL}
}

func (s *shopService) ListProducts(ctx context.Context, includeOff bool) ([]*model.Product, error) {
	if includeOff {
		return s.productRepo.ListAll(ctx)
	}
	return s.productRepo.ListOnShelf(ctx)
}

func (s *shopService) GetProduct(ctx context.Context, slug string) (*model.Product, error) {
	p, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *shopService) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *shopService) CreateProduct(ctx context.Context, p *model.Product) error {
	if p.Status == "" {
		p.Status = model.ProductStatusOn
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSlugTaken
		}
		return err
	}
	return nil
}

func (s *shopService) UpdateProduct(ctx context.Context, p *model.Product) error {
	return s.productRepo.Update(ctx, p)
}

func (s *shopService) ImportKeys(ctx context.Context, productID string, secrets []string) (int, error) {
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrProductNotFound
		}
		return 0, err
	}
	if p.Type != model.ProductTypeKey {
		return 0, errors.New("product does not take keys")
	}
	return s.productRepo.ImportKeys(ctx, productID, secrets)
}

// resolveCoupon 校验优惠码并计算减免。code 为空返回 nil 券、零减免。
func (s *shopService) resolveCoupon(ctx context.Context, code string, amountCents int64, now time.Time) (*model.Coupon, int64, error) {
	if code == "" {
		return nil, 0, nil
	}
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrCouponInvalid
		}
		return nil, 0, err
	}
	if !coupon.Usable(now) {
		return nil, 0, ErrCouponInvalid
	}
	if amountCents < coupon.MinAmountCents {
		return nil, 0, ErrCouponMinAmount
	}
	return coupon, coupon.DiscountFor(amountCents), nil
}

func (s *shopService) Preview(ctx context.Context, productID, couponCode string) (*OrderPreview, error) {
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	_, discount, err := s.resolveCoupon(ctx, couponCode, p.PriceCents, time.Now())
	if err != nil {
		return nil, err
	}
	return &OrderPreview{
		AmountCents:   p.PriceCents,
		DiscountCents: discount,
		PayCents:      p.PriceCents - discount,
	}, nil
}

func (s *shopService) CheckCoupon(ctx context.Context, code string, amountCents int64) (*OrderPreview, error) {
	if amountCents < 0 {
		amountCents = 0
	}
	_, discount, err := s.resolveCoupon(ctx, code, amountCents, time.Now())
	if err != nil {
		return nil, err
	}
	return &OrderPreview{
		AmountCents:   amountCents,
		DiscountCents: discount,
		PayCents:      amountCents - discount,
	}, nil
}

func (s *shopService) CreateOrder(ctx context.Context, userID, productID, couponCode string) (*model.Order, error) {
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if p.Status != model.ProductStatusOn {
		return nil, ErrProductOffShelf
	}
	if p.Type == model.ProductTypeKey && p.Stock <= 0 {
		return nil, ErrOutOfStock
	}

	now := time.Now()
	coupon, discount, err := s.resolveCoupon(ctx, couponCode, p.PriceCents, now)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		OrderNo:       newOrderNo(now),
		UserID:        userID,
		ProductID:     productID,
		AmountCents:   p.PriceCents,
		DiscountCents: discount,
		PayCents:      p.PriceCents - discount,
		Status:        model.OrderStatusPending,
		ExpiresAt:     now.Add(s.orderTTL),
	}
	if coupon != nil {
		order.CouponID = &coupon.ID
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *shopService) MyOrders(ctx context.Context, userID string, page, pageSize int) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 10
	}
	orders, total, err := s.orderRepo.ListByUser(ctx, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return &OrderPage{Total: total, List: orders}, nil
}

func (s *shopService) GetOrder(ctx context.Context, orderNo, userID string, isAdmin bool) (*model.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(ctx, orderNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !isAdmin && order.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	return order, nil
}

func (s *shopService) CancelOrder(ctx context.Context, orderNo, userID string) error {
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
	ok, err := s.orderRepo.UpdateStatus(ctx, orderNo, model.OrderStatusPending, model.OrderStatusCancelled)
	if err != nil {
		return err
	}
	if !ok {
		// 守卫未命中：已支付/已过期/已取消
		return ErrOrderNotCancelable
	}
	return nil
}

func (s *shopService) OrderKey(ctx context.Context, orderNo, userID string) (string, error) {
	order, err := s.orderRepo.GetByOrderNo(ctx, orderNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrOrderNotFound
		}
		return "", err
	}
	if order.UserID != userID {
		return "", ErrNotOrderOwner
	}
	if order.Status != model.OrderStatusPaid {
		return "", ErrOrderNotPaid
	}
	key, err := s.productRepo.KeyByOrder(ctx, order.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoKeyForOrder
		}
		return "", err
	}
	return key.Secret, nil
}

// newOrderNo 订单号：秒级时间前缀 + uuid 截断，便于排查又不可枚举。
func newOrderNo(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")
	return now.Format("20060102150405") + suffix[:10]
}
