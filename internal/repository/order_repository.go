package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/internal/model"
)

// OrderListFilter 管理端订单筛选
type OrderListFilter struct {
	UserID  string
	Status  string
	Channel string
	Offset  int
	Limit   int
}

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// Create 创建订单
	Create(ctx context.Context, order *model.Order) error

	// GetByOrderNo 根据订单号查询订单
	GetByOrderNo(ctx context.Context, orderNo string) (*model.Order, error)

	// ListByUser 查询用户订单列表（时间倒序分页）
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Order, int64, error)

	// List 管理端订单列表
	List(ctx context.Context, f OrderListFilter) ([]*model.Order, int64, error)

	// UpdateStatus 带前置状态守卫的状态流转；未命中返回 RowsAffected=0
	UpdateStatus(ctx context.Context, orderNo, fromStatus, toStatus string) (bool, error)

	// MarkPaid 支付成交事务内的守卫流转 pending -> paid，盖 trade_no 与 paid_at；
	// 守卫未命中（重复回调/已过期）返回 false
	MarkPaid(ctx context.Context, tx *gorm.DB, orderNo, tradeNo string, paidAt time.Time) (bool, error)

	// UpdateStatusTx 事务内的守卫流转（退款等跨仓储场景用）
	UpdateStatusTx(ctx context.Context, tx *gorm.DB, orderNo, fromStatus, toStatus string) (bool, error)

	// SetChannel 发起支付时记录所选渠道
	SetChannel(ctx context.Context, orderNo, channel string) error

	// ExpireBefore 把超时未付的 pending 订单批量置为 expired
	ExpireBefore(ctx context.Context, deadline time.Time) (int64, error)

	// Count 统计订单数量
	Count(ctx context.Context) (int64, error)

	// CountSince 统计某时点后的订单数
	CountSince(ctx context.Context, since time.Time) (int64, error)

	// CountRange [from, to) 区间下单数
	CountRange(ctx context.Context, from, to time.Time) (int64, error)

	// PaidRevenue 已支付订单累计金额（分）
	PaidRevenue(ctx context.Context) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepository{db: db} }

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.OrderNo == "" {
		order.OrderNo = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByOrderNo(ctx context.Context, orderNo string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Where("order_no = ?", orderNo).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", userID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []*model.Order
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) List(ctx context.Context, f OrderListFilter) ([]*model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Channel != "" {
		q = q.Where("channel = ?", f.Channel)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []*model.Order
	err := q.Order("created_at DESC").Offset(f.Offset).Limit(f.Limit).Find(&orders).Error
	return orders, total, err
}

// UpdateStatus 状态守卫放在 WHERE 里，防止并发下重复流转。
func (r *orderRepository) UpdateStatus(ctx context.Context, orderNo, fromStatus, toStatus string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_no = ? AND status = ?", orderNo, fromStatus).
		Update("status", toStatus)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *orderRepository) SetChannel(ctx context.Context, orderNo, channel string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_no = ?", orderNo).
		Update("channel", channel).Error
}

func (r *orderRepository) MarkPaid(ctx context.Context, tx *gorm.DB, orderNo, tradeNo string, paidAt time.Time) (bool, error) {
	res := tx.WithContext(ctx).Model(&model.Order{}).
		Where("order_no = ? AND status = ?", orderNo, model.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":   model.OrderStatusPaid,
			"trade_no": tradeNo,
			"paid_at":  paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *orderRepository) UpdateStatusTx(ctx context.Context, tx *gorm.DB, orderNo, fromStatus, toStatus string) (bool, error) {
	res := tx.WithContext(ctx).Model(&model.Order{}).
		Where("order_no = ? AND status = ?", orderNo, fromStatus).
		Update("status", toStatus)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *orderRepository) ExpireBefore(ctx context.Context, deadline time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("status = ? AND expires_at < ?", model.OrderStatusPending, deadline).
		Update("status", model.OrderStatusExpired)
	return res.RowsAffected, res.Error
}

func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&count).Error
	return count, err
}

func (r *orderRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

func (r *orderRepository) CountRange(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to).Count(&count).Error
	return count, err
}

func (r *orderRepository) PaidRevenue(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("status = ?", model.OrderStatusPaid).
		Select("COALESCE(SUM(pay_cents), 0)").
		Scan(&total).Error
	return total, err
}
