package model

import (
	"time"
)

// OrderStatus 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
	OrderStatusRefunded  = "refunded"
	OrderStatusExpired   = "expired"
)

// Order 订单模型。金额一律用整数分，避免浮点误差。
type Order struct {
	ID            string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNo       string     `json:"order_no" gorm:"type:varchar(36);uniqueIndex;not null"`
	UserID        string     `json:"user_id" gorm:"type:varchar(36);index:idx_order_user_created;not null"`
	ProductID     string     `json:"product_id" gorm:"type:varchar(36);index;not null"`
	AmountCents   int64      `json:"amount_cents" gorm:"not null"`
	CouponID      *string    `json:"coupon_id" gorm:"type:varchar(36)"`
	DiscountCents int64      `json:"discount_cents" gorm:"not null;default:0"`
	PayCents      int64      `json:"pay_cents" gorm:"not null"`
	Channel       string     `json:"channel" gorm:"type:varchar(16)"`
	Status        string     `json:"status" gorm:"type:varchar(16);index;not null;default:pending"`
	TradeNo       string     `json:"trade_no" gorm:"type:varchar(64)"`
	PaidAt        *time.Time `json:"paid_at"`
	ExpiresAt     time.Time  `json:"expires_at" gorm:"index"`
	CreatedAt     time.Time  `json:"created_at" gorm:"index:idx_order_user_created"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Order) TableName() string { return "orders" }
