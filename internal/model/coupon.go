package model

import "time"

// 优惠券状态
const (
	CouponStatusActive   = "active"
	CouponStatusDisabled = "disabled"
)

// Coupon 优惠券。DiscountCents 与 Percent 二选一：Percent>0 时按比例减免。
// UsedCount 在支付成交事务里带条件自增，保证不超发。
type Coupon struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Code           string    `json:"code" gorm:"type:varchar(32);uniqueIndex;not null"`
	Name           string    `json:"name" gorm:"type:varchar(64);not null"`
	DiscountCents  int64     `json:"discount_cents" gorm:"not null;default:0"`
	Percent        int       `json:"percent" gorm:"not null;default:0"` // 1-100
	MinAmountCents int64     `json:"min_amount_cents" gorm:"not null;default:0"`
	TotalCount     int       `json:"total_count" gorm:"not null"`
	UsedCount      int       `json:"used_count" gorm:"not null;default:0"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at" gorm:"index"`
	Status         string    `json:"status" gorm:"type:varchar(16);index;not null;default:active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Coupon) TableName() string { return "coupons" }

// Usable 时间窗与余量校验（金额门槛由下单逻辑校验）
func (c *Coupon) Usable(now time.Time) bool {
	if c.Status != CouponStatusActive {
		return false
	}
	if now.Before(c.StartsAt) || now.After(c.EndsAt) {
		return false
	}
	return c.UsedCount < c.TotalCount
}

// DiscountFor 计算订单金额对应的减免（分），下限 0、上限订单金额。
func (c *Coupon) DiscountFor(amountCents int64) int64 {
	var d int64
	if c.Percent > 0 {
		d = amountCents * int64(c.Percent) / 100
	} else {
		d = c.DiscountCents
	}
	if d < 0 {
		d = 0
	}
	if d > amountCents {
		d = amountCents
	}
	return d
}
