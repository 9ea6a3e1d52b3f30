package model

import "time"

// 商品类型：卡密发放 / 会员时长
const (
	ProductTypeKey        = "key"
	ProductTypeMembership = "membership"
)

// 商品上下架状态
const (
	ProductStatusOn  = "on"
	ProductStatusOff = "off"
)

// Product 商品
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Slug        string    `json:"slug" gorm:"type:varchar(64);uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"type:varchar(128);not null"`
	Description string    `json:"description" gorm:"type:text"`
	PriceCents  int64     `json:"price_cents" gorm:"not null"`
	Type        string    `json:"type" gorm:"type:varchar(16);not null;default:key"`
	MemberDays  int       `json:"member_days" gorm:"not null;default:0"`
	Stock       int64     `json:"stock" gorm:"not null;default:0"` // key 类商品的未用卡密数，冗余计数
	Status      string    `json:"status" gorm:"type:varchar(16);index;not null;default:on"`
	SortWeight  int       `json:"sort_weight" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// ProductKey 卡密。支付成交时按 used=false 抢占一行分配给订单。
type ProductKey struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string     `json:"product_id" gorm:"type:varchar(36);index:idx_key_product_used;not null"`
	Secret    string     `json:"secret" gorm:"type:varchar(256);not null"`
	Used      bool       `json:"used" gorm:"index:idx_key_product_used;not null;default:false"`
	OrderID   *string    `json:"order_id" gorm:"type:varchar(36);index"`
	UsedAt    *time.Time `json:"used_at"`
	CreatedAt time.Time  `json:"created_at"`
}

func (ProductKey) TableName() string { return "product_keys" }
