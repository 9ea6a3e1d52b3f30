package model

import "time"

// 支付渠道编码
const (
	ChannelWechat   = "wechat"
	ChannelAlipay   = "alipay"
	ChannelXunhupay = "xunhupay"
	ChannelTest     = "test"
)

// PaymentChannel 支付渠道的启用状态与展示信息。
// 渠道密钥在配置文件里，不入库。
type PaymentChannel struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Code       string    `json:"code" gorm:"type:varchar(16);uniqueIndex;not null"`
	Name       string    `json:"name" gorm:"type:varchar(32);not null"`
	Enabled    bool      `json:"enabled" gorm:"index;not null;default:false"`
	SortWeight int       `json:"sort_weight" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (PaymentChannel) TableName() string { return "payment_channels" }
