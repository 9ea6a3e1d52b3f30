package model

import "time"

// 留言状态
const (
	GuestbookStatusVisible = "visible"
	GuestbookStatusHidden  = "hidden"
)

// Guestbook 留言板。允许匿名留言，此时 UserID 为空、Nickname 必填。
type Guestbook struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    *string   `json:"user_id" gorm:"type:varchar(36);index"`
	Nickname  string    `json:"nickname" gorm:"type:varchar(32);not null"`
	Content   string    `json:"content" gorm:"type:varchar(1024);not null"`
	Status    string    `json:"status" gorm:"type:varchar(16);index;not null;default:visible"`
	CreatedAt time.Time `json:"created_at"`
}

func (Guestbook) TableName() string { return "guestbooks" }
