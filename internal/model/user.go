package model

import "time"

// 用户角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// 用户状态
const (
	UserStatusActive = "active"
	UserStatusBanned = "banned"
)

// User 用户账号
type User struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username    string     `json:"username" gorm:"type:varchar(32);uniqueIndex;not null"`
	Email       string     `json:"email" gorm:"type:varchar(128);uniqueIndex;not null"`
	Password    string     `json:"-" gorm:"type:varchar(128);not null"`
	Nickname    string     `json:"nickname" gorm:"type:varchar(32)"`
	AvatarURL   string     `json:"avatar_url" gorm:"type:varchar(256)"`
	Bio         string     `json:"bio" gorm:"type:varchar(256)"`
	Role        string     `json:"role" gorm:"type:varchar(16);not null;default:user"`
	Status      string     `json:"status" gorm:"type:varchar(16);index;not null;default:active"`
	MemberUntil *time.Time `json:"member_until"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// IsAdmin 管理员判定
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsMember 会员有效期判定
func (u *User) IsMember(now time.Time) bool {
	return u.MemberUntil != nil && u.MemberUntil.After(now)
}
