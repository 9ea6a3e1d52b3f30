package model

import "time"

// Setting 站点键值配置（站点标题、公告等），管理端维护。
type Setting struct {
	Key         string    `json:"key" gorm:"primaryKey;type:varchar(64)"`
	Value       string    `json:"value" gorm:"type:text"`
	Description string    `json:"description" gorm:"type:varchar(256)"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Setting) TableName() string { return "system_settings" }

// 常用设置键
const (
	SettingSiteTitle    = "site_title"
	SettingSiteSubtitle = "site_subtitle"
	SettingICPNumber    = "icp_number"
	SettingAnnouncement = "announcement"
)

// 对外公开的设置键白名单
var PublicSettingKeys = []string{
	SettingSiteTitle,
	SettingSiteSubtitle,
	SettingICPNumber,
	SettingAnnouncement,
}
