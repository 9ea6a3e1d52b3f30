package model

import "time"

// 评论状态
const (
	CommentStatusNormal   = "normal"
	CommentStatusRecalled = "recalled"
)

// Comment 评论，ParentID 为空表示楼层顶层；RootID 指向顶层祖先，
// 用于一次查询取整棵子树。
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PostID    string    `json:"post_id" gorm:"type:varchar(36);index:idx_comment_post;not null"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);index;not null"`
	ParentID  *string   `json:"parent_id" gorm:"type:varchar(36);index"`
	RootID    *string   `json:"root_id" gorm:"type:varchar(36);index:idx_comment_root"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Status    string    `json:"status" gorm:"type:varchar(16);index;not null;default:normal"`
	LikeCount int64     `json:"like_count" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }

// Recalled 撤回判定
func (c *Comment) Recalled() bool { return c.Status == CommentStatusRecalled }

// CommentLike 评论点赞，复合唯一键保证每用户每评论一条
// idx_comment_like_pair = (comment_id, user_id)
type CommentLike struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	CommentID string `gorm:"type:varchar(36);index:idx_comment_like_pair,unique;not null"`
	UserID    string `gorm:"type:varchar(36);not null;index:idx_comment_like_pair,unique"`
	CreatedAt time.Time
}

func (CommentLike) TableName() string { return "comment_likes" }
