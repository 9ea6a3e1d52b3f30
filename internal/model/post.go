package model

import "time"

// 文章状态
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// Post 文章主体
type Post struct {
	ID           string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Slug         string     `json:"slug" gorm:"type:varchar(128);uniqueIndex;not null"`
	Title        string     `json:"title" gorm:"type:varchar(256);not null"`
	Summary      string     `json:"summary" gorm:"type:varchar(512)"`
	Content      string     `json:"content" gorm:"type:text"`
	CoverURL     string     `json:"cover_url" gorm:"type:varchar(256)"`
	AuthorID     string     `json:"author_id" gorm:"type:varchar(36);index:idx_post_author"`
	Status       string     `json:"status" gorm:"type:varchar(16);index;not null;default:draft"`
	Pinned       bool       `json:"pinned" gorm:"not null;default:false"`
	ViewCount    int64      `json:"view_count" gorm:"not null;default:0"`
	LikeCount    int64      `json:"like_count" gorm:"not null;default:0"`
	CommentCount int64      `json:"comment_count" gorm:"not null;default:0"`
	PublishedAt  *time.Time `json:"published_at" gorm:"index"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Tags []Tag `json:"tags" gorm:"many2many:post_tags"`
}

func (Post) TableName() string { return "posts" }

// Tag 文章标签
type Tag struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(32);uniqueIndex;not null"`
	Slug      string    `json:"slug" gorm:"type:varchar(64);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Tag) TableName() string { return "tags" }

// PostLike 文章点赞，复合唯一键避免重复点赞
// idx_post_like_pair = (post_id, user_id)
type PostLike struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	PostID    string `gorm:"type:varchar(36);index:idx_post_like_pair,unique;not null"`
	UserID    string `gorm:"type:varchar(36);not null;index:idx_post_like_pair,unique"`
	CreatedAt time.Time
}

func (PostLike) TableName() string { return "post_likes" }
