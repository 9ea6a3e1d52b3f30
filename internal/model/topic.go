package model

import "time"

// 话题类型：二元投票 / 多选项投票
const (
	TopicKindBinary = "binary"
	TopicKindMulti  = "multi"
)

// 话题状态
const (
	TopicStatusOpen   = "open"
	TopicStatusClosed = "closed"
)

// 投票方向
const (
	VoteUp   = 1
	VoteDown = -1
)

// TrendingTopic 热议话题。Heat 为参与度冗余计数，排序依据。
type TrendingTopic struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string    `json:"title" gorm:"type:varchar(128);not null"`
	Description string    `json:"description" gorm:"type:varchar(512)"`
	CreatorID   string    `json:"creator_id" gorm:"type:varchar(36);index"`
	Kind        string    `json:"kind" gorm:"type:varchar(16);not null;default:binary"`
	UpVotes     int64     `json:"up_votes" gorm:"not null;default:0"`
	DownVotes   int64     `json:"down_votes" gorm:"not null;default:0"`
	Heat        int64     `json:"heat" gorm:"index;not null;default:0"`
	Status      string    `json:"status" gorm:"type:varchar(16);index;not null;default:open"`
	ExpiresAt   time.Time `json:"expires_at" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Options []TopicOption `json:"options,omitempty" gorm:"foreignKey:TopicID"`
}

func (TrendingTopic) TableName() string { return "trending_topics" }

// Votable 是否还能投票
func (t *TrendingTopic) Votable(now time.Time) bool {
	return t.Status == TopicStatusOpen && now.Before(t.ExpiresAt)
}

// TopicOption 多选话题的候选项
type TopicOption struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TopicID   string    `json:"topic_id" gorm:"type:varchar(36);index;not null"`
	Label     string    `json:"label" gorm:"type:varchar(64);not null"`
	VoteCount int64     `json:"vote_count" gorm:"not null;default:0"`
	Position  int       `json:"position" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
}

func (TopicOption) TableName() string { return "topic_options" }

// TopicVote 投票记录，复合唯一键保证每用户每话题一票
// idx_topic_vote_pair = (topic_id, user_id)
type TopicVote struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TopicID   string    `json:"topic_id" gorm:"type:varchar(36);index:idx_topic_vote_pair,unique;not null"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;index:idx_topic_vote_pair,unique"`
	Direction int       `json:"direction" gorm:"not null;default:0"` // binary: 1 / -1
	OptionID  *string   `json:"option_id" gorm:"type:varchar(36)"`   // multi: 所选项
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TopicVote) TableName() string { return "topic_votes" }

// TopicComment 话题下的扁平讨论
type TopicComment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TopicID   string    `json:"topic_id" gorm:"type:varchar(36);index;not null"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);index;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Status    string    `json:"status" gorm:"type:varchar(16);not null;default:normal"`
	CreatedAt time.Time `json:"created_at"`
}

func (TopicComment) TableName() string { return "topic_comments" }
