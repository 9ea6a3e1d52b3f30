package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/internal/model"
)

// VoteOutcome 投票事务的结果：动作与话题最新计数
type VoteOutcome struct {
	Action    string // voted | revoked | switched
	UpVotes   int64
	DownVotes int64
	Heat      int64
}

const (
	VoteActionVoted    = "voted"
	VoteActionRevoked  = "revoked"
	VoteActionSwitched = "switched"
)

type TopicRepository interface {
	Create(ctx context.Context, topic *model.TrendingTopic, options []string) error
	GetByID(ctx context.Context, id string) (*model.TrendingTopic, error)
	// ListOpen 未关闭话题，按热度倒序
	ListOpen(ctx context.Context, offset, limit int) ([]*model.TrendingTopic, int64, error)
	// ListByIDs 按 ID 批量取话题（顺序由调用方自行保持）
	ListByIDs(ctx context.Context, ids []string) ([]*model.TrendingTopic, error)
	GetVote(ctx context.Context, topicID, userID string) (*model.TopicVote, error)
	// VotesFor viewer 对这批话题的投票记录
	VotesFor(ctx context.Context, userID string, topicIDs []string) (map[string]*model.TopicVote, error)
	// Vote 单事务的投票翻转：无票插入、同向撤销、异向改投；
	// 计数与票行同事务修正，热度当场重算。话题已关闭或到期返回
	// gorm.ErrRecordNotFound。
	Vote(ctx context.Context, topicID, userID string, direction int, optionID *string, now time.Time) (*VoteOutcome, error)
	Close(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	// CloseExpired 把到期话题批量置为 closed，返回受影响的话题 ID
	CloseExpired(ctx context.Context, deadline time.Time) ([]string, error)
	AddComment(ctx context.Context, c *model.TopicComment) error
	ListComments(ctx context.Context, topicID string, offset, limit int) ([]*model.TopicComment, int64, error)
	CountOpen(ctx context.Context) (int64, error)
}

type topicRepository struct {
	db *gorm.DB
}

func NewTopicRepository(db *gorm.DB) TopicRepository { return &topicRepository{db: db} }

func (r *topicRepository) Create(ctx context.Context, topic *model.TrendingTopic, options []string) error {
	if topic.ID == "" {
		topic.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(topic).Error; err != nil {
			return err
		}
		for i, label := range options {
			opt := &model.TopicOption{
				ID:       uuid.New().String(),
				TopicID:  topic.ID,
				Label:    label,
				Position: i,
			}
			if err := tx.Create(opt).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *topicRepository) GetByID(ctx context.Context, id string) (*model.TrendingTopic, error) {
	var t model.TrendingTopic
	err := r.db.WithContext(ctx).Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("id = ?", id).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *topicRepository) ListOpen(ctx context.Context, offset, limit int) ([]*model.TrendingTopic, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.TrendingTopic{}).
		Where("status = ?", model.TopicStatusOpen)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var topics []*model.TrendingTopic
	err := q.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Order("heat DESC, created_at DESC").Offset(offset).Limit(limit).Find(&topics).Error
	return topics, total, err
}

func (r *topicRepository) ListByIDs(ctx context.Context, ids []string) ([]*model.TrendingTopic, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var topics []*model.TrendingTopic
	err := r.db.WithContext(ctx).Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("id IN ?", ids).Find(&topics).Error
	return topics, err
}

func (r *topicRepository) GetVote(ctx context.Context, topicID, userID string) (*model.TopicVote, error) {
	var v model.TopicVote
	err := r.db.WithContext(ctx).
		Where("topic_id = ? AND user_id = ?", topicID, userID).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *topicRepository) VotesFor(ctx context.Context, userID string, topicIDs []string) (map[string]*model.TopicVote, error) {
	out := make(map[string]*model.TopicVote, len(topicIDs))
	if userID == "" || len(topicIDs) == 0 {
		return out, nil
	}
	var votes []*model.TopicVote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND topic_id IN ?", userID, topicIDs).Find(&votes).Error
	if err != nil {
		return nil, err
	}
	for _, v := range votes {
		out[v.TopicID] = v
	}
	return out, nil
}

// Vote 全部修正在一个事务里完成，(topic_id, user_id) 唯一键保证一人一票。
func (r *topicRepository) Vote(ctx context.Context, topicID, userID string, direction int, optionID *string, now time.Time) (*VoteOutcome, error) {
	var out VoteOutcome
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 锁定话题并复核可投状态，sweeper 没来得及关的到期话题也拒掉
		var topic model.TrendingTopic
		if err := tx.Where("id = ? AND status = ? AND expires_at > ?",
			topicID, model.TopicStatusOpen, now).First(&topic).Error; err != nil {
			return err
		}

		var existing model.TopicVote
		err := tx.Where("topic_id = ? AND user_id = ?", topicID, userID).First(&existing).Error
		hasVote := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if optionID != nil {
			if err := r.voteOption(tx, topicID, userID, *optionID, &existing, hasVote, &out); err != nil {
				return err
			}
		} else {
			if err := r.voteBinary(tx, topicID, userID, direction, &existing, hasVote, &out); err != nil {
				return err
			}
		}

		// 重算热度（参与度 = 赞 + 踩）
		var fresh model.TrendingTopic
		if err := tx.Select("up_votes", "down_votes").Where("id = ?", topicID).First(&fresh).Error; err != nil {
			return err
		}
		heat := fresh.UpVotes + fresh.DownVotes
		if err := tx.Model(&model.TrendingTopic{}).Where("id = ?", topicID).
			UpdateColumn("heat", heat).Error; err != nil {
			return err
		}
		out.UpVotes = fresh.UpVotes
		out.DownVotes = fresh.DownVotes
		out.Heat = heat
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *topicRepository) voteBinary(tx *gorm.DB, topicID, userID string, direction int, existing *model.TopicVote, hasVote bool, out *VoteOutcome) error {
	switch {
	case !hasVote:
		vote := &model.TopicVote{
			ID:        uuid.New().String(),
			TopicID:   topicID,
			UserID:    userID,
			Direction: direction,
		}
		if err := tx.Create(vote).Error; err != nil {
			return err
		}
		if err := bumpTopicCounter(tx, topicID, direction, +1); err != nil {
			return err
		}
		out.Action = VoteActionVoted
	case existing.Direction == direction:
		// 同向再点 = 撤票
		if err := tx.Delete(&model.TopicVote{}, "id = ?", existing.ID).Error; err != nil {
			return err
		}
		if err := bumpTopicCounter(tx, topicID, direction, -1); err != nil {
			return err
		}
		out.Action = VoteActionRevoked
	default:
		// 反向 = 改投
		if err := tx.Model(&model.TopicVote{}).Where("id = ?", existing.ID).
			Update("direction", direction).Error; err != nil {
			return err
		}
		if err := bumpTopicCounter(tx, topicID, existing.Direction, -1); err != nil {
			return err
		}
		if err := bumpTopicCounter(tx, topicID, direction, +1); err != nil {
			return err
		}
		out.Action = VoteActionSwitched
	}
	return nil
}

func (r *topicRepository) voteOption(tx *gorm.DB, topicID, userID, optionID string, existing *model.TopicVote, hasVote bool, out *VoteOutcome) error {
	// 选项必须属于本话题
	var opt model.TopicOption
	if err := tx.Where("id = ? AND topic_id = ?", optionID, topicID).First(&opt).Error; err != nil {
		return err
	}
	switch {
	case !hasVote:
		vote := &model.TopicVote{
			ID:        uuid.New().String(),
			TopicID:   topicID,
			UserID:    userID,
			Direction: model.VoteUp,
			OptionID:  &optionID,
		}
		if err := tx.Create(vote).Error; err != nil {
			return err
		}
		if err := bumpOptionCounter(tx, optionID, +1); err != nil {
			return err
		}
		if err := bumpTopicCounter(tx, topicID, model.VoteUp, +1); err != nil {
			return err
		}
		out.Action = VoteActionVoted
	case existing.OptionID != nil && *existing.OptionID == optionID:
		if err := tx.Delete(&model.TopicVote{}, "id = ?", existing.ID).Error; err != nil {
			return err
		}
		if err := bumpOptionCounter(tx, optionID, -1); err != nil {
			return err
		}
		if err := bumpTopicCounter(tx, topicID, model.VoteUp, -1); err != nil {
			return err
		}
		out.Action = VoteActionRevoked
	default:
		// 换选项：票行换绑，话题总参与数不变
		if err := tx.Model(&model.TopicVote{}).Where("id = ?", existing.ID).
			Update("option_id", optionID).Error; err != nil {
			return err
		}
		if existing.OptionID != nil {
			if err := bumpOptionCounter(tx, *existing.OptionID, -1); err != nil {
				return err
			}
		}
		if err := bumpOptionCounter(tx, optionID, +1); err != nil {
			return err
		}
		out.Action = VoteActionSwitched
	}
	return nil
}

// bumpTopicCounter 方向对应的计数列增减，减到 0 为止。
func bumpTopicCounter(tx *gorm.DB, topicID string, direction, delta int) error {
	col := "up_votes"
	if direction == model.VoteDown {
		col = "down_votes"
	}
	q := tx.Model(&model.TrendingTopic{}).Where("id = ?", topicID)
	if delta < 0 {
		q = q.Where(col+" > 0")
	}
	return q.UpdateColumn(col, gorm.Expr(col+" + ?", delta)).Error
}

func bumpOptionCounter(tx *gorm.DB, optionID string, delta int) error {
	q := tx.Model(&model.TopicOption{}).Where("id = ?", optionID)
	if delta < 0 {
		q = q.Where("vote_count > 0")
	}
	return q.UpdateColumn("vote_count", gorm.Expr("vote_count + ?", delta)).Error
}

func (r *topicRepository) Close(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.TrendingTopic{}).
		Where("id = ?", id).Update("status", model.TopicStatusClosed).Error
}

func (r *topicRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("topic_id = ?", id).Delete(&model.TopicVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("topic_id = ?", id).Delete(&model.TopicOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("topic_id = ?", id).Delete(&model.TopicComment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.TrendingTopic{}).Error
	})
}

func (r *topicRepository) CloseExpired(ctx context.Context, deadline time.Time) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.TrendingTopic{}).
		Where("status = ? AND expires_at < ?", model.TopicStatusOpen, deadline).
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return nil, err
	}
	err = r.db.WithContext(ctx).Model(&model.TrendingTopic{}).
		Where("id IN ?", ids).Update("status", model.TopicStatusClosed).Error
	return ids, err
}

func (r *topicRepository) AddComment(ctx context.Context, c *model.TopicComment) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *topicRepository) ListComments(ctx context.Context, topicID string, offset, limit int) ([]*model.TopicComment, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.TopicComment{}).Where("topic_id = ?", topicID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var cs []*model.TopicComment
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&cs).Error
	return cs, total, err
}

func (r *topicRepository) CountOpen(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.TrendingTopic{}).
		Where("status = ?", model.TopicStatusOpen).Count(&cnt).Error
	return cnt, err
}
