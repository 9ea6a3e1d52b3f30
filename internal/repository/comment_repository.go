package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/techblog/internal/model"
)

type CommentRepository interface {
	// Create 落评论并在同一事务内累加文章评论数
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	UpdateContent(ctx context.Context, id, content string) error
	Recall(ctx context.Context, id string) error
	// ListTopLevel 顶层评论分页（时间倒序）
	ListTopLevel(ctx context.Context, postID string, offset, limit int) ([]*model.Comment, int64, error)
	// ListByRoots 按根评论批量取全部后代，一次查询避免 N+1
	ListByRoots(ctx context.Context, rootIDs []string) ([]*model.Comment, error)
	// LikedIDs viewer 在这批评论里点过赞的 ID 集合
	LikedIDs(ctx context.Context, userID string, commentIDs []string) (map[string]bool, error)
	Like(ctx context.Context, commentID, userID string) error
	Unlike(ctx context.Context, commentID, userID string) error
	ListRecent(ctx context.Context, offset, limit int) ([]*model.Comment, int64, error)
	Count(ctx context.Context) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&model.Post{}).Where("id = ?", comment.PostID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	})
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id, content string) error {
	return r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", id).Update("content", content).Error
}

// Recall 撤回：仅翻状态，保留行与楼层结构。
func (r *commentRepository) Recall(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", id).Update("status", model.CommentStatusRecalled).Error
}

func (r *commentRepository) ListTopLevel(ctx context.Context, postID string, offset, limit int) ([]*model.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("post_id = ? AND parent_id IS NULL", postID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var comments []*model.Comment
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&comments).Error
	return comments, total, err
}

func (r *commentRepository) ListByRoots(ctx context.Context, rootIDs []string) ([]*model.Comment, error) {
	if len(rootIDs) == 0 {
		return nil, nil
	}
	var comments []*model.Comment
	err := r.db.WithContext(ctx).
		Where("root_id IN ?", rootIDs).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) LikedIDs(ctx context.Context, userID string, commentIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool, len(commentIDs))
	if userID == "" || len(commentIDs) == 0 {
		return liked, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.CommentLike{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// Like 重复点赞返回 gorm.ErrDuplicatedKey（唯一键兜底）。
func (r *commentRepository) Like(ctx context.Context, commentID, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := &model.CommentLike{ID: uuid.New().String(), CommentID: commentID, UserID: userID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrDuplicatedKey
		}
		return tx.Model(&model.Comment{}).Where("id = ?", commentID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
}

func (r *commentRepository) Unlike(ctx context.Context, commentID, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&model.CommentLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&model.Comment{}).Where("id = ? AND like_count > 0", commentID).
			UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
	})
}

func (r *commentRepository) ListRecent(ctx context.Context, offset, limit int) ([]*model.Comment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Comment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var comments []*model.Comment
	err := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&comments).Error
	return comments, total, err
}

func (r *commentRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Count(&cnt).Error
	return cnt, err
}
