package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/techblog/internal/model"
)

// PostListFilter 文章列表筛选
type PostListFilter struct {
	Status  string // 为空不过滤
	TagSlug string
	Keyword string
	Offset  int
	Limit   int
}

type TagWithCount struct {
	model.Tag
	PostCount int64 `json:"post_count"`
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post, tagNames []string) error
	Update(ctx context.Context, post *model.Post, tagNames []string) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)
	List(ctx context.Context, f PostListFilter) ([]*model.Post, int64, error)
	AddViewDelta(ctx context.Context, postID string, delta int64) error
	Like(ctx context.Context, postID, userID string) error
	Unlike(ctx context.Context, postID, userID string) error
	Liked(ctx context.Context, postID, userID string) (bool, error)
	ListTags(ctx context.Context) ([]TagWithCount, error)
	Count(ctx context.Context) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

// Create 建文章并关联标签，缺失的标签顺手建出来，单事务完成。
func (r *postRepository) Create(ctx context.Context, post *model.Post, tagNames []string) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := ensureTags(tx, tagNames)
		if err != nil {
			return err
		}
		post.Tags = tags
		return tx.Create(post).Error
	})
}

func (r *postRepository) Update(ctx context.Context, post *model.Post, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tagNames != nil {
			tags, err := ensureTags(tx, tagNames)
			if err != nil {
				return err
			}
			if err := tx.Model(post).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return tx.Save(post).Error
	})
}

// Delete 删除文章并清理标签关联与评论（级联）。
func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post := &model.Post{ID: id}
		if err := tx.Model(post).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).Preload("Tags").Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).Preload("Tags").Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// List 置顶优先，其余按发布时间倒序。
func (r *postRepository) List(ctx context.Context, f PostListFilter) ([]*model.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Post{})
	if f.Status != "" {
		q = q.Where("posts.status = ?", f.Status)
	}
	if f.Keyword != "" {
		like := "%" + f.Keyword + "%"
		q = q.Where("posts.title LIKE ? OR posts.summary LIKE ?", like, like)
	}
	if f.TagSlug != "" {
		q = q.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.slug = ?", f.TagSlug)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var posts []*model.Post
	err := q.Preload("Tags").
		Order("posts.pinned DESC, posts.published_at DESC, posts.created_at DESC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&posts).Error
	return posts, total, err
}

// AddViewDelta 批量浏览数落库，由 ViewFlusher 调用。
func (r *postRepository) AddViewDelta(ctx context.Context, postID string, delta int64) error {
	return r.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", postID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", delta)).Error
}

// Like 点赞：唯一键兜底防重复，计数与点赞行同事务。
func (r *postRepository) Like(ctx context.Context, postID, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := &model.PostLike{ID: uuid.New().String(), PostID: postID, UserID: userID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrDuplicatedKey
		}
		return tx.Model(&model.Post{}).Where("id = ?", postID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
}

func (r *postRepository) Unlike(ctx context.Context, postID, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.PostLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&model.Post{}).Where("id = ? AND like_count > 0", postID).
			UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
	})
}

func (r *postRepository) Liked(ctx context.Context, postID, userID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *postRepository) ListTags(ctx context.Context) ([]TagWithCount, error) {
	var rows []TagWithCount
	err := r.db.WithContext(ctx).
		Table("tags").
		Select("tags.*, COUNT(post_tags.post_id) AS post_count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Group("tags.id").
		Order("post_count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Count(&cnt).Error
	return cnt, err
}

// ensureTags 取或建标签。slug 由名称小写化生成。
func ensureTags(tx *gorm.DB, names []string) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		var tag model.Tag
		err := tx.Where("name = ?", name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tag = model.Tag{ID: uuid.New().String(), Name: name, Slug: slugify(name), CreatedAt: time.Now()}
			err = tx.Create(&tag).Error
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
