package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/internal/model"
)

type GuestbookRepository interface {
	Create(ctx context.Context, g *model.Guestbook) error
	ListVisible(ctx context.Context, offset, limit int) ([]*model.Guestbook, int64, error)
	List(ctx context.Context, offset, limit int) ([]*model.Guestbook, int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

type guestbookRepository struct {
	db *gorm.DB
}

func NewGuestbookRepository(db *gorm.DB) GuestbookRepository { return &guestbookRepository{db: db} }

func (r *guestbookRepository) Create(ctx context.Context, g *model.Guestbook) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *guestbookRepository) ListVisible(ctx context.Context, offset, limit int) ([]*model.Guestbook, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Guestbook{}).
		Where("status = ?", model.GuestbookStatusVisible)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var gs []*model.Guestbook
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&gs).Error
	return gs, total, err
}

func (r *guestbookRepository) List(ctx context.Context, offset, limit int) ([]*model.Guestbook, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Guestbook{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var gs []*model.Guestbook
	err := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&gs).Error
	return gs, total, err
}

func (r *guestbookRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).Model(&model.Guestbook{}).
		Where("id = ?", id).Update("status", status).Error
}

func (r *guestbookRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Guestbook{}).Error
}
