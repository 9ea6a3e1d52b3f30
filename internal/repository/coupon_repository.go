package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/internal/model"
)

type CouponRepository interface {
	Create(ctx context.Context, c *model.Coupon) error
	Update(ctx context.Context, c *model.Coupon) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.Coupon, error)
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	List(ctx context.Context, offset, limit int) ([]*model.Coupon, int64, error)
	// Consume 在支付成交事务内带条件自增 used_count；
	// 超发时 RowsAffected=0，调用方回滚整个事务。
	Consume(ctx context.Context, tx *gorm.DB, couponID string) (bool, error)
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository { return &couponRepository{db: db} }

func (r *couponRepository) Create(ctx context.Context, c *model.Coupon) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *couponRepository) Update(ctx context.Context, c *model.Coupon) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *couponRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Coupon{}).Error
}

func (r *couponRepository) GetByID(ctx context.Context, id string) (*model.Coupon, error) {
	var c model.Coupon
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var c model.Coupon
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *couponRepository) List(ctx context.Context, offset, limit int) ([]*model.Coupon, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Coupon{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var cs []*model.Coupon
	err := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&cs).Error
	return cs, total, err
}

func (r *couponRepository) Consume(ctx context.Context, tx *gorm.DB, couponID string) (bool, error) {
	res := tx.WithContext(ctx).Model(&model.Coupon{}).
		Where("id = ? AND used_count < total_count", couponID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
