package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/techblog/internal/model"
)

type ChannelRepository interface {
	List(ctx context.Context) ([]*model.PaymentChannel, error)
	ListEnabled(ctx context.Context) ([]*model.PaymentChannel, error)
	GetByCode(ctx context.Context, code string) (*model.PaymentChannel, error)
	SetEnabled(ctx context.Context, code string, enabled bool) error
	// SeedDefaults 启动时补齐四个内置渠道（已存在的不动）
	SeedDefaults(ctx context.Context) error
}

type channelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) ChannelRepository { return &channelRepository{db: db} }

func (r *channelRepository) List(ctx context.Context) ([]*model.PaymentChannel, error) {
	var cs []*model.PaymentChannel
	err := r.db.WithContext(ctx).Order("sort_weight DESC, code ASC").Find(&cs).Error
	return cs, err
}

func (r *channelRepository) ListEnabled(ctx context.Context) ([]*model.PaymentChannel, error) {
	var cs []*model.PaymentChannel
	err := r.db.WithContext(ctx).Where("enabled = ?", true).
		Order("sort_weight DESC, code ASC").Find(&cs).Error
	return cs, err
}

func (r *channelRepository) GetByCode(ctx context.Context, code string) (*model.PaymentChannel, error) {
	var c model.PaymentChannel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *channelRepository) SetEnabled(ctx context.Context, code string, enabled bool) error {
	res := r.db.WithContext(ctx).Model(&model.PaymentChannel{}).
		Where("code = ?", code).Update("enabled", enabled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *channelRepository) SeedDefaults(ctx context.Context) error {
	defaults := []model.PaymentChannel{
		{ID: uuid.New().String(), Code: model.ChannelWechat, Name: "微信支付", SortWeight: 40},
		{ID: uuid.New().String(), Code: model.ChannelAlipay, Name: "支付宝", SortWeight: 30},
		{ID: uuid.New().String(), Code: model.ChannelXunhupay, Name: "虎皮椒", SortWeight: 20},
		{ID: uuid.New().String(), Code: model.ChannelTest, Name: "测试支付", SortWeight: 10},
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
		Create(&defaults).Error
}
