package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/techblog/internal/model"
)

type SettingRepository interface {
	Get(ctx context.Context, key string) (*model.Setting, error)
	GetMany(ctx context.Context, keys []string) (map[string]string, error)
	List(ctx context.Context) ([]*model.Setting, error)
	Upsert(ctx context.Context, key, value, description string) error
	// UpsertIfAbsent 铺底用：键已存在时不动现值
	UpsertIfAbsent(ctx context.Context, key, value, description string) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository { return &settingRepository{db: db} }

func (r *settingRepository) Get(ctx context.Context, key string) (*model.Setting, error) {
	var s model.Setting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingRepository) GetMany(ctx context.Context, keys []string) (map[string]string, error) {
	var rows []model.Setting
	if err := r.db.WithContext(ctx).Where("key IN ?", keys).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, s := range rows {
		out[s.Key] = s.Value
	}
	return out, nil
}

func (r *settingRepository) List(ctx context.Context) ([]*model.Setting, error) {
	var rows []*model.Setting
	err := r.db.WithContext(ctx).Order("key ASC").Find(&rows).Error
	return rows, err
}

func (r *settingRepository) Upsert(ctx context.Context, key, value, description string) error {
	s := &model.Setting{Key: key, Value: value, Description: description}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "description", "updated_at"}),
	}).Create(s).Error
}

func (r *settingRepository) UpsertIfAbsent(ctx context.Context, key, value, description string) error {
	s := &model.Setting{Key: key, Value: value, Description: description}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(s).Error
}
