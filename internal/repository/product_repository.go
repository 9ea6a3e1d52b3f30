package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/techblog/internal/model"
)

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	ListOnShelf(ctx context.Context) ([]*model.Product, error)
	ListAll(ctx context.Context) ([]*model.Product, error)
	// ImportKeys 批量导入卡密并同步库存计数
	ImportKeys(ctx context.Context, productID string, secrets []string) (int, error)
	// AllocateKey 在事务内抢占一条未用卡密；无货返回 gorm.ErrRecordNotFound
	AllocateKey(ctx context.Context, tx *gorm.DB, productID, orderID string, now time.Time) (*model.ProductKey, error)
	// ReleaseKey 退款时释放订单占用的卡密
	ReleaseKey(ctx context.Context, tx *gorm.DB, orderID string) error
	KeyByOrder(ctx context.Context, orderID string) (*model.ProductKey, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepository{db: db} }

func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) ListOnShelf(ctx context.Context) ([]*model.Product, error) {
	var ps []*model.Product
	err := r.db.WithContext(ctx).
		Where("status = ?", model.ProductStatusOn).
		Order("sort_weight DESC, created_at DESC").
		Find(&ps).Error
	return ps, err
}

func (r *productRepository) ListAll(ctx context.Context) ([]*model.Product, error) {
	var ps []*model.Product
	err := r.db.WithContext(ctx).Order("sort_weight DESC, created_at DESC").Find(&ps).Error
	return ps, err
}

func (r *productRepository) ImportKeys(ctx context.Context, productID string, secrets []string) (int, error) {
	if len(secrets) == 0 {
		return 0, nil
	}
	keys := make([]model.ProductKey, 0, len(secrets))
	for _, s := range secrets {
		if s == "" {
			continue
		}
		keys = append(keys, model.ProductKey{ID: uuid.New().String(), ProductID: productID, Secret: s})
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(&keys, 200).Error; err != nil {
			return err
		}
		return tx.Model(&model.Product{}).Where("id = ?", productID).
			UpdateColumn("stock", gorm.Expr("stock + ?", len(keys))).Error
	})
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// AllocateKey 先锁定一条未用卡密再标记占用，stock 同步扣减。
// 找不到未用卡密时返回 gorm.ErrRecordNotFound，由调用方决定回滚。
func (r *productRepository) AllocateKey(ctx context.Context, tx *gorm.DB, productID, orderID string, now time.Time) (*model.ProductKey, error) {
	var key model.ProductKey
	err := tx.WithContext(ctx).
		Where("product_id = ? AND used = ?", productID, false).
		Order("created_at ASC").
		First(&key).Error
	if err != nil {
		return nil, err
	}
	res := tx.WithContext(ctx).Model(&model.ProductKey{}).
		Where("id = ? AND used = ?", key.ID, false).
		Updates(map[string]interface{}{"used": true, "order_id": orderID, "used_at": now})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// 并发抢占失败，视作无货
		return nil, gorm.ErrRecordNotFound
	}
	if err := tx.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock > 0", productID).
		UpdateColumn("stock", gorm.Expr("stock - 1")).Error; err != nil {
		return nil, err
	}
	key.Used = true
	key.OrderID = &orderID
	key.UsedAt = &now
	return &key, nil
}

func (r *productRepository) ReleaseKey(ctx context.Context, tx *gorm.DB, orderID string) error {
	var key model.ProductKey
	err := tx.WithContext(ctx).Where("order_id = ?", orderID).First(&key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // 会员类订单没有卡密
		}
		return err
	}
	if err := tx.WithContext(ctx).Model(&model.ProductKey{}).Where("id = ?", key.ID).
		Updates(map[string]interface{}{"used": false, "order_id": nil, "used_at": nil}).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).Model(&model.Product{}).Where("id = ?", key.ProductID).
		UpdateColumn("stock", gorm.Expr("stock + 1")).Error
}

func (r *productRepository) KeyByOrder(ctx context.Context, orderID string) (*model.ProductKey, error) {
	var key model.ProductKey
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&key).Error; err != nil {
		return nil, err
	}
	return &key, nil
}
