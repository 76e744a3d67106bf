package products

import (
	"context"

	"gorm.io/gorm"

	"github.com/NextOxyOfficial/LyriczFashion/pkg/db/models"
)

// Repository exposes product reads used by checkout.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	FindActiveByID(ctx context.Context, id int64) (*models.Product, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a products repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("MockupVariant.MockupType").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindActiveByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("MockupVariant.MockupType").
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}
