package orders

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/NextOxyOfficial/LyriczFashion/pkg/db/models"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/enums"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/pagination"
)

// Repository exposes order persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error
	UpdateTotal(ctx context.Context, orderID int64, total decimal.Decimal) error
	UpdateStatus(ctx context.Context, orderID int64, from, to enums.OrderStatus) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	ListForUser(ctx context.Context, userID int64, params pagination.Params) ([]models.Order, error)
	FindStoreByOwner(ctx context.Context, ownerID int64) (*models.Store, error)
	ListForStore(ctx context.Context, storeID int64) ([]models.Order, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) UpdateTotal(ctx context.Context, orderID int64, total decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("total_amount", total).Error
}

// UpdateStatus moves the order from one status to another, guarding on the
// expected current status. Returns the number of rows changed so callers can
// detect a concurrent transition.
func (r *repository) UpdateStatus(ctx context.Context, orderID int64, from, to enums.OrderStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListForUser(ctx context.Context, userID int64, params pagination.Params) ([]models.Order, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, fmt.Errorf("parse cursor: %w", err)
	}

	query := r.db.WithContext(ctx).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) FindStoreByOwner(ctx context.Context, ownerID int64) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// ListForStore returns orders containing at least one line for the store's
// products, each preloaded with its full item set.
func (r *repository) ListForStore(ctx context.Context, storeID int64) ([]models.Order, error) {
	var orderIDs []int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Distinct("order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.store_id = ?", storeID).
		Pluck("order_items.order_id", &orderIDs).Error
	if err != nil {
		return nil, err
	}
	if len(orderIDs) == 0 {
		return nil, nil
	}

	var orders []models.Order
	err = r.db.WithContext(ctx).
		Preload("Items.Product").
		Where("id IN ?", orderIDs).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
