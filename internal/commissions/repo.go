package commissions

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/NextOxyOfficial/LyriczFashion/pkg/db/models"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/enums"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/pagination"
)

// Repository exposes commission persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, commission *models.DesignCommission) (*models.DesignCommission, error)
	Exists(ctx context.Context, designID, orderItemID int64) (bool, error)
	FindDesignByID(ctx context.Context, designID int64) (*models.DesignLibraryItem, error)
	FindByOrderID(ctx context.Context, orderID int64) ([]models.DesignCommission, error)
	UpdateStatusForOrder(ctx context.Context, orderID int64, from, to enums.CommissionStatus) (int64, error)
	OwnerIDsForOrder(ctx context.Context, orderID int64) ([]int64, error)
	ListForOwner(ctx context.Context, ownerID int64, params pagination.Params) ([]models.DesignCommission, error)
	SummaryForOwner(ctx context.Context, ownerID int64) (OwnerSummary, error)
}

// OwnerSummary aggregates a designer's earnings by commission status.
// Balance is the settled profile balance, filled in by the service.
type OwnerSummary struct {
	PendingAmount   decimal.Decimal `json:"pending_amount"`
	CompletedAmount decimal.Decimal `json:"completed_amount"`
	PendingCount    int64           `json:"pending_count"`
	CompletedCount  int64           `json:"completed_count"`
	Balance         decimal.Decimal `json:"balance"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a commissions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, commission *models.DesignCommission) (*models.DesignCommission, error) {
	if err := r.db.WithContext(ctx).Create(commission).Error; err != nil {
		return nil, err
	}
	return commission, nil
}

func (r *repository) Exists(ctx context.Context, designID, orderItemID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DesignCommission{}).
		Where("design_id = ? AND order_item_id = ?", designID, orderItemID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) FindDesignByID(ctx context.Context, designID int64) (*models.DesignLibraryItem, error) {
	var design models.DesignLibraryItem
	err := r.db.WithContext(ctx).Where("id = ?", designID).First(&design).Error
	if err != nil {
		return nil, err
	}
	return &design, nil
}

func (r *repository) FindByOrderID(ctx context.Context, orderID int64) ([]models.DesignCommission, error) {
	var commissions []models.DesignCommission
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&commissions).Error
	if err != nil {
		return nil, err
	}
	return commissions, nil
}

// UpdateStatusForOrder moves every commission on the order from one status to
// another and reports how many rows changed. The status guard makes repeated
// settlement runs no-ops.
func (r *repository) UpdateStatusForOrder(ctx context.Context, orderID int64, from, to enums.CommissionStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.DesignCommission{}).
		Where("order_id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) OwnerIDsForOrder(ctx context.Context, orderID int64) ([]int64, error) {
	var ownerIDs []int64
	err := r.db.WithContext(ctx).
		Model(&models.DesignCommission{}).
		Distinct("owner_id").
		Where("order_id = ?", orderID).
		Pluck("owner_id", &ownerIDs).Error
	if err != nil {
		return nil, err
	}
	return ownerIDs, nil
}

func (r *repository) ListForOwner(ctx context.Context, ownerID int64, params pagination.Params) ([]models.DesignCommission, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, fmt.Errorf("parse cursor: %w", err)
	}

	query := r.db.WithContext(ctx).
		Preload("Design").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var commissions []models.DesignCommission
	if err := query.Find(&commissions).Error; err != nil {
		return nil, err
	}
	return commissions, nil
}

func (r *repository) SummaryForOwner(ctx context.Context, ownerID int64) (OwnerSummary, error) {
	type row struct {
		Status enums.CommissionStatus
		Total  decimal.NullDecimal
		Count  int64
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.DesignCommission{}).
		Select("status, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("owner_id = ?", ownerID).
		Group("status").
		Scan(&rows).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return OwnerSummary{}, err
	}

	summary := OwnerSummary{
		PendingAmount:   decimal.Zero,
		CompletedAmount: decimal.Zero,
	}
	for _, entry := range rows {
		total := decimal.Zero
		if entry.Total.Valid {
			total = entry.Total.Decimal
		}
		switch entry.Status {
		case enums.CommissionStatusPending:
			summary.PendingAmount = total
			summary.PendingCount = entry.Count
		case enums.CommissionStatusCompleted:
			summary.CompletedAmount = total
			summary.CompletedCount = entry.Count
		}
	}
	return summary, nil
}
