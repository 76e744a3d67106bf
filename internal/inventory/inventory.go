package inventory

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/NextOxyOfficial/LyriczFashion/pkg/db/models"
	pkgerrors "github.com/NextOxyOfficial/LyriczFashion/pkg/errors"
)

// Reservation reasons surfaced to callers when a decrement is refused.
const (
	ReasonNotFound     = "not_found"
	ReasonInactive     = "inactive"
	ReasonInsufficient = "insufficient_stock"
)

// InsufficientStockDetails describes a refused reservation for API responses.
type InsufficientStockDetails struct {
	ProductID int64  `json:"product_id,omitempty"`
	VariantID int64  `json:"variant_id,omitempty"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
	Reason    string `json:"reason"`
}

// ReserveVariantStock atomically decrements the variant's stock by qty. The
// decrement only applies when enough stock remains, so concurrent checkouts
// cannot drive stock negative. Must run inside the caller's transaction.
func ReserveVariantStock(ctx context.Context, tx *gorm.DB, variantID int64, qty int) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "transaction is required")
	}
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "reservation qty must be at least 1")
	}

	res := tx.WithContext(ctx).
		Model(&models.MockupVariant{}).
		Where("id = ? AND is_active = ? AND stock >= ?", variantID, true, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return fmt.Errorf("reserving variant stock: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var variant models.MockupVariant
	err := tx.WithContext(ctx).Where("id = ?", variantID).First(&variant).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, "mockup variant not found").
			WithDetails(InsufficientStockDetails{VariantID: variantID, Requested: qty, Reason: ReasonNotFound})
	case err != nil:
		return fmt.Errorf("loading variant after refused reservation: %w", err)
	case !variant.IsActive:
		return pkgerrors.New(pkgerrors.CodeConflict, "mockup variant is unavailable").
			WithDetails(InsufficientStockDetails{VariantID: variantID, Requested: qty, Available: variant.Stock, Reason: ReasonInactive})
	default:
		return pkgerrors.New(pkgerrors.CodeConflict, "insufficient variant stock").
			WithDetails(InsufficientStockDetails{VariantID: variantID, Requested: qty, Available: variant.Stock, Reason: ReasonInsufficient})
	}
}

// ReserveProductStock atomically decrements a design listing's own stock.
// Same contract as ReserveVariantStock.
func ReserveProductStock(ctx context.Context, tx *gorm.DB, productID int64, qty int) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "transaction is required")
	}
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "reservation qty must be at least 1")
	}

	res := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND is_active = ? AND stock >= ?", productID, true, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return fmt.Errorf("reserving product stock: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var product models.Product
	err := tx.WithContext(ctx).Where("id = ?", productID).First(&product).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(InsufficientStockDetails{ProductID: productID, Requested: qty, Reason: ReasonNotFound})
	case err != nil:
		return fmt.Errorf("loading product after refused reservation: %w", err)
	case !product.IsActive:
		return pkgerrors.New(pkgerrors.CodeConflict, "product is unavailable").
			WithDetails(InsufficientStockDetails{ProductID: productID, Requested: qty, Available: product.Stock, Reason: ReasonInactive})
	default:
		return pkgerrors.New(pkgerrors.CodeConflict, "insufficient product stock").
			WithDetails(InsufficientStockDetails{ProductID: productID, Requested: qty, Available: product.Stock, Reason: ReasonInsufficient})
	}
}

// ReleaseVariantStock returns previously reserved variant stock, used when an
// order is cancelled.
func ReleaseVariantStock(ctx context.Context, tx *gorm.DB, variantID int64, qty int) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "transaction is required")
	}
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "release qty must be at least 1")
	}
	res := tx.WithContext(ctx).
		Model(&models.MockupVariant{}).
		Where("id = ?", variantID).
		Update("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return fmt.Errorf("releasing variant stock: %w", res.Error)
	}
	return nil
}

// ReleaseProductStock returns previously reserved product stock.
func ReleaseProductStock(ctx context.Context, tx *gorm.DB, productID int64, qty int) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "transaction is required")
	}
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "release qty must be at least 1")
	}
	res := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return fmt.Errorf("releasing product stock: %w", res.Error)
	}
	return nil
}
