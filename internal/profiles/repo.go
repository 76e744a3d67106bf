package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/NextOxyOfficial/LyriczFashion/pkg/db/models"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/enums"
)

// Repository manages designer balance profiles.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByUserID(ctx context.Context, userID int64) (*models.UserProfile, error)
	EnsureProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
	RecomputeBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a profiles repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByUserID(ctx context.Context, userID int64) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// EnsureProfile returns the profile for userID, creating an empty one when it
// does not exist yet.
func (r *repository) EnsureProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	profile, err := r.FindByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := models.UserProfile{UserID: userID, Balance: decimal.Zero}
	if err := r.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, fmt.Errorf("creating profile: %w", err)
	}
	return &created, nil
}

// RecomputeBalance resets the profile balance to the sum of the user's
// completed commissions. The full recomputation keeps the balance
// reconcilable against the commission ledger regardless of how many times
// settlement ran.
func (r *repository) RecomputeBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	if _, err := r.EnsureProfile(ctx, userID); err != nil {
		return decimal.Zero, err
	}

	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.DesignCommission{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("owner_id = ? AND status = ?", userID, enums.CommissionStatusCompleted).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing completed commissions: %w", err)
	}

	balance := decimal.Zero
	if total.Valid {
		balance = total.Decimal
	}

	err = r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Update("balance", balance).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("updating balance: %w", err)
	}
	return balance, nil
}
