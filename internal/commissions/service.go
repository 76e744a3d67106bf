package commissions

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/NextOxyOfficial/LyriczFashion/internal/profiles"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/config"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/db"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/db/models"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/enums"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/logger"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/pagination"
)

// Service records commission obligations at checkout and settles them when
// orders complete.
type Service interface {
	RecordUse(ctx context.Context, tx *gorm.DB, input RecordUseInput) (*models.DesignCommission, error)
	SettleForOrder(ctx context.Context, tx *gorm.DB, orderID int64) (int64, error)
	CancelForOrder(ctx context.Context, tx *gorm.DB, orderID int64) (int64, error)
	ListForOwner(ctx context.Context, ownerID int64, params pagination.Params) ([]models.DesignCommission, OwnerSummary, error)
}

// RecordUseInput identifies one design use inside one order line.
type RecordUseInput struct {
	DesignID    int64
	UsedByID    *int64
	OrderID     int64
	OrderItemID int64
	Quantity    int
}

type service struct {
	repo     Repository
	profiles profiles.Repository
	cfg      config.CheckoutConfig
	logger   *logger.Logger
}

// NewService builds a commissions service with the required dependencies.
func NewService(repo Repository, profileRepo profiles.Repository, cfg config.CheckoutConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("commissions repository is required")
	}
	if profileRepo == nil {
		return nil, fmt.Errorf("profiles repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, profiles: profileRepo, cfg: cfg, logger: logg}, nil
}

// RecordUse creates the pending commission for one design use. Uses that do
// not earn anything return (nil, nil): the design is missing or inactive, the
// buyer owns the design, or the (design, order item) pair was already
// recorded. Checkout must not fail because a referenced design went away.
func (s *service) RecordUse(ctx context.Context, tx *gorm.DB, input RecordUseInput) (*models.DesignCommission, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction is required")
	}
	if input.DesignID <= 0 || input.OrderID <= 0 || input.OrderItemID <= 0 {
		return nil, fmt.Errorf("design, order and order item ids are required")
	}
	if input.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	repo := s.repo.WithTx(tx)

	design, err := repo.FindDesignByID(ctx, input.DesignID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn(s.logger.WithField(ctx, "design_id", input.DesignID), "skipping commission for unknown design")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading design: %w", err)
	}
	if !design.IsActive {
		return nil, nil
	}
	if input.UsedByID != nil && *input.UsedByID == design.OwnerID {
		return nil, nil
	}

	exists, err := repo.Exists(ctx, input.DesignID, input.OrderItemID)
	if err != nil {
		return nil, fmt.Errorf("checking existing commission: %w", err)
	}
	if exists {
		return nil, nil
	}

	// A configured rate wins even at zero: designers may waive the fee.
	// The default only covers designs with no rate set at all.
	perUse := s.cfg.DefaultCommission
	if design.CommissionPerUse != nil && !design.CommissionPerUse.IsNegative() {
		perUse = *design.CommissionPerUse
	}

	commission := &models.DesignCommission{
		DesignID:    design.ID,
		OwnerID:     design.OwnerID,
		UsedByID:    input.UsedByID,
		OrderID:     input.OrderID,
		OrderItemID: input.OrderItemID,
		Quantity:    input.Quantity,
		Amount:      perUse.Mul(decimal.NewFromInt(int64(input.Quantity))),
		Status:      enums.CommissionStatusPending,
	}
	created, err := repo.Create(ctx, commission)
	if err != nil {
		// A concurrent insert for the same pair loses the race on the
		// unique index and is equivalent to the exists short-circuit.
		if db.IsUniqueViolation(err, "") {
			return nil, nil
		}
		return nil, fmt.Errorf("creating commission: %w", err)
	}
	return created, nil
}

// SettleForOrder completes the order's pending commissions and recomputes
// every affected owner's balance. Running it again for the same order settles
// nothing and leaves balances unchanged.
func (s *service) SettleForOrder(ctx context.Context, tx *gorm.DB, orderID int64) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}
	repo := s.repo.WithTx(tx)

	settled, err := repo.UpdateStatusForOrder(ctx, orderID, enums.CommissionStatusPending, enums.CommissionStatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("completing commissions: %w", err)
	}
	if settled == 0 {
		return 0, nil
	}

	ownerIDs, err := repo.OwnerIDsForOrder(ctx, orderID)
	if err != nil {
		return 0, fmt.Errorf("listing commission owners: %w", err)
	}

	profileRepo := s.profiles.WithTx(tx)
	var errs error
	for _, ownerID := range ownerIDs {
		if _, err := profileRepo.RecomputeBalance(ctx, ownerID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("recomputing balance for owner %d: %w", ownerID, err))
		}
	}
	if errs != nil {
		return 0, errs
	}
	return settled, nil
}

// CancelForOrder voids the order's pending commissions. Completed commissions
// are left alone; cancellation after delivery is not a supported transition.
func (s *service) CancelForOrder(ctx context.Context, tx *gorm.DB, orderID int64) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}
	cancelled, err := s.repo.WithTx(tx).UpdateStatusForOrder(ctx, orderID, enums.CommissionStatusPending, enums.CommissionStatusCancelled)
	if err != nil {
		return 0, fmt.Errorf("cancelling commissions: %w", err)
	}
	return cancelled, nil
}

func (s *service) ListForOwner(ctx context.Context, ownerID int64, params pagination.Params) ([]models.DesignCommission, OwnerSummary, error) {
	if ownerID <= 0 {
		return nil, OwnerSummary{}, fmt.Errorf("owner id is required")
	}
	commissions, err := s.repo.ListForOwner(ctx, ownerID, params)
	if err != nil {
		return nil, OwnerSummary{}, fmt.Errorf("listing commissions: %w", err)
	}
	summary, err := s.repo.SummaryForOwner(ctx, ownerID)
	if err != nil {
		return nil, OwnerSummary{}, fmt.Errorf("summarizing commissions: %w", err)
	}

	profile, err := s.profiles.FindByUserID(ctx, ownerID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Owner has never been paid out; balance stays zero.
	case err != nil:
		return nil, OwnerSummary{}, fmt.Errorf("loading profile balance: %w", err)
	default:
		summary.Balance = profile.Balance
	}
	return commissions, summary, nil
}
