package commissions

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/NextOxyOfficial/LyriczFashion/internal/profiles"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/config"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/db/models"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/enums"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/logger"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/pagination"
)

func TestRecordUseCreatesPendingCommission(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	designer := seedUser(t, db, "designer")
	buyer := seedUser(t, db, "buyer")
	perUse := decimal.NewFromInt(75)
	design := seedDesign(t, db, designer.ID, &perUse, true)

	commission, err := svc.RecordUse(ctx, db, RecordUseInput{
		DesignID:    design.ID,
		UsedByID:    &buyer.ID,
		OrderID:     11,
		OrderItemID: 21,
		Quantity:    2,
	})
	if err != nil {
		t.Fatalf("record use: %v", err)
	}
	if commission == nil {
		t.Fatal("expected commission")
	}
	if !commission.Amount.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected amount 150, got %s", commission.Amount)
	}
	if commission.Status != enums.CommissionStatusPending {
		t.Fatalf("expected pending status, got %s", commission.Status)
	}
	if commission.OwnerID != designer.ID {
		t.Fatalf("expected owner %d, got %d", designer.ID, commission.OwnerID)
	}
}

func TestRecordUseDefaultRate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	designer := seedUser(t, db, "designer")
	buyer := seedUser(t, db, "buyer")
	design := seedDesign(t, db, designer.ID, nil, true)

	commission, err := svc.RecordUse(ctx, db, RecordUseInput{
		DesignID:    design.ID,
		UsedByID:    &buyer.ID,
		OrderID:     1,
		OrderItemID: 2,
		Quantity:    3,
	})
	if err != nil {
		t.Fatalf("record use: %v", err)
	}
	if commission == nil {
		t.Fatal("expected commission")
	}
	if !commission.Amount.Equal(decimal.NewFromInt(147)) {
		t.Fatalf("expected default 49 x 3 = 147, got %s", commission.Amount)
	}
}

func TestRecordUseWaivedRate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	designer := seedUser(t, db, "designer")
	buyer := seedUser(t, db, "buyer")
	waived := decimal.Zero
	design := seedDesign(t, db, designer.ID, &waived, true)

	commission, err := svc.RecordUse(ctx, db, RecordUseInput{
		DesignID:    design.ID,
		UsedByID:    &buyer.ID,
		OrderID:     1,
		OrderItemID: 2,
		Quantity:    2,
	})
	if err != nil {
		t.Fatalf("record use: %v", err)
	}
	if commission == nil {
		t.Fatal("expected commission")
	}
	// A configured zero is a waiver, not a missing rate.
	if !commission.Amount.Equal(decimal.Zero) {
		t.Fatalf("expected amount 0, got %s", commission.Amount)
	}
}

func TestRecordUseSkips(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	designer := seedUser(t, db, "designer")
	buyer := seedUser(t, db, "buyer")
	active := seedDesign(t, db, designer.ID, nil, true)
	inactive := seedDesign(t, db, designer.ID, nil, false)

	t.Run("unknown design", func(t *testing.T) {
		commission, err := svc.RecordUse(ctx, db, RecordUseInput{
			DesignID: 9999, UsedByID: &buyer.ID, OrderID: 1, OrderItemID: 1, Quantity: 1,
		})
		if err != nil || commission != nil {
			t.Fatalf("expected silent skip, got %v %v", commission, err)
		}
	})

	t.Run("inactive design", func(t *testing.T) {
		commission, err := svc.RecordUse(ctx, db, RecordUseInput{
			DesignID: inactive.ID, UsedByID: &buyer.ID, OrderID: 1, OrderItemID: 2, Quantity: 1,
		})
		if err != nil || commission != nil {
			t.Fatalf("expected silent skip, got %v %v", commission, err)
		}
	})

	t.Run("self use", func(t *testing.T) {
		commission, err := svc.RecordUse(ctx, db, RecordUseInput{
			DesignID: active.ID, UsedByID: &designer.ID, OrderID: 1, OrderItemID: 3, Quantity: 1,
		})
		if err != nil || commission != nil {
			t.Fatalf("expected silent skip, got %v %v", commission, err)
		}
	})

	t.Run("duplicate pair", func(t *testing.T) {
		first, err := svc.RecordUse(ctx, db, RecordUseInput{
			DesignID: active.ID, UsedByID: &buyer.ID, OrderID: 1, OrderItemID: 4, Quantity: 1,
		})
		if err != nil || first == nil {
			t.Fatalf("first use should record: %v %v", first, err)
		}
		second, err := svc.RecordUse(ctx, db, RecordUseInput{
			DesignID: active.ID, UsedByID: &buyer.ID, OrderID: 1, OrderItemID: 4, Quantity: 1,
		})
		if err != nil || second != nil {
			t.Fatalf("expected silent skip, got %v %v", second, err)
		}
	})

	t.Run("guest use records", func(t *testing.T) {
		commission, err := svc.RecordUse(ctx, db, RecordUseInput{
			DesignID: active.ID, OrderID: 1, OrderItemID: 5, Quantity: 1,
		})
		if err != nil || commission == nil {
			t.Fatalf("guest use should record: %v %v", commission, err)
		}
	})
}

func TestSettleForOrder(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	designer := seedUser(t, db, "designer")
	buyer := seedUser(t, db, "buyer")
	design := seedDesign(t, db, designer.ID, nil, true)

	for i, qty := range []int{2, 1} {
		_, err := svc.RecordUse(ctx, db, RecordUseInput{
			DesignID: design.ID, UsedByID: &buyer.ID, OrderID: 5, OrderItemID: int64(100 + i), Quantity: qty,
		})
		if err != nil {
			t.Fatalf("record use: %v", err)
		}
	}

	settled, err := svc.SettleForOrder(ctx, db, 5)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if settled != 2 {
		t.Fatalf("expected 2 settled, got %d", settled)
	}

	var profile models.UserProfile
	if err := db.First(&profile, "user_id = ?", designer.ID).Error; err != nil {
		t.Fatalf("load profile: %v", err)
	}
	// 49 x 2 + 49 x 1
	if !profile.Balance.Equal(decimal.NewFromInt(147)) {
		t.Fatalf("expected balance 147, got %s", profile.Balance)
	}

	// Second run settles nothing and keeps the balance stable.
	settled, err = svc.SettleForOrder(ctx, db, 5)
	if err != nil {
		t.Fatalf("settle again: %v", err)
	}
	if settled != 0 {
		t.Fatalf("expected idempotent settlement, got %d", settled)
	}
	if err := db.First(&profile, "user_id = ?", designer.ID).Error; err != nil {
		t.Fatalf("reload profile: %v", err)
	}
	if !profile.Balance.Equal(decimal.NewFromInt(147)) {
		t.Fatalf("balance changed on repeat settlement: %s", profile.Balance)
	}
}

func TestCancelForOrder(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	designer := seedUser(t, db, "designer")
	buyer := seedUser(t, db, "buyer")
	design := seedDesign(t, db, designer.ID, nil, true)

	if _, err := svc.RecordUse(ctx, db, RecordUseInput{
		DesignID: design.ID, UsedByID: &buyer.ID, OrderID: 8, OrderItemID: 300, Quantity: 1,
	}); err != nil {
		t.Fatalf("record use: %v", err)
	}

	cancelled, err := svc.CancelForOrder(ctx, db, 8)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled != 1 {
		t.Fatalf("expected 1 cancelled, got %d", cancelled)
	}

	var commission models.DesignCommission
	if err := db.First(&commission, "order_id = ?", 8).Error; err != nil {
		t.Fatalf("load commission: %v", err)
	}
	if commission.Status != enums.CommissionStatusCancelled {
		t.Fatalf("expected cancelled, got %s", commission.Status)
	}
}

func TestListForOwnerSummary(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	designer := seedUser(t, db, "designer")
	buyer := seedUser(t, db, "buyer")
	design := seedDesign(t, db, designer.ID, nil, true)

	for i := 0; i < 3; i++ {
		if _, err := svc.RecordUse(ctx, db, RecordUseInput{
			DesignID: design.ID, UsedByID: &buyer.ID, OrderID: int64(40 + i), OrderItemID: int64(400 + i), Quantity: 1,
		}); err != nil {
			t.Fatalf("record use: %v", err)
		}
	}
	if _, err := svc.SettleForOrder(ctx, db, 40); err != nil {
		t.Fatalf("settle: %v", err)
	}

	listed, summary, err := svc.ListForOwner(ctx, designer.ID, pagination.Params{Limit: 25})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 commissions, got %d", len(listed))
	}
	if summary.PendingCount != 2 || summary.CompletedCount != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !summary.CompletedAmount.Equal(decimal.NewFromInt(49)) {
		t.Fatalf("expected completed 49, got %s", summary.CompletedAmount)
	}
	if !summary.PendingAmount.Equal(decimal.NewFromInt(98)) {
		t.Fatalf("expected pending 98, got %s", summary.PendingAmount)
	}
	if !summary.Balance.Equal(decimal.NewFromInt(49)) {
		t.Fatalf("expected balance 49, got %s", summary.Balance)
	}
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	cfg := config.CheckoutConfig{
		FlatShippingFee:       decimal.NewFromInt(100),
		FreeShippingThreshold: decimal.NewFromInt(2000),
		DefaultCommission:     decimal.NewFromInt(49),
	}
	svc, err := NewService(NewRepository(db), profiles.NewRepository(db), cfg, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedUser(t *testing.T, db *gorm.DB, prefix string) *models.User {
	t.Helper()
	suffix := uuid.NewString()[:8]
	user := models.User{
		Username: prefix + "_" + suffix,
		Email:    prefix + "_" + suffix + "@example.com",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func seedDesign(t *testing.T, db *gorm.DB, ownerID int64, perUse *decimal.Decimal, active bool) *models.DesignLibraryItem {
	t.Helper()
	design := models.DesignLibraryItem{
		OwnerID:          ownerID,
		Name:             "Art " + uuid.NewString()[:8],
		CommissionPerUse: perUse,
		IsActive:         active,
	}
	if err := db.Create(&design).Error; err != nil {
		t.Fatalf("seed design: %v", err)
	}
	return &design
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:commissions_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.DesignLibraryItem{},
		&models.DesignCommission{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
