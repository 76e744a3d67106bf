package orders

import (
	"context"
	"io"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/NextOxyOfficial/LyriczFashion/internal/commissions"
	"github.com/NextOxyOfficial/LyriczFashion/internal/products"
	"github.com/NextOxyOfficial/LyriczFashion/internal/profiles"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/config"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/db"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/db/models"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/enums"
	pkgerrors "github.com/NextOxyOfficial/LyriczFashion/pkg/errors"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/logger"
)

type fixture struct {
	db  *gorm.DB
	svc Service
}

func TestPlaceCustomOrderWithCommissionAndDeliver(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	designer := seedUser(t, f.db, "designer")
	buyer := seedUser(t, f.db, "buyer")
	staff := seedUser(t, f.db, "staff")

	design := seedDesign(t, f.db, designer.ID, decimal.NewFromInt(49))
	variant := seedVariant(t, f.db, 5)
	product := seedCustomProduct(t, f.db, buyer.ID, variant,
		decimal.NewFromInt(450),
		[]byte(`{"sides": {"front": {"library_design_id": `+formatID(design.ID)+`}}}`),
	)

	result, err := f.svc.Place(ctx, PlaceOrderInput{
		UserID:          &buyer.ID,
		ShippingAddress: "12 Mirpur Road, Dhaka",
		PaymentMethod:   enums.PaymentMethodCOD,
		Items:           []PlaceOrderItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	// 450 x 2 = 900, below the threshold so the flat fee applies.
	if !result.Order.TotalAmount.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected total 1000, got %s", result.Order.TotalAmount)
	}
	if !result.ShippingFee.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected fee 100, got %s", result.ShippingFee)
	}
	if result.CommissionsRecorded != 1 {
		t.Fatalf("expected 1 commission, got %d", result.CommissionsRecorded)
	}

	var reloadedVariant models.MockupVariant
	if err := f.db.First(&reloadedVariant, "id = ?", variant.ID).Error; err != nil {
		t.Fatalf("reload variant: %v", err)
	}
	if reloadedVariant.Stock != 3 {
		t.Fatalf("expected stock 3, got %d", reloadedVariant.Stock)
	}

	// The cost snapshot comes from the variant, not the product row.
	var item models.OrderItem
	if err := f.db.First(&item, "order_id = ?", result.Order.ID).Error; err != nil {
		t.Fatalf("load order item: %v", err)
	}
	if !item.BuyPrice.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected buy price 250, got %s", item.BuyPrice)
	}

	var commission models.DesignCommission
	if err := f.db.First(&commission, "order_id = ?", result.Order.ID).Error; err != nil {
		t.Fatalf("load commission: %v", err)
	}
	if commission.Status != enums.CommissionStatusPending {
		t.Fatalf("expected pending commission, got %s", commission.Status)
	}
	if !commission.Amount.Equal(decimal.NewFromInt(98)) {
		t.Fatalf("expected commission 98, got %s", commission.Amount)
	}

	// Walk the lifecycle to delivered.
	for _, status := range []enums.OrderStatus{
		enums.OrderStatusProcessing,
		enums.OrderStatusShipped,
		enums.OrderStatusDelivered,
	} {
		if _, err := f.svc.UpdateStatus(ctx, UpdateStatusInput{
			OrderID:     result.Order.ID,
			NextStatus:  status,
			ActorUserID: staff.ID,
		}); err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
	}

	var profile models.UserProfile
	if err := f.db.First(&profile, "user_id = ?", designer.ID).Error; err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if !profile.Balance.Equal(decimal.NewFromInt(98)) {
		t.Fatalf("expected designer balance 98, got %s", profile.Balance)
	}
}

func TestPlaceRollsBackWhenAnyLineFails(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	buyer := seedUser(t, f.db, "buyer")
	variantA := seedVariant(t, f.db, 10)
	variantB := seedVariant(t, f.db, 1)
	productA := seedCustomProduct(t, f.db, buyer.ID, variantA, decimal.NewFromInt(300), nil)
	productB := seedCustomProduct(t, f.db, buyer.ID, variantB, decimal.NewFromInt(300), nil)

	_, err := f.svc.Place(ctx, PlaceOrderInput{
		UserID:          &buyer.ID,
		ShippingAddress: "12 Mirpur Road, Dhaka",
		PaymentMethod:   enums.PaymentMethodCOD,
		Items: []PlaceOrderItemInput{
			{ProductID: productA.ID, Quantity: 2},
			{ProductID: productB.ID, Quantity: 5},
		},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	var orderCount, itemCount int64
	f.db.Model(&models.Order{}).Count(&orderCount)
	f.db.Model(&models.OrderItem{}).Count(&itemCount)
	if orderCount != 0 || itemCount != 0 {
		t.Fatalf("expected full rollback, got %d orders %d items", orderCount, itemCount)
	}

	var reloaded models.MockupVariant
	if err := f.db.First(&reloaded, "id = ?", variantA.ID).Error; err != nil {
		t.Fatalf("reload variant: %v", err)
	}
	if reloaded.Stock != 10 {
		t.Fatalf("expected first line's reservation rolled back, stock %d", reloaded.Stock)
	}
}

func TestShippingFeeBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		price decimal.Decimal
		fee   int64
	}{
		{name: "at threshold", price: decimal.NewFromInt(2000), fee: 100},
		{name: "above threshold", price: decimal.RequireFromString("2000.01"), fee: 0},
		{name: "free item", price: decimal.Zero, fee: 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			buyer := seedUser(t, f.db, "buyer")
			variant := seedVariant(t, f.db, 5)
			product := seedCustomProduct(t, f.db, buyer.ID, variant, tc.price, nil)

			result, err := f.svc.Place(context.Background(), PlaceOrderInput{
				UserID:          &buyer.ID,
				ShippingAddress: "12 Mirpur Road, Dhaka",
				PaymentMethod:   enums.PaymentMethodCOD,
				Items:           []PlaceOrderItemInput{{ProductID: product.ID, Quantity: 1}},
			})
			if err != nil {
				t.Fatalf("place: %v", err)
			}
			if !result.ShippingFee.Equal(decimal.NewFromInt(tc.fee)) {
				t.Fatalf("expected fee %d, got %s", tc.fee, result.ShippingFee)
			}
			if !result.Order.TotalAmount.Equal(tc.price.Add(decimal.NewFromInt(tc.fee))) {
				t.Fatalf("unexpected total %s", result.Order.TotalAmount)
			}
		})
	}
}

func TestPlaceDesignListingUsesDiscountAndOwnStock(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	buyer := seedUser(t, f.db, "buyer")

	discount := decimal.NewFromInt(350)
	product := seedDesignProduct(t, f.db, 4, decimal.NewFromInt(500), &discount)

	result, err := f.svc.Place(context.Background(), PlaceOrderInput{
		UserID:          &buyer.ID,
		ShippingAddress: "12 Mirpur Road, Dhaka",
		PaymentMethod:   enums.PaymentMethodCOD,
		Items:           []PlaceOrderItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	// Discounted 350 x 2 = 700 plus fee.
	if !result.Order.TotalAmount.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("expected total 800, got %s", result.Order.TotalAmount)
	}

	var reloaded models.Product
	if err := f.db.First(&reloaded, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.Stock != 2 {
		t.Fatalf("expected listing stock 2, got %d", reloaded.Stock)
	}
}

func TestPlaceVariantlessCustomProduct(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	buyer := seedUser(t, f.db, "buyer")
	staff := seedUser(t, f.db, "staff")

	// Printed to order: no variant, no stock of its own.
	product := seedCustomProduct(t, f.db, buyer.ID, nil, decimal.NewFromInt(450), nil)

	result, err := f.svc.Place(ctx, PlaceOrderInput{
		UserID:          &buyer.ID,
		ShippingAddress: "addr",
		PaymentMethod:   enums.PaymentMethodCOD,
		Items:           []PlaceOrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	if _, err := f.svc.UpdateStatus(ctx, UpdateStatusInput{
		OrderID:     result.Order.ID,
		NextStatus:  enums.OrderStatusCancelled,
		ActorUserID: staff.ID,
	}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// Cancelling must not conjure stock onto the product row.
	var reloaded models.Product
	if err := f.db.First(&reloaded, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.Stock != 0 {
		t.Fatalf("expected stock to stay 0, got %d", reloaded.Stock)
	}
}

func TestPlaceEligibility(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	buyer := seedUser(t, f.db, "buyer")
	other := seedUser(t, f.db, "other")

	unpublished := seedDesignProduct(t, f.db, 5, decimal.NewFromInt(500), nil)
	if err := f.db.Model(unpublished).Update("is_published", false).Error; err != nil {
		t.Fatalf("unpublish: %v", err)
	}

	variant := seedVariant(t, f.db, 5)
	foreignCustom := seedCustomProduct(t, f.db, other.ID, variant, decimal.NewFromInt(400), nil)

	t.Run("unpublished listing hidden", func(t *testing.T) {
		_, err := f.svc.Place(ctx, PlaceOrderInput{
			UserID:          &buyer.ID,
			ShippingAddress: "addr",
			PaymentMethod:   enums.PaymentMethodCOD,
			Items:           []PlaceOrderItemInput{{ProductID: unpublished.ID, Quantity: 1}},
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("foreign custom forbidden", func(t *testing.T) {
		_, err := f.svc.Place(ctx, PlaceOrderInput{
			UserID:          &buyer.ID,
			ShippingAddress: "addr",
			PaymentMethod:   enums.PaymentMethodCOD,
			Items:           []PlaceOrderItemInput{{ProductID: foreignCustom.ID, Quantity: 1}},
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("quantity below one rejected", func(t *testing.T) {
		_, err := f.svc.Place(ctx, PlaceOrderInput{
			UserID:          &buyer.ID,
			ShippingAddress: "addr",
			PaymentMethod:   enums.PaymentMethodCOD,
			Items:           []PlaceOrderItemInput{{ProductID: foreignCustom.ID, Quantity: 0}},
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestCancelRestocksAndVoidsCommissions(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	designer := seedUser(t, f.db, "designer")
	buyer := seedUser(t, f.db, "buyer")
	staff := seedUser(t, f.db, "staff")

	design := seedDesign(t, f.db, designer.ID, decimal.NewFromInt(49))
	variant := seedVariant(t, f.db, 5)
	product := seedCustomProduct(t, f.db, buyer.ID, variant,
		decimal.NewFromInt(450),
		[]byte(`{"library_design_id": `+formatID(design.ID)+`}`),
	)

	result, err := f.svc.Place(ctx, PlaceOrderInput{
		UserID:          &buyer.ID,
		ShippingAddress: "addr",
		PaymentMethod:   enums.PaymentMethodCOD,
		Items:           []PlaceOrderItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	cancelResult, err := f.svc.UpdateStatus(ctx, UpdateStatusInput{
		OrderID:     result.Order.ID,
		NextStatus:  enums.OrderStatusCancelled,
		ActorUserID: staff.ID,
	})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelResult.CommissionsCancelled != 1 {
		t.Fatalf("expected 1 commission cancelled, got %d", cancelResult.CommissionsCancelled)
	}

	var reloaded models.MockupVariant
	if err := f.db.First(&reloaded, "id = ?", variant.ID).Error; err != nil {
		t.Fatalf("reload variant: %v", err)
	}
	if reloaded.Stock != 5 {
		t.Fatalf("expected stock restored to 5, got %d", reloaded.Stock)
	}

	// Terminal state refuses further transitions.
	_, err = f.svc.UpdateStatus(ctx, UpdateStatusInput{
		OrderID:     result.Order.ID,
		NextStatus:  enums.OrderStatusProcessing,
		ActorUserID: staff.ID,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestFindForUserHidesForeignOrders(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	buyer := seedUser(t, f.db, "buyer")
	other := seedUser(t, f.db, "other")
	variant := seedVariant(t, f.db, 5)
	product := seedCustomProduct(t, f.db, buyer.ID, variant, decimal.NewFromInt(450), nil)

	result, err := f.svc.Place(ctx, PlaceOrderInput{
		UserID:          &buyer.ID,
		ShippingAddress: "addr",
		PaymentMethod:   enums.PaymentMethodCOD,
		Items:           []PlaceOrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	if _, err := f.svc.FindForUser(ctx, result.Order.ID, buyer.ID, false); err != nil {
		t.Fatalf("owner lookup: %v", err)
	}

	_, err = f.svc.FindForUser(ctx, result.Order.ID, other.ID, false)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign user, got %v", err)
	}

	if _, err := f.svc.FindForUser(ctx, result.Order.ID, other.ID, true); err != nil {
		t.Fatalf("staff lookup: %v", err)
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Category{},
		&models.Store{},
		&models.MockupType{},
		&models.MockupVariant{},
		&models.Product{},
		&models.DesignLibraryItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.DesignCommission{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	cfg := config.CheckoutConfig{
		FlatShippingFee:       decimal.NewFromInt(100),
		FreeShippingThreshold: decimal.NewFromInt(2000),
		DefaultCommission:     decimal.NewFromInt(49),
	}

	commissionsSvc, err := commissions.NewService(commissions.NewRepository(conn), profiles.NewRepository(conn), cfg, logg)
	if err != nil {
		t.Fatalf("commissions service: %v", err)
	}

	svc, err := NewService(
		NewRepository(conn),
		products.NewRepository(conn),
		commissionsSvc,
		db.FromGorm(conn),
		cfg,
		logg,
		nil,
	)
	if err != nil {
		t.Fatalf("orders service: %v", err)
	}
	return &fixture{db: conn, svc: svc}
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

func seedDesign(t *testing.T, db *gorm.DB, ownerID int64, perUse decimal.Decimal) *models.DesignLibraryItem {
	t.Helper()
	design := models.DesignLibraryItem{
		OwnerID:          ownerID,
		Name:             "Art " + uuid.NewString()[:8],
		CommissionPerUse: &perUse,
		IsActive:         true,
	}
	if err := db.Create(&design).Error; err != nil {
		t.Fatalf("seed design: %v", err)
	}
	return &design
}

func seedVariant(t *testing.T, db *gorm.DB, stock int) *models.MockupVariant {
	t.Helper()
	suffix := uuid.NewString()[:8]
	mockupType := models.MockupType{
		Name:      "Tee " + suffix,
		Slug:      "tee-" + suffix,
		BasePrice: decimal.NewFromInt(250),
		IsActive:  true,
	}
	if err := db.Create(&mockupType).Error; err != nil {
		t.Fatalf("seed mockup type: %v", err)
	}
	variant := models.MockupVariant{
		MockupTypeID: mockupType.ID,
		Size:         enums.ApparelSizeM,
		ColorName:    "black_" + uuid.NewString()[:8],
		Stock:        stock,
		IsActive:     true,
	}
	if err := db.Create(&variant).Error; err != nil {
		t.Fatalf("seed variant: %v", err)
	}
	return &variant
}

func seedCustomProduct(t *testing.T, db *gorm.DB, createdBy int64, variant *models.MockupVariant, price decimal.Decimal, designData []byte) *models.Product {
	t.Helper()
	product := models.Product{
		CreatedByID: &createdBy,
		Name:        "Custom " + uuid.NewString()[:8],
		Kind:        enums.ProductKindCustom,
		BuyPrice:    decimal.NewFromInt(200),
		Price:       price,
		IsActive:    true,
	}
	if variant != nil {
		product.MockupVariantID = &variant.ID
	}
	if designData != nil {
		product.DesignData = datatypes.JSON(designData)
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed custom product: %v", err)
	}
	return &product
}

func seedDesignProduct(t *testing.T, db *gorm.DB, stock int, price decimal.Decimal, discount *decimal.Decimal) *models.Product {
	t.Helper()
	product := models.Product{
		Name:          "Listing " + uuid.NewString()[:8],
		Kind:          enums.ProductKindDesign,
		BuyPrice:      decimal.NewFromInt(150),
		Price:         price,
		DiscountPrice: discount,
		Stock:         stock,
		IsPublished:   true,
		IsActive:      true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed design product: %v", err)
	}
	return &product
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
