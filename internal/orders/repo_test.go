package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/NextOxyOfficial/LyriczFashion/pkg/db/models"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/enums"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/pagination"
)

func seedStore(t *testing.T, db *gorm.DB, ownerID int64) *models.Store {
	t.Helper()
	suffix := uuid.NewString()[:8]
	store := models.Store{
		OwnerID:  ownerID,
		Name:     "Store " + suffix,
		Slug:     "store-" + suffix,
		IsActive: true,
	}
	require.NoError(t, db.Create(&store).Error)
	return &store
}

func seedOrderAt(t *testing.T, db *gorm.DB, userID int64, created time.Time, items ...models.OrderItem) *models.Order {
	t.Helper()
	order := models.Order{
		UserID:          &userID,
		ShippingAddress: "addr",
		TotalAmount:     decimal.NewFromInt(500),
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	require.NoError(t, db.Create(&order).Error)
	for i := range items {
		items[i].OrderID = order.ID
		items[i].CreatedAt = created
	}
	if len(items) > 0 {
		require.NoError(t, db.Create(&items).Error)
	}
	return &order
}

func TestRepositoryListForUserPagination(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	repo := NewRepository(f.db)
	ctx := context.Background()

	buyer := seedUser(t, f.db, "buyer")
	other := seedUser(t, f.db, "other")

	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	var seeded []int64
	for i := 0; i < 5; i++ {
		order := seedOrderAt(t, f.db, buyer.ID, base.Add(time.Duration(i)*time.Minute))
		seeded = append(seeded, order.ID)
	}
	seedOrderAt(t, f.db, other.ID, base.Add(time.Hour))

	// First page: limit 2 plus the buffer row, newest first.
	page, err := repo.ListForUser(ctx, buyer.ID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, seeded[4], page[0].ID)
	assert.Equal(t, seeded[3], page[1].ID)

	cursor := pagination.EncodeCursor(pagination.Cursor{
		CreatedAt: page[1].CreatedAt,
		ID:        page[1].ID,
	})
	rest, err := repo.ListForUser(ctx, buyer.ID, pagination.Params{Limit: 10, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, rest, 3)
	assert.Equal(t, seeded[2], rest[0].ID)
	assert.Equal(t, seeded[0], rest[2].ID)

	for _, order := range append(page, rest...) {
		require.NotNil(t, order.UserID)
		assert.Equal(t, buyer.ID, *order.UserID)
	}

	_, err = repo.ListForUser(ctx, buyer.ID, pagination.Params{Limit: 10, Cursor: "garbage"})
	assert.Error(t, err)
}

func TestRepositoryUpdateStatusGuard(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	repo := NewRepository(f.db)
	ctx := context.Background()

	buyer := seedUser(t, f.db, "buyer")
	order := seedOrderAt(t, f.db, buyer.ID, time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))

	changed, err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	// Stale expectation loses.
	changed, err = repo.UpdateStatus(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusShipped)
	require.NoError(t, err)
	assert.Zero(t, changed)

	reloaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, reloaded.Status)
}

func TestRepositoryListForStore(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	repo := NewRepository(f.db)
	ctx := context.Background()

	seller := seedUser(t, f.db, "seller")
	buyer := seedUser(t, f.db, "buyer")
	store := seedStore(t, f.db, seller.ID)

	mine := seedDesignProduct(t, f.db, 10, decimal.NewFromInt(500), nil)
	require.NoError(t, f.db.Model(mine).Update("store_id", store.ID).Error)
	foreign := seedDesignProduct(t, f.db, 10, decimal.NewFromInt(500), nil)

	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	withMine := seedOrderAt(t, f.db, buyer.ID, base, models.OrderItem{
		ProductID: mine.ID,
		Quantity:  1,
		Price:     decimal.NewFromInt(500),
	})
	seedOrderAt(t, f.db, buyer.ID, base.Add(time.Minute), models.OrderItem{
		ProductID: foreign.ID,
		Quantity:  1,
		Price:     decimal.NewFromInt(500),
	})

	found, err := repo.FindStoreByOwner(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, store.ID, found.ID)

	orders, err := repo.ListForStore(ctx, store.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, withMine.ID, orders[0].ID)
	require.Len(t, orders[0].Items, 1)
	require.NotNil(t, orders[0].Items[0].Product)
	assert.Equal(t, mine.ID, orders[0].Items[0].Product.ID)

	empty, err := repo.ListForStore(ctx, store.ID+1000)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
