package orders

import (
	"github.com/shopspring/decimal"

	"github.com/NextOxyOfficial/LyriczFashion/pkg/db/models"
	"github.com/NextOxyOfficial/LyriczFashion/pkg/enums"
)

// PlaceOrderInput carries a checkout request after controller-level coercion.
// UserID is nil for guest checkouts.
type PlaceOrderInput struct {
	UserID          *int64
	Items           []PlaceOrderItemInput
	ShippingAddress string
	CustomerName    *string
	CustomerPhone   *string
	PaymentMethod   enums.PaymentMethod
}

// PlaceOrderItemInput is one requested line.
type PlaceOrderItemInput struct {
	ProductID int64
	Quantity  int
}

// PlaceOrderResult reports what checkout committed.
type PlaceOrderResult struct {
	Order               *models.Order
	ShippingFee         decimal.Decimal
	CommissionsRecorded int
}

// UpdateStatusInput carries a staff-initiated status change.
type UpdateStatusInput struct {
	OrderID     int64
	NextStatus  enums.OrderStatus
	ActorUserID int64
}

// UpdateStatusResult reports what the transition did.
type UpdateStatusResult struct {
	Order                *models.Order
	PreviousStatus       enums.OrderStatus
	CommissionsSettled   int64
	CommissionsCancelled int64
}

// SellerOrderLine is one of the seller's lines inside a customer order.
type SellerOrderLine struct {
	OrderItemID int64           `json:"order_item_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	LineProfit  decimal.Decimal `json:"line_profit"`
}

// SellerOrder is one customer order narrowed to the seller's lines.
type SellerOrder struct {
	OrderID   int64             `json:"order_id"`
	Status    enums.OrderStatus `json:"status"`
	PlacedAt  string            `json:"placed_at"`
	Lines     []SellerOrderLine `json:"lines"`
	Total     decimal.Decimal   `json:"total"`
	Profit    decimal.Decimal   `json:"profit"`
	ItemCount int               `json:"item_count"`
}

// SellerRollup aggregates the seller's view of incoming orders.
type SellerRollup struct {
	Orders         []SellerOrder   `json:"orders"`
	OrderCount     int             `json:"order_count"`
	DeliveredCount int             `json:"delivered_count"`
	PendingCount   int             `json:"pending_count"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalProfit    decimal.Decimal `json:"total_profit"`
}
