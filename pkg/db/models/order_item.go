package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one line within an order. Price and BuyPrice are snapshots
// taken at order time and are never recomputed from the product or variant.
type OrderItem struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID         int64           `gorm:"column:order_id;not null;index"`
	ProductID       int64           `gorm:"column:product_id;not null"`
	Product         *Product        `gorm:"foreignKey:ProductID"`
	MockupVariantID *int64          `gorm:"column:mockup_variant_id"`
	Quantity        int             `gorm:"column:quantity;not null;default:1"`
	BuyPrice        decimal.Decimal `gorm:"column:buy_price;type:numeric(10,2);not null;default:0"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// TotalPrice is the charged line total.
func (i OrderItem) TotalPrice() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TotalProfit is the seller margin on the line.
func (i OrderItem) TotalProfit() decimal.Decimal {
	return i.Price.Sub(i.BuyPrice).Mul(decimal.NewFromInt(int64(i.Quantity)))
}
