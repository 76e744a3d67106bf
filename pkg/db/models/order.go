package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/NextOxyOfficial/LyriczFashion/pkg/enums"
)

// Order is a checkout transaction. UserID is nil for guest checkouts. The
// order and its items are created atomically; afterwards only the status
// field changes.
type Order struct {
	ID              int64               `gorm:"column:id;primaryKey;autoIncrement"`
	UserID          *int64              `gorm:"column:user_id;index"`
	User            *User               `gorm:"foreignKey:UserID"`
	TotalAmount     decimal.Decimal     `gorm:"column:total_amount;type:numeric(10,2);not null;default:0"`
	Status          enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;not null;default:'cod'"`
	ShippingAddress string              `gorm:"column:shipping_address;not null"`
	CustomerName    *string             `gorm:"column:customer_name"`
	CustomerPhone   *string             `gorm:"column:customer_phone"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
