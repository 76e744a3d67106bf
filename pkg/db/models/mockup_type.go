package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MockupType is a base apparel type (T-Shirt, Hoodie, ...) that variants
// hang off.
type MockupType struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string          `gorm:"column:name;not null;uniqueIndex"`
	Slug        string          `gorm:"column:slug;not null;uniqueIndex"`
	CategoryID  *int64          `gorm:"column:category_id"`
	BasePrice   decimal.Decimal `gorm:"column:base_price;type:numeric(10,2);not null"`
	Description *string         `gorm:"column:description"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	Variants    []MockupVariant `gorm:"foreignKey:MockupTypeID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
