package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// DesignLibraryItem is a reusable artwork asset owned by a designer. When
// another user's custom order uses it, the owner earns CommissionPerUse per
// unit (the checkout default applies when unset).
type DesignLibraryItem struct {
	ID               int64            `gorm:"column:id;primaryKey;autoIncrement"`
	OwnerID          int64            `gorm:"column:owner_id;not null;index"`
	Owner            *User            `gorm:"foreignKey:OwnerID"`
	Name             string           `gorm:"column:name;not null"`
	Category         *string          `gorm:"column:category"`
	Keywords         pq.StringArray   `gorm:"column:keywords;type:text[]"`
	ImageURL         *string          `gorm:"column:image_url"`
	CommissionPerUse *decimal.Decimal `gorm:"column:commission_per_use;type:numeric(10,2)"`
	IsActive         bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
