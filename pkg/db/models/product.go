package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/NextOxyOfficial/LyriczFashion/pkg/enums"
)

// Product is a sellable item: a published design listing with its own stock,
// or a buyer-configured custom garment that derives cost and stock from its
// chosen mockup variant.
type Product struct {
	ID              int64             `gorm:"column:id;primaryKey;autoIncrement"`
	StoreID         *int64            `gorm:"column:store_id"`
	Store           *Store            `gorm:"foreignKey:StoreID"`
	CreatedByID     *int64            `gorm:"column:created_by_id"`
	CategoryID      *int64            `gorm:"column:category_id"`
	Name            string            `gorm:"column:name;not null"`
	Description     *string           `gorm:"column:description"`
	Kind            enums.ProductKind `gorm:"column:kind;not null;default:'design'"`
	BuyPrice        decimal.Decimal   `gorm:"column:buy_price;type:numeric(10,2);not null;default:0"`
	Price           decimal.Decimal   `gorm:"column:price;type:numeric(10,2);not null"`
	DiscountPrice   *decimal.Decimal  `gorm:"column:discount_price;type:numeric(10,2)"`
	Stock           int               `gorm:"column:stock;not null;default:0"`
	ImageURL        *string           `gorm:"column:image_url"`
	MockupVariantID *int64            `gorm:"column:mockup_variant_id"`
	MockupVariant   *MockupVariant    `gorm:"foreignKey:MockupVariantID"`
	DesignData      datatypes.JSON    `gorm:"column:design_data"`
	IsPublished     bool              `gorm:"column:is_published;not null;default:false"`
	IsActive        bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePrice is the discount price when set and positive, else the list
// price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil && p.DiscountPrice.IsPositive() {
		return *p.DiscountPrice
	}
	return p.Price
}
