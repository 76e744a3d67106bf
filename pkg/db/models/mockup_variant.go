package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/NextOxyOfficial/LyriczFashion/pkg/enums"
)

// MockupVariant is one purchasable (apparel type, size, color) combination
// with its own stock and price modifier. Stock is mutated only by the
// inventory reservation inside order placement.
type MockupVariant struct {
	ID            int64             `gorm:"column:id;primaryKey;autoIncrement"`
	MockupTypeID  int64             `gorm:"column:mockup_type_id;not null;uniqueIndex:idx_variant_combo"`
	MockupType    *MockupType       `gorm:"foreignKey:MockupTypeID"`
	Size          enums.ApparelSize `gorm:"column:size;not null;default:'M';uniqueIndex:idx_variant_combo"`
	ColorName     string            `gorm:"column:color_name;not null;uniqueIndex:idx_variant_combo"`
	ColorHex      *string           `gorm:"column:color_hex"`
	FrontImageURL string            `gorm:"column:front_image_url;not null;default:''"`
	BackImageURL  string            `gorm:"column:back_image_url;not null;default:''"`
	PriceModifier decimal.Decimal   `gorm:"column:price_modifier;type:numeric(10,2);not null;default:0"`
	Stock         int               `gorm:"column:stock;not null;default:0"`
	IsActive      bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePrice is the base apparel price plus this variant's modifier.
// Returns zero when the mockup type is not loaded.
func (v MockupVariant) EffectivePrice() decimal.Decimal {
	if v.MockupType == nil {
		return v.PriceModifier
	}
	return v.MockupType.BasePrice.Add(v.PriceModifier)
}
