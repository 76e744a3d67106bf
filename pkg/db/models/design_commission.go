package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/NextOxyOfficial/LyriczFashion/pkg/enums"
)

// DesignCommission is one payable unit owed to a design's owner for one use
// of the design in an order line. At most one row exists per
// (design, order item) pair, enforced by idx_commission_design_order_item.
type DesignCommission struct {
	ID          int64                  `gorm:"column:id;primaryKey;autoIncrement"`
	DesignID    int64                  `gorm:"column:design_id;not null;uniqueIndex:idx_commission_design_order_item"`
	Design      *DesignLibraryItem     `gorm:"foreignKey:DesignID"`
	OwnerID     int64                  `gorm:"column:owner_id;not null;index"`
	UsedByID    *int64                 `gorm:"column:used_by_id"`
	OrderID     int64                  `gorm:"column:order_id;not null;index"`
	OrderItemID int64                  `gorm:"column:order_item_id;not null;uniqueIndex:idx_commission_design_order_item"`
	Quantity    int                    `gorm:"column:quantity;not null;default:1"`
	Amount      decimal.Decimal        `gorm:"column:amount;type:numeric(10,2);not null"`
	Status      enums.CommissionStatus `gorm:"column:status;not null;default:'pending'"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
