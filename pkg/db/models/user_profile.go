package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserProfile carries the designer's running balance. The balance is always a
// full recomputation of the user's completed commissions, never an ad hoc
// increment.
type UserProfile struct {
	UserID    int64           `gorm:"column:user_id;primaryKey"`
	Balance   decimal.Decimal `gorm:"column:balance;type:numeric(10,2);not null;default:0"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
