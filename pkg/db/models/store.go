package models

import "time"

// Store is a seller's storefront. Sellers list design products under their
// store; the seller order rollup filters by store ownership.
type Store struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	OwnerID     int64     `gorm:"column:owner_id;not null;uniqueIndex"`
	Name        string    `gorm:"column:name;not null"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex"`
	Description *string   `gorm:"column:description"`
	LogoURL     *string   `gorm:"column:logo_url"`
	BannerURL   *string   `gorm:"column:banner_url"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
