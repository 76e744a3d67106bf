package models

import "time"

// User represents the canonical identity entity. Credential issuance lives in
// the auth service; this backend only consumes the identity.
type User struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Username     string     `gorm:"column:username;not null;uniqueIndex"`
	Email        string     `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null;default:''"`
	FirstName    string     `gorm:"column:first_name;not null;default:''"`
	LastName     string     `gorm:"column:last_name;not null;default:''"`
	IsStaff      bool       `gorm:"column:is_staff;not null;default:false"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
