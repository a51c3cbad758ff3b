package model

import (
	"time"

	"gorm.io/gorm"
)

// Role is the access level of a profile. New profiles default to RoleUser;
// promotion happens only through the admin console or the bootstrap account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Profile is the account record for an authenticated identity.
type Profile struct {
	UID          string         `json:"uid" gorm:"type:varchar(36);primaryKey"`
	Email        string         `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	FullName     string         `json:"full_name" gorm:"type:varchar(100)"`
	Phone        string         `json:"phone" gorm:"type:varchar(20)"`
	Role         Role           `json:"role" gorm:"type:varchar(10);default:user"`
	PasswordHash string         `json:"-" gorm:"type:varchar(255)"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}
