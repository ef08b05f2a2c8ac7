package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents a dashboard user role
type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleViewer UserRole = "viewer"
)

// User represents a dashboard account, mirrored from the auth backend
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	Email        string     `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Role         UserRole   `json:"role" gorm:"type:varchar(20);not null;default:'viewer'"`
	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}
