package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin  = "ADMIN"
	RoleWaiter = "WAITER"
)

// User represents a user in the system (admin or waiter)
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	// Password is only populated on create/update requests; the gateway
	// never returns it
	Password string `gorm:"not null" json:"password,omitempty"`
	Role     string `gorm:"not null;default:'WAITER'" json:"role"` // "ADMIN" or "WAITER"

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
