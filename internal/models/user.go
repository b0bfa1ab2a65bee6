package models

import (
	"time"
)

// User represents an authenticated account. All companies and invoices are
// scoped to their owning user.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Email is stored lowercase so uniqueness is case-insensitive.
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // bcrypt hash, never exposed in JSON

	Companies []Company `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Invoices  []Invoice `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
