package models

import (
	"time"
)

// Company is a client the user issues invoices against.
type Company struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint `gorm:"index;index:idx_companies_user_name,priority:1;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	Name string `gorm:"size:255;not null;index:idx_companies_user_name,priority:2" json:"name"`
	// CNPJ is optional: either 14 raw digits or the punctuated
	// NN.NNN.NNN/NNNN-NN form, stored exactly as given.
	CNPJ string `gorm:"size:18" json:"cnpj,omitempty"`

	// Deleting a company cascades to its invoices at the storage layer;
	// the handler refuses the delete while invoices exist.
	Invoices []Invoice `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
