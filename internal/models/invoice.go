package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a nota fiscal issued by the user to one of their companies.
// Monetary values are exact decimals; both month fields always hold the
// first day of the month.
type Invoice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint `gorm:"index;uniqueIndex:idx_invoices_user_number,priority:1;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	CompanyID uint    `gorm:"index;not null" json:"company_id"`
	Company   Company `gorm:"foreignKey:CompanyID" json:"-"`

	// Number is unique per user, not globally; the composite unique index is
	// the authority, the handler pre-check is advisory only.
	Number string          `gorm:"size:50;uniqueIndex:idx_invoices_user_number,priority:2;not null" json:"number"`
	Value  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"value"`

	// CompetenceMonth is when the service was rendered, CashMonth when it
	// was paid. Revenue aggregation keys off the competence date.
	CompetenceMonth time.Time `gorm:"type:date;index;not null" json:"competence_month"`
	CashMonth       time.Time `gorm:"type:date;index;not null" json:"cash_month"`

	ServiceDescription string `gorm:"type:text;not null" json:"service_description"`
}

// CompetenceYear returns the calendar year of the competence date.
func (i *Invoice) CompetenceYear() int {
	return i.CompetenceMonth.Year()
}
