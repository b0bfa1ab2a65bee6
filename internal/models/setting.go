package models

import (
	"time"
)

// Setting is a generic key/value configuration row. The only key used today
// is mei_annual_limit.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Key   string `gorm:"uniqueIndex;size:255;not null" json:"key"`
	Value string `gorm:"type:text" json:"value"`
}

// SettingKeyMEIAnnualLimit holds the MEI annual revenue ceiling.
const SettingKeyMEIAnnualLimit = "mei_annual_limit"

// DefaultMEIAnnualLimit is the legally defined MEI ceiling used when no
// setting row exists yet.
const DefaultMEIAnnualLimit = "81000.00"
