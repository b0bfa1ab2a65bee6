package services

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"meinotas/internal/models"
)

var numericValueRegex = regexp.MustCompile(`^\d+(\.\d*)?$`)

// DefaultMEILimit is the parsed form of the legal MEI ceiling.
var DefaultMEILimit = decimal.RequireFromString(models.DefaultMEIAnnualLimit)

// SettingService is a generic persisted key/value store with typed reads.
type SettingService struct {
	db *gorm.DB
}

func NewSettingService(db *gorm.DB) *SettingService {
	return &SettingService{db: db}
}

// Get returns the stored value for key, or def when no row exists. A miss
// never persists the default.
func (s *SettingService) Get(key, def string) (string, error) {
	var setting models.Setting
	err := s.db.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return setting.Value, nil
}

// GetDecimal returns the value parsed as an exact decimal. Values that do not
// look numeric (digits with optional fraction) fall back to def.
func (s *SettingService) GetDecimal(key string, def decimal.Decimal) (decimal.Decimal, error) {
	raw, err := s.Get(key, "")
	if err != nil {
		return def, err
	}
	if !numericValueRegex.MatchString(raw) {
		return def, nil
	}
	// The pattern allows a bare trailing dot ("95000."); the parser does not.
	d, perr := decimal.NewFromString(strings.TrimSuffix(raw, "."))
	if perr != nil {
		return def, nil
	}
	return d, nil
}

// Set creates or overwrites the row for key. The unique index on key is the
// authority under concurrency: a duplicate-key insert means another request
// created the row first, so we retry as an update.
func (s *SettingService) Set(key, value string) error {
	var setting models.Setting
	err := s.db.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		createErr := s.db.Create(&models.Setting{Key: key, Value: value}).Error
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return s.db.Model(&models.Setting{}).Where("key = ?", key).Update("value", value).Error
		}
		return createErr
	}
	if err != nil {
		return err
	}
	setting.Value = value
	return s.db.Save(&setting).Error
}

// MEILimit returns the configured annual ceiling, defaulting to the legal
// constant when unset.
func (s *SettingService) MEILimit() (decimal.Decimal, error) {
	return s.GetDecimal(models.SettingKeyMEIAnnualLimit, DefaultMEILimit)
}

// EnsureDefaults seeds mei_annual_limit on first use. A duplicate-key error
// means a concurrent request already initialized it, which is fine.
func (s *SettingService) EnsureDefaults() error {
	var count int64
	if err := s.db.Model(&models.Setting{}).Where("key = ?", models.SettingKeyMEIAnnualLimit).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	err := s.db.Create(&models.Setting{Key: models.SettingKeyMEIAnnualLimit, Value: models.DefaultMEIAnnualLimit}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}
