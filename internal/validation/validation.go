package validation

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

var (
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	// CNPJ is accepted either as 14 raw digits or in the fully punctuated
	// canonical form. Partially punctuated input is rejected.
	cnpjDigitsRegex     = regexp.MustCompile(`^\d{14}$`)
	cnpjPunctuatedRegex = regexp.MustCompile(`^\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}$`)
)

// Basic validators

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func Email(field, value string, v Violations) {
	if !emailRegex.MatchString(value) {
		v[field] = "invalid_email"
	}
}

func MinLength(field, value string, minLen int, v Violations) {
	if len(value) < minLen {
		v[field] = "too_short"
	}
}

func PositiveDecimal(field string, val decimal.Decimal, v Violations) {
	if val.Sign() <= 0 {
		v[field] = "must_be_positive"
	}
}

// CNPJ validates the optional company tax id. Empty is fine.
func CNPJ(field, value string, v Violations) {
	if value == "" {
		return
	}
	if !cnpjDigitsRegex.MatchString(value) && !cnpjPunctuatedRegex.MatchString(value) {
		v[field] = "invalid_cnpj"
	}
}
