package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"meinotas/internal/models"
)

// monthLabels holds the Portuguese month names shown on the dashboard chart.
var monthLabels = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthRevenue is one bucket of the fixed January..December sequence.
type MonthRevenue struct {
	Month   int             `json:"month"`
	Label   string          `json:"month_name"`
	Revenue decimal.Decimal `json:"revenue"`
}

// CompanyRevenue is a company's in-year revenue total.
type CompanyRevenue struct {
	CompanyID uint            `json:"id" gorm:"column:company_id"`
	Name      string          `json:"name"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// RecentInvoice is an invoice row denormalized with its company name.
type RecentInvoice struct {
	ID              uint            `gorm:"column:id"`
	Number          string          `gorm:"column:number"`
	Value           decimal.Decimal `gorm:"column:value"`
	CompanyName     string          `gorm:"column:company_name"`
	CompetenceMonth time.Time       `gorm:"column:competence_month"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
}

// RevenueService computes the dashboard figures for a user and year.
// Revenue is keyed off the competence month; sums are exact decimals.
type RevenueService struct {
	db *gorm.DB
}

func NewRevenueService(db *gorm.DB) *RevenueService {
	return &RevenueService{db: db}
}

// sumRange sums invoice values over a half-open competence interval.
func (s *RevenueService) sumRange(userID uint, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := s.db.Model(&models.Invoice{}).
		Where("user_id = ? AND competence_month >= ? AND competence_month < ?", userID, from, to).
		Select("COALESCE(SUM(value), 0)").
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// TotalRevenueForYear sums the user's invoices whose competence month falls
// within the given calendar year.
func (s *RevenueService) TotalRevenueForYear(userID uint, year int) (decimal.Decimal, error) {
	from, to := models.YearRange(year)
	return s.sumRange(userID, from, to)
}

// RemainingRevenue returns how much of the limit is left (clamped at zero)
// and, separately, the amount exceeded when total went over the limit. The
// excess is never silently folded into the clamp.
func RemainingRevenue(total, limit decimal.Decimal) (remaining, exceeded decimal.Decimal) {
	remaining = limit.Sub(total)
	if remaining.Sign() < 0 {
		return decimal.Zero, total.Sub(limit)
	}
	return remaining, decimal.Zero
}

// MonthlyRevenue returns exactly twelve buckets, January through December.
// Months without invoices report zero rather than being absent.
func (s *RevenueService) MonthlyRevenue(userID uint, year int) ([]MonthRevenue, error) {
	out := make([]MonthRevenue, 0, 12)
	for m := time.January; m <= time.December; m++ {
		from, to := models.MonthRange(year, m)
		sum, err := s.sumRange(userID, from, to)
		if err != nil {
			return nil, err
		}
		out = append(out, MonthRevenue{Month: int(m), Label: monthLabels[m-1], Revenue: sum})
	}
	return out, nil
}

// RevenueByCompany returns per-company totals for the year, ordered by
// company name. Companies with zero in-year revenue are excluded.
func (s *RevenueService) RevenueByCompany(userID uint, year int) ([]CompanyRevenue, error) {
	from, to := models.YearRange(year)
	var rows []CompanyRevenue
	err := s.db.Table("invoices").
		Select("companies.id AS company_id, companies.name AS name, SUM(invoices.value) AS revenue").
		Joins("JOIN companies ON companies.id = invoices.company_id").
		Where("invoices.user_id = ? AND invoices.competence_month >= ? AND invoices.competence_month < ?", userID, from, to).
		Group("companies.id, companies.name").
		Order("companies.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := rows[:0]
	for _, r := range rows {
		if !r.Revenue.IsZero() {
			out = append(out, r)
		}
	}
	return out, nil
}

// RecentInvoices returns the newest invoices by creation time, any year,
// joined with the company name.
func (s *RevenueService) RecentInvoices(userID uint, limit int) ([]RecentInvoice, error) {
	var rows []RecentInvoice
	err := s.db.Table("invoices").
		Select("invoices.id, invoices.number, invoices.value, invoices.competence_month, invoices.created_at, companies.name AS company_name").
		Joins("JOIN companies ON companies.id = invoices.company_id").
		Where("invoices.user_id = ?", userID).
		Order("invoices.created_at DESC, invoices.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
