package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"meinotas/internal/auth"
	"meinotas/internal/httpx"
	"meinotas/internal/models"
	"meinotas/internal/services"
)

type DashboardHandler struct {
	revenue  *services.RevenueService
	settings *services.SettingService
}

func NewDashboardHandler(revenue *services.RevenueService, settings *services.SettingService) *DashboardHandler {
	return &DashboardHandler{revenue: revenue, settings: settings}
}

const recentInvoiceLimit = 10

type recentInvoiceRow struct {
	ID              uint            `json:"id"`
	Number          string          `json:"number"`
	Value           decimal.Decimal `json:"value"`
	CompanyName     string          `json:"company_name"`
	CompetenceMonth string          `json:"competence_month"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Index: GET / — the dashboard payload. Aggregates the current year unless
// ?year= says otherwise.
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	// First dashboard view seeds the MEI limit if registration didn't.
	if err := h.settings.EnsureDefaults(); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	year := time.Now().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_year", nil)
			return
		}
		year = n
	}

	total, err := h.revenue.TotalRevenueForYear(userID, year)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_dashboard", nil)
		return
	}
	limit, err := h.settings.MEILimit()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_dashboard", nil)
		return
	}
	remaining, exceeded := services.RemainingRevenue(total, limit)

	monthly, err := h.revenue.MonthlyRevenue(userID, year)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_dashboard", nil)
		return
	}
	companies, err := h.revenue.RevenueByCompany(userID, year)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_dashboard", nil)
		return
	}
	recent, err := h.revenue.RecentInvoices(userID, recentInvoiceLimit)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_dashboard", nil)
		return
	}

	recentRows := make([]recentInvoiceRow, 0, len(recent))
	for _, inv := range recent {
		recentRows = append(recentRows, recentInvoiceRow{
			ID:              inv.ID,
			Number:          inv.Number,
			Value:           inv.Value,
			CompanyName:     inv.CompanyName,
			CompetenceMonth: models.FormatYearMonth(inv.CompetenceMonth),
			CreatedAt:       inv.CreatedAt,
		})
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"total_revenue":     total,
		"remaining_revenue": remaining,
		"exceeded_revenue":  exceeded,
		"limit_exceeded":    exceeded.Sign() > 0,
		"mei_limit":         limit,
		"monthly_data":      monthly,
		"company_data":      companies,
		"recent_invoices":   recentRows,
		"current_year":      year,
	})
}
