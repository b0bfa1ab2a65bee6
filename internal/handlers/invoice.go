package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"meinotas/internal/auth"
	"meinotas/internal/httpx"
	"meinotas/internal/models"
	"meinotas/internal/validation"
)

type InvoiceHandler struct {
	db *gorm.DB
}

func NewInvoiceHandler(db *gorm.DB) *InvoiceHandler {
	return &InvoiceHandler{db: db}
}

type invoiceRow struct {
	ID                 uint            `json:"id"`
	Number             string          `json:"number"`
	Value              decimal.Decimal `json:"value"`
	CompanyID          uint            `json:"company_id"`
	CompanyName        string          `json:"company_name"`
	CompetenceMonth    string          `json:"competence_month"`
	CashMonth          string          `json:"cash_month"`
	ServiceDescription string          `json:"service_description"`
	CreatedAt          time.Time       `json:"created_at"`
}

func toInvoiceRow(inv models.Invoice, companyName string) invoiceRow {
	return invoiceRow{
		ID:                 inv.ID,
		Number:             inv.Number,
		Value:              inv.Value,
		CompanyID:          inv.CompanyID,
		CompanyName:        companyName,
		CompetenceMonth:    models.FormatYearMonth(inv.CompetenceMonth),
		CashMonth:          models.FormatYearMonth(inv.CashMonth),
		ServiceDescription: inv.ServiceDescription,
		CreatedAt:          inv.CreatedAt,
	}
}

// List: GET /invoices, newest first, denormalized with company names.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var invoices []models.Invoice
	if err := h.db.Preload("Company").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&invoices).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_invoices", nil)
		return
	}

	rows := make([]invoiceRow, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, toInvoiceRow(inv, inv.Company.Name))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"invoices": rows})
}

// Show: GET /invoices/{id}.
func (h *InvoiceHandler) Show(w http.ResponseWriter, r *http.Request) {
	invoice, ok := h.find(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"invoice": toInvoiceRow(*invoice, invoice.Company.Name)})
}

// Create: POST /invoices.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	req, ok := decodeInvoice(w, r)
	if !ok {
		return
	}

	v, competence, cash := h.validateInvoice(userID, req, 0)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
		return
	}

	invoice := models.Invoice{
		UserID:             userID,
		CompanyID:          req.CompanyID,
		Number:             req.Number,
		Value:              req.Value,
		CompetenceMonth:    competence,
		CashMonth:          cash,
		ServiceDescription: req.ServiceDescription,
	}
	if err := h.db.Create(&invoice).Error; err != nil {
		// The unique index on (user_id, number) is the authority; the
		// pre-check above only races faster.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", validation.Violations{"number": "taken"})
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_invoice", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"invoice": toInvoiceRow(invoice, h.companyName(invoice.CompanyID))})
}

// Update: PUT /invoices/{id}.
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	invoice, ok := h.find(w, r)
	if !ok {
		return
	}
	req, ok := decodeInvoice(w, r)
	if !ok {
		return
	}

	v, competence, cash := h.validateInvoice(userID, req, invoice.ID)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
		return
	}

	invoice.CompanyID = req.CompanyID
	invoice.Number = req.Number
	invoice.Value = req.Value
	invoice.CompetenceMonth = competence
	invoice.CashMonth = cash
	invoice.ServiceDescription = req.ServiceDescription
	// Omit the preloaded association or gorm resets CompanyID back to the
	// old company's id when saving.
	if err := h.db.Omit("Company").Save(invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", validation.Violations{"number": "taken"})
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_invoice", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"invoice": toInvoiceRow(*invoice, h.companyName(invoice.CompanyID))})
}

// Delete: DELETE /invoices/{id}.
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	invoice, ok := h.find(w, r)
	if !ok {
		return
	}
	if err := h.db.Delete(invoice).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_invoice", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// find loads the invoice scoped to the current user, company preloaded.
func (h *InvoiceHandler) find(w http.ResponseWriter, r *http.Request) (*models.Invoice, bool) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		httpx.NotFound(w)
		return nil, false
	}
	var invoice models.Invoice
	if err := h.db.Preload("Company").Where("id = ? AND user_id = ?", id, userID).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.NotFound(w)
		} else {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_invoice", nil)
		}
		return nil, false
	}
	return &invoice, true
}

func (h *InvoiceHandler) companyName(companyID uint) string {
	var company models.Company
	if err := h.db.Select("name").First(&company, companyID).Error; err != nil {
		return ""
	}
	return company.Name
}

type invoiceReq struct {
	Number             string          `json:"number"`
	Value              decimal.Decimal `json:"value"`
	CompanyID          uint            `json:"company_id"`
	CompetenceMonth    string          `json:"competence_month"`
	CashMonth          string          `json:"cash_month"`
	ServiceDescription string          `json:"service_description"`
}

func decodeInvoice(w http.ResponseWriter, r *http.Request) (invoiceReq, bool) {
	var req invoiceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return req, false
	}
	req.Number = strings.TrimSpace(req.Number)
	req.ServiceDescription = strings.TrimSpace(req.ServiceDescription)
	return req, true
}

// validateInvoice checks all fields and resolves the month strings. excludeID
// skips the invoice itself in the number uniqueness pre-check on update.
func (h *InvoiceHandler) validateInvoice(userID uint, req invoiceReq, excludeID uint) (validation.Violations, time.Time, time.Time) {
	v := validation.Violations{}
	validation.Required("number", req.Number, v)
	validation.PositiveDecimal("value", req.Value, v)
	validation.Required("service_description", req.ServiceDescription, v)

	competence, err := models.ParseYearMonth(req.CompetenceMonth)
	if err != nil {
		v["competence_month"] = "invalid_month"
	}
	cash, err := models.ParseYearMonth(req.CashMonth)
	if err != nil {
		v["cash_month"] = "invalid_month"
	}

	// The company must belong to the caller; a foreign company looks the
	// same as a nonexistent one.
	if req.CompanyID == 0 {
		v["company_id"] = "required"
	} else {
		var count int64
		if err := h.db.Model(&models.Company{}).Where("id = ? AND user_id = ?", req.CompanyID, userID).Count(&count).Error; err != nil || count == 0 {
			v["company_id"] = "not_found"
		}
	}

	// Advisory pre-check; the composite unique index has the final word.
	if _, taken := v["number"]; !taken && req.Number != "" {
		q := h.db.Model(&models.Invoice{}).Where("user_id = ? AND number = ?", userID, req.Number)
		if excludeID != 0 {
			q = q.Where("id <> ?", excludeID)
		}
		var count int64
		if err := q.Count(&count).Error; err == nil && count > 0 {
			v["number"] = "taken"
		}
	}

	return v, competence, cash
}
