package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"meinotas/internal/auth"
	"meinotas/internal/httpx"
	"meinotas/internal/models"
	"meinotas/internal/validation"
)

type CompanyHandler struct {
	db *gorm.DB
}

func NewCompanyHandler(db *gorm.DB) *CompanyHandler {
	return &CompanyHandler{db: db}
}

type companyRow struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	CNPJ          string    `json:"cnpj"`
	InvoicesCount int64     `json:"invoices_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// List: GET /companies, ordered by name, with invoice counts.
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var companies []models.Company
	if err := h.db.Where("user_id = ?", userID).Order("name").Find(&companies).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_companies", nil)
		return
	}

	counts := map[uint]int64{}
	var countRows []struct {
		CompanyID uint
		N         int64
	}
	if err := h.db.Model(&models.Invoice{}).
		Select("company_id, COUNT(*) AS n").
		Where("user_id = ?", userID).
		Group("company_id").
		Scan(&countRows).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_companies", nil)
		return
	}
	for _, c := range countRows {
		counts[c.CompanyID] = c.N
	}

	rows := make([]companyRow, 0, len(companies))
	for _, c := range companies {
		rows = append(rows, companyRow{ID: c.ID, Name: c.Name, CNPJ: c.CNPJ, InvoicesCount: counts[c.ID], CreatedAt: c.CreatedAt})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"companies": rows})
}

// Show: GET /companies/{id}.
func (h *CompanyHandler) Show(w http.ResponseWriter, r *http.Request) {
	company, ok := h.find(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"company": company})
}

// Create: POST /companies.
func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	req, ok := decodeCompany(w, r)
	if !ok {
		return
	}
	if v := validateCompany(req); !v.Empty() {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
		return
	}
	company := models.Company{UserID: userID, Name: req.Name, CNPJ: req.CNPJ}
	if err := h.db.Create(&company).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_company", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"company": company})
}

// Update: PUT /companies/{id}.
func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	company, ok := h.find(w, r)
	if !ok {
		return
	}
	req, ok := decodeCompany(w, r)
	if !ok {
		return
	}
	if v := validateCompany(req); !v.Empty() {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
		return
	}
	company.Name = req.Name
	company.CNPJ = req.CNPJ
	if err := h.db.Save(company).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_company", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"company": company})
}

// Delete: DELETE /companies/{id}. Refused while the company still has
// invoices; the cascade only covers account deletion, not user intent.
func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	company, ok := h.find(w, r)
	if !ok {
		return
	}
	var invoiceCount int64
	if err := h.db.Model(&models.Invoice{}).Where("company_id = ?", company.ID).Count(&invoiceCount).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_company", nil)
		return
	}
	if invoiceCount > 0 {
		httpx.JSONError(w, http.StatusConflict, "company_has_invoices", nil)
		return
	}
	if err := h.db.Delete(company).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_company", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// find loads the company scoped to the current user. A company owned by
// someone else is indistinguishable from a missing one.
func (h *CompanyHandler) find(w http.ResponseWriter, r *http.Request) (*models.Company, bool) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		httpx.NotFound(w)
		return nil, false
	}
	var company models.Company
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.NotFound(w)
		} else {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_company", nil)
		}
		return nil, false
	}
	return &company, true
}

type companyReq struct {
	Name string `json:"name"`
	CNPJ string `json:"cnpj"`
}

func decodeCompany(w http.ResponseWriter, r *http.Request) (companyReq, bool) {
	var req companyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return req, false
	}
	req.Name = strings.TrimSpace(req.Name)
	req.CNPJ = strings.TrimSpace(req.CNPJ)
	return req, true
}

func validateCompany(req companyReq) validation.Violations {
	v := validation.Violations{}
	validation.Required("name", req.Name, v)
	validation.CNPJ("cnpj", req.CNPJ, v)
	return v
}
