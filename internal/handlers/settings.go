package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"meinotas/internal/httpx"
	"meinotas/internal/models"
	"meinotas/internal/services"
	"meinotas/internal/validation"
)

type SettingsHandler struct {
	settings *services.SettingService
}

func NewSettingsHandler(settings *services.SettingService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Show: GET /settings.
func (h *SettingsHandler) Show(w http.ResponseWriter, r *http.Request) {
	limit, err := h.settings.MEILimit()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_settings", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"mei_annual_limit": limit})
}

// Update: PUT /settings. Rejects non-positive limits.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MEIAnnualLimit decimal.Decimal `json:"mei_annual_limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	v := validation.Violations{}
	validation.PositiveDecimal("mei_annual_limit", req.MEIAnnualLimit, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
		return
	}

	// Echo the stored two-decimal form so the response matches a later GET.
	stored := req.MEIAnnualLimit.Round(2)
	if err := h.settings.Set(models.SettingKeyMEIAnnualLimit, stored.StringFixed(2)); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_settings", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"mei_annual_limit": stored})
}
