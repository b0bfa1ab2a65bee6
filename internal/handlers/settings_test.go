package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"meinotas/internal/models"
	"meinotas/internal/services"
)

func TestSettingsShowFallsBackToDefault(t *testing.T) {
	conn := setupTestDB(t)
	user := createUser(t, conn, "user@test", "secret1")
	h := NewSettingsHandler(services.NewSettingService(conn))

	req := authed(httptest.NewRequest(http.MethodGet, "/settings", nil), user.ID)
	rr := httptest.NewRecorder()
	h.Show(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}

	var resp struct {
		MEIAnnualLimit decimal.Decimal `json:"mei_annual_limit"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.MEIAnnualLimit.Equal(decimal.RequireFromString("81000.00")) {
		t.Errorf("limit = %s", resp.MEIAnnualLimit)
	}
}

func TestSettingsUpdatePersists(t *testing.T) {
	conn := setupTestDB(t)
	user := createUser(t, conn, "user@test", "secret1")
	h := NewSettingsHandler(services.NewSettingService(conn))

	req := authed(httptest.NewRequest(http.MethodPut, "/settings", strings.NewReader(`{"mei_annual_limit":"95000"}`)), user.ID)
	rr := httptest.NewRecorder()
	h.Update(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rr.Code, rr.Body.String())
	}

	var setting models.Setting
	if err := conn.Where("key = ?", models.SettingKeyMEIAnnualLimit).First(&setting).Error; err != nil {
		t.Fatalf("setting not persisted: %v", err)
	}
	if setting.Value != "95000.00" {
		t.Errorf("stored value = %q", setting.Value)
	}
}

// The update response carries the stored two-decimal form, identical to what
// the next GET returns.
func TestSettingsUpdateEchoesStoredForm(t *testing.T) {
	conn := setupTestDB(t)
	user := createUser(t, conn, "user@test", "secret1")
	h := NewSettingsHandler(services.NewSettingService(conn))

	req := authed(httptest.NewRequest(http.MethodPut, "/settings", strings.NewReader(`{"mei_annual_limit":"95000"}`)), user.ID)
	rr := httptest.NewRecorder()
	h.Update(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rr.Code, rr.Body.String())
	}

	var updateResp struct {
		MEIAnnualLimit string `json:"mei_annual_limit"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &updateResp); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if updateResp.MEIAnnualLimit != "95000.00" {
		t.Errorf("update echoed %q, want 95000.00", updateResp.MEIAnnualLimit)
	}

	getReq := authed(httptest.NewRequest(http.MethodGet, "/settings", nil), user.ID)
	getRR := httptest.NewRecorder()
	h.Show(getRR, getReq)
	if getRR.Code != http.StatusOK {
		t.Fatalf("show: got %d", getRR.Code)
	}
	if getRR.Body.String() != rr.Body.String() {
		t.Errorf("update body %s differs from get body %s", rr.Body.String(), getRR.Body.String())
	}
}

func TestSettingsUpdateRejectsNonPositive(t *testing.T) {
	conn := setupTestDB(t)
	user := createUser(t, conn, "user@test", "secret1")
	h := NewSettingsHandler(services.NewSettingService(conn))

	for _, body := range []string{`{"mei_annual_limit":"0"}`, `{"mei_annual_limit":"-100"}`} {
		req := authed(httptest.NewRequest(http.MethodPut, "/settings", strings.NewReader(body)), user.ID)
		rr := httptest.NewRecorder()
		h.Update(rr, req)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("body %s: expected 422 got %d", body, rr.Code)
			continue
		}
		details := decodeViolations(t, rr.Body.Bytes())
		if _, ok := details["mei_annual_limit"]; !ok {
			t.Errorf("body %s: details = %v", body, details)
		}
	}
}

// Updating the limit must change what the dashboard computes against.
func TestSettingsUpdateAffectsDashboard(t *testing.T) {
	conn := setupTestDB(t)
	user := createUser(t, conn, "user@test", "secret1")
	company := createCompany(t, conn, user.ID, "Acme", "")
	createInvoice(t, conn, user.ID, company.ID, "NF-1", "50000.00", "2026-01")

	settings := NewSettingsHandler(services.NewSettingService(conn))
	req := authed(httptest.NewRequest(http.MethodPut, "/settings", strings.NewReader(`{"mei_annual_limit":"40000"}`)), user.ID)
	rr := httptest.NewRecorder()
	settings.Update(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}

	payload := getDashboard(t, newDashboardHandler(conn), user.ID, "/?year=2026")
	if !payload.LimitExceeded {
		t.Error("limit_exceeded should be true after lowering the limit")
	}
	if !payload.ExceededRevenue.Equal(decimal.RequireFromString("10000.00")) {
		t.Errorf("exceeded = %s", payload.ExceededRevenue)
	}
}
