package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"meinotas/internal/auth"
	"meinotas/internal/httpx"
	"meinotas/internal/models"
	"meinotas/internal/services"
	"meinotas/internal/validation"
)

type AuthHandler struct {
	db       *gorm.DB
	settings *services.SettingService
}

func NewAuthHandler(db *gorm.DB, settings *services.SettingService) *AuthHandler {
	return &AuthHandler{db: db, settings: settings}
}

// Register handles POST /registrations.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email                string `json:"email"`
		Password             string `json:"password"`
		PasswordConfirmation string `json:"password_confirmation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	v := validation.Violations{}
	validation.Required("email", req.Email, v)
	if _, ok := v["email"]; !ok {
		validation.Email("email", req.Email, v)
	}
	validation.MinLength("password", req.Password, 6, v)
	if req.PasswordConfirmation != "" && req.PasswordConfirmation != req.Password {
		v["password_confirmation"] = "does_not_match"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	user := models.User{Email: req.Email, Password: string(hashed)}
	if err := h.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", validation.Violations{"email": "taken"})
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_user", nil)
		return
	}

	// First successful registration seeds the MEI limit; a concurrent
	// initialization is not an error.
	if err := h.settings.EnsureDefaults(); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": user.ID, "email": user.Email})
}

// Login handles POST /sessions.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Same generic response for unknown email and wrong password.
	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}

	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusOK, map[string]any{"id": user.ID, "email": user.Email})
}

// Logout handles DELETE /sessions.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	w.WriteHeader(http.StatusNoContent)
}
