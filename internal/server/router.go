package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"meinotas/internal/auth"
	"meinotas/internal/handlers"
	"meinotas/internal/httpx"
	"meinotas/internal/models"
	"meinotas/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// Sessions are only honored while the user still exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	settingSvc := services.NewSettingService(db)
	revenueSvc := services.NewRevenueService(db)

	authHandler := handlers.NewAuthHandler(db, settingSvc)
	companyHandler := handlers.NewCompanyHandler(db)
	invoiceHandler := handlers.NewInvoiceHandler(db)
	dashboardHandler := handlers.NewDashboardHandler(revenueSvc, settingSvc)
	settingsHandler := handlers.NewSettingsHandler(settingSvc)

	// Health endpoints
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Authentication lifecycle
	mux.HandleFunc("POST /registrations", authHandler.Register)
	mux.HandleFunc("POST /sessions", authHandler.Login)
	mux.HandleFunc("DELETE /sessions", authHandler.Logout)

	protected := func(h http.HandlerFunc) http.Handler {
		return auth.RequireAuth(h)
	}

	// Dashboard
	mux.Handle("GET /{$}", protected(dashboardHandler.Index))

	// Companies
	mux.Handle("GET /companies", protected(companyHandler.List))
	mux.Handle("POST /companies", protected(companyHandler.Create))
	mux.Handle("GET /companies/{id}", protected(companyHandler.Show))
	mux.Handle("PUT /companies/{id}", protected(companyHandler.Update))
	mux.Handle("DELETE /companies/{id}", protected(companyHandler.Delete))

	// Invoices
	mux.Handle("GET /invoices", protected(invoiceHandler.List))
	mux.Handle("POST /invoices", protected(invoiceHandler.Create))
	mux.Handle("GET /invoices/{id}", protected(invoiceHandler.Show))
	mux.Handle("PUT /invoices/{id}", protected(invoiceHandler.Update))
	mux.Handle("DELETE /invoices/{id}", protected(invoiceHandler.Delete))

	// Settings
	mux.Handle("GET /settings", protected(settingsHandler.Show))
	mux.Handle("PUT /settings", protected(settingsHandler.Update))

	return auth.Middleware(withRecover(withLogging(logger, mux)))
}

func withLogging(logger *zap.Logger, next http.Handler) http.Handler {
	if logger == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
