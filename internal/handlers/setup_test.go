package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"meinotas/internal/auth"
	"meinotas/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Company{}, &models.Invoice{}, &models.Setting{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func createUser(t *testing.T, conn *gorm.DB, email, password string) models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := models.User{Email: email, Password: string(hashed)}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	return user
}

func createCompany(t *testing.T, conn *gorm.DB, userID uint, name, cnpj string) models.Company {
	t.Helper()
	company := models.Company{UserID: userID, Name: name, CNPJ: cnpj}
	if err := conn.Create(&company).Error; err != nil {
		t.Fatalf("company: %v", err)
	}
	return company
}

func createInvoice(t *testing.T, conn *gorm.DB, userID, companyID uint, number, value, yearMonth string) models.Invoice {
	t.Helper()
	competence, err := models.ParseYearMonth(yearMonth)
	if err != nil {
		t.Fatalf("parse month: %v", err)
	}
	inv := models.Invoice{
		UserID:             userID,
		CompanyID:          companyID,
		Number:             number,
		Value:              decimal.RequireFromString(value),
		CompetenceMonth:    competence,
		CashMonth:          competence,
		ServiceDescription: "serviço de teste",
	}
	if err := conn.Create(&inv).Error; err != nil {
		t.Fatalf("invoice: %v", err)
	}
	return inv
}

// authed attaches the user id to the request context the way the auth
// middleware would.
func authed(r *http.Request, userID uint) *http.Request {
	return r.WithContext(auth.WithUserID(r.Context(), userID))
}
