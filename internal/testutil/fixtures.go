package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fincheck/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:              email,
		Password:           string(hash),
		Name:               "Test User",
		Role:               models.RoleUser,
		SubscriptionStatus: models.SubscriptionFree,
		PreferredCurrency:  "USD",
		WeeklySummary:      true,
		IsActive:           true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestPremiumUser creates a user with an open-ended premium subscription.
func CreateTestPremiumUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := CreateTestUser(t, db)
	if err := db.Model(user).Update("subscription_status", models.SubscriptionPremium).Error; err != nil {
		t.Fatalf("failed to upgrade test user: %v", err)
	}
	user.SubscriptionStatus = models.SubscriptionPremium
	return user
}

// CreateTestGlobalCategory creates an active global default category.
func CreateTestGlobalCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:            name,
		Description:     "Default category: " + name,
		IsGlobalDefault: true,
		IsActive:        true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create global category: %v", err)
	}
	return category
}

// CreateTestCategory creates an active custom category owned by userID.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:     name,
		UserID:   &userID,
		IsActive: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestMonthlyFinance creates a document with a single recurring budget
// item of the given amount and no transactions.
func CreateTestMonthlyFinance(t *testing.T, db *gorm.DB, userID string, month, year int, budget string) *models.MonthlyFinance {
	t.Helper()

	doc := &models.MonthlyFinance{
		UserID:                userID,
		Month:                 month,
		Year:                  year,
		ExpectedMonthlyIncome: decimal.RequireFromString("3000"),
		MonthlyBudget: []models.BudgetItem{
			{Category: "Housing", Amount: decimal.RequireFromString(budget), IsRecurring: true},
		},
	}
	if err := db.Create(doc).Error; err != nil {
		t.Fatalf("failed to create monthly finance: %v", err)
	}
	return doc
}

// CreateTestFinanceTransaction appends a transaction to a document.
func CreateTestFinanceTransaction(t *testing.T, db *gorm.DB, docID string, txType models.TransactionType, amount string, date time.Time) *models.FinanceTransaction {
	t.Helper()

	tx := &models.FinanceTransaction{
		MonthlyFinanceID: docID,
		Description:      fmt.Sprintf("Transaction %d", nextID()),
		Amount:           decimal.RequireFromString(amount),
		Category:         models.UncategorizedLabel,
		Type:             txType,
		Date:             date,
		Position:         int(nextID()),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create finance transaction: %v", err)
	}
	return tx
}
