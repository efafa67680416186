package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
	// TransactionTypeExcludedExpense is a savings or investment outflow kept
	// out of the expense total on purpose. It counts toward outflow but not
	// toward budget utilization.
	TransactionTypeExcludedExpense TransactionType = "excludedExpense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeExcludedExpense:
		return true
	}
	return false
}

// UncategorizedLabel is stored and displayed for transactions without a category.
const UncategorizedLabel = "Uncategorized"

// MonthlyFinance is the per-(user, month, year) aggregate holding the
// recurring budget and the transaction log. Month is zero based (0 = January).
type MonthlyFinance struct {
	Record
	UserID                string          `gorm:"type:uuid;not null;uniqueIndex:idx_monthly_finance_period" json:"user_id"`
	Month                 int             `gorm:"not null;uniqueIndex:idx_monthly_finance_period" json:"month"`
	Year                  int             `gorm:"not null;uniqueIndex:idx_monthly_finance_period" json:"year"`
	ExpectedMonthlyIncome decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"expected_monthly_income"`

	MonthlyBudget []BudgetItem         `gorm:"foreignKey:MonthlyFinanceID;constraint:OnDelete:CASCADE" json:"monthly_budget"`
	Transactions  []FinanceTransaction `gorm:"foreignKey:MonthlyFinanceID;constraint:OnDelete:CASCADE" json:"transactions"`
}

// BudgetItem is a planned recurring or one-off spend within a monthly budget.
type BudgetItem struct {
	Record
	MonthlyFinanceID string          `gorm:"type:uuid;not null;index" json:"-"`
	Category         string          `gorm:"not null" json:"category"`
	Amount           decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	IsRecurring      bool            `gorm:"not null" json:"is_recurring"`
	Position         int             `gorm:"not null" json:"-"`
}

// FinanceTransaction is one entry in a monthly transaction log.
type FinanceTransaction struct {
	Record
	MonthlyFinanceID string          `gorm:"type:uuid;not null;index" json:"-"`
	Description      string          `gorm:"not null" json:"description"`
	Amount           decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Category         string          `gorm:"not null" json:"category"`
	Type             TransactionType `gorm:"size:24;not null;index" json:"type"`
	Date             time.Time       `gorm:"not null;index" json:"date"`
	Position         int             `gorm:"not null" json:"-"`
}
