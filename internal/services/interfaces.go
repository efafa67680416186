package services

import (
	"time"

	"github.com/shopspring/decimal"

	"fincheck/internal/export"
	"fincheck/internal/finance"
	"fincheck/internal/models"
	"fincheck/internal/pagination"
)

// ProfileUpdate holds the optional fields a user may change on their profile.
type ProfileUpdate struct {
	Name              *string
	PreferredCurrency *string
	WeeklySummary     *bool
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	UpdateProfile(userID string, update ProfileUpdate) (*models.User, error)
	FindOrCreateGoogleUser(googleID, email, name string) (*models.User, bool, error)
	SetSubscription(userID string, status models.SubscriptionStatus, expiresAt *time.Time) (*models.User, error)
	ListSummaryRecipients() ([]models.User, error)
}

// CategoryFields holds the optional name and description of a category edit.
type CategoryFields struct {
	Name        *string
	Description *string
}

// CategoryServicer defines the contract for category resolution and edits.
type CategoryServicer interface {
	GetCategoriesForUser(userID string) ([]models.Category, error)
	GetGlobalDefaults() ([]models.Category, error)
	GetUserCustomCategories(userID string) ([]models.Category, error)
	CreateCategory(userID, name, description string) (*models.Category, error)
	UpdateCategory(userID, categoryID string, fields CategoryFields) (*models.Category, error)
	OverrideGlobalDefault(userID, globalID string, fields CategoryFields) (*models.Category, error)
	DeleteCategory(userID, categoryID string) (*models.Category, error)
	RestoreToGlobalDefault(userID, categoryID string) (*models.Category, error)
	SeedGlobalDefaults() (int, error)
	NameIndex(userID string) (finance.NameIndex, error)
}

// BudgetItemInput is one line of a monthly budget replacement.
type BudgetItemInput struct {
	Category    string
	Amount      decimal.Decimal
	IsRecurring *bool
}

// UpsertInput replaces the budget and expected income of a month. Month and
// Year default to the month containing Now.
type UpsertInput struct {
	Month                 *int
	Year                  *int
	MonthlyBudget         []BudgetItemInput
	ExpectedMonthlyIncome decimal.Decimal
	Now                   time.Time
}

// TransactionInput describes a new transaction. Empty Type means expense,
// nil Date means now and empty Category means uncategorized.
type TransactionInput struct {
	Description string
	Amount      decimal.Decimal
	Category    string
	Type        models.TransactionType
	Date        *time.Time
}

// TransactionUpdate holds the fields to change on a transaction; nil fields
// keep their stored value.
type TransactionUpdate struct {
	Description *string
	Amount      *decimal.Decimal
	Category    *string
	Type        *models.TransactionType
	Date        *time.Time
}

// IsEmpty reports whether no field was supplied.
func (u TransactionUpdate) IsEmpty() bool {
	return u.Description == nil && u.Amount == nil && u.Category == nil && u.Type == nil && u.Date == nil
}

// MonthlyFinanceDetail is a monthly finance document with its derived metrics.
type MonthlyFinanceDetail struct {
	models.MonthlyFinance
	finance.Summary
}

// DashboardMetrics are the current month's metrics. HasData is false and all
// amounts are zero when the month has no document yet.
type DashboardMetrics struct {
	Month   int  `json:"month"`
	Year    int  `json:"year"`
	HasData bool `json:"has_data"`
	finance.Summary
}

// FinanceServicer defines the contract for monthly finance documents.
type FinanceServicer interface {
	Upsert(userID string, input UpsertInput) (*MonthlyFinanceDetail, bool, error)
	GetMonthlyFinance(userID string, month, year int) (*MonthlyFinanceDetail, error)
	ListMonthlyFinances(userID string, page pagination.PageRequest) (*pagination.PageResponse[MonthlyFinanceDetail], error)
	DeleteMonthlyFinance(userID string, month, year int) error
	AddTransaction(userID string, month, year int, input TransactionInput) (*models.FinanceTransaction, error)
	UpdateTransaction(userID string, month, year int, transactionID string, update TransactionUpdate) (*models.FinanceTransaction, error)
	DeleteTransaction(userID string, month, year int, transactionID string) error
	DeleteBudgetItem(userID string, month, year int, itemID string) error
	GetDashboardMetrics(userID string, now time.Time) (*DashboardMetrics, error)
	GetRecentTransactions(userID string, limit int) ([]models.FinanceTransaction, error)
	SeedDemoData(userID string, now time.Time) (int, error)
}

// MissingPeriods flags which side of a comparison had no data.
type MissingPeriods struct {
	Current  bool `json:"current"`
	Previous bool `json:"previous"`
}

// PeriodComparison compares the current month or year with the previous one.
// Comparison is nil and Missing set when either period has no document.
type PeriodComparison struct {
	PeriodType     finance.PeriodType                 `json:"period_type"`
	CurrentPeriod  string                             `json:"current_period"`
	PreviousPeriod string                             `json:"previous_period"`
	Comparison     map[string]finance.FieldComparison `json:"comparison"`
	Missing        *MissingPeriods                    `json:"missing,omitempty"`
}

// TrendReport is a bucketed income/expense time series.
type TrendReport struct {
	From        time.Time            `json:"from"`
	To          time.Time            `json:"to"`
	Granularity finance.Granularity  `json:"granularity"`
	Points      []finance.TrendPoint `json:"data"`
}

// CategoryBreakdownReport is the expense total per category over a window.
type CategoryBreakdownReport struct {
	From       time.Time               `json:"from"`
	To         time.Time               `json:"to"`
	TotalSpent decimal.Decimal         `json:"total_spent"`
	Categories []finance.CategoryTotal `json:"categories"`
}

// ReportServicer defines the contract for comparisons, trends and reports.
type ReportServicer interface {
	ComparePeriods(userID string, periodType finance.PeriodType, now time.Time) (*PeriodComparison, error)
	GetMonthlyTrends(userID string, from, to time.Time) (*TrendReport, error)
	GetCategoryBreakdown(userID string, from, to time.Time) (*CategoryBreakdownReport, error)
	GetTopTransactions(userID string, from, to time.Time, txType models.TransactionType, limit int) ([]finance.ReportTransaction, error)
	GetTransactionsReport(userID string, from, to time.Time, categoryID string) ([]finance.ReportTransaction, error)
}

// ExportServicer gathers the data of a downloadable report.
type ExportServicer interface {
	BuildReport(userID string, kind export.Kind, days int, now time.Time) (*export.Report, error)
}

// SummaryServicer computes the weekly email summaries.
type SummaryServicer interface {
	BuildWeeklySummaries(now time.Time) ([]finance.WeeklyReport, error)
	BuildWeeklySummary(user *models.User, now time.Time) (*finance.WeeklyReport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
