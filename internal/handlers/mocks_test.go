package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"fincheck/internal/config"
	"fincheck/internal/export"
	"fincheck/internal/finance"
	"fincheck/internal/mailer"
	"fincheck/internal/middleware"
	"fincheck/internal/models"
	"fincheck/internal/pagination"
	"fincheck/internal/services"
	"fincheck/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	createUserFn             func(email, password, name string) (*models.User, error)
	getUserByEmailFn         func(email string) (*models.User, error)
	getUserByIDFn            func(id string) (*models.User, error)
	verifyPasswordFn         func(user *models.User, password string) bool
	attemptLoginFn           func(email, password string) (*models.User, error)
	storeRefreshTokenHashFn  func(userID, tokenHash string) error
	getRefreshTokenHashFn    func(userID string) (string, error)
	updateProfileFn          func(userID string, update services.ProfileUpdate) (*models.User, error)
	findOrCreateGoogleUserFn func(googleID, email, name string) (*models.User, bool, error)
	setSubscriptionFn        func(userID string, status models.SubscriptionStatus, expiresAt *time.Time) (*models.User, error)
	listSummaryRecipientsFn  func() ([]models.User, error)
}

var _ services.UserServicer = (*mockUserService)(nil)

func (m *mockUserService) CreateUser(email, password, name string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(email, password, name)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(email)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) VerifyPassword(user *models.User, password string) bool {
	if m.verifyPasswordFn != nil {
		return m.verifyPasswordFn(user, password)
	}
	return true
}

func (m *mockUserService) AttemptLogin(email, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) StoreRefreshTokenHash(userID, tokenHash string) error {
	if m.storeRefreshTokenHashFn != nil {
		return m.storeRefreshTokenHashFn(userID, tokenHash)
	}
	return nil
}

func (m *mockUserService) GetRefreshTokenHash(userID string) (string, error) {
	if m.getRefreshTokenHashFn != nil {
		return m.getRefreshTokenHashFn(userID)
	}
	return "", nil
}

func (m *mockUserService) UpdateProfile(userID string, update services.ProfileUpdate) (*models.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(userID, update)
	}
	return &models.User{}, nil
}

func (m *mockUserService) FindOrCreateGoogleUser(googleID, email, name string) (*models.User, bool, error) {
	if m.findOrCreateGoogleUserFn != nil {
		return m.findOrCreateGoogleUserFn(googleID, email, name)
	}
	return &models.User{}, false, nil
}

func (m *mockUserService) SetSubscription(userID string, status models.SubscriptionStatus, expiresAt *time.Time) (*models.User, error) {
	if m.setSubscriptionFn != nil {
		return m.setSubscriptionFn(userID, status, expiresAt)
	}
	return &models.User{}, nil
}

func (m *mockUserService) ListSummaryRecipients() ([]models.User, error) {
	if m.listSummaryRecipientsFn != nil {
		return m.listSummaryRecipientsFn()
	}
	return nil, nil
}

type mockCategoryService struct {
	getCategoriesForUserFn    func(userID string) ([]models.Category, error)
	getGlobalDefaultsFn       func() ([]models.Category, error)
	getUserCustomCategoriesFn func(userID string) ([]models.Category, error)
	createCategoryFn          func(userID, name, description string) (*models.Category, error)
	updateCategoryFn          func(userID, categoryID string, fields services.CategoryFields) (*models.Category, error)
	overrideGlobalDefaultFn   func(userID, globalID string, fields services.CategoryFields) (*models.Category, error)
	deleteCategoryFn          func(userID, categoryID string) (*models.Category, error)
	restoreToGlobalDefaultFn  func(userID, categoryID string) (*models.Category, error)
	seedGlobalDefaultsFn      func() (int, error)
	nameIndexFn               func(userID string) (finance.NameIndex, error)
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func (m *mockCategoryService) GetCategoriesForUser(userID string) ([]models.Category, error) {
	if m.getCategoriesForUserFn != nil {
		return m.getCategoriesForUserFn(userID)
	}
	return nil, nil
}

func (m *mockCategoryService) GetGlobalDefaults() ([]models.Category, error) {
	if m.getGlobalDefaultsFn != nil {
		return m.getGlobalDefaultsFn()
	}
	return nil, nil
}

func (m *mockCategoryService) GetUserCustomCategories(userID string) ([]models.Category, error) {
	if m.getUserCustomCategoriesFn != nil {
		return m.getUserCustomCategoriesFn(userID)
	}
	return nil, nil
}

func (m *mockCategoryService) CreateCategory(userID, name, description string) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(userID, name, description)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) UpdateCategory(userID, categoryID string, fields services.CategoryFields) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(userID, categoryID, fields)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) OverrideGlobalDefault(userID, globalID string, fields services.CategoryFields) (*models.Category, error) {
	if m.overrideGlobalDefaultFn != nil {
		return m.overrideGlobalDefaultFn(userID, globalID, fields)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) DeleteCategory(userID, categoryID string) (*models.Category, error) {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(userID, categoryID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) RestoreToGlobalDefault(userID, categoryID string) (*models.Category, error) {
	if m.restoreToGlobalDefaultFn != nil {
		return m.restoreToGlobalDefaultFn(userID, categoryID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) SeedGlobalDefaults() (int, error) {
	if m.seedGlobalDefaultsFn != nil {
		return m.seedGlobalDefaultsFn()
	}
	return 0, nil
}

func (m *mockCategoryService) NameIndex(userID string) (finance.NameIndex, error) {
	if m.nameIndexFn != nil {
		return m.nameIndexFn(userID)
	}
	return finance.NameIndex{}, nil
}

type mockFinanceService struct {
	upsertFn                func(userID string, input services.UpsertInput) (*services.MonthlyFinanceDetail, bool, error)
	getMonthlyFinanceFn     func(userID string, month, year int) (*services.MonthlyFinanceDetail, error)
	listMonthlyFinancesFn   func(userID string, page pagination.PageRequest) (*pagination.PageResponse[services.MonthlyFinanceDetail], error)
	deleteMonthlyFinanceFn  func(userID string, month, year int) error
	addTransactionFn        func(userID string, month, year int, input services.TransactionInput) (*models.FinanceTransaction, error)
	updateTransactionFn     func(userID string, month, year int, transactionID string, update services.TransactionUpdate) (*models.FinanceTransaction, error)
	deleteTransactionFn     func(userID string, month, year int, transactionID string) error
	deleteBudgetItemFn      func(userID string, month, year int, itemID string) error
	getDashboardMetricsFn   func(userID string, now time.Time) (*services.DashboardMetrics, error)
	getRecentTransactionsFn func(userID string, limit int) ([]models.FinanceTransaction, error)
	seedDemoDataFn          func(userID string, now time.Time) (int, error)
}

var _ services.FinanceServicer = (*mockFinanceService)(nil)

func (m *mockFinanceService) Upsert(userID string, input services.UpsertInput) (*services.MonthlyFinanceDetail, bool, error) {
	if m.upsertFn != nil {
		return m.upsertFn(userID, input)
	}
	return &services.MonthlyFinanceDetail{}, true, nil
}

func (m *mockFinanceService) GetMonthlyFinance(userID string, month, year int) (*services.MonthlyFinanceDetail, error) {
	if m.getMonthlyFinanceFn != nil {
		return m.getMonthlyFinanceFn(userID, month, year)
	}
	return &services.MonthlyFinanceDetail{}, nil
}

func (m *mockFinanceService) ListMonthlyFinances(userID string, page pagination.PageRequest) (*pagination.PageResponse[services.MonthlyFinanceDetail], error) {
	if m.listMonthlyFinancesFn != nil {
		return m.listMonthlyFinancesFn(userID, page)
	}
	resp := pagination.NewPageResponse[services.MonthlyFinanceDetail](nil, page, 0)
	return &resp, nil
}

func (m *mockFinanceService) DeleteMonthlyFinance(userID string, month, year int) error {
	if m.deleteMonthlyFinanceFn != nil {
		return m.deleteMonthlyFinanceFn(userID, month, year)
	}
	return nil
}

func (m *mockFinanceService) AddTransaction(userID string, month, year int, input services.TransactionInput) (*models.FinanceTransaction, error) {
	if m.addTransactionFn != nil {
		return m.addTransactionFn(userID, month, year, input)
	}
	return &models.FinanceTransaction{}, nil
}

func (m *mockFinanceService) UpdateTransaction(userID string, month, year int, transactionID string, update services.TransactionUpdate) (*models.FinanceTransaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(userID, month, year, transactionID, update)
	}
	return &models.FinanceTransaction{}, nil
}

func (m *mockFinanceService) DeleteTransaction(userID string, month, year int, transactionID string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, month, year, transactionID)
	}
	return nil
}

func (m *mockFinanceService) DeleteBudgetItem(userID string, month, year int, itemID string) error {
	if m.deleteBudgetItemFn != nil {
		return m.deleteBudgetItemFn(userID, month, year, itemID)
	}
	return nil
}

func (m *mockFinanceService) GetDashboardMetrics(userID string, now time.Time) (*services.DashboardMetrics, error) {
	if m.getDashboardMetricsFn != nil {
		return m.getDashboardMetricsFn(userID, now)
	}
	return &services.DashboardMetrics{}, nil
}

func (m *mockFinanceService) GetRecentTransactions(userID string, limit int) ([]models.FinanceTransaction, error) {
	if m.getRecentTransactionsFn != nil {
		return m.getRecentTransactionsFn(userID, limit)
	}
	return nil, nil
}

func (m *mockFinanceService) SeedDemoData(userID string, now time.Time) (int, error) {
	if m.seedDemoDataFn != nil {
		return m.seedDemoDataFn(userID, now)
	}
	return 12, nil
}

type mockReportService struct {
	comparePeriodsFn        func(userID string, periodType finance.PeriodType, now time.Time) (*services.PeriodComparison, error)
	getMonthlyTrendsFn      func(userID string, from, to time.Time) (*services.TrendReport, error)
	getCategoryBreakdownFn  func(userID string, from, to time.Time) (*services.CategoryBreakdownReport, error)
	getTopTransactionsFn    func(userID string, from, to time.Time, txType models.TransactionType, limit int) ([]finance.ReportTransaction, error)
	getTransactionsReportFn func(userID string, from, to time.Time, categoryID string) ([]finance.ReportTransaction, error)
}

var _ services.ReportServicer = (*mockReportService)(nil)

func (m *mockReportService) ComparePeriods(userID string, periodType finance.PeriodType, now time.Time) (*services.PeriodComparison, error) {
	if m.comparePeriodsFn != nil {
		return m.comparePeriodsFn(userID, periodType, now)
	}
	return &services.PeriodComparison{}, nil
}

func (m *mockReportService) GetMonthlyTrends(userID string, from, to time.Time) (*services.TrendReport, error) {
	if m.getMonthlyTrendsFn != nil {
		return m.getMonthlyTrendsFn(userID, from, to)
	}
	return &services.TrendReport{}, nil
}

func (m *mockReportService) GetCategoryBreakdown(userID string, from, to time.Time) (*services.CategoryBreakdownReport, error) {
	if m.getCategoryBreakdownFn != nil {
		return m.getCategoryBreakdownFn(userID, from, to)
	}
	return &services.CategoryBreakdownReport{}, nil
}

func (m *mockReportService) GetTopTransactions(userID string, from, to time.Time, txType models.TransactionType, limit int) ([]finance.ReportTransaction, error) {
	if m.getTopTransactionsFn != nil {
		return m.getTopTransactionsFn(userID, from, to, txType, limit)
	}
	return nil, nil
}

func (m *mockReportService) GetTransactionsReport(userID string, from, to time.Time, categoryID string) ([]finance.ReportTransaction, error) {
	if m.getTransactionsReportFn != nil {
		return m.getTransactionsReportFn(userID, from, to, categoryID)
	}
	return nil, nil
}

type mockExportService struct {
	buildReportFn func(userID string, kind export.Kind, days int, now time.Time) (*export.Report, error)
}

var _ services.ExportServicer = (*mockExportService)(nil)

func (m *mockExportService) BuildReport(userID string, kind export.Kind, days int, now time.Time) (*export.Report, error) {
	if m.buildReportFn != nil {
		return m.buildReportFn(userID, kind, days, now)
	}
	return &export.Report{Kind: kind, Days: days}, nil
}

type auditEntry struct {
	userID, action, resourceType, resourceID string
	changes                                  map[string]interface{}
}

type mockAuditService struct {
	mu      sync.Mutex
	entries []auditEntry
}

var _ services.AuditServicer = (*mockAuditService)(nil)

func (m *mockAuditService) Log(userID, action, resourceType, resourceID, _ string, changes map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, auditEntry{userID, action, resourceType, resourceID, changes})
}

func (m *mockAuditService) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.action)
	}
	return out
}

type mockMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

var _ mailer.Mailer = (*mockMailer)(nil)

func (m *mockMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

// --- test helpers ---

const testUserID = "0190a0a0-0000-7000-8000-000000000001"

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
	config.Get().JWTSecret = "handler-test-secret"
}

func testConfig() *config.Config {
	return &config.Config{AppBaseURL: "https://app.fincheck.test"}
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func testUser() *models.User {
	u := &models.User{
		Email:              "jane@example.com",
		Name:               "Jane",
		Role:               models.RoleUser,
		SubscriptionStatus: models.SubscriptionFree,
		PreferredCurrency:  "USD",
		WeeklySummary:      true,
		IsActive:           true,
	}
	u.ID = testUserID
	return u
}
