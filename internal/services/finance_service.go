package services

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "fincheck/internal/errors"
	"fincheck/internal/finance"
	"fincheck/internal/models"
	"fincheck/internal/pagination"
)

const defaultRecentTransactions = 5

// financeService handles monthly finance documents and their line items.
type financeService struct {
	db *gorm.DB
}

// NewFinanceService creates a new FinanceServicer.
func NewFinanceService(db *gorm.DB) FinanceServicer {
	return &financeService{db: db}
}

func validatePeriod(month, year int) error {
	if month < 0 || month > 11 {
		return apperrors.WithMessage(apperrors.ErrInvalidPeriod, "month must be between 0 and 11")
	}
	if year < 1 {
		return apperrors.WithMessage(apperrors.ErrInvalidPeriod, "year must be a positive number")
	}
	return nil
}

// withLineItems preloads the budget and transaction lists in stored order.
func withLineItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("MonthlyBudget", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Transactions", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

func newDetail(doc *models.MonthlyFinance) *MonthlyFinanceDetail {
	return &MonthlyFinanceDetail{MonthlyFinance: *doc, Summary: finance.Summarize(doc)}
}

// findDocument loads the header row of a monthly finance document.
func (s *financeService) findDocument(db *gorm.DB, userID string, month, year int) (*models.MonthlyFinance, error) {
	var doc models.MonthlyFinance
	if err := db.Where("user_id = ? AND month = ? AND year = ?", userID, month, year).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFinanceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &doc, nil
}

func buildBudgetItems(inputs []BudgetItemInput) ([]models.BudgetItem, error) {
	if len(inputs) == 0 {
		return nil, apperrors.ErrEmptyBudget
	}

	items := make([]models.BudgetItem, 0, len(inputs))
	for i, in := range inputs {
		category := strings.TrimSpace(in.Category)
		if category == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("budget item %d: category is required", i+1))
		}
		if in.Amount.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("budget item %d: amount cannot be negative", i+1))
		}
		recurring := true
		if in.IsRecurring != nil {
			recurring = *in.IsRecurring
		}
		items = append(items, models.BudgetItem{
			Category:    category,
			Amount:      in.Amount,
			IsRecurring: recurring,
			Position:    i,
		})
	}
	return items, nil
}

// Upsert creates the month's document or replaces its budget and expected
// income. The boolean result reports whether the document was created.
func (s *financeService) Upsert(userID string, input UpsertInput) (*MonthlyFinanceDetail, bool, error) {
	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}
	month, year := int(now.Month())-1, now.Year()
	if input.Month != nil {
		month = *input.Month
	}
	if input.Year != nil {
		year = *input.Year
	}
	if err := validatePeriod(month, year); err != nil {
		return nil, false, err
	}
	if input.ExpectedMonthlyIncome.IsNegative() {
		return nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "expected monthly income cannot be negative")
	}

	items, err := buildBudgetItems(input.MonthlyBudget)
	if err != nil {
		return nil, false, err
	}

	created := false
	err = s.db.Transaction(func(tx *gorm.DB) error {
		_, err := s.findDocument(tx, userID, month, year)
		switch {
		case errors.Is(err, apperrors.ErrFinanceNotFound):
			created = true
		case err != nil:
			return err
		}

		// A concurrent first write for the same month lands on the unique
		// period index; the insert then updates that row instead of failing.
		upsert := &models.MonthlyFinance{
			UserID:                userID,
			Month:                 month,
			Year:                  year,
			ExpectedMonthlyIncome: input.ExpectedMonthlyIncome,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "month"}, {Name: "year"}},
			DoUpdates: clause.AssignmentColumns([]string{"expected_monthly_income", "updated_at"}),
		}).Create(upsert).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		doc, err := s.findDocument(tx, userID, month, year)
		if err != nil {
			return err
		}
		if err := tx.Where("monthly_finance_id = ?", doc.ID).Delete(&models.BudgetItem{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		for i := range items {
			items[i].MonthlyFinanceID = doc.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	detail, err := s.GetMonthlyFinance(userID, month, year)
	if err != nil {
		return nil, false, err
	}
	return detail, created, nil
}

// GetMonthlyFinance returns a document with its derived metrics.
func (s *financeService) GetMonthlyFinance(userID string, month, year int) (*MonthlyFinanceDetail, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	doc, err := s.findDocument(withLineItems(s.db), userID, month, year)
	if err != nil {
		return nil, err
	}
	return newDetail(doc), nil
}

// ListMonthlyFinances returns the user's documents, newest period first.
func (s *financeService) ListMonthlyFinances(userID string, page pagination.PageRequest) (*pagination.PageResponse[MonthlyFinanceDetail], error) {
	page.Defaults()

	base := s.db.Model(&models.MonthlyFinance{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var docs []models.MonthlyFinance
	if err := withLineItems(s.db).Where("user_id = ?", userID).
		Order("year DESC, month DESC").
		Scopes(pagination.Paginate(page)).
		Find(&docs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.Map(pagination.NewPageResponse(docs, page, totalItems), func(doc models.MonthlyFinance) MonthlyFinanceDetail {
		return *newDetail(&doc)
	})
	return &resp, nil
}

// DeleteMonthlyFinance removes a document together with its line items.
func (s *financeService) DeleteMonthlyFinance(userID string, month, year int) error {
	if err := validatePeriod(month, year); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		doc, err := s.findDocument(tx, userID, month, year)
		if err != nil {
			return err
		}
		return deleteDocuments(tx, []string{doc.ID})
	})
}

func deleteDocuments(tx *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("monthly_finance_id IN ?", ids).Delete(&models.BudgetItem{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := tx.Where("monthly_finance_id IN ?", ids).Delete(&models.FinanceTransaction{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.MonthlyFinance{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func normalizeDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	return description, nil
}

func normalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return models.UncategorizedLabel
	}
	return category
}

func validateTransactionType(t models.TransactionType) error {
	if !t.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be one of income, expense, excludedExpense")
	}
	return nil
}

// AddTransaction appends a transaction to an existing document.
func (s *financeService) AddTransaction(userID string, month, year int, input TransactionInput) (*models.FinanceTransaction, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	description, err := normalizeDescription(input.Description)
	if err != nil {
		return nil, err
	}
	if input.Amount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be negative")
	}
	txType := input.Type
	if txType == "" {
		txType = models.TransactionTypeExpense
	}
	if err := validateTransactionType(txType); err != nil {
		return nil, err
	}
	date := time.Now()
	if input.Date != nil && !input.Date.IsZero() {
		date = *input.Date
	}

	doc, err := s.findDocument(s.db, userID, month, year)
	if err != nil {
		return nil, err
	}

	var next int
	if err := s.db.Model(&models.FinanceTransaction{}).
		Where("monthly_finance_id = ?", doc.ID).
		Select("COALESCE(MAX(position), -1) + 1").
		Scan(&next).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	transaction := &models.FinanceTransaction{
		MonthlyFinanceID: doc.ID,
		Description:      description,
		Amount:           input.Amount,
		Category:         normalizeCategory(input.Category),
		Type:             txType,
		Date:             date,
		Position:         next,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

func (s *financeService) findTransaction(docID, transactionID string) (*models.FinanceTransaction, error) {
	var transaction models.FinanceTransaction
	if err := s.db.Where("id = ? AND monthly_finance_id = ?", transactionID, docID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction changes only the supplied fields of a transaction.
func (s *financeService) UpdateTransaction(userID string, month, year int, transactionID string, update TransactionUpdate) (*models.FinanceTransaction, error) {
	if update.IsEmpty() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "No valid fields provided for update.")
	}
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Description != nil {
		description, err := normalizeDescription(*update.Description)
		if err != nil {
			return nil, err
		}
		updates["description"] = description
	}
	if update.Amount != nil {
		if update.Amount.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be negative")
		}
		updates["amount"] = *update.Amount
	}
	if update.Category != nil {
		updates["category"] = normalizeCategory(*update.Category)
	}
	if update.Type != nil {
		if err := validateTransactionType(*update.Type); err != nil {
			return nil, err
		}
		updates["type"] = *update.Type
	}
	if update.Date != nil {
		updates["date"] = *update.Date
	}

	doc, err := s.findDocument(s.db, userID, month, year)
	if err != nil {
		return nil, err
	}
	transaction, err := s.findTransaction(doc.ID, transactionID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.findTransaction(doc.ID, transactionID)
}

// DeleteTransaction removes a transaction by id.
func (s *financeService) DeleteTransaction(userID string, month, year int, transactionID string) error {
	if err := validatePeriod(month, year); err != nil {
		return err
	}
	doc, err := s.findDocument(s.db, userID, month, year)
	if err != nil {
		return err
	}

	result := s.db.Where("id = ? AND monthly_finance_id = ?", transactionID, doc.ID).Delete(&models.FinanceTransaction{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// DeleteBudgetItem removes a budget item by id. The last item of a budget
// cannot be removed.
func (s *financeService) DeleteBudgetItem(userID string, month, year int, itemID string) error {
	if err := validatePeriod(month, year); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		doc, err := s.findDocument(tx, userID, month, year)
		if err != nil {
			return err
		}

		var item models.BudgetItem
		if err := tx.Where("id = ? AND monthly_finance_id = ?", itemID, doc.ID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrBudgetItemNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var remaining int64
		if err := tx.Model(&models.BudgetItem{}).Where("monthly_finance_id = ?", doc.ID).Count(&remaining).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if remaining <= 1 {
			return apperrors.ErrEmptyBudget
		}

		if err := tx.Delete(&item).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// GetDashboardMetrics returns the metrics of the month containing now.
func (s *financeService) GetDashboardMetrics(userID string, now time.Time) (*DashboardMetrics, error) {
	month, year := int(now.Month())-1, now.Year()
	metrics := &DashboardMetrics{Month: month, Year: year}

	doc, err := s.findDocument(withLineItems(s.db), userID, month, year)
	switch {
	case errors.Is(err, apperrors.ErrFinanceNotFound):
		metrics.Summary = finance.Summarize(nil)
	case err != nil:
		return nil, err
	default:
		metrics.HasData = true
		metrics.Summary = finance.Summarize(doc)
	}
	return metrics, nil
}

// userTransactions scopes a transaction query to the documents of one user.
func userTransactions(db *gorm.DB, userID string) *gorm.DB {
	return db.Model(&models.FinanceTransaction{}).
		Joins("JOIN monthly_finances ON monthly_finances.id = finance_transactions.monthly_finance_id").
		Where("monthly_finances.user_id = ?", userID)
}

// GetRecentTransactions returns the user's latest transactions across all months.
func (s *financeService) GetRecentTransactions(userID string, limit int) ([]models.FinanceTransaction, error) {
	if limit <= 0 {
		limit = defaultRecentTransactions
	}
	var txs []models.FinanceTransaction
	if err := userTransactions(s.db, userID).
		Order("finance_transactions.date DESC").
		Limit(limit).
		Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txs, nil
}

var seedIncomeCategories = map[string]bool{
	"Salary":             true,
	"Freelance":          true,
	"Business Income":    true,
	"Investment Returns": true,
	"Other Income":       true,
}

// SeedDemoData replaces the user's documents with twelve months of sample
// data ending at the month containing now. It returns the number of
// documents created.
func (s *financeService) SeedDemoData(userID string, now time.Time) (int, error) {
	var globals []models.Category
	if err := s.db.Where("is_global_default = ? AND is_active = ?", true, true).Order("name").Find(&globals).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var income *models.Category
	var expenses []models.Category
	for i := range globals {
		switch {
		case globals[i].Name == "Salary":
			income = &globals[i]
		case !seedIncomeCategories[globals[i].Name]:
			expenses = append(expenses, globals[i])
		}
	}
	if income == nil || len(expenses) == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Please create global default categories first.")
	}

	rng := rand.New(rand.NewPCG(uint64(now.UnixNano()), uint64(len(userID))))
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing []string
		if err := tx.Model(&models.MonthlyFinance{}).Where("user_id = ?", userID).Pluck("id", &existing).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := deleteDocuments(tx, existing); err != nil {
			return err
		}

		for i := 11; i >= 0; i-- {
			start := first.AddDate(0, -i, 0)
			doc := &models.MonthlyFinance{
				UserID:                userID,
				Month:                 int(start.Month()) - 1,
				Year:                  start.Year(),
				ExpectedMonthlyIncome: decimal.NewFromInt(4500),
				MonthlyBudget: []models.BudgetItem{
					{Category: expenses[0].ID, Amount: decimal.NewFromInt(1200), IsRecurring: true, Position: 0},
					{Category: expenses[len(expenses)/2].ID, Amount: decimal.NewFromInt(400), IsRecurring: true, Position: 1},
				},
			}

			doc.Transactions = append(doc.Transactions, models.FinanceTransaction{
				Description: "Monthly Paycheck",
				Amount:      decimal.NewFromInt(int64(4000 + rng.IntN(1000))),
				Category:    income.ID,
				Type:        models.TransactionTypeIncome,
				Date:        start,
			})
			count := 10 + rng.IntN(15)
			for j := 0; j < count; j++ {
				category := expenses[rng.IntN(len(expenses))]
				doc.Transactions = append(doc.Transactions, models.FinanceTransaction{
					Description: "Random expense for " + category.Name,
					Amount:      decimal.NewFromInt(int64(5 + rng.IntN(150))),
					Category:    category.ID,
					Type:        models.TransactionTypeExpense,
					Date:        start.AddDate(0, 0, rng.IntN(28)),
					Position:    j + 1,
				})
			}

			if err := tx.Create(doc).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return 12, nil
}
