package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fincheck/internal/errors"
	"fincheck/internal/finance"
	"fincheck/internal/models"
)

const defaultTopTransactions = 3

// reportService computes comparisons, trends and reports over stored finances.
type reportService struct {
	db              *gorm.DB
	categoryService CategoryServicer
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB, categoryService CategoryServicer) ReportServicer {
	return &reportService{
		db:              db,
		categoryService: categoryService,
	}
}

// ComparePeriods compares the month or year containing now with the one
// before it. When either period has no data the comparison is omitted and
// Missing flags the empty side.
func (s *reportService) ComparePeriods(userID string, periodType finance.PeriodType, now time.Time) (*PeriodComparison, error) {
	if !periodType.Valid() {
		return nil, apperrors.ErrInvalidPeriod
	}

	current, previous := finance.CurrentPeriods(periodType, now)
	result := &PeriodComparison{
		PeriodType:     periodType,
		CurrentPeriod:  current.Label(),
		PreviousPeriod: previous.Label(),
	}

	currentDocs, err := s.loadPeriod(userID, current)
	if err != nil {
		return nil, err
	}
	previousDocs, err := s.loadPeriod(userID, previous)
	if err != nil {
		return nil, err
	}

	if len(currentDocs) == 0 || len(previousDocs) == 0 {
		result.Missing = &MissingPeriods{
			Current:  len(currentDocs) == 0,
			Previous: len(previousDocs) == 0,
		}
		return result, nil
	}

	result.Comparison = finance.Compare(finance.SummarizeAll(currentDocs), finance.SummarizeAll(previousDocs))
	return result, nil
}

// loadPeriod returns the documents of a single month, or of every month of
// the year when p.Month is negative.
func (s *reportService) loadPeriod(userID string, p finance.Period) ([]models.MonthlyFinance, error) {
	query := withLineItems(s.db).Where("user_id = ? AND year = ?", userID, p.Year)
	if p.Month >= 0 {
		query = query.Where("month = ?", p.Month)
	}

	var docs []models.MonthlyFinance
	if err := query.Order("month").Find(&docs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return docs, nil
}

func validateRange(from, to time.Time) error {
	if to.Before(from) {
		return apperrors.WithMessage(apperrors.ErrInvalidPeriod, "start date must not be after end date")
	}
	return nil
}

// transactionsBetween loads the user's transactions dated within [from, to].
func (s *reportService) transactionsBetween(userID string, from, to time.Time, scopes ...func(*gorm.DB) *gorm.DB) ([]models.FinanceTransaction, error) {
	var txs []models.FinanceTransaction
	err := userTransactions(s.db, userID).
		Where("finance_transactions.date >= ? AND finance_transactions.date <= ?", from, to).
		Scopes(scopes...).
		Order("finance_transactions.date").
		Find(&txs).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txs, nil
}

func ofType(txType models.TransactionType) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("finance_transactions.type = ?", txType)
	}
}

// GetMonthlyTrends buckets income and expenses daily or monthly depending on
// the span of the range.
func (s *reportService) GetMonthlyTrends(userID string, from, to time.Time) (*TrendReport, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	txs, err := s.transactionsBetween(userID, from, to)
	if err != nil {
		return nil, err
	}

	granularity, points := finance.BucketTrends(txs, from, to)
	return &TrendReport{From: from, To: to, Granularity: granularity, Points: points}, nil
}

// GetCategoryBreakdown totals expenses per category over the range.
func (s *reportService) GetCategoryBreakdown(userID string, from, to time.Time) (*CategoryBreakdownReport, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	txs, err := s.transactionsBetween(userID, from, to, ofType(models.TransactionTypeExpense))
	if err != nil {
		return nil, err
	}
	names, err := s.categoryService.NameIndex(userID)
	if err != nil {
		return nil, err
	}

	categories := finance.CategoryBreakdown(txs, names)
	total := decimal.Zero
	for _, c := range categories {
		total = total.Add(c.TotalSpent)
	}
	return &CategoryBreakdownReport{From: from, To: to, TotalSpent: total, Categories: categories}, nil
}

// GetTopTransactions returns the largest transactions of a type over the range.
func (s *reportService) GetTopTransactions(userID string, from, to time.Time, txType models.TransactionType, limit int) ([]finance.ReportTransaction, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	if txType == "" {
		txType = models.TransactionTypeExpense
	}
	if err := validateTransactionType(txType); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTopTransactions
	}

	txs, err := s.transactionsBetween(userID, from, to, ofType(txType))
	if err != nil {
		return nil, err
	}
	names, err := s.categoryService.NameIndex(userID)
	if err != nil {
		return nil, err
	}
	return finance.NewReportTransactions(finance.TopTransactions(txs, txType, limit), names), nil
}

// GetTransactionsReport lists every transaction in the range, newest first,
// optionally restricted to one category.
func (s *reportService) GetTransactionsReport(userID string, from, to time.Time, categoryID string) ([]finance.ReportTransaction, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	var scopes []func(*gorm.DB) *gorm.DB
	if categoryID != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("finance_transactions.category = ?", categoryID)
		})
	}

	txs, err := s.transactionsBetween(userID, from, to, scopes...)
	if err != nil {
		return nil, err
	}
	names, err := s.categoryService.NameIndex(userID)
	if err != nil {
		return nil, err
	}
	finance.SortNewestFirst(txs)
	return finance.NewReportTransactions(txs, names), nil
}

