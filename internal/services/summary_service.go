package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fincheck/internal/errors"
	"fincheck/internal/finance"
	"fincheck/internal/models"
)

// summaryService computes the weekly email summaries.
type summaryService struct {
	db             *gorm.DB
	userService    UserServicer
	financeService FinanceServicer
}

// NewSummaryService creates a new SummaryServicer.
func NewSummaryService(db *gorm.DB, userService UserServicer, financeService FinanceServicer) SummaryServicer {
	return &summaryService{
		db:             db,
		userService:    userService,
		financeService: financeService,
	}
}

// BuildWeeklySummaries returns a summary for every opted-in user that has a
// document for the current month. Users without one are skipped.
func (s *summaryService) BuildWeeklySummaries(now time.Time) ([]finance.WeeklyReport, error) {
	users, err := s.userService.ListSummaryRecipients()
	if err != nil {
		return nil, err
	}

	reports := make([]finance.WeeklyReport, 0, len(users))
	for i := range users {
		report, err := s.BuildWeeklySummary(&users[i], now)
		if errors.Is(err, apperrors.ErrFinanceNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

// BuildWeeklySummary covers the last complete Monday-Sunday week before now,
// compares its expenses with the week before and reports how much of the
// current month's budget is used.
func (s *summaryService) BuildWeeklySummary(user *models.User, now time.Time) (*finance.WeeklyReport, error) {
	metrics, err := s.financeService.GetDashboardMetrics(user.ID, now)
	if err != nil {
		return nil, err
	}
	if !metrics.HasData {
		return nil, apperrors.ErrFinanceNotFound
	}

	week := finance.PreviousWeek(now)
	before := week.Before()

	var txs []models.FinanceTransaction
	if err := userTransactions(s.db, user.ID).
		Where("finance_transactions.date >= ? AND finance_transactions.date <= ?", before.Start, week.End).
		Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	income, expenses := finance.WeeklyTotals(txs, week)
	_, previousExpenses := finance.WeeklyTotals(txs, before)

	return &finance.WeeklyReport{
		UserID:         user.ID,
		Email:          user.Email,
		Name:           user.Name,
		Currency:       user.PreferredCurrency,
		WeekStart:      week.Start,
		WeekEnd:        week.End,
		TotalIncome:    income,
		TotalExpenses:  expenses,
		PercentUsed:    finance.BudgetPercentUsed(metrics.Summary),
		ComparisonText: finance.WeekComparisonText(expenses, previousExpenses),
	}, nil
}
