package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "fincheck/internal/errors"
	"fincheck/internal/export"
	"fincheck/internal/models"
)

// exportService gathers the data behind downloadable reports.
type exportService struct {
	db              *gorm.DB
	userService     UserServicer
	categoryService CategoryServicer
}

// NewExportService creates a new ExportServicer.
func NewExportService(db *gorm.DB, userService UserServicer, categoryService CategoryServicer) ExportServicer {
	return &exportService{
		db:              db,
		userService:     userService,
		categoryService: categoryService,
	}
}

// periodIndex orders (month, year) pairs as a single month count.
func periodIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

// BuildReport collects the report of the given kind over the last days
// ending at now. Documents whose month overlaps the window contribute their
// budget items; transactions must be dated within the window.
func (s *exportService) BuildReport(userID string, kind export.Kind, days int, now time.Time) (*export.Report, error) {
	if !kind.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"Invalid content type. Use ?type=transactions, ?type=budget, ?type=income, ?type=expense or ?type=all")
	}
	if days == 0 {
		days = export.DefaultDays
	}
	if days < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Days must be a positive number")
	}

	user, err := s.userService.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	from, to := export.Window(days, now)
	var docs []models.MonthlyFinance
	if err := withLineItems(s.db).
		Where("user_id = ? AND year * 12 + month BETWEEN ? AND ?", userID, periodIndex(from), periodIndex(to)).
		Order("year, month").
		Find(&docs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(docs) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrNoReportData,
			fmt.Sprintf("No financial data found for the last %d days.", days))
	}

	names, err := s.categoryService.NameIndex(userID)
	if err != nil {
		return nil, err
	}

	report := &export.Report{
		Kind:        kind,
		Days:        days,
		Currency:    user.PreferredCurrency,
		GeneratedAt: now,
	}
	report.Transactions, report.Budget = export.Collect(docs, kind, from, to, names)
	if report.Empty() {
		return nil, apperrors.WithMessage(apperrors.ErrNoReportData,
			fmt.Sprintf("No matching %s data found for the last %d days.", kind, days))
	}
	return report, nil
}
