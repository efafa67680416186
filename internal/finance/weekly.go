package finance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fincheck/internal/models"
)

// NoPreviousWeekText is shown when the week before had no expenses.
const NoPreviousWeekText = "No previous data for comparison."

// Week is a Monday 00:00 to Sunday 23:59:59.999 range.
type Week struct {
	Start time.Time
	End   time.Time
}

// PreviousWeek returns the last complete Monday-Sunday week before now.
func PreviousWeek(now time.Time) Week {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	// Days since this week's Monday (Sunday counts as day 6).
	offset := (int(today.Weekday()) + 6) % 7
	thisMonday := today.AddDate(0, 0, -offset)
	start := thisMonday.AddDate(0, 0, -7)
	return Week{Start: start, End: thisMonday.Add(-time.Nanosecond)}
}

// Before returns the week immediately preceding w.
func (w Week) Before() Week {
	return Week{Start: w.Start.AddDate(0, 0, -7), End: w.End.AddDate(0, 0, -7)}
}

// Contains reports whether t falls within the week.
func (w Week) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// WeeklyTotals sums income and expenses of the transactions dated within w.
func WeeklyTotals(txs []models.FinanceTransaction, w Week) (income, expenses decimal.Decimal) {
	for _, tx := range txs {
		if !w.Contains(tx.Date) {
			continue
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			income = income.Add(tx.Amount)
		case models.TransactionTypeExpense:
			expenses = expenses.Add(tx.Amount)
		}
	}
	return income, expenses
}

// WeekComparisonText describes this week's expenses as a share of last week's,
// e.g. "120% ↑ vs previous week".
func WeekComparisonText(expenses, previousExpenses decimal.Decimal) string {
	if !previousExpenses.IsPositive() {
		return NoPreviousWeekText
	}
	ratio := expenses.Mul(hundred).Div(previousExpenses)
	arrow := "↔"
	switch ratio.Cmp(hundred) {
	case 1:
		arrow = "↑"
	case -1:
		arrow = "↓"
	}
	return fmt.Sprintf("%d%% %s vs previous week", ratio.Round(0).IntPart(), arrow)
}

// BudgetPercentUsed returns expenses as a percentage of the budget, or zero
// when there is no budget.
func BudgetPercentUsed(s Summary) decimal.Decimal {
	if s.TotalMonthlyBudget.IsZero() {
		return decimal.Zero
	}
	return s.ExpensesTotal.Mul(hundred).Div(s.TotalMonthlyBudget).Round(1)
}

// WeeklyReport is the content of one user's weekly summary email.
type WeeklyReport struct {
	UserID         string          `json:"user_id"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	Currency       string          `json:"currency"`
	WeekStart      time.Time       `json:"week_start"`
	WeekEnd        time.Time       `json:"week_end"`
	TotalIncome    decimal.Decimal `json:"total_income"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
	PercentUsed    decimal.Decimal `json:"percent_used"`
	ComparisonText string          `json:"comparison_text"`
}
