// Package finance holds the pure aggregation logic behind monthly finances:
// derived budget metrics, effective category resolution, period comparison,
// trend bucketing and report grouping. Nothing here touches the database;
// services load state and hand it over.
package finance

import (
	"github.com/shopspring/decimal"

	"fincheck/internal/models"
)

// Performance status values.
const (
	StatusSafe   = "safe"
	StatusDanger = "danger"
)

// dangerThreshold is the rounded percentage of the budget spent at which a
// month turns to danger.
const dangerThreshold = 90

var hundred = decimal.NewFromInt(100)

// Performance describes how much of the monthly budget the expenses consumed.
type Performance struct {
	Status         string `json:"status"`
	PercentageUsed int64  `json:"percentage_used"`
}

// Summary holds the derived metrics of one or more monthly finance documents.
// Every field is recomputed from the budget items and transactions on read.
type Summary struct {
	TotalMonthlyBudget        decimal.Decimal `json:"total_monthly_budget"`
	TotalRecurringExpenses    decimal.Decimal `json:"total_recurring_expenses"`
	TotalNonRecurringExpenses decimal.Decimal `json:"total_non_recurring_expenses"`
	IncomeTotal               decimal.Decimal `json:"income_total"`
	ExpensesTotal             decimal.Decimal `json:"expenses_total"`
	ExcludedExpensesTotal     decimal.Decimal `json:"excluded_expenses_total"`
	Outflow                   decimal.Decimal `json:"outflow"`
	SafeToSpend               decimal.Decimal `json:"safe_to_spend"`
	PlannedSavings            decimal.Decimal `json:"planned_savings"`
	ExpensesPerformance       Performance     `json:"expenses_performance"`
}

// Summarize derives the metrics of a single monthly finance document.
func Summarize(doc *models.MonthlyFinance) Summary {
	if doc == nil {
		return Summary{ExpensesPerformance: Performance{Status: StatusSafe}}
	}
	return SummarizeAll([]models.MonthlyFinance{*doc})
}

// SummarizeAll derives the metrics of several documents as if they were one,
// which is how a calendar year is compared against the previous one.
func SummarizeAll(docs []models.MonthlyFinance) Summary {
	var s Summary
	expectedIncome := decimal.Zero

	for i := range docs {
		expectedIncome = expectedIncome.Add(docs[i].ExpectedMonthlyIncome)

		for _, item := range docs[i].MonthlyBudget {
			s.TotalMonthlyBudget = s.TotalMonthlyBudget.Add(item.Amount)
			if item.IsRecurring {
				s.TotalRecurringExpenses = s.TotalRecurringExpenses.Add(item.Amount)
			} else {
				s.TotalNonRecurringExpenses = s.TotalNonRecurringExpenses.Add(item.Amount)
			}
		}

		for _, tx := range docs[i].Transactions {
			switch tx.Type {
			case models.TransactionTypeIncome:
				s.IncomeTotal = s.IncomeTotal.Add(tx.Amount)
			case models.TransactionTypeExpense:
				s.ExpensesTotal = s.ExpensesTotal.Add(tx.Amount)
			case models.TransactionTypeExcludedExpense:
				s.ExcludedExpensesTotal = s.ExcludedExpensesTotal.Add(tx.Amount)
			}
		}
	}

	s.Outflow = s.ExpensesTotal.Add(s.ExcludedExpensesTotal)
	s.SafeToSpend = s.IncomeTotal.Sub(s.TotalMonthlyBudget).Sub(s.Outflow)
	s.PlannedSavings = expectedIncome.Sub(s.TotalMonthlyBudget)
	s.ExpensesPerformance = performance(s.ExpensesTotal, s.TotalMonthlyBudget)
	return s
}

func performance(expenses, budget decimal.Decimal) Performance {
	if budget.IsZero() {
		return Performance{Status: StatusSafe}
	}

	used := expenses.Mul(hundred).Div(budget).Round(0).IntPart()
	status := StatusSafe
	if used >= dangerThreshold {
		status = StatusDanger
	}

	return Performance{Status: status, PercentageUsed: used}
}
