package finance

import (
	"testing"
	"time"

	"fincheck/internal/models"
)

func TestCompare(t *testing.T) {
	now := time.Now()
	current := Summarize(&models.MonthlyFinance{
		MonthlyBudget: []models.BudgetItem{budgetItem("Rent", "1000", true)},
		Transactions: []models.FinanceTransaction{
			tx(models.TransactionTypeIncome, "3000", now),
			tx(models.TransactionTypeExpense, "150", now),
		},
	})
	previous := Summarize(&models.MonthlyFinance{
		MonthlyBudget: []models.BudgetItem{budgetItem("Rent", "1000", true)},
		Transactions: []models.FinanceTransaction{
			tx(models.TransactionTypeIncome, "2400", now),
		},
	})

	result := Compare(current, previous)

	t.Run("all_fields_present", func(t *testing.T) {
		for _, field := range ComparedFields {
			if _, ok := result[field]; !ok {
				t.Errorf("missing field %s", field)
			}
		}
	})

	t.Run("increase", func(t *testing.T) {
		income := result["income_total"]
		assertDecimal(t, "difference", income.Difference, "600")
		if income.PercentChange == nil || *income.PercentChange != 25 {
			t.Fatalf("expected 25%% change, got %v", income.PercentChange)
		}
		if *income.Direction != DirectionIncrease {
			t.Errorf("expected increase, got %s", *income.Direction)
		}
		if income.DisplayValue != "+25%" {
			t.Errorf("expected +25%%, got %s", income.DisplayValue)
		}
	})

	t.Run("zero_previous_is_not_applicable", func(t *testing.T) {
		expenses := result["expenses_total"]
		if expenses.PercentChange != nil || expenses.Direction != nil {
			t.Errorf("expected nil change and direction, got %v %v", expenses.PercentChange, expenses.Direction)
		}
		if expenses.DisplayValue != "N/A" {
			t.Errorf("expected N/A, got %s", expenses.DisplayValue)
		}
	})

	t.Run("same", func(t *testing.T) {
		budget := result["total_monthly_budget"]
		if budget.Direction == nil || *budget.Direction != DirectionSame {
			t.Fatalf("expected same, got %v", budget.Direction)
		}
		if budget.DisplayValue != "0%" {
			t.Errorf("expected 0%%, got %s", budget.DisplayValue)
		}
	})

	t.Run("decrease_rounds_to_two_places", func(t *testing.T) {
		fc := compareValues(dec("200"), dec("300"))
		if fc.PercentChange == nil || *fc.PercentChange != -33.33 {
			t.Fatalf("expected -33.33, got %v", fc.PercentChange)
		}
		if *fc.Direction != DirectionDecrease {
			t.Errorf("expected decrease, got %s", *fc.Direction)
		}
		if fc.DisplayValue != "-33.33%" {
			t.Errorf("expected -33.33%%, got %s", fc.DisplayValue)
		}
	})
}

func TestCurrentPeriods(t *testing.T) {
	t.Run("month_wraps_january", func(t *testing.T) {
		cur, prev := CurrentPeriods(PeriodMonth, time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC))
		if cur != (Period{Month: 0, Year: 2026}) {
			t.Errorf("unexpected current period %+v", cur)
		}
		if prev != (Period{Month: 11, Year: 2025}) {
			t.Errorf("unexpected previous period %+v", prev)
		}
	})

	t.Run("month_mid_year", func(t *testing.T) {
		cur, prev := CurrentPeriods(PeriodMonth, time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC))
		if cur.Month != 6 || prev.Month != 5 || prev.Year != 2026 {
			t.Errorf("unexpected periods %+v %+v", cur, prev)
		}
	})

	t.Run("year", func(t *testing.T) {
		cur, prev := CurrentPeriods(PeriodYear, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
		if cur.Label() != "2026" || prev.Label() != "2025" {
			t.Errorf("unexpected labels %s %s", cur.Label(), prev.Label())
		}
	})
}

func TestPeriodLabel(t *testing.T) {
	if got := (Period{Month: 0, Year: 2026}).Label(); got != "January 2026" {
		t.Errorf("expected January 2026, got %s", got)
	}
	if got := (Period{Month: 11, Year: 2025}).Label(); got != "December 2025" {
		t.Errorf("expected December 2025, got %s", got)
	}
}

func TestPeriodTypeValid(t *testing.T) {
	if !PeriodMonth.Valid() || !PeriodYear.Valid() {
		t.Error("month and year should be valid")
	}
	if PeriodType("week").Valid() {
		t.Error("week should not be valid")
	}
}
