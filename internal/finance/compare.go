package finance

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodType selects the granularity of a period comparison.
type PeriodType string

const (
	PeriodMonth PeriodType = "month"
	PeriodYear  PeriodType = "year"
)

// Valid reports whether p is a supported period type.
func (p PeriodType) Valid() bool {
	return p == PeriodMonth || p == PeriodYear
}

// Direction values of a field comparison.
const (
	DirectionIncrease = "increase"
	DirectionDecrease = "decrease"
	DirectionSame     = "same"
)

// ComparedFields lists the summary fields reported by Compare, in output order.
var ComparedFields = []string{
	"income_total",
	"expenses_total",
	"excluded_expenses_total",
	"safe_to_spend",
	"total_monthly_budget",
	"outflow",
}

// FieldComparison is the change of one metric between two periods.
// PercentChange and Direction are nil when the previous value is zero.
type FieldComparison struct {
	Current       decimal.Decimal `json:"current"`
	Previous      decimal.Decimal `json:"previous"`
	Difference    decimal.Decimal `json:"difference"`
	PercentChange *float64        `json:"percent_change"`
	Direction     *string         `json:"direction"`
	DisplayValue  string          `json:"display_value"`
}

// Period identifies a month (Month 0-11) or a whole year (Month = -1).
type Period struct {
	Month int
	Year  int
}

// CurrentPeriods returns the period containing now and the one before it.
func CurrentPeriods(periodType PeriodType, now time.Time) (current, previous Period) {
	year := now.Year()
	if periodType == PeriodYear {
		return Period{Month: -1, Year: year}, Period{Month: -1, Year: year - 1}
	}
	month := int(now.Month()) - 1
	if month == 0 {
		return Period{Month: 0, Year: year}, Period{Month: 11, Year: year - 1}
	}
	return Period{Month: month, Year: year}, Period{Month: month - 1, Year: year}
}

// Label renders a period as "January 2026" or "2026".
func (p Period) Label() string {
	if p.Month < 0 {
		return strconv.Itoa(p.Year)
	}
	return fmt.Sprintf("%s %d", time.Month(p.Month+1).String(), p.Year)
}

// Compare computes the per-field change from previous to current.
func Compare(current, previous Summary) map[string]FieldComparison {
	cur := current.fieldValues()
	prev := previous.fieldValues()

	result := make(map[string]FieldComparison, len(ComparedFields))
	for _, field := range ComparedFields {
		result[field] = compareValues(cur[field], prev[field])
	}
	return result
}

func (s Summary) fieldValues() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"income_total":            s.IncomeTotal,
		"expenses_total":          s.ExpensesTotal,
		"excluded_expenses_total": s.ExcludedExpensesTotal,
		"safe_to_spend":           s.SafeToSpend,
		"total_monthly_budget":    s.TotalMonthlyBudget,
		"outflow":                 s.Outflow,
	}
}

func compareValues(current, previous decimal.Decimal) FieldComparison {
	fc := FieldComparison{
		Current:      current,
		Previous:     previous,
		Difference:   current.Sub(previous),
		DisplayValue: "N/A",
	}
	if previous.IsZero() {
		return fc
	}

	pct := fc.Difference.Mul(hundred).Div(previous).Round(2)
	pctFloat := pct.InexactFloat64()
	fc.PercentChange = &pctFloat

	direction := DirectionSame
	switch pct.Sign() {
	case 1:
		direction = DirectionIncrease
		fc.DisplayValue = "+" + pct.String() + "%"
	case -1:
		direction = DirectionDecrease
		fc.DisplayValue = pct.String() + "%"
	default:
		fc.DisplayValue = "0%"
	}
	fc.Direction = &direction
	return fc
}
