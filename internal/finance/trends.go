package finance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fincheck/internal/models"
)

// DailyTrendMaxDays is the longest range still bucketed per day.
const DailyTrendMaxDays = 90

// Granularity of a trend series.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityMonthly Granularity = "monthly"
)

// TrendPoint aggregates income and expenses of one bucket. Month is 1-12 and
// Day is zero for monthly buckets.
type TrendPoint struct {
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	Day         int             `json:"day,omitempty"`
	Income      decimal.Decimal `json:"total_income"`
	Expenses    decimal.Decimal `json:"total_expenses"`
	NetSavings  decimal.Decimal `json:"net_savings"`
	bucketStart time.Time
}

// GranularityFor picks daily buckets for spans of at most 90 calendar days.
// Days are counted on the calendar so a DST shift inside the range does not
// tip it over the limit.
func GranularityFor(from, to time.Time) Granularity {
	if !to.After(from.AddDate(0, 0, DailyTrendMaxDays)) {
		return GranularityDaily
	}
	return GranularityMonthly
}

// BucketTrends groups the transactions dated within [from, to] and returns
// one point per non-empty bucket in ascending order. Only income and expense
// transactions are summed.
func BucketTrends(txs []models.FinanceTransaction, from, to time.Time) (Granularity, []TrendPoint) {
	granularity := GranularityFor(from, to)
	buckets := make(map[time.Time]*TrendPoint)

	for _, tx := range txs {
		if tx.Date.Before(from) || tx.Date.After(to) {
			continue
		}
		if tx.Type != models.TransactionTypeIncome && tx.Type != models.TransactionTypeExpense {
			continue
		}

		d := tx.Date.In(from.Location())
		key := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		if granularity == GranularityDaily {
			key = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		}

		p, ok := buckets[key]
		if !ok {
			p = &TrendPoint{Year: key.Year(), Month: int(key.Month()), bucketStart: key}
			if granularity == GranularityDaily {
				p.Day = key.Day()
			}
			buckets[key] = p
		}
		if tx.Type == models.TransactionTypeIncome {
			p.Income = p.Income.Add(tx.Amount)
		} else {
			p.Expenses = p.Expenses.Add(tx.Amount)
		}
	}

	points := make([]TrendPoint, 0, len(buckets))
	for _, p := range buckets {
		p.NetSavings = p.Income.Sub(p.Expenses)
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].bucketStart.Before(points[j].bucketStart)
	})
	return granularity, points
}
