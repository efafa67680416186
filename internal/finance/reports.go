package finance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fincheck/internal/models"
)

// CategoryTotal is the spending of one category over a window.
type CategoryTotal struct {
	CategoryID       string          `json:"category_id"`
	CategoryName     string          `json:"category_name"`
	TotalSpent       decimal.Decimal `json:"total_spent"`
	TransactionCount int             `json:"transaction_count"`
}

// CategoryBreakdown groups expense transactions by category, largest total first.
func CategoryBreakdown(txs []models.FinanceTransaction, names NameIndex) []CategoryTotal {
	byCategory := make(map[string]*CategoryTotal)
	var order []string

	for _, tx := range txs {
		if tx.Type != models.TransactionTypeExpense {
			continue
		}
		ct, ok := byCategory[tx.Category]
		if !ok {
			ct = &CategoryTotal{CategoryID: tx.Category, CategoryName: names.Resolve(tx.Category)}
			byCategory[tx.Category] = ct
			order = append(order, tx.Category)
		}
		ct.TotalSpent = ct.TotalSpent.Add(tx.Amount)
		ct.TransactionCount++
	}

	result := make([]CategoryTotal, 0, len(order))
	for _, key := range order {
		result = append(result, *byCategory[key])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalSpent.GreaterThan(result[j].TotalSpent)
	})
	return result
}

// ReportTransaction is a transaction enriched with its category name.
type ReportTransaction struct {
	ID           string                 `json:"id"`
	Description  string                 `json:"description"`
	Amount       decimal.Decimal        `json:"amount"`
	Type         models.TransactionType `json:"type"`
	Date         time.Time              `json:"date"`
	CategoryID   string                 `json:"category_id"`
	CategoryName string                 `json:"category_name"`
}

// NewReportTransactions attaches category names to transactions, keeping order.
func NewReportTransactions(txs []models.FinanceTransaction, names NameIndex) []ReportTransaction {
	result := make([]ReportTransaction, 0, len(txs))
	for _, tx := range txs {
		result = append(result, ReportTransaction{
			ID:           tx.ID,
			Description:  tx.Description,
			Amount:       tx.Amount,
			Type:         tx.Type,
			Date:         tx.Date,
			CategoryID:   tx.Category,
			CategoryName: names.Resolve(tx.Category),
		})
	}
	return result
}

// TopTransactions returns the limit largest transactions of the given type.
// Equal amounts keep the more recent transaction first.
func TopTransactions(txs []models.FinanceTransaction, txType models.TransactionType, limit int) []models.FinanceTransaction {
	filtered := make([]models.FinanceTransaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Type == txType {
			filtered = append(filtered, tx)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if !filtered[i].Amount.Equal(filtered[j].Amount) {
			return filtered[i].Amount.GreaterThan(filtered[j].Amount)
		}
		return filtered[i].Date.After(filtered[j].Date)
	})
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

// SortNewestFirst orders transactions by date, most recent first.
func SortNewestFirst(txs []models.FinanceTransaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
}
