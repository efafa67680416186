// Package export renders finance reports as downloadable Excel and PDF files.
package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	apperrors "fincheck/internal/errors"
	"fincheck/internal/finance"
	"fincheck/internal/models"
)

// DefaultDays is the look-back window used when none is requested.
const DefaultDays = 30

// Kind selects which data a report contains.
type Kind string

const (
	KindTransactions Kind = "transactions"
	KindBudget       Kind = "budget"
	KindAll          Kind = "all"
	KindIncome       Kind = "income"
	KindExpense      Kind = "expense"
)

// Valid reports whether k is a supported report kind.
func (k Kind) Valid() bool {
	switch k {
	case KindTransactions, KindBudget, KindAll, KindIncome, KindExpense:
		return true
	}
	return false
}

func (k Kind) includesTransactions() bool { return k != KindBudget }

func (k Kind) includesBudget() bool { return k == KindBudget || k == KindAll }

// accepts reports whether a transaction of type t belongs in a report of kind k.
func (k Kind) accepts(t models.TransactionType) bool {
	switch k {
	case KindIncome:
		return t == models.TransactionTypeIncome
	case KindExpense:
		return t == models.TransactionTypeExpense
	}
	return k.includesTransactions()
}

// Format is the file format of a rendered report.
type Format string

const (
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
)

// Valid reports whether f is a supported format.
func (f Format) Valid() bool { return f == FormatExcel || f == FormatPDF }

// TransactionRow is one exported transaction.
type TransactionRow struct {
	Date         time.Time
	Description  string
	Amount       decimal.Decimal
	Type         models.TransactionType
	CategoryName string
	Month        int
	Year         int
}

// BudgetRow is one exported budget item.
type BudgetRow struct {
	Month        int
	Year         int
	CategoryName string
	Amount       decimal.Decimal
	IsRecurring  bool
}

// Report is the data of one export, independent of its file format.
type Report struct {
	Kind         Kind
	Days         int
	Currency     string
	GeneratedAt  time.Time
	Transactions []TransactionRow
	Budget       []BudgetRow
}

// Empty reports whether the report has nothing to render.
func (r *Report) Empty() bool {
	return len(r.Transactions) == 0 && len(r.Budget) == 0
}

// Window returns the [from, to] range covered by a report of days ending at now.
func Window(days int, now time.Time) (from, to time.Time) {
	return now.AddDate(0, 0, -days), now
}

// Collect flattens monthly documents into report rows. Transactions outside
// [from, to] are skipped; budget items are taken from every document given.
// Transactions are ordered newest first.
func Collect(docs []models.MonthlyFinance, kind Kind, from, to time.Time, names finance.NameIndex) ([]TransactionRow, []BudgetRow) {
	var txs []TransactionRow
	var budget []BudgetRow

	for _, doc := range docs {
		if kind.includesTransactions() {
			for _, tx := range doc.Transactions {
				if tx.Date.Before(from) || tx.Date.After(to) || !kind.accepts(tx.Type) {
					continue
				}
				txs = append(txs, TransactionRow{
					Date:         tx.Date,
					Description:  tx.Description,
					Amount:       tx.Amount,
					Type:         tx.Type,
					CategoryName: names.Resolve(tx.Category),
					Month:        doc.Month,
					Year:         doc.Year,
				})
			}
		}
		if kind.includesBudget() {
			for _, item := range doc.MonthlyBudget {
				budget = append(budget, BudgetRow{
					Month:        doc.Month,
					Year:         doc.Year,
					CategoryName: names.Resolve(item.Category),
					Amount:       item.Amount,
					IsRecurring:  item.IsRecurring,
				})
			}
		}
	}

	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
	return txs, budget
}

// Filename returns the download name of a rendered report, e.g.
// "budget-90days-report.xlsx".
func Filename(kind Kind, days int, ext string) string {
	return fmt.Sprintf("%s-%ddays-report.%s", kind, days, ext)
}

// Renderer turns a report into file bytes.
type Renderer interface {
	Render(r *Report) ([]byte, error)
	ContentType() string
	Extension() string
}

// NewRenderer returns the renderer for a format. PDF output needs a TrueType
// font; without one ErrExportNotEnabled is returned.
func NewRenderer(format Format, fontPath string) (Renderer, error) {
	switch format {
	case FormatExcel:
		return ExcelRenderer{}, nil
	case FormatPDF:
		if fontPath == "" {
			return nil, apperrors.ErrExportNotEnabled
		}
		return PDFRenderer{FontPath: fontPath}, nil
	}
	return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid format. Use ?format=pdf or ?format=excel")
}

const noDataText = "No data found for the selected criteria."

// monthName renders a zero-based month.
func monthName(month int) string {
	return time.Month(month + 1).String()
}

func periodLabel(month, year int) string {
	return fmt.Sprintf("%s %d", monthName(month), year)
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
	"NGN": "₦",
}

// FormatAmount renders an amount with two decimals and the currency symbol,
// falling back to the ISO code.
func FormatAmount(amount decimal.Decimal, currency string) string {
	if symbol, ok := currencySymbols[currency]; ok {
		if amount.IsNegative() {
			return "-" + symbol + amount.Abs().StringFixed(2)
		}
		return symbol + amount.StringFixed(2)
	}
	if currency == "" {
		return amount.StringFixed(2)
	}
	return amount.StringFixed(2) + " " + currency
}
