package export

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	apperrors "fincheck/internal/errors"
	"fincheck/internal/finance"
	"fincheck/internal/models"
)

func sampleDocs() []models.MonthlyFinance {
	return []models.MonthlyFinance{
		{
			Month: 2,
			Year:  2026,
			MonthlyBudget: []models.BudgetItem{
				{Category: "Rent", Amount: decimal.NewFromInt(1200), IsRecurring: true},
			},
			Transactions: []models.FinanceTransaction{
				{Description: "Paycheck", Amount: decimal.NewFromInt(4000), Category: "Salary", Type: models.TransactionTypeIncome, Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
				{Description: "Groceries", Amount: decimal.NewFromInt(80), Category: "Food", Type: models.TransactionTypeExpense, Date: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
				{Description: "Old", Amount: decimal.NewFromInt(5), Category: "Food", Type: models.TransactionTypeExpense, Date: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
			},
		},
	}
}

func TestKindValid(t *testing.T) {
	for _, k := range []Kind{KindTransactions, KindBudget, KindAll, KindIncome, KindExpense} {
		if !k.Valid() {
			t.Errorf("expected %q to be valid", k)
		}
	}
	if Kind("everything").Valid() {
		t.Error("expected unknown kind to be invalid")
	}
}

func TestCollect(t *testing.T) {
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	names := finance.NewNameIndex(nil)

	t.Run("all", func(t *testing.T) {
		txs, budget := Collect(sampleDocs(), KindAll, from, to, names)
		if len(txs) != 2 {
			t.Fatalf("expected 2 transactions in range, got %d", len(txs))
		}
		if txs[0].Description != "Groceries" {
			t.Errorf("expected newest first, got %q", txs[0].Description)
		}
		if len(budget) != 1 || budget[0].CategoryName != "Rent" {
			t.Errorf("unexpected budget rows %+v", budget)
		}
	})

	t.Run("budget_only", func(t *testing.T) {
		txs, budget := Collect(sampleDocs(), KindBudget, from, to, names)
		if len(txs) != 0 || len(budget) != 1 {
			t.Errorf("expected only budget rows, got %d transactions and %d items", len(txs), len(budget))
		}
	})

	t.Run("income_only", func(t *testing.T) {
		txs, budget := Collect(sampleDocs(), KindIncome, from, to, names)
		if len(txs) != 1 || txs[0].Type != models.TransactionTypeIncome {
			t.Errorf("expected one income row, got %+v", txs)
		}
		if len(budget) != 0 {
			t.Errorf("expected no budget rows, got %d", len(budget))
		}
	})
}

func TestFilename(t *testing.T) {
	if got := Filename(KindBudget, 90, "xlsx"); got != "budget-90days-report.xlsx" {
		t.Errorf("unexpected filename %q", got)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		currency string
		want     string
	}{
		{"USD", "$12.50"},
		{"EUR", "€12.50"},
		{"CHF", "12.50 CHF"},
		{"", "12.50"},
	}
	for _, tt := range tests {
		t.Run(tt.currency, func(t *testing.T) {
			if got := FormatAmount(decimal.RequireFromString("12.5"), tt.currency); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewRenderer(t *testing.T) {
	t.Run("excel", func(t *testing.T) {
		r, err := NewRenderer(FormatExcel, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Extension() != "xlsx" {
			t.Errorf("expected xlsx, got %s", r.Extension())
		}
	})

	t.Run("pdf_without_font", func(t *testing.T) {
		_, err := NewRenderer(FormatPDF, "")
		if !errors.Is(err, apperrors.ErrExportNotEnabled) {
			t.Errorf("expected ErrExportNotEnabled, got %v", err)
		}
	})

	t.Run("unknown_format", func(t *testing.T) {
		_, err := NewRenderer(Format("csv"), "")
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) || appErr.Code != "INVALID_INPUT" {
			t.Errorf("expected INVALID_INPUT, got %v", err)
		}
	})
}

func TestExcelRenderer(t *testing.T) {
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	txs, budget := Collect(sampleDocs(), KindAll, from, to, finance.NewNameIndex(nil))
	report := &Report{Kind: KindAll, Days: 60, Currency: "USD", Transactions: txs, Budget: budget}

	data, err := ExcelRenderer{}.Render(report)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != transactionsSheet || sheets[1] != budgetSheet {
		t.Fatalf("unexpected sheets %v", sheets)
	}
	if v, _ := f.GetCellValue(transactionsSheet, "B2"); v != "Groceries" {
		t.Errorf("expected Groceries in B2, got %q", v)
	}
	if v, _ := f.GetCellValue(budgetSheet, "E2"); v != "Yes" {
		t.Errorf("expected recurring flag Yes, got %q", v)
	}
}

func TestPDFRendererMissingFont(t *testing.T) {
	r := PDFRenderer{FontPath: filepath.Join(t.TempDir(), "missing.ttf")}
	if _, err := r.Render(&Report{Kind: KindAll, Days: 30}); err == nil {
		t.Error("expected an error for a missing font file")
	}
}
