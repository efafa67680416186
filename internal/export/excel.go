package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	transactionsSheet = "Transactions"
	budgetSheet       = "Budget Items"
	defaultSheet      = "Sheet1"
)

// ExcelRenderer writes reports as XLSX workbooks with one sheet per section.
type ExcelRenderer struct{}

// ContentType implements Renderer.
func (ExcelRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension implements Renderer.
func (ExcelRenderer) Extension() string { return "xlsx" }

type column struct {
	header string
	width  float64
}

// Render implements Renderer.
func (ExcelRenderer) Render(r *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2D3436"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	amountFormat := currencyNumFmt(r.Currency)
	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &amountFormat})
	if err != nil {
		return nil, fmt.Errorf("create amount style: %w", err)
	}

	// The workbook starts with Sheet1; the first section takes it over.
	sheets := 0
	nextSheet := func(name string) error {
		sheets++
		if sheets == 1 {
			return f.SetSheetName(defaultSheet, name)
		}
		_, err := f.NewSheet(name)
		return err
	}

	if len(r.Transactions) > 0 {
		if err := nextSheet(transactionsSheet); err != nil {
			return nil, err
		}
		cols := []column{
			{"Date", 12}, {"Description", 40}, {"Amount", 15}, {"Type", 15},
			{"Category", 25}, {"Month", 15}, {"Year", 10},
		}
		if err := writeHeader(f, transactionsSheet, cols, headerStyle); err != nil {
			return nil, err
		}
		for i, tx := range r.Transactions {
			row := i + 2
			values := []interface{}{
				tx.Date.Format("2006-01-02"),
				tx.Description,
				tx.Amount.InexactFloat64(),
				string(tx.Type),
				tx.CategoryName,
				monthName(tx.Month),
				tx.Year,
			}
			if err := writeRow(f, transactionsSheet, row, values); err != nil {
				return nil, err
			}
		}
		if err := f.SetCellStyle(transactionsSheet, "C2", fmt.Sprintf("C%d", len(r.Transactions)+1), amountStyle); err != nil {
			return nil, err
		}
	}

	if len(r.Budget) > 0 {
		if err := nextSheet(budgetSheet); err != nil {
			return nil, err
		}
		cols := []column{
			{"Month", 15}, {"Year", 10}, {"Category", 25}, {"Amount", 15}, {"Recurring", 15},
		}
		if err := writeHeader(f, budgetSheet, cols, headerStyle); err != nil {
			return nil, err
		}
		for i, item := range r.Budget {
			recurring := "No"
			if item.IsRecurring {
				recurring = "Yes"
			}
			values := []interface{}{
				monthName(item.Month),
				item.Year,
				item.CategoryName,
				item.Amount.InexactFloat64(),
				recurring,
			}
			if err := writeRow(f, budgetSheet, i+2, values); err != nil {
				return nil, err
			}
		}
		if err := f.SetCellStyle(budgetSheet, "D2", fmt.Sprintf("D%d", len(r.Budget)+1), amountStyle); err != nil {
			return nil, err
		}
	}

	if sheets == 0 {
		if err := f.SetCellValue(defaultSheet, "A1", noDataText); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, cols []column, style int) error {
	for i, col := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col.header); err != nil {
			return err
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, col.width); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(cols), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

// currencyNumFmt builds an Excel number format showing the currency symbol
// or ISO code with two decimals.
func currencyNumFmt(currency string) string {
	if symbol, ok := currencySymbols[currency]; ok {
		return fmt.Sprintf(`"%s"#,##0.00`, symbol)
	}
	if currency == "" {
		return "#,##0.00"
	}
	return fmt.Sprintf(`#,##0.00 "%s"`, currency)
}
