package export

import (
	"bytes"
	"fmt"

	"github.com/signintech/gopdf"
)

const (
	pdfFont       = "body"
	pdfMarginX    = 40.0
	pdfTop        = 50.0
	pdfBottom     = 800.0
	pdfLineHeight = 16.0
)

// PDFRenderer writes reports as a simple A4 listing using a TrueType font
// loaded from FontPath.
type PDFRenderer struct {
	FontPath string
}

// ContentType implements Renderer.
func (PDFRenderer) ContentType() string { return "application/pdf" }

// Extension implements Renderer.
func (PDFRenderer) Extension() string { return "pdf" }

// pdfWriter tracks the cursor and starts new pages when it runs off the bottom.
type pdfWriter struct {
	pdf *gopdf.GoPdf
	y   float64
}

func (w *pdfWriter) line(size float64, text string) error {
	if w.y > pdfBottom {
		w.pdf.AddPage()
		w.y = pdfTop
	}
	if err := w.pdf.SetFont(pdfFont, "", size); err != nil {
		return err
	}
	w.pdf.SetXY(pdfMarginX, w.y)
	if err := w.pdf.Cell(nil, text); err != nil {
		return err
	}
	w.y += size + pdfLineHeight/2
	return nil
}

func (w *pdfWriter) gap() { w.y += pdfLineHeight }

// Render implements Renderer.
func (p PDFRenderer) Render(r *Report) ([]byte, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	if err := pdf.AddTTFFont(pdfFont, p.FontPath); err != nil {
		return nil, fmt.Errorf("load font %s: %w", p.FontPath, err)
	}
	pdf.AddPage()

	w := &pdfWriter{pdf: pdf, y: pdfTop}
	if err := w.line(18, fmt.Sprintf("Fincheck Financial Report (%s)", r.Kind)); err != nil {
		return nil, err
	}
	if err := w.line(10, fmt.Sprintf("Period: Last %d days", r.Days)); err != nil {
		return nil, err
	}
	w.gap()

	if len(r.Transactions) > 0 {
		if err := w.line(14, "Transactions"); err != nil {
			return nil, err
		}
		for _, tx := range r.Transactions {
			text := fmt.Sprintf("%s | %s | %s | %s (%s) | %s",
				tx.Date.Format("2006-01-02"), tx.Description, FormatAmount(tx.Amount, r.Currency),
				tx.CategoryName, tx.Type, periodLabel(tx.Month, tx.Year))
			if err := w.line(11, text); err != nil {
				return nil, err
			}
		}
		w.gap()
	}

	if len(r.Budget) > 0 {
		if err := w.line(14, "Budget Items"); err != nil {
			return nil, err
		}
		for _, item := range r.Budget {
			kind := "One-time"
			if item.IsRecurring {
				kind = "Recurring"
			}
			text := fmt.Sprintf("%s | %s | %s (%s)",
				periodLabel(item.Month, item.Year), FormatAmount(item.Amount, r.Currency), item.CategoryName, kind)
			if err := w.line(11, text); err != nil {
				return nil, err
			}
		}
	}

	if r.Empty() {
		if err := w.line(12, noDataText); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
