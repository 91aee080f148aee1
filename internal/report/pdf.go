package report

import (
	"bytes"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/drivebook/backend/internal/domain"
)

// PDFFilename is the fixed attachment filename for PDF exports.
const PDFFilename = "irs_report.pdf"

// PDFContentType is the MIME type for PDF exports.
const PDFContentType = "application/pdf"

const (
	reportTitle = "Spark Driver IRS Mileage & Expense Report"

	noTripsPlaceholder    = "No trips recorded."
	noExpensesPlaceholder = "No expenses recorded."

	// maxCellChars caps notes and descriptions in table cells.
	maxCellChars = 70

	// bottomMargin is the auto-page-break margin in millimetres; the footer
	// renders inside it.
	bottomMargin = 15
)

// Table column widths in millimetres.
const (
	colDate        = 30.0
	colMiles       = 25.0
	colNotes       = 135.0
	colCategory    = 40.0
	colAmount      = 25.0
	colDescription = 95.0
)

// RenderPDF lays out the report as a paginated A4 document and returns the
// finished bytes. The title header and timestamp footer repeat on every page;
// page breaks trigger automatically at the bottom margin. Empty record sets
// render placeholder lines, never an error.
func RenderPDF(rep domain.Report) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	// Uncompressed page streams keep the document text directly inspectable.
	doc.SetCompression(false)
	doc.SetAutoPageBreak(true, bottomMargin)

	doc.SetHeaderFunc(func() {
		doc.SetFont("Helvetica", "B", 14)
		doc.CellFormat(0, 10, reportTitle, "", 1, "C", false, 0, "")
		doc.Ln(2)
	})

	footer := "Generated on " + rep.GeneratedAt.Format("2006-01-02 15:04")
	doc.SetFooterFunc(func() {
		doc.SetY(-bottomMargin)
		doc.SetFont("Helvetica", "I", 8)
		doc.CellFormat(0, 10, footer, "", 0, "C", false, 0, "")
	})

	doc.AddPage()

	doc.SetFont("Helvetica", "", 11)
	period := fmt.Sprintf("Reporting period: %s to %s",
		rep.Range.Start.Format(time.DateOnly), rep.Range.End.Format(time.DateOnly))
	doc.CellFormat(0, 8, period, "", 1, "", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 8, "Summary", "", 1, "", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 6, fmt.Sprintf("Total miles: %.2f", rep.Summary.TotalMiles), "", 1, "", false, 0, "")
	doc.CellFormat(0, 6, fmt.Sprintf("IRS deduction ($%s/mile): $%s", rep.Rate, money(rep.Summary.DeductionAmount)), "", 1, "", false, 0, "")
	doc.CellFormat(0, 6, fmt.Sprintf("Total expenses: $%s", money(rep.Summary.TotalExpenses)), "", 1, "", false, 0, "")
	doc.Ln(4)

	renderTripTable(doc, rep.Trips)
	doc.Ln(6)
	renderExpenseTable(doc, rep.Expenses)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("report.RenderPDF: %w", err)
	}
	return buf.Bytes(), nil
}

// renderTripTable writes the Trip Log section: a bordered table of the
// in-range trips, or the placeholder line when there are none.
func renderTripTable(doc *fpdf.Fpdf, trips []domain.Trip) {
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 8, "Trip Log", "", 1, "", false, 0, "")

	if len(trips) == 0 {
		doc.SetFont("Helvetica", "", 9)
		doc.CellFormat(0, 6, noTripsPlaceholder, "", 1, "", false, 0, "")
		return
	}

	doc.SetFont("Helvetica", "B", 9)
	doc.CellFormat(colDate, 6, "Date", "1", 0, "", false, 0, "")
	doc.CellFormat(colMiles, 6, "Miles", "1", 0, "", false, 0, "")
	doc.CellFormat(colNotes, 6, "Notes", "1", 1, "", false, 0, "")

	doc.SetFont("Helvetica", "", 9)
	for _, t := range trips {
		doc.CellFormat(colDate, 6, t.TripDate.Format(time.DateOnly), "1", 0, "", false, 0, "")
		doc.CellFormat(colMiles, 6, fmt.Sprintf("%.2f", t.Miles), "1", 0, "", false, 0, "")
		doc.CellFormat(colNotes, 6, truncate(t.Notes, maxCellChars), "1", 1, "", false, 0, "")
	}
}

// renderExpenseTable writes the Expenses section, mirroring renderTripTable.
func renderExpenseTable(doc *fpdf.Fpdf, expenses []domain.Expense) {
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 8, "Expenses", "", 1, "", false, 0, "")

	if len(expenses) == 0 {
		doc.SetFont("Helvetica", "", 9)
		doc.CellFormat(0, 6, noExpensesPlaceholder, "", 1, "", false, 0, "")
		return
	}

	doc.SetFont("Helvetica", "B", 9)
	doc.CellFormat(colDate, 6, "Date", "1", 0, "", false, 0, "")
	doc.CellFormat(colCategory, 6, "Category", "1", 0, "", false, 0, "")
	doc.CellFormat(colAmount, 6, "Amount", "1", 0, "", false, 0, "")
	doc.CellFormat(colDescription, 6, "Description", "1", 1, "", false, 0, "")

	doc.SetFont("Helvetica", "", 9)
	for _, e := range expenses {
		doc.CellFormat(colDate, 6, e.ExpenseDate.Format(time.DateOnly), "1", 0, "", false, 0, "")
		doc.CellFormat(colCategory, 6, e.Category.String(), "1", 0, "", false, 0, "")
		doc.CellFormat(colAmount, 6, "$"+e.Amount.StringFixed(2), "1", 0, "", false, 0, "")
		doc.CellFormat(colDescription, 6, truncate(e.Description, maxCellChars), "1", 1, "", false, 0, "")
	}
}

// money formats a decimal as fixed-USD text with thousands separators,
// e.g. 1234.5 renders as "1,234.50".
func money(d decimal.Decimal) string {
	return humanize.FormatFloat("#,###.##", d.InexactFloat64())
}

// truncate cuts s to at most max characters. Record fields are stored in
// full; truncation is a rendering rule only.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
