package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/drivebook/backend/internal/domain"
)

// CSVFilename is the fixed attachment filename for CSV exports.
const CSVFilename = "irs_report.csv"

// CSVContentType is the MIME type for CSV exports.
const CSVContentType = "text/csv"

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{"record_type", "date", "category", "miles", "amount", "description"}

// RenderCSV encodes the report's records as a flat table: one row per
// in-range trip, then one per in-range expense. Columns that don't apply to
// a record type are left empty. Summary figures are not embedded; they are
// recomputable from the rows.
func RenderCSV(rep domain.Report) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer writes never fail
	w.Write(csvHeaders)
	for _, t := range rep.Trips {
		//nolint:errcheck
		w.Write([]string{
			"trip",
			t.TripDate.Format(time.DateOnly),
			"",
			fmt.Sprintf("%.2f", t.Miles),
			"",
			t.Notes,
		})
	}
	for _, e := range rep.Expenses {
		//nolint:errcheck
		w.Write([]string{
			"expense",
			e.ExpenseDate.Format(time.DateOnly),
			e.Category.String(),
			"",
			e.Amount.StringFixed(2),
			e.Description,
		})
	}
	w.Flush()

	return buf.Bytes()
}
