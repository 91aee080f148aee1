package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/drivebook/backend/internal/domain"
	"github.com/drivebook/backend/internal/report"
)

// defaultRangeToken applies when ?range= is absent.
const defaultRangeToken = report.RangeThisWeek

// rangeResponse describes a resolved reporting period.
type rangeResponse struct {
	Token string `json:"token"`
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// summaryResponse carries the derived report figures. The decimal fields
// marshal as strings to keep cents exact on the wire.
type summaryResponse struct {
	TotalMiles      float64         `json:"total_miles"`
	DeductionAmount decimal.Decimal `json:"deduction_amount"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	TripCount       int             `json:"trip_count"`
	ExpenseCount    int             `json:"expense_count"`
}

type reportSummaryResponse struct {
	Range       rangeResponse   `json:"range"`
	Summary     summaryResponse `json:"summary"`
	MileageRate decimal.Decimal `json:"mileage_rate"`
}

type quickRangesResponse struct {
	Data []rangeResponse `json:"data"`
}

// ListQuickRanges handles GET /reports/quick-ranges.
// Returns the preset periods evaluated against today, so the frontend can
// render pickers without reimplementing the calendar arithmetic.
func (s *Server) ListQuickRanges(w http.ResponseWriter, r *http.Request) {
	ranges := s.reports.QuickRanges()

	data := make([]rangeResponse, len(ranges))
	for i, qr := range ranges {
		data[i] = rangeResponse{
			Token: qr.Token,
			Label: qr.Label,
			Start: qr.Range.Start.Format(time.DateOnly),
			End:   qr.Range.End.Format(time.DateOnly),
		}
	}
	writeJSON(w, http.StatusOK, quickRangesResponse{Data: data})
}

// GetReportSummary handles GET /reports/summary.
// ?range= selects the period (default this_week); range=custom additionally
// requires ?start= and ?end= dates.
func (s *Server) GetReportSummary(w http.ResponseWriter, r *http.Request) {
	token, custom, ok := queryRange(w, r)
	if !ok {
		return
	}

	rep, err := s.reports.BuildReport(r.Context(), token, custom)
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, reportSummaryResponse{
		Range: rangeResponse{
			Token: token,
			Label: report.Label(token),
			Start: rep.Range.Start.Format(time.DateOnly),
			End:   rep.Range.End.Format(time.DateOnly),
		},
		Summary:     summaryToResponse(rep.Summary),
		MileageRate: rep.Rate,
	})
}

// ExportReport handles GET /reports/export.
// Takes the same range parameters as the summary plus ?format=pdf|csv
// (default pdf), and responds with the document as an attachment.
func (s *Server) ExportReport(w http.ResponseWriter, r *http.Request) {
	token, custom, ok := queryRange(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}

	var (
		out         []byte
		filename    string
		contentType string
		err         error
	)
	switch format {
	case "pdf":
		out, err = s.reports.ExportPDF(r.Context(), token, custom)
		filename, contentType = report.PDFFilename, report.PDFContentType
	case "csv":
		out, err = s.reports.ExportCSV(r.Context(), token, custom)
		filename, contentType = report.CSVFilename, report.CSVContentType
	default:
		writeRequestError(w, "format must be pdf or csv")
		return
	}
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // nothing useful to do with a failed response write
	w.Write(out)
}

// queryRange reads the range selection query parameters. Custom bounds are
// parsed but deliberately not order-checked; an inverted range yields an
// empty report rather than an error. On failure it writes the error response
// and reports false.
func queryRange(w http.ResponseWriter, r *http.Request) (string, domain.DateRange, bool) {
	q := r.URL.Query()

	token := q.Get("range")
	if token == "" {
		token = defaultRangeToken
	}
	if token != report.RangeCustom {
		return token, domain.DateRange{}, true
	}

	if q.Get("start") == "" || q.Get("end") == "" {
		writeRequestError(w, "start and end are required for a custom range")
		return "", domain.DateRange{}, false
	}
	start, err := parseDate(q.Get("start"))
	if err != nil {
		writeRequestError(w, "start must be a YYYY-MM-DD date")
		return "", domain.DateRange{}, false
	}
	end, err := parseDate(q.Get("end"))
	if err != nil {
		writeRequestError(w, "end must be a YYYY-MM-DD date")
		return "", domain.DateRange{}, false
	}

	return token, domain.DateRange{Start: start, End: end}, true
}

// summaryToResponse converts the domain summary into its JSON shape.
func summaryToResponse(s domain.ReportSummary) summaryResponse {
	return summaryResponse{
		TotalMiles:      s.TotalMiles,
		DeductionAmount: s.DeductionAmount,
		TotalExpenses:   s.TotalExpenses,
		TripCount:       s.TripCount,
		ExpenseCount:    s.ExpenseCount,
	}
}
