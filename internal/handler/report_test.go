package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivebook/backend/internal/domain"
	"github.com/drivebook/backend/internal/handler"
	"github.com/drivebook/backend/internal/report"
)

// mockReportServicer is a test double for handler.ReportServicer.
// Set only the method fields your test needs.
type mockReportServicer struct {
	quickRanges func() []report.QuickRange
	buildReport func(ctx context.Context, token string, custom domain.DateRange) (domain.Report, error)
	exportPDF   func(ctx context.Context, token string, custom domain.DateRange) ([]byte, error)
	exportCSV   func(ctx context.Context, token string, custom domain.DateRange) ([]byte, error)
	dashboard   func(ctx context.Context) (domain.Dashboard, error)
}

func (m *mockReportServicer) QuickRanges() []report.QuickRange {
	return m.quickRanges()
}
func (m *mockReportServicer) BuildReport(ctx context.Context, token string, custom domain.DateRange) (domain.Report, error) {
	return m.buildReport(ctx, token, custom)
}
func (m *mockReportServicer) ExportPDF(ctx context.Context, token string, custom domain.DateRange) ([]byte, error) {
	return m.exportPDF(ctx, token, custom)
}
func (m *mockReportServicer) ExportCSV(ctx context.Context, token string, custom domain.DateRange) ([]byte, error) {
	return m.exportCSV(ctx, token, custom)
}
func (m *mockReportServicer) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	return m.dashboard(ctx)
}

// compile-time check: mockReportServicer must satisfy handler.ReportServicer.
var _ handler.ReportServicer = (*mockReportServicer)(nil)

// ---- helpers ---------------------------------------------------------------

func newReportRouter(svc handler.ReportServicer) http.Handler {
	return handler.NewServer(verifierOK(), nil, nil, svc).Routes()
}

func marchReportFixture() domain.Report {
	return domain.Report{
		Range: domain.DateRange{
			Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		},
		Summary: domain.ReportSummary{
			TotalMiles:      50,
			DeductionAmount: decimal.RequireFromString("36.25"),
			TotalExpenses:   decimal.RequireFromString("40.00"),
			TripCount:       1,
			ExpenseCount:    1,
		},
		Rate:        decimal.RequireFromString("0.725"),
		GeneratedAt: time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC),
	}
}

// rangeJSON mirrors rangeResponse for decoding in assertions.
type rangeJSON struct {
	Token string `json:"token"`
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// summaryJSON mirrors summaryResponse for decoding in assertions.
type summaryJSON struct {
	TotalMiles      float64         `json:"total_miles"`
	DeductionAmount decimal.Decimal `json:"deduction_amount"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	TripCount       int             `json:"trip_count"`
	ExpenseCount    int             `json:"expense_count"`
}

// ---- GET /reports/quick-ranges -----------------------------------------------

func TestListQuickRanges_200(t *testing.T) {
	day := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)
	svc := &mockReportServicer{
		quickRanges: func() []report.QuickRange { return report.QuickRanges(day) },
	}

	req := authedRequest(http.MethodGet, "/reports/quick-ranges", nil)
	rec := httptest.NewRecorder()

	newReportRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []rangeJSON `json:"data"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Data, 4)

	// 2024-03-13 is a Wednesday; the week runs Monday the 11th through
	// Sunday the 17th.
	assert.Equal(t, rangeJSON{
		Token: "this_week",
		Label: "This Week (Mon-Sun)",
		Start: "2024-03-11",
		End:   "2024-03-17",
	}, resp.Data[0])
	assert.Equal(t, "this_month", resp.Data[1].Token)
	assert.Equal(t, "this_year", resp.Data[2].Token)
	assert.Equal(t, "custom", resp.Data[3].Token)
	assert.Equal(t, "2024-03-13", resp.Data[3].Start)
	assert.Equal(t, "2024-03-13", resp.Data[3].End)
}

// ---- GET /reports/summary ------------------------------------------------------

func TestGetReportSummary_200_DefaultsToThisWeek(t *testing.T) {
	var gotToken string
	svc := &mockReportServicer{
		buildReport: func(_ context.Context, token string, _ domain.DateRange) (domain.Report, error) {
			gotToken = token
			return marchReportFixture(), nil
		},
	}

	req := authedRequest(http.MethodGet, "/reports/summary", nil)
	rec := httptest.NewRecorder()

	newReportRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "this_week", gotToken)

	var resp struct {
		Range       rangeJSON       `json:"range"`
		Summary     summaryJSON     `json:"summary"`
		MileageRate decimal.Decimal `json:"mileage_rate"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "this_week", resp.Range.Token)
	assert.Equal(t, "This Week (Mon-Sun)", resp.Range.Label)
	assert.Equal(t, "2024-03-01", resp.Range.Start)
	assert.Equal(t, "2024-03-31", resp.Range.End)
	assert.Equal(t, 50.0, resp.Summary.TotalMiles)
	assert.True(t, resp.Summary.DeductionAmount.Equal(decimal.RequireFromString("36.25")))
	assert.True(t, resp.Summary.TotalExpenses.Equal(decimal.RequireFromString("40.00")))
	assert.Equal(t, 1, resp.Summary.TripCount)
	assert.Equal(t, 1, resp.Summary.ExpenseCount)
	assert.True(t, resp.MileageRate.Equal(decimal.RequireFromString("0.725")))
}

func TestGetReportSummary_200_CustomRange(t *testing.T) {
	var gotToken string
	var gotCustom domain.DateRange
	svc := &mockReportServicer{
		buildReport: func(_ context.Context, token string, custom domain.DateRange) (domain.Report, error) {
			gotToken, gotCustom = token, custom
			return marchReportFixture(), nil
		},
	}

	req := authedRequest(http.MethodGet, "/reports/summary?range=custom&start=2024-03-01&end=2024-03-31", nil)
	rec := httptest.NewRecorder()

	newReportRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "custom", gotToken)
	assert.True(t, gotCustom.Start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, gotCustom.End.Equal(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)))
}

func TestGetReportSummary_422_CustomMissingBounds(t *testing.T) {
	// buildReport must not be called; the nil func panics if it is.
	svc := &mockReportServicer{}

	req := authedRequest(http.MethodGet, "/reports/summary?range=custom", nil)
	rec := httptest.NewRecorder()

	newReportRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "start and end are required for a custom range")
}

func TestGetReportSummary_422_MalformedStart(t *testing.T) {
	svc := &mockReportServicer{}

	req := authedRequest(http.MethodGet, "/reports/summary?range=custom&start=03/01/2024&end=2024-03-31", nil)
	rec := httptest.NewRecorder()

	newReportRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "start must be a YYYY-MM-DD date")
}

func TestGetReportSummary_500_ServiceError(t *testing.T) {
	svc := &mockReportServicer{
		buildReport: func(_ context.Context, _ string, _ domain.DateRange) (domain.Report, error) {
			return domain.Report{}, errors.New("db down")
		},
	}

	req := authedRequest(http.MethodGet, "/reports/summary", nil)
	rec := httptest.NewRecorder()

	newReportRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp handler.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "internal_error", resp.Error.Code)
	// Internal details must not leak to the client.
	assert.NotContains(t, rec.Body.String(), "db down")
}

// ---- GET /reports/export --------------------------------------------------------

func TestExportReport_200_PDFByDefault(t *testing.T) {
	pdf := []byte("%PDF-1.3 fake document")
	var gotToken string
	svc := &mockReportServicer{
		exportPDF: func(_ context.Context, token string, _ domain.DateRange) ([]byte, error) {
			gotToken = token
			return pdf, nil
		},
	}

	req := authedRequest(http.MethodGet, "/reports/export", nil)
	rec := httptest.NewRecorder()

	newReportRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "this_week", gotToken)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="irs_report.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "22", rec.Header().Get("Content-Length"))
	assert.Equal(t, pdf, rec.Body.Bytes())
}

func TestExportReport_200_CSV(t *testing.T) {
	csv := []byte("record_type,date\n")
	svc := &mockReportServicer{
		exportCSV: func(_ context.Context, token string, _ domain.DateRange) ([]byte, error) {
			assert.Equal(t, "this_month", token)
			return csv, nil
		},
	}

	req := authedRequest(http.MethodGet, "/reports/export?range=this_month&format=csv", nil)
	rec := httptest.NewRecorder()

	newReportRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="irs_report.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, csv, rec.Body.Bytes())
}

func TestExportReport_422_UnknownFormat(t *testing.T) {
	// Neither exporter may be called for an unknown format.
	svc := &mockReportServicer{}

	req := authedRequest(http.MethodGet, "/reports/export?format=xlsx", nil)
	rec := httptest.NewRecorder()

	newReportRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "format must be pdf or csv")
}

func TestExportReport_500_RendererError(t *testing.T) {
	svc := &mockReportServicer{
		exportPDF: func(_ context.Context, _ string, _ domain.DateRange) ([]byte, error) {
			return nil, errors.New("render failed")
		},
	}

	req := authedRequest(http.MethodGet, "/reports/export", nil)
	rec := httptest.NewRecorder()

	newReportRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp handler.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "internal_error", resp.Error.Code)
}
