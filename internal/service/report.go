package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/drivebook/backend/internal/domain"
	"github.com/drivebook/backend/internal/repo"
	"github.com/drivebook/backend/internal/report"
)

// recentLimit caps how many records of each kind the dashboard carries.
const recentLimit = 20

// ReportService assembles date-ranged summaries, export documents, and the
// dashboard snapshot. It reads full record snapshots through the repos and
// hands them to the report package; nothing here writes to storage.
type ReportService struct {
	trips    repo.TripRepo
	expenses repo.ExpenseRepo
	rate     decimal.Decimal
}

// NewReportService constructs a ReportService computing deductions at the
// given mileage rate.
func NewReportService(trips repo.TripRepo, expenses repo.ExpenseRepo, rate decimal.Decimal) *ReportService {
	return &ReportService{trips: trips, expenses: expenses, rate: rate}
}

// QuickRanges returns the preset reporting ranges evaluated against today.
func (s *ReportService) QuickRanges() []report.QuickRange {
	return report.QuickRanges(time.Now())
}

// BuildReport resolves the requested range token against today, loads every
// record, and assembles the in-range report. Unknown tokens resolve to a
// single-day range covering today; the custom token uses the supplied bounds
// as-is.
func (s *ReportService) BuildReport(ctx context.Context, token string, custom domain.DateRange) (domain.Report, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("service.ReportService.BuildReport: %w", err)
	}
	expenses, err := s.expenses.List(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("service.ReportService.BuildReport: %w", err)
	}

	now := time.Now()
	r := report.Resolve(token, now, custom)
	return report.Build(trips, expenses, r, s.rate, now), nil
}

// ExportPDF renders the resolved report as a PDF document.
func (s *ReportService) ExportPDF(ctx context.Context, token string, custom domain.DateRange) ([]byte, error) {
	rep, err := s.BuildReport(ctx, token, custom)
	if err != nil {
		return nil, err
	}
	out, err := report.RenderPDF(rep)
	if err != nil {
		return nil, fmt.Errorf("service.ReportService.ExportPDF: %w", err)
	}
	return out, nil
}

// ExportCSV renders the resolved report as a flat CSV table.
func (s *ReportService) ExportCSV(ctx context.Context, token string, custom domain.DateRange) ([]byte, error) {
	rep, err := s.BuildReport(ctx, token, custom)
	if err != nil {
		return nil, err
	}
	return report.RenderCSV(rep), nil
}

// Dashboard returns all-time totals plus the newest records of each kind,
// capped at 20 apiece. Record slices are never nil.
func (s *ReportService) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("service.ReportService.Dashboard: %w", err)
	}
	expenses, err := s.expenses.List(ctx)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("service.ReportService.Dashboard: %w", err)
	}

	d := domain.Dashboard{
		Summary:        report.Summarize(trips, expenses, s.rate),
		Rate:           s.rate,
		RecentTrips:    trips,
		RecentExpenses: expenses,
	}
	if len(d.RecentTrips) > recentLimit {
		d.RecentTrips = d.RecentTrips[:recentLimit]
	}
	if d.RecentTrips == nil {
		d.RecentTrips = []domain.Trip{}
	}
	if len(d.RecentExpenses) > recentLimit {
		d.RecentExpenses = d.RecentExpenses[:recentLimit]
	}
	if d.RecentExpenses == nil {
		d.RecentExpenses = []domain.Expense{}
	}
	return d, nil
}
