package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivebook/backend/internal/domain"
	"github.com/drivebook/backend/internal/report"
	"github.com/drivebook/backend/internal/service"
)

var standardRate = decimal.RequireFromString("0.725")

// march2024 is the custom range used throughout: reports over it never
// depend on the wall clock.
var march2024 = domain.DateRange{
	Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
}

func newReportService(trips []domain.Trip, expenses []domain.Expense) *service.ReportService {
	return service.NewReportService(
		&mockTripRepo{
			list: func(_ context.Context) ([]domain.Trip, error) { return trips, nil },
		},
		&mockExpenseRepo{
			list: func(_ context.Context) ([]domain.Expense, error) { return expenses, nil },
		},
		standardRate,
	)
}

func marchFixtures() ([]domain.Trip, []domain.Expense) {
	trips := []domain.Trip{
		{ID: 2, TripDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), Miles: 50, Notes: "Morning deliveries"},
		{ID: 1, TripDate: time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), Miles: 99},
	}
	expenses := []domain.Expense{
		{ID: 1, ExpenseDate: time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), Category: domain.CategoryGas,
			Amount: decimal.RequireFromString("40.00"), Description: "Fill-up"},
	}
	return trips, expenses
}

// ---- BuildReport -------------------------------------------------------------

func TestReportService_BuildReport_CustomRange(t *testing.T) {
	svc := newReportService(marchFixtures())

	rep, err := svc.BuildReport(context.Background(), report.RangeCustom, march2024)

	require.NoError(t, err)
	assert.Equal(t, march2024, rep.Range)
	require.Len(t, rep.Trips, 1, "the February trip is out of range")
	require.Len(t, rep.Expenses, 1)
	assert.Equal(t, 50.0, rep.Summary.TotalMiles)
	assert.True(t, rep.Summary.DeductionAmount.Equal(decimal.RequireFromString("36.25")),
		"deduction was %s", rep.Summary.DeductionAmount)
	assert.True(t, rep.Summary.TotalExpenses.Equal(decimal.RequireFromString("40.00")))
	assert.Equal(t, 1, rep.Summary.TripCount)
	assert.Equal(t, 1, rep.Summary.ExpenseCount)
}

func TestReportService_BuildReport_TripRepoError(t *testing.T) {
	dbErr := errors.New("connection reset")
	svc := service.NewReportService(
		&mockTripRepo{
			list: func(_ context.Context) ([]domain.Trip, error) { return nil, dbErr },
		},
		&mockExpenseRepo{},
		standardRate,
	)

	_, err := svc.BuildReport(context.Background(), report.RangeCustom, march2024)

	assert.ErrorIs(t, err, dbErr)
}

func TestReportService_BuildReport_ExpenseRepoError(t *testing.T) {
	dbErr := errors.New("connection reset")
	svc := service.NewReportService(
		&mockTripRepo{
			list: func(_ context.Context) ([]domain.Trip, error) { return nil, nil },
		},
		&mockExpenseRepo{
			list: func(_ context.Context) ([]domain.Expense, error) { return nil, dbErr },
		},
		standardRate,
	)

	_, err := svc.BuildReport(context.Background(), report.RangeCustom, march2024)

	assert.ErrorIs(t, err, dbErr)
}

// ---- Exports -------------------------------------------------------------

func TestReportService_ExportPDF(t *testing.T) {
	svc := newReportService(marchFixtures())

	out, err := svc.ExportPDF(context.Background(), report.RangeCustom, march2024)

	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "Total miles: 50.00")
	assert.Contains(t, string(out), "Reporting period: 2024-03-01 to 2024-03-31")
}

func TestReportService_ExportCSV(t *testing.T) {
	svc := newReportService(marchFixtures())

	out, err := svc.ExportCSV(context.Background(), report.RangeCustom, march2024)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one trip plus one expense")
	assert.Equal(t, "trip", rows[1][0])
	assert.Equal(t, "expense", rows[2][0])
}

// ---- QuickRanges -------------------------------------------------------------

func TestReportService_QuickRanges(t *testing.T) {
	svc := newReportService(nil, nil)

	got := svc.QuickRanges()

	require.Len(t, got, 4)
	assert.Equal(t, report.RangeThisWeek, got[0].Token)
	assert.Equal(t, report.RangeThisMonth, got[1].Token)
	assert.Equal(t, report.RangeThisYear, got[2].Token)
	assert.Equal(t, report.RangeCustom, got[3].Token)
}

// ---- Dashboard -------------------------------------------------------------

func TestReportService_Dashboard(t *testing.T) {
	trips := make([]domain.Trip, 0, 25)
	for i := 0; i < 25; i++ {
		trips = append(trips, domain.Trip{
			ID:       int64(25 - i),
			TripDate: time.Date(2024, 3, 25-i, 0, 0, 0, 0, time.UTC),
			Miles:    10,
		})
	}
	_, expenses := marchFixtures()
	svc := newReportService(trips, expenses)

	got, err := svc.Dashboard(context.Background())

	require.NoError(t, err)
	assert.Len(t, got.RecentTrips, 20, "recents are capped")
	assert.Equal(t, int64(25), got.RecentTrips[0].ID, "newest first, as the repo returns them")
	assert.Len(t, got.RecentExpenses, 1)
	assert.Equal(t, 250.0, got.Summary.TotalMiles, "totals cover all records, not just recents")
	assert.True(t, got.Summary.DeductionAmount.Equal(decimal.RequireFromString("181.25")))
	assert.Equal(t, 25, got.Summary.TripCount)
	assert.True(t, got.Rate.Equal(standardRate))
}

func TestReportService_Dashboard_Empty(t *testing.T) {
	svc := newReportService(nil, nil)

	got, err := svc.Dashboard(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got.RecentTrips)
	assert.Empty(t, got.RecentTrips)
	assert.NotNil(t, got.RecentExpenses)
	assert.Empty(t, got.RecentExpenses)
	assert.Zero(t, got.Summary.TotalMiles)
	assert.True(t, got.Summary.TotalExpenses.IsZero())
}
