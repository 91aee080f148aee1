package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/drivebook/backend/internal/domain"
)

// FilterTrips returns the trips whose trip_date falls within r, inclusive at
// both bounds. The input slice is never modified and its order is preserved.
func FilterTrips(trips []domain.Trip, r domain.DateRange) []domain.Trip {
	out := make([]domain.Trip, 0, len(trips))
	for _, t := range trips {
		if r.Contains(t.TripDate) {
			out = append(out, t)
		}
	}
	return out
}

// FilterExpenses returns the expenses whose expense_date falls within r,
// inclusive at both bounds, preserving input order.
func FilterExpenses(expenses []domain.Expense, r domain.DateRange) []domain.Expense {
	out := make([]domain.Expense, 0, len(expenses))
	for _, e := range expenses {
		if r.Contains(e.ExpenseDate) {
			out = append(out, e)
		}
	}
	return out
}

// TotalMiles sums miles across trips. An empty slice sums to 0.
func TotalMiles(trips []domain.Trip) float64 {
	var total float64
	for _, t := range trips {
		total += t.Miles
	}
	return total
}

// TotalExpenses sums expense amounts. An empty slice sums to decimal zero.
func TotalExpenses(expenses []domain.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// Deduction computes the mileage deduction: miles multiplied by the per-mile
// rate, carried out in decimal so 123.45 miles at 0.725 yields exactly
// 89.50125 rather than a float artifact.
func Deduction(miles float64, rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(miles).Mul(rate)
}

// Summarize computes the report figures from already-filtered records.
func Summarize(trips []domain.Trip, expenses []domain.Expense, rate decimal.Decimal) domain.ReportSummary {
	miles := TotalMiles(trips)
	return domain.ReportSummary{
		TotalMiles:      miles,
		DeductionAmount: Deduction(miles, rate),
		TotalExpenses:   TotalExpenses(expenses),
		TripCount:       len(trips),
		ExpenseCount:    len(expenses),
	}
}

// Build filters both record sets into r and assembles the complete Report a
// renderer consumes. trips and expenses are the full storage snapshots in
// storage order; generatedAt becomes the document footer timestamp.
func Build(trips []domain.Trip, expenses []domain.Expense, r domain.DateRange, rate decimal.Decimal, generatedAt time.Time) domain.Report {
	inRangeTrips := FilterTrips(trips, r)
	inRangeExpenses := FilterExpenses(expenses, r)

	return domain.Report{
		Range:       r,
		Summary:     Summarize(inRangeTrips, inRangeExpenses, rate),
		Trips:       inRangeTrips,
		Expenses:    inRangeExpenses,
		Rate:        rate,
		GeneratedAt: generatedAt,
	}
}
