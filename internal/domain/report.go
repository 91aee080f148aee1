package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateRange is an inclusive calendar-date interval.
// Start and End are date-valued (midnight UTC); repos and the range resolver
// both guarantee that, so Contains can compare instants directly.
// Start ≤ End is NOT enforced: an inverted range simply contains nothing.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls within the range, inclusive at both ends.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// ReportSummary holds the derived figures every report is built around.
// It is recomputed from stored records on every request and never persisted.
type ReportSummary struct {
	TotalMiles      float64
	DeductionAmount decimal.Decimal
	TotalExpenses   decimal.Decimal
	TripCount       int
	ExpenseCount    int
}

// Report bundles everything a renderer needs to produce a document:
// the originating range, the summary figures, the in-range records (in
// storage order, date descending then id descending), the mileage rate the
// deduction was computed at, and the generation timestamp for the footer.
type Report struct {
	Range       DateRange
	Summary     ReportSummary
	Trips       []Trip
	Expenses    []Expense
	Rate        decimal.Decimal
	GeneratedAt time.Time
}

// Dashboard is the landing-page snapshot: all-time summary figures, the rate
// the deduction was computed at, plus the most recently logged records of
// each kind.
type Dashboard struct {
	Summary        ReportSummary
	Rate           decimal.Decimal
	RecentTrips    []Trip
	RecentExpenses []Expense
}
