// Package report implements the reporting engine: resolving named date
// ranges into concrete intervals, aggregating trips and expenses over an
// interval, and rendering the result as a PDF or CSV document.
//
// Everything here is a pure function of its inputs. Storage snapshots come
// in, documents and totals come out; nothing is mutated or cached.
package report

import (
	"time"

	"github.com/drivebook/backend/internal/domain"
)

// Range tokens accepted on the wire.
const (
	RangeThisWeek  = "this_week"
	RangeThisMonth = "this_month"
	RangeThisYear  = "this_year"
	RangeCustom    = "custom"
)

// rangeLabels maps wire tokens to their display labels.
var rangeLabels = map[string]string{
	RangeThisWeek:  "This Week (Mon-Sun)",
	RangeThisMonth: "This Month",
	RangeThisYear:  "This Year",
	RangeCustom:    "Custom",
}

// Label returns the display label for a range token.
// Unrecognized tokens are labelled as Custom, matching how Resolve treats
// them (an explicit single-day range).
func Label(token string) string {
	if l, ok := rangeLabels[token]; ok {
		return l
	}
	return rangeLabels[RangeCustom]
}

// Resolve turns a range token into a concrete DateRange relative to today.
// The custom bounds are consulted only when token is RangeCustom and pass
// through unchanged, including inverted ranges. Unrecognized tokens resolve
// to the single-day range of today. All branches are total; Resolve never
// fails.
func Resolve(token string, today time.Time, custom domain.DateRange) domain.DateRange {
	day := DateOf(today)
	switch token {
	case RangeThisWeek:
		return weekOf(day)
	case RangeThisMonth:
		return monthOf(day)
	case RangeThisYear:
		return yearOf(day)
	case RangeCustom:
		return custom
	default:
		return domain.DateRange{Start: day, End: day}
	}
}

// QuickRange pairs a range token with its display label and resolved bounds.
type QuickRange struct {
	Token string
	Label string
	Range domain.DateRange
}

// QuickRanges resolves every selector relative to today, for display.
// The custom entry carries today's date as both bounds, the natural default
// for a UI's date pickers.
func QuickRanges(today time.Time) []QuickRange {
	day := DateOf(today)
	tokens := []string{RangeThisWeek, RangeThisMonth, RangeThisYear, RangeCustom}

	out := make([]QuickRange, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, QuickRange{
			Token: tok,
			Label: rangeLabels[tok],
			Range: Resolve(tok, day, domain.DateRange{Start: day, End: day}),
		})
	}
	return out
}

// DateOf truncates t to its calendar date at midnight UTC. All range math
// and aggregation operates on date-valued instants produced here or by the
// repo layer's DATE scans.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weekOf returns the Monday-through-Sunday week containing day.
func weekOf(day time.Time) domain.DateRange {
	// time.Weekday counts Sunday as 0; shift so Monday is offset 0.
	wd := int(day.Weekday())
	if wd == 0 {
		wd = 7
	}
	wd--

	start := day.AddDate(0, 0, -wd)
	return domain.DateRange{Start: start, End: start.AddDate(0, 0, 6)}
}

// monthOf returns the first through last day of day's month. The last day is
// found by stepping from day 28 across the month boundary and backing up one
// day from the first of the next month, which is correct for 28, 29, 30, and
// 31-day months.
func monthOf(day time.Time) domain.DateRange {
	start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)

	nextMonth := time.Date(day.Year(), day.Month(), 28, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 4)
	end := time.Date(nextMonth.Year(), nextMonth.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)

	return domain.DateRange{Start: start, End: end}
}

// yearOf returns January 1 through December 31 of day's year.
func yearOf(day time.Time) domain.DateRange {
	return domain.DateRange{
		Start: time.Date(day.Year(), 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(day.Year(), 12, 31, 0, 0, 0, 0, time.UTC),
	}
}
