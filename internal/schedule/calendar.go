// Package schedule expands contract date ranges into concrete on-air days.
package schedule

import (
	"time"

	"github.com/jesuschirre/client-ecom/internal/domain"
)

// Day is one calendar date of a contract range.
type Day struct {
	Date     time.Time
	Weekday  time.Weekday
	Emitting bool
}

// Expand returns every date from r.Start to r.End inclusive, in order.
// An inverted range yields no dates.
func Expand(r domain.DateRange) []time.Time {
	r = domain.NewDateRange(r.Start, r.End)
	n := TotalDays(r)
	if n == 0 {
		return nil
	}
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, r.Start.AddDate(0, 0, i))
	}
	return out
}

// TotalDays is End-Start+1 for a valid range and 0 otherwise.
func TotalDays(r domain.DateRange) int {
	return domain.NewDateRange(r.Start, r.End).Days()
}

// Classify tags each date with its weekday and whether the pattern airs on it.
func Classify(dates []time.Time, pattern domain.EmissionPattern) []Day {
	out := make([]Day, 0, len(dates))
	for _, d := range dates {
		wd := d.Weekday()
		out = append(out, Day{Date: d, Weekday: wd, Emitting: pattern.Active(wd)})
	}
	return out
}

// ActiveDays keeps only the emitting days.
func ActiveDays(days []Day) []time.Time {
	var out []time.Time
	for _, d := range days {
		if d.Emitting {
			out = append(out, d.Date)
		}
	}
	return out
}

// Plan expands and classifies r in one step.
func Plan(r domain.DateRange, pattern domain.EmissionPattern) []Day {
	return Classify(Expand(r), pattern)
}

// CountActive counts emitting days of r without building the calendar.
func CountActive(r domain.DateRange, pattern domain.EmissionPattern) int {
	r = domain.NewDateRange(r.Start, r.End)
	n := 0
	for i, total := 0, TotalDays(r); i < total; i++ {
		if pattern.Active(r.Start.AddDate(0, 0, i).Weekday()) {
			n++
		}
	}
	return n
}
