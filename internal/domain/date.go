package domain

import "time"

// DateLayout is the wire and storage layout for civil dates.
const DateLayout = "2006-01-02"

// DateOf returns the civil date of t (in t's own location) as midnight UTC.
// All dates handled by the engine are normalized this way so that they can be
// compared, subtracted and used as map keys without timezone drift.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MaxRangeDays is the longest contract or stock range accepted, in days.
const MaxRangeDays = 3660

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the number of whole days from `from` to `to`.
// Negative when `to` is before `from`. Counted on Unix seconds because
// time.Duration saturates after about 292 years.
func DaysBetween(from, to time.Time) int {
	return int((DateOf(to).Unix() - DateOf(from).Unix()) / secondsPerDay)
}

// DateRange is an inclusive range of civil dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: DateOf(start), End: DateOf(end)}
}

// Valid reports whether End is not before Start.
func (r DateRange) Valid() bool {
	return !r.End.Before(r.Start)
}

// Days is the inclusive day count of r, 0 when inverted.
func (r DateRange) Days() int {
	if !r.Valid() {
		return 0
	}
	return DaysBetween(r.Start, r.End) + 1
}

// TooLong reports whether r spans more than MaxRangeDays.
func (r DateRange) TooLong() bool {
	return r.Days() > MaxRangeDays
}

// Validate rejects an inverted range and one longer than MaxRangeDays.
func (r DateRange) Validate() error {
	if !r.Valid() || r.TooLong() {
		return ErrInvalidDateRange
	}
	return nil
}

func (r DateRange) Contains(d time.Time) bool {
	d = DateOf(d)
	return !d.Before(r.Start) && !d.After(r.End)
}
