package schedule

import (
	"time"

	"github.com/jesuschirre/client-ecom/internal/domain"
)

// ResolveEnd returns the last day of a contract of length d starting on anchor.
//
// Months: anchor + N months - 1 day, with day overflow normalized the way
// time.AddDate does it (Jan 31 + 1 month lands in March). Days: anchor + N - 1,
// so one day is a single-day range.
func ResolveEnd(anchor time.Time, d domain.Duration) (time.Time, error) {
	if err := d.Validate(); err != nil {
		return time.Time{}, err
	}
	anchor = domain.DateOf(anchor)
	switch d.Unit {
	case domain.DurationMonths:
		return anchor.AddDate(0, d.Value, 0).AddDate(0, 0, -1), nil
	default:
		return anchor.AddDate(0, 0, d.Value-1), nil
	}
}

// ResolveRange picks the contract range from explicit dates or a duration.
// An explicit end always wins over the duration.
func ResolveRange(start time.Time, end *time.Time, d *domain.Duration) (domain.DateRange, error) {
	start = domain.DateOf(start)
	if end != nil {
		return domain.NewDateRange(start, *end), nil
	}
	if d == nil {
		return domain.DateRange{}, domain.ErrEndDateRequired
	}
	e, err := ResolveEnd(start, *d)
	if err != nil {
		return domain.DateRange{}, err
	}
	return domain.NewDateRange(start, e), nil
}
