package domain

import "time"

// StockDay is the number of advertising slots still sellable on a date.
type StockDay struct {
	Date           time.Time
	AvailableSlots int
}
