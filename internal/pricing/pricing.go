// Package pricing prorates a plan's monthly rate over a contract's emission days.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jesuschirre/client-ecom/internal/domain"
	"github.com/jesuschirre/client-ecom/internal/schedule"
)

// DaysPerMonth is the fixed month length used to derive the daily rate. It is
// not calendar accurate; historical prices were computed this way and must
// stay reproducible.
const DaysPerMonth = 30

var daysPerMonth = decimal.NewFromInt(DaysPerMonth)

// Result is the priced view of a date range. It is always recomputable and
// never persisted as such.
type Result struct {
	TotalCalendarDays  int
	ActiveEmissionDays int
	DailyRate          decimal.Decimal
	Gross              decimal.Decimal
	Discount           decimal.Decimal
	FinalPrice         decimal.Decimal
}

// DailyRate is monthlyRate / 30.
func DailyRate(monthlyRate decimal.Decimal) decimal.Decimal {
	return monthlyRate.Div(daysPerMonth)
}

// Calculate returns max(monthlyRate/30*activeDays - discount, 0) rounded to cents.
func Calculate(monthlyRate decimal.Decimal, activeDays int, discount decimal.Decimal) (decimal.Decimal, error) {
	gross, err := gross(monthlyRate, activeDays, discount)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return finalPrice(gross, discount), nil
}

// Quote prices r under pattern. An inverted range prices to zero; an empty
// pattern is rejected before anything is computed.
func Quote(monthlyRate decimal.Decimal, r domain.DateRange, pattern domain.EmissionPattern, discount decimal.Decimal) (Result, error) {
	if err := pattern.Validate(); err != nil {
		return Result{}, err
	}
	active := schedule.CountActive(r, pattern)
	g, err := gross(monthlyRate, active, discount)
	if err != nil {
		return Result{}, err
	}
	return Result{
		TotalCalendarDays:  schedule.TotalDays(r),
		ActiveEmissionDays: active,
		DailyRate:          DailyRate(monthlyRate),
		Gross:              g.Round(2),
		Discount:           discount,
		FinalPrice:         finalPrice(g, discount),
	}, nil
}

func gross(monthlyRate decimal.Decimal, activeDays int, discount decimal.Decimal) (decimal.Decimal, error) {
	if !monthlyRate.IsPositive() {
		return decimal.Decimal{}, domain.ErrInvalidRate
	}
	if discount.IsNegative() {
		return decimal.Decimal{}, domain.ErrInvalidDiscount
	}
	if activeDays < 0 {
		activeDays = 0
	}
	// rate*days/30 equals (rate/30)*days without the intermediate truncation.
	return monthlyRate.Mul(decimal.NewFromInt(int64(activeDays))).Div(daysPerMonth), nil
}

func finalPrice(gross, discount decimal.Decimal) decimal.Decimal {
	net := gross.Sub(discount)
	if net.IsNegative() {
		return decimal.Zero.Round(2)
	}
	// Round is half away from zero, which is half-up for non-negative amounts.
	return net.Round(2)
}
