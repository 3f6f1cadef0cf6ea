package domain

import "github.com/shopspring/decimal"

// Plan is a sellable advertising package. Plans are managed elsewhere; the
// engine only reads them.
type Plan struct {
	ID                  string
	Name                string
	MonthlyRate         decimal.Decimal
	RequiredSlotsPerDay int
	Featured            bool
	Disabled            bool
}
