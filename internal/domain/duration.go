package domain

import "strings"

type DurationUnit string

const (
	DurationMonths DurationUnit = "meses"
	DurationDays   DurationUnit = "dias"
)

// Duration is the quick-entry length of a contract ("3 meses", "15 dias").
type Duration struct {
	Unit  DurationUnit
	Value int
}

// ParseDurationUnit accepts the wire names and their English equivalents.
func ParseDurationUnit(s string) (DurationUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "meses", "months", "month":
		return DurationMonths, nil
	case "dias", "días", "days", "day":
		return DurationDays, nil
	}
	return "", ErrInvalidDuration
}

func (d Duration) Validate() error {
	if d.Value <= 0 {
		return ErrInvalidDuration
	}
	if d.Unit != DurationMonths && d.Unit != DurationDays {
		return ErrInvalidDuration
	}
	return nil
}
