package domain

import (
	"strings"
	"time"
)

// EmissionPattern is the immutable set of weekdays on which an ad airs.
type EmissionPattern struct {
	mask uint8
}

// weekOrder lists weekdays the way the station reads a week: Monday first.
var weekOrder = [7]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "lunes",
	time.Tuesday:   "martes",
	time.Wednesday: "miercoles",
	time.Thursday:  "jueves",
	time.Friday:    "viernes",
	time.Saturday:  "sabado",
	time.Sunday:    "domingo",
}

func NewEmissionPattern(days ...time.Weekday) EmissionPattern {
	var p EmissionPattern
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			continue
		}
		p.mask |= 1 << uint(d)
	}
	return p
}

// WeekdaysPattern is the default pattern for new contracts (Monday to Friday).
func WeekdaysPattern() EmissionPattern {
	return NewEmissionPattern(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
}

// ParseEmissionPattern builds a pattern from wire weekday names (lunes..domingo).
// English names are accepted too. Duplicates are ignored.
func ParseEmissionPattern(names []string) (EmissionPattern, error) {
	var days []time.Weekday
	for _, name := range names {
		d, err := ParseWeekday(name)
		if err != nil {
			return EmissionPattern{}, err
		}
		days = append(days, d)
	}
	return NewEmissionPattern(days...), nil
}

func ParseWeekday(name string) (time.Weekday, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for d, n := range weekdayNames {
		if n == name || strings.ToLower(d.String()) == name {
			return d, nil
		}
	}
	switch name {
	case "miércoles":
		return time.Wednesday, nil
	case "sábado":
		return time.Saturday, nil
	}
	return 0, ErrInvalidWeekday
}

func WeekdayName(d time.Weekday) string {
	return weekdayNames[d]
}

func (p EmissionPattern) Active(d time.Weekday) bool {
	return p.mask&(1<<uint(d)) != 0
}

func (p EmissionPattern) Empty() bool {
	return p.mask == 0
}

func (p EmissionPattern) Count() int {
	n := 0
	for _, d := range weekOrder {
		if p.Active(d) {
			n++
		}
	}
	return n
}

// Validate rejects a pattern with no active weekday.
func (p EmissionPattern) Validate() error {
	if p.Empty() {
		return ErrEmptyEmissionPattern
	}
	return nil
}

// Weekdays returns the active weekdays, Monday first.
func (p EmissionPattern) Weekdays() []time.Weekday {
	out := make([]time.Weekday, 0, 7)
	for _, d := range weekOrder {
		if p.Active(d) {
			out = append(out, d)
		}
	}
	return out
}

// Names returns the wire names of the active weekdays, Monday first.
func (p EmissionPattern) Names() []string {
	days := p.Weekdays()
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, weekdayNames[d])
	}
	return out
}
