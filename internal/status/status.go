// Package status derives the displayed lifecycle status of a contract.
package status

import (
	"time"

	"github.com/jesuschirre/client-ecom/internal/domain"
)

// ExpiringWindowDays is how close to its end date an active contract is
// shown as about to expire.
const ExpiringWindowDays = 7

// Derive computes the displayed status from stored fields and today's civil
// date. First match wins:
//
//	Cancelado, Pendiente_Activacion (stored), Programado (today < start),
//	Vencido (today > end), Por_Vencer (end - today <= 7 days),
//	Activo (start <= today <= end), otherwise the stored status.
//
// A check that needs a missing date is skipped. Derive is pure.
func Derive(stored domain.ContractStatus, start, end *time.Time, today time.Time) domain.ContractStatus {
	switch stored {
	case domain.StatusCancelled:
		return domain.StatusCancelled
	case domain.StatusPendingActivation:
		return domain.StatusPendingActivation
	}

	today = domain.DateOf(today)
	if start != nil && today.Before(domain.DateOf(*start)) {
		return domain.StatusScheduled
	}
	if end != nil && today.After(domain.DateOf(*end)) {
		return domain.StatusExpired
	}
	if end != nil && domain.DaysBetween(today, *end) <= ExpiringWindowDays {
		return domain.StatusExpiring
	}
	if start != nil && end != nil {
		return domain.StatusActive
	}
	return stored
}

// DeriveContract is Derive over a stored contract.
func DeriveContract(c domain.Contract, today time.Time) domain.ContractStatus {
	return Derive(c.StoredStatus, c.Start, c.End, today)
}

// Summary counts contracts per displayed status.
type Summary struct {
	Total     int
	Active    int
	Scheduled int
	Expiring  int
	Expired   int
	Pending   int
	Cancelled int
}

func Summarize(statuses []domain.ContractStatus) Summary {
	s := Summary{Total: len(statuses)}
	for _, st := range statuses {
		switch st {
		case domain.StatusActive:
			s.Active++
		case domain.StatusScheduled:
			s.Scheduled++
		case domain.StatusExpiring:
			s.Expiring++
		case domain.StatusExpired:
			s.Expired++
		case domain.StatusPendingActivation:
			s.Pending++
		case domain.StatusCancelled:
			s.Cancelled++
		}
	}
	return s
}
