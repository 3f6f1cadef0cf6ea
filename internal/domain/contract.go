package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ContractStatus string

const (
	StatusCancelled         ContractStatus = "Cancelado"
	StatusPendingActivation ContractStatus = "Pendiente_Activacion"
	StatusScheduled         ContractStatus = "Programado"
	StatusActive            ContractStatus = "Activo"
	StatusExpiring          ContractStatus = "Por_Vencer"
	StatusExpired           ContractStatus = "Vencido"
)

var contractStatuses = []ContractStatus{
	StatusCancelled,
	StatusPendingActivation,
	StatusScheduled,
	StatusActive,
	StatusExpiring,
	StatusExpired,
}

// ParseContractStatus accepts any stored or derived status name.
func ParseContractStatus(s string) (ContractStatus, error) {
	for _, st := range contractStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// StatusBaseline is what gets stored for a scheduled contract. Every
// date-driven status is derived on read and never persisted.
const StatusBaseline = StatusScheduled

// Contract is an advertising sale: a plan aired on the pattern's weekdays
// between Start and End.
type Contract struct {
	ID           string
	ClientID     string
	CampaignName string
	AdDetails    string
	PlanID       string
	// Start is nil while the contract is pending activation. End may be
	// set before that, in which case activation uses it.
	Start *time.Time
	End   *time.Time
	// Duration is the requested length, kept so activation can resolve End.
	Duration *Duration
	Pattern  EmissionPattern
	Discount decimal.Decimal
	// SuggestedAmount is written by the engine only.
	SuggestedAmount decimal.Decimal
	// AgreedAmount is written by the operator only; nil until they set it.
	AgreedAmount        *decimal.Decimal
	StoredStatus        ContractStatus
	ReservedSlotsPerDay int
	CreatedAt           time.Time
}

// Amount is the amount the client pays: the agreed one when the operator
// entered it, the suggestion otherwise.
func (c Contract) Amount() decimal.Decimal {
	if c.AgreedAmount != nil {
		return *c.AgreedAmount
	}
	return c.SuggestedAmount
}

// Range returns the scheduled date range, if the contract has one.
func (c Contract) Range() (DateRange, bool) {
	if c.Start == nil || c.End == nil {
		return DateRange{}, false
	}
	return NewDateRange(*c.Start, *c.End), true
}
