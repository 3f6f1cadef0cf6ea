package domain

import "errors"

var (
	ErrInvalidID            = errors.New("invalid id")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidDateRange     = errors.New("invalid date range")
	ErrEndDateRequired      = errors.New("end date or duration required")
	ErrInvalidDuration      = errors.New("invalid duration")
	ErrEmptyEmissionPattern = errors.New("emission pattern has no active weekday")
	ErrInvalidWeekday       = errors.New("invalid weekday")
	ErrInvalidDiscount      = errors.New("invalid discount")
	ErrInvalidRate          = errors.New("invalid monthly rate")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidRequiredSlots = errors.New("invalid required slots per day")
	ErrInvalidStatus        = errors.New("invalid contract status")
	ErrClientRequired       = errors.New("client required")
	ErrCampaignNameRequired = errors.New("campaign name required")
	ErrPlanNotFound         = errors.New("plan not found")
	ErrPlanDisabled         = errors.New("plan disabled")
	ErrContractNotFound     = errors.New("contract not found")
	ErrContractCancelled    = errors.New("contract cancelled")
	ErrContractNotPending   = errors.New("contract not pending activation")
	ErrInsufficientSlots    = errors.New("insufficient advertising slots")
	ErrInvalidSlots         = errors.New("invalid slot count")
	ErrAvailabilityUnknown  = errors.New("availability unknown")
)
