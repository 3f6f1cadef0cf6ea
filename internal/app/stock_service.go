package app

import (
	"context"
	"time"

	"github.com/jesuschirre/client-ecom/internal/domain"
	"github.com/jesuschirre/client-ecom/internal/inventory"
	"github.com/jesuschirre/client-ecom/internal/schedule"
)

// StockLedger is the raw per-day stock store edited from the stock panel.
type StockLedger interface {
	ListStock(ctx context.Context, r domain.DateRange) ([]domain.StockDay, error)
	SetSlots(ctx context.Context, day time.Time, slots int) error
}

// StockService backs the stock panel: day-by-day availability for a range
// and manual edits of a day's slots.
type StockService struct {
	plans      PlanRepository
	ledger     StockLedger
	reconciler *inventory.Reconciler
}

func NewStockService(plans PlanRepository, ledger StockLedger, reconciler *inventory.Reconciler) *StockService {
	return &StockService{
		plans:      plans,
		ledger:     ledger,
		reconciler: reconciler,
	}
}

type AvailabilityInput struct {
	// PlanID is optional; without it no slots are required and the report
	// only shows what is available.
	PlanID  string
	Range   domain.DateRange
	Pattern domain.EmissionPattern
}

func (s *StockService) Availability(ctx context.Context, in AvailabilityInput) (inventory.Report, error) {
	if err := in.Pattern.Validate(); err != nil {
		return inventory.Report{}, err
	}
	if err := in.Range.Validate(); err != nil {
		return inventory.Report{}, err
	}
	required := 0
	if in.PlanID != "" {
		plan, err := s.plans.GetPlan(ctx, in.PlanID)
		if err != nil {
			return inventory.Report{}, err
		}
		required = plan.RequiredSlotsPerDay
	}
	return s.reconciler.Reconcile(ctx, schedule.Plan(in.Range, in.Pattern), required)
}

// ListStock returns the recorded days of r. Missing days are at default capacity.
func (s *StockService) ListStock(ctx context.Context, r domain.DateRange) ([]domain.StockDay, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return s.ledger.ListStock(ctx, r)
}

func (s *StockService) SetSlots(ctx context.Context, day time.Time, slots int) (domain.StockDay, error) {
	if slots < 0 {
		return domain.StockDay{}, domain.ErrInvalidSlots
	}
	day = domain.DateOf(day)
	if err := s.ledger.SetSlots(ctx, day, slots); err != nil {
		return domain.StockDay{}, err
	}
	return domain.StockDay{Date: day, AvailableSlots: slots}, nil
}
