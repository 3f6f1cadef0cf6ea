package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jesuschirre/client-ecom/internal/clock"
	"github.com/jesuschirre/client-ecom/internal/domain"
	"github.com/jesuschirre/client-ecom/internal/inventory"
	"github.com/jesuschirre/client-ecom/internal/pricing"
	"github.com/jesuschirre/client-ecom/internal/schedule"
)

type PlanRepository interface {
	GetPlan(ctx context.Context, id string) (domain.Plan, error)
}

// QuoteService prices a prospective contract and checks its stock without
// persisting anything.
type QuoteService struct {
	plans      PlanRepository
	reconciler *inventory.Reconciler
	clock      clock.Clock
}

func NewQuoteService(plans PlanRepository, reconciler *inventory.Reconciler, clk clock.Clock) *QuoteService {
	return &QuoteService{
		plans:      plans,
		reconciler: reconciler,
		clock:      clk,
	}
}

type QuoteInput struct {
	PlanID string
	// Start defaults to today when nil.
	Start *time.Time
	// End wins over Duration when both are set.
	End      *time.Time
	Duration *domain.Duration
	Pattern  domain.EmissionPattern
	Discount decimal.Decimal
}

type Quote struct {
	Plan         domain.Plan
	Range        domain.DateRange
	Pricing      pricing.Result
	Availability inventory.Report
}

func (s *QuoteService) Quote(ctx context.Context, in QuoteInput) (Quote, error) {
	if in.PlanID == "" {
		return Quote{}, domain.ErrInvalidID
	}
	if err := in.Pattern.Validate(); err != nil {
		return Quote{}, err
	}
	if in.Discount.IsNegative() {
		return Quote{}, domain.ErrInvalidDiscount
	}

	plan, err := s.plans.GetPlan(ctx, in.PlanID)
	if err != nil {
		return Quote{}, err
	}

	start := clock.Today(s.clock)
	if in.Start != nil {
		start = *in.Start
	}
	rng, err := schedule.ResolveRange(start, in.End, in.Duration)
	if err != nil {
		return Quote{}, err
	}
	// An inverted range prices to zero; an oversized one is refused.
	if rng.TooLong() {
		return Quote{}, domain.ErrInvalidDateRange
	}

	priced, err := pricing.Quote(plan.MonthlyRate, rng, in.Pattern, in.Discount)
	if err != nil {
		return Quote{}, err
	}
	report, err := s.reconciler.Reconcile(ctx, schedule.Plan(rng, in.Pattern), plan.RequiredSlotsPerDay)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		Plan:         plan,
		Range:        rng,
		Pricing:      priced,
		Availability: report,
	}, nil
}
