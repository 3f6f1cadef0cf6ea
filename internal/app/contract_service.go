package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jesuschirre/client-ecom/internal/clock"
	"github.com/jesuschirre/client-ecom/internal/domain"
	"github.com/jesuschirre/client-ecom/internal/inventory"
	"github.com/jesuschirre/client-ecom/internal/pricing"
	"github.com/jesuschirre/client-ecom/internal/schedule"
	"github.com/jesuschirre/client-ecom/internal/status"
)

type ContractRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateContract(ctx context.Context, c domain.Contract) error
	GetContract(ctx context.Context, id string) (domain.Contract, error)
	GetContractForUpdate(ctx context.Context, id string) (domain.Contract, error)
	UpdateContract(ctx context.Context, c domain.Contract) error
	UpdateAgreedAmount(ctx context.Context, id string, amount decimal.Decimal) error
	ListContracts(ctx context.Context) ([]domain.Contract, error)
}

// StockRepository is the slot inventory. LockRange and AdjustSlots must run
// inside a ContractRepository transaction.
type StockRepository interface {
	// LockRange seeds days of r without a record at defaultCapacity, locks
	// every day of r and returns the locked availability.
	LockRange(ctx context.Context, r domain.DateRange, defaultCapacity int) (map[time.Time]int, error)
	// AdjustSlots adds delta to the available slots of each day.
	AdjustSlots(ctx context.Context, days []time.Time, delta int) error
}

type ContractService struct {
	repo          ContractRepository
	plans         PlanRepository
	stock         StockRepository
	clock         clock.Clock
	capacity      int
	allowOverbook bool
	logger        *zap.Logger
}

func NewContractService(repo ContractRepository, plans PlanRepository, stock StockRepository, clk clock.Clock, opts ...ContractServiceOption) *ContractService {
	svc := &ContractService{
		repo:     repo,
		plans:    plans,
		stock:    stock,
		clock:    clk,
		capacity: inventory.DefaultCapacity,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ContractServiceOption func(*ContractService)

// WithDefaultCapacity overrides the slot count seeded for days with no stock record.
func WithDefaultCapacity(n int) ContractServiceOption {
	return func(s *ContractService) {
		if n >= 0 {
			s.capacity = n
		}
	}
}

// WithOverbooking lets scheduling proceed when some days lack slots.
func WithOverbooking(allow bool) ContractServiceOption {
	return func(s *ContractService) {
		s.allowOverbook = allow
	}
}

func WithLogger(l *zap.Logger) ContractServiceOption {
	return func(s *ContractService) {
		if l != nil {
			s.logger = l
		}
	}
}

// ContractView is a contract as shown to operators: stored fields plus the
// derived status and the effective amount.
type ContractView struct {
	Contract domain.Contract
	Status   domain.ContractStatus
	Amount   decimal.Decimal
}

type CreateContractInput struct {
	ClientID     string
	CampaignName string
	AdDetails    string
	PlanID       string
	// Without Start the contract waits in Pendiente_Activacion.
	Start    *time.Time
	End      *time.Time
	Duration *domain.Duration
	Pattern  domain.EmissionPattern
	Discount decimal.Decimal
	// AgreedAmount is the operator's amount; nil keeps the suggestion.
	AgreedAmount *decimal.Decimal
}

func (in CreateContractInput) validate() error {
	if in.ClientID == "" {
		return domain.ErrClientRequired
	}
	if in.CampaignName == "" {
		return domain.ErrCampaignNameRequired
	}
	if in.PlanID == "" {
		return domain.ErrInvalidID
	}
	if err := in.Pattern.Validate(); err != nil {
		return err
	}
	if in.Discount.IsNegative() {
		return domain.ErrInvalidDiscount
	}
	if in.AgreedAmount != nil && in.AgreedAmount.IsNegative() {
		return domain.ErrInvalidAmount
	}
	if in.Duration != nil {
		if err := in.Duration.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (s *ContractService) Create(ctx context.Context, in CreateContractInput) (ContractView, error) {
	if err := in.validate(); err != nil {
		return ContractView{}, err
	}

	plan, err := s.plans.GetPlan(ctx, in.PlanID)
	if err != nil {
		return ContractView{}, err
	}
	if plan.Disabled {
		return ContractView{}, domain.ErrPlanDisabled
	}

	c := domain.Contract{
		ID:           newUUID(),
		ClientID:     in.ClientID,
		CampaignName: in.CampaignName,
		AdDetails:    in.AdDetails,
		PlanID:       plan.ID,
		Duration:     in.Duration,
		Pattern:      in.Pattern,
		Discount:     in.Discount,
		AgreedAmount: in.AgreedAmount,
		StoredStatus: domain.StatusPendingActivation,
		CreatedAt:    s.clock.Now(),
	}

	if in.Start == nil {
		if in.End != nil {
			end := domain.DateOf(*in.End)
			c.End = &end
		}
		if err := s.repo.CreateContract(ctx, c); err != nil {
			return ContractView{}, err
		}
		s.logger.Info("contract created pending activation", zap.String("contract_id", c.ID))
		return s.view(c), nil
	}

	rng, err := schedule.ResolveRange(*in.Start, in.End, in.Duration)
	if err != nil {
		return ContractView{}, err
	}
	if err := rng.Validate(); err != nil {
		return ContractView{}, err
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.scheduleContract(txCtx, &c, plan, rng, time.Time{}); err != nil {
			return err
		}
		return s.repo.CreateContract(txCtx, c)
	})
	if err != nil {
		return ContractView{}, err
	}

	s.logger.Info("contract scheduled",
		zap.String("contract_id", c.ID),
		zap.String("start", domain.FormatDate(rng.Start)),
		zap.String("end", domain.FormatDate(rng.End)),
		zap.Int("reserved_slots_per_day", c.ReservedSlotsPerDay),
	)
	return s.view(c), nil
}

type ActivateContractInput struct {
	ID string
	// Start defaults to today.
	Start *time.Time
	// End wins over Duration. Without either, the end or duration stored at
	// creation is used.
	End      *time.Time
	Duration *domain.Duration
}

// Activate schedules a contract that was created without a start date.
func (s *ContractService) Activate(ctx context.Context, in ActivateContractInput) (ContractView, error) {
	if in.ID == "" {
		return ContractView{}, domain.ErrInvalidID
	}

	var result domain.Contract
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		c, err := s.repo.GetContractForUpdate(txCtx, in.ID)
		if err != nil {
			return err
		}
		switch c.StoredStatus {
		case domain.StatusCancelled:
			return domain.ErrContractCancelled
		case domain.StatusPendingActivation:
		default:
			return domain.ErrContractNotPending
		}

		plan, err := s.plans.GetPlan(txCtx, c.PlanID)
		if err != nil {
			return err
		}

		start := clock.Today(s.clock)
		if in.Start != nil {
			start = *in.Start
		}
		end, dur := in.End, in.Duration
		if end == nil && dur == nil {
			end, dur = c.End, c.Duration
		}
		rng, err := schedule.ResolveRange(start, end, dur)
		if err != nil {
			return err
		}
		if err := rng.Validate(); err != nil {
			return err
		}
		if in.Duration != nil {
			c.Duration = in.Duration
		}

		if err := s.scheduleContract(txCtx, &c, plan, rng, time.Time{}); err != nil {
			return err
		}
		if err := s.repo.UpdateContract(txCtx, c); err != nil {
			return err
		}
		result = c
		return nil
	})
	if err != nil {
		return ContractView{}, err
	}

	s.logger.Info("contract activated", zap.String("contract_id", result.ID))
	return s.view(result), nil
}

// Cancel marks a contract Cancelado and gives back the slots it still holds
// from today on.
func (s *ContractService) Cancel(ctx context.Context, id string) (ContractView, error) {
	if id == "" {
		return ContractView{}, domain.ErrInvalidID
	}

	today := clock.Today(s.clock)
	var result domain.Contract
	released := 0
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		c, err := s.repo.GetContractForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if c.StoredStatus == domain.StatusCancelled {
			return domain.ErrContractCancelled
		}

		n, err := s.release(txCtx, &c, today)
		if err != nil {
			return err
		}
		released = n

		c.StoredStatus = domain.StatusCancelled
		if err := s.repo.UpdateContract(txCtx, c); err != nil {
			return err
		}
		result = c
		return nil
	})
	if err != nil {
		return ContractView{}, err
	}

	s.logger.Info("contract cancelled", zap.String("contract_id", id), zap.Int("released_days", released))
	return s.view(result), nil
}

type RescheduleContractInput struct {
	ID       string
	PlanID   string
	Start    *time.Time
	End      *time.Time
	Duration *domain.Duration
	Pattern  domain.EmissionPattern
	Discount decimal.Decimal
}

func (in RescheduleContractInput) validate() error {
	if in.ID == "" || in.PlanID == "" {
		return domain.ErrInvalidID
	}
	if err := in.Pattern.Validate(); err != nil {
		return err
	}
	if in.Discount.IsNegative() {
		return domain.ErrInvalidDiscount
	}
	if in.Duration != nil {
		return in.Duration.Validate()
	}
	return nil
}

// Reschedule edits the plan, dates, pattern and discount of a contract and
// prices it again. Slots held from today on are given back and the new
// schedule is reserved in the same transaction. Only the suggested amount is
// recomputed: an agreed amount set by the operator stays as it is.
//
// A pending contract edited without a start stays pending.
func (s *ContractService) Reschedule(ctx context.Context, in RescheduleContractInput) (ContractView, error) {
	if err := in.validate(); err != nil {
		return ContractView{}, err
	}

	today := clock.Today(s.clock)
	var result domain.Contract
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		c, err := s.repo.GetContractForUpdate(txCtx, in.ID)
		if err != nil {
			return err
		}
		if c.StoredStatus == domain.StatusCancelled {
			return domain.ErrContractCancelled
		}

		plan, err := s.plans.GetPlan(txCtx, in.PlanID)
		if err != nil {
			return err
		}
		if plan.Disabled && plan.ID != c.PlanID {
			return domain.ErrPlanDisabled
		}

		start := in.Start
		if start == nil {
			start = c.Start
		}
		end, dur := in.End, in.Duration
		if end == nil && dur == nil {
			end, dur = c.End, c.Duration
		}

		var rng domain.DateRange
		if start != nil {
			if rng, err = schedule.ResolveRange(*start, end, dur); err != nil {
				return err
			}
			if err := rng.Validate(); err != nil {
				return err
			}
		}

		if _, err := s.release(txCtx, &c, today); err != nil {
			return err
		}
		c.PlanID = plan.ID
		c.Pattern = in.Pattern
		c.Discount = in.Discount
		if in.Duration != nil {
			c.Duration = in.Duration
		}

		if start == nil {
			c.End = nil
			if end != nil {
				e := domain.DateOf(*end)
				c.End = &e
			}
		} else if err := s.scheduleContract(txCtx, &c, plan, rng, today); err != nil {
			return err
		}

		if err := s.repo.UpdateContract(txCtx, c); err != nil {
			return err
		}
		result = c
		return nil
	})
	if err != nil {
		return ContractView{}, err
	}

	s.logger.Info("contract rescheduled",
		zap.String("contract_id", result.ID),
		zap.String("plan_id", result.PlanID),
		zap.String("suggested_amount", result.SuggestedAmount.StringFixed(2)),
	)
	return s.view(result), nil
}

// UpdateAgreedAmount records the operator's amount. The suggested amount is
// left as computed.
func (s *ContractService) UpdateAgreedAmount(ctx context.Context, id string, amount decimal.Decimal) (ContractView, error) {
	if id == "" {
		return ContractView{}, domain.ErrInvalidID
	}
	if amount.IsNegative() {
		return ContractView{}, domain.ErrInvalidAmount
	}

	var result domain.Contract
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		c, err := s.repo.GetContractForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if c.StoredStatus == domain.StatusCancelled {
			return domain.ErrContractCancelled
		}
		if err := s.repo.UpdateAgreedAmount(txCtx, id, amount); err != nil {
			return err
		}
		c.AgreedAmount = &amount
		result = c
		return nil
	})
	if err != nil {
		return ContractView{}, err
	}
	return s.view(result), nil
}

func (s *ContractService) Get(ctx context.Context, id string) (ContractView, error) {
	if id == "" {
		return ContractView{}, domain.ErrInvalidID
	}
	c, err := s.repo.GetContract(ctx, id)
	if err != nil {
		return ContractView{}, err
	}
	return s.view(c), nil
}

// ListFilter narrows List. The zero value lists everything.
type ListFilter struct {
	// Status matches the displayed status, so it is applied after derivation.
	Status domain.ContractStatus
}

func (s *ContractService) List(ctx context.Context, filter ListFilter) ([]ContractView, error) {
	if filter.Status != "" {
		if _, err := domain.ParseContractStatus(string(filter.Status)); err != nil {
			return nil, err
		}
	}
	contracts, err := s.repo.ListContracts(ctx)
	if err != nil {
		return nil, err
	}
	today := clock.Today(s.clock)
	out := make([]ContractView, 0, len(contracts))
	for _, c := range contracts {
		v := viewAt(c, today)
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// Summary counts contracts by displayed status.
func (s *ContractService) Summary(ctx context.Context) (status.Summary, error) {
	views, err := s.List(ctx, ListFilter{})
	if err != nil {
		return status.Summary{}, err
	}
	statuses := make([]domain.ContractStatus, 0, len(views))
	for _, v := range views {
		statuses = append(statuses, v.Status)
	}
	return status.Summarize(statuses), nil
}

// scheduleContract prices c over rng and reserves its slots for the days on
// or after from (all of rng when from is zero). It must run inside a
// transaction: the stock rows stay locked until commit, so two contracts
// cannot both take the last slots of a day.
func (s *ContractService) scheduleContract(ctx context.Context, c *domain.Contract, plan domain.Plan, rng domain.DateRange, from time.Time) error {
	priced, err := pricing.Quote(plan.MonthlyRate, rng, c.Pattern, c.Discount)
	if err != nil {
		return err
	}

	reserve := rng
	if !from.IsZero() && from.After(reserve.Start) {
		reserve.Start = domain.DateOf(from)
	}
	if plan.RequiredSlotsPerDay > 0 && reserve.Valid() {
		days := schedule.Plan(reserve, c.Pattern)
		locked, err := s.stock.LockRange(ctx, reserve, s.capacity)
		if err != nil {
			return err
		}
		rec := inventory.NewReconciler(inventory.StaticLookup(locked),
			inventory.WithDefaultCapacity(s.capacity),
			inventory.WithLogger(s.logger),
		)
		report, err := rec.Reconcile(ctx, days, plan.RequiredSlotsPerDay)
		if err != nil {
			return err
		}
		if !report.Complete() {
			return domain.ErrAvailabilityUnknown
		}
		if report.HasConflicts() {
			if !s.allowOverbook {
				return domain.ErrInsufficientSlots
			}
			s.logger.Warn("overbooking contract",
				zap.String("contract_id", c.ID),
				zap.Int("conflict_days", report.ConflictDayCount),
			)
		}
		if active := schedule.ActiveDays(days); len(active) > 0 {
			if err := s.stock.AdjustSlots(ctx, active, -plan.RequiredSlotsPerDay); err != nil {
				return err
			}
		}
	}

	start, end := rng.Start, rng.End
	c.Start = &start
	c.End = &end
	c.SuggestedAmount = priced.FinalPrice
	c.ReservedSlotsPerDay = plan.RequiredSlotsPerDay
	c.StoredStatus = domain.StatusBaseline
	return nil
}

// release gives back the slots c holds on its emitting days from today on
// and clears the reservation. It returns the number of days released.
func (s *ContractService) release(ctx context.Context, c *domain.Contract, today time.Time) (int, error) {
	rng, ok := c.Range()
	if !ok || c.ReservedSlotsPerDay <= 0 {
		c.ReservedSlotsPerDay = 0
		return 0, nil
	}
	var future []time.Time
	for _, d := range schedule.ActiveDays(schedule.Plan(rng, c.Pattern)) {
		if !d.Before(today) {
			future = append(future, d)
		}
	}
	if len(future) > 0 {
		if err := s.stock.AdjustSlots(ctx, future, c.ReservedSlotsPerDay); err != nil {
			return 0, err
		}
	}
	c.ReservedSlotsPerDay = 0
	return len(future), nil
}

func (s *ContractService) view(c domain.Contract) ContractView {
	return viewAt(c, clock.Today(s.clock))
}

func viewAt(c domain.Contract, today time.Time) ContractView {
	return ContractView{
		Contract: c,
		Status:   status.DeriveContract(c, today),
		Amount:   c.Amount(),
	}
}
