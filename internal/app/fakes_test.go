package app

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jesuschirre/client-ecom/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakePlanRepo struct {
	plans map[string]domain.Plan
}

func newFakePlanRepo(plans ...domain.Plan) *fakePlanRepo {
	m := make(map[string]domain.Plan, len(plans))
	for _, p := range plans {
		m[p.ID] = p
	}
	return &fakePlanRepo{plans: m}
}

func (f *fakePlanRepo) GetPlan(_ context.Context, id string) (domain.Plan, error) {
	p, ok := f.plans[id]
	if !ok {
		return domain.Plan{}, domain.ErrPlanNotFound
	}
	return p, nil
}

type fakeContractRepo struct {
	contracts map[string]domain.Contract
	createErr error
	txCount   int
}

func newFakeContractRepo(contracts ...domain.Contract) *fakeContractRepo {
	m := make(map[string]domain.Contract, len(contracts))
	for _, c := range contracts {
		m[c.ID] = c
	}
	return &fakeContractRepo{contracts: m}
}

// WithTx snapshots the contracts and restores them when fn fails, so tests
// can assert nothing was written on error.
func (f *fakeContractRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txCount++
	snapshot := make(map[string]domain.Contract, len(f.contracts))
	for k, v := range f.contracts {
		snapshot[k] = v
	}
	if err := fn(ctx); err != nil {
		f.contracts = snapshot
		return err
	}
	return nil
}

func (f *fakeContractRepo) CreateContract(_ context.Context, c domain.Contract) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.contracts[c.ID] = c
	return nil
}

func (f *fakeContractRepo) GetContract(_ context.Context, id string) (domain.Contract, error) {
	c, ok := f.contracts[id]
	if !ok {
		return domain.Contract{}, domain.ErrContractNotFound
	}
	return c, nil
}

func (f *fakeContractRepo) GetContractForUpdate(ctx context.Context, id string) (domain.Contract, error) {
	return f.GetContract(ctx, id)
}

// UpdateContract keeps the stored agreed amount, like the Postgres repository.
func (f *fakeContractRepo) UpdateContract(_ context.Context, c domain.Contract) error {
	stored, ok := f.contracts[c.ID]
	if !ok {
		return domain.ErrContractNotFound
	}
	c.AgreedAmount = stored.AgreedAmount
	f.contracts[c.ID] = c
	return nil
}

func (f *fakeContractRepo) UpdateAgreedAmount(_ context.Context, id string, amount decimal.Decimal) error {
	c, ok := f.contracts[id]
	if !ok {
		return domain.ErrContractNotFound
	}
	c.AgreedAmount = &amount
	f.contracts[id] = c
	return nil
}

func (f *fakeContractRepo) ListContracts(_ context.Context) ([]domain.Contract, error) {
	out := make([]domain.Contract, 0, len(f.contracts))
	for _, c := range f.contracts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeStockRepo struct {
	slots     map[time.Time]int
	lookupErr error
	locked    []domain.DateRange
}

func newFakeStockRepo(slots map[time.Time]int) *fakeStockRepo {
	if slots == nil {
		slots = make(map[time.Time]int)
	}
	return &fakeStockRepo{slots: slots}
}

func (f *fakeStockRepo) GetAvailability(_ context.Context, r domain.DateRange) (map[time.Time]int, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	out := make(map[time.Time]int)
	for d, n := range f.slots {
		if r.Contains(d) {
			out[d] = n
		}
	}
	return out, nil
}

func (f *fakeStockRepo) LockRange(ctx context.Context, r domain.DateRange, defaultCapacity int) (map[time.Time]int, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		if _, ok := f.slots[d]; !ok {
			f.slots[d] = defaultCapacity
		}
	}
	f.locked = append(f.locked, r)
	return f.GetAvailability(ctx, r)
}

func (f *fakeStockRepo) ListStock(_ context.Context, r domain.DateRange) ([]domain.StockDay, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	var out []domain.StockDay
	for d, n := range f.slots {
		if r.Contains(d) {
			out = append(out, domain.StockDay{Date: d, AvailableSlots: n})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeStockRepo) SetSlots(_ context.Context, day time.Time, slots int) error {
	f.slots[day] = slots
	return nil
}

func (f *fakeStockRepo) AdjustSlots(_ context.Context, days []time.Time, delta int) error {
	for _, d := range days {
		if _, ok := f.slots[d]; !ok {
			return errors.New("adjust unknown day")
		}
		f.slots[d] += delta
	}
	return nil
}
