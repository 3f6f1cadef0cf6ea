// Package inventory reconciles requested emission days against per-day
// advertising slot stock.
package inventory

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jesuschirre/client-ecom/internal/domain"
	"github.com/jesuschirre/client-ecom/internal/schedule"
)

// DefaultCapacity is the slot count assumed for a date with no stock record.
const DefaultCapacity = 100

type Verdict string

const (
	VerdictNotEmitting  Verdict = "not_emitting"
	VerdictOK           Verdict = "ok"
	VerdictInsufficient Verdict = "insufficient"
	// VerdictUnknown means the stock lookup failed for the day. It is neither
	// ok nor a conflict.
	VerdictUnknown Verdict = "unknown"
)

// Lookup returns available slots per date for r. Dates absent from the map
// have no stock record.
type Lookup interface {
	GetAvailability(ctx context.Context, r domain.DateRange) (map[time.Time]int, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, r domain.DateRange) (map[time.Time]int, error)

func (f LookupFunc) GetAvailability(ctx context.Context, r domain.DateRange) (map[time.Time]int, error) {
	return f(ctx, r)
}

// StaticLookup serves availability from an in-memory snapshot.
type StaticLookup map[time.Time]int

func (s StaticLookup) GetAvailability(_ context.Context, r domain.DateRange) (map[time.Time]int, error) {
	out := make(map[time.Time]int)
	for d, n := range s {
		if r.Contains(d) {
			out[domain.DateOf(d)] = n
		}
	}
	return out, nil
}

// DayReport is the verdict for one calendar day. Available and Shortfall are
// only meaningful when Known is true.
type DayReport struct {
	Date      time.Time
	Weekday   time.Weekday
	Emitting  bool
	Known     bool
	Available int
	Required  int
	Shortfall int
	Verdict   Verdict
}

type Report struct {
	Days             []DayReport
	Required         int
	EmittingDayCount int
	ConflictDayCount int
	UnknownDayCount  int
}

func (r Report) HasConflicts() bool {
	return r.ConflictDayCount > 0
}

// Complete reports whether every emitting day has a known verdict.
func (r Report) Complete() bool {
	return r.UnknownDayCount == 0
}

type Reconciler struct {
	lookup      Lookup
	capacity    int
	windowDays  int
	concurrency int
	timeout     time.Duration
	logger      *zap.Logger
}

type Option func(*Reconciler)

// WithDefaultCapacity overrides DefaultCapacity.
func WithDefaultCapacity(n int) Option {
	return func(r *Reconciler) {
		if n >= 0 {
			r.capacity = n
		}
	}
}

// WithWindowDays splits the range into lookups of at most n days each.
func WithWindowDays(n int) Option {
	return func(r *Reconciler) {
		if n > 0 {
			r.windowDays = n
		}
	}
}

// WithConcurrency bounds the number of window lookups in flight.
func WithConcurrency(n int) Option {
	return func(r *Reconciler) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLookupTimeout bounds each window lookup; a timeout marks the window unknown.
func WithLookupTimeout(d time.Duration) Option {
	return func(r *Reconciler) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewReconciler(lookup Lookup, opts ...Option) *Reconciler {
	r := &Reconciler{
		lookup:      lookup,
		capacity:    DefaultCapacity,
		concurrency: 4,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reconciler) DefaultCapacity() int {
	return r.capacity
}

type window struct {
	rng   domain.DateRange
	avail map[time.Time]int
	err   error
}

// Reconcile checks each day against stock. days must be ordered by date, as
// produced by schedule.Plan. Lookup failures never surface as an error: the
// affected emitting days come back as VerdictUnknown.
func (r *Reconciler) Reconcile(ctx context.Context, days []schedule.Day, required int) (Report, error) {
	if required < 0 {
		return Report{}, domain.ErrInvalidRequiredSlots
	}
	report := Report{Required: required}
	if len(days) == 0 {
		return report, nil
	}

	first := domain.DateOf(days[0].Date)
	windows := r.split(domain.NewDateRange(first, days[len(days)-1].Date))
	r.fetch(ctx, windows)

	span := r.windowDays
	report.Days = make([]DayReport, 0, len(days))
	for _, d := range days {
		date := domain.DateOf(d.Date)
		dr := DayReport{
			Date:     date,
			Weekday:  date.Weekday(),
			Emitting: d.Emitting,
			Required: required,
		}

		idx := 0
		if span > 0 {
			idx = domain.DaysBetween(first, date) / span
		}
		if idx >= 0 && idx < len(windows) && windows[idx].err == nil {
			dr.Known = true
			dr.Available = r.capacity
			if n, ok := windows[idx].avail[date]; ok {
				dr.Available = n
			}
		}

		switch {
		case !d.Emitting:
			dr.Verdict = VerdictNotEmitting
		case !dr.Known:
			dr.Verdict = VerdictUnknown
			report.UnknownDayCount++
		case dr.Available >= required:
			dr.Verdict = VerdictOK
		default:
			dr.Verdict = VerdictInsufficient
			dr.Shortfall = required - dr.Available
			report.ConflictDayCount++
		}
		if d.Emitting {
			report.EmittingDayCount++
		}
		report.Days = append(report.Days, dr)
	}
	return report, nil
}

func (r *Reconciler) split(rng domain.DateRange) []*window {
	if r.windowDays <= 0 {
		return []*window{{rng: rng}}
	}
	var out []*window
	for start := rng.Start; !start.After(rng.End); start = start.AddDate(0, 0, r.windowDays) {
		end := start.AddDate(0, 0, r.windowDays-1)
		if end.After(rng.End) {
			end = rng.End
		}
		out = append(out, &window{rng: domain.NewDateRange(start, end)})
	}
	return out
}

func (r *Reconciler) fetch(ctx context.Context, windows []*window) {
	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for _, w := range windows {
		w := w
		g.Go(func() error {
			lctx := ctx
			if r.timeout > 0 {
				var cancel context.CancelFunc
				lctx, cancel = context.WithTimeout(ctx, r.timeout)
				defer cancel()
			}
			avail, err := r.lookup.GetAvailability(lctx, w.rng)
			if err != nil {
				r.logger.Warn("availability lookup failed",
					zap.String("start", domain.FormatDate(w.rng.Start)),
					zap.String("end", domain.FormatDate(w.rng.End)),
					zap.Error(err),
				)
				w.err = err
				return nil
			}
			w.avail = make(map[time.Time]int, len(avail))
			for d, n := range avail {
				w.avail[domain.DateOf(d)] = n
			}
			return nil
		})
	}
	_ = g.Wait()
}
