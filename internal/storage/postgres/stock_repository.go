package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jesuschirre/client-ecom/internal/domain"
)

// StockRepository keeps the per-day count of sellable slots. Days without a
// record have never been touched and are worth the default capacity.
type StockRepository struct {
	pool *pgxpool.Pool
}

func NewStockRepository(pool *pgxpool.Pool) *StockRepository {
	return &StockRepository{pool: pool}
}

// ListStock returns the recorded days of r in date order.
func (r *StockRepository) ListStock(ctx context.Context, rng domain.DateRange) ([]domain.StockDay, error) {
	const query = `
SELECT day, available_slots
FROM stock_days
WHERE day BETWEEN $1 AND $2
ORDER BY day`

	rows, err := dbFrom(ctx, r.pool).Query(ctx, query, rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var days []domain.StockDay
	for rows.Next() {
		var d domain.StockDay
		if err := rows.Scan(&d.Date, &d.AvailableSlots); err != nil {
			return nil, fmt.Errorf("scan stock day: %w", err)
		}
		d.Date = domain.DateOf(d.Date)
		days = append(days, d)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate stock: %w", rows.Err())
	}
	return days, nil
}

// GetAvailability serves the reconciler: recorded days of rng keyed by date.
func (r *StockRepository) GetAvailability(ctx context.Context, rng domain.DateRange) (map[time.Time]int, error) {
	days, err := r.ListStock(ctx, rng)
	if err != nil {
		return nil, err
	}
	return stockMap(days), nil
}

// LockRange makes sure every day of rng has a record, seeding missing ones at
// defaultCapacity, and locks them until the surrounding transaction ends.
func (r *StockRepository) LockRange(ctx context.Context, rng domain.DateRange, defaultCapacity int) (map[time.Time]int, error) {
	if txFromContext(ctx) == nil {
		return nil, fmt.Errorf("lock stock: no transaction in context")
	}
	db := dbFrom(ctx, r.pool)

	const seed = `
INSERT INTO stock_days (day, available_slots)
SELECT d::date, $3::int
FROM generate_series($1::date, $2::date, interval '1 day') AS d
ON CONFLICT (day) DO NOTHING`
	if _, err := db.Exec(ctx, seed, rng.Start, rng.End, defaultCapacity); err != nil {
		return nil, fmt.Errorf("seed stock: %w", err)
	}

	const query = `
SELECT day, available_slots
FROM stock_days
WHERE day BETWEEN $1 AND $2
ORDER BY day
FOR UPDATE`
	rows, err := db.Query(ctx, query, rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("lock stock: %w", err)
	}
	defer rows.Close()

	var days []domain.StockDay
	for rows.Next() {
		var d domain.StockDay
		if err := rows.Scan(&d.Date, &d.AvailableSlots); err != nil {
			return nil, fmt.Errorf("scan stock day: %w", err)
		}
		days = append(days, d)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate stock: %w", rows.Err())
	}
	return stockMap(days), nil
}

// AdjustSlots adds delta to each of days. Every day must already have a
// record, which LockRange guarantees for reservations.
func (r *StockRepository) AdjustSlots(ctx context.Context, days []time.Time, delta int) error {
	if len(days) == 0 {
		return nil
	}
	dates := make([]time.Time, len(days))
	for i, d := range days {
		dates[i] = domain.DateOf(d)
	}

	const stmt = `
UPDATE stock_days
SET available_slots = available_slots + $2, updated_at = NOW()
WHERE day = ANY($1::date[])`
	tag, err := dbFrom(ctx, r.pool).Exec(ctx, stmt, dates, delta)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if int(tag.RowsAffected()) != len(uniqueDates(dates)) {
		return fmt.Errorf("adjust stock: %d of %d days recorded", tag.RowsAffected(), len(dates))
	}
	return nil
}

// SetSlots records the available slots of one day, replacing any previous value.
func (r *StockRepository) SetSlots(ctx context.Context, day time.Time, slots int) error {
	const stmt = `
INSERT INTO stock_days (day, available_slots) VALUES ($1, $2)
ON CONFLICT (day) DO UPDATE SET available_slots = EXCLUDED.available_slots, updated_at = NOW()`
	if _, err := dbFrom(ctx, r.pool).Exec(ctx, stmt, domain.DateOf(day), slots); err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	return nil
}

func stockMap(days []domain.StockDay) map[time.Time]int {
	out := make(map[time.Time]int, len(days))
	for _, d := range days {
		out[domain.DateOf(d.Date)] = d.AvailableSlots
	}
	return out
}

func uniqueDates(days []time.Time) map[time.Time]struct{} {
	out := make(map[time.Time]struct{}, len(days))
	for _, d := range days {
		out[d] = struct{}{}
	}
	return out
}
