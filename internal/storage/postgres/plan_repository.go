package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jesuschirre/client-ecom/internal/domain"
)

// PlanRepository reads plans. Plans are maintained by the back office, so
// there is no write path here.
type PlanRepository struct {
	pool *pgxpool.Pool
}

func NewPlanRepository(pool *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{pool: pool}
}

func (r *PlanRepository) GetPlan(ctx context.Context, id string) (domain.Plan, error) {
	const query = `
SELECT id, name, monthly_rate::text, required_slots_per_day, featured, disabled
FROM plans
WHERE id = $1`

	var (
		p    domain.Plan
		rate string
	)
	err := dbFrom(ctx, r.pool).QueryRow(ctx, query, id).
		Scan(&p.ID, &p.Name, &rate, &p.RequiredSlotsPerDay, &p.Featured, &p.Disabled)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Plan{}, domain.ErrInvalidID
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Plan{}, domain.ErrPlanNotFound
		}
		return domain.Plan{}, fmt.Errorf("get plan: %w", err)
	}
	p.MonthlyRate, err = decimal.NewFromString(rate)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("parse plan rate: %w", err)
	}
	return p, nil
}
