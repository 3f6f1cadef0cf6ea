package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jesuschirre/client-ecom/internal/domain"
)

type ContractRepository struct {
	pool *pgxpool.Pool
}

func NewContractRepository(pool *pgxpool.Pool) *ContractRepository {
	return &ContractRepository{pool: pool}
}

func (r *ContractRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const contractColumns = `
id, client_id, campaign_name, ad_details, plan_id, start_date, end_date,
duration_unit, duration_value, emission_days, discount::text, suggested_amount::text,
agreed_amount::text, status, reserved_slots_per_day, created_at`

func (r *ContractRepository) CreateContract(ctx context.Context, c domain.Contract) error {
	const stmt = `
INSERT INTO contracts (
	id, client_id, campaign_name, ad_details, plan_id, start_date, end_date,
	duration_unit, duration_value, emission_days, discount, suggested_amount,
	agreed_amount, status, reserved_slots_per_day, created_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7,
	$8, $9, $10, $11::numeric, $12::numeric,
	$13::numeric, $14, $15, $16
)`

	unit, value := durationArgs(c.Duration)
	_, err := dbFrom(ctx, r.pool).Exec(ctx, stmt,
		c.ID,
		c.ClientID,
		c.CampaignName,
		c.AdDetails,
		c.PlanID,
		c.Start,
		c.End,
		unit,
		value,
		c.Pattern.Names(),
		c.Discount.String(),
		c.SuggestedAmount.String(),
		decimalArg(c.AgreedAmount),
		string(c.StoredStatus),
		c.ReservedSlotsPerDay,
		c.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err) {
			return domain.ErrPlanNotFound
		}
		return fmt.Errorf("create contract: %w", err)
	}
	return nil
}

func (r *ContractRepository) GetContract(ctx context.Context, id string) (domain.Contract, error) {
	return r.getContract(ctx, `SELECT`+contractColumns+` FROM contracts WHERE id = $1`, id)
}

// GetContractForUpdate locks the row until the surrounding transaction ends.
func (r *ContractRepository) GetContractForUpdate(ctx context.Context, id string) (domain.Contract, error) {
	return r.getContract(ctx, `SELECT`+contractColumns+` FROM contracts WHERE id = $1 FOR UPDATE`, id)
}

func (r *ContractRepository) getContract(ctx context.Context, query, id string) (domain.Contract, error) {
	c, err := scanContract(dbFrom(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Contract{}, domain.ErrInvalidID
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Contract{}, domain.ErrContractNotFound
		}
		return domain.Contract{}, fmt.Errorf("get contract: %w", err)
	}
	return c, nil
}

// UpdateContract rewrites the plan and scheduling fields of c. Identity,
// client and the operator's agreed amount are left alone.
func (r *ContractRepository) UpdateContract(ctx context.Context, c domain.Contract) error {
	const stmt = `
UPDATE contracts
SET start_date = $2,
	end_date = $3,
	duration_unit = $4,
	duration_value = $5,
	emission_days = $6,
	discount = $7::numeric,
	suggested_amount = $8::numeric,
	status = $9,
	reserved_slots_per_day = $10,
	plan_id = $11
WHERE id = $1`

	unit, value := durationArgs(c.Duration)
	tag, err := dbFrom(ctx, r.pool).Exec(ctx, stmt,
		c.ID,
		c.Start,
		c.End,
		unit,
		value,
		c.Pattern.Names(),
		c.Discount.String(),
		c.SuggestedAmount.String(),
		string(c.StoredStatus),
		c.ReservedSlotsPerDay,
		c.PlanID,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err) {
			return domain.ErrPlanNotFound
		}
		return fmt.Errorf("update contract: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrContractNotFound
	}
	return nil
}

func (r *ContractRepository) UpdateAgreedAmount(ctx context.Context, id string, amount decimal.Decimal) error {
	const stmt = `UPDATE contracts SET agreed_amount = $2::numeric WHERE id = $1`
	tag, err := dbFrom(ctx, r.pool).Exec(ctx, stmt, id, amount.String())
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update agreed amount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrContractNotFound
	}
	return nil
}

func (r *ContractRepository) ListContracts(ctx context.Context) ([]domain.Contract, error) {
	rows, err := dbFrom(ctx, r.pool).Query(ctx, `SELECT`+contractColumns+` FROM contracts ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		contracts = append(contracts, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate contracts: %w", rows.Err())
	}
	return contracts, nil
}

func scanContract(row pgx.Row) (domain.Contract, error) {
	var (
		c          domain.Contract
		start, end *time.Time
		unit       *string
		value      *int
		days       []string
		discount   string
		suggested  string
		agreed     *string
		status     string
	)
	err := row.Scan(
		&c.ID, &c.ClientID, &c.CampaignName, &c.AdDetails, &c.PlanID, &start, &end,
		&unit, &value, &days, &discount, &suggested,
		&agreed, &status, &c.ReservedSlotsPerDay, &c.CreatedAt,
	)
	if err != nil {
		return domain.Contract{}, err
	}

	if start != nil {
		d := domain.DateOf(*start)
		c.Start = &d
	}
	if end != nil {
		d := domain.DateOf(*end)
		c.End = &d
	}
	if unit != nil && value != nil {
		c.Duration = &domain.Duration{Unit: domain.DurationUnit(*unit), Value: *value}
	}
	if c.Pattern, err = domain.ParseEmissionPattern(days); err != nil {
		return domain.Contract{}, fmt.Errorf("emission days %v: %w", days, err)
	}
	if c.Discount, err = decimal.NewFromString(discount); err != nil {
		return domain.Contract{}, fmt.Errorf("discount: %w", err)
	}
	if c.SuggestedAmount, err = decimal.NewFromString(suggested); err != nil {
		return domain.Contract{}, fmt.Errorf("suggested amount: %w", err)
	}
	if agreed != nil {
		a, err := decimal.NewFromString(*agreed)
		if err != nil {
			return domain.Contract{}, fmt.Errorf("agreed amount: %w", err)
		}
		c.AgreedAmount = &a
	}
	c.StoredStatus = domain.ContractStatus(status)
	return c, nil
}

func durationArgs(d *domain.Duration) (*string, *int) {
	if d == nil {
		return nil, nil
	}
	unit, value := string(d.Unit), d.Value
	return &unit, &value
}

func decimalArg(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
