package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jesuschirre/client-ecom/internal/domain"
	"github.com/jesuschirre/client-ecom/internal/testutil"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestContractRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	repo := NewContractRepository(pool)

	newContract := func(planID string) domain.Contract {
		start, end := day(2024, 1, 1), day(2024, 1, 31)
		return domain.Contract{
			ID:                  uuid.NewString(),
			ClientID:            "client-7",
			CampaignName:        "Back to school",
			AdDetails:           "30s spot",
			PlanID:              planID,
			Start:               &start,
			End:                 &end,
			Duration:            &domain.Duration{Unit: domain.DurationMonths, Value: 1},
			Pattern:             domain.NewEmissionPattern(time.Monday, time.Wednesday, time.Saturday),
			Discount:            decimal.RequireFromString("12.50"),
			SuggestedAmount:     decimal.RequireFromString("120.00"),
			StoredStatus:        domain.StatusBaseline,
			ReservedSlotsPerDay: 2,
			CreatedAt:           time.Now().UTC().Truncate(time.Microsecond),
		}
	}

	t.Run("create and get round trip", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		planID := testutil.InsertPlan(t, ctx, pool, domain.Plan{Name: "Basic", MonthlyRate: decimal.NewFromInt(300)})
		c := newContract(planID)

		if err := repo.CreateContract(ctx, c); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got, err := repo.GetContract(ctx, c.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.ClientID != c.ClientID || got.CampaignName != c.CampaignName || got.PlanID != planID {
			t.Fatalf("unexpected contract: %+v", got)
		}
		if !got.Start.Equal(*c.Start) || !got.End.Equal(*c.End) {
			t.Fatalf("expected dates %v..%v, got %v..%v", c.Start, c.End, got.Start, got.End)
		}
		if got.Duration == nil || *got.Duration != *c.Duration {
			t.Fatalf("expected duration %+v, got %+v", c.Duration, got.Duration)
		}
		if got.Pattern != c.Pattern {
			t.Fatalf("expected pattern %v, got %v", c.Pattern.Names(), got.Pattern.Names())
		}
		if !got.Discount.Equal(c.Discount) || !got.SuggestedAmount.Equal(c.SuggestedAmount) {
			t.Fatalf("unexpected amounts: discount %s suggested %s", got.Discount, got.SuggestedAmount)
		}
		if got.AgreedAmount != nil {
			t.Fatalf("expected nil agreed amount, got %s", got.AgreedAmount)
		}
		if got.StoredStatus != domain.StatusBaseline || got.ReservedSlotsPerDay != 2 {
			t.Fatalf("unexpected status fields: %+v", got)
		}
	})

	t.Run("pending contract keeps null dates", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		planID := testutil.InsertPlan(t, ctx, pool, domain.Plan{Name: "Basic", MonthlyRate: decimal.NewFromInt(300)})
		c := newContract(planID)
		c.Start, c.End, c.Duration = nil, nil, nil
		c.StoredStatus = domain.StatusPendingActivation

		if err := repo.CreateContract(ctx, c); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got, err := repo.GetContract(ctx, c.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Start != nil || got.End != nil || got.Duration != nil {
			t.Fatalf("expected null scheduling fields, got %+v", got)
		}
	})

	t.Run("unknown plan and ids", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		c := newContract("00000000-0000-0000-0000-000000000009")
		if err := repo.CreateContract(ctx, c); err != domain.ErrPlanNotFound {
			t.Fatalf("expected ErrPlanNotFound, got %v", err)
		}
		if _, err := repo.GetContract(ctx, uuid.NewString()); err != domain.ErrContractNotFound {
			t.Fatalf("expected ErrContractNotFound, got %v", err)
		}
		if _, err := repo.GetContract(ctx, "bad"); err != domain.ErrInvalidID {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("update and agreed amount", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		planID := testutil.InsertPlan(t, ctx, pool, domain.Plan{Name: "Basic", MonthlyRate: decimal.NewFromInt(300)})
		c := newContract(planID)
		if err := repo.CreateContract(ctx, c); err != nil {
			t.Fatalf("create: %v", err)
		}

		if err := repo.UpdateAgreedAmount(ctx, c.ID, decimal.RequireFromString("99.90")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		c.StoredStatus = domain.StatusCancelled
		c.ReservedSlotsPerDay = 0
		if err := repo.UpdateContract(ctx, c); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repo.GetContract(ctx, c.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.AgreedAmount == nil || got.AgreedAmount.StringFixed(2) != "99.90" {
			t.Fatalf("expected agreed 99.90 kept by update, got %v", got.AgreedAmount)
		}
		if got.StoredStatus != domain.StatusCancelled || got.ReservedSlotsPerDay != 0 {
			t.Fatalf("unexpected contract after update: %+v", got)
		}
		if !got.SuggestedAmount.Equal(c.SuggestedAmount) {
			t.Fatalf("expected suggestion untouched, got %s", got.SuggestedAmount)
		}

		otherPlan := testutil.InsertPlan(t, ctx, pool, domain.Plan{Name: "Prime", MonthlyRate: decimal.NewFromInt(600)})
		c.PlanID = otherPlan
		c.SuggestedAmount = decimal.RequireFromString("200.00")
		if err := repo.UpdateContract(ctx, c); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got, err = repo.GetContract(ctx, c.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.PlanID != otherPlan || got.SuggestedAmount.StringFixed(2) != "200.00" {
			t.Fatalf("expected plan and suggestion rewritten, got %+v", got)
		}
		if got.AgreedAmount == nil || got.AgreedAmount.StringFixed(2) != "99.90" {
			t.Fatalf("expected agreed 99.90 kept after re-price, got %v", got.AgreedAmount)
		}

		c.PlanID = uuid.NewString()
		if err := repo.UpdateContract(ctx, c); err != domain.ErrPlanNotFound {
			t.Fatalf("expected ErrPlanNotFound, got %v", err)
		}

		if err := repo.UpdateAgreedAmount(ctx, uuid.NewString(), decimal.NewFromInt(1)); err != domain.ErrContractNotFound {
			t.Fatalf("expected ErrContractNotFound, got %v", err)
		}
	})

	t.Run("rollback discards writes", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		planID := testutil.InsertPlan(t, ctx, pool, domain.Plan{Name: "Basic", MonthlyRate: decimal.NewFromInt(300)})
		c := newContract(planID)
		boom := errors.New("boom")

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			if err := repo.CreateContract(txCtx, c); err != nil {
				return err
			}
			if _, err := repo.GetContractForUpdate(txCtx, c.ID); err != nil {
				t.Fatalf("expected contract visible inside tx, got %v", err)
			}
			return boom
		})
		if err != boom {
			t.Fatalf("expected boom, got %v", err)
		}
		if _, err := repo.GetContract(ctx, c.ID); err != domain.ErrContractNotFound {
			t.Fatalf("expected ErrContractNotFound after rollback, got %v", err)
		}
	})

	t.Run("list newest first", func(t *testing.T) {
		testutil.TruncateAll(t, ctx, pool)
		planID := testutil.InsertPlan(t, ctx, pool, domain.Plan{Name: "Basic", MonthlyRate: decimal.NewFromInt(300)})
		older := newContract(planID)
		older.CreatedAt = older.CreatedAt.Add(-time.Hour)
		newer := newContract(planID)
		for _, c := range []domain.Contract{older, newer} {
			if err := repo.CreateContract(ctx, c); err != nil {
				t.Fatalf("create: %v", err)
			}
		}

		list, err := repo.ListContracts(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(list) != 2 || list[0].ID != newer.ID || list[1].ID != older.ID {
			t.Fatalf("unexpected order: %+v", list)
		}
	})
}
