package migrations_test

import (
	"context"
	"testing"

	"github.com/jesuschirre/client-ecom/internal/testutil"
	"github.com/jesuschirre/client-ecom/migrations"
)

func TestNames_Ordered(t *testing.T) {
	names, err := migrations.Names()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(names) < 2 {
		t.Fatalf("expected at least 2 migrations, got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("expected sorted names, got %v", names)
		}
	}
}

func TestApply_RecordsMigrations(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()

	if _, err := pool.Exec(ctx, `DROP TABLE IF EXISTS schema_migrations`); err != nil {
		t.Fatalf("drop schema_migrations: %v", err)
	}

	if _, err := migrations.Apply(ctx, pool, nil); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	names, _ := migrations.Names()
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != len(names) {
		t.Fatalf("expected %d migrations recorded, got %d", len(names), count)
	}

	applied, err := migrations.Apply(ctx, pool, nil)
	if err != nil {
		t.Fatalf("re-apply migrations: %v", err)
	}
	if applied != 0 {
		t.Fatalf("expected nothing applied on second run, got %d", applied)
	}

	for _, table := range []string{"plans", "contracts", "stock_days"} {
		var exists bool
		if err := pool.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, table).Scan(&exists); err != nil {
			t.Fatalf("check table %s: %v", table, err)
		}
		if !exists {
			t.Fatalf("expected table %s to exist", table)
		}
	}
}
