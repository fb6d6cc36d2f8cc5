package postgres

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestAsPgError(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("select: %w", &pgconn.PgError{Code: UndefinedTableCode, TableName: "idempotency_keys"})
	pe, ok := AsPgError(wrapped)
	if !ok {
		t.Fatalf("expected PgError")
	}
	if pe.Code != UndefinedTableCode || pe.TableName != "idempotency_keys" {
		t.Fatalf("unexpected PgError: %+v", pe)
	}

	if _, ok := AsPgError(fmt.Errorf("plain")); ok {
		t.Fatalf("plain error should not unwrap to PgError")
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	t.Parallel()

	b, err := migrationFS.ReadFile("migrations/0001_idempotency_keys.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if len(b) == 0 {
		t.Fatalf("empty migration")
	}
}
