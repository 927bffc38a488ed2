package dbx

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

func TestConstraintHelpers(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "applications_unique_idx"})
	fk := &pq.Error{Code: "23503"}

	if !IsUniqueViolation(unique) {
		t.Error("wrapped 23505 not detected")
	}
	if IsUniqueViolation(fk) {
		t.Error("23503 reported as unique violation")
	}
	if !IsForeignKeyViolation(fk) {
		t.Error("23503 not detected")
	}
	if got := ConstraintName(unique); got != "applications_unique_idx" {
		t.Errorf("ConstraintName = %q", got)
	}
	if IsUniqueViolation(errors.New("plain")) || ConstraintName(errors.New("plain")) != "" {
		t.Error("plain errors must not match")
	}
}

func TestTxFrom_Empty(t *testing.T) {
	if _, ok := TxFrom(context.Background()); ok {
		t.Error("background context should carry no tx")
	}
}

func TestExec_FallsBackToPool(t *testing.T) {
	db := &sqlx.DB{}
	if got := Exec(context.Background(), db); got != db {
		t.Error("Exec without tx should return the pool")
	}

	tx := &sqlx.Tx{}
	ctx := context.WithValue(context.Background(), txKey{}, tx)
	if got := Exec(ctx, db); got != tx {
		t.Error("Exec should prefer the context tx")
	}
}
