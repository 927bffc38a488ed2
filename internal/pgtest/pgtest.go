// Package pgtest connects repository tests to the Postgres database named by
// BITWORK_TEST_DATABASE_URL. Tests skip when it is unset.
//
// The database is migrated but never emptied, so tests share it safely
// across packages as long as they scope every assertion to rows they
// created under fresh ids.
package pgtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Abraxas-365/bitwork/internal/database/migrations"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const EnvDatabaseURL = "BITWORK_TEST_DATABASE_URL"

// Open returns a migrated pool closed when the test ends.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()
	url := os.Getenv(EnvDatabaseURL)
	if url == "" {
		t.Skip(EnvDatabaseURL + " not set")
	}

	ctx := context.Background()
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.MigrateUp(ctx, db.DB); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// User inserts a bare profile under a fresh id.
func User(t testing.TB, db *sqlx.DB) kernel.UserID {
	t.Helper()
	id := uuid.NewString()
	now := time.Now()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO profiles (id, email, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		id, id+"@example.com", now, now,
	)
	if err != nil {
		t.Fatalf("insert profile: %v", err)
	}
	return kernel.NewUserID(id)
}

// Job inserts an open job owned by providerID under a fresh id.
func Job(t testing.TB, db *sqlx.DB, providerID kernel.UserID) kernel.JobID {
	t.Helper()
	id := uuid.NewString()
	now := time.Now()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO jobs (id, provider_id, title, description, status, created_at, updated_at) VALUES ($1, $2, $3, $4, 'open', $5, $5)`,
		id, providerID.String(), "Paint the fence", "Two coats on about forty feet of picket fence.", now,
	)
	if err != nil {
		t.Fatalf("insert job: %v", err)
	}
	return kernel.NewJobID(id)
}
