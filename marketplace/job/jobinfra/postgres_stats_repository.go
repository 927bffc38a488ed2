package jobinfra

import (
	"context"
	"fmt"

	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/jmoiron/sqlx"
)

// PostgresStatsRepository implements job.StatsRepository. Its queries run
// concurrently, so they always use the pool and never a caller's
// transaction.
type PostgresStatsRepository struct {
	db *sqlx.DB
}

func NewPostgresStatsRepository(db *sqlx.DB) *PostgresStatsRepository {
	return &PostgresStatsRepository{db: db}
}

func (r *PostgresStatsRepository) count(ctx context.Context, what, query string, providerID kernel.UserID) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, query, providerID.String()); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", what, err)
	}
	return n, nil
}

func (r *PostgresStatsRepository) CountActiveJobs(ctx context.Context, providerID kernel.UserID) (int, error) {
	return r.count(ctx, "active jobs",
		`SELECT COUNT(*) FROM jobs WHERE provider_id = $1 AND status = 'open'`, providerID)
}

func (r *PostgresStatsRepository) CountApplications(ctx context.Context, providerID kernel.UserID) (int, error) {
	return r.count(ctx, "applications", `
		SELECT COUNT(*)
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE j.provider_id = $1`, providerID)
}

func (r *PostgresStatsRepository) CountPendingApplications(ctx context.Context, providerID kernel.UserID) (int, error) {
	return r.count(ctx, "pending applications", `
		SELECT COUNT(*)
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE j.provider_id = $1 AND a.status = 'pending'`, providerID)
}

func (r *PostgresStatsRepository) SumViews(ctx context.Context, providerID kernel.UserID) (int, error) {
	return r.count(ctx, "views",
		`SELECT COALESCE(SUM(view_count), 0) FROM jobs WHERE provider_id = $1`, providerID)
}
