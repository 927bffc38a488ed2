package jobinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/Abraxas-365/bitwork/marketplace/job"
	"github.com/Abraxas-365/bitwork/pkg/dbx"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresSavedJobRepository implements job.SavedJobRepository using PostgreSQL
type PostgresSavedJobRepository struct {
	db *sqlx.DB
}

func NewPostgresSavedJobRepository(db *sqlx.DB) *PostgresSavedJobRepository {
	return &PostgresSavedJobRepository{db: db}
}

// Insert bookmarks a job; the unique (user_id, job_id) pair makes repeats
// a no-op
func (r *PostgresSavedJobRepository) Insert(ctx context.Context, saved *job.SavedJob) (bool, error) {
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO saved_jobs (id, user_id, job_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, job_id) DO NOTHING
	`

	result, err := dbx.Exec(ctx, r.db).ExecContext(ctx, query,
		saved.ID.String(), saved.UserID.String(), saved.JobID.String(), saved.CreatedAt,
	)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) && dbx.ConstraintName(err) == "saved_jobs_job_id_fkey" {
			return false, job.ErrJobNotFound().WithDetail("job_id", saved.JobID.String())
		}
		return false, fmt.Errorf("failed to save job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *PostgresSavedJobRepository) Delete(ctx context.Context, userID kernel.UserID, jobID kernel.JobID) (bool, error) {
	result, err := dbx.Exec(ctx, r.db).ExecContext(ctx,
		`DELETE FROM saved_jobs WHERE user_id = $1 AND job_id = $2`,
		userID.String(), jobID.String(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to unsave job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *PostgresSavedJobRepository) DeleteByJob(ctx context.Context, jobID kernel.JobID) error {
	if _, err := dbx.Exec(ctx, r.db).ExecContext(ctx, `DELETE FROM saved_jobs WHERE job_id = $1`, jobID.String()); err != nil {
		return fmt.Errorf("failed to delete saved jobs: %w", err)
	}
	return nil
}

func (r *PostgresSavedJobRepository) ListByUser(ctx context.Context, userID kernel.UserID) ([]job.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM saved_jobs s
		JOIN jobs j ON j.id = s.job_id
		LEFT JOIN profiles p ON p.id = j.provider_id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC
	`

	var models []listingModel
	if err := dbx.Exec(ctx, r.db).SelectContext(ctx, &models, query, userID.String()); err != nil {
		return nil, fmt.Errorf("failed to list saved jobs: %w", err)
	}

	items := make([]job.Listing, 0, len(models))
	for i := range models {
		l := models[i].toListing()
		l.IsSaved = true
		items = append(items, l)
	}
	return items, nil
}

func (r *PostgresSavedJobRepository) SavedJobIDs(ctx context.Context, userID kernel.UserID, jobIDs []kernel.JobID) (map[kernel.JobID]bool, error) {
	saved := make(map[kernel.JobID]bool, len(jobIDs))
	if len(jobIDs) == 0 {
		return saved, nil
	}

	ids := make([]string, len(jobIDs))
	for i, id := range jobIDs {
		ids[i] = id.String()
	}

	var rows []string
	err := dbx.Exec(ctx, r.db).SelectContext(ctx, &rows,
		`SELECT job_id FROM saved_jobs WHERE user_id = $1 AND job_id = ANY($2::uuid[])`,
		userID.String(), pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved jobs: %w", err)
	}

	for _, id := range rows {
		saved[kernel.JobID(id)] = true
	}
	return saved, nil
}
