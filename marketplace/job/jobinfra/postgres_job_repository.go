package jobinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abraxas-365/bitwork/marketplace/job"
	"github.com/Abraxas-365/bitwork/marketplace/profile"
	"github.com/Abraxas-365/bitwork/pkg/dbx"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresJobRepository implements job.Repository using PostgreSQL
type PostgresJobRepository struct {
	db *sqlx.DB
}

// NewPostgresJobRepository creates a new PostgreSQL job repository
func NewPostgresJobRepository(db *sqlx.DB) *PostgresJobRepository {
	return &PostgresJobRepository{
		db: db,
	}
}

// ============================================================================
// Database Model
// ============================================================================

type jobModel struct {
	ID          string         `db:"id"`
	ProviderID  string         `db:"provider_id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Category    *string        `db:"category"`
	Budget      *int           `db:"budget"`
	HourlyRate  *int           `db:"hourly_rate"`
	State       *string        `db:"state"`
	City        *string        `db:"city"`
	Duration    *string        `db:"duration"`
	HasTimeline bool           `db:"has_timeline"`
	Skills      pq.StringArray `db:"skills"`
	Status      string         `db:"status"`
	ViewCount   int            `db:"view_count"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// listingModel is a job row joined with its provider's profile
type listingModel struct {
	jobModel
	ProviderFound     bool    `db:"provider_found"`
	ProviderFullName  *string `db:"provider_full_name"`
	ProviderAvatarURL *string `db:"provider_avatar_url"`
	ProviderLocation  *string `db:"provider_location"`
}

// toEntity converts database model to domain entity
func (m *jobModel) toEntity() job.Job {
	skills := kernel.Skills(m.Skills)
	if skills == nil {
		skills = kernel.Skills{}
	}
	return job.Job{
		ID:          kernel.JobID(m.ID),
		ProviderID:  kernel.UserID(m.ProviderID),
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		Budget:      m.Budget,
		HourlyRate:  m.HourlyRate,
		State:       m.State,
		City:        m.City,
		Duration:    m.Duration,
		HasTimeline: m.HasTimeline,
		Skills:      skills,
		Status:      job.Status(m.Status),
		ViewCount:   m.ViewCount,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (m *listingModel) toListing() job.Listing {
	l := job.Listing{Job: m.jobModel.toEntity()}
	if m.ProviderFound {
		l.Provider = &profile.Summary{
			FullName:  m.ProviderFullName,
			AvatarURL: m.ProviderAvatarURL,
			Location:  m.ProviderLocation,
		}
	}
	return l
}

// fromEntity converts domain entity to database model
func fromEntity(j *job.Job) *jobModel {
	skills := pq.StringArray(j.Skills)
	if skills == nil {
		skills = pq.StringArray{}
	}
	return &jobModel{
		ID:          j.ID.String(),
		ProviderID:  j.ProviderID.String(),
		Title:       j.Title,
		Description: j.Description,
		Category:    j.Category,
		Budget:      j.Budget,
		HourlyRate:  j.HourlyRate,
		State:       j.State,
		City:        j.City,
		Duration:    j.Duration,
		HasTimeline: j.HasTimeline,
		Skills:      skills,
		Status:      string(j.Status),
		ViewCount:   j.ViewCount,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

const jobColumns = `
	j.id, j.provider_id, j.title, j.description, j.category, j.budget,
	j.hourly_rate, j.state, j.city, j.duration, j.has_timeline, j.skills,
	j.status, j.view_count, j.created_at, j.updated_at`

const listingColumns = jobColumns + `,
	p.id IS NOT NULL AS provider_found,
	p.full_name AS provider_full_name,
	p.avatar_url AS provider_avatar_url,
	p.location AS provider_location`

// ============================================================================
// Repository Implementation
// ============================================================================

// Create creates a new job
func (r *PostgresJobRepository) Create(ctx context.Context, jobEntity *job.Job) error {
	query := `
		INSERT INTO jobs (
			id, provider_id, title, description, category, budget,
			hourly_rate, state, city, duration, has_timeline, skills,
			status, view_count, created_at, updated_at
		) VALUES (
			:id, :provider_id, :title, :description, :category, :budget,
			:hourly_rate, :state, :city, :duration, :has_timeline, :skills,
			:status, :view_count, :created_at, :updated_at
		)
	`

	if _, err := dbx.Exec(ctx, r.db).NamedExecContext(ctx, query, fromEntity(jobEntity)); err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return fmt.Errorf("invalid provider_id %s: %w", jobEntity.ProviderID, err)
		}
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// Update updates an existing job
func (r *PostgresJobRepository) Update(ctx context.Context, jobEntity *job.Job) error {
	query := `
		UPDATE jobs SET
			title = :title,
			description = :description,
			category = :category,
			budget = :budget,
			hourly_rate = :hourly_rate,
			state = :state,
			city = :city,
			duration = :duration,
			has_timeline = :has_timeline,
			skills = :skills,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := dbx.Exec(ctx, r.db).NamedExecContext(ctx, query, fromEntity(jobEntity))
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return job.ErrJobNotFound().WithDetail("job_id", jobEntity.ID.String())
	}
	return nil
}

// GetByID retrieves a job by ID
func (r *PostgresJobRepository) GetByID(ctx context.Context, id kernel.JobID) (*job.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs j WHERE j.id = $1`

	var model jobModel
	if err := dbx.Exec(ctx, r.db).GetContext(ctx, &model, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, job.ErrJobNotFound().WithDetail("job_id", id.String())
		}
		return nil, fmt.Errorf("failed to get job by id: %w", err)
	}

	entity := model.toEntity()
	return &entity, nil
}

// GetListing retrieves a job joined with its provider
func (r *PostgresJobRepository) GetListing(ctx context.Context, id kernel.JobID) (*job.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM jobs j
		LEFT JOIN profiles p ON p.id = j.provider_id
		WHERE j.id = $1
	`

	var model listingModel
	if err := dbx.Exec(ctx, r.db).GetContext(ctx, &model, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, job.ErrJobNotFound().WithDetail("job_id", id.String())
		}
		return nil, fmt.Errorf("failed to get job listing: %w", err)
	}

	listing := model.toListing()
	return &listing, nil
}

// Delete deletes a job by ID
func (r *PostgresJobRepository) Delete(ctx context.Context, id kernel.JobID) error {
	result, err := dbx.Exec(ctx, r.db).ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id.String())
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return job.ErrJobHasApplications().WithDetail("job_id", id.String())
		}
		return fmt.Errorf("failed to delete job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return job.ErrJobNotFound().WithDetail("job_id", id.String())
	}
	return nil
}

// IncrementViews bumps view_count in a single statement
func (r *PostgresJobRepository) IncrementViews(ctx context.Context, id kernel.JobID) error {
	result, err := dbx.Exec(ctx, r.db).ExecContext(ctx,
		`UPDATE jobs SET view_count = view_count + 1 WHERE id = $1`,
		id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return job.ErrJobNotFound().WithDetail("job_id", id.String())
	}
	return nil
}

// List retrieves one filtered page of jobs with pagination
func (r *PostgresJobRepository) List(ctx context.Context, filters job.ListFilters) (*kernel.Paginated[job.Listing], error) {
	where, args := buildListFilter(filters)
	pagination := filters.Pagination()
	exec := dbx.Exec(ctx, r.db)

	// Count total
	var total int
	if err := exec.GetContext(ctx, &total, `SELECT COUNT(*) FROM jobs j WHERE `+where, args...); err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM jobs j
		LEFT JOIN profiles p ON p.id = j.provider_id
		WHERE %s
		ORDER BY j.created_at DESC, j.id
		LIMIT $%d OFFSET $%d
	`, listingColumns, where, len(args)+1, len(args)+2)

	var models []listingModel
	if err := exec.SelectContext(ctx, &models, query, append(args, pagination.PageSize, pagination.Offset())...); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	items := make([]job.Listing, 0, len(models))
	for i := range models {
		items = append(items, models[i].toListing())
	}
	return kernel.NewPaginated(items, pagination, total), nil
}

// buildListFilter renders the WHERE clause for the listing filters. Budget
// bounds exclude jobs without a flat budget.
func buildListFilter(f job.ListFilters) (string, []any) {
	conds := []string{"j.status = $1"}
	args := []any{string(f.Status)}

	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Category != nil {
		add("j.category = $%d", *f.Category)
	}
	if f.City != nil {
		add("j.city = $%d", *f.City)
	}
	if f.State != nil {
		add("j.state = $%d", *f.State)
	}
	if f.MinBudget != nil {
		add("j.budget >= $%d", *f.MinBudget)
	}
	if f.MaxBudget != nil {
		add("j.budget <= $%d", *f.MaxBudget)
	}
	return strings.Join(conds, " AND "), args
}

// ListByProvider retrieves jobs posted by a provider
func (r *PostgresJobRepository) ListByProvider(ctx context.Context, providerID kernel.UserID, status *job.Status) ([]job.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs j WHERE j.provider_id = $1`
	args := []any{providerID.String()}
	if status != nil {
		query += ` AND j.status = $2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY j.created_at DESC`

	var models []jobModel
	if err := dbx.Exec(ctx, r.db).SelectContext(ctx, &models, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list provider jobs: %w", err)
	}

	jobs := make([]job.Job, 0, len(models))
	for i := range models {
		jobs = append(jobs, models[i].toEntity())
	}
	return jobs, nil
}

// CountApplications counts applications of one job
func (r *PostgresJobRepository) CountApplications(ctx context.Context, jobID kernel.JobID) (int, error) {
	var count int
	if err := dbx.Exec(ctx, r.db).GetContext(ctx, &count, `SELECT COUNT(*) FROM applications WHERE job_id = $1`, jobID.String()); err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return count, nil
}
