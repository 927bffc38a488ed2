package applicationinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/bitwork/marketplace/application"
	"github.com/Abraxas-365/bitwork/marketplace/job"
	"github.com/Abraxas-365/bitwork/marketplace/profile"
	"github.com/Abraxas-365/bitwork/pkg/dbx"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueApplicationConstraint = "applications_unique_idx"

// PostgresApplicationRepository implements application.Repository using PostgreSQL
type PostgresApplicationRepository struct {
	db *sqlx.DB
}

// NewPostgresApplicationRepository creates a new PostgreSQL application repository
func NewPostgresApplicationRepository(db *sqlx.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{
		db: db,
	}
}

// ============================================================================
// Database Models
// ============================================================================

type applicationModel struct {
	ID           string    `db:"id"`
	JobID        string    `db:"job_id"`
	SeekerID     string    `db:"seeker_id"`
	CoverLetter  *string   `db:"cover_letter"`
	ProposedRate *int      `db:"proposed_rate"`
	Availability *string   `db:"availability"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// detailsModel is an application row joined with its job and seeker
type detailsModel struct {
	applicationModel

	JobProviderID  string         `db:"j_provider_id"`
	JobTitle       string         `db:"j_title"`
	JobDescription string         `db:"j_description"`
	JobCategory    *string        `db:"j_category"`
	JobBudget      *int           `db:"j_budget"`
	JobHourlyRate  *int           `db:"j_hourly_rate"`
	JobState       *string        `db:"j_state"`
	JobCity        *string        `db:"j_city"`
	JobDuration    *string        `db:"j_duration"`
	JobHasTimeline bool           `db:"j_has_timeline"`
	JobSkills      pq.StringArray `db:"j_skills"`
	JobStatus      string         `db:"j_status"`
	JobViewCount   int            `db:"j_view_count"`
	JobCreatedAt   time.Time      `db:"j_created_at"`
	JobUpdatedAt   time.Time      `db:"j_updated_at"`

	SeekerFound     bool    `db:"seeker_found"`
	SeekerFullName  *string `db:"seeker_full_name"`
	SeekerAvatarURL *string `db:"seeker_avatar_url"`
	SeekerLocation  *string `db:"seeker_location"`
}

// toEntity converts database model to domain entity
func (m *applicationModel) toEntity() application.Application {
	return application.Application{
		ID:           kernel.ApplicationID(m.ID),
		JobID:        kernel.JobID(m.JobID),
		SeekerID:     kernel.UserID(m.SeekerID),
		CoverLetter:  m.CoverLetter,
		ProposedRate: m.ProposedRate,
		Availability: m.Availability,
		Status:       application.Status(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (m *detailsModel) toDetails(withSeeker bool) application.Details {
	skills := kernel.Skills(m.JobSkills)
	if skills == nil {
		skills = kernel.Skills{}
	}

	d := application.Details{
		Application: m.applicationModel.toEntity(),
		Job: &job.Job{
			ID:          kernel.JobID(m.JobID),
			ProviderID:  kernel.UserID(m.JobProviderID),
			Title:       m.JobTitle,
			Description: m.JobDescription,
			Category:    m.JobCategory,
			Budget:      m.JobBudget,
			HourlyRate:  m.JobHourlyRate,
			State:       m.JobState,
			City:        m.JobCity,
			Duration:    m.JobDuration,
			HasTimeline: m.JobHasTimeline,
			Skills:      skills,
			Status:      job.Status(m.JobStatus),
			ViewCount:   m.JobViewCount,
			CreatedAt:   m.JobCreatedAt,
			UpdatedAt:   m.JobUpdatedAt,
		},
	}
	if withSeeker && m.SeekerFound {
		d.Seeker = &profile.Summary{
			FullName:  m.SeekerFullName,
			AvatarURL: m.SeekerAvatarURL,
			Location:  m.SeekerLocation,
		}
	}
	return d
}

const applicationColumns = `
	a.id, a.job_id, a.seeker_id, a.cover_letter, a.proposed_rate,
	a.availability, a.status, a.created_at, a.updated_at`

const detailsQuery = `
	SELECT ` + applicationColumns + `,
		j.provider_id AS j_provider_id, j.title AS j_title,
		j.description AS j_description, j.category AS j_category,
		j.budget AS j_budget, j.hourly_rate AS j_hourly_rate,
		j.state AS j_state, j.city AS j_city, j.duration AS j_duration,
		j.has_timeline AS j_has_timeline, j.skills AS j_skills,
		j.status AS j_status, j.view_count AS j_view_count,
		j.created_at AS j_created_at, j.updated_at AS j_updated_at,
		p.id IS NOT NULL AS seeker_found,
		p.full_name AS seeker_full_name,
		p.avatar_url AS seeker_avatar_url,
		p.location AS seeker_location
	FROM applications a
	JOIN jobs j ON j.id = a.job_id
	LEFT JOIN profiles p ON p.id = a.seeker_id`

// ============================================================================
// Repository Implementation
// ============================================================================

// Create creates a new application
func (r *PostgresApplicationRepository) Create(ctx context.Context, app *application.Application) error {
	query := `
		INSERT INTO applications (
			id, job_id, seeker_id, cover_letter, proposed_rate,
			availability, status, created_at, updated_at
		) VALUES (
			:id, :job_id, :seeker_id, :cover_letter, :proposed_rate,
			:availability, :status, :created_at, :updated_at
		)
	`

	model := applicationModel{
		ID:           app.ID.String(),
		JobID:        app.JobID.String(),
		SeekerID:     app.SeekerID.String(),
		CoverLetter:  app.CoverLetter,
		ProposedRate: app.ProposedRate,
		Availability: app.Availability,
		Status:       string(app.Status),
		CreatedAt:    app.CreatedAt,
		UpdatedAt:    app.UpdatedAt,
	}

	if _, err := dbx.Exec(ctx, r.db).NamedExecContext(ctx, query, model); err != nil {
		if dbx.IsUniqueViolation(err) && dbx.ConstraintName(err) == uniqueApplicationConstraint {
			return application.ErrAlreadyExists().WithDetail("job_id", app.JobID.String())
		}
		if dbx.IsForeignKeyViolation(err) {
			return job.ErrJobNotFound().WithDetail("job_id", app.JobID.String())
		}
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// GetByID retrieves an application by ID
func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id kernel.ApplicationID) (*application.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications a WHERE a.id = $1`

	var model applicationModel
	if err := dbx.Exec(ctx, r.db).GetContext(ctx, &model, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, application.ErrApplicationNotFound().WithDetail("application_id", id.String())
		}
		return nil, fmt.Errorf("failed to get application by id: %w", err)
	}

	entity := model.toEntity()
	return &entity, nil
}

// GetDetails retrieves an application with job and seeker details
func (r *PostgresApplicationRepository) GetDetails(ctx context.Context, id kernel.ApplicationID) (*application.Details, error) {
	var model detailsModel
	if err := dbx.Exec(ctx, r.db).GetContext(ctx, &model, detailsQuery+` WHERE a.id = $1`, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, application.ErrApplicationNotFound().WithDetail("application_id", id.String())
		}
		return nil, fmt.Errorf("failed to get application details: %w", err)
	}

	details := model.toDetails(true)
	return &details, nil
}

// TransitionStatus updates the status only while it still equals from
func (r *PostgresApplicationRepository) TransitionStatus(ctx context.Context, id kernel.ApplicationID, from, to application.Status, at time.Time) (bool, error) {
	result, err := dbx.Exec(ctx, r.db).ExecContext(ctx,
		`UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		string(to), at, id.String(), string(from),
	)
	if err != nil {
		return false, fmt.Errorf("failed to update application status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// ListBySeeker retrieves a seeker's applications, newest first
func (r *PostgresApplicationRepository) ListBySeeker(ctx context.Context, seekerID kernel.UserID) ([]application.Details, error) {
	return r.listDetails(ctx, false,
		detailsQuery+` WHERE a.seeker_id = $1 ORDER BY a.created_at DESC`,
		seekerID.String(),
	)
}

// ListByProvider retrieves applications across a provider's jobs, pending first
func (r *PostgresApplicationRepository) ListByProvider(ctx context.Context, providerID kernel.UserID) ([]application.Details, error) {
	return r.listDetails(ctx, true, detailsQuery+`
		WHERE j.provider_id = $1
		ORDER BY
			CASE a.status
				WHEN 'pending' THEN 1
				WHEN 'accepted' THEN 2
				WHEN 'rejected' THEN 3
				ELSE 4
			END,
			a.created_at DESC`,
		providerID.String(),
	)
}

func (r *PostgresApplicationRepository) listDetails(ctx context.Context, withSeeker bool, query string, args ...any) ([]application.Details, error) {
	var models []detailsModel
	if err := dbx.Exec(ctx, r.db).SelectContext(ctx, &models, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	items := make([]application.Details, 0, len(models))
	for i := range models {
		items = append(items, models[i].toDetails(withSeeker))
	}
	return items, nil
}

// Exists checks if the seeker already applied to the job
func (r *PostgresApplicationRepository) Exists(ctx context.Context, jobID kernel.JobID, seekerID kernel.UserID) (bool, error) {
	var exists bool
	err := dbx.Exec(ctx, r.db).GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND seeker_id = $2)`,
		jobID.String(), seekerID.String(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to check application existence: %w", err)
	}
	return exists, nil
}

// CountBySeeker runs on the pool; stats fan out concurrently and never share
// a transaction.
func (r *PostgresApplicationRepository) CountBySeeker(ctx context.Context, seekerID kernel.UserID, status *application.Status) (int, error) {
	query := `SELECT COUNT(*) FROM applications WHERE seeker_id = $1`
	args := []any{seekerID.String()}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, string(*status))
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return count, nil
}
