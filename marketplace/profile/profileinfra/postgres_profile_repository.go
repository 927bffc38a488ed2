package profileinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/bitwork/marketplace/profile"
	"github.com/Abraxas-365/bitwork/pkg/dbx"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresProfileRepository implements profile.Repository using PostgreSQL
type PostgresProfileRepository struct {
	db *sqlx.DB
}

func NewPostgresProfileRepository(db *sqlx.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

// ============================================================================
// Database Model
// ============================================================================

type profileModel struct {
	ID           string         `db:"id"`
	Email        sql.NullString `db:"email"`
	FullName     *string        `db:"full_name"`
	Role         sql.NullString `db:"role"`
	Location     *string        `db:"location"`
	AvatarURL    *string        `db:"avatar_url"`
	Phone        *string        `db:"phone"`
	Bio          *string        `db:"bio"`
	Skills       pq.StringArray `db:"skills"`
	Availability *string        `db:"availability"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (m *profileModel) toEntity() *profile.Profile {
	skills := kernel.Skills(m.Skills)
	if skills == nil {
		skills = kernel.Skills{}
	}
	return &profile.Profile{
		ID:           kernel.UserID(m.ID),
		Email:        kernel.Email(m.Email.String),
		FullName:     m.FullName,
		Role:         kernel.Role(m.Role.String),
		Location:     m.Location,
		AvatarURL:    m.AvatarURL,
		Phone:        m.Phone,
		Bio:          m.Bio,
		Skills:       skills,
		Availability: m.Availability,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func fromEntity(p *profile.Profile) *profileModel {
	skills := pq.StringArray(p.Skills)
	if skills == nil {
		skills = pq.StringArray{}
	}
	return &profileModel{
		ID:           p.ID.String(),
		Email:        sql.NullString{String: p.Email.String(), Valid: p.Email != ""},
		FullName:     p.FullName,
		Role:         sql.NullString{String: p.Role.String(), Valid: p.Role != ""},
		Location:     p.Location,
		AvatarURL:    p.AvatarURL,
		Phone:        p.Phone,
		Bio:          p.Bio,
		Skills:       skills,
		Availability: p.Availability,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

const profileColumns = `
	id, email, full_name, role, location, avatar_url,
	phone, bio, skills, availability, created_at, updated_at`

// ============================================================================
// Repository Implementation
// ============================================================================

// Create inserts the profile, leaving an existing row untouched
func (r *PostgresProfileRepository) Create(ctx context.Context, p *profile.Profile) (bool, error) {
	query := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES (
			:id, :email, :full_name, :role, :location, :avatar_url,
			:phone, :bio, :skills, :availability, :created_at, :updated_at
		)
		ON CONFLICT (id) DO NOTHING
	`

	result, err := dbx.Exec(ctx, r.db).NamedExecContext(ctx, query, fromEntity(p))
	if err != nil {
		return false, fmt.Errorf("failed to create profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// GetByID retrieves a profile by ID
func (r *PostgresProfileRepository) GetByID(ctx context.Context, id kernel.UserID) (*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	var model profileModel
	if err := dbx.Exec(ctx, r.db).GetContext(ctx, &model, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, profile.ErrProfileNotFound().WithDetail("profile_id", id.String())
		}
		return nil, fmt.Errorf("failed to get profile by id: %w", err)
	}
	return model.toEntity(), nil
}

// Update writes every mutable column
func (r *PostgresProfileRepository) Update(ctx context.Context, p *profile.Profile) error {
	query := `
		UPDATE profiles SET
			full_name = :full_name,
			role = :role,
			location = :location,
			avatar_url = :avatar_url,
			phone = :phone,
			bio = :bio,
			skills = :skills,
			availability = :availability,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := dbx.Exec(ctx, r.db).NamedExecContext(ctx, query, fromEntity(p))
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return profile.ErrProfileNotFound().WithDetail("profile_id", p.ID.String())
	}
	return nil
}
