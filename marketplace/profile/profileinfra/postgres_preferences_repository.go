package profileinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/bitwork/marketplace/profile"
	"github.com/Abraxas-365/bitwork/pkg/dbx"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/jmoiron/sqlx"
)

// PostgresPreferencesRepository implements profile.PreferencesRepository
type PostgresPreferencesRepository struct {
	db *sqlx.DB
}

func NewPostgresPreferencesRepository(db *sqlx.DB) *PostgresPreferencesRepository {
	return &PostgresPreferencesRepository{db: db}
}

type preferencesModel struct {
	UserID             string         `db:"user_id"`
	EmailNotifications bool           `db:"email_notifications"`
	PushNotifications  bool           `db:"push_notifications"`
	Theme              string         `db:"theme"`
	DefaultFilters     sql.NullString `db:"default_filters"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

func (r *PostgresPreferencesRepository) Get(ctx context.Context, userID kernel.UserID) (*profile.Preferences, error) {
	query := `
		SELECT user_id, email_notifications, push_notifications, theme, default_filters, updated_at
		FROM user_preferences
		WHERE user_id = $1
	`

	var model preferencesModel
	if err := dbx.Exec(ctx, r.db).GetContext(ctx, &model, query, userID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, profile.ErrPrefsNotFound()
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	return &profile.Preferences{
		UserID:             kernel.UserID(model.UserID),
		EmailNotifications: model.EmailNotifications,
		PushNotifications:  model.PushNotifications,
		Theme:              model.Theme,
		DefaultFilters:     rawFilters(model.DefaultFilters),
		UpdatedAt:          model.UpdatedAt,
	}, nil
}

func (r *PostgresPreferencesRepository) Upsert(ctx context.Context, prefs *profile.Preferences) error {
	query := `
		INSERT INTO user_preferences (
			user_id, email_notifications, push_notifications, theme, default_filters, updated_at
		) VALUES (
			:user_id, :email_notifications, :push_notifications, :theme, :default_filters, :updated_at
		)
		ON CONFLICT (user_id) DO UPDATE SET
			email_notifications = EXCLUDED.email_notifications,
			push_notifications = EXCLUDED.push_notifications,
			theme = EXCLUDED.theme,
			default_filters = EXCLUDED.default_filters,
			updated_at = EXCLUDED.updated_at
	`

	// jsonb is sent as text; lib/pq would encode []byte as bytea
	var filters sql.NullString
	if len(prefs.DefaultFilters) > 0 {
		filters = sql.NullString{String: string(prefs.DefaultFilters), Valid: true}
	}
	model := preferencesModel{
		UserID:             prefs.UserID.String(),
		EmailNotifications: prefs.EmailNotifications,
		PushNotifications:  prefs.PushNotifications,
		Theme:              prefs.Theme,
		DefaultFilters:     filters,
		UpdatedAt:          prefs.UpdatedAt,
	}

	if _, err := dbx.Exec(ctx, r.db).NamedExecContext(ctx, query, model); err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return profile.ErrProfileNotFound().WithDetail("profile_id", prefs.UserID.String())
		}
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

func rawFilters(s sql.NullString) json.RawMessage {
	if !s.Valid {
		return nil
	}
	return json.RawMessage(s.String)
}
