package notificationinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/bitwork/marketplace/notification"
	"github.com/Abraxas-365/bitwork/pkg/dbx"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/jmoiron/sqlx"
)

// PostgresNotificationRepository implements notification.Repository using PostgreSQL
type PostgresNotificationRepository struct {
	db *sqlx.DB
}

func NewPostgresNotificationRepository(db *sqlx.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

type notificationModel struct {
	ID                   string         `db:"id"`
	UserID               string         `db:"user_id"`
	Type                 string         `db:"type"`
	Title                string         `db:"title"`
	Message              string         `db:"message"`
	RelatedJobID         sql.NullString `db:"related_job_id"`
	RelatedApplicationID sql.NullString `db:"related_application_id"`
	IsRead               bool           `db:"is_read"`
	CreatedAt            time.Time      `db:"created_at"`
}

func (m *notificationModel) toEntity() notification.Notification {
	n := notification.Notification{
		ID:        kernel.NotificationID(m.ID),
		UserID:    kernel.UserID(m.UserID),
		Type:      notification.Type(m.Type),
		Title:     m.Title,
		Message:   m.Message,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
	if m.RelatedJobID.Valid {
		id := kernel.JobID(m.RelatedJobID.String)
		n.RelatedJobID = &id
	}
	if m.RelatedApplicationID.Valid {
		id := kernel.ApplicationID(m.RelatedApplicationID.String)
		n.RelatedApplicationID = &id
	}
	return n
}

func fromEntity(n *notification.Notification) *notificationModel {
	m := &notificationModel{
		ID:        n.ID.String(),
		UserID:    n.UserID.String(),
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.RelatedJobID != nil {
		m.RelatedJobID = sql.NullString{String: n.RelatedJobID.String(), Valid: true}
	}
	if n.RelatedApplicationID != nil {
		m.RelatedApplicationID = sql.NullString{String: n.RelatedApplicationID.String(), Valid: true}
	}
	return m
}

const notificationColumns = `
	id, user_id, type, title, message,
	related_job_id, related_application_id, is_read, created_at`

func (r *PostgresNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES (
			:id, :user_id, :type, :title, :message,
			:related_job_id, :related_application_id, :is_read, :created_at
		)
	`

	if _, err := dbx.Exec(ctx, r.db).NamedExecContext(ctx, query, fromEntity(n)); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) GetByID(ctx context.Context, id kernel.NotificationID) (*notification.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	var model notificationModel
	if err := dbx.Exec(ctx, r.db).GetContext(ctx, &model, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notification.ErrNotificationNotFound().WithDetail("notification_id", id.String())
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	n := model.toEntity()
	return &n, nil
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id kernel.NotificationID) error {
	result, err := dbx.Exec(ctx, r.db).ExecContext(ctx, `UPDATE notifications SET is_read = true WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return notification.ErrNotificationNotFound().WithDetail("notification_id", id.String())
	}
	return nil
}

func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, userID kernel.UserID) (int, error) {
	result, err := dbx.Exec(ctx, r.db).ExecContext(ctx,
		`UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`,
		userID.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rows), nil
}

func (r *PostgresNotificationRepository) Delete(ctx context.Context, id kernel.NotificationID) error {
	result, err := dbx.Exec(ctx, r.db).ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return notification.ErrNotificationNotFound().WithDetail("notification_id", id.String())
	}
	return nil
}

func (r *PostgresNotificationRepository) ListByUser(ctx context.Context, userID kernel.UserID, req notification.ListRequest) ([]notification.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1 AND ($2 = false OR is_read = false)
		ORDER BY created_at DESC
		LIMIT $3
	`

	var models []notificationModel
	if err := dbx.Exec(ctx, r.db).SelectContext(ctx, &models, query, userID.String(), req.OnlyUnread, req.Limit); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	items := make([]notification.Notification, 0, len(models))
	for i := range models {
		items = append(items, models[i].toEntity())
	}
	return items, nil
}

func (r *PostgresNotificationRepository) CountUnread(ctx context.Context, userID kernel.UserID) (int, error) {
	var count int
	err := dbx.Exec(ctx, r.db).GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`,
		userID.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
