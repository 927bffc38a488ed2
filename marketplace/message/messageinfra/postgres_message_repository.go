package messageinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/Abraxas-365/bitwork/marketplace/job"
	"github.com/Abraxas-365/bitwork/marketplace/message"
	"github.com/Abraxas-365/bitwork/pkg/dbx"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/jmoiron/sqlx"
)

// PostgresMessageRepository implements message.Repository using PostgreSQL
type PostgresMessageRepository struct {
	db *sqlx.DB
}

func NewPostgresMessageRepository(db *sqlx.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

type messageModel struct {
	ID         string    `db:"id"`
	SenderID   string    `db:"sender_id"`
	ReceiverID string    `db:"receiver_id"`
	JobID      *string   `db:"job_id"`
	Content    string    `db:"content"`
	IsRead     bool      `db:"is_read"`
	CreatedAt  time.Time `db:"created_at"`
}

func (m *messageModel) toEntity() message.Message {
	var jobID *kernel.JobID
	if m.JobID != nil {
		id := kernel.JobID(*m.JobID)
		jobID = &id
	}
	return message.Message{
		ID:         kernel.MessageID(m.ID),
		SenderID:   kernel.UserID(m.SenderID),
		ReceiverID: kernel.UserID(m.ReceiverID),
		JobID:      jobID,
		Content:    m.Content,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt,
	}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, msg *message.Message) error {
	var jobID *string
	if msg.JobID != nil {
		id := msg.JobID.String()
		jobID = &id
	}

	_, err := dbx.Exec(ctx, r.db).ExecContext(ctx, `
		INSERT INTO messages (id, sender_id, receiver_id, job_id, content, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		msg.ID.String(), msg.SenderID.String(), msg.ReceiverID.String(),
		jobID, msg.Content, msg.IsRead, msg.CreatedAt,
	)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			switch dbx.ConstraintName(err) {
			case "messages_job_id_fkey":
				return job.ErrJobNotFound().WithDetail("job_id", msg.JobID.String())
			case "messages_receiver_id_fkey":
				return message.ErrRecipientNotFound().WithDetail("receiver_id", msg.ReceiverID.String())
			}
		}
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *PostgresMessageRepository) ListConversation(ctx context.Context, userID, otherID kernel.UserID, limit int) ([]message.Message, error) {
	// Newest limit rows, flipped back to chronological order.
	query := `
		SELECT * FROM (
			SELECT id, sender_id, receiver_id, job_id, content, is_read, created_at
			FROM messages
			WHERE (sender_id = $1 AND receiver_id = $2)
			   OR (sender_id = $2 AND receiver_id = $1)
			ORDER BY created_at DESC
			LIMIT $3
		) latest
		ORDER BY created_at ASC
	`

	var models []messageModel
	if err := dbx.Exec(ctx, r.db).SelectContext(ctx, &models, query, userID.String(), otherID.String(), limit); err != nil {
		return nil, fmt.Errorf("failed to list conversation: %w", err)
	}

	items := make([]message.Message, 0, len(models))
	for i := range models {
		items = append(items, models[i].toEntity())
	}
	return items, nil
}

func (r *PostgresMessageRepository) MarkConversationRead(ctx context.Context, userID, otherID kernel.UserID) (int, error) {
	result, err := dbx.Exec(ctx, r.db).ExecContext(ctx,
		`UPDATE messages SET is_read = true WHERE receiver_id = $1 AND sender_id = $2 AND is_read = false`,
		userID.String(), otherID.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark conversation read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rows), nil
}
