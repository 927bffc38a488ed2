package message

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Abraxas-365/bitwork/pkg/kernel"
)

// MaxContentLength caps a message body, in characters.
const MaxContentLength = 5000

// Message is a direct message between two profiles, optionally about a job
type Message struct {
	ID         kernel.MessageID `db:"id" json:"id"`
	SenderID   kernel.UserID    `db:"sender_id" json:"sender_id"`
	ReceiverID kernel.UserID    `db:"receiver_id" json:"receiver_id"`
	JobID      *kernel.JobID    `db:"job_id" json:"job_id"`
	Content    string           `db:"content" json:"content"`
	IsRead     bool             `db:"is_read" json:"is_read"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
}

// New validates and builds an unread message
func New(id kernel.MessageID, senderID kernel.UserID, req SendMessageRequest) (*Message, error) {
	if req.ReceiverID.IsEmpty() {
		return nil, ErrInvalidRequest().WithDetail("receiver_id", "required")
	}
	if senderID == req.ReceiverID {
		return nil, ErrSelfMessage()
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent()
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, ErrContentTooLong().WithDetail("max_length", MaxContentLength)
	}

	return &Message{
		ID:         id,
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		JobID:      req.JobID,
		Content:    content,
		IsRead:     false,
		CreatedAt:  time.Now(),
	}, nil
}

// Involves reports whether userID sent or received the message
func (m *Message) Involves(userID kernel.UserID) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}
