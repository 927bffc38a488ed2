package message

import (
	"context"

	"github.com/Abraxas-365/bitwork/marketplace/notification"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
)

type Repository interface {
	// Create returns ErrRecipientNotFound for an unknown receiver
	Create(ctx context.Context, msg *Message) error

	// ListConversation returns the latest limit messages exchanged between
	// the two users, oldest first
	ListConversation(ctx context.Context, userID, otherID kernel.UserID, limit int) ([]Message, error)

	// MarkConversationRead flips the unread messages otherID sent to userID
	MarkConversationRead(ctx context.Context, userID, otherID kernel.UserID) (int, error)
}

// Notifier emits notifications inside the caller's transaction
type Notifier interface {
	Notify(ctx context.Context, req notification.NotifyRequest) (*notification.Notification, error)
}
