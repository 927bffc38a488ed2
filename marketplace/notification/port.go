package notification

import (
	"context"

	"github.com/Abraxas-365/bitwork/pkg/kernel"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error

	// GetByID returns ErrNotificationNotFound when absent
	GetByID(ctx context.Context, id kernel.NotificationID) (*Notification, error)

	MarkRead(ctx context.Context, id kernel.NotificationID) error

	// MarkAllRead flips every unread notification of the user and returns
	// how many changed
	MarkAllRead(ctx context.Context, userID kernel.UserID) (int, error)

	Delete(ctx context.Context, id kernel.NotificationID) error

	ListByUser(ctx context.Context, userID kernel.UserID, req ListRequest) ([]Notification, error)

	CountUnread(ctx context.Context, userID kernel.UserID) (int, error)
}
