package notificationsrv

import (
	"context"
	"strings"
	"time"

	"github.com/Abraxas-365/bitwork/marketplace/notification"
	"github.com/Abraxas-365/bitwork/pkg/errx"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/google/uuid"
)

// NotificationService writes and manages per-user notifications
type NotificationService struct {
	repo notification.Repository
}

func NewNotificationService(repo notification.Repository) *NotificationService {
	return &NotificationService{repo: repo}
}

// Notify inserts one unread notification. When ctx carries a transaction
// the insert joins it.
func (s *NotificationService) Notify(ctx context.Context, req notification.NotifyRequest) (*notification.Notification, error) {
	if !req.Type.IsValid() {
		return nil, notification.ErrInvalidType().WithDetail("type", string(req.Type))
	}
	title := strings.TrimSpace(req.Title)
	message := strings.TrimSpace(req.Message)
	if title == "" || message == "" {
		return nil, notification.ErrMissingContent()
	}
	if req.UserID.IsEmpty() {
		return nil, notification.ErrInvalidRequest().WithDetail("user_id", "required")
	}

	n := &notification.Notification{
		ID:                   kernel.NewNotificationID(uuid.NewString()),
		UserID:               req.UserID,
		Type:                 req.Type,
		Title:                title,
		Message:              message,
		RelatedJobID:         req.RelatedJobID,
		RelatedApplicationID: req.RelatedApplicationID,
		IsRead:               false,
		CreatedAt:            time.Now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, errx.Wrap(err, "failed to create notification", errx.TypeInternal)
	}
	return n, nil
}

func (s *NotificationService) ListNotifications(ctx context.Context, userID kernel.UserID, req notification.ListRequest) ([]notification.Notification, error) {
	items, err := s.repo.ListByUser(ctx, userID, req.Normalize())
	if err != nil {
		return nil, errx.Wrap(err, "failed to list notifications", errx.TypeInternal)
	}
	if items == nil {
		items = []notification.Notification{}
	}
	return items, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID kernel.UserID) (int, error) {
	n, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, errx.Wrap(err, "failed to count notifications", errx.TypeInternal)
	}
	return n, nil
}

// MarkAsRead flips one notification. Only the recipient may do so.
func (s *NotificationService) MarkAsRead(ctx context.Context, id kernel.NotificationID, userID kernel.UserID) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return errx.Wrap(err, "failed to update notification", errx.TypeInternal)
	}
	return nil
}

// MarkAllAsRead flips every unread notification of userID and returns the
// number changed.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID kernel.UserID) (int, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, errx.Wrap(err, "failed to update notifications", errx.TypeInternal)
	}
	return n, nil
}

// DeleteNotification removes one notification. Only the recipient may do so.
func (s *NotificationService) DeleteNotification(ctx context.Context, id kernel.NotificationID, userID kernel.UserID) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errx.Wrap(err, "failed to delete notification", errx.TypeInternal)
	}
	return nil
}

func (s *NotificationService) owned(ctx context.Context, id kernel.NotificationID, userID kernel.UserID) (*notification.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err, "failed to get notification", errx.TypeInternal)
	}
	if !n.IsOwnedBy(userID) {
		return nil, notification.ErrUnauthorized().
			WithDetail("notification_id", id.String())
	}
	return n, nil
}
