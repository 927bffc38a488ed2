package memstore

import (
	"context"
	"slices"

	"github.com/Abraxas-365/bitwork/marketplace/notification"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
)

// NotificationRepository implements notification.Repository
type NotificationRepository struct{ s *Store }

func (s *Store) Notifications() *NotificationRepository { return &NotificationRepository{s: s} }

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.s.write(ctx, func(d *state) error {
		if err := d.requireProfile(n.UserID, "user_id"); err != nil {
			return err
		}
		set(d, d.notifications, n.ID, *n)
		return nil
	})
}

func (r *NotificationRepository) GetByID(_ context.Context, id kernel.NotificationID) (*notification.Notification, error) {
	var out *notification.Notification
	err := r.s.read(func(d *state) error {
		n, ok := d.notifications[id]
		if !ok {
			return notification.ErrNotificationNotFound().WithDetail("notification_id", id.String())
		}
		out = &n
		return nil
	})
	return out, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id kernel.NotificationID) error {
	return r.s.write(ctx, func(d *state) error {
		n, ok := d.notifications[id]
		if !ok {
			return notification.ErrNotificationNotFound().WithDetail("notification_id", id.String())
		}
		n.IsRead = true
		set(d, d.notifications, id, n)
		return nil
	})
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID kernel.UserID) (int, error) {
	count := 0
	err := r.s.write(ctx, func(d *state) error {
		for id, n := range d.notifications {
			if n.UserID == userID && !n.IsRead {
				n.IsRead = true
				set(d, d.notifications, id, n)
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *NotificationRepository) Delete(ctx context.Context, id kernel.NotificationID) error {
	return r.s.write(ctx, func(d *state) error {
		if _, ok := d.notifications[id]; !ok {
			return notification.ErrNotificationNotFound().WithDetail("notification_id", id.String())
		}
		del(d, d.notifications, id)
		return nil
	})
}

func (r *NotificationRepository) ListByUser(_ context.Context, userID kernel.UserID, req notification.ListRequest) ([]notification.Notification, error) {
	var out []notification.Notification
	err := r.s.read(func(d *state) error {
		for _, n := range d.notifications {
			if n.UserID == userID && (!req.OnlyUnread || !n.IsRead) {
				out = append(out, n)
			}
		}
		slices.SortFunc(out, func(a, b notification.Notification) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
		if req.Limit > 0 && len(out) > req.Limit {
			out = out[:req.Limit]
		}
		return nil
	})
	return out, err
}

func (r *NotificationRepository) CountUnread(_ context.Context, userID kernel.UserID) (int, error) {
	n := 0
	err := r.s.read(func(d *state) error {
		for _, item := range d.notifications {
			if item.UserID == userID && !item.IsRead {
				n++
			}
		}
		return nil
	})
	return n, err
}
