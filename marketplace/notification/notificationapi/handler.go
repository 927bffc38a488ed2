package notificationapi

import (
	"github.com/Abraxas-365/bitwork/marketplace/notification"
	"github.com/Abraxas-365/bitwork/marketplace/notification/notificationsrv"
	"github.com/Abraxas-365/bitwork/pkg/iam/auth"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/Abraxas-365/bitwork/pkg/respx"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for notification operations
type Handlers struct {
	service *notificationsrv.NotificationService
}

func NewHandlers(service *notificationsrv.NotificationService) *Handlers {
	return &Handlers{service: service}
}

// ListNotifications returns the caller's notifications, newest first
// GET /api/notifications?limit=20&unread=true
func (h *Handlers) ListNotifications(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	var req notification.ListRequest
	if err := c.QueryParser(&req); err != nil {
		return notification.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	items, err := h.service.ListNotifications(c.UserContext(), *authContext.UserID, req)
	if err != nil {
		return err
	}
	return respx.OK(c, items)
}

// UnreadCount returns the number of unread notifications
// GET /api/notifications/unread-count
func (h *Handlers) UnreadCount(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	n, err := h.service.UnreadCount(c.UserContext(), *authContext.UserID)
	if err != nil {
		return err
	}
	return respx.OK(c, notification.UnreadCountResponse{Count: n})
}

// MarkAsRead marks one notification as read
// POST /api/notifications/:id/read
func (h *Handlers) MarkAsRead(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	id, err := notificationID(c)
	if err != nil {
		return err
	}

	if err := h.service.MarkAsRead(c.UserContext(), id, *authContext.UserID); err != nil {
		return err
	}
	return respx.OK(c, nil)
}

// MarkAllAsRead marks every notification of the caller as read
// POST /api/notifications/read-all
func (h *Handlers) MarkAllAsRead(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	n, err := h.service.MarkAllAsRead(c.UserContext(), *authContext.UserID)
	if err != nil {
		return err
	}
	return respx.OK(c, notification.MarkAllResponse{Count: n})
}

// DeleteNotification deletes one notification
// DELETE /api/notifications/:id
func (h *Handlers) DeleteNotification(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	id, err := notificationID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteNotification(c.UserContext(), id, *authContext.UserID); err != nil {
		return err
	}
	return respx.OK(c, nil)
}

func notificationID(c *fiber.Ctx) (kernel.NotificationID, error) {
	id := c.Params("id")
	if !kernel.ValidID(id) {
		return "", notification.ErrNotificationNotFound().WithDetail("notification_id", id)
	}
	return kernel.NewNotificationID(id), nil
}

// RegisterRoutes mounts /api/notifications. Every route requires authentication.
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/notifications", authMiddleware.Authenticate())

	api.Get("/", handlers.ListNotifications)
	api.Get("/unread-count", handlers.UnreadCount)
	api.Post("/read-all", handlers.MarkAllAsRead)
	api.Post("/:id/read", handlers.MarkAsRead)
	api.Delete("/:id", handlers.DeleteNotification)
}
