package messageapi

import (
	"github.com/Abraxas-365/bitwork/marketplace/message"
	"github.com/Abraxas-365/bitwork/marketplace/message/messagesrv"
	"github.com/Abraxas-365/bitwork/pkg/iam/auth"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/Abraxas-365/bitwork/pkg/respx"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for direct messages
type Handlers struct {
	service *messagesrv.MessageService
}

func NewHandlers(service *messagesrv.MessageService) *Handlers {
	return &Handlers{service: service}
}

// SendMessage sends a message from the caller
// POST /api/messages
func (h *Handlers) SendMessage(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	var req message.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return message.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	if !kernel.ValidID(req.ReceiverID.String()) {
		return message.ErrRecipientNotFound().WithDetail("receiver_id", req.ReceiverID.String())
	}
	if req.JobID != nil && !kernel.ValidID(req.JobID.String()) {
		return message.ErrInvalidRequest().WithDetail("job_id", req.JobID.String())
	}

	msg, err := h.service.SendMessage(c.UserContext(), *authContext.UserID, req)
	if err != nil {
		return err
	}
	return respx.Created(c, msg)
}

// ListConversation returns the conversation with another user
// GET /api/messages/:userId?limit=50
func (h *Handlers) ListConversation(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	otherID := c.Params("userId")
	if !kernel.ValidID(otherID) {
		return respx.OK(c, []message.Message{})
	}

	var req message.ConversationRequest
	if err := c.QueryParser(&req); err != nil {
		return message.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	items, err := h.service.ListConversation(c.UserContext(), *authContext.UserID, kernel.NewUserID(otherID), req)
	if err != nil {
		return err
	}
	return respx.OK(c, items)
}

// MarkConversationRead marks what the other user sent as read
// POST /api/messages/:userId/read
func (h *Handlers) MarkConversationRead(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	otherID := c.Params("userId")
	if !kernel.ValidID(otherID) {
		return respx.OK(c, message.MarkReadResponse{Count: 0})
	}

	n, err := h.service.MarkConversationRead(c.UserContext(), *authContext.UserID, kernel.NewUserID(otherID))
	if err != nil {
		return err
	}
	return respx.OK(c, message.MarkReadResponse{Count: n})
}

// RegisterRoutes mounts /api/messages. Every route requires authentication.
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/messages", authMiddleware.Authenticate())

	api.Post("/", handlers.SendMessage)
	api.Get("/:userId", handlers.ListConversation)
	api.Post("/:userId/read", handlers.MarkConversationRead)
}
