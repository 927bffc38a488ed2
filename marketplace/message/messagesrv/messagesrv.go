package messagesrv

import (
	"context"

	"github.com/Abraxas-365/bitwork/marketplace/message"
	"github.com/Abraxas-365/bitwork/marketplace/notification"
	"github.com/Abraxas-365/bitwork/pkg/dbx"
	"github.com/Abraxas-365/bitwork/pkg/errx"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/google/uuid"
)

// MessageService handles direct messages between profiles
type MessageService struct {
	repo     message.Repository
	notifier message.Notifier
	tx       dbx.Transactor
}

func NewMessageService(repo message.Repository, notifier message.Notifier, tx dbx.Transactor) *MessageService {
	return &MessageService{
		repo:     repo,
		notifier: notifier,
		tx:       tx,
	}
}

// SendMessage stores the message and notifies the receiver atomically
func (s *MessageService) SendMessage(ctx context.Context, senderID kernel.UserID, req message.SendMessageRequest) (*message.Message, error) {
	msg, err := message.New(kernel.NewMessageID(uuid.NewString()), senderID, req)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, msg); err != nil {
			return errx.Wrap(err, "failed to send message", errx.TypeInternal)
		}

		_, err := s.notifier.Notify(ctx, notification.NotifyRequest{
			UserID:       msg.ReceiverID,
			Type:         notification.TypeMessage,
			Title:        "New Message",
			Message:      "You have received a new message",
			RelatedJobID: msg.JobID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// ListConversation returns the latest messages between userID and otherID,
// oldest first
func (s *MessageService) ListConversation(ctx context.Context, userID, otherID kernel.UserID, req message.ConversationRequest) ([]message.Message, error) {
	items, err := s.repo.ListConversation(ctx, userID, otherID, req.Normalize().Limit)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list conversation", errx.TypeInternal)
	}
	if items == nil {
		items = []message.Message{}
	}
	return items, nil
}

// MarkConversationRead marks what otherID sent to userID as read
func (s *MessageService) MarkConversationRead(ctx context.Context, userID, otherID kernel.UserID) (int, error) {
	n, err := s.repo.MarkConversationRead(ctx, userID, otherID)
	if err != nil {
		return 0, errx.Wrap(err, "failed to mark conversation read", errx.TypeInternal)
	}
	return n, nil
}
