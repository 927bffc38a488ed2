package memstore

import (
	"context"
	"slices"

	"github.com/Abraxas-365/bitwork/marketplace/job"
	"github.com/Abraxas-365/bitwork/marketplace/message"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
)

// MessageRepository implements message.Repository
type MessageRepository struct{ s *Store }

func (s *Store) Messages() *MessageRepository { return &MessageRepository{s: s} }

func (r *MessageRepository) Create(ctx context.Context, msg *message.Message) error {
	return r.s.write(ctx, func(d *state) error {
		if err := d.requireProfile(msg.SenderID, "sender_id"); err != nil {
			return err
		}
		if _, ok := d.profiles[msg.ReceiverID]; !ok {
			return message.ErrRecipientNotFound().WithDetail("receiver_id", msg.ReceiverID.String())
		}
		if msg.JobID != nil {
			if _, ok := d.jobs[*msg.JobID]; !ok {
				return job.ErrJobNotFound().WithDetail("job_id", msg.JobID.String())
			}
		}
		set(d, d.messages, msg.ID, *msg)
		return nil
	})
}

func (r *MessageRepository) ListConversation(_ context.Context, userID, otherID kernel.UserID, limit int) ([]message.Message, error) {
	var out []message.Message
	err := r.s.read(func(d *state) error {
		for _, m := range d.messages {
			if (m.SenderID == userID && m.ReceiverID == otherID) ||
				(m.SenderID == otherID && m.ReceiverID == userID) {
				out = append(out, m)
			}
		}
		slices.SortFunc(out, func(a, b message.Message) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
		if limit > 0 && len(out) > limit {
			out = out[len(out)-limit:]
		}
		return nil
	})
	return out, err
}

func (r *MessageRepository) MarkConversationRead(ctx context.Context, userID, otherID kernel.UserID) (int, error) {
	count := 0
	err := r.s.write(ctx, func(d *state) error {
		for id, m := range d.messages {
			if m.ReceiverID == userID && m.SenderID == otherID && !m.IsRead {
				m.IsRead = true
				set(d, d.messages, id, m)
				count++
			}
		}
		return nil
	})
	return count, err
}
