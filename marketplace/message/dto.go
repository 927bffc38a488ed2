package message

import "github.com/Abraxas-365/bitwork/pkg/kernel"

// SendMessageRequest - DTO for sending a direct message
type SendMessageRequest struct {
	ReceiverID kernel.UserID `json:"receiver_id"`
	JobID      *kernel.JobID `json:"job_id,omitempty"`
	Content    string        `json:"content"`
}

const (
	DefaultConversationLimit = 50
	MaxConversationLimit     = 200
)

// ConversationRequest - the latest messages between two profiles
type ConversationRequest struct {
	Limit int `query:"limit"`
}

func (r ConversationRequest) Normalize() ConversationRequest {
	if r.Limit <= 0 {
		r.Limit = DefaultConversationLimit
	}
	if r.Limit > MaxConversationLimit {
		r.Limit = MaxConversationLimit
	}
	return r
}

type MarkReadResponse struct {
	Count int `json:"count"`
}
