package notification

import "github.com/Abraxas-365/bitwork/pkg/kernel"

// NotifyRequest - a notification to emit
type NotifyRequest struct {
	UserID               kernel.UserID
	Type                 Type
	Title                string
	Message              string
	RelatedJobID         *kernel.JobID
	RelatedApplicationID *kernel.ApplicationID
}

// ListRequest - a page of a user's notifications, newest first
type ListRequest struct {
	Limit      int  `query:"limit"`
	OnlyUnread bool `query:"unread"`
}

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

func (r ListRequest) Normalize() ListRequest {
	if r.Limit <= 0 {
		r.Limit = DefaultListLimit
	}
	if r.Limit > MaxListLimit {
		r.Limit = MaxListLimit
	}
	return r
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

type MarkAllResponse struct {
	Count int `json:"count"`
}
