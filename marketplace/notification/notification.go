package notification

import (
	"time"

	"github.com/Abraxas-365/bitwork/pkg/kernel"
)

// Type classifies what a notification is about
type Type string

const (
	TypeApplication Type = "application"
	TypeMessage     Type = "message"
	TypeSystem      Type = "system"
	TypeJob         Type = "job"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeApplication, TypeMessage, TypeSystem, TypeJob:
		return true
	}
	return false
}

// Notification is an append-only event record for one recipient. Only
// IsRead ever changes after creation.
type Notification struct {
	ID                   kernel.NotificationID `db:"id" json:"id"`
	UserID               kernel.UserID         `db:"user_id" json:"user_id"`
	Type                 Type                  `db:"type" json:"type"`
	Title                string                `db:"title" json:"title"`
	Message              string                `db:"message" json:"message"`
	RelatedJobID         *kernel.JobID         `db:"related_job_id" json:"related_job_id"`
	RelatedApplicationID *kernel.ApplicationID `db:"related_application_id" json:"related_application_id"`
	IsRead               bool                  `db:"is_read" json:"is_read"`
	CreatedAt            time.Time             `db:"created_at" json:"created_at"`
}

func (n *Notification) IsOwnedBy(userID kernel.UserID) bool {
	return n.UserID == userID
}
