package application

import (
	"context"
	"time"

	"github.com/Abraxas-365/bitwork/marketplace/job"
	"github.com/Abraxas-365/bitwork/marketplace/notification"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
)

type Repository interface {
	// Create returns ErrAlreadyExists when the (job, seeker) pair is taken
	Create(ctx context.Context, application *Application) error

	// GetByID returns ErrApplicationNotFound when absent
	GetByID(ctx context.Context, id kernel.ApplicationID) (*Application, error)

	// GetDetails returns the application with its job and seeker
	GetDetails(ctx context.Context, id kernel.ApplicationID) (*Details, error)

	// TransitionStatus moves the application from one status to another in
	// a single conditional write. It reports false when the stored status
	// was no longer from.
	TransitionStatus(ctx context.Context, id kernel.ApplicationID, from, to Status, at time.Time) (bool, error)

	// ListBySeeker returns a seeker's applications with their jobs, newest first
	ListBySeeker(ctx context.Context, seekerID kernel.UserID) ([]Details, error)

	// ListByProvider returns applications across a provider's jobs with
	// seeker display info, ordered by status rank then newest first
	ListByProvider(ctx context.Context, providerID kernel.UserID) ([]Details, error)

	Exists(ctx context.Context, jobID kernel.JobID, seekerID kernel.UserID) (bool, error)

	// CountBySeeker counts a seeker's applications, optionally by status
	CountBySeeker(ctx context.Context, seekerID kernel.UserID, status *Status) (int, error)
}

// JobReader is the slice of the job store applications depend on
type JobReader interface {
	GetByID(ctx context.Context, id kernel.JobID) (*job.Job, error)
}

// Notifier emits notifications inside the caller's transaction
type Notifier interface {
	Notify(ctx context.Context, req notification.NotifyRequest) (*notification.Notification, error)
}

// RoleResolver reads the role a user chose on their profile
type RoleResolver interface {
	RoleOf(ctx context.Context, userID kernel.UserID) (kernel.Role, error)
}
