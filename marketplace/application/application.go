package application

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/Abraxas-365/bitwork/marketplace/job"
	"github.com/Abraxas-365/bitwork/marketplace/profile"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
)

// Status represents the status of an application
type Status string

const (
	StatusPending   Status = "pending"   // Initial state
	StatusAccepted  Status = "accepted"  // Chosen by the provider
	StatusRejected  Status = "rejected"  // Declined by the provider
	StatusWithdrawn Status = "withdrawn" // Pulled back by the seeker
)

// transitions lists the statuses reachable from each status. Statuses
// without an entry are terminal.
var transitions = map[Status][]Status{
	StatusPending: {StatusAccepted, StatusRejected, StatusWithdrawn},
}

func ParseStatus(s string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	return status, status.IsValid()
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	_, ok := transitions[s]
	return s.IsValid() && !ok
}

// CanTransition reports whether from → to is a defined transition
func CanTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}

// Rank orders statuses in the provider's inbox: pending first.
func (s Status) Rank() int {
	switch s {
	case StatusPending:
		return 1
	case StatusAccepted:
		return 2
	case StatusRejected:
		return 3
	default:
		return 4
	}
}

type Application struct {
	ID           kernel.ApplicationID `db:"id" json:"id"`
	JobID        kernel.JobID         `db:"job_id" json:"job_id"`
	SeekerID     kernel.UserID        `db:"seeker_id" json:"seeker_id"`
	CoverLetter  *string              `db:"cover_letter" json:"cover_letter"`
	ProposedRate *int                 `db:"proposed_rate" json:"proposed_rate"`
	Availability *string              `db:"availability" json:"availability"`
	Status       Status               `db:"status" json:"status"`
	CreatedAt    time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time            `db:"updated_at" json:"updated_at"`
}

// Details is an application joined with its job and, for providers, the
// seeker's display information.
type Details struct {
	Application
	Job    *job.Job         `json:"job"`
	Seeker *profile.Summary `json:"seeker,omitempty"`
}

// SeekerStats - counters of a seeker's own applications
type SeekerStats struct {
	TotalApplications    int `json:"total_applications"`
	PendingApplications  int `json:"pending_applications"`
	AcceptedApplications int `json:"accepted_applications"`
	RejectedApplications int `json:"rejected_applications"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// New builds a pending application from a seeker's request
func New(id kernel.ApplicationID, seekerID kernel.UserID, req CreateApplicationRequest) (*Application, error) {
	if req.ProposedRate != nil && *req.ProposedRate < 0 {
		return nil, ErrInvalidRate().WithDetail("proposed_rate", *req.ProposedRate)
	}

	now := time.Now()
	return &Application{
		ID:           id,
		JobID:        req.JobID,
		SeekerID:     seekerID,
		CoverLetter:  kernel.TrimPtr(req.CoverLetter),
		ProposedRate: req.ProposedRate,
		Availability: kernel.TrimPtr(req.Availability),
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (a *Application) IsOwnedBy(seekerID kernel.UserID) bool {
	return a.SeekerID == seekerID
}

// CheckTransition fails with ErrInvalidStatusTransition unless the
// application may move to next.
func (a *Application) CheckTransition(next Status) error {
	if !CanTransition(a.Status, next) {
		return ErrInvalidStatusTransition().
			WithDetail("current_status", a.Status).
			WithDetail("new_status", next)
	}
	return nil
}

// SortForProvider orders by status rank, then newest first.
func SortForProvider(items []Details) {
	slices.SortStableFunc(items, func(a, b Details) int {
		if c := cmp.Compare(a.Status.Rank(), b.Status.Rank()); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
