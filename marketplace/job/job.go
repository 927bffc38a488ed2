package job

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Abraxas-365/bitwork/marketplace/profile"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
)

// Status represents the status of a job posting
type Status string

const (
	StatusOpen       Status = "open"        // Accepting applications
	StatusInProgress Status = "in_progress" // Work has started
	StatusCompleted  Status = "completed"   // Work is done
	StatusClosed     Status = "closed"      // No longer accepting applications
)

func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	return st, st.IsValid()
}

func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted, StatusClosed:
		return true
	}
	return false
}

// Minimum lengths of the trimmed title and description.
const (
	MinTitleLength       = 5
	MinDescriptionLength = 20
)

type Job struct {
	ID          kernel.JobID  `db:"id" json:"id"`
	ProviderID  kernel.UserID `db:"provider_id" json:"provider_id"`
	Title       string        `db:"title" json:"title"`
	Description string        `db:"description" json:"description"`
	Category    *string       `db:"category" json:"category"`
	Budget      *int          `db:"budget" json:"budget"`
	HourlyRate  *int          `db:"hourly_rate" json:"hourly_rate"`
	State       *string       `db:"state" json:"state"`
	City        *string       `db:"city" json:"city"`
	Duration    *string       `db:"duration" json:"duration"`
	HasTimeline bool          `db:"has_timeline" json:"has_timeline"`
	Skills      kernel.Skills `db:"skills" json:"skills"`
	Status      Status        `db:"status" json:"status"`
	ViewCount   int           `db:"view_count" json:"view_count"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// Listing is a job as shown to a viewer: with the provider's display
// information and whether the viewer bookmarked it.
type Listing struct {
	Job
	Provider *profile.Summary `json:"provider"`
	IsSaved  bool             `json:"is_saved"`
}

// SavedJob is a user's bookmark of a job. It is created or deleted, never
// updated.
type SavedJob struct {
	ID        kernel.SavedJobID `db:"id" json:"id"`
	UserID    kernel.UserID     `db:"user_id" json:"user_id"`
	JobID     kernel.JobID      `db:"job_id" json:"job_id"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}

// ProviderStats summarises a provider's postings.
type ProviderStats struct {
	ActiveJobs          int `json:"active_jobs"`
	TotalApplications   int `json:"total_applications"`
	PendingApplications int `json:"pending_applications"`
	TotalViews          int `json:"total_views"`
}

// ============================================================================
// Domain Methods
// ============================================================================

func (j *Job) IsOpen() bool {
	return j.Status == StatusOpen
}

func (j *Job) IsOwnedBy(userID kernel.UserID) bool {
	return j.ProviderID == userID
}

// Close marks the job as closed
func (j *Job) Close() {
	j.Status = StatusClosed
	j.UpdatedAt = time.Now()
}

// New validates a create request and builds an open job with no views.
func New(id kernel.JobID, providerID kernel.UserID, req CreateJobRequest) (*Job, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if err := validateText(title, description); err != nil {
		return nil, err
	}
	if err := validateAmounts(req.Budget, req.HourlyRate); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Job{
		ID:          id,
		ProviderID:  providerID,
		Title:       title,
		Description: description,
		Category:    kernel.TrimPtr(req.Category),
		Budget:      req.Budget,
		HourlyRate:  req.HourlyRate,
		State:       kernel.TrimPtr(req.State),
		City:        kernel.TrimPtr(req.City),
		Duration:    kernel.TrimPtr(req.Duration),
		HasTimeline: req.HasTimeline,
		Skills:      kernel.Skills(req.Skills).Normalize(),
		Status:      StatusOpen,
		ViewCount:   0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ApplyUpdate validates and applies a partial update. The provider and the
// view counter are never changed here.
func (j *Job) ApplyUpdate(req UpdateJobRequest) error {
	title, description := j.Title, j.Description
	if req.Title != nil {
		title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		description = strings.TrimSpace(*req.Description)
	}
	if err := validateText(title, description); err != nil {
		return err
	}

	budget, hourly := j.Budget, j.HourlyRate
	if req.Budget != nil {
		budget = req.Budget
	}
	if req.HourlyRate != nil {
		hourly = req.HourlyRate
	}
	if err := validateAmounts(budget, hourly); err != nil {
		return err
	}

	status := j.Status
	if req.Status != nil {
		st, ok := ParseStatus(*req.Status)
		if !ok {
			return ErrInvalidStatus().WithDetail("status", *req.Status)
		}
		status = st
	}

	j.Title, j.Description = title, description
	j.Budget, j.HourlyRate = budget, hourly
	j.Status = status
	if req.Category != nil {
		j.Category = kernel.TrimPtr(req.Category)
	}
	if req.State != nil {
		j.State = kernel.TrimPtr(req.State)
	}
	if req.City != nil {
		j.City = kernel.TrimPtr(req.City)
	}
	if req.Duration != nil {
		j.Duration = kernel.TrimPtr(req.Duration)
	}
	if req.HasTimeline != nil {
		j.HasTimeline = *req.HasTimeline
	}
	if req.Skills != nil {
		j.Skills = kernel.Skills(*req.Skills).Normalize()
	}
	j.UpdatedAt = time.Now()
	return nil
}

func validateText(title, description string) error {
	if utf8.RuneCountInString(title) < MinTitleLength {
		return ErrInvalidTitle().WithDetail("min_length", MinTitleLength)
	}
	if utf8.RuneCountInString(description) < MinDescriptionLength {
		return ErrInvalidDescription().WithDetail("min_length", MinDescriptionLength)
	}
	return nil
}

func validateAmounts(budget, hourlyRate *int) error {
	if budget != nil && *budget < 0 {
		return ErrInvalidAmount().WithDetail("field", "budget")
	}
	if hourlyRate != nil && *hourlyRate < 0 {
		return ErrInvalidAmount().WithDetail("field", "hourly_rate")
	}
	return nil
}
