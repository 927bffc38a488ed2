package job

import (
	"context"

	"github.com/Abraxas-365/bitwork/pkg/kernel"
)

type Repository interface {
	// Create creates a new job
	Create(ctx context.Context, job *Job) error

	// Update writes every mutable column of the job
	Update(ctx context.Context, job *Job) error

	// GetByID returns ErrJobNotFound when absent
	GetByID(ctx context.Context, id kernel.JobID) (*Job, error)

	// GetListing returns the job with its provider's display information
	GetListing(ctx context.Context, id kernel.JobID) (*Listing, error)

	// Delete deletes a job by ID
	Delete(ctx context.Context, id kernel.JobID) error

	// IncrementViews adds one to the view counter atomically
	IncrementViews(ctx context.Context, id kernel.JobID) error

	// List returns one page of jobs matching normalized filters, newest
	// first. IsSaved is left false.
	List(ctx context.Context, filters ListFilters) (*kernel.Paginated[Listing], error)

	// ListByProvider returns a provider's jobs, newest first
	ListByProvider(ctx context.Context, providerID kernel.UserID, status *Status) ([]Job, error)

	CountApplications(ctx context.Context, jobID kernel.JobID) (int, error)
}

type SavedJobRepository interface {
	// Insert bookmarks a job unless the pair already exists. It reports
	// whether a row was written and returns ErrJobNotFound for unknown jobs.
	Insert(ctx context.Context, saved *SavedJob) (bool, error)

	// Delete removes the pair and reports whether it existed
	Delete(ctx context.Context, userID kernel.UserID, jobID kernel.JobID) (bool, error)

	DeleteByJob(ctx context.Context, jobID kernel.JobID) error

	// ListByUser returns bookmarked jobs, most recently saved first
	ListByUser(ctx context.Context, userID kernel.UserID) ([]Listing, error)

	// SavedJobIDs returns which of jobIDs the user bookmarked
	SavedJobIDs(ctx context.Context, userID kernel.UserID, jobIDs []kernel.JobID) (map[kernel.JobID]bool, error)
}

// StatsRepository answers the independent counts of ProviderStats.
type StatsRepository interface {
	CountActiveJobs(ctx context.Context, providerID kernel.UserID) (int, error)
	CountApplications(ctx context.Context, providerID kernel.UserID) (int, error)
	CountPendingApplications(ctx context.Context, providerID kernel.UserID) (int, error)
	SumViews(ctx context.Context, providerID kernel.UserID) (int, error)
}

// ListingCache stores listing pages by generation. Invalidate starts a new
// generation, so pages computed before a job mutation are never served
// after it, even when their Set lands late.
type ListingCache interface {
	// Key scopes a filter key to the current generation
	Key(ctx context.Context, filterKey string) (string, error)
	Get(ctx context.Context, key string) (*kernel.Paginated[Listing], bool, error)
	Set(ctx context.Context, key string, page *kernel.Paginated[Listing]) error
	Invalidate(ctx context.Context) error
}
