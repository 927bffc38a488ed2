package jobsrv

import (
	"context"

	"github.com/Abraxas-365/bitwork/marketplace/job"
	"github.com/Abraxas-365/bitwork/pkg/dbx"
	"github.com/Abraxas-365/bitwork/pkg/errx"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/Abraxas-365/bitwork/pkg/logx"
	"github.com/google/uuid"
)

// JobService provides business operations for jobs and saved jobs
type JobService struct {
	jobRepo   job.Repository
	savedRepo job.SavedJobRepository
	statsRepo job.StatsRepository
	cache     job.ListingCache
	tx        dbx.Transactor
}

// NewJobService creates a new instance of the job service
func NewJobService(
	jobRepo job.Repository,
	savedRepo job.SavedJobRepository,
	statsRepo job.StatsRepository,
	cache job.ListingCache,
	tx dbx.Transactor,
) *JobService {
	return &JobService{
		jobRepo:   jobRepo,
		savedRepo: savedRepo,
		statsRepo: statsRepo,
		cache:     cache,
		tx:        tx,
	}
}

// CreateJob creates an open job owned by providerID
func (s *JobService) CreateJob(ctx context.Context, req job.CreateJobRequest, providerID kernel.UserID) (*job.Job, error) {
	newJob, err := job.New(kernel.NewJobID(uuid.NewString()), providerID, req)
	if err != nil {
		return nil, err
	}

	if err := s.jobRepo.Create(ctx, newJob); err != nil {
		return nil, errx.Wrap(err, "failed to create job", errx.TypeInternal)
	}

	s.invalidateListings(ctx)
	return newJob, nil
}

// UpdateJob applies a partial update. Only the job's provider may update it.
func (s *JobService) UpdateJob(ctx context.Context, jobID kernel.JobID, providerID kernel.UserID, req job.UpdateJobRequest) (*job.Job, error) {
	jobEntity, err := s.ownedJob(ctx, jobID, providerID)
	if err != nil {
		return nil, err
	}

	if err := jobEntity.ApplyUpdate(req); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Update(ctx, jobEntity); err != nil {
		return nil, errx.Wrap(err, "failed to update job", errx.TypeInternal)
	}

	s.invalidateListings(ctx)
	return jobEntity, nil
}

// CloseJob stops a job from accepting applications
func (s *JobService) CloseJob(ctx context.Context, jobID kernel.JobID, providerID kernel.UserID) (*job.Job, error) {
	jobEntity, err := s.ownedJob(ctx, jobID, providerID)
	if err != nil {
		return nil, err
	}

	jobEntity.Close()
	if err := s.jobRepo.Update(ctx, jobEntity); err != nil {
		return nil, errx.Wrap(err, "failed to close job", errx.TypeInternal)
	}

	s.invalidateListings(ctx)
	return jobEntity, nil
}

// DeleteJob hard-deletes a job and its bookmarks. Jobs that received
// applications cannot be deleted; close them instead.
func (s *JobService) DeleteJob(ctx context.Context, jobID kernel.JobID, providerID kernel.UserID) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.ownedJob(ctx, jobID, providerID); err != nil {
			return err
		}

		count, err := s.jobRepo.CountApplications(ctx, jobID)
		if err != nil {
			return errx.Wrap(err, "failed to count applications", errx.TypeInternal)
		}
		if count > 0 {
			return job.ErrJobHasApplications().
				WithDetail("job_id", jobID.String()).
				WithDetail("applications", count)
		}

		if err := s.savedRepo.DeleteByJob(ctx, jobID); err != nil {
			return errx.Wrap(err, "failed to delete saved jobs", errx.TypeInternal)
		}
		if err := s.jobRepo.Delete(ctx, jobID); err != nil {
			return errx.Wrap(err, "failed to delete job", errx.TypeInternal)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateListings(ctx)
	return nil
}

// RecordView increments the view counter. Every call counts, including
// views by the job's own provider.
func (s *JobService) RecordView(ctx context.Context, jobID kernel.JobID) error {
	if err := s.jobRepo.IncrementViews(ctx, jobID); err != nil {
		return errx.Wrap(err, "failed to record view", errx.TypeInternal)
	}
	return nil
}

// GetJobByID returns the job as seen by viewerID (nil for anonymous) and
// records a view. An absent job yields nil without error.
func (s *JobService) GetJobByID(ctx context.Context, jobID kernel.JobID, viewerID *kernel.UserID) (*job.Listing, error) {
	listing, err := s.jobRepo.GetListing(ctx, jobID)
	if err != nil {
		if errx.IsCode(err, job.CodeJobNotFound) {
			return nil, nil
		}
		return nil, errx.Wrap(err, "failed to get job", errx.TypeInternal)
	}

	if viewerID != nil {
		saved, err := s.savedRepo.SavedJobIDs(ctx, *viewerID, []kernel.JobID{jobID})
		if err != nil {
			return nil, errx.Wrap(err, "failed to load saved state", errx.TypeInternal)
		}
		listing.IsSaved = saved[jobID]
	}

	if err := s.jobRepo.IncrementViews(ctx, jobID); err != nil {
		if errx.IsCode(err, job.CodeJobNotFound) {
			return nil, nil
		}
		return nil, errx.Wrap(err, "failed to record view", errx.TypeInternal)
	}
	// The row was read before the increment.
	listing.ViewCount++

	return listing, nil
}

// ListJobs returns one page of jobs matching filters. Pages are served from
// the listing cache when possible; the viewer's bookmarks are overlaid on
// every page.
func (s *JobService) ListJobs(ctx context.Context, filters job.ListFilters, viewerID *kernel.UserID) (*kernel.Paginated[job.Listing], error) {
	filters, err := filters.Normalize()
	if err != nil {
		return nil, err
	}

	page, err := s.cachedList(ctx, filters)
	if err != nil {
		return nil, err
	}

	if viewerID == nil || len(page.Items) == 0 {
		return page, nil
	}

	ids := make([]kernel.JobID, len(page.Items))
	for i := range page.Items {
		ids[i] = page.Items[i].ID
	}
	saved, err := s.savedRepo.SavedJobIDs(ctx, *viewerID, ids)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load saved state", errx.TypeInternal)
	}

	out := *page
	out.Items = make([]job.Listing, len(page.Items))
	for i, item := range page.Items {
		item.IsSaved = saved[item.ID]
		out.Items[i] = item
	}
	return &out, nil
}

// cachedList serves a page from the cache, filling it on a miss. Cache
// failures degrade to a plain query.
func (s *JobService) cachedList(ctx context.Context, filters job.ListFilters) (*kernel.Paginated[job.Listing], error) {
	key, err := s.cache.Key(ctx, filters.CacheKey())
	if err != nil {
		logx.Warnf("listing cache key: %v", err)
		key = ""
	}

	if key != "" {
		page, hit, err := s.cache.Get(ctx, key)
		if err != nil {
			logx.Warnf("listing cache get %q: %v", key, err)
		} else if hit {
			return page, nil
		}
	}

	page, err := s.jobRepo.List(ctx, filters)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list jobs", errx.TypeInternal)
	}

	if key != "" {
		if err := s.cache.Set(ctx, key, page); err != nil {
			logx.Warnf("listing cache set %q: %v", key, err)
		}
	}
	return page, nil
}

// ListProviderJobs returns the provider's own jobs, optionally by status
func (s *JobService) ListProviderJobs(ctx context.Context, providerID kernel.UserID, status *job.Status) ([]job.Job, error) {
	if status != nil && !status.IsValid() {
		return nil, job.ErrInvalidStatus().WithDetail("status", string(*status))
	}

	jobs, err := s.jobRepo.ListByProvider(ctx, providerID, status)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list provider jobs", errx.TypeInternal)
	}
	if jobs == nil {
		jobs = []job.Job{}
	}
	return jobs, nil
}

// ToggleSaveJob flips the bookmark and returns the resulting state. The
// delete runs first so concurrent toggles settle on the unique constraint
// instead of a stale read.
func (s *JobService) ToggleSaveJob(ctx context.Context, userID kernel.UserID, jobID kernel.JobID) (bool, error) {
	var saved bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		deleted, err := s.savedRepo.Delete(ctx, userID, jobID)
		if err != nil {
			return errx.Wrap(err, "failed to unsave job", errx.TypeInternal)
		}
		if deleted {
			saved = false
			return nil
		}

		_, err = s.savedRepo.Insert(ctx, &job.SavedJob{
			ID:     kernel.NewSavedJobID(uuid.NewString()),
			UserID: userID,
			JobID:  jobID,
		})
		if err != nil {
			return errx.Wrap(err, "failed to save job", errx.TypeInternal)
		}
		// A concurrent insert of the same pair also leaves the job saved.
		saved = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return saved, nil
}

// ListSavedJobs returns the user's bookmarks, most recently saved first
func (s *JobService) ListSavedJobs(ctx context.Context, userID kernel.UserID) ([]job.Listing, error) {
	items, err := s.savedRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list saved jobs", errx.TypeInternal)
	}
	if items == nil {
		items = []job.Listing{}
	}
	return items, nil
}

func (s *JobService) ownedJob(ctx context.Context, jobID kernel.JobID, providerID kernel.UserID) (*job.Job, error) {
	jobEntity, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to get job", errx.TypeInternal)
	}
	if !jobEntity.IsOwnedBy(providerID) {
		return nil, job.ErrUnauthorizedUpdate().
			WithDetail("job_id", jobID.String()).
			WithDetail("user_id", providerID.String())
	}
	return jobEntity, nil
}

func (s *JobService) invalidateListings(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logx.Warnf("listing cache invalidate: %v", err)
	}
}
