package memstore

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/Abraxas-365/bitwork/marketplace/application"
	"github.com/Abraxas-365/bitwork/marketplace/job"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
)

// JobRepository implements job.Repository
type JobRepository struct{ s *Store }

func (s *Store) Jobs() *JobRepository { return &JobRepository{s: s} }

func (r *JobRepository) Create(ctx context.Context, j *job.Job) error {
	return r.s.write(ctx, func(d *state) error {
		if err := d.requireProfile(j.ProviderID, "provider_id"); err != nil {
			return err
		}
		set(d, d.jobs, j.ID, *j)
		return nil
	})
}

// Update writes the mutable columns; view_count is only moved by
// IncrementViews.
func (r *JobRepository) Update(ctx context.Context, j *job.Job) error {
	return r.s.write(ctx, func(d *state) error {
		stored, ok := d.jobs[j.ID]
		if !ok {
			return job.ErrJobNotFound().WithDetail("job_id", j.ID.String())
		}
		updated := *j
		updated.ProviderID = stored.ProviderID
		updated.ViewCount = stored.ViewCount
		updated.CreatedAt = stored.CreatedAt
		set(d, d.jobs, j.ID, updated)
		return nil
	})
}

func (r *JobRepository) GetByID(_ context.Context, id kernel.JobID) (*job.Job, error) {
	var out *job.Job
	err := r.s.read(func(d *state) error {
		j, ok := d.jobs[id]
		if !ok {
			return job.ErrJobNotFound().WithDetail("job_id", id.String())
		}
		out = &j
		return nil
	})
	return out, err
}

func (r *JobRepository) GetListing(_ context.Context, id kernel.JobID) (*job.Listing, error) {
	var out *job.Listing
	err := r.s.read(func(d *state) error {
		j, ok := d.jobs[id]
		if !ok {
			return job.ErrJobNotFound().WithDetail("job_id", id.String())
		}
		out = &job.Listing{Job: j, Provider: d.summary(j.ProviderID)}
		return nil
	})
	return out, err
}

func (r *JobRepository) Delete(ctx context.Context, id kernel.JobID) error {
	return r.s.write(ctx, func(d *state) error {
		if _, ok := d.jobs[id]; !ok {
			return job.ErrJobNotFound().WithDetail("job_id", id.String())
		}
		for _, a := range d.applications {
			if a.JobID == id {
				return job.ErrJobHasApplications().WithDetail("job_id", id.String())
			}
		}

		del(d, d.jobs, id)
		for sid, sj := range d.saved {
			if sj.JobID == id {
				del(d, d.saved, sid)
			}
		}
		for nid, n := range d.notifications {
			if n.RelatedJobID != nil && *n.RelatedJobID == id {
				n.RelatedJobID = nil
				set(d, d.notifications, nid, n)
			}
		}
		for mid, m := range d.messages {
			if m.JobID != nil && *m.JobID == id {
				m.JobID = nil
				set(d, d.messages, mid, m)
			}
		}
		return nil
	})
}

func (r *JobRepository) IncrementViews(ctx context.Context, id kernel.JobID) error {
	return r.s.write(ctx, func(d *state) error {
		j, ok := d.jobs[id]
		if !ok {
			return job.ErrJobNotFound().WithDetail("job_id", id.String())
		}
		j.ViewCount++
		set(d, d.jobs, id, j)
		return nil
	})
}

func (r *JobRepository) List(_ context.Context, filters job.ListFilters) (*kernel.Paginated[job.Listing], error) {
	var page *kernel.Paginated[job.Listing]
	err := r.s.read(func(d *state) error {
		matched := make([]job.Job, 0)
		for _, j := range d.jobs {
			if matchesFilters(j, filters) {
				matched = append(matched, j)
			}
		}
		sortNewestFirst(matched)

		pagination := filters.Pagination()
		start := min(pagination.Offset(), len(matched))
		end := min(start+pagination.PageSize, len(matched))

		items := make([]job.Listing, 0, end-start)
		for _, j := range matched[start:end] {
			items = append(items, job.Listing{Job: j, Provider: d.summary(j.ProviderID)})
		}
		page = kernel.NewPaginated(items, pagination, len(matched))
		return nil
	})
	return page, err
}

func matchesFilters(j job.Job, f job.ListFilters) bool {
	eq := func(want, got *string) bool {
		return want == nil || (got != nil && *got == *want)
	}
	switch {
	case j.Status != f.Status:
		return false
	case !eq(f.Category, j.Category), !eq(f.City, j.City), !eq(f.State, j.State):
		return false
	case f.MinBudget != nil && (j.Budget == nil || *j.Budget < *f.MinBudget):
		return false
	case f.MaxBudget != nil && (j.Budget == nil || *j.Budget > *f.MaxBudget):
		return false
	}
	return true
}

func sortNewestFirst(jobs []job.Job) {
	slices.SortFunc(jobs, func(a, b job.Job) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
}

func (r *JobRepository) ListByProvider(_ context.Context, providerID kernel.UserID, status *job.Status) ([]job.Job, error) {
	var out []job.Job
	err := r.s.read(func(d *state) error {
		for _, j := range d.jobs {
			if j.ProviderID == providerID && (status == nil || j.Status == *status) {
				out = append(out, j)
			}
		}
		sortNewestFirst(out)
		return nil
	})
	return out, err
}

func (r *JobRepository) CountApplications(_ context.Context, jobID kernel.JobID) (int, error) {
	n := 0
	err := r.s.read(func(d *state) error {
		for _, a := range d.applications {
			if a.JobID == jobID {
				n++
			}
		}
		return nil
	})
	return n, err
}

// SavedJobRepository implements job.SavedJobRepository
type SavedJobRepository struct{ s *Store }

func (s *Store) SavedJobs() *SavedJobRepository { return &SavedJobRepository{s: s} }

func (r *SavedJobRepository) Insert(ctx context.Context, saved *job.SavedJob) (bool, error) {
	inserted := false
	err := r.s.write(ctx, func(d *state) error {
		if _, ok := d.jobs[saved.JobID]; !ok {
			return job.ErrJobNotFound().WithDetail("job_id", saved.JobID.String())
		}
		if err := d.requireProfile(saved.UserID, "user_id"); err != nil {
			return err
		}
		for _, sj := range d.saved {
			if sj.UserID == saved.UserID && sj.JobID == saved.JobID {
				return nil
			}
		}
		if saved.CreatedAt.IsZero() {
			saved.CreatedAt = time.Now()
		}
		set(d, d.saved, saved.ID, *saved)
		inserted = true
		return nil
	})
	return inserted, err
}

func (r *SavedJobRepository) Delete(ctx context.Context, userID kernel.UserID, jobID kernel.JobID) (bool, error) {
	deleted := false
	err := r.s.write(ctx, func(d *state) error {
		for id, sj := range d.saved {
			if sj.UserID == userID && sj.JobID == jobID {
				del(d, d.saved, id)
				deleted = true
			}
		}
		return nil
	})
	return deleted, err
}

func (r *SavedJobRepository) DeleteByJob(ctx context.Context, jobID kernel.JobID) error {
	return r.s.write(ctx, func(d *state) error {
		for id, sj := range d.saved {
			if sj.JobID == jobID {
				del(d, d.saved, id)
			}
		}
		return nil
	})
}

func (r *SavedJobRepository) ListByUser(_ context.Context, userID kernel.UserID) ([]job.Listing, error) {
	var out []job.Listing
	err := r.s.read(func(d *state) error {
		var rows []job.SavedJob
		for _, sj := range d.saved {
			if sj.UserID == userID {
				rows = append(rows, sj)
			}
		}
		slices.SortFunc(rows, func(a, b job.SavedJob) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})

		for _, sj := range rows {
			j, ok := d.jobs[sj.JobID]
			if !ok {
				continue
			}
			out = append(out, job.Listing{Job: j, Provider: d.summary(j.ProviderID), IsSaved: true})
		}
		return nil
	})
	return out, err
}

func (r *SavedJobRepository) SavedJobIDs(_ context.Context, userID kernel.UserID, jobIDs []kernel.JobID) (map[kernel.JobID]bool, error) {
	out := make(map[kernel.JobID]bool, len(jobIDs))
	err := r.s.read(func(d *state) error {
		for _, sj := range d.saved {
			if sj.UserID == userID && slices.Contains(jobIDs, sj.JobID) {
				out[sj.JobID] = true
			}
		}
		return nil
	})
	return out, err
}

// StatsRepository implements job.StatsRepository
type StatsRepository struct{ s *Store }

func (s *Store) Stats() *StatsRepository { return &StatsRepository{s: s} }

func (r *StatsRepository) sumJobs(providerID kernel.UserID, fn func(j job.Job) int) (int, error) {
	n := 0
	err := r.s.read(func(d *state) error {
		for _, j := range d.jobs {
			if j.ProviderID == providerID {
				n += fn(j)
			}
		}
		return nil
	})
	return n, err
}

func (r *StatsRepository) countApplications(providerID kernel.UserID, pendingOnly bool) (int, error) {
	n := 0
	err := r.s.read(func(d *state) error {
		for _, a := range d.applications {
			j, ok := d.jobs[a.JobID]
			if !ok || j.ProviderID != providerID {
				continue
			}
			if pendingOnly && a.Status != application.StatusPending {
				continue
			}
			n++
		}
		return nil
	})
	return n, err
}

func (r *StatsRepository) CountActiveJobs(_ context.Context, providerID kernel.UserID) (int, error) {
	return r.sumJobs(providerID, func(j job.Job) int {
		if j.Status == job.StatusOpen {
			return 1
		}
		return 0
	})
}

func (r *StatsRepository) CountApplications(_ context.Context, providerID kernel.UserID) (int, error) {
	return r.countApplications(providerID, false)
}

func (r *StatsRepository) CountPendingApplications(_ context.Context, providerID kernel.UserID) (int, error) {
	return r.countApplications(providerID, true)
}

func (r *StatsRepository) SumViews(_ context.Context, providerID kernel.UserID) (int, error) {
	return r.sumJobs(providerID, func(j job.Job) int { return j.ViewCount })
}
