package memstore

import (
	"context"
	"slices"
	"time"

	"github.com/Abraxas-365/bitwork/marketplace/application"
	"github.com/Abraxas-365/bitwork/marketplace/job"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
)

// ApplicationRepository implements application.Repository
type ApplicationRepository struct{ s *Store }

func (s *Store) Applications() *ApplicationRepository { return &ApplicationRepository{s: s} }

func (r *ApplicationRepository) Create(ctx context.Context, app *application.Application) error {
	return r.s.write(ctx, func(d *state) error {
		for _, a := range d.applications {
			if a.JobID == app.JobID && a.SeekerID == app.SeekerID {
				return application.ErrAlreadyExists().WithDetail("job_id", app.JobID.String())
			}
		}
		if _, ok := d.jobs[app.JobID]; !ok {
			return job.ErrJobNotFound().WithDetail("job_id", app.JobID.String())
		}
		if err := d.requireProfile(app.SeekerID, "seeker_id"); err != nil {
			return err
		}
		set(d, d.applications, app.ID, *app)
		return nil
	})
}

func (r *ApplicationRepository) GetByID(_ context.Context, id kernel.ApplicationID) (*application.Application, error) {
	var out *application.Application
	err := r.s.read(func(d *state) error {
		a, ok := d.applications[id]
		if !ok {
			return application.ErrApplicationNotFound().WithDetail("application_id", id.String())
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *ApplicationRepository) GetDetails(_ context.Context, id kernel.ApplicationID) (*application.Details, error) {
	var out *application.Details
	err := r.s.read(func(d *state) error {
		a, ok := d.applications[id]
		if !ok {
			return application.ErrApplicationNotFound().WithDetail("application_id", id.String())
		}
		details := d.details(a, true)
		out = &details
		return nil
	})
	return out, err
}

func (d *state) details(a application.Application, withSeeker bool) application.Details {
	out := application.Details{Application: a}
	if j, ok := d.jobs[a.JobID]; ok {
		out.Job = &j
	}
	if withSeeker {
		out.Seeker = d.summary(a.SeekerID)
	}
	return out
}

func (r *ApplicationRepository) TransitionStatus(ctx context.Context, id kernel.ApplicationID, from, to application.Status, at time.Time) (bool, error) {
	changed := false
	err := r.s.write(ctx, func(d *state) error {
		a, ok := d.applications[id]
		if !ok || a.Status != from {
			return nil
		}
		a.Status = to
		a.UpdatedAt = at
		set(d, d.applications, id, a)
		changed = true
		return nil
	})
	return changed, err
}

func (r *ApplicationRepository) ListBySeeker(_ context.Context, seekerID kernel.UserID) ([]application.Details, error) {
	var out []application.Details
	err := r.s.read(func(d *state) error {
		for _, a := range d.applications {
			if a.SeekerID == seekerID {
				out = append(out, d.details(a, false))
			}
		}
		slices.SortStableFunc(out, func(a, b application.Details) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
		return nil
	})
	return out, err
}

func (r *ApplicationRepository) ListByProvider(_ context.Context, providerID kernel.UserID) ([]application.Details, error) {
	var out []application.Details
	err := r.s.read(func(d *state) error {
		for _, a := range d.applications {
			j, ok := d.jobs[a.JobID]
			if ok && j.ProviderID == providerID {
				out = append(out, d.details(a, true))
			}
		}
		application.SortForProvider(out)
		return nil
	})
	return out, err
}

func (r *ApplicationRepository) Exists(_ context.Context, jobID kernel.JobID, seekerID kernel.UserID) (bool, error) {
	exists := false
	err := r.s.read(func(d *state) error {
		for _, a := range d.applications {
			if a.JobID == jobID && a.SeekerID == seekerID {
				exists = true
				break
			}
		}
		return nil
	})
	return exists, err
}

func (r *ApplicationRepository) CountBySeeker(_ context.Context, seekerID kernel.UserID, status *application.Status) (int, error) {
	n := 0
	err := r.s.read(func(d *state) error {
		for _, a := range d.applications {
			if a.SeekerID == seekerID && (status == nil || a.Status == *status) {
				n++
			}
		}
		return nil
	})
	return n, err
}
