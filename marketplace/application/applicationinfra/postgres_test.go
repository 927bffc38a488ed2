package applicationinfra

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/bitwork/internal/pgtest"
	"github.com/Abraxas-365/bitwork/marketplace/application"
	"github.com/Abraxas-365/bitwork/marketplace/job"
	"github.com/Abraxas-365/bitwork/pkg/errx"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/google/uuid"
)

func apply(t *testing.T, repo *PostgresApplicationRepository, jobID kernel.JobID, seekerID kernel.UserID) (*application.Application, error) {
	t.Helper()
	app, err := application.New(kernel.NewApplicationID(uuid.NewString()), seekerID, application.CreateApplicationRequest{JobID: jobID})
	if err != nil {
		t.Fatal(err)
	}
	return app, repo.Create(context.Background(), app)
}

func TestPostgresApplicationRepository_Create(t *testing.T) {
	db := pgtest.Open(t)
	ctx := context.Background()
	repo := NewPostgresApplicationRepository(db)
	provider, seeker := pgtest.User(t, db), pgtest.User(t, db)
	jobID := pgtest.Job(t, db, provider)

	if _, err := apply(t, repo, jobID, seeker); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := apply(t, repo, jobID, seeker); !errx.IsCode(err, application.CodeAlreadyExists) {
		t.Errorf("duplicate: got %v", err)
	}
	if _, err := apply(t, repo, kernel.NewJobID(uuid.NewString()), seeker); !errx.IsCode(err, job.CodeJobNotFound) {
		t.Errorf("missing job: got %v", err)
	}

	exists, err := repo.Exists(ctx, jobID, seeker)
	if err != nil || !exists {
		t.Errorf("Exists = (%v, %v)", exists, err)
	}
}

func TestPostgresApplicationRepository_TransitionStatus(t *testing.T) {
	db := pgtest.Open(t)
	ctx := context.Background()
	repo := NewPostgresApplicationRepository(db)
	provider, seeker := pgtest.User(t, db), pgtest.User(t, db)
	app, err := apply(t, repo, pgtest.Job(t, db, provider), seeker)
	if err != nil {
		t.Fatal(err)
	}

	ok, err := repo.TransitionStatus(ctx, app.ID, application.StatusPending, application.StatusAccepted, time.Now())
	if err != nil || !ok {
		t.Fatalf("accept = (%v, %v)", ok, err)
	}
	// A second decision based on the stale pending read must not land.
	ok, err = repo.TransitionStatus(ctx, app.ID, application.StatusPending, application.StatusRejected, time.Now())
	if err != nil || ok {
		t.Errorf("stale reject = (%v, %v), want no row", ok, err)
	}

	stored, err := repo.GetByID(ctx, app.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != application.StatusAccepted {
		t.Errorf("status = %s, want accepted", stored.Status)
	}
}

func TestPostgresApplicationRepository_ListByProvider(t *testing.T) {
	db := pgtest.Open(t)
	ctx := context.Background()
	repo := NewPostgresApplicationRepository(db)
	provider := pgtest.User(t, db)
	jobID := pgtest.Job(t, db, provider)

	for _, status := range []application.Status{application.StatusAccepted, application.StatusWithdrawn, application.StatusPending, application.StatusRejected} {
		app, err := apply(t, repo, jobID, pgtest.User(t, db))
		if err != nil {
			t.Fatal(err)
		}
		if status == application.StatusPending {
			continue
		}
		if ok, err := repo.TransitionStatus(ctx, app.ID, application.StatusPending, status, time.Now()); err != nil || !ok {
			t.Fatalf("move to %s = (%v, %v)", status, ok, err)
		}
	}

	items, err := repo.ListByProvider(ctx, provider)
	if err != nil {
		t.Fatal(err)
	}
	want := []application.Status{application.StatusPending, application.StatusAccepted, application.StatusRejected, application.StatusWithdrawn}
	if len(items) != len(want) {
		t.Fatalf("got %d applications, want %d", len(items), len(want))
	}
	for i, item := range items {
		if item.Status != want[i] {
			t.Errorf("items[%d].Status = %s, want %s", i, item.Status, want[i])
		}
		if item.Seeker == nil || item.Job == nil {
			t.Errorf("items[%d] missing job or seeker: %+v", i, item)
		}
	}
}
