package jobsrv_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Abraxas-365/bitwork/internal/memstore"
	"github.com/Abraxas-365/bitwork/marketplace/application"
	"github.com/Abraxas-365/bitwork/marketplace/job"
	"github.com/Abraxas-365/bitwork/marketplace/job/jobsrv"
	"github.com/Abraxas-365/bitwork/marketplace/profile"
	"github.com/Abraxas-365/bitwork/pkg/errx"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	store   *memstore.Store
	cache   *memstore.ListingCache
	service *jobsrv.JobService
}

func newFixture(t *testing.T, users ...kernel.UserID) *fixture {
	t.Helper()
	store := memstore.New()
	cache := memstore.NewListingCache()
	for _, id := range users {
		email := kernel.Email(string(id) + "@example.com")
		if _, err := store.Profiles().Create(context.Background(), profile.NewFromIdentity(id, email)); err != nil {
			t.Fatalf("seed profile %s: %v", id, err)
		}
	}
	return &fixture{
		store:   store,
		cache:   cache,
		service: jobsrv.NewJobService(store.Jobs(), store.SavedJobs(), store.Stats(), cache, store),
	}
}

func ptr[T any](v T) *T { return &v }

func (f *fixture) createJob(t *testing.T, providerID kernel.UserID, title string) *job.Job {
	t.Helper()
	j, err := f.service.CreateJob(context.Background(), job.CreateJobRequest{
		Title:       title,
		Description: "A description long enough to pass validation.",
		Budget:      ptr(100),
	}, providerID)
	if err != nil {
		t.Fatalf("CreateJob(%q): %v", title, err)
	}
	return j
}

func (f *fixture) apply(t *testing.T, jobID kernel.JobID, seekerID kernel.UserID, status application.Status) {
	t.Helper()
	ctx := context.Background()
	app, err := application.New(kernel.ApplicationID("app-"+string(jobID)+"-"+string(seekerID)), seekerID, application.CreateApplicationRequest{JobID: jobID})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.store.Applications().Create(ctx, app); err != nil {
		t.Fatalf("seed application: %v", err)
	}
	if status != application.StatusPending {
		if _, err := f.store.Applications().TransitionStatus(ctx, app.ID, application.StatusPending, status, time.Now()); err != nil {
			t.Fatal(err)
		}
	}
}

// ---------------------------------------------------------------------------
// Create / Update / Close
// ---------------------------------------------------------------------------

func TestCreateJob(t *testing.T) {
	f := newFixture(t, "provider")
	ctx := context.Background()

	_, err := f.service.CreateJob(ctx, job.CreateJobRequest{Title: "Fix", Description: "long enough description here"}, "provider")
	if !errx.IsCode(err, job.CodeInvalidTitle) {
		t.Fatalf("short title: got %v", err)
	}

	created := f.createJob(t, "provider", "Paint the fence")
	stored, err := f.store.Jobs().GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("job not stored: %v", err)
	}
	if stored.Status != job.StatusOpen || stored.ViewCount != 0 || stored.ProviderID != "provider" {
		t.Errorf("stored job = %+v", stored)
	}
}

func TestUpdateJob_OnlyProvider(t *testing.T) {
	f := newFixture(t, "provider", "intruder")
	ctx := context.Background()
	j := f.createJob(t, "provider", "Paint the fence")

	_, err := f.service.UpdateJob(ctx, j.ID, "intruder", job.UpdateJobRequest{Title: ptr("Hacked title")})
	if !errx.IsCode(err, job.CodeUnauthorizedUpdate) {
		t.Fatalf("intruder update: got %v", err)
	}

	_, err = f.service.UpdateJob(ctx, "missing", "provider", job.UpdateJobRequest{})
	if !errx.IsCode(err, job.CodeJobNotFound) {
		t.Fatalf("missing job: got %v", err)
	}

	updated, err := f.service.UpdateJob(ctx, j.ID, "provider", job.UpdateJobRequest{Title: ptr("Paint the whole fence")})
	if err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}
	if updated.Title != "Paint the whole fence" {
		t.Errorf("title = %q", updated.Title)
	}
}

func TestUpdateJob_KeepsViewCount(t *testing.T) {
	f := newFixture(t, "provider")
	ctx := context.Background()
	j := f.createJob(t, "provider", "Paint the fence")

	for range 3 {
		if err := f.service.RecordView(ctx, j.ID); err != nil {
			t.Fatal(err)
		}
	}
	// j still carries the view count read at creation.
	if _, err := f.service.UpdateJob(ctx, j.ID, "provider", job.UpdateJobRequest{City: ptr("Austin")}); err != nil {
		t.Fatal(err)
	}
	stored, _ := f.store.Jobs().GetByID(ctx, j.ID)
	if stored.ViewCount != 3 {
		t.Errorf("view count = %d after update, want 3", stored.ViewCount)
	}
}

func TestCloseJob(t *testing.T) {
	f := newFixture(t, "provider")
	j := f.createJob(t, "provider", "Paint the fence")

	closed, err := f.service.CloseJob(context.Background(), j.ID, "provider")
	if err != nil {
		t.Fatalf("CloseJob: %v", err)
	}
	if closed.Status != job.StatusClosed {
		t.Errorf("status = %s", closed.Status)
	}
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestDeleteJob_WithApplications(t *testing.T) {
	f := newFixture(t, "provider", "seeker")
	ctx := context.Background()
	j := f.createJob(t, "provider", "Paint the fence")
	f.apply(t, j.ID, "seeker", application.StatusPending)

	err := f.service.DeleteJob(ctx, j.ID, "provider")
	if !errx.IsCode(err, job.CodeJobHasApplications) {
		t.Fatalf("got %v, want HAS_APPLICATIONS", err)
	}
	if _, err := f.store.Jobs().GetByID(ctx, j.ID); err != nil {
		t.Errorf("job removed despite applications: %v", err)
	}
}

func TestDeleteJob_RemovesBookmarks(t *testing.T) {
	f := newFixture(t, "provider", "seeker")
	ctx := context.Background()
	j := f.createJob(t, "provider", "Paint the fence")
	if _, err := f.service.ToggleSaveJob(ctx, "seeker", j.ID); err != nil {
		t.Fatal(err)
	}

	if err := f.service.DeleteJob(ctx, j.ID, "seeker"); !errx.IsCode(err, job.CodeUnauthorizedUpdate) {
		t.Fatalf("non-owner delete: got %v", err)
	}
	if err := f.service.DeleteJob(ctx, j.ID, "provider"); err != nil {
		t.Fatalf("DeleteJob: %v", err)
	}

	if _, err := f.store.Jobs().GetByID(ctx, j.ID); !errx.IsCode(err, job.CodeJobNotFound) {
		t.Errorf("job still present: %v", err)
	}
	saved, err := f.service.ListSavedJobs(ctx, "seeker")
	if err != nil {
		t.Fatal(err)
	}
	if len(saved) != 0 {
		t.Errorf("bookmarks survived delete: %d", len(saved))
	}
}

// ---------------------------------------------------------------------------
// Views and reads
// ---------------------------------------------------------------------------

func TestRecordView(t *testing.T) {
	f := newFixture(t, "provider")
	ctx := context.Background()
	j := f.createJob(t, "provider", "Paint the fence")

	const n = 7
	for range n {
		if err := f.service.RecordView(ctx, j.ID); err != nil {
			t.Fatalf("RecordView: %v", err)
		}
	}
	stored, _ := f.store.Jobs().GetByID(ctx, j.ID)
	if stored.ViewCount != n {
		t.Errorf("view count = %d, want %d", stored.ViewCount, n)
	}

	if err := f.service.RecordView(ctx, "missing"); !errx.IsCode(err, job.CodeJobNotFound) {
		t.Errorf("missing job: got %v", err)
	}
}

func TestGetJobByID(t *testing.T) {
	f := newFixture(t, "provider", "seeker")
	ctx := context.Background()
	j := f.createJob(t, "provider", "Paint the fence")

	missing, err := f.service.GetJobByID(ctx, "missing", nil)
	if err != nil || missing != nil {
		t.Fatalf("missing job = (%v, %v), want (nil, nil)", missing, err)
	}

	if _, err := f.service.ToggleSaveJob(ctx, "seeker", j.ID); err != nil {
		t.Fatal(err)
	}
	seekerID := kernel.UserID("seeker")
	listing, err := f.service.GetJobByID(ctx, j.ID, &seekerID)
	if err != nil {
		t.Fatalf("GetJobByID: %v", err)
	}
	if !listing.IsSaved {
		t.Error("viewer bookmark not reported")
	}
	if listing.ViewCount != 1 {
		t.Errorf("view count = %d, want 1", listing.ViewCount)
	}
	if listing.Provider == nil || listing.Provider.FullName == nil || *listing.Provider.FullName != "provider" {
		t.Errorf("provider summary = %+v", listing.Provider)
	}

	anon, err := f.service.GetJobByID(ctx, j.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if anon.IsSaved {
		t.Error("anonymous viewer sees a bookmark")
	}
	if anon.ViewCount != 2 {
		t.Errorf("view count = %d, want 2", anon.ViewCount)
	}
}

// ---------------------------------------------------------------------------
// Listing
// ---------------------------------------------------------------------------

func TestListJobs_Pagination(t *testing.T) {
	f := newFixture(t, "provider")
	ctx := context.Background()
	for i := range 13 {
		f.createJob(t, "provider", fmt.Sprintf("Job number %02d", i))
	}

	first, err := f.service.ListJobs(ctx, job.ListFilters{}, nil)
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(first.Items) != job.DefaultPageSize || !first.HasMore {
		t.Errorf("page 1: %d items, hasMore=%v", len(first.Items), first.HasMore)
	}
	if first.Page.Total != 13 {
		t.Errorf("total = %d", first.Page.Total)
	}

	second, err := f.service.ListJobs(ctx, job.ListFilters{Page: 2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(second.Items) != 1 || second.HasMore {
		t.Errorf("page 2: %d items, hasMore=%v", len(second.Items), second.HasMore)
	}
}

func TestListJobs_Filters(t *testing.T) {
	f := newFixture(t, "provider")
	ctx := context.Background()

	cheap := f.createJob(t, "provider", "Mow the lawn")
	pricey, err := f.service.CreateJob(ctx, job.CreateJobRequest{
		Title:       "Build a deck",
		Description: "Cedar deck for the back yard, about 200 sq ft.",
		Budget:      ptr(5000),
		City:        ptr("Austin"),
	}, "provider")
	if err != nil {
		t.Fatal(err)
	}
	closed := f.createJob(t, "provider", "Clean gutters")
	if _, err := f.service.CloseJob(ctx, closed.ID, "provider"); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name    string
		filters job.ListFilters
		want    []kernel.JobID
	}{
		{"default is open only", job.ListFilters{}, []kernel.JobID{pricey.ID, cheap.ID}},
		{"closed", job.ListFilters{Status: job.StatusClosed}, []kernel.JobID{closed.ID}},
		{"city", job.ListFilters{City: ptr("Austin")}, []kernel.JobID{pricey.ID}},
		{"min budget", job.ListFilters{MinBudget: ptr(1000)}, []kernel.JobID{pricey.ID}},
		{"max budget", job.ListFilters{MaxBudget: ptr(1000)}, []kernel.JobID{cheap.ID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, err := f.service.ListJobs(ctx, tc.filters, nil)
			if err != nil {
				t.Fatal(err)
			}
			if len(page.Items) != len(tc.want) {
				t.Fatalf("got %d items, want %d", len(page.Items), len(tc.want))
			}
			for i, id := range tc.want {
				if page.Items[i].ID != id {
					t.Errorf("item %d = %s, want %s", i, page.Items[i].ID, id)
				}
			}
		})
	}

	_, err = f.service.ListJobs(ctx, job.ListFilters{MinBudget: ptr(10), MaxBudget: ptr(1)}, nil)
	if !errx.IsCode(err, job.CodeInvalidFilter) {
		t.Errorf("inverted budget: got %v", err)
	}
}

func TestListJobs_CacheInvalidatedOnWrite(t *testing.T) {
	f := newFixture(t, "provider", "seeker")
	ctx := context.Background()
	f.createJob(t, "provider", "Mow the lawn")

	if _, err := f.service.ListJobs(ctx, job.ListFilters{}, nil); err != nil {
		t.Fatal(err)
	}
	if f.cache.Len() != 1 {
		t.Fatalf("cache entries = %d, want 1", f.cache.Len())
	}

	second := f.createJob(t, "provider", "Build a deck")
	if f.cache.Len() != 0 {
		t.Errorf("create did not invalidate the cache")
	}

	seekerID := kernel.UserID("seeker")
	if _, err := f.service.ToggleSaveJob(ctx, seekerID, second.ID); err != nil {
		t.Fatal(err)
	}
	page, err := f.service.ListJobs(ctx, job.ListFilters{}, &seekerID)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("stale page: %d items", len(page.Items))
	}
	if !page.Items[0].IsSaved || page.Items[1].IsSaved {
		t.Errorf("saved overlay = [%v %v], want [true false]", page.Items[0].IsSaved, page.Items[1].IsSaved)
	}

	// The overlay must not leak into the cached page.
	anon, err := f.service.ListJobs(ctx, job.ListFilters{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if anon.Items[0].IsSaved {
		t.Error("cached page carries a viewer's bookmark")
	}
}

func TestListProviderJobs(t *testing.T) {
	f := newFixture(t, "provider", "other")
	ctx := context.Background()
	open := f.createJob(t, "provider", "Mow the lawn")
	closed := f.createJob(t, "provider", "Clean gutters")
	f.createJob(t, "other", "Walk the dog")
	if _, err := f.service.CloseJob(ctx, closed.ID, "provider"); err != nil {
		t.Fatal(err)
	}

	all, err := f.service.ListProviderJobs(ctx, "provider", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("got %d jobs, want 2", len(all))
	}

	status := job.StatusOpen
	onlyOpen, err := f.service.ListProviderJobs(ctx, "provider", &status)
	if err != nil {
		t.Fatal(err)
	}
	if len(onlyOpen) != 1 || onlyOpen[0].ID != open.ID {
		t.Errorf("open jobs = %+v", onlyOpen)
	}

	bad := job.Status("draft")
	if _, err := f.service.ListProviderJobs(ctx, "provider", &bad); !errx.IsCode(err, job.CodeInvalidStatus) {
		t.Errorf("bad status: got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Bookmarks
// ---------------------------------------------------------------------------

func TestToggleSaveJob(t *testing.T) {
	f := newFixture(t, "provider", "seeker")
	ctx := context.Background()
	j := f.createJob(t, "provider", "Mow the lawn")

	for i, want := range []bool{true, false, true} {
		saved, err := f.service.ToggleSaveJob(ctx, "seeker", j.ID)
		if err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		if saved != want {
			t.Errorf("toggle %d = %v, want %v", i, saved, want)
		}
	}

	items, err := f.service.ListSavedJobs(ctx, "seeker")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != j.ID || !items[0].IsSaved {
		t.Errorf("saved jobs = %+v", items)
	}

	if _, err := f.service.ToggleSaveJob(ctx, "seeker", "missing"); !errx.IsCode(err, job.CodeJobNotFound) {
		t.Errorf("missing job: got %v", err)
	}
}

// lateBookmarks misses the existing bookmark on delete, as when a
// concurrent toggle inserts it right after the delete ran.
type lateBookmarks struct {
	job.SavedJobRepository
}

func (lateBookmarks) Delete(context.Context, kernel.UserID, kernel.JobID) (bool, error) {
	return false, nil
}

func TestToggleSaveJob_ConcurrentInsert(t *testing.T) {
	f := newFixture(t, "provider", "seeker")
	ctx := context.Background()
	j := f.createJob(t, "provider", "Mow the lawn")
	if _, err := f.service.ToggleSaveJob(ctx, "seeker", j.ID); err != nil {
		t.Fatal(err)
	}

	racing := jobsrv.NewJobService(f.store.Jobs(), lateBookmarks{f.store.SavedJobs()}, f.store.Stats(), f.cache, f.store)
	saved, err := racing.ToggleSaveJob(ctx, "seeker", j.ID)
	if err != nil {
		t.Fatalf("ToggleSaveJob: %v", err)
	}
	if !saved {
		t.Error("toggle reported unsaved although the bookmark exists")
	}

	items, err := f.service.ListSavedJobs(ctx, "seeker")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Errorf("bookmarks = %d, want exactly 1", len(items))
	}
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

func TestGetProviderStats(t *testing.T) {
	f := newFixture(t, "provider", "s1", "s2", "s3", "s4")
	ctx := context.Background()

	a := f.createJob(t, "provider", "Mow the lawn")
	b := f.createJob(t, "provider", "Build a deck")
	c := f.createJob(t, "provider", "Clean gutters")
	if _, err := f.service.CloseJob(ctx, c.ID, "provider"); err != nil {
		t.Fatal(err)
	}

	f.apply(t, a.ID, "s1", application.StatusPending)
	f.apply(t, a.ID, "s2", application.StatusRejected)
	f.apply(t, b.ID, "s3", application.StatusAccepted)
	f.apply(t, c.ID, "s4", application.StatusWithdrawn)

	views := map[kernel.JobID]int{a.ID: 20, b.ID: 10, c.ID: 5}
	for id, n := range views {
		for range n {
			if err := f.service.RecordView(ctx, id); err != nil {
				t.Fatal(err)
			}
		}
	}

	stats, err := f.service.GetProviderStats(ctx, "provider")
	if err != nil {
		t.Fatalf("GetProviderStats: %v", err)
	}
	want := job.ProviderStats{ActiveJobs: 2, TotalApplications: 4, PendingApplications: 1, TotalViews: 35}
	if *stats != want {
		t.Errorf("stats = %+v, want %+v", *stats, want)
	}

	empty, err := f.service.GetProviderStats(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if *empty != (job.ProviderStats{}) {
		t.Errorf("seeker stats = %+v, want zeros", *empty)
	}
}
