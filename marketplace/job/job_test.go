package job_test

import (
	"strings"
	"testing"

	"github.com/Abraxas-365/bitwork/marketplace/job"
	"github.com/Abraxas-365/bitwork/pkg/errx"
)

func ptr[T any](v T) *T { return &v }

func validRequest() job.CreateJobRequest {
	return job.CreateJobRequest{
		Title:       "Fix leaking kitchen sink",
		Description: "The kitchen sink drips constantly and needs a new washer.",
		Budget:      ptr(120),
		City:        ptr("  Austin "),
		Skills:      []string{"plumbing", " Plumbing", ""},
	}
}

// ---------------------------------------------------------------------------
// New
// ---------------------------------------------------------------------------

func TestNew_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*job.CreateJobRequest)
		code   errx.ErrorCode
	}{
		{"short title", func(r *job.CreateJobRequest) { r.Title = "Fix" }, job.CodeInvalidTitle},
		{"padded short title", func(r *job.CreateJobRequest) { r.Title = "   Fix    " }, job.CodeInvalidTitle},
		{"short description", func(r *job.CreateJobRequest) { r.Description = "too short" }, job.CodeInvalidDescription},
		{"negative budget", func(r *job.CreateJobRequest) { r.Budget = ptr(-1) }, job.CodeInvalidAmount},
		{"negative hourly rate", func(r *job.CreateJobRequest) { r.HourlyRate = ptr(-5) }, job.CodeInvalidAmount},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			if _, err := job.New("j1", "p1", req); !errx.IsCode(err, tc.code) {
				t.Errorf("got %v, want %s", err, tc.code.Code)
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	j, err := job.New("j1", "p1", validRequest())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if j.Status != job.StatusOpen || j.ViewCount != 0 {
		t.Errorf("status=%s views=%d, want open/0", j.Status, j.ViewCount)
	}
	if j.City == nil || *j.City != "Austin" {
		t.Errorf("city not trimmed: %v", j.City)
	}
	if !j.IsOwnedBy("p1") || !j.IsOpen() {
		t.Error("ownership or open state mismatch")
	}
	if j.CreatedAt.IsZero() || !j.CreatedAt.Equal(j.UpdatedAt) {
		t.Error("timestamps not initialized together")
	}
}

// ---------------------------------------------------------------------------
// ApplyUpdate
// ---------------------------------------------------------------------------

func TestApplyUpdate(t *testing.T) {
	j, _ := job.New("j1", "p1", validRequest())

	if err := j.ApplyUpdate(job.UpdateJobRequest{Status: ptr("paused")}); !errx.IsCode(err, job.CodeInvalidStatus) {
		t.Errorf("bad status: got %v", err)
	}
	if err := j.ApplyUpdate(job.UpdateJobRequest{Title: ptr("abc")}); !errx.IsCode(err, job.CodeInvalidTitle) {
		t.Errorf("bad title: got %v", err)
	}
	if j.Title != "Fix leaking kitchen sink" {
		t.Errorf("failed update changed title to %q", j.Title)
	}

	err := j.ApplyUpdate(job.UpdateJobRequest{
		Status: ptr("closed"),
		City:   ptr("   "),
		Skills: &[]string{"Tiling"},
	})
	if err != nil {
		t.Fatalf("ApplyUpdate: %v", err)
	}
	if j.Status != job.StatusClosed {
		t.Errorf("status = %s, want closed", j.Status)
	}
	if j.City != nil {
		t.Errorf("blank city should clear, got %q", *j.City)
	}
	if j.Budget == nil || *j.Budget != 120 {
		t.Error("untouched budget changed")
	}
}

// ---------------------------------------------------------------------------
// Filters
// ---------------------------------------------------------------------------

func TestListFilters_Normalize(t *testing.T) {
	f, err := job.ListFilters{Limit: 500, City: ptr(" Austin ")}.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if f.Status != job.StatusOpen || f.Page != 1 || f.Limit != job.MaxPageSize {
		t.Errorf("defaults not applied: %+v", f)
	}
	if *f.City != "Austin" {
		t.Errorf("city = %q", *f.City)
	}

	if _, err := (job.ListFilters{MinBudget: ptr(500), MaxBudget: ptr(100)}).Normalize(); !errx.IsCode(err, job.CodeInvalidFilter) {
		t.Errorf("inverted budget range: got %v", err)
	}
	if _, err := (job.ListFilters{Status: "draft"}).Normalize(); !errx.IsCode(err, job.CodeInvalidStatus) {
		t.Errorf("bad status: got %v", err)
	}
}

func TestListFilters_CacheKey(t *testing.T) {
	a, _ := job.ListFilters{City: ptr("Austin")}.Normalize()
	b, _ := job.ListFilters{City: ptr(" Austin ")}.Normalize()
	c, _ := job.ListFilters{City: ptr("Austin"), Page: 2}.Normalize()
	d, _ := job.ListFilters{State: ptr("Austin")}.Normalize()

	if a.CacheKey() != b.CacheKey() {
		t.Errorf("equivalent filters differ: %q vs %q", a.CacheKey(), b.CacheKey())
	}
	if a.CacheKey() == c.CacheKey() {
		t.Error("page not part of the key")
	}
	if a.CacheKey() == d.CacheKey() {
		t.Error("city and state collide")
	}
	if !strings.Contains(a.CacheKey(), "s=open") {
		t.Errorf("status missing from key %q", a.CacheKey())
	}
}
