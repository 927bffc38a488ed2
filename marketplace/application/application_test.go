package application_test

import (
	"testing"
	"time"

	"github.com/Abraxas-365/bitwork/marketplace/application"
	"github.com/Abraxas-365/bitwork/pkg/errx"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
)

var allStatuses = []application.Status{
	application.StatusPending,
	application.StatusAccepted,
	application.StatusRejected,
	application.StatusWithdrawn,
}

// ---------------------------------------------------------------------------
// Transitions
// ---------------------------------------------------------------------------

func TestCanTransition_AllPairs(t *testing.T) {
	allowed := map[[2]application.Status]bool{
		{application.StatusPending, application.StatusAccepted}:  true,
		{application.StatusPending, application.StatusRejected}:  true,
		{application.StatusPending, application.StatusWithdrawn}: true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowed[[2]application.Status{from, to}]
			if got := application.CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range allStatuses {
		want := s != application.StatusPending
		if got := s.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", s, got, want)
		}
	}
	if application.Status("archived").IsTerminal() {
		t.Error("unknown status reported as terminal")
	}
}

func TestCheckTransition(t *testing.T) {
	app := &application.Application{Status: application.StatusAccepted}

	err := app.CheckTransition(application.StatusWithdrawn)
	if !errx.IsCode(err, application.CodeInvalidStatusTransition) {
		t.Fatalf("withdraw after accept: got %v, want INVALID_STATUS_TRANSITION", err)
	}

	app.Status = application.StatusPending
	if err := app.CheckTransition(application.StatusRejected); err != nil {
		t.Errorf("pending -> rejected: %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	cases := map[string]struct {
		want application.Status
		ok   bool
	}{
		"pending":    {application.StatusPending, true},
		" Accepted ": {application.StatusAccepted, true},
		"WITHDRAWN":  {application.StatusWithdrawn, true},
		"hired":      {"hired", false},
		"":           {"", false},
	}
	for in, tc := range cases {
		got, ok := application.ParseStatus(in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", in, got, ok, tc.want, tc.ok)
		}
	}
}

// ---------------------------------------------------------------------------
// Construction and ordering
// ---------------------------------------------------------------------------

func TestNew(t *testing.T) {
	negative := -1
	_, err := application.New("a1", "seeker", application.CreateApplicationRequest{
		JobID:        "job",
		ProposedRate: &negative,
	})
	if !errx.IsCode(err, application.CodeInvalidRate) {
		t.Fatalf("negative rate: got %v, want INVALID_RATE", err)
	}

	letter := "  I can start Monday  "
	app, err := application.New("a1", "seeker", application.CreateApplicationRequest{
		JobID:       "job",
		CoverLetter: &letter,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if app.Status != application.StatusPending {
		t.Errorf("status = %s, want pending", app.Status)
	}
	if app.CoverLetter == nil || *app.CoverLetter != "I can start Monday" {
		t.Errorf("cover letter not trimmed: %v", app.CoverLetter)
	}
	if !app.IsOwnedBy("seeker") || app.IsOwnedBy("someone-else") {
		t.Error("IsOwnedBy mismatch")
	}
}

func TestSortForProvider(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mk := func(id string, s application.Status, age time.Duration) application.Details {
		return application.Details{Application: application.Application{
			ID:        kernel.ApplicationID(id),
			Status:    s,
			CreatedAt: base.Add(-age),
		}}
	}

	items := []application.Details{
		mk("withdrawn", application.StatusWithdrawn, 0),
		mk("rejected", application.StatusRejected, 0),
		mk("old-pending", application.StatusPending, 2*time.Hour),
		mk("accepted", application.StatusAccepted, 0),
		mk("new-pending", application.StatusPending, time.Hour),
	}
	application.SortForProvider(items)

	want := []string{"new-pending", "old-pending", "accepted", "rejected", "withdrawn"}
	for i, id := range want {
		if string(items[i].ID) != id {
			t.Errorf("position %d = %s, want %s", i, items[i].ID, id)
		}
	}
}
