package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abraxas-365/bitwork/pkg/config"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type testServer struct {
	t         *testing.T
	app       *fiber.App
	container *Container
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		Memory:  true,
		Auth:    config.AuthConfig{JWTSecret: "test-secret"},
		Listing: config.ListingConfig{CacheTTL: time.Minute},
	}
	container, err := NewContainer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(container.Close)
	return &testServer{t: t, app: NewServer(container), container: container}
}

// user mints a token for a fresh identity.
func (s *testServer) user(name string) (kernel.UserID, string) {
	s.t.Helper()
	id := kernel.NewUserID(uuid.NewString())
	token, err := s.container.TokenService.GenerateAccessToken(id, kernel.Email(name+"@example.com"))
	if err != nil {
		s.t.Fatal(err)
	}
	return id, token
}

func (s *testServer) do(method, path, token string, body any) (int, envelope) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			s.t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	if err != nil {
		s.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		s.t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, env := s.do(http.MethodGet, "/health", "", nil)
	if status != http.StatusOK || !env.Success {
		t.Fatalf("health = %d %+v", status, env)
	}
	data := decode[struct {
		Status string `json:"status"`
	}](t, env.Data)
	if data.Status != "ok" {
		t.Errorf("status = %q", data.Status)
	}
}

func TestMarketplaceFlow(t *testing.T) {
	s := newTestServer(t)
	_, providerToken := s.user("provider")
	_, seekerToken := s.user("seeker")

	newJob := map[string]any{
		"title":       "Fix leaking sink",
		"description": "The kitchen sink drips constantly and needs a new washer.",
		"budget":      120,
		"city":        "Austin",
	}
	if status, env := s.do(http.MethodPost, "/api/jobs", "", newJob); status != http.StatusUnauthorized || env.Success {
		t.Fatalf("anonymous create = %d %+v", status, env)
	}

	status, env := s.do(http.MethodPost, "/api/jobs", providerToken, newJob)
	if status != http.StatusCreated {
		t.Fatalf("create job = %d %+v", status, env)
	}
	created := decode[struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}](t, env.Data)
	if created.Status != "open" {
		t.Errorf("job status = %q", created.Status)
	}

	_, env = s.do(http.MethodGet, "/api/jobs?city=Austin", "", nil)
	page := decode[struct {
		Items []struct {
			ID       string `json:"id"`
			Provider *struct {
				FullName string `json:"full_name"`
			} `json:"provider"`
		} `json:"items"`
		HasMore bool `json:"has_more"`
	}](t, env.Data)
	if len(page.Items) != 1 || page.Items[0].ID != created.ID || page.HasMore {
		t.Fatalf("listing = %+v", page)
	}
	if page.Items[0].Provider == nil || page.Items[0].Provider.FullName != "provider" {
		t.Errorf("provider summary = %+v", page.Items[0].Provider)
	}

	if status, env := s.do(http.MethodGet, "/api/jobs?minBudget=abc", "", nil); status != http.StatusBadRequest || env.Code != "JOB_INVALID_FILTER" {
		t.Errorf("bad filter = %d %+v", status, env)
	}

	status, env = s.do(http.MethodPost, "/api/applications", seekerToken, map[string]any{"job_id": created.ID, "cover_letter": "I can start Monday"})
	if status != http.StatusCreated {
		t.Fatalf("apply = %d %+v", status, env)
	}
	app := decode[struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}](t, env.Data)

	if status, env := s.do(http.MethodPost, "/api/applications", seekerToken, map[string]any{"job_id": created.ID}); status != http.StatusConflict || env.Code != "APPLICATION_ALREADY_EXISTS" {
		t.Errorf("duplicate apply = %d %+v", status, env)
	}
	if status, env := s.do(http.MethodPost, "/api/applications", providerToken, map[string]any{"job_id": created.ID}); status != http.StatusUnprocessableEntity || env.Code != "APPLICATION_SELF_APPLICATION" {
		t.Errorf("self apply = %d %+v", status, env)
	}

	_, env = s.do(http.MethodGet, "/api/notifications/unread-count", providerToken, nil)
	if count := decode[struct {
		Count int `json:"count"`
	}](t, env.Data); count.Count != 1 {
		t.Errorf("provider unread = %d, want 1", count.Count)
	}

	if status, env := s.do(http.MethodPatch, "/api/applications/"+app.ID+"/status", seekerToken, map[string]string{"status": "accepted"}); status != http.StatusForbidden {
		t.Errorf("seeker accepting own application = %d %+v", status, env)
	}
	status, env = s.do(http.MethodPatch, "/api/applications/"+app.ID+"/status", providerToken, map[string]string{"status": "accepted"})
	if status != http.StatusOK {
		t.Fatalf("accept = %d %+v", status, env)
	}

	status, env = s.do(http.MethodPost, "/api/applications/"+app.ID+"/withdraw", seekerToken, nil)
	if status != http.StatusConflict || env.Code != "APPLICATION_INVALID_STATUS_TRANSITION" {
		t.Errorf("withdraw after accept = %d %+v", status, env)
	}

	_, env = s.do(http.MethodGet, "/api/applications?role=provider", providerToken, nil)
	inbox := decode[[]struct {
		Status string `json:"status"`
	}](t, env.Data)
	if len(inbox) != 1 || inbox[0].Status != "accepted" {
		t.Errorf("provider inbox = %+v", inbox)
	}

	if status, _ := s.do(http.MethodDelete, "/api/jobs/"+created.ID, providerToken, nil); status != http.StatusConflict {
		t.Errorf("delete job with applications = %d, want 409", status)
	}
}

func TestJobReads(t *testing.T) {
	s := newTestServer(t)
	_, providerToken := s.user("provider")
	_, seekerToken := s.user("seeker")

	status, env := s.do(http.MethodGet, "/api/jobs/"+uuid.NewString(), "", nil)
	if status != http.StatusOK || string(env.Data) != "null" {
		t.Errorf("unknown job = %d %s", status, env.Data)
	}
	if status, env := s.do(http.MethodGet, "/api/jobs/not-a-uuid", "", nil); status != http.StatusOK || string(env.Data) != "null" {
		t.Errorf("malformed id = %d %s", status, env.Data)
	}

	_, env = s.do(http.MethodPost, "/api/jobs", providerToken, map[string]any{
		"title":       "Paint the fence",
		"description": "Two coats on about forty feet of picket fence.",
	})
	jobID := decode[struct {
		ID string `json:"id"`
	}](t, env.Data).ID

	if status, _ := s.do(http.MethodPost, "/api/jobs/"+jobID+"/view", "", nil); status != http.StatusOK {
		t.Errorf("anonymous view = %d", status)
	}

	_, env = s.do(http.MethodPost, "/api/jobs/"+jobID+"/save", seekerToken, nil)
	if saved := decode[struct {
		Saved bool `json:"saved"`
	}](t, env.Data); !saved.Saved {
		t.Error("first toggle did not save")
	}

	_, env = s.do(http.MethodGet, "/api/jobs/"+jobID, seekerToken, nil)
	listing := decode[struct {
		IsSaved   bool `json:"is_saved"`
		ViewCount int  `json:"view_count"`
	}](t, env.Data)
	if !listing.IsSaved || listing.ViewCount != 2 {
		t.Errorf("listing = %+v, want saved with 2 views", listing)
	}

	_, env = s.do(http.MethodGet, "/api/jobs/stats", providerToken, nil)
	stats := decode[struct {
		ActiveJobs int `json:"active_jobs"`
		TotalViews int `json:"total_views"`
	}](t, env.Data)
	if stats.ActiveJobs != 1 || stats.TotalViews != 2 {
		t.Errorf("stats = %+v", stats)
	}
}
