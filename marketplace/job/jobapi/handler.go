package jobapi

import (
	"strconv"

	"github.com/Abraxas-365/bitwork/marketplace/job"
	"github.com/Abraxas-365/bitwork/marketplace/job/jobsrv"
	"github.com/Abraxas-365/bitwork/pkg/iam/auth"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/Abraxas-365/bitwork/pkg/respx"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for job operations
type Handlers struct {
	service *jobsrv.JobService
}

// NewHandlers creates a new job handlers instance
func NewHandlers(service *jobsrv.JobService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// CreateJob creates a new job posting owned by the caller
// POST /api/jobs
func (h *Handlers) CreateJob(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	var req job.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return job.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	newJob, err := h.service.CreateJob(c.UserContext(), req, *authContext.UserID)
	if err != nil {
		return err
	}
	return respx.Created(c, newJob)
}

// GetJobByID returns a job with its provider and records a view. Unknown
// jobs yield null data.
// GET /api/jobs/:id
func (h *Handlers) GetJobByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if !kernel.ValidID(id) {
		return respx.OK(c, nil)
	}

	listing, err := h.service.GetJobByID(c.UserContext(), kernel.NewJobID(id), auth.ViewerID(c))
	if err != nil {
		return err
	}
	if listing == nil {
		return respx.OK(c, nil)
	}
	return respx.OK(c, listing)
}

// ListJobs searches open jobs
// GET /api/jobs?category=&city=&state=&minBudget=&maxBudget=&status=&page=&limit=
func (h *Handlers) ListJobs(c *fiber.Ctx) error {
	filters, err := parseListFilters(c)
	if err != nil {
		return err
	}

	page, err := h.service.ListJobs(c.UserContext(), filters, auth.ViewerID(c))
	if err != nil {
		return err
	}
	return respx.OK(c, page)
}

// ListMyJobs returns the caller's own postings
// GET /api/jobs/mine?status=
func (h *Handlers) ListMyJobs(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	var status *job.Status
	if raw := c.Query("status"); raw != "" {
		s := job.Status(raw)
		status = &s
	}

	jobs, err := h.service.ListProviderJobs(c.UserContext(), *authContext.UserID, status)
	if err != nil {
		return err
	}
	return respx.OK(c, jobs)
}

// GetProviderStats returns the caller's dashboard counters
// GET /api/jobs/stats
func (h *Handlers) GetProviderStats(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	stats, err := h.service.GetProviderStats(c.UserContext(), *authContext.UserID)
	if err != nil {
		return err
	}
	return respx.OK(c, stats)
}

// UpdateJob applies a partial update
// PATCH /api/jobs/:id
func (h *Handlers) UpdateJob(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}

	var req job.UpdateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return job.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	updated, err := h.service.UpdateJob(c.UserContext(), jobID, *authContext.UserID, req)
	if err != nil {
		return err
	}
	return respx.OK(c, updated)
}

// CloseJob stops a job from accepting applications
// POST /api/jobs/:id/close
func (h *Handlers) CloseJob(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}

	closed, err := h.service.CloseJob(c.UserContext(), jobID, *authContext.UserID)
	if err != nil {
		return err
	}
	return respx.OK(c, closed)
}

// DeleteJob deletes a job without applications
// DELETE /api/jobs/:id
func (h *Handlers) DeleteJob(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteJob(c.UserContext(), jobID, *authContext.UserID); err != nil {
		return err
	}
	return respx.OK(c, nil)
}

// RecordView counts one view
// POST /api/jobs/:id/view
func (h *Handlers) RecordView(c *fiber.Ctx) error {
	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}

	if err := h.service.RecordView(c.UserContext(), jobID); err != nil {
		return err
	}
	return respx.OK(c, nil)
}

// ToggleSave bookmarks or un-bookmarks a job
// POST /api/jobs/:id/save
func (h *Handlers) ToggleSave(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}

	saved, err := h.service.ToggleSaveJob(c.UserContext(), *authContext.UserID, jobID)
	if err != nil {
		return err
	}
	return respx.OK(c, job.SaveResponse{Saved: saved})
}

// ListSavedJobs returns the caller's bookmarks
// GET /api/jobs/saved
func (h *Handlers) ListSavedJobs(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	items, err := h.service.ListSavedJobs(c.UserContext(), *authContext.UserID)
	if err != nil {
		return err
	}
	return respx.OK(c, items)
}

// ============================================================================
// Helper Functions
// ============================================================================

func jobIDParam(c *fiber.Ctx) (kernel.JobID, error) {
	id := c.Params("id")
	if !kernel.ValidID(id) {
		return "", job.ErrJobNotFound().WithDetail("job_id", id)
	}
	return kernel.NewJobID(id), nil
}

func parseListFilters(c *fiber.Ctx) (job.ListFilters, error) {
	filters := job.ListFilters{
		Category: optionalQuery(c, "category"),
		City:     optionalQuery(c, "city"),
		State:    optionalQuery(c, "state"),
		Status:   job.Status(c.Query("status")),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", job.DefaultPageSize),
	}

	var err error
	if filters.MinBudget, err = optionalInt(c, "minBudget"); err != nil {
		return filters, err
	}
	if filters.MaxBudget, err = optionalInt(c, "maxBudget"); err != nil {
		return filters, err
	}
	return filters, nil
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	return &v
}

func optionalInt(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, job.ErrInvalidFilter().WithDetail(key, raw)
	}
	return &n, nil
}

// RegisterRoutes mounts /api/jobs. Browsing is public; a valid token, when
// present, personalizes the saved state.
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/jobs")

	api.Get("/", authMiddleware.Optional(), handlers.ListJobs)

	// Static paths before /:id
	api.Get("/saved", authMiddleware.Authenticate(), handlers.ListSavedJobs)
	api.Get("/mine", authMiddleware.Authenticate(), handlers.ListMyJobs)
	api.Get("/stats", authMiddleware.Authenticate(), handlers.GetProviderStats)

	api.Post("/", authMiddleware.Authenticate(), handlers.CreateJob)
	api.Get("/:id", authMiddleware.Optional(), handlers.GetJobByID)
	api.Patch("/:id", authMiddleware.Authenticate(), handlers.UpdateJob)
	api.Delete("/:id", authMiddleware.Authenticate(), handlers.DeleteJob)
	api.Post("/:id/close", authMiddleware.Authenticate(), handlers.CloseJob)
	api.Post("/:id/view", handlers.RecordView)
	api.Post("/:id/save", authMiddleware.Authenticate(), handlers.ToggleSave)
}
