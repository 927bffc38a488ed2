package applicationapi

import (
	"github.com/Abraxas-365/bitwork/marketplace/application"
	"github.com/Abraxas-365/bitwork/marketplace/application/applicationsrv"
	"github.com/Abraxas-365/bitwork/marketplace/job"
	"github.com/Abraxas-365/bitwork/pkg/iam/auth"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/Abraxas-365/bitwork/pkg/respx"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for application operations
type Handlers struct {
	service *applicationsrv.ApplicationService
}

// NewHandlers creates a new application handlers instance
func NewHandlers(service *applicationsrv.ApplicationService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// CreateApplication applies the caller to a job
// POST /api/applications
func (h *Handlers) CreateApplication(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	var req application.CreateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return application.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	if !kernel.ValidID(req.JobID.String()) {
		return job.ErrJobNotFound().WithDetail("job_id", req.JobID.String())
	}

	app, err := h.service.CreateApplication(c.UserContext(), req, *authContext.UserID)
	if err != nil {
		return err
	}
	return respx.Created(c, app)
}

// ListApplications lists the caller's applications as seeker, or the
// applications to their jobs as provider
// GET /api/applications?role=provider|seeker
func (h *Handlers) ListApplications(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	role, err := h.service.ResolveRole(c.UserContext(), *authContext.UserID, c.Query("role"))
	if err != nil {
		return err
	}

	items, err := h.service.ListApplications(c.UserContext(), *authContext.UserID, role)
	if err != nil {
		return err
	}
	return respx.OK(c, items)
}

// GetApplicationByID returns one application, or null when the caller may
// not see it
// GET /api/applications/:id?role=provider|seeker
func (h *Handlers) GetApplicationByID(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	id := c.Params("id")
	if !kernel.ValidID(id) {
		return respx.OK(c, nil)
	}

	role, err := h.service.ResolveRole(c.UserContext(), *authContext.UserID, c.Query("role"))
	if err != nil {
		return err
	}

	details, err := h.service.GetApplicationByID(c.UserContext(), kernel.NewApplicationID(id), *authContext.UserID, role)
	if err != nil {
		return err
	}
	if details == nil {
		return respx.OK(c, nil)
	}
	return respx.OK(c, details)
}

// UpdateStatus accepts or rejects an application to one of the caller's jobs
// PATCH /api/applications/:id/status
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	appID, err := applicationIDParam(c)
	if err != nil {
		return err
	}

	var req application.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return application.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	app, err := h.service.UpdateApplicationStatus(c.UserContext(), appID, *authContext.UserID, req.Status)
	if err != nil {
		return err
	}
	return respx.OK(c, app)
}

// Withdraw pulls back the caller's pending application
// POST /api/applications/:id/withdraw
func (h *Handlers) Withdraw(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	appID, err := applicationIDParam(c)
	if err != nil {
		return err
	}

	app, err := h.service.WithdrawApplication(c.UserContext(), appID, *authContext.UserID)
	if err != nil {
		return err
	}
	return respx.OK(c, app)
}

// HasApplied reports whether the caller applied to a job
// GET /api/applications/has-applied/:jobId
func (h *Handlers) HasApplied(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	jobID := c.Params("jobId")
	if !kernel.ValidID(jobID) {
		return respx.OK(c, application.HasAppliedResponse{HasApplied: false})
	}

	applied, err := h.service.HasApplied(c.UserContext(), *authContext.UserID, kernel.NewJobID(jobID))
	if err != nil {
		return err
	}
	return respx.OK(c, application.HasAppliedResponse{HasApplied: applied})
}

// GetSeekerStats returns the caller's application counters
// GET /api/applications/stats
func (h *Handlers) GetSeekerStats(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	stats, err := h.service.GetSeekerStats(c.UserContext(), *authContext.UserID)
	if err != nil {
		return err
	}
	return respx.OK(c, stats)
}

func applicationIDParam(c *fiber.Ctx) (kernel.ApplicationID, error) {
	id := c.Params("id")
	if !kernel.ValidID(id) {
		return "", application.ErrApplicationNotFound().WithDetail("application_id", id)
	}
	return kernel.NewApplicationID(id), nil
}

// RegisterRoutes mounts /api/applications. Every route requires authentication.
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/applications", authMiddleware.Authenticate())

	api.Post("/", handlers.CreateApplication)
	api.Get("/", handlers.ListApplications)
	api.Get("/stats", handlers.GetSeekerStats)
	api.Get("/has-applied/:jobId", handlers.HasApplied)
	api.Get("/:id", handlers.GetApplicationByID)
	api.Patch("/:id/status", handlers.UpdateStatus)
	api.Post("/:id/withdraw", handlers.Withdraw)
}
