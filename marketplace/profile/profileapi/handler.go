package profileapi

import (
	"github.com/Abraxas-365/bitwork/marketplace/profile"
	"github.com/Abraxas-365/bitwork/marketplace/profile/profilesrv"
	"github.com/Abraxas-365/bitwork/pkg/iam/auth"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/Abraxas-365/bitwork/pkg/respx"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for profile operations
type Handlers struct {
	service *profilesrv.ProfileService
}

func NewHandlers(service *profilesrv.ProfileService) *Handlers {
	return &Handlers{service: service}
}

// GetMe returns the caller's profile
// GET /api/profile/me
func (h *Handlers) GetMe(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	p, err := h.service.GetProfile(c.UserContext(), *authContext.UserID)
	if err != nil {
		return err
	}
	return respx.OK(c, p)
}

// GetProfile returns a profile by ID, or null when it does not exist
// GET /api/profile/:id
func (h *Handlers) GetProfile(c *fiber.Ctx) error {
	id := c.Params("id")
	if !kernel.ValidID(id) {
		return respx.OK(c, nil)
	}

	p, err := h.service.GetProfile(c.UserContext(), kernel.UserID(id))
	if err != nil {
		return err
	}
	return respx.OK(c, p)
}

// UpdateMe applies a partial update to the caller's profile
// PATCH /api/profile/me
func (h *Handlers) UpdateMe(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	var req profile.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return profile.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	p, err := h.service.UpdateProfile(c.UserContext(), *authContext.UserID, *authContext.UserID, req)
	if err != nil {
		return err
	}
	return respx.OK(c, p)
}

// UploadAvatar replaces the caller's avatar with the "avatar" form file
// POST /api/profile/me/avatar
func (h *Handlers) UploadAvatar(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return profile.ErrInvalidRequest().WithDetail("avatar", "missing file")
	}

	body, err := file.Open()
	if err != nil {
		return profile.ErrInvalidRequest().WithDetail("avatar", err.Error())
	}
	defer body.Close()

	p, err := h.service.UploadAvatar(c.UserContext(), *authContext.UserID, *authContext.UserID, profile.AvatarUpload{
		FileName:    file.Filename,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Size:        file.Size,
		Body:        body,
	})
	if err != nil {
		return err
	}
	return respx.OK(c, p)
}

// GetPreferences returns the caller's settings
// GET /api/profile/me/preferences
func (h *Handlers) GetPreferences(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	prefs, err := h.service.GetPreferences(c.UserContext(), *authContext.UserID)
	if err != nil {
		return err
	}
	return respx.OK(c, prefs)
}

// UpdatePreferences saves the caller's settings
// PUT /api/profile/me/preferences
func (h *Handlers) UpdatePreferences(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	var req profile.UpdatePreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return profile.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	prefs, err := h.service.UpdatePreferences(c.UserContext(), *authContext.UserID, req)
	if err != nil {
		return err
	}
	return respx.OK(c, prefs)
}

// RegisterRoutes mounts /api/profile. Every route requires authentication.
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	profiles := app.Group("/api/profile", authMiddleware.Authenticate())

	profiles.Get("/me", handlers.GetMe)
	profiles.Patch("/me", handlers.UpdateMe)
	profiles.Post("/me/avatar", handlers.UploadAvatar)
	profiles.Get("/me/preferences", handlers.GetPreferences)
	profiles.Put("/me/preferences", handlers.UpdatePreferences)
	profiles.Get("/:id", handlers.GetProfile)
}
