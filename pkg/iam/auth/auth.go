// Package auth verifies the access tokens issued by the external identity
// provider and exposes the authenticated profile to handlers. Credentials
// and sessions are owned by the provider; this package only checks tokens.
package auth

import (
	"context"
	"net/http"

	"github.com/Abraxas-365/bitwork/pkg/errx"
	"github.com/Abraxas-365/bitwork/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeMissingToken    = ErrRegistry.Register("MISSING_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Missing authorization header")
	CodeInvalidToken    = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid or expired token")
	CodeUnauthenticated = ErrRegistry.Register("UNAUTHENTICATED", errx.TypeAuthorization, http.StatusUnauthorized, "Authentication required")
)

func ErrMissingToken() *errx.Error {
	return ErrRegistry.New(CodeMissingToken)
}

func ErrInvalidToken() *errx.Error {
	return ErrRegistry.New(CodeInvalidToken)
}

func ErrUnauthenticated() *errx.Error {
	return ErrRegistry.New(CodeUnauthenticated)
}

// AuthContext is the identity attached to a request.
type AuthContext struct {
	UserID *kernel.UserID
	Email  kernel.Email
}

const localsKey = "auth_context"

// GetAuthContext returns the identity stored by the middleware.
func GetAuthContext(c *fiber.Ctx) (*AuthContext, bool) {
	ac, ok := c.Locals(localsKey).(*AuthContext)
	if !ok || ac == nil || ac.UserID == nil {
		return nil, false
	}
	return ac, true
}

// ViewerID returns the authenticated user, or nil for anonymous requests.
func ViewerID(c *fiber.Ctx) *kernel.UserID {
	if ac, ok := GetAuthContext(c); ok {
		return ac.UserID
	}
	return nil
}

// ProfileProvisioner creates the profile of a user the first time the user
// is seen.
type ProfileProvisioner interface {
	EnsureProfile(ctx context.Context, userID kernel.UserID, email kernel.Email) error
}
