package auth

import (
	"strings"

	"github.com/Abraxas-365/bitwork/pkg/errx"
	"github.com/Abraxas-365/bitwork/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

// TokenMiddleware authenticates requests with a bearer token.
type TokenMiddleware struct {
	tokens      TokenService
	provisioner ProfileProvisioner
}

// NewAuthMiddleware builds the middleware. provisioner may be nil.
func NewAuthMiddleware(tokens TokenService, provisioner ProfileProvisioner) *TokenMiddleware {
	return &TokenMiddleware{
		tokens:      tokens,
		provisioner: provisioner,
	}
}

// Authenticate rejects requests without a valid token.
func (m *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return ErrMissingToken()
		}
		if err := m.attach(c, header); err != nil {
			return err
		}
		return c.Next()
	}
}

// Optional attaches the identity when a valid token is present and lets
// anonymous requests through. A malformed token is still rejected.
func (m *TokenMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}
		if err := m.attach(c, header); err != nil {
			return err
		}
		return c.Next()
	}
}

func (m *TokenMiddleware) attach(c *fiber.Ctx, header string) error {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return ErrInvalidToken().WithDetail("reason", "expected Bearer token")
	}

	claims, err := m.tokens.ValidateAccessToken(strings.TrimSpace(token))
	if err != nil {
		return err
	}

	if m.provisioner != nil {
		if err := m.provisioner.EnsureProfile(c.UserContext(), claims.UserID, claims.Email); err != nil {
			logx.Errorf("provision profile %s: %v", claims.UserID, err)
			return errx.Wrap(err, "failed to load profile", errx.TypeInternal)
		}
	}

	userID := claims.UserID
	c.Locals(localsKey, &AuthContext{
		UserID: &userID,
		Email:  claims.Email,
	})
	return nil
}
