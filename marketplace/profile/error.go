package profile

import (
	"net/http"

	"github.com/Abraxas-365/bitwork/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("PROFILE")

var (
	CodeProfileNotFound    = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Profile not found")
	CodePrefsNotFound      = ErrRegistry.Register("PREFERENCES_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Preferences not found")
	CodeUnauthorizedUpdate = ErrRegistry.Register("UNAUTHORIZED_UPDATE", errx.TypeAuthorization, http.StatusForbidden, "Unauthorized")
	CodeInvalidRole        = ErrRegistry.Register("INVALID_ROLE", errx.TypeValidation, http.StatusBadRequest, "Role must be provider or seeker")
	CodeInvalidTheme       = ErrRegistry.Register("INVALID_THEME", errx.TypeValidation, http.StatusBadRequest, "Theme must be system, light or dark")
	CodeInvalidAvatar      = ErrRegistry.Register("INVALID_AVATAR", errx.TypeValidation, http.StatusBadRequest, "Avatar must be a JPEG, PNG, GIF or WebP image")
	CodeAvatarTooLarge     = ErrRegistry.Register("AVATAR_TOO_LARGE", errx.TypeValidation, http.StatusRequestEntityTooLarge, "Avatar must be at most 5 MB")
	CodeInvalidRequest     = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
)

func ErrProfileNotFound() *errx.Error {
	return ErrRegistry.New(CodeProfileNotFound)
}

func ErrPrefsNotFound() *errx.Error {
	return ErrRegistry.New(CodePrefsNotFound)
}

func ErrUnauthorizedUpdate() *errx.Error {
	return ErrRegistry.New(CodeUnauthorizedUpdate)
}

func ErrInvalidRole() *errx.Error {
	return ErrRegistry.New(CodeInvalidRole)
}

func ErrInvalidTheme() *errx.Error {
	return ErrRegistry.New(CodeInvalidTheme)
}

func ErrInvalidAvatar() *errx.Error {
	return ErrRegistry.New(CodeInvalidAvatar)
}

func ErrAvatarTooLarge() *errx.Error {
	return ErrRegistry.New(CodeAvatarTooLarge)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}
