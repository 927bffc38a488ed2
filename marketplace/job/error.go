package job

import (
	"net/http"

	"github.com/Abraxas-365/bitwork/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("JOB")

// Error codes
var (
	CodeJobNotFound        = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Job not found")
	CodeJobHasApplications = ErrRegistry.Register("HAS_APPLICATIONS", errx.TypeBusiness, http.StatusConflict, "Cannot delete job with applications")
	CodeUnauthorizedUpdate = ErrRegistry.Register("UNAUTHORIZED_UPDATE", errx.TypeAuthorization, http.StatusForbidden, "Unauthorized")
	CodeInvalidTitle       = ErrRegistry.Register("INVALID_TITLE", errx.TypeValidation, http.StatusBadRequest, "Title must be at least 5 characters")
	CodeInvalidDescription = ErrRegistry.Register("INVALID_DESCRIPTION", errx.TypeValidation, http.StatusBadRequest, "Description must be at least 20 characters")
	CodeInvalidAmount      = ErrRegistry.Register("INVALID_AMOUNT", errx.TypeValidation, http.StatusBadRequest, "Budget and hourly rate must not be negative")
	CodeInvalidStatus      = ErrRegistry.Register("INVALID_STATUS", errx.TypeValidation, http.StatusBadRequest, "Invalid job status")
	CodeInvalidFilter      = ErrRegistry.Register("INVALID_FILTER", errx.TypeValidation, http.StatusBadRequest, "Invalid job filter")
	CodeInvalidRequest     = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
)

// Helper functions
func ErrJobNotFound() *errx.Error {
	return ErrRegistry.New(CodeJobNotFound)
}

func ErrJobHasApplications() *errx.Error {
	return ErrRegistry.New(CodeJobHasApplications)
}

func ErrUnauthorizedUpdate() *errx.Error {
	return ErrRegistry.New(CodeUnauthorizedUpdate)
}

func ErrInvalidTitle() *errx.Error {
	return ErrRegistry.New(CodeInvalidTitle)
}

func ErrInvalidDescription() *errx.Error {
	return ErrRegistry.New(CodeInvalidDescription)
}

func ErrInvalidAmount() *errx.Error {
	return ErrRegistry.New(CodeInvalidAmount)
}

func ErrInvalidStatus() *errx.Error {
	return ErrRegistry.New(CodeInvalidStatus)
}

func ErrInvalidFilter() *errx.Error {
	return ErrRegistry.New(CodeInvalidFilter)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}
