package message

import (
	"net/http"

	"github.com/Abraxas-365/bitwork/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("MESSAGE")

var (
	CodeRecipientNotFound = ErrRegistry.Register("RECIPIENT_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Recipient not found")
	CodeSelfMessage       = ErrRegistry.Register("SELF_MESSAGE", errx.TypeValidation, http.StatusBadRequest, "Cannot message yourself")
	CodeEmptyContent      = ErrRegistry.Register("EMPTY_CONTENT", errx.TypeValidation, http.StatusBadRequest, "Message content is required")
	CodeContentTooLong    = ErrRegistry.Register("CONTENT_TOO_LONG", errx.TypeValidation, http.StatusBadRequest, "Message content is too long")
	CodeInvalidRequest    = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
)

func ErrRecipientNotFound() *errx.Error {
	return ErrRegistry.New(CodeRecipientNotFound)
}

func ErrSelfMessage() *errx.Error {
	return ErrRegistry.New(CodeSelfMessage)
}

func ErrEmptyContent() *errx.Error {
	return ErrRegistry.New(CodeEmptyContent)
}

func ErrContentTooLong() *errx.Error {
	return ErrRegistry.New(CodeContentTooLong)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}
