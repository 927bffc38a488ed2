// Package errx provides typed application errors with per-domain registries.
//
// Each bounded context owns a Registry that namespaces its codes
// ("JOB_NOT_FOUND", "APPLICATION_ALREADY_EXISTS", ...). Services return
// *Error values built from the registry; transport layers render them with
// ToHTTPResponse.
package errx

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// Type classifies an error independently of its domain.
type Type string

const (
	TypeValidation    Type = "VALIDATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeBusiness      Type = "BUSINESS"
	TypeInternal      Type = "INTERNAL"
	TypeExternal      Type = "EXTERNAL"
)

// DefaultHTTPStatus returns the status used when an error of this type is
// created without an explicit one.
func (t Type) DefaultHTTPStatus() int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is the error value shared by every layer of the application.
type Error struct {
	Type       Type           `json:"type"`
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code so errors.Is works against registry-built values.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithDetail attaches a key/value pair that is rendered in the response.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause records the underlying error. The cause is logged, never rendered.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// ToHTTPResponse renders the error in the uniform result shape.
func (e *Error) ToHTTPResponse() map[string]any {
	resp := map[string]any{
		"success": false,
		"error":   e.Message,
		"code":    e.Code,
		"type":    e.Type,
	}
	if len(e.Details) > 0 {
		resp["details"] = e.Details
	}
	return resp
}

// ErrorCode is a registered code.
type ErrorCode struct {
	Code       string
	Type       Type
	HTTPStatus int
	Message    string
}

// Registry holds the codes of one domain.
type Registry struct {
	prefix string
	mu     sync.RWMutex
	codes  map[string]ErrorCode
}

func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		codes:  make(map[string]ErrorCode),
	}
}

// Register adds a code to the registry and returns it. The stored code is
// prefixed with the registry name.
func (r *Registry) Register(code string, errType Type, httpStatus int, message string) ErrorCode {
	r.mu.Lock()
	defer r.mu.Unlock()

	full := r.prefix + "_" + code
	if httpStatus == 0 {
		httpStatus = errType.DefaultHTTPStatus()
	}
	ec := ErrorCode{
		Code:       full,
		Type:       errType,
		HTTPStatus: httpStatus,
		Message:    message,
	}
	r.codes[full] = ec
	return ec
}

// New creates a fresh error for a registered code.
func (r *Registry) New(code ErrorCode) *Error {
	return &Error{
		Type:       code.Type,
		Code:       code.Code,
		Message:    code.Message,
		HTTPStatus: code.HTTPStatus,
	}
}

// NewWithMessage creates an error for a registered code with a custom message.
func (r *Registry) NewWithMessage(code ErrorCode, message string) *Error {
	e := r.New(code)
	e.Message = message
	return e
}

// Codes lists every code registered so far.
func (r *Registry) Codes() []ErrorCode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ErrorCode, 0, len(r.codes))
	for _, c := range r.codes {
		out = append(out, c)
	}
	return out
}

// New creates an unregistered error.
func New(message string, errType Type) *Error {
	return &Error{
		Type:       errType,
		Code:       string(errType),
		Message:    message,
		HTTPStatus: errType.DefaultHTTPStatus(),
	}
}

// Wrap wraps err with a message and type. Typed errors that are not internal
// pass through unchanged so domain failures (not found, conflict, ...) keep
// their code when a service wraps repository errors.
func Wrap(err error, message string, errType Type) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) && typed.Type != TypeInternal {
		return typed
	}
	return &Error{
		Type:       errType,
		Code:       string(errType),
		Message:    message,
		HTTPStatus: errType.DefaultHTTPStatus(),
		Cause:      err,
	}
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsType reports whether err is an *Error of the given type.
func IsType(err error, errType Type) bool {
	e, ok := As(err)
	return ok && e.Type == errType
}

// IsCode reports whether err carries the given registered code.
func IsCode(err error, code ErrorCode) bool {
	e, ok := As(err)
	return ok && e.Code == code.Code
}
