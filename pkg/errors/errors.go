// Package errors defines the storefront's application error type and the
// mapping from errors to API codes and HTTP statuses.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels callers test with errors.Is.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrServiceUnavail   = errors.New("service unavailable")
	ErrForbidden        = errors.New("forbidden")
)

// API error codes.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeUnsupportedMedia = "UNSUPPORTED_MEDIA_TYPE"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
	CodeForbidden        = "FORBIDDEN"
	CodeInternal         = "INTERNAL_ERROR"
)

// AppError is an error with an API code and HTTP status. Message is safe to
// show to visitors; Err is the underlying cause and is never rendered.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Code + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

func newError(code string, status int, cause error, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Status: status, Err: cause}
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return newError(CodeNotFound, http.StatusNotFound, ErrNotFound, "%s %s not found", resource, id)
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return newError(CodeInvalidInput, http.StatusBadRequest, ErrInvalidInput, "%s", message)
}

// InvalidParameter creates a 400 error for a malformed path or query parameter.
func InvalidParameter(name, value string) *AppError {
	return newError(CodeInvalidParameter, http.StatusBadRequest, ErrInvalidInput, "invalid %s: %q", name, value)
}

// UnsupportedMediaType creates a 415 error.
func UnsupportedMediaType(message string) *AppError {
	return newError(CodeUnsupportedMedia, http.StatusUnsupportedMediaType, ErrUnsupportedMedia, "%s", message)
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return newError(CodeForbidden, http.StatusForbidden, ErrForbidden, "%s", message)
}

// ServiceUnavailable creates a 503 error for a dependency that is refusing
// calls. Both ErrServiceUnavail and cause match errors.Is on the result.
func ServiceUnavailable(dependency string, cause error) *AppError {
	err := ErrServiceUnavail
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrServiceUnavail, cause)
	}
	return newError(CodeUnavailable, http.StatusServiceUnavailable, err, "%s is temporarily unavailable", dependency)
}

// Internal creates a 500 error hiding err from the visitor.
func Internal(err error) *AppError {
	return newError(CodeInternal, http.StatusInternalServerError, err, "an internal error occurred")
}

// sentinels are checked in order by From; the first match wins. An empty
// message means the error text itself is shown.
var sentinels = []struct {
	err     error
	code    string
	status  int
	message string
}{
	{ErrNotFound, CodeNotFound, http.StatusNotFound, "resource not found"},
	{ErrServiceUnavail, CodeUnavailable, http.StatusServiceUnavailable, "service temporarily unavailable"},
	{ErrUnsupportedMedia, CodeUnsupportedMedia, http.StatusUnsupportedMediaType, "unsupported media type"},
	{ErrForbidden, CodeForbidden, http.StatusForbidden, "forbidden"},
	{ErrInvalidInput, CodeInvalidInput, http.StatusBadRequest, ""},
}

// From returns err as an *AppError. An AppError anywhere in the chain is
// returned as is, a wrapped sentinel gets its standard code and status, and
// anything else becomes Internal(err). From(nil) is nil.
func From(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			msg := s.message
			if msg == "" {
				msg = err.Error()
			}
			return &AppError{Code: s.code, Message: msg, Status: s.status, Err: err}
		}
	}
	return Internal(err)
}

// HTTPStatus returns the HTTP status code for err.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return From(err).Status
}
