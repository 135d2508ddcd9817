// Package httputil writes the JSON envelope shared by every API response.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/validator"
)

// Response is the standard JSON response envelope of the storefront API.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse represents an error in the standard response format.
// RequestID echoes the correlation id so a visitor report can be matched to
// the server logs.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encoding failure cannot be reported.
	_ = json.NewEncoder(w).Encode(v)
}

// classify turns err into a status and error body. Validation failures carry
// per-field messages; everything else goes through apperrors.From, so an
// unrecognised error is a 500 whose message hides the cause.
func classify(err error) (int, ErrorResponse) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		return http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "request validation failed",
			Fields:  valErr.Fields(),
		}
	}

	appErr := apperrors.From(err)
	return appErr.Status, ErrorResponse{Code: appErr.Code, Message: appErr.Message}
}

// WriteError writes the error envelope for err and logs server errors. It
// prefers the request-scoped logger set by the RequestLogger middleware over
// fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	status, body := classify(err)
	body.RequestID = logger.CorrelationIDFromContext(r.Context())

	if status >= http.StatusInternalServerError {
		l := logger.FromContext(r.Context())
		if l == slog.Default() && fallback != nil {
			l = fallback
		}
		l.ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.Int("status", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, status, Response{Error: &body})
}

// ParseID parses an integer path parameter. When param is not an integer it
// writes a 400 INVALID_PARAMETER response and returns false, signaling the
// caller to return early.
func ParseID(w http.ResponseWriter, r *http.Request, name, param string) (int, bool) {
	id, err := strconv.Atoi(param)
	if err != nil {
		WriteError(w, r, apperrors.InvalidParameter(name, param), nil)
		return 0, false
	}
	return id, true
}
