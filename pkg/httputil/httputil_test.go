package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/validator"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, Response{Data: map[string]int{"cart": 2}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"cart":2}}`, rec.Body.String())
}

func TestResponse_OmitsEmptyMembers(t *testing.T) {
	b, err := json.Marshal(Response{Error: &ErrorResponse{Code: "NOT_FOUND", Message: "gone"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":{"code":"NOT_FOUND","message":"gone"}}`, string(b))

	b, err = json.Marshal(Response{Data: []int{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[]}`, string(b))
}

func TestWriteError(t *testing.T) {
	type req struct {
		ProductID *int `json:"product_id" validate:"required"`
	}
	valErr := validator.Validate(&req{})
	require.Error(t, valErr)

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"app error", apperrors.NotFound("key", "storefront:s:cart"), http.StatusNotFound, "NOT_FOUND", "key storefront:s:cart not found"},
		{"wrapped app error", fmt.Errorf("load cart: %w", apperrors.InvalidParameter("productId", "x")), http.StatusBadRequest, "INVALID_PARAMETER", `invalid productId: "x"`},
		{"sentinel not found", fmt.Errorf("get: %w", apperrors.ErrNotFound), http.StatusNotFound, "NOT_FOUND", "resource not found"},
		{"sentinel unavailable", apperrors.ErrServiceUnavail, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "service temporarily unavailable"},
		{"sentinel unsupported media", apperrors.ErrUnsupportedMedia, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "unsupported media type"},
		{"sentinel invalid input", fmt.Errorf("bad list name: %w", apperrors.ErrInvalidInput), http.StatusBadRequest, "INVALID_INPUT", "bad list name: invalid input"},
		{"validation", valErr, http.StatusBadRequest, "VALIDATION_ERROR", "request validation failed"},
		{"unknown", errors.New("redis: connection pool exhausted"), http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), tt.err, slog.New(slog.DiscardHandler))

			assert.Equal(t, tt.status, rec.Code)
			resp := decodeBody(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestWriteError_ValidationFields(t *testing.T) {
	type req struct {
		ProductID *int `json:"product_id" validate:"required"`
	}

	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", nil), validator.Validate(&req{}), nil)

	resp := decodeBody(t, rec)
	assert.Equal(t, map[string]string{"product_id": "is required"}, resp.Error.Fields)
}

func TestWriteError_RequestID(t *testing.T) {
	ctx := logger.WithCorrelationID(context.Background(), "corr-123")
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx), apperrors.ErrNotFound, nil)
	assert.Equal(t, "corr-123", decodeBody(t, rec).Error.RequestID)

	rec = httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), apperrors.ErrNotFound, nil)
	assert.NotContains(t, rec.Body.String(), "request_id")
}

func TestWriteError_LogsOnlyServerErrors(t *testing.T) {
	var buf bytes.Buffer
	fallback := slog.New(slog.NewJSONHandler(&buf, nil))

	WriteError(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cart", nil), apperrors.ErrNotFound, fallback)
	assert.Zero(t, buf.Len())

	WriteError(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cart", nil), errors.New("boom"), fallback)
	assert.Contains(t, buf.String(), `"msg":"request failed"`)
	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestWriteError_PrefersRequestLogger(t *testing.T) {
	var scoped, fallback bytes.Buffer
	ctx := logger.NewContext(context.Background(), slog.New(slog.NewJSONHandler(&scoped, nil)))
	req := httptest.NewRequest(http.MethodGet, "/wishlist", nil).WithContext(ctx)

	WriteError(httptest.NewRecorder(), req, errors.New("boom"), slog.New(slog.NewJSONHandler(&fallback, nil)))

	assert.Contains(t, scoped.String(), "request failed")
	assert.Zero(t, fallback.Len())
}

func TestParseID(t *testing.T) {
	for _, param := range []string{"14", "-3", "0"} {
		rec := httptest.NewRecorder()
		id, ok := ParseID(rec, httptest.NewRequest(http.MethodPost, "/", nil), "productId", param)
		assert.True(t, ok, param)
		assert.Equal(t, param, fmt.Sprint(id))
		assert.Zero(t, rec.Body.Len(), param)
	}

	for _, param := range []string{"abc", "", "1.5", "7x"} {
		rec := httptest.NewRecorder()
		_, ok := ParseID(rec, httptest.NewRequest(http.MethodPost, "/", nil), "productId", param)
		assert.False(t, ok, param)
		assert.Equal(t, http.StatusBadRequest, rec.Code, param)

		resp := decodeBody(t, rec)
		assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "productId")
	}
}
