package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{"NOT_FOUND", http.StatusNotFound},
		{"ALREADY_EXISTS", http.StatusConflict},
		{"DUPLICATE_NUMBER", http.StatusConflict},
		{"CONCURRENCY_CONFLICT", http.StatusConflict},
		{"HAS_PAYMENTS", http.StatusConflict},
		{"INVALID_STATE", http.StatusUnprocessableEntity},
		{"NO_ACTIVE_YEAR", http.StatusUnprocessableEntity},
		{"EXCEEDS_REMAINING", http.StatusUnprocessableEntity},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"TOKEN_EXPIRED", http.StatusUnauthorized},
		{"ACCOUNT_LOCKED", http.StatusLocked},
		{"ACCOUNT_INACTIVE", http.StatusForbidden},
		{"FORBIDDEN", http.StatusForbidden},
		{"INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestGetHTTPStatusPrefixFallbacks(t *testing.T) {
	// Validation codes not in the explicit table are still client errors
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("INVALID_NIS"))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("INVALID_DUE_DATE"))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus("ALREADY_ACTIVE"))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus("HAS_REFERENCES"))
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus("STUDENT_NOT_FOUND"))

	// Unknown codes must not leak as client errors
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("SOMETHING_ODD"))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(""))
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 45, 2, 20)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	// Zero page size must not divide by zero
	resp = NewSuccessResponseWithMeta(nil, 10, 1, 0)
	assert.Equal(t, 0, resp.Meta.TotalPages)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID("NOT_FOUND", "Invoice not found", "req-123")
	assert.False(t, resp.Success)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}
