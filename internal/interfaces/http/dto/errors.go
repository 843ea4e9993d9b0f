package dto

import (
	"net/http"
	"strings"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes. Codes
// not listed here fall back to the prefix rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	// Resource errors
	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"DUPLICATE_NUMBER":     http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Business rule violations -> 422 Unprocessable Entity
	"INVALID_STATE":     http.StatusUnprocessableEntity,
	"NO_ACTIVE_YEAR":    http.StatusUnprocessableEntity,
	"ALREADY_PAID":      http.StatusUnprocessableEntity,
	"EXCEEDS_REMAINING": http.StatusUnprocessableEntity,
	"HAS_PAYMENTS":      http.StatusConflict,
	"HAS_REFERENCES":    http.StatusConflict,

	// Authentication and authorization
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_ERROR":         http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"FORBIDDEN":           http.StatusForbidden,
	"ACCOUNT_LOCKED":      http.StatusLocked,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,

	// Input errors
	"INVALID_INPUT": http.StatusBadRequest,
	"BAD_REQUEST":   http.StatusBadRequest,

	// Infrastructure
	"INTERNAL_ERROR": http.StatusInternalServerError,
	"RATE_LIMITED":   http.StatusTooManyRequests,
}

// GetHTTPStatus resolves the HTTP status for a domain error code. Unlisted
// INVALID_* codes are treated as bad input; everything else is a 500 so
// unexpected codes are never silently reported as client errors.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	if strings.HasPrefix(code, "ALREADY_") || strings.HasPrefix(code, "HAS_") {
		return http.StatusConflict
	}
	if strings.HasSuffix(code, "_NOT_FOUND") {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
