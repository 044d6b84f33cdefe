package dto

import (
	"context"
	"errors"
	"net/http"

	"github.com/morrillo/blo-migration/internal/domain/migration"
)

// API error codes not produced by the migration domain
const (
	ErrCodeInternal        = "ERR_INTERNAL"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	ErrCodeUnavailable     = "ERR_UNAVAILABLE"
	ErrCodeCanceled        = "ERR_CANCELED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,
	ErrCodeCanceled:        499,

	// run-fatal migration errors
	migration.ErrCodeConfiguration: http.StatusBadRequest,
	migration.ErrCodeRunInProgress: http.StatusConflict,
	migration.ErrCodeConnection:    http.StatusBadGateway,
	migration.ErrCodeQuery:         http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// RunErrorCode returns the API error code for an error that aborted a run
func RunErrorCode(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeCanceled
	}
	code := migration.ErrorCode(err)
	if code == migration.ErrCodeUnknown {
		return ErrCodeInternal
	}
	return code
}
