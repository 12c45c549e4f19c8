package api

import (
	"errors"
	"net/http"

	"github.com/jcarver/jobagent/internal/domain"
	"github.com/jcarver/jobagent/internal/operation"
	"github.com/jcarver/jobagent/internal/service"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, operation.ErrOperationNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrNoTargets),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyCV):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrConfiguration):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly message for err.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, operation.ErrOperationNotFound):
		return "Operation not found"

	case errors.Is(err, service.ErrNoTargets):
		return "No posting URLs provided"

	case errors.Is(err, domain.ErrEmptyCV):
		return "Candidate CV text is required"

	case errors.Is(err, domain.ErrValidation):
		return "Request validation failed"

	case errors.Is(err, domain.ErrConfiguration):
		return "Service is not configured for this operation"

	default:
		return "An unexpected error occurred"
	}
}
