package analyses

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/reqguard/internal/workflow"
)

// Domain errors for analysis operations.
var (
	ErrNotFound             = errors.New("analysis not found")
	ErrDuplicate            = errors.New("analysis already exists")
	ErrRequirementsRequired = errors.New("requirements text is required")
	ErrFeedbackRequired     = errors.New("rejection feedback is required")
)

// MapHTTPStatus maps analysis domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, workflow.ErrThreadNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, workflow.ErrNotSuspended) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrRequirementsRequired) || errors.Is(err, ErrFeedbackRequired) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
