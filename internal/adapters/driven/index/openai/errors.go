package openai

import (
	"fmt"
	"net/http"

	"github.com/custodia-labs/carriersync/internal/core/domain"
)

// APIError is an error response from the OpenAI API.
type APIError struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("openai: API error %d", e.StatusCode)
	}
	return fmt.Sprintf("openai: API error %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status code onto a domain error.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	}
	return domain.ErrIndexUnavailable
}

// retryable reports whether a response with this status may succeed if repeated.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
