package notion

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jomei/notionapi"

	"github.com/custodia-labs/carriersync/internal/core/domain"
)

// ErrUnsupportedFilter indicates a domain filter with no Notion equivalent.
var ErrUnsupportedFilter = errors.New("notion: unsupported filter")

// wrapError classifies a notionapi error as a domain error while keeping
// the original in the chain.
func wrapError(err error, op string) error {
	if err == nil {
		return nil
	}

	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusNotFound:
			return fmt.Errorf("notion: %s: %w: %w", op, domain.ErrNotFound, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("notion: %s: %w: %w", op, domain.ErrRateLimited, err)
		}
	}
	return fmt.Errorf("notion: %s: %w: %w", op, domain.ErrRepositoryUnavailable, err)
}

// IsUnauthorized reports whether err is a rejected integration token.
func IsUnauthorized(err error) bool {
	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized
	}
	return false
}

// IsObjectNotShared reports whether Notion refused access to an object,
// which usually means the database was not shared with the integration.
func IsObjectNotShared(err error) bool {
	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusForbidden
	}
	return false
}
