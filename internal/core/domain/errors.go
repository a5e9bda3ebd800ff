package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfigMissing indicates a required identifier or credential is not configured.
	// Raised at startup and never retried.
	ErrConfigMissing = errors.New("missing required configuration")

	// ErrRateLimited indicates a backend rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrRepositoryUnavailable indicates the source repository could not be queried.
	ErrRepositoryUnavailable = errors.New("source repository unavailable")

	// ErrIndexUnavailable indicates the search index backend rejected or failed a call.
	ErrIndexUnavailable = errors.New("search index unavailable")

	// ErrEmptyDocument indicates an assembled document had no text to publish.
	ErrEmptyDocument = errors.New("empty document")
)
