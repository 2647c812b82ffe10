package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// Match-recording transaction errors. Both are recoverable: the caller
	// re-prompts and the snapshot is left untouched.
	ErrInvalidSelection = errors.New("invalid team selection")
	ErrScoreMismatch    = errors.New("scorer goals do not match match score")

	// Remote synchronization failures. A conflict means the remote store
	// rejected the revision we wrote against; the push is safe to retry.
	ErrRemoteUnavailable = errors.New("remote dataset unavailable")
	ErrRemoteConflict    = errors.New("remote dataset was updated concurrently")
	ErrPushInFlight      = errors.New("a push is already in flight")
)
