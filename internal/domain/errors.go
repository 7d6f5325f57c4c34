package domain

import "errors"

// Sentinel errors for cross-provider error classification.
// Drivers should wrap these so the CLI can handle error categories
// uniformly without importing provider-specific SDKs.
//
//	return fmt.Errorf("failed to destroy node: %w", domain.ErrNotFound)
//
// Every error is terminal for the current invocation; nothing is
// retried automatically.
var (
	// ErrMissingOption indicates a required option was not supplied.
	// Raised before any network call is made.
	ErrMissingOption = errors.New("missing required option")

	// ErrUnknownProvider indicates the requested provider has no
	// registered driver.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrUnauthorized indicates the credentials were rejected by the
	// provider at connection time.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the named node, size, or image does not
	// exist.
	ErrNotFound = errors.New("resource not found")

	// ErrOperationFailed indicates a create or destroy call was
	// rejected or failed on the provider side.
	ErrOperationFailed = errors.New("provider operation failed")

	// ErrRateLimited indicates the provider throttled the request.
	ErrRateLimited = errors.New("rate limited")
)
