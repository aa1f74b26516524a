// Package apierr provides shared error sentinels, error classification, and
// retry infrastructure for the OpenAI-backed service clients. Provider errors
// are classified into these sentinels at the adapter boundary.
//
// Clients wrap with fmt.Errorf("%w: %w", sentinel, err) so both the sentinel
// and the original status information stay reachable through errors.Is/As.
package apierr

import "errors"

// Sentinel errors for API interaction failures.
var (
	// ErrRateLimit indicates the API rate limit was exceeded (temporary, retryable).
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrTimeout indicates a request timed out.
	ErrTimeout = errors.New("request timeout")

	// ErrConnection indicates the request never reached the service.
	ErrConnection = errors.New("connection failed")

	// ErrAuthFailed indicates API authentication failed (invalid key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrPayloadTooLarge indicates the service rejected the request body size.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrBadRequest indicates a client error (4xx) that is not otherwise classified.
	ErrBadRequest = errors.New("bad request")
)
