package apierr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// StatusCode extracts the HTTP status code from a go-openai error chain.
func StatusCode(err error) (int, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}

// Classify maps a service error onto a sentinel while keeping the original
// chain reachable, so the status-based predicates below still work on the
// classified result. Unrecognized errors pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	if status, ok := StatusCode(err); ok {
		switch status {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %w", ErrAuthFailed, err)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		case http.StatusRequestEntityTooLarge:
			return fmt.Errorf("%w: %w", ErrPayloadTooLarge, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", ErrRateLimit, err)
		case http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound:
			return fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}

	return err
}

// IsRetryable reports whether err is a transient failure worth retrying in
// place: connection, timeout, rate-limit, and server-overload errors.
// Context cancellation and authentication failures are never retryable.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrAuthFailed) {
		return false
	}
	if errors.Is(err, ErrRateLimit) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrConnection) {
		return true
	}

	if status, ok := StatusCode(err); ok {
		switch status {
		case http.StatusRequestTimeout,
			http.StatusConflict,
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	return false
}

// RequiresChunkFallback reports whether a whole-file transcription failure
// should switch the run to chunked mode instead of failing it. True when the
// service could not read or parse the request payload (HTTP 400 with the
// matching message), or when the status suggests the request was too large
// or the server was overloaded by it.
func RequiresChunkFallback(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusBadRequest {
		msg := strings.ToLower(apiErr.Message)
		return strings.Contains(msg, "reading your request") ||
			strings.Contains(msg, "invalid_request_error") ||
			apiErr.Type == "invalid_request_error"
	}

	if errors.Is(err, ErrPayloadTooLarge) {
		return true
	}

	if status, ok := StatusCode(err); ok {
		switch status {
		case http.StatusRequestEntityTooLarge,
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}
