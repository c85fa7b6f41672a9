package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimitExceeded indicates the attempt budget was exhausted by
	// repeated HTTP 429 responses.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrRequestTimeout indicates the attempt budget was exhausted by
	// repeated per-attempt timeouts.
	ErrRequestTimeout = errors.New("request timeout")

	// ErrInvalidConfig indicates invalid client parameters.
	ErrInvalidConfig = errors.New("invalid fetch configuration")
)

// StatusError is a final non-success HTTP response. It carries the status
// code and a truncated excerpt of the response body.
type StatusError struct {
	StatusCode int
	Excerpt    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Excerpt)
}
