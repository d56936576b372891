package analyzer

import (
	"errors"
	"fmt"
)

// Sentinel errors for analytics API operations.
var (
	// ErrWarmingUp means the service has no data yet. It is not a failure;
	// callers poll Status until the cache has data.
	ErrWarmingUp   = errors.New("analyzer: warming up")
	ErrNotFound    = errors.New("analyzer: not found")
	ErrRateLimited = errors.New("analyzer: rate limited by server")
	ErrServer      = errors.New("analyzer: server error")
	// ErrMalformed means the response did not decode or failed validation.
	ErrMalformed = errors.New("analyzer: malformed response")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op     string // Operation: "analyze", "status", "analytics"
	GameID string // If applicable
	Err    error
}

func (e *Error) Error() string {
	if e.GameID != "" {
		return fmt.Sprintf("analyzer %s [%s]: %v", e.Op, e.GameID, e.Err)
	}
	return fmt.Sprintf("analyzer %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, gameID string, err error) error {
	return &Error{Op: op, GameID: gameID, Err: err}
}

// IsTransient reports whether retrying the same call might succeed.
func IsTransient(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrWarmingUp),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrMalformed):
		return false
	default:
		return true
	}
}
