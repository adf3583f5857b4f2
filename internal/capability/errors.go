package capability

import (
	"errors"
	"fmt"
)

// ErrorCategory defines the normalized failure taxonomy for capability calls
type ErrorCategory string

const (
	// ErrorTimeout indicates the capability took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadRequest indicates the capability rejected the request
	ErrorBadRequest ErrorCategory = "bad_request"

	// ErrorAuthentication indicates credential or permission issues
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorOutage indicates the capability endpoint is unavailable
	ErrorOutage ErrorCategory = "outage"

	// ErrorRateLimited indicates too many requests
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorInternal indicates an unexpected internal error
	ErrorInternal ErrorCategory = "internal"
)

// Error wraps capability failures with normalized categorization. Any Error
// reaching the pipeline is fatal to the run; Retryable only controls whether
// the invoker attempts the call again before giving up.
type Error struct {
	Category   ErrorCategory
	Capability string
	Message    string
	Underlying error
	Retryable  bool
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("capability %s [%s]: %s: %v", e.Capability, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("capability %s [%s]: %s", e.Capability, e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewError creates a normalized capability error
func NewError(category ErrorCategory, capability, message string, underlying error) *Error {
	retryable := category == ErrorTimeout ||
		category == ErrorOutage ||
		category == ErrorRateLimited

	return &Error{
		Category:   category,
		Capability: capability,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// IsRetryable checks if an error is worth retrying
func IsRetryable(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Retryable
	}
	return false
}

// GetCategory extracts the error category from an error
func GetCategory(err error) ErrorCategory {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Category
	}
	return ErrorInternal
}
