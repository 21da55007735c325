package retry

import (
	"fmt"

	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

type RetryErrorCause string

const (
	ErrZeroAttempt       = "zero attempt"
	ErrExhaustedAttempts = "exhausted attempt"
)

type RetryError struct {
	Message   string
	Retryable bool
	Cause     RetryErrorCause
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("retry error: %s, %s", e.Cause, e.Message)
}

func (e *RetryError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *RetryError) IsRetryable() bool {
	return e.Retryable
}

// Kind classifies an exhausted-retry failure into the abstract error
// taxonomy a hop boundary switches on. Retry exhaustion is always treated
// as transient at the hop boundary: the operation itself may still
// succeed on a fresh delivery attempt.
func (e *RetryError) Kind() failure.Kind {
	return failure.KindTransientIO
}

// Is allows errors.Is to match RetryError types
func (e *RetryError) Is(target error) bool {
	_, ok := target.(*RetryError)
	return ok
}
