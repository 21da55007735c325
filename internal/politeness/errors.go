package politeness

import (
	"fmt"

	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

type PolitenessErrorCause string

const (
	ErrCauseNoDomain     PolitenessErrorCause = "url has no domain"
	ErrCauseCooldownKV   PolitenessErrorCause = "cooldown kv operation failed"
	ErrCauseRobotsDecide PolitenessErrorCause = "robots decision failed"
)

// PolitenessError is the ClassifiedError this package returns. It wraps a
// robots/KV failure (or surfaces one verbatim via Unwrap) with the cause
// classification spec.md §4.4 asks callers to switch on.
type PolitenessError struct {
	Cause PolitenessErrorCause
	Err   error
}

func (e *PolitenessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("politeness error: %s: %v", e.Cause, e.Err)
	}
	return fmt.Sprintf("politeness error: %s", e.Cause)
}

func (e *PolitenessError) Unwrap() error { return e.Err }

func (e *PolitenessError) Severity() failure.Severity {
	if e.Cause == ErrCauseNoDomain {
		return failure.SeverityFatal
	}
	return failure.SeverityRecoverable
}

// Kind classifies a Politeness-layer failure into the abstract error
// taxonomy a hop boundary switches on. A bad URL (no domain) is never
// retried; KV and robots-transport failures are transient.
func (e *PolitenessError) Kind() failure.Kind {
	switch e.Cause {
	case ErrCauseNoDomain:
		return failure.KindBadInput
	case ErrCauseCooldownKV, ErrCauseRobotsDecide:
		return failure.KindTransientIO
	default:
		return failure.KindTransientIO
	}
}
