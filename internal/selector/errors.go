package selector

import (
	"fmt"

	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

type SelectorErrorCause string

const (
	ErrCauseBrokerNext    SelectorErrorCause = "broker-next"
	ErrCauseCrawlDispatch SelectorErrorCause = "crawl-dispatch"
	ErrCauseManagementAPI SelectorErrorCause = "management-api"
	ErrCauseBadPayload    SelectorErrorCause = "bad-payload"
)

// SelectorError classifies a selector-side failure by cause. Loop and
// ManagementAPILoop do not construct it: they record the underlying error
// through the metadata sink and keep running after a failed tick.
type SelectorError struct {
	Cause SelectorErrorCause
	Err   error
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("selector error (%s): %v", e.Cause, e.Err)
}

func (e *SelectorError) Unwrap() error { return e.Err }

func (e *SelectorError) Severity() failure.Severity {
	if e.Cause == ErrCauseBadPayload {
		return failure.SeverityFatal
	}
	return failure.SeverityRecoverable
}

func (e *SelectorError) Kind() failure.Kind {
	switch e.Cause {
	case ErrCauseBadPayload:
		return failure.KindPermanentIO
	default:
		return failure.KindTransientIO
	}
}
