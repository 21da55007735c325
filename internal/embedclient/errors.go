package embedclient

import (
	"fmt"

	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

type EmbedErrorCause string

const ErrCauseRPCFailure EmbedErrorCause = "embed rpc failed"

// EmbedError is the ClassifiedError this package returns. spec.md §4.1
// step 7 treats an embedding failure as non-fatal ("log and proceed...
// the page record is still valid"), so Kind is KindPartialFailure.
type EmbedError struct {
	Cause EmbedErrorCause
	Err   error
}

func (e *EmbedError) Error() string {
	return fmt.Sprintf("embedclient error: %s: %v", e.Cause, e.Err)
}

func (e *EmbedError) Unwrap() error { return e.Err }

func (e *EmbedError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func (e *EmbedError) Kind() failure.Kind {
	return failure.KindPartialFailure
}
