package pagestore

import (
	"fmt"

	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

type PageStoreErrorCause string

const (
	ErrCauseUpsertFailure  PageStoreErrorCause = "upsert failed"
	ErrCauseQueryFailure   PageStoreErrorCause = "recency query failed"
	ErrCauseMissingUUID    PageStoreErrorCause = "upsert result missing uuid"
)

// PageStoreError is the ClassifiedError this package returns. Every cause
// is a MongoDB round-trip failure, so Kind is uniformly KindTransientIO:
// the Crawler retries the crawl rather than treating it as a permanent
// rejection.
type PageStoreError struct {
	Cause PageStoreErrorCause
	Err   error
}

func (e *PageStoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pagestore error: %s: %v", e.Cause, e.Err)
	}
	return fmt.Sprintf("pagestore error: %s", e.Cause)
}

func (e *PageStoreError) Unwrap() error { return e.Err }

func (e *PageStoreError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func (e *PageStoreError) Kind() failure.Kind {
	return failure.KindTransientIO
}
