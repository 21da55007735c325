package vectorstore

import (
	"fmt"

	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

type VectorStoreErrorCause string

const (
	ErrCauseCollectionSetup VectorStoreErrorCause = "collection setup failed"
	ErrCauseUpsertFailure   VectorStoreErrorCause = "point upsert failed"
)

// VectorStoreError is the ClassifiedError this package returns. Per
// spec.md §4.1 step 8, a vector upsert failure is KindPartialFailure: the
// page record is already valid, so this is logged as a warning rather
// than failing the crawl.
type VectorStoreError struct {
	Cause VectorStoreErrorCause
	Err   error
}

func (e *VectorStoreError) Error() string {
	return fmt.Sprintf("vectorstore error: %s: %v", e.Cause, e.Err)
}

func (e *VectorStoreError) Unwrap() error { return e.Err }

func (e *VectorStoreError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func (e *VectorStoreError) Kind() failure.Kind {
	return failure.KindPartialFailure
}
