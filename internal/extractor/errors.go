package extractor

import (
	"fmt"

	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

type ExtractionErrorCause string

const (
	ErrCauseNoContent  = "no content"
	ErrCauseUnparsable = "unparsable html"
)

type ExtractionError struct {
	Message   string
	Retryable bool
	Cause     ExtractionErrorCause
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error: %s", e.Cause)
}

func (e *ExtractionError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// Kind classifies an extraction failure. Malformed HTML above the
// parser's tolerance is PermanentIO (spec.md §7); everything else here
// is a parse-time bad-input condition.
func (e *ExtractionError) Kind() failure.Kind {
	switch e.Cause {
	case ErrCauseUnparsable:
		return failure.KindPermanentIO
	default:
		return failure.KindBadInput
	}
}

// mapExtractionErrorToMetadataCause maps extractor-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapExtractionErrorToMetadataCause(err *ExtractionError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseNoContent:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
