package rpc

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

type RPCErrorCause string

const (
	// ErrCauseInvalidArgument mirrors spec.md §6's Crawl contract: the
	// callee rejected the URL itself (malformed, unparseable) rather than
	// failing to process it.
	ErrCauseInvalidArgument RPCErrorCause = "invalid-argument"
	ErrCauseInternal        RPCErrorCause = "internal"
	ErrCauseTransport       RPCErrorCause = "transport"
)

// RPCError is the ClassifiedError returned by the client stubs in this
// package. Severity/Kind follow the gRPC status code: InvalidArgument is
// a bad-input, non-retryable failure (the caller sent a bad URL and
// retrying with the same URL won't help); everything else is treated as
// a transient transport failure, matching spec.md §7's default posture
// for upstream RPC failures.
type RPCError struct {
	Cause RPCErrorCause
	Err   error
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error: %s: %v", e.Cause, e.Err)
}

func (e *RPCError) Unwrap() error { return e.Err }

func (e *RPCError) Severity() failure.Severity {
	if e.Cause == ErrCauseInvalidArgument {
		return failure.SeverityFatal
	}
	return failure.SeverityRecoverable
}

func (e *RPCError) Kind() failure.Kind {
	if e.Cause == ErrCauseInvalidArgument {
		return failure.KindBadInput
	}
	return failure.KindTransientIO
}

// classifyStatus maps a gRPC status returned by a remote Crawl/PublishUrls/
// Subscribe call onto an RPCError per spec.md §6's "errors: InvalidArgument
// (malformed URL), Internal (everything else)".
func classifyStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return &RPCError{Cause: ErrCauseTransport, Err: err}
	}
	switch st.Code() {
	case codes.InvalidArgument:
		return &RPCError{Cause: ErrCauseInvalidArgument, Err: err}
	case codes.Internal, codes.Unknown:
		return &RPCError{Cause: ErrCauseInternal, Err: err}
	default:
		return &RPCError{Cause: ErrCauseTransport, Err: err}
	}
}
