package rpc

import (
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

func TestClassifyStatus_InvalidArgumentIsFatalBadInput(t *testing.T) {
	err := classifyStatus(status.Error(codes.InvalidArgument, "malformed url"))
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected *RPCError, got %T", err)
	}
	if rpcErr.Severity() != failure.SeverityFatal {
		t.Errorf("expected SeverityFatal, got %v", rpcErr.Severity())
	}
	if rpcErr.Kind() != failure.KindBadInput {
		t.Errorf("expected KindBadInput, got %v", rpcErr.Kind())
	}
}

func TestClassifyStatus_InternalIsRecoverableTransientIO(t *testing.T) {
	err := classifyStatus(status.Error(codes.Internal, "boom"))
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected *RPCError, got %T", err)
	}
	if rpcErr.Severity() != failure.SeverityRecoverable {
		t.Errorf("expected SeverityRecoverable, got %v", rpcErr.Severity())
	}
	if rpcErr.Kind() != failure.KindTransientIO {
		t.Errorf("expected KindTransientIO, got %v", rpcErr.Kind())
	}
}

func TestClassifyStatus_NilReturnsNil(t *testing.T) {
	if classifyStatus(nil) != nil {
		t.Error("expected nil for nil input")
	}
}

func TestClassifyStatus_NonStatusErrorIsTransport(t *testing.T) {
	err := classifyStatus(errors.New("plain error"))
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected *RPCError, got %T", err)
	}
	if rpcErr.Cause != ErrCauseTransport {
		t.Errorf("expected ErrCauseTransport, got %v", rpcErr.Cause)
	}
}
