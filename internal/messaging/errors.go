package messaging

import (
	"fmt"

	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

type MessagingErrorCause string

const (
	ErrCauseCooldownLookup MessagingErrorCause = "cooldown multi-get failed"
	ErrCauseCooldownSet    MessagingErrorCause = "cooldown set failed"
	ErrCausePublishFailure MessagingErrorCause = "amqp publish failed"
	ErrCauseConsumeFailure MessagingErrorCause = "amqp consume failed"
	ErrCauseManagementAPI  MessagingErrorCause = "rabbitmq management api call failed"
)

// MessagingError is the ClassifiedError this package returns. Every cause
// here is a failure of an external collaborator (KV store or broker), so
// Kind is uniformly KindTransientIO: the hop boundary nacks/requeues
// rather than dropping the message.
type MessagingError struct {
	Cause MessagingErrorCause
	Err   error
}

func (e *MessagingError) Error() string {
	return fmt.Sprintf("messaging error: %s: %v", e.Cause, e.Err)
}

func (e *MessagingError) Unwrap() error { return e.Err }

func (e *MessagingError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func (e *MessagingError) Kind() failure.Kind {
	return failure.KindTransientIO
}
