package failure

type Severity int

// scheduler control flow
const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

// Kind is the abstract error taxonomy hop-boundary code (Selector/Messaging
// ack-nack-reject logic) switches on. Severity stays the coarser
// abort-vs-continue signal used inside a single process; Kind is the finer
// signal a message broker needs to decide ack/nack/reject.
type Kind int

const (
	// KindBadInput: URL parse failure, missing domain. Not retried.
	KindBadInput Kind = iota
	// KindPolicySkip: robots-disallow, non-HTML, already-crawled-recently.
	// A success result carrying a skip reason, not a failure.
	KindPolicySkip
	// KindTransientIO: timeouts, 5xx, connection resets against any
	// external store. Nacked/requeued at the hop boundary.
	KindTransientIO
	// KindPermanentIO: 4xx (except 429) from the target site, malformed
	// HTML above the parser's tolerance. Rejected, no requeue.
	KindPermanentIO
	// KindPartialFailure: one side of a two-store write succeeded, the
	// other failed. Logged as a warning; the crawl itself still succeeds.
	KindPartialFailure
	// KindFatal: configuration or startup failure. Aborts the process.
	KindFatal
)

// ClassifiedError is the cross-cutting error contract every pipeline
// package returns instead of a plain error. Severity() drives in-process
// abort-vs-continue decisions; Kind() drives ack/nack/reject decisions at
// a message-broker hop boundary.
type ClassifiedError interface {
	error
	Severity() Severity
	Kind() Kind
}

// SeverityForKind derives the conventional Severity for a Kind, for
// implementations that only need to pick one of the two recoverable /
// fatal buckets.
func SeverityForKind(k Kind) Severity {
	if k == KindFatal {
		return SeverityFatal
	}
	return SeverityRecoverable
}
