package metadata

import (
	"time"
)

type FetchEvent struct {
	fetchUrl    string
	httpStatus  int
	duration    time.Duration
	contentType string
	retryCount  int
	crawlDepth  int
}

/*
crawlStats
  - Represents a terminal, derived summary of a completed crawl
  - Contains only aggregate counts and durations
  - Is computed by the caller of RecordFinalCrawlStats after crawl termination
  - Is recorded exactly once
  - Must not influence scheduling, retries, or crawl termination
  - Must be constructed without reading metadata
*/
type crawlStats struct {
	totalPages  int
	totalErrors int
	totalAssets int
	durationMs  int64
}

// ArtifactKind names the kind of durable artifact an ArtifactRecord describes.
type ArtifactKind string

const (
	ArtifactPage   ArtifactKind = "page"
	ArtifactVector ArtifactKind = "vector"
)

type ArtifactRecord struct {
	kind  ArtifactKind
	paths string
}

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, metrics, reporting).

	Rules:
	 - ErrorCause is for observability only.
	 - It must never be used to derive retry, continuation, or abort decisions.
	 - Any use of metadata.ErrorCause outside logging, metrics, or reporting is a design violation.
	 - ErrorCause MUST NOT influence control flow.
	 - ErrorCause MUST NOT be used for retry, continuation, or abort decisions.
	 - ErrorCause values MUST have stable, package-agnostic semantics.
	 - Pipeline packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.
	Non-goals:
	 - ErrorCause does not encode severity.
	 - ErrorCause does not imply retryability.
	 - ErrorCause does not imply crawl termination.
	 - ErrorCause does not imply correctness of downstream behavior.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown

Meaning:
  - The failure does not map cleanly to any known category.
  - Used as a safe fallback.

Examples:
  - Unexpected internal errors
  - Unclassified third-party library failures

# CauseNetworkFailure

Meaning:
  - Failure caused by network transport or remote availability.

Examples:
  - TCP timeouts
  - DNS resolution failures
  - Connection resets
  - robots.txt fetch timeout

# CausePolicyDisallow

Meaning:
  - Crawling was disallowed by an explicit policy or rule.

Examples:
  - robots.txt disallow
  - HTTP 403 / 401 interpreted as access denial
  - rate-limit enforcement

# CauseContentInvalid

Meaning:
  - Content was fetched but could not be processed meaningfully.

Examples:
  - Non-HTML responses
  - Empty or unextractable document bodies
  - Broken DOM preventing extraction

# CauseStorageFailure

Meaning:
  - Failure while persisting crawl artifacts.

Examples:
  - Document-store upsert failure
  - Vector-store upsert failure
  - KV-store write failure

# CauseInvariantViolation

Meaning:
  - A system-level invariant was violated.

Examples:
  - uuid mutated on update
  - impossible crawl depth
  - internal consistency checks failing

# CauseRetryFailure

Meaning:
  - All configured retry attempts were exhausted for an otherwise-recoverable
    operation.

# CauseUpstreamRPCFailure

Meaning:
  - A remote collaborator reachable only through an RPC or driver contract
    (embeddings service, document store, vector store, messaging broker)
    failed to complete a call.
*/
const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CausePolicyDisallow
	CauseContentInvalid
	CauseStorageFailure
	CauseInvariantViolation
	CauseRetryFailure
	CauseUpstreamRPCFailure
)

func (c ErrorCause) String() string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CausePolicyDisallow:
		return "policy_disallow"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseStorageFailure:
		return "storage_failure"
	case CauseInvariantViolation:
		return "invariant_violation"
	case CauseRetryFailure:
		return "retry_failure"
	case CauseUpstreamRPCFailure:
		return "upstream_rpc_failure"
	default:
		return "unknown"
	}
}

type ErrorRecord struct {
	packageName string
	action      string
	cause       ErrorCause
	errorString string
	observedAt  time.Time
	attrs       []Attribute
}

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrTime            AttributeKey = "time"
	AttrURL             AttributeKey = "url"
	AttrHost            AttributeKey = "host"
	AttrPath            AttributeKey = "path"
	AttrDepth           AttributeKey = "depth"
	AttrField           AttributeKey = "field"
	AttrHTTPStatus      AttributeKey = "http_status"
	AttrAssetURL        AttributeKey = "asset_url"
	AttrWritePath       AttributeKey = "write_path"
	AttrMessage         AttributeKey = "message"
	AttrDomain          AttributeKey = "domain"
	AttrQueueDepth      AttributeKey = "queue_depth"
	AttrCooldownSeconds AttributeKey = "cooldown_seconds"
	AttrUUID            AttributeKey = "uuid"
	AttrVectorDim       AttributeKey = "vector_dim"
)
