package metadata

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-logfmt/logfmt"
)

/*
Metadata Collected
- Fetch timestamps
- HTTP status codes
- Content hashes
- Crawl depth

Logging Goals
- Debuggable crawl behavior
- Post-run auditability
- Failure diagnostics

Structured logging is preferred.

Allowed:
- Primitive values
- Timestamps
- URLs (as values, not objects with behavior)
- Hashes
- Status codes
- Durations
- Identifiers (page ID, crawl ID)
*/

// MetadataSink is the recording contract every pipeline package depends on.
// Implementations must never let a recording failure affect the caller's
// control flow: RecordX methods have no error return.
type MetadataSink interface {
	RecordFetch(fetchUrl string, httpStatus int, duration time.Duration, contentType string, retryCount int, crawlDepth int)
	RecordError(at time.Time, packageName string, action string, cause ErrorCause, errorString string, attrs []Attribute)
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
}

// CrawlFinalizer records the terminal, derived summary of a completed crawl.
type CrawlFinalizer interface {
	RecordFinalCrawlStats(totalPages, totalErrors, totalAssets int, duration time.Duration)
}

// Recorder is the default MetadataSink/CrawlFinalizer. It emits one logfmt
// line per event to an io.Writer (stderr by default), matching this
// codebase's "structured logging is preferred" convention without pulling in
// a full logging framework that would own process-wide log routing.
type Recorder struct {
	mu  sync.Mutex
	out io.Writer
}

// NewRecorder returns a Recorder writing logfmt lines to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{out: w}
}

// NewStderrRecorder returns a Recorder writing to os.Stderr, the default used
// by every entrypoint in cmd/.
func NewStderrRecorder() *Recorder {
	return NewRecorder(os.Stderr)
}

func (r *Recorder) encode(keyvals ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	enc := logfmt.NewEncoder(r.out)
	if err := enc.EncodeKeyvals(keyvals...); err != nil {
		fmt.Fprintf(r.out, "metadata encode error: %v\n", err)
		return
	}
	enc.EndRecord()
}

func (r *Recorder) RecordFetch(fetchUrl string, httpStatus int, duration time.Duration, contentType string, retryCount int, crawlDepth int) {
	r.encode(
		"event", "fetch",
		"url", fetchUrl,
		"status", httpStatus,
		"duration_ms", duration.Milliseconds(),
		"content_type", contentType,
		"retry_count", retryCount,
		"depth", crawlDepth,
	)
}

func (r *Recorder) RecordError(at time.Time, packageName string, action string, cause ErrorCause, errorString string, attrs []Attribute) {
	keyvals := []interface{}{
		"event", "error",
		"time", at.Format(time.RFC3339Nano),
		"package", packageName,
		"action", action,
		"cause", cause.String(),
		"error", errorString,
	}
	for _, a := range attrs {
		keyvals = append(keyvals, string(a.Key), a.Value)
	}
	r.encode(keyvals...)
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	keyvals := []interface{}{
		"event", "artifact",
		"kind", string(kind),
		"path", path,
	}
	for _, a := range attrs {
		keyvals = append(keyvals, string(a.Key), a.Value)
	}
	r.encode(keyvals...)
}

func (r *Recorder) RecordFinalCrawlStats(totalPages, totalErrors, totalAssets int, duration time.Duration) {
	r.encode(
		"event", "crawl_finished",
		"total_pages", strconv.Itoa(totalPages),
		"total_errors", strconv.Itoa(totalErrors),
		"total_assets", strconv.Itoa(totalAssets),
		"duration_ms", duration.Milliseconds(),
	)
}
