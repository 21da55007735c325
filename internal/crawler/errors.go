package crawler

import (
	"fmt"
	"net/url"

	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

func errNoDomain(u url.URL) error {
	return fmt.Errorf("url %q has no domain", u.String())
}

type CrawlErrorCause string

const (
	ErrCauseRobotsCheck  CrawlErrorCause = "robots-check"
	ErrCauseRecencyCheck CrawlErrorCause = "recency-check"
	ErrCauseFetch        CrawlErrorCause = "fetch"
	ErrCausePublish      CrawlErrorCause = "publish"
	ErrCauseBadURL       CrawlErrorCause = "bad-url"
)

// CrawlError is the ClassifiedError Crawl returns for its Error(...)
// outcomes (spec.md §4.1, §6's Crawler RPC error mapping:
// InvalidArgument for bad URLs, Internal for everything else).
type CrawlError struct {
	Cause CrawlErrorCause
	Err   error
}

func (e *CrawlError) Error() string {
	return fmt.Sprintf("crawl error (%s): %v", e.Cause, e.Err)
}

func (e *CrawlError) Unwrap() error { return e.Err }

func (e *CrawlError) Severity() failure.Severity {
	if e.Cause == ErrCauseBadURL {
		return failure.SeverityFatal
	}
	return failure.SeverityRecoverable
}

func (e *CrawlError) Kind() failure.Kind {
	switch e.Cause {
	case ErrCauseBadURL:
		return failure.KindBadInput
	default:
		return failure.KindTransientIO
	}
}
