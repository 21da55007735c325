package crawler

import (
	"context"
	"net/http"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/embedclient"
	"github.com/rohmanhakim/docs-crawler/internal/extractor"
	"github.com/rohmanhakim/docs-crawler/internal/fetcher"
	"github.com/rohmanhakim/docs-crawler/internal/messaging"
	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/internal/pagestore"
	"github.com/rohmanhakim/docs-crawler/internal/vectorstore"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
	"github.com/rohmanhakim/docs-crawler/pkg/hashutil"
	"github.com/rohmanhakim/docs-crawler/pkg/limiter"
	"github.com/rohmanhakim/docs-crawler/pkg/retry"
	"github.com/rohmanhakim/docs-crawler/pkg/timeutil"
	"github.com/rohmanhakim/docs-crawler/pkg/urlutil"

	"net/url"
)

/*
Crawler coordinates the nine-step crawl(url) pipeline (spec.md §4.1):
robots gate, recency gate, content probe + fetch (combined into a single
GET, see HtmlFetcher's content-type rejection — spec.md explicitly allows
skipping the separate HEAD: "may be skipped if the client prefers a
single GET"), parse/extract, idempotent page upsert, embed, vector
upsert, link fan-out.

Crawler decides retry/continue/abort the way the teacher's Scheduler
did; downstream stages (fetcher, extractor, stores) only classify
failures, never decide control flow.
*/

// Politeness is the subset of internal/politeness.Politeness the Crawler
// depends on.
type Politeness interface {
	IsAllowed(u url.URL) (bool, error)
	Cooldown(ctx context.Context, domain string) error
}

type Crawler struct {
	metadataSink  metadata.MetadataSink
	politeness    Politeness
	pages         pagestore.Store
	vectors       vectorstore.Store
	embedder      embedclient.Client
	broker        messaging.Broker
	htmlFetcher   fetcher.Fetcher
	domExtractor  extractor.Extractor
	rateLimiter   limiter.RateLimiter
	sleeper       timeutil.Sleeper
	retryParam    retry.RetryParam
	userAgent     string
	recencyWindow time.Duration
	vectorDim     int
}

type Deps struct {
	MetadataSink  metadata.MetadataSink
	Politeness    Politeness
	Pages         pagestore.Store
	Vectors       vectorstore.Store
	Embedder      embedclient.Client
	Broker        messaging.Broker
	HtmlFetcher   fetcher.Fetcher
	DomExtractor  extractor.Extractor
	RateLimiter   limiter.RateLimiter
	Sleeper       timeutil.Sleeper
	RetryParam    retry.RetryParam
	UserAgent     string
	RecencyWindow time.Duration
	VectorDim     int
}

// New builds a Crawler from already-constructed dependencies (DB
// clients, broker, politeness, etc. are wired once at process startup
// by cmd/docs-crawler and injected here).
func New(d Deps) Crawler {
	return Crawler{
		metadataSink:  d.MetadataSink,
		politeness:    d.Politeness,
		pages:         d.Pages,
		vectors:       d.Vectors,
		embedder:      d.Embedder,
		broker:        d.Broker,
		htmlFetcher:   d.HtmlFetcher,
		domExtractor:  d.DomExtractor,
		rateLimiter:   d.RateLimiter,
		sleeper:       d.Sleeper,
		retryParam:    d.RetryParam,
		userAgent:     d.UserAgent,
		recencyWindow: d.RecencyWindow,
		vectorDim:     d.VectorDim,
	}
}

// Crawl executes spec.md §4.1's algorithm against target.
func (c *Crawler) Crawl(ctx context.Context, target url.URL) (Outcome, error) {
	domain, ok := urlutil.FilterByHost(target)
	if domain == "" || !ok {
		return Outcome{}, &CrawlError{Cause: ErrCauseBadURL, Err: errNoDomain(target)}
	}

	// 1. Robots gate.
	allowed, err := c.politeness.IsAllowed(target)
	if err != nil {
		return Outcome{}, &CrawlError{Cause: ErrCauseRobotsCheck, Err: err}
	}
	if !allowed {
		return skipped(SkipRobots), nil
	}

	// 2. Recency gate.
	recent, err := c.pages.RecentlySeen(ctx, target.String(), c.recencyWindow)
	if err != nil {
		return Outcome{}, &CrawlError{Cause: ErrCauseRecencyCheck, Err: err}
	}
	if recent {
		return skipped(SkipRecent), nil
	}

	c.paceFetch(domain)

	// 3+4. Content probe + fetch: a single GET; HtmlFetcher rejects
	// non-HTML content-type with a KindPolicySkip-classified error.
	fetchParam := fetcher.NewFetchParam(target, c.userAgent)
	result, fetchErr := c.htmlFetcher.Fetch(ctx, 0, fetchParam, c.retryParam)
	if fetchErr != nil {
		c.rateLimiter.Backoff(domain)
		if fetchErr.Kind() == failure.KindPolicySkip {
			return skipped(SkipContentType), nil
		}
		return Outcome{}, &CrawlError{Cause: ErrCauseFetch, Err: fetchErr}
	}
	c.rateLimiter.ResetBackoff(domain)
	c.rateLimiter.MarkLastFetchAsNow(domain)

	body := result.Body()

	// 5. Parse/extract.
	extraction, extractErr := c.domExtractor.Extract(target, body)
	if extractErr != nil {
		// A malformed/unparsable document still gets its visit recorded
		// (step 6 below runs on an empty body), per spec.md §4.1 step 6.
		extraction = extractor.ExtractionResult{}
	}

	// 6. Persist page (idempotent upsert).
	sha, err := hashutil.HashBytes(body, hashutil.HashAlgoSHA256)
	if err != nil {
		return Outcome{}, &CrawlError{Cause: ErrCauseFetch, Err: err}
	}
	upsertResult, err := c.pages.Upsert(ctx, target.String(), sha)
	if err != nil {
		return Outcome{}, &CrawlError{Cause: ErrCauseFetch, Err: err}
	}

	if extraction.BodyText == "" {
		// Steps 7-8 (embed, vector upsert) need body text; step 9
		// (link fan-out) doesn't and still runs on whatever links were
		// present in the document.
		return c.fanOut(ctx, target, extraction)
	}

	// 7. Embed (non-fatal on failure).
	vector, embedErr := c.embedder.Embed(ctx, extraction.BodyText)
	if embedErr != nil {
		c.metadataSink.RecordError(
			time.Now(), "crawler", "Crawl.embed",
			metadata.CauseUpstreamRPCFailure, embedErr.Error(),
			[]metadata.Attribute{metadata.NewAttr(metadata.AttrURL, target.String())},
		)
		return c.fanOut(ctx, target, extraction)
	}

	// 8. Vector upsert (non-fatal on failure).
	if err := c.vectors.EnsureCollection(ctx, c.vectorDim); err != nil {
		c.metadataSink.RecordError(
			time.Now(), "crawler", "Crawl.ensureCollection",
			metadata.CauseStorageFailure, err.Error(), nil,
		)
	} else if err := c.vectors.Upsert(ctx, vectorstore.Point{
		ID:     upsertResult.UUID,
		Vector: vector,
		URL:    target.String(),
		Title:  extraction.Title,
	}); err != nil {
		c.metadataSink.RecordError(
			time.Now(), "crawler", "Crawl.vectorUpsert",
			metadata.CauseStorageFailure, err.Error(),
			[]metadata.Attribute{metadata.NewAttr(metadata.AttrUUID, upsertResult.UUID)},
		)
	}

	// 9. Link fan-out.
	return c.fanOut(ctx, target, extraction)
}

// fanOut publishes every extracted link with a domain to Messaging,
// dropping the source URL and any link without a domain per spec.md
// §4.1's edge cases.
func (c *Crawler) fanOut(ctx context.Context, source url.URL, extraction extractor.ExtractionResult) (Outcome, error) {
	var publishErr error
	for _, link := range extraction.Links {
		if link == source {
			continue
		}
		domain, ok := urlutil.FilterByHost(link)
		if !ok {
			continue
		}
		if err := c.broker.Publish(ctx, messaging.NewMessage(domain, link.String())); err != nil {
			publishErr = err
		}
	}
	if publishErr != nil {
		return Outcome{}, &CrawlError{Cause: ErrCausePublish, Err: publishErr}
	}
	return accepted(), nil
}

// paceFetch applies the local in-process pacer (robots crawl-delay plus
// exponential backoff from prior transient failures) ahead of the
// distributed Redis cooldown Messaging/Politeness enforce across
// replicas. This is a single-process refinement, not a substitute for
// the shared cooldown.
func (c *Crawler) paceFetch(domain string) {
	if c.rateLimiter == nil {
		return
	}
	delay := c.rateLimiter.ResolveDelay(domain)
	if delay > 0 {
		c.sleeper.Sleep(delay)
	}
}

// NewDefaultHttpClient builds the *http.Client HtmlFetcher.Init expects,
// honoring the configured timeout.
func NewDefaultHttpClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
