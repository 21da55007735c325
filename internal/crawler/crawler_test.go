package crawler_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/crawler"
	"github.com/rohmanhakim/docs-crawler/internal/extractor"
	"github.com/rohmanhakim/docs-crawler/internal/fetcher"
	"github.com/rohmanhakim/docs-crawler/internal/messaging"
	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/internal/pagestore"
	"github.com/rohmanhakim/docs-crawler/internal/vectorstore"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
	"github.com/rohmanhakim/docs-crawler/pkg/retry"
	"github.com/stretchr/testify/mock"
)

type noopSink struct{}

func (noopSink) RecordFetch(string, int, time.Duration, string, int, int) {}
func (noopSink) RecordError(time.Time, string, string, metadata.ErrorCause, string, []metadata.Attribute) {
}
func (noopSink) RecordArtifact(metadata.ArtifactKind, string, []metadata.Attribute) {}

type politenessMock struct{ mock.Mock }

func (m *politenessMock) IsAllowed(u url.URL) (bool, error) {
	args := m.Called(u)
	return args.Bool(0), args.Error(1)
}
func (m *politenessMock) Cooldown(ctx context.Context, domain string) error {
	args := m.Called(ctx, domain)
	return args.Error(0)
}

type pageStoreMock struct{ mock.Mock }

func (m *pageStoreMock) Upsert(ctx context.Context, u string, sha256 string) (pagestore.UpsertResult, error) {
	args := m.Called(ctx, u, sha256)
	return args.Get(0).(pagestore.UpsertResult), args.Error(1)
}
func (m *pageStoreMock) RecentlySeen(ctx context.Context, u string, window time.Duration) (bool, error) {
	args := m.Called(ctx, u, window)
	return args.Bool(0), args.Error(1)
}

type vectorStoreMock struct{ mock.Mock }

func (m *vectorStoreMock) EnsureCollection(ctx context.Context, dim int) error {
	args := m.Called(ctx, dim)
	return args.Error(0)
}
func (m *vectorStoreMock) Upsert(ctx context.Context, p vectorstore.Point) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type embedderMock struct{ mock.Mock }

func (m *embedderMock) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	vec, _ := args.Get(0).([]float32)
	return vec, args.Error(1)
}

type brokerMock struct{ mock.Mock }

func (m *brokerMock) Publish(ctx context.Context, msg messaging.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
func (m *brokerMock) Next(ctx context.Context) (messaging.Message, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(messaging.Message), args.Bool(1), args.Error(2)
}
func (m *brokerMock) Requeue(ctx context.Context, msg messaging.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type htmlFetcherMock struct{ mock.Mock }

func (m *htmlFetcherMock) Init(httpClient *http.Client) { m.Called(httpClient) }

func (m *htmlFetcherMock) Fetch(
	ctx context.Context,
	crawlDepth int,
	fetchParam fetcher.FetchParam,
	retryParam retry.RetryParam,
) (fetcher.FetchResult, failure.ClassifiedError) {
	args := m.Called(ctx, crawlDepth, fetchParam, retryParam)
	result, _ := args.Get(0).(fetcher.FetchResult)
	classifiedErr, _ := args.Get(1).(failure.ClassifiedError)
	return result, classifiedErr
}

type extractorMock struct{ mock.Mock }

func (m *extractorMock) Extract(sourceUrl url.URL, htmlByte []byte) (extractor.ExtractionResult, failure.ClassifiedError) {
	args := m.Called(sourceUrl, htmlByte)
	result, _ := args.Get(0).(extractor.ExtractionResult)
	classifiedErr, _ := args.Get(1).(failure.ClassifiedError)
	return result, classifiedErr
}

type rateLimiterMock struct{ mock.Mock }

func (m *rateLimiterMock) SetBaseDelay(baseDelay time.Duration)        { m.Called(baseDelay) }
func (m *rateLimiterMock) SetJitter(jitter time.Duration)              { m.Called(jitter) }
func (m *rateLimiterMock) SetRandomSeed(randomSeed int64)              { m.Called(randomSeed) }
func (m *rateLimiterMock) SetCrawlDelay(host string, delay time.Duration) {
	m.Called(host, delay)
}
func (m *rateLimiterMock) Backoff(host string)            { m.Called(host) }
func (m *rateLimiterMock) ResetBackoff(host string)       { m.Called(host) }
func (m *rateLimiterMock) MarkLastFetchAsNow(host string) { m.Called(host) }
func (m *rateLimiterMock) Jitter(base time.Duration) time.Duration {
	args := m.Called(base)
	return args.Get(0).(time.Duration)
}
func (m *rateLimiterMock) SetRNG(rng interface{}) { m.Called(rng) }
func (m *rateLimiterMock) ResolveDelay(host string) time.Duration {
	args := m.Called(host)
	return args.Get(0).(time.Duration)
}

type sleeperMock struct{ mock.Mock }

func (m *sleeperMock) Sleep(d time.Duration) { m.Called(d) }

func newTestRateLimiter() *rateLimiterMock {
	m := new(rateLimiterMock)
	m.On("Backoff", mock.Anything).Return()
	m.On("ResetBackoff", mock.Anything).Return()
	m.On("MarkLastFetchAsNow", mock.Anything).Return()
	m.On("ResolveDelay", mock.Anything).Return(time.Duration(0))
	return m
}

func TestCrawl_RobotsDisallow_ReturnsSkipped(t *testing.T) {
	polite := new(politenessMock)
	target, _ := url.Parse("https://example.com/page")
	polite.On("IsAllowed", *target).Return(false, nil)

	c := crawler.New(crawler.Deps{
		MetadataSink: noopSink{},
		Politeness:   polite,
		RateLimiter:  newTestRateLimiter(),
		Sleeper:      new(sleeperMock),
	})

	outcome, err := c.Crawl(context.Background(), *target)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if outcome.Kind != crawler.Skipped || outcome.Reason != crawler.SkipRobots {
		t.Errorf("expected robots skip, got %+v", outcome)
	}
}

func TestCrawl_RecentlySeen_ReturnsSkipped(t *testing.T) {
	polite := new(politenessMock)
	pages := new(pageStoreMock)
	target, _ := url.Parse("https://example.com/page")
	polite.On("IsAllowed", *target).Return(true, nil)
	pages.On("RecentlySeen", mock.Anything, target.String(), mock.Anything).Return(true, nil)

	c := crawler.New(crawler.Deps{
		MetadataSink: noopSink{},
		Politeness:   polite,
		Pages:        pages,
		RateLimiter:  newTestRateLimiter(),
		Sleeper:      new(sleeperMock),
	})

	outcome, err := c.Crawl(context.Background(), *target)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if outcome.Kind != crawler.Skipped || outcome.Reason != crawler.SkipRecent {
		t.Errorf("expected recency skip, got %+v", outcome)
	}
}

func TestCrawl_NoDomain_ReturnsBadURLError(t *testing.T) {
	c := crawler.New(crawler.Deps{
		MetadataSink: noopSink{},
		RateLimiter:  newTestRateLimiter(),
		Sleeper:      new(sleeperMock),
	})

	target := url.URL{Scheme: "file", Path: "/etc/hosts"}
	_, err := c.Crawl(context.Background(), target)
	if err == nil {
		t.Fatal("expected an error for a domain-less URL")
	}
	ce, ok := err.(*crawler.CrawlError)
	if !ok {
		t.Fatalf("expected *CrawlError, got %T", err)
	}
	if ce.Cause != crawler.ErrCauseBadURL {
		t.Errorf("expected ErrCauseBadURL, got %v", ce.Cause)
	}
	if ce.Kind() != failure.KindBadInput {
		t.Errorf("expected KindBadInput, got %v", ce.Kind())
	}
}
