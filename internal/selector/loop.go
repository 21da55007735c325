package selector

import (
	"context"
	"net/url"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/crawler"
	"github.com/rohmanhakim/docs-crawler/internal/messaging"
	"github.com/rohmanhakim/docs-crawler/internal/metadata"
)

// CrawlerClient is the subset of crawler.Crawler the Selector depends
// on — a port rather than the concrete type so the default loop can
// dispatch to an in-process Crawler or, in a fully split deployment, a
// Crawler RPC client satisfying the same shape.
type CrawlerClient interface {
	Crawl(ctx context.Context, target url.URL) (crawler.Outcome, error)
}

// Loop is the default deployment from spec.md §4.3: a bounded semaphore
// gates concurrent crawls; each acquired slot pulls one URL from
// Messaging and dispatches it to the Crawler.
type Loop struct {
	broker        messaging.Broker
	crawlerClient CrawlerClient
	metadataSink  metadata.MetadataSink
	concurrency   int
	idleDelay     time.Duration
}

func NewLoop(broker messaging.Broker, crawlerClient CrawlerClient, metadataSink metadata.MetadataSink, concurrency int) Loop {
	if concurrency <= 0 {
		concurrency = 1
	}
	return Loop{
		broker:        broker,
		crawlerClient: crawlerClient,
		metadataSink:  metadataSink,
		concurrency:   concurrency,
		idleDelay:     time.Second,
	}
}

// Run drives the loop until ctx is cancelled. In-flight crawls are
// allowed to complete (the caller should give ctx a grace period before
// fully tearing down its dependencies, per spec.md §5).
func (l Loop) Run(ctx context.Context) {
	sem := make(chan struct{}, l.concurrency)
	for {
		select {
		case <-ctx.Done():
			return
		case sem <- struct{}{}:
		}

		go func() {
			defer func() { <-sem }()
			l.Tick(ctx)
		}()
	}
}

// Tick runs one selection-and-dispatch cycle: pull one message from
// Messaging and, if one was eligible, dispatch it to the Crawler.
func (l Loop) Tick(ctx context.Context) {
	msg, ok, err := l.broker.Next(ctx)
	if err != nil {
		l.metadataSink.RecordError(
			time.Now(), "selector", "Loop.tick",
			metadata.CauseUpstreamRPCFailure, err.Error(), nil,
		)
		return
	}
	if !ok {
		time.Sleep(l.idleDelay)
		return
	}

	target, parseErr := url.Parse(msg.URL)
	if parseErr != nil {
		l.metadataSink.RecordError(
			time.Now(), "selector", "Loop.tick",
			metadata.CauseContentInvalid, parseErr.Error(),
			[]metadata.Attribute{metadata.NewAttr(metadata.AttrURL, msg.URL)},
		)
		return
	}

	if _, err := l.crawlerClient.Crawl(ctx, *target); err != nil {
		l.metadataSink.RecordError(
			time.Now(), "selector", "Loop.tick",
			metadata.CauseUpstreamRPCFailure, err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, msg.URL),
				metadata.NewAttr(metadata.AttrDomain, msg.Domain),
			},
		)
	}
}
