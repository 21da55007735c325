package rpc

import (
	"context"
	"net/url"

	"google.golang.org/grpc"

	"github.com/rohmanhakim/docs-crawler/internal/crawler"
)

// crawlMethod is the Crawler RPC from spec.md §6: "Crawl(url: string) →
// empty, errors: InvalidArgument (malformed URL), Internal (everything
// else)". The transport binding itself is an out-of-scope external
// collaborator (spec.md §1); this package only owns the call shape a
// Selector deployed against a remote Crawler would make.
const crawlMethod = "/crawler.v1.Crawler/Crawl"

// CrawlerClient implements internal/selector.CrawlerClient over a gRPC
// connection, letting a fully split deployment run the Selector and the
// Crawler as separate processes without changing selector.Loop.
type CrawlerClient struct {
	conn *grpc.ClientConn
}

func NewCrawlerClient(conn *grpc.ClientConn) *CrawlerClient {
	return &CrawlerClient{conn: conn}
}

// Crawl sends target to the remote Crawler. The RPC contract only
// reports empty or an error, so a successful call is always reported as
// accepted here — the remote side's actual skip/outcome bookkeeping is
// its own concern (spec.md §1 treats storage and the page record as
// internal to whichever process runs the Crawler module).
func (c *CrawlerClient) Crawl(ctx context.Context, target url.URL) (crawler.Outcome, error) {
	req := &CrawlRequest{URL: target.String()}
	resp := &Empty{}

	err := c.conn.Invoke(ctx, crawlMethod, req, resp, grpc.ForceCodec(wireCodec{}))
	if err != nil {
		return crawler.Outcome{}, classifyStatus(err)
	}
	return crawler.Outcome{Kind: crawler.AcceptedDone}, nil
}
