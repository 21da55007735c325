package rpc

// These mirror spec.md §6's External Interfaces: the Crawler RPC
// (`Crawl(url: string) → empty`) and the Messaging RPC
// (`PublishUrls({payloads: [{queue, message}]}) → empty`,
// `Subscribe(empty) → stream of {url}`). The wire transport itself is an
// out-of-scope external collaborator (spec.md §1), so these types exist
// only to let the client stubs below talk to it — not to define a new
// contract.

type Empty struct{}

type CrawlRequest struct {
	URL string
}

type QueuedMessage struct {
	Queue   string
	Message string
}

type PublishUrlsRequest struct {
	Payloads []QueuedMessage
}

type SubscribeURL struct {
	URL string
}
