package rpc

import (
	"context"
	"io"
	"net/url"

	"google.golang.org/grpc"

	"github.com/rohmanhakim/docs-crawler/internal/messaging"
	"github.com/rohmanhakim/docs-crawler/pkg/urlutil"
)

// publishMethod and subscribeMethod are the Messaging RPC from spec.md
// §6: "PublishUrls({payloads: [{queue, message}]}) → empty" and
// "Subscribe(empty) → stream of {url}". As with the Crawler RPC, the
// transport binding itself is external (spec.md §1); this package only
// owns the call shape.
const (
	publishMethod   = "/messaging.v1.Messaging/PublishUrls"
	subscribeMethod = "/messaging.v1.Messaging/Subscribe"
)

// MessagingClient implements messaging.Broker over a gRPC connection to
// a remote Messaging deployment, letting Crawler and Selector run split
// from Messaging without changing either's wiring against the Broker
// port. Subscribe is a server-streaming RPC, so incoming URLs are pumped
// into a buffered channel by a background goroutine started from Start;
// Next drains that channel the same way messaging.MemoryBroker.Next
// drains its in-process queues.
type MessagingClient struct {
	conn    *grpc.ClientConn
	pending chan messaging.Message
}

func NewMessagingClient(conn *grpc.ClientConn, bufferSize int) *MessagingClient {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &MessagingClient{conn: conn, pending: make(chan messaging.Message, bufferSize)}
}

// Start dials the Subscribe stream and pumps delivered URLs into the
// client's internal buffer until ctx is cancelled or the stream ends.
// Callers run this once in a background goroutine before calling Next.
func (c *MessagingClient) Start(ctx context.Context) error {
	stream, err := c.conn.NewStream(ctx, &grpc.StreamDesc{StreamName: "Subscribe", ServerStreams: true}, subscribeMethod, grpc.ForceCodec(wireCodec{}))
	if err != nil {
		return classifyStatus(err)
	}
	if err := stream.SendMsg(&Empty{}); err != nil {
		return classifyStatus(err)
	}
	if err := stream.CloseSend(); err != nil {
		return classifyStatus(err)
	}

	for {
		resp := &SubscribeURL{}
		if err := stream.RecvMsg(resp); err != nil {
			if err == io.EOF || ctx.Err() != nil {
				return nil
			}
			return classifyStatus(err)
		}

		target, parseErr := url.Parse(resp.URL)
		if parseErr != nil {
			continue
		}
		domain, ok := urlutil.FilterByHost(*target)
		if !ok {
			continue
		}

		select {
		case c.pending <- messaging.NewMessage(domain, resp.URL):
		case <-ctx.Done():
			return nil
		}
	}
}

// Publish calls PublishUrls with a single-element payload, matching
// spec.md §6's request shape.
func (c *MessagingClient) Publish(ctx context.Context, msg messaging.Message) error {
	req := &PublishUrlsRequest{Payloads: []QueuedMessage{{Queue: msg.Domain, Message: msg.URL}}}
	resp := &Empty{}
	if err := c.conn.Invoke(ctx, publishMethod, req, resp, grpc.ForceCodec(wireCodec{})); err != nil {
		return classifyStatus(err)
	}
	return nil
}

// Next takes one message from the Subscribe-fed buffer without waiting:
// ok is false when the buffer is empty or ctx is done, the same way the
// in-process brokers report nothing eligible on a tick.
func (c *MessagingClient) Next(ctx context.Context) (messaging.Message, bool, error) {
	select {
	case msg := <-c.pending:
		return msg, true, nil
	case <-ctx.Done():
		return messaging.Message{}, false, nil
	default:
		return messaging.Message{}, false, nil
	}
}

// Requeue republishes msg, mirroring the in-process brokers' at-least-once
// reinsertion-at-tail behavior; the remote Messaging owns ordering.
func (c *MessagingClient) Requeue(ctx context.Context, msg messaging.Message) error {
	return c.Publish(ctx, msg)
}
