package embedclient

import (
	"context"

	"google.golang.org/grpc"
)

// embedMethod is the TEI gRPC method original_source/crawler-service's
// generated tonic stub calls: package tei.v1, service Embed, rpc Embed.
const embedMethod = "/tei.v1.Embed/Embed"

// Client is the narrow interface the Crawler depends on for spec.md
// §4.1 step 7: "Call the embedding service with the body text,
// truncate=true, normalize enabled, resulting in a fixed-dim vector."
// The embeddings model itself is an out-of-scope external collaborator
// (spec.md §1); this package only owns the RPC call shape.
type Client interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// GRPCClient calls the embedding RPC directly through
// grpc.ClientConn.Invoke with a hand-rolled wire codec (wire.go),
// avoiding a protoc-generated stub while still speaking the TEI service's
// real protobuf wire schema.
type GRPCClient struct {
	conn *grpc.ClientConn
}

func NewGRPCClient(conn *grpc.ClientConn) *GRPCClient {
	return &GRPCClient{conn: conn}
}

func (c *GRPCClient) Embed(ctx context.Context, text string) ([]float32, error) {
	req := &EmbedRequest{Inputs: text, Truncate: true, Normalize: true}
	resp := &EmbedResponse{}

	err := c.conn.Invoke(ctx, embedMethod, req, resp, grpc.ForceCodec(wireCodec{}))
	if err != nil {
		return nil, &EmbedError{Cause: ErrCauseRPCFailure, Err: err}
	}
	return resp.Embeddings, nil
}
