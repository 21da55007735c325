package embedclient

// EmbedRequest mirrors the TEI (text-embeddings-inference) gRPC request
// shape used by original_source/crawler-service/src/core.rs:
// `EmbedRequest{inputs, truncate, normalize, truncation_direction,
// prompt_name}`. Only the fields the Crawler sets are exposed.
type EmbedRequest struct {
	Inputs    string
	Truncate  bool
	Normalize bool
}

// EmbedResponse mirrors the TEI response's `embeddings` field: a single
// fixed-dim float vector per input.
type EmbedResponse struct {
	Embeddings []float32
}
