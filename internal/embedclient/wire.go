package embedclient

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// wireCodec is a minimal grpc/encoding.Codec implementation that encodes
// EmbedRequest/EmbedResponse directly against the TEI protobuf wire
// schema using google.golang.org/protobuf/encoding/protowire, without a
// protoc-generated .pb.go. Field numbers match the TEI `EmbedRequest`/
// `EmbedResponse` messages original_source/crawler-service calls through
// its generated tonic stub: EmbedRequest{1:inputs, 2:truncate,
// 3:normalize}, EmbedResponse{1:embeddings (repeated float, packed)}.
type wireCodec struct{}

func (wireCodec) Name() string { return "proto" }

func (wireCodec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case *EmbedRequest:
		return marshalEmbedRequest(m), nil
	default:
		return nil, fmt.Errorf("embedclient: unsupported marshal type %T", v)
	}
}

func (wireCodec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case *EmbedResponse:
		return unmarshalEmbedResponse(data, m)
	default:
		return fmt.Errorf("embedclient: unsupported unmarshal type %T", v)
	}
}

func marshalEmbedRequest(m *EmbedRequest) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte(m.Inputs))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, boolToVarint(m.Truncate))
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, boolToVarint(m.Normalize))
	return b
}

func boolToVarint(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

// unmarshalEmbedResponse decodes field 1 (embeddings), accepting either
// the proto3-default packed encoding (one length-delimited run of
// fixed32 floats) or an unpacked repeated-fixed32 encoding, since TEI's
// exact wire form is an external contract this package doesn't control.
func unmarshalEmbedResponse(data []byte, out *EmbedResponse) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			packed, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
			vals, err := decodePackedFloats(packed)
			if err != nil {
				return err
			}
			out.Embeddings = append(out.Embeddings, vals...)
		case num == 1 && typ == protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
			out.Embeddings = append(out.Embeddings, math.Float32frombits(v))
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return nil
}

func decodePackedFloats(data []byte) ([]float32, error) {
	var vals []float32
	for len(data) > 0 {
		v, n := protowire.ConsumeFixed32(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		vals = append(vals, math.Float32frombits(v))
		data = data[n:]
	}
	return vals, nil
}
