package rpc

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// wireCodec encodes the messages in data.go directly against their
// protobuf wire form with google.golang.org/protobuf/encoding/protowire,
// the same hand-rolled-codec technique internal/embedclient uses to
// avoid a protoc-generated stub. Field numbers match spec.md §6's
// contract: CrawlRequest{1:url}, PublishUrlsRequest{1:repeated
// QueuedMessage}, QueuedMessage{1:queue, 2:message},
// SubscribeURL{1:url}. Empty carries no fields.
type wireCodec struct{}

func (wireCodec) Name() string { return "proto" }

func (wireCodec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case *Empty:
		return nil, nil
	case *CrawlRequest:
		var b []byte
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, []byte(m.URL))
		return b, nil
	case *PublishUrlsRequest:
		return marshalPublishUrlsRequest(m), nil
	default:
		return nil, fmt.Errorf("rpc: unsupported marshal type %T", v)
	}
}

func (wireCodec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case *Empty:
		return nil
	case *SubscribeURL:
		return unmarshalSubscribeURL(data, m)
	default:
		return fmt.Errorf("rpc: unsupported unmarshal type %T", v)
	}
}

func marshalPublishUrlsRequest(m *PublishUrlsRequest) []byte {
	var b []byte
	for _, p := range m.Payloads {
		var entry []byte
		entry = protowire.AppendTag(entry, 1, protowire.BytesType)
		entry = protowire.AppendBytes(entry, []byte(p.Queue))
		entry = protowire.AppendTag(entry, 2, protowire.BytesType)
		entry = protowire.AppendBytes(entry, []byte(p.Message))

		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, entry)
	}
	return b
}

func unmarshalSubscribeURL(data []byte, out *SubscribeURL) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			out.URL = string(v)
			data = data[n:]
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
