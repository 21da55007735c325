package rpc

import (
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func TestWireCodec_MarshalCrawlRequest(t *testing.T) {
	codec := wireCodec{}
	data, err := codec.Marshal(&CrawlRequest{URL: "https://example.com/page"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	num, typ, n := protowire.ConsumeTag(data)
	if n < 0 || num != 1 || typ != protowire.BytesType {
		t.Fatalf("unexpected tag: num=%d typ=%v n=%d", num, typ, n)
	}
	data = data[n:]
	got, n := protowire.ConsumeBytes(data)
	if n < 0 {
		t.Fatalf("bad bytes field: %d", n)
	}
	if string(got) != "https://example.com/page" {
		t.Errorf("expected url to round-trip, got %q", got)
	}
}

func TestWireCodec_MarshalPublishUrlsRequest_RoundTripsEntries(t *testing.T) {
	codec := wireCodec{}
	req := &PublishUrlsRequest{Payloads: []QueuedMessage{
		{Queue: "example.com", Message: "https://example.com/a"},
		{Queue: "example.com", Message: "https://example.com/b"},
	}}
	data, err := codec.Marshal(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var entries [][]byte
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 || num != 1 || typ != protowire.BytesType {
			t.Fatalf("unexpected tag: num=%d typ=%v n=%d", num, typ, n)
		}
		data = data[n:]
		entry, n := protowire.ConsumeBytes(data)
		if n < 0 {
			t.Fatalf("bad entry: %d", n)
		}
		entries = append(entries, entry)
		data = data[n:]
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	var gotQueue, gotMessage string
	entry := entries[0]
	for len(entry) > 0 {
		num, typ, n := protowire.ConsumeTag(entry)
		if n < 0 {
			t.Fatalf("bad entry tag: %d", n)
		}
		entry = entry[n:]
		v, n := protowire.ConsumeBytes(entry)
		if n < 0 {
			t.Fatalf("bad entry value: %d", n)
		}
		switch num {
		case 1:
			gotQueue = string(v)
		case 2:
			gotMessage = string(v)
		default:
			_ = typ
		}
		entry = entry[n:]
	}
	if gotQueue != "example.com" || gotMessage != "https://example.com/a" {
		t.Errorf("unexpected entry: queue=%q message=%q", gotQueue, gotMessage)
	}
}

func TestWireCodec_UnmarshalSubscribeURL(t *testing.T) {
	var data []byte
	data = protowire.AppendTag(data, 1, protowire.BytesType)
	data = protowire.AppendBytes(data, []byte("https://example.com/page"))

	out := &SubscribeURL{}
	if err := (wireCodec{}).Unmarshal(data, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.URL != "https://example.com/page" {
		t.Errorf("expected url to round-trip, got %q", out.URL)
	}
}

func TestWireCodec_MarshalEmpty_ReturnsNilPayload(t *testing.T) {
	data, err := (wireCodec{}).Marshal(&Empty{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty payload, got %v", data)
	}
}
