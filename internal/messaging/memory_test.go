package messaging_test

import (
	"context"
	"testing"

	"github.com/rohmanhakim/docs-crawler/internal/messaging"
	"github.com/rohmanhakim/docs-crawler/internal/politeness"
)

func newTestBroker() *messaging.MemoryBroker {
	return messaging.NewMemoryBroker(politeness.NewMemoryCooldownStore(), 5, 42)
}

func TestMemoryBroker_PublishThenNext(t *testing.T) {
	b := newTestBroker()
	ctx := context.Background()

	if err := b.Publish(ctx, messaging.NewMessage("example.com", "https://example.com/a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg, ok, err := b.Next(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a message to be delivered")
	}
	if msg.Domain != "example.com" || msg.URL != "https://example.com/a" {
		t.Errorf("unexpected message: %+v", msg)
	}
}

func TestMemoryBroker_FIFOPerDomain(t *testing.T) {
	b := newTestBroker()
	ctx := context.Background()

	b.Publish(ctx, messaging.NewMessage("example.com", "https://example.com/a"))
	b.Publish(ctx, messaging.NewMessage("example.com", "https://example.com/b"))

	first, ok, _ := b.Next(ctx)
	if !ok || first.URL != "https://example.com/a" {
		t.Fatalf("expected /a first, got %+v (ok=%v)", first, ok)
	}
}

func TestMemoryBroker_EmptyReturnsNotOK(t *testing.T) {
	b := newTestBroker()
	_, ok, err := b.Next(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected no message from an empty broker")
	}
}

func TestMemoryBroker_CooldownExcludesDomainUntilExpiry(t *testing.T) {
	b := newTestBroker()
	ctx := context.Background()

	b.Publish(ctx, messaging.NewMessage("example.com", "https://example.com/a"))
	b.Publish(ctx, messaging.NewMessage("example.com", "https://example.com/b"))

	// First pop sets the cooldown marker for example.com.
	_, ok, err := b.Next(ctx)
	if err != nil || !ok {
		t.Fatalf("expected first pop to succeed, ok=%v err=%v", ok, err)
	}

	// Second pop should find example.com cooling and no other domain
	// eligible, so it returns not-ok even though the queue is non-empty.
	_, ok, err = b.Next(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected example.com to be excluded while cooling down")
	}
}

func TestMemoryBroker_Requeue(t *testing.T) {
	b := newTestBroker()
	ctx := context.Background()

	msg := messaging.NewMessage("example.com", "https://example.com/a")
	if err := b.Requeue(ctx, msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	delivered, ok, err := b.Next(ctx)
	if err != nil || !ok {
		t.Fatalf("expected requeued message to be delivered, ok=%v err=%v", ok, err)
	}
	if delivered.URL != msg.URL {
		t.Errorf("expected %q, got %q", msg.URL, delivered.URL)
	}
}

func TestMemoryBroker_FairnessAcrossDomains(t *testing.T) {
	b := newTestBroker()
	ctx := context.Background()

	domains := []string{"a.example.com", "b.example.com", "c.example.com"}
	for _, d := range domains {
		b.Publish(ctx, messaging.NewMessage(d, "https://"+d+"/page"))
	}

	seen := make(map[string]bool)
	for i := 0; i < len(domains); i++ {
		msg, ok, err := b.Next(ctx)
		if err != nil {
			t.Fatalf("unexpected error on iteration %d: %v", i, err)
		}
		if !ok {
			// Each domain holds one message and only an already-popped
			// domain is cooling, so every iteration has an eligible domain.
			t.Fatalf("expected a message on iteration %d", i)
		}
		seen[msg.Domain] = true
	}
	if len(seen) != len(domains) {
		t.Errorf("expected all %d domains to be selected, got %d", len(domains), len(seen))
	}
}
