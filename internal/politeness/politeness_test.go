package politeness_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/internal/politeness"
)

// noopSink is a MetadataSink test double that discards every event.
type noopSink struct{}

func (noopSink) RecordFetch(string, int, time.Duration, string, int, int)           {}
func (noopSink) RecordError(time.Time, string, string, metadata.ErrorCause, string, []metadata.Attribute) {}
func (noopSink) RecordArtifact(metadata.ArtifactKind, string, []metadata.Attribute)  {}

func setupTestServer(robotsContent string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(robotsContent))
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestIsAllowed_AllowAll(t *testing.T) {
	server := setupTestServer("User-agent: *\nAllow: /")
	defer server.Close()

	p := politeness.New(noopSink{}, "test-agent/1.0", politeness.NewMemoryCooldownStore(), 5)
	target, _ := url.Parse(server.URL + "/page.html")

	allowed, err := p.IsAllowed(*target)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !allowed {
		t.Error("expected URL to be allowed")
	}
}

func TestIsAllowed_DisallowAll(t *testing.T) {
	server := setupTestServer("User-agent: *\nDisallow: /")
	defer server.Close()

	p := politeness.New(noopSink{}, "test-agent/1.0", politeness.NewMemoryCooldownStore(), 5)
	target, _ := url.Parse(server.URL + "/page.html")

	allowed, err := p.IsAllowed(*target)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if allowed {
		t.Error("expected URL to be disallowed")
	}
}

func TestIsAllowed_NoDomainFailsFast(t *testing.T) {
	p := politeness.New(noopSink{}, "test-agent/1.0", politeness.NewMemoryCooldownStore(), 5)

	_, err := p.IsAllowed(url.URL{Path: "/page.html"})
	if err == nil {
		t.Fatal("expected an error for a URL with no domain")
	}

	perr, ok := err.(*politeness.PolitenessError)
	if !ok {
		t.Fatalf("expected *PolitenessError, got %T", err)
	}
	if perr.Cause != politeness.ErrCauseNoDomain {
		t.Errorf("expected ErrCauseNoDomain, got %v", perr.Cause)
	}
}

func TestCooldown_SetAndQuery(t *testing.T) {
	p := politeness.New(noopSink{}, "test-agent/1.0", politeness.NewMemoryCooldownStore(), 5)
	ctx := context.Background()

	cooling, err := p.IsCoolingDown(ctx, "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cooling {
		t.Error("expected example.com to not be cooling before any cooldown is set")
	}

	if err := p.Cooldown(ctx, "example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cooling, err = p.IsCoolingDown(ctx, "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cooling {
		t.Error("expected example.com to be cooling right after Cooldown")
	}
}

func TestCooldown_ExpiresAfterTTL(t *testing.T) {
	p := politeness.New(noopSink{}, "test-agent/1.0", politeness.NewMemoryCooldownStore(), 5)
	ctx := context.Background()

	if err := p.CooldownFor(ctx, "example.com", 10*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	cooling, err := p.IsCoolingDown(ctx, "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cooling {
		t.Error("expected example.com cooldown to have expired")
	}
}

func TestCoolingDomains_MultiGet(t *testing.T) {
	p := politeness.New(noopSink{}, "test-agent/1.0", politeness.NewMemoryCooldownStore(), 5)
	ctx := context.Background()

	if err := p.Cooldown(ctx, "a.example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cooling, err := p.CoolingDomains(ctx, []string{"a.example.com", "b.example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cooling["a.example.com"] {
		t.Error("expected a.example.com to be reported cooling")
	}
	if cooling["b.example.com"] {
		t.Error("expected b.example.com to not be reported cooling")
	}
}
