package cmd_test

import (
	"net/url"
	"testing"
	"time"

	cmd "github.com/rohmanhakim/docs-crawler/internal/cli"
)

func defaultTestURLs() []url.URL {
	return []url.URL{{Scheme: "https", Host: "example.com"}}
}

func TestInitConfigNoFlags_UsesDefaults(t *testing.T) {
	cmd.ResetFlags()

	cfg, err := cmd.InitConfigWithError(defaultTestURLs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SelectorConcurrent() != 10 {
		t.Errorf("expected default SelectorConcurrent 10, got %d", cfg.SelectorConcurrent())
	}
	if cfg.VectorDim() != 768 {
		t.Errorf("expected default VectorDim 768, got %d", cfg.VectorDim())
	}
	if cfg.RedisURI() != "redis://localhost:6379" {
		t.Errorf("expected default RedisURI, got %q", cfg.RedisURI())
	}
	if len(cfg.SeedURLs()) != 1 {
		t.Errorf("expected 1 seed URL, got %d", len(cfg.SeedURLs()))
	}
}

func TestInitConfigWithError_EmptySeedUrlsIsValid(t *testing.T) {
	cmd.ResetFlags()

	cfg, err := cmd.InitConfigWithError(nil)
	if err != nil {
		t.Fatalf("unexpected error for empty seed URLs: %v", err)
	}
	if len(cfg.SeedURLs()) != 0 {
		t.Errorf("expected no seed URLs, got %d", len(cfg.SeedURLs()))
	}
}

func TestInitConfigWithError_OverridesApply(t *testing.T) {
	cmd.ResetFlags()
	cmd.SetCooldownSecondsForTest(42)
	cmd.SetSelectorConcurrentForTest(7)
	cmd.SetUseAMQPBrokerForTest(true)
	cmd.SetRandomSeedForTest(99)
	cmd.SetUserAgentForTest("custom-agent/1.0")
	cmd.SetTimeoutForTest(5 * time.Second)

	cfg, err := cmd.InitConfigWithError(defaultTestURLs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CooldownSeconds() != 42 {
		t.Errorf("expected CooldownSeconds 42, got %d", cfg.CooldownSeconds())
	}
	if cfg.SelectorConcurrent() != 7 {
		t.Errorf("expected SelectorConcurrent 7, got %d", cfg.SelectorConcurrent())
	}
	if !cfg.UseAMQPBroker() {
		t.Error("expected UseAMQPBroker true")
	}
	if cfg.RandomSeed() != 99 {
		t.Errorf("expected RandomSeed 99, got %d", cfg.RandomSeed())
	}
	if cfg.UserAgent() != "custom-agent/1.0" {
		t.Errorf("expected overridden UserAgent, got %q", cfg.UserAgent())
	}
	if cfg.Timeout() != 5*time.Second {
		t.Errorf("expected Timeout 5s, got %v", cfg.Timeout())
	}
}

func TestParseSeedURLs_RejectsMalformedURL(t *testing.T) {
	if _, err := cmd.ParseSeedURLsForTest([]string{"://not-a-url"}); err == nil {
		t.Error("expected error for malformed seed URL")
	}
}

func TestParseSeedURLs_EmptyInputYieldsEmptyOutput(t *testing.T) {
	urls, err := cmd.ParseSeedURLsForTest(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(urls) != 0 {
		t.Errorf("expected no URLs, got %d", len(urls))
	}
}
