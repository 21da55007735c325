package config_test

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/config"
)

func TestWithDefault(t *testing.T) {
	testURLs := []url.URL{
		{Scheme: "https", Host: "example.org"},
	}

	cfg := config.WithDefault(testURLs)

	if cfg == nil {
		t.Fatal("WithDefault() returned nil")
	}

	builtCfg, err := cfg.Build()

	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}

	if len(builtCfg.SeedURLs()) != 1 {
		t.Errorf("expected 1 seed URL, got %d", len(builtCfg.SeedURLs()))
	}

	if builtCfg.CooldownSeconds() != 5 {
		t.Errorf("expected CooldownSeconds 5, got %d", builtCfg.CooldownSeconds())
	}
	if builtCfg.RobotsCacheTTL() != 30*24*time.Hour {
		t.Errorf("expected RobotsCacheTTL 30d, got %v", builtCfg.RobotsCacheTTL())
	}
	if builtCfg.RecencyWindow() != time.Hour {
		t.Errorf("expected RecencyWindow 1h, got %v", builtCfg.RecencyWindow())
	}

	if builtCfg.Jitter() != 500*time.Millisecond {
		t.Errorf("expected Jitter 500ms, got %v", builtCfg.Jitter())
	}
	if builtCfg.Timeout() != 10*time.Second {
		t.Errorf("expected Timeout 10s, got %v", builtCfg.Timeout())
	}

	if builtCfg.UserAgent() != "docs-crawler/1.0" {
		t.Errorf("expected UserAgent 'docs-crawler/1.0', got '%s'", builtCfg.UserAgent())
	}

	if builtCfg.RandomSeed() == 0 {
		t.Error("expected RandomSeed to be set, got 0")
	}

	if builtCfg.MaxAttempt() != 10 {
		t.Errorf("expected MaxAttempt 10, got %d", builtCfg.MaxAttempt())
	}
	if builtCfg.BackoffInitialDuration() != 100*time.Millisecond {
		t.Errorf("expected BackoffInitialDuration 100ms, got %v", builtCfg.BackoffInitialDuration())
	}
	if builtCfg.BackoffMultiplier() != 2.0 {
		t.Errorf("expected BackoffMultiplier 2.0, got %f", builtCfg.BackoffMultiplier())
	}
	if builtCfg.BackoffMaxDuration() != 10*time.Second {
		t.Errorf("expected BackoffMaxDuration 10s, got %v", builtCfg.BackoffMaxDuration())
	}

	if builtCfg.SelectorConcurrent() != 10 {
		t.Errorf("expected SelectorConcurrent 10, got %d", builtCfg.SelectorConcurrent())
	}
	if builtCfg.VectorDim() != 768 {
		t.Errorf("expected VectorDim 768, got %d", builtCfg.VectorDim())
	}
	if builtCfg.RedisURI() == "" {
		t.Error("expected a default RedisURI")
	}
	if builtCfg.MongoReadURI() == "" || builtCfg.MongoWriteURI() == "" {
		t.Error("expected default Mongo URIs")
	}
	if builtCfg.QdrantReadURI() == "" || builtCfg.QdrantWriteURI() == "" {
		t.Error("expected default Qdrant URIs")
	}
	if builtCfg.AMQPURI() == "" {
		t.Error("expected a default AMQPURI")
	}
	if builtCfg.UseAMQPBroker() != false {
		t.Errorf("expected UseAMQPBroker false by default, got %v", builtCfg.UseAMQPBroker())
	}
}

func TestWithDefault_EmptySeedUrls(t *testing.T) {
	cfg := config.WithDefault([]url.URL{})

	if cfg == nil {
		t.Fatal("WithDefault() returned nil")
	}

	builtCfg, err := cfg.Build()
	if err == nil {
		t.Errorf("should error")
	}

	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig err, got %v", err)
	}

	if len(builtCfg.SeedURLs()) != 0 {
		t.Errorf("expected 0 seed URL, got %d", len(builtCfg.SeedURLs()))
	}
}

func TestWithSeedUrls(t *testing.T) {
	testURLs := []url.URL{
		{Scheme: "https", Host: "example.org"},
		{Scheme: "http", Host: "test.com", Path: "/path"},
	}

	baseURL := []url.URL{{Scheme: "https", Host: "base.org"}}
	cfg, err := config.WithDefault(baseURL).WithSeedUrls(testURLs).Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}

	if len(cfg.SeedURLs()) != 2 {
		t.Errorf("expected 2 seed URLs, got %d", len(cfg.SeedURLs()))
	}
	if cfg.SeedURLs()[0].String() != "https://example.org" {
		t.Errorf("expected first URL 'https://example.org', got '%s'", cfg.SeedURLs()[0].String())
	}
	if cfg.SeedURLs()[1].String() != "http://test.com/path" {
		t.Errorf("expected second URL 'http://test.com/path', got '%s'", cfg.SeedURLs()[1].String())
	}
}

func TestWithCooldownSeconds(t *testing.T) {
	baseURL := []url.URL{{Scheme: "https", Host: "base.org"}}
	cfg, err := config.WithDefault(baseURL).WithCooldownSeconds(30).Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	if cfg.CooldownSeconds() != 30 {
		t.Errorf("expected CooldownSeconds 30, got %d", cfg.CooldownSeconds())
	}
}

func TestWithRobotsCacheTTL(t *testing.T) {
	testTTL := 48 * time.Hour
	baseURL := []url.URL{{Scheme: "https", Host: "base.org"}}
	cfg, err := config.WithDefault(baseURL).WithRobotsCacheTTL(testTTL).Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	if cfg.RobotsCacheTTL() != testTTL {
		t.Errorf("expected RobotsCacheTTL %v, got %v", testTTL, cfg.RobotsCacheTTL())
	}
}

func TestWithRecencyWindow(t *testing.T) {
	testWindow := 2 * time.Hour
	baseURL := []url.URL{{Scheme: "https", Host: "base.org"}}
	cfg, err := config.WithDefault(baseURL).WithRecencyWindow(testWindow).Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	if cfg.RecencyWindow() != testWindow {
		t.Errorf("expected RecencyWindow %v, got %v", testWindow, cfg.RecencyWindow())
	}
}

func TestWithJitter(t *testing.T) {
	testJitter := 1 * time.Second
	baseURL := []url.URL{{Scheme: "https", Host: "base.org"}}
	cfg, err := config.WithDefault(baseURL).WithJitter(testJitter).Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	if cfg.Jitter() != testJitter {
		t.Errorf("expected Jitter %v, got %v", testJitter, cfg.Jitter())
	}
}

func TestWithRandomSeed(t *testing.T) {
	testSeed := int64(12345)
	baseURL := []url.URL{{Scheme: "https", Host: "base.org"}}
	cfg, err := config.WithDefault(baseURL).WithRandomSeed(testSeed).Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	if cfg.RandomSeed() != testSeed {
		t.Errorf("expected RandomSeed %d, got %d", testSeed, cfg.RandomSeed())
	}
}

func TestWithMaxAttempt(t *testing.T) {
	testAttempts := 5
	baseURL := []url.URL{{Scheme: "https", Host: "base.org"}}
	cfg, err := config.WithDefault(baseURL).WithMaxAttempt(testAttempts).Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	if cfg.MaxAttempt() != testAttempts {
		t.Errorf("expected MaxAttempt %d, got %d", testAttempts, cfg.MaxAttempt())
	}
}

func TestWithBackoffInitialDuration(t *testing.T) {
	testDuration := 200 * time.Millisecond
	baseURL := []url.URL{{Scheme: "https", Host: "base.org"}}
	cfg, err := config.WithDefault(baseURL).WithBackoffInitialDuration(testDuration).Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	if cfg.BackoffInitialDuration() != testDuration {
		t.Errorf("expected BackoffInitialDuration %v, got %v", testDuration, cfg.BackoffInitialDuration())
	}
}

func TestWithBackoffMultiplier(t *testing.T) {
	testMultiplier := 1.5
	baseURL := []url.URL{{Scheme: "https", Host: "base.org"}}
	cfg, err := config.WithDefault(baseURL).WithBackoffMultiplier(testMultiplier).Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	if cfg.BackoffMultiplier() != testMultiplier {
		t.Errorf("expected BackoffMultiplier %f, got %f", testMultiplier, cfg.BackoffMultiplier())
	}
}

func TestWithBackoffMaxDuration(t *testing.T) {
	testDuration := 30 * time.Second
	baseURL := []url.URL{{Scheme: "https", Host: "base.org"}}
	cfg, err := config.WithDefault(baseURL).WithBackoffMaxDuration(testDuration).Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	if cfg.BackoffMaxDuration() != testDuration {
		t.Errorf("expected BackoffMaxDuration %v, got %v", testDuration, cfg.BackoffMaxDuration())
	}
}

func TestWithTimeout(t *testing.T) {
	testTimeout := 30 * time.Second
	baseURL := []url.URL{{Scheme: "https", Host: "base.org"}}
	cfg, err := config.WithDefault(baseURL).WithTimeout(testTimeout).Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	if cfg.Timeout() != testTimeout {
		t.Errorf("expected Timeout %v, got %v", testTimeout, cfg.Timeout())
	}
}

func TestWithUserAgent(t *testing.T) {
	testAgent := "CustomBot/2.0"
	baseURL := []url.URL{{Scheme: "https", Host: "base.org"}}
	cfg, err := config.WithDefault(baseURL).WithUserAgent(testAgent).Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	if cfg.UserAgent() != testAgent {
		t.Errorf("expected UserAgent '%s', got '%s'", testAgent, cfg.UserAgent())
	}
}

func TestWithSelectorConcurrent(t *testing.T) {
	baseURL := []url.URL{{Scheme: "https", Host: "base.org"}}
	cfg, err := config.WithDefault(baseURL).WithSelectorConcurrent(25).Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	if cfg.SelectorConcurrent() != 25 {
		t.Errorf("expected SelectorConcurrent 25, got %d", cfg.SelectorConcurrent())
	}
}

func TestWithRedisURI(t *testing.T) {
	baseURL := []url.URL{{Scheme: "https", Host: "base.org"}}
	cfg, err := config.WithDefault(baseURL).WithRedisURI("redis://cache:6379").Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	if cfg.RedisURI() != "redis://cache:6379" {
		t.Errorf("expected RedisURI 'redis://cache:6379', got '%s'", cfg.RedisURI())
	}
}

func TestWithMongoURIs(t *testing.T) {
	baseURL := []url.URL{{Scheme: "https", Host: "base.org"}}
	cfg, err := config.WithDefault(baseURL).
		WithMongoReadURI("mongodb://ro:27017").
		WithMongoWriteURI("mongodb://rw:27017").
		Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	if cfg.MongoReadURI() != "mongodb://ro:27017" {
		t.Errorf("expected MongoReadURI 'mongodb://ro:27017', got '%s'", cfg.MongoReadURI())
	}
	if cfg.MongoWriteURI() != "mongodb://rw:27017" {
		t.Errorf("expected MongoWriteURI 'mongodb://rw:27017', got '%s'", cfg.MongoWriteURI())
	}
}

func TestWithQdrantURIs(t *testing.T) {
	baseURL := []url.URL{{Scheme: "https", Host: "base.org"}}
	cfg, err := config.WithDefault(baseURL).
		WithQdrantReadURI("http://qr:6334").
		WithQdrantWriteURI("http://qw:6334").
		Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	if cfg.QdrantReadURI() != "http://qr:6334" {
		t.Errorf("expected QdrantReadURI 'http://qr:6334', got '%s'", cfg.QdrantReadURI())
	}
	if cfg.QdrantWriteURI() != "http://qw:6334" {
		t.Errorf("expected QdrantWriteURI 'http://qw:6334', got '%s'", cfg.QdrantWriteURI())
	}
}

func TestWithAMQPURI(t *testing.T) {
	baseURL := []url.URL{{Scheme: "https", Host: "base.org"}}
	cfg, err := config.WithDefault(baseURL).WithAMQPURI("amqp://u:p@broker:5672/").Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	if cfg.AMQPURI() != "amqp://u:p@broker:5672/" {
		t.Errorf("expected AMQPURI 'amqp://u:p@broker:5672/', got '%s'", cfg.AMQPURI())
	}
}

func TestWithVectorDim(t *testing.T) {
	baseURL := []url.URL{{Scheme: "https", Host: "base.org"}}
	cfg, err := config.WithDefault(baseURL).WithVectorDim(1536).Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	if cfg.VectorDim() != 1536 {
		t.Errorf("expected VectorDim 1536, got %d", cfg.VectorDim())
	}
}

func TestWithUseAMQPBroker(t *testing.T) {
	baseURL := []url.URL{{Scheme: "https", Host: "base.org"}}
	cfg, err := config.WithDefault(baseURL).WithUseAMQPBroker(true).Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	if !cfg.UseAMQPBroker() {
		t.Error("expected UseAMQPBroker true")
	}
}

func TestBuild(t *testing.T) {
	baseURL := []url.URL{{Scheme: "https", Host: "base.org"}}
	original := config.WithDefault(baseURL)
	built, err := original.Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	newBuilt, err := original.Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	if newBuilt.SeedURLs()[0].String() != built.SeedURLs()[0].String() {
		t.Error("Build() did not return matching config")
	}

	newBuilt2, err := original.Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}
	if newBuilt2.CooldownSeconds() != 5 {
		t.Error("Build() appears to return reference, not value")
	}
}

func TestWithConfigFile_FileDoesNotExist(t *testing.T) {
	_, err := config.WithConfigFile("/nonexistent/path/config.json")

	if err == nil {
		t.Fatal("expected error for non-existent file, got nil")
	}

	if !errors.Is(err, config.ErrFileDoesNotExist) {
		t.Errorf("expected ErrFileDoesNotExist, got: %v", err)
	}
}

func TestWithConfigFile_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.json")

	err := os.WriteFile(configPath, []byte("{invalid json content}"), 0644)
	if err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	_, err = config.WithConfigFile(configPath)

	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}

	if !errors.Is(err, config.ErrConfigParsingFail) {
		t.Errorf("expected ErrConfigParsingFail, got: %v", err)
	}
}

func TestWithConfigFile_ValidCompleteConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	err := os.WriteFile(configPath, []byte(completeConfigJson()), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	loadedConfig, err := config.WithConfigFile(configPath)

	if err != nil {
		t.Fatalf("unexpected error loading valid config: %v", err)
	}

	if len(loadedConfig.SeedURLs()) != 2 ||
		loadedConfig.SeedURLs()[0].String() != "https://my-documentation.com/docs" ||
		loadedConfig.SeedURLs()[1].String() != "http://my-other-documentation.com/docs" {
		t.Errorf("unexpected SeedURLs: %v", loadedConfig.SeedURLs())
	}
	if loadedConfig.CooldownSeconds() != 15 {
		t.Errorf("expected CooldownSeconds 15, got %d", loadedConfig.CooldownSeconds())
	}
	if loadedConfig.SelectorConcurrent() != 20 {
		t.Errorf("expected SelectorConcurrent 20, got %d", loadedConfig.SelectorConcurrent())
	}
	if loadedConfig.UserAgent() != "TestBot/1.0" {
		t.Errorf("expected UserAgent 'TestBot/1.0', got '%s'", loadedConfig.UserAgent())
	}

	if loadedConfig.MaxAttempt() != 15 {
		t.Errorf("expected MaxAttempt 15, got %d", loadedConfig.MaxAttempt())
	}
	if loadedConfig.BackoffInitialDuration() != 200*time.Millisecond {
		t.Errorf("expected BackoffInitialDuration 200ms, got %v", loadedConfig.BackoffInitialDuration())
	}
	if loadedConfig.BackoffMultiplier() != 2.5 {
		t.Errorf("expected BackoffMultiplier 2.5, got %f", loadedConfig.BackoffMultiplier())
	}
	if loadedConfig.BackoffMaxDuration() != 20*time.Second {
		t.Errorf("expected BackoffMaxDuration 20s, got %v", loadedConfig.BackoffMaxDuration())
	}
	if loadedConfig.RedisURI() != "redis://cache:6379" {
		t.Errorf("expected RedisURI 'redis://cache:6379', got '%s'", loadedConfig.RedisURI())
	}
	if !loadedConfig.UseAMQPBroker() {
		t.Error("expected UseAMQPBroker true")
	}
}

func TestWithConfigFile_PartialConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.json")

	partialData := `{
		"seedUrls": [{"Scheme": "https", "Host": "partial-example.com"}],
		"cooldownSeconds": 7,
		"userAgent": "PartialBot/1.0"
	}`

	err := os.WriteFile(configPath, []byte(partialData), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	loadedConfig, err := config.WithConfigFile(configPath)

	if err != nil {
		t.Fatalf("unexpected error loading partial config: %v", err)
	}

	if loadedConfig.CooldownSeconds() != 7 {
		t.Errorf("expected CooldownSeconds 7, got %d", loadedConfig.CooldownSeconds())
	}
	if loadedConfig.UserAgent() != "PartialBot/1.0" {
		t.Errorf("expected UserAgent 'PartialBot/1.0', got '%s'", loadedConfig.UserAgent())
	}
	if len(loadedConfig.SeedURLs()) != 1 || loadedConfig.SeedURLs()[0].String() != "https://partial-example.com" {
		t.Errorf("expected SeedURLs to be loaded from config, got %v", loadedConfig.SeedURLs())
	}

	// Verify default fields are preserved
	if loadedConfig.VectorDim() != 768 {
		t.Errorf("expected VectorDim to remain default 768, got %d", loadedConfig.VectorDim())
	}
	if loadedConfig.SelectorConcurrent() != 10 {
		t.Errorf("expected SelectorConcurrent to remain default 10, got %d", loadedConfig.SelectorConcurrent())
	}
}

func TestWithConfigFile_PartialConfigNoSeedUrl(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.json")

	partialData := `{
		"cooldownSeconds": 7,
		"userAgent": "PartialBot/1.0"
	}`

	err := os.WriteFile(configPath, []byte(partialData), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err = config.WithConfigFile(configPath)

	if err == nil {
		t.Fatalf("should error")
	}

	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig error, got: %v", err)
	}
}

func TestWithConfigFile_EmptyJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "empty.json")

	err := os.WriteFile(configPath, []byte("{}"), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err = config.WithConfigFile(configPath)

	if err == nil {
		t.Fatal("expected error for empty config without seedUrls, got nil")
	}

	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got: %v", err)
	}
}

// Note: Zero values in JSON with `omitempty` tags are omitted during marshaling,
// so they cannot override defaults. To set zero values, users must either:
// 1. Modify the Config struct after loading, or
// 2. Use a pointer type to distinguish between unset and zero values.

func completeConfigJson() string {
	return `
	{
    "seedUrls": [
        {
            "Scheme": "https",
            "Host": "my-documentation.com",
            "Path": "/docs"
        },
        {
            "Scheme": "http",
            "Host": "my-other-documentation.com",
            "Path": "/docs"
        }
    ],
    "cooldownSeconds": 15,
    "robotsCacheTTL": 259200000000000,
    "recencyWindow": 3600000000000,
    "jitter": 1000000000,
    "randomSeed": 42,
    "maxAttempt": 15,
    "backoffInitialDuration": 200000000,
    "backoffMultiplier": 2.5,
    "backoffMaxDuration": 20000000000,
    "timeout": 30000000000,
    "userAgent": "TestBot/1.0",
    "selectorConcurrent": 20,
    "redisUri": "redis://cache:6379",
    "useAmqpBroker": true
}
	`
}
