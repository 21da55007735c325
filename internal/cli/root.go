package cmd

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/build"
	"github.com/rohmanhakim/docs-crawler/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile            string
	seedURLs           []string
	userAgent          string
	timeout            time.Duration
	baseDelay          time.Duration
	jitter             time.Duration
	randomSeed         int64
	cooldownSeconds    int
	robotsCacheTTL     time.Duration
	recencyWindow      time.Duration
	selectorConcurrent int
	redisURI           string
	mongoReadURI       string
	mongoWriteURI      string
	qdrantReadURI      string
	qdrantWriteURI     string
	amqpURI            string
	messagingURI       string
	crawlerURI         string
	embedderURI        string
	vectorDim          int
	rabbitMQAPIURL     string
	amqpUser           string
	amqpPassword       string
	useAMQPBroker      bool
)

// parseSeedURLs converts a string slice of URLs to []url.URL.
func parseSeedURLs(urlStrings []string) ([]url.URL, error) {
	var urls []url.URL
	for _, urlStr := range urlStrings {
		parsedURL, err := url.Parse(urlStr)
		if err != nil {
			return nil, fmt.Errorf("error parsing seed URL %s: %w", urlStr, err)
		}
		urls = append(urls, *parsedURL)
	}
	return urls, nil
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "docs-crawler",
	Short: "A distributed web-crawling and semantic-indexing pipeline.",
	Long: `docs-crawler drives the Frontier/Messaging/Selector/Crawler pipeline
described by the crawl(url) algorithm: robots and recency gates, a single
fetch, DOM extraction, idempotent page and vector persistence, and
at-least-once link fan-out back onto the frontier.

Run "docs-crawler run" for a combined single-process deployment,
"docs-crawler selector" to run only the Selector against a remote Crawler
RPC endpoint, or "docs-crawler crawl --url <url>" to crawl one URL once.`,
	Version: build.FullVersion(),
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.json)")
	rootCmd.PersistentFlags().StringArrayVar(&seedURLs, "seed-url", []string{}, "one or more starting URLs to publish to the frontier (can be repeated)")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests and robots.txt evaluation")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "timeout for HTTP requests")
	rootCmd.PersistentFlags().DurationVar(&baseDelay, "base-delay", 0, "base delay between fetches to the same host")
	rootCmd.PersistentFlags().DurationVar(&jitter, "jitter", 0, "random jitter added to base delay")
	rootCmd.PersistentFlags().Int64Var(&randomSeed, "random-seed", 0, "seed for random number generation (0 for current time)")
	rootCmd.PersistentFlags().IntVar(&cooldownSeconds, "cooldown-seconds", 0, "per-domain cooldown duration after each dispatch")
	rootCmd.PersistentFlags().DurationVar(&robotsCacheTTL, "robots-cache-ttl", 0, "robots.txt cache TTL")
	rootCmd.PersistentFlags().DurationVar(&recencyWindow, "recency-window", 0, "skip a URL if it was crawled within this window")
	rootCmd.PersistentFlags().IntVar(&selectorConcurrent, "selector-concurrent", 0, "bounded concurrency for the Selector's dispatch loop")
	rootCmd.PersistentFlags().StringVar(&redisURI, "redis-uri", "", "Redis address backing the cooldown store")
	rootCmd.PersistentFlags().StringVar(&mongoReadURI, "mongo-read-uri", "", "MongoDB connection string for reads")
	rootCmd.PersistentFlags().StringVar(&mongoWriteURI, "mongo-write-uri", "", "MongoDB connection string for writes")
	rootCmd.PersistentFlags().StringVar(&qdrantReadURI, "qdrant-read-uri", "", "Qdrant address for reads")
	rootCmd.PersistentFlags().StringVar(&qdrantWriteURI, "qdrant-write-uri", "", "Qdrant address for writes")
	rootCmd.PersistentFlags().StringVar(&amqpURI, "amqp-uri", "", "AMQP URI backing the Messaging broker, when --use-amqp-broker is set")
	rootCmd.PersistentFlags().StringVar(&messagingURI, "messaging-uri", "", "Messaging RPC endpoint, for a split Crawler deployment")
	rootCmd.PersistentFlags().StringVar(&crawlerURI, "crawler-uri", "", "Crawler RPC endpoint, for a split Selector deployment")
	rootCmd.PersistentFlags().StringVar(&embedderURI, "embedder-uri", "", "embeddings RPC endpoint")
	rootCmd.PersistentFlags().IntVar(&vectorDim, "vector-dim", 0, "embedding vector dimensionality")
	rootCmd.PersistentFlags().StringVar(&rabbitMQAPIURL, "rabbitmq-api-url", "", "RabbitMQ HTTP management API base URL, for the management-API Selector deployment")
	rootCmd.PersistentFlags().StringVar(&amqpUser, "amqp-user", "", "RabbitMQ management API username")
	rootCmd.PersistentFlags().StringVar(&amqpPassword, "amqp-password", "", "RabbitMQ management API password")
	rootCmd.PersistentFlags().BoolVar(&useAMQPBroker, "use-amqp-broker", false, "back Messaging with RabbitMQ instead of the in-memory broker")
}

// InitConfig is InitConfigWithError, exiting the process on error.
func InitConfig(seedUrls []url.URL) config.Config {
	cfg, err := InitConfigWithError(seedUrls)
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	return cfg
}

// InitConfigWithError reads the config file named by --config-file if set;
// otherwise it builds the config from the command-line flags. Environment
// variables are not read. seedUrls may be empty — not every deployment
// primes the frontier from the command line.
func InitConfigWithError(seedUrls []url.URL) (config.Config, error) {
	if cfgFile != "" {
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	configBuilder := config.WithDefault(seedUrls)

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}
	if timeout > 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}
	if baseDelay > 0 {
		configBuilder = configBuilder.WithBaseDelay(baseDelay)
	}
	if jitter > 0 {
		configBuilder = configBuilder.WithJitter(jitter)
	}
	if randomSeed != 0 {
		configBuilder = configBuilder.WithRandomSeed(randomSeed)
	}
	if cooldownSeconds > 0 {
		configBuilder = configBuilder.WithCooldownSeconds(cooldownSeconds)
	}
	if robotsCacheTTL > 0 {
		configBuilder = configBuilder.WithRobotsCacheTTL(robotsCacheTTL)
	}
	if recencyWindow > 0 {
		configBuilder = configBuilder.WithRecencyWindow(recencyWindow)
	}
	if selectorConcurrent > 0 {
		configBuilder = configBuilder.WithSelectorConcurrent(selectorConcurrent)
	}
	if redisURI != "" {
		configBuilder = configBuilder.WithRedisURI(redisURI)
	}
	if mongoReadURI != "" {
		configBuilder = configBuilder.WithMongoReadURI(mongoReadURI)
	}
	if mongoWriteURI != "" {
		configBuilder = configBuilder.WithMongoWriteURI(mongoWriteURI)
	}
	if qdrantReadURI != "" {
		configBuilder = configBuilder.WithQdrantReadURI(qdrantReadURI)
	}
	if qdrantWriteURI != "" {
		configBuilder = configBuilder.WithQdrantWriteURI(qdrantWriteURI)
	}
	if amqpURI != "" {
		configBuilder = configBuilder.WithAMQPURI(amqpURI)
	}
	if messagingURI != "" {
		configBuilder = configBuilder.WithMessagingURI(messagingURI)
	}
	if crawlerURI != "" {
		configBuilder = configBuilder.WithCrawlerURI(crawlerURI)
	}
	if embedderURI != "" {
		configBuilder = configBuilder.WithEmbedderURI(embedderURI)
	}
	if vectorDim > 0 {
		configBuilder = configBuilder.WithVectorDim(vectorDim)
	}
	if rabbitMQAPIURL != "" {
		configBuilder = configBuilder.WithRabbitMQAPIURL(rabbitMQAPIURL)
	}
	if amqpUser != "" {
		configBuilder = configBuilder.WithAMQPUser(amqpUser)
	}
	if amqpPassword != "" {
		configBuilder = configBuilder.WithAMQPPassword(amqpPassword)
	}
	if useAMQPBroker {
		configBuilder = configBuilder.WithUseAMQPBroker(useAMQPBroker)
	}

	cfg, err := configBuilder.Build()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// ParseSeedURLsForTest exposes parseSeedURLs to internal/cli's external
// test package.
func ParseSeedURLsForTest(urlStrings []string) ([]url.URL, error) {
	return parseSeedURLs(urlStrings)
}

// Test helper functions to set flag values from tests, mirroring the
// pattern rootCmd's flag-backed globals already use.
func SetCooldownSecondsForTest(v int)    { cooldownSeconds = v }
func SetSelectorConcurrentForTest(v int) { selectorConcurrent = v }
func SetUseAMQPBrokerForTest(v bool)     { useAMQPBroker = v }
func SetRandomSeedForTest(v int64)       { randomSeed = v }
func SetUserAgentForTest(v string)       { userAgent = v }
func SetTimeoutForTest(v time.Duration)  { timeout = v }
func SetVectorDimForTest(v int)          { vectorDim = v }
func SetRedisURIForTest(v string)        { redisURI = v }

func ResetFlags() {
	cfgFile = ""
	seedURLs = []string{}
	userAgent = ""
	timeout = 0
	baseDelay = 0
	jitter = 0
	randomSeed = 0
	cooldownSeconds = 0
	robotsCacheTTL = 0
	recencyWindow = 0
	selectorConcurrent = 0
	redisURI = ""
	mongoReadURI = ""
	mongoWriteURI = ""
	qdrantReadURI = ""
	qdrantWriteURI = ""
	amqpURI = ""
	messagingURI = ""
	crawlerURI = ""
	embedderURI = ""
	vectorDim = 0
	rabbitMQAPIURL = ""
	amqpUser = ""
	amqpPassword = ""
	useAMQPBroker = false
}
