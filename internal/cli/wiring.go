package cmd

import (
	"context"
	"fmt"
	"net"
	"strconv"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rohmanhakim/docs-crawler/internal/config"
	"github.com/rohmanhakim/docs-crawler/internal/crawler"
	"github.com/rohmanhakim/docs-crawler/internal/embedclient"
	"github.com/rohmanhakim/docs-crawler/internal/extractor"
	"github.com/rohmanhakim/docs-crawler/internal/fetcher"
	"github.com/rohmanhakim/docs-crawler/internal/messaging"
	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/internal/pagestore"
	"github.com/rohmanhakim/docs-crawler/internal/politeness"
	"github.com/rohmanhakim/docs-crawler/internal/vectorstore"
	"github.com/rohmanhakim/docs-crawler/pkg/limiter"
	"github.com/rohmanhakim/docs-crawler/pkg/retry"
	"github.com/rohmanhakim/docs-crawler/pkg/timeutil"
)

// services bundles the real, network-backed dependencies a running
// docs-crawler process needs, built once at startup from cfg. Each
// subcommand (run/crawl/selector) assembles the subset it needs.
type services struct {
	sink       metadata.MetadataSink
	politeness crawler.Politeness
	pages      pagestore.Store
	vectors    vectorstore.Store
	embedder   embedclient.Client
	broker     messaging.Broker
	amqpConn   *amqp.Connection
}

// dialServices connects to every external store/broker named in cfg.
// Connection bindings themselves (Mongo, Qdrant, Redis, AMQP, the
// embeddings RPC) are the documented external contracts spec.md §1 treats
// as out of scope; this function only dials them the way
// original_source/utils/src/database.rs's init_* helpers do, adapted to
// Go's constructor + "call Connect/Dial once at startup" idiom.
func dialServices(ctx context.Context, cfg config.Config) (*services, error) {
	sink := metadata.NewStderrRecorder()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURI()})
	cooldownStore := politeness.NewRedisCooldownStore(redisClient)
	pol := politeness.New(sink, cfg.UserAgent(), cooldownStore, cfg.CooldownSeconds())

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoWriteURI()))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	pageStore := pagestore.NewMongoStore(mongoClient)
	if err := pageStore.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensuring mongo indexes: %w", err)
	}

	qdrantHost, qdrantPort, err := splitHostPort(cfg.QdrantWriteURI(), 6334)
	if err != nil {
		return nil, fmt.Errorf("parsing qdrant uri: %w", err)
	}
	qdrantClient, err := qdrant.NewClient(&qdrant.Config{Host: qdrantHost, Port: qdrantPort})
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}
	vectorStore := vectorstore.NewQdrantStore(qdrantClient)
	if err := vectorStore.EnsureCollection(ctx, cfg.VectorDim()); err != nil {
		return nil, fmt.Errorf("ensuring qdrant collection: %w", err)
	}

	embedConn, err := grpc.NewClient(cfg.EmbedderURI(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dialing embedder: %w", err)
	}
	embedder := embedclient.NewGRPCClient(embedConn)

	var broker messaging.Broker
	var amqpConn *amqp.Connection
	if cfg.UseAMQPBroker() {
		amqpConn, err = amqp.Dial(cfg.AMQPURI())
		if err != nil {
			return nil, fmt.Errorf("dialing amqp: %w", err)
		}
		ch, err := amqpConn.Channel()
		if err != nil {
			return nil, fmt.Errorf("opening amqp channel: %w", err)
		}
		broker = messaging.NewAMQPBroker(ch, cooldownStore, cfg.CooldownSeconds(), cfg.RandomSeed())
	} else {
		broker = messaging.NewMemoryBroker(cooldownStore, cfg.CooldownSeconds(), cfg.RandomSeed())
	}

	return &services{
		sink:       sink,
		politeness: &pol,
		pages:      pageStore,
		vectors:    vectorStore,
		embedder:   embedder,
		broker:     broker,
		amqpConn:   amqpConn,
	}, nil
}

// splitHostPort parses a "host:port" URI, falling back to defaultPort
// when the URI carries no port (e.g. a bare hostname).
func splitHostPort(uri string, defaultPort int) (string, int, error) {
	host, portStr, err := net.SplitHostPort(uri)
	if err != nil {
		return uri, defaultPort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port in %q: %w", uri, err)
	}
	return host, port, nil
}

// newCrawler assembles a crawler.Crawler from the dialed services plus
// the local, single-process pacing components (rate limiter, sleeper,
// retry policy, fetcher, extractor) spec.md §4.1/§5 describe as
// per-replica state rather than shared stores.
func newCrawler(cfg config.Config, svc *services) crawler.Crawler {
	rateLimiter := limiter.NewConcurrentRateLimiter()
	rateLimiter.SetBaseDelay(cfg.BaseDelay())
	rateLimiter.SetJitter(cfg.Jitter())
	rateLimiter.SetRandomSeed(cfg.RandomSeed())

	htmlFetcher := fetcher.NewHtmlFetcher(svc.sink)
	htmlFetcher.Init(crawler.NewDefaultHttpClient(cfg.Timeout()))
	domExtractor := extractor.NewDomExtractor(svc.sink)

	retryParam := retry.NewRetryParam(
		cfg.BaseDelay(),
		cfg.Jitter(),
		cfg.RandomSeed(),
		cfg.MaxAttempt(),
		timeutil.NewBackoffParam(cfg.BackoffInitialDuration(), cfg.BackoffMultiplier(), cfg.BackoffMaxDuration()),
	)

	return crawler.New(crawler.Deps{
		MetadataSink:  svc.sink,
		Politeness:    svc.politeness,
		Pages:         svc.pages,
		Vectors:       svc.vectors,
		Embedder:      svc.embedder,
		Broker:        svc.broker,
		HtmlFetcher:   &htmlFetcher,
		DomExtractor:  &domExtractor,
		RateLimiter:   rateLimiter,
		Sleeper:       timeutil.NewRealSleeper(),
		RetryParam:    retryParam,
		UserAgent:     cfg.UserAgent(),
		RecencyWindow: cfg.RecencyWindow(),
		VectorDim:     cfg.VectorDim(),
	})
}
