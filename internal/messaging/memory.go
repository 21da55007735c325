package messaging

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/frontier"
	"github.com/rohmanhakim/docs-crawler/internal/politeness"
)

// MemoryBroker is the in-process Broker: a map of per-domain FIFO queues
// guarded by a single mutex (spec.md §5: "Domain-queue map (Messaging):
// guarded by a single mutex. Critical sections are bounded to map
// mutation + one pop; KV round-trips happen without the mutex held").
// Cooldown state lives outside this type, in the politeness.CooldownStore
// it's constructed with, so Politeness and Messaging share one KV view.
type MemoryBroker struct {
	mu              sync.Mutex
	queues          map[string]*frontier.FIFOQueue[string]
	cooldown        politeness.CooldownStore
	cooldownSeconds int
	rng             *rand.Rand
	rngMu           sync.Mutex
}

// NewMemoryBroker builds a broker sharing cooldownStore with the
// Politeness component responsible for that domain's robots decisions.
func NewMemoryBroker(cooldownStore politeness.CooldownStore, cooldownSeconds int, randomSeed int64) *MemoryBroker {
	return &MemoryBroker{
		queues:          make(map[string]*frontier.FIFOQueue[string]),
		cooldown:        cooldownStore,
		cooldownSeconds: cooldownSeconds,
		rng:             rand.New(rand.NewSource(randomSeed)),
	}
}

func (b *MemoryBroker) Publish(_ context.Context, msg Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, ok := b.queues[msg.Domain]
	if !ok {
		q = frontier.NewFIFOQueue[string]()
		b.queues[msg.Domain] = q
	}
	q.Enqueue(msg.URL)
	return nil
}

// Next implements spec.md §4.2's selection algorithm: snapshot non-empty
// queues, multi-get their cooldowns (without the map mutex held), pick
// uniformly among the non-cooling ones, pop its head under the mutex,
// then set the domain's cooldown marker.
func (b *MemoryBroker) Next(ctx context.Context) (Message, bool, error) {
	domains := b.nonEmptyDomains()
	if len(domains) == 0 {
		return Message{}, false, nil
	}

	cooling, err := b.cooldown.CoolingDomains(ctx, domains)
	if err != nil {
		return Message{}, false, &MessagingError{Cause: ErrCauseCooldownLookup, Err: err}
	}

	eligible := make([]string, 0, len(domains))
	for _, d := range domains {
		if !cooling[d] {
			eligible = append(eligible, d)
		}
	}
	if len(eligible) == 0 {
		return Message{}, false, nil
	}

	domain := b.pickUniform(eligible)

	url, ok := b.popHead(domain)
	if !ok {
		// Another caller drained it between the snapshot and the pop;
		// not an error, just nothing delivered on this tick.
		return Message{}, false, nil
	}

	if err := b.cooldown.SetCooldown(ctx, domain, time.Duration(b.cooldownSeconds)*time.Second); err != nil {
		return Message{}, false, &MessagingError{Cause: ErrCauseCooldownSet, Err: err}
	}

	return Message{Domain: domain, URL: url}, true, nil
}

func (b *MemoryBroker) Requeue(_ context.Context, msg Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, ok := b.queues[msg.Domain]
	if !ok {
		q = frontier.NewFIFOQueue[string]()
		b.queues[msg.Domain] = q
	}
	q.Enqueue(msg.URL)
	return nil
}

func (b *MemoryBroker) nonEmptyDomains() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	domains := make([]string, 0, len(b.queues))
	for d, q := range b.queues {
		if q.Size() > 0 {
			domains = append(domains, d)
		}
	}
	return domains
}

func (b *MemoryBroker) popHead(domain string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, ok := b.queues[domain]
	if !ok {
		return "", false
	}
	url, ok := q.Dequeue()
	if !ok {
		return "", false
	}
	if q.Size() == 0 {
		delete(b.queues, domain)
	}
	return url, true
}

func (b *MemoryBroker) pickUniform(domains []string) string {
	b.rngMu.Lock()
	defer b.rngMu.Unlock()
	return domains[b.rng.Intn(len(domains))]
}
