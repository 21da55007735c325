package messaging

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rohmanhakim/docs-crawler/internal/politeness"
)

// AMQPBroker is the alternative deployment from spec.md §6: "per-domain
// durable queues named by host; message body = URL as UTF-8; publish with
// default persistence, consume with explicit ack/nack/reject." It
// satisfies the same Broker contract as MemoryBroker, and the same
// selection algorithm, but queue depth and membership live in RabbitMQ
// rather than process memory.
type AMQPBroker struct {
	ch              *amqp.Channel
	cooldown        politeness.CooldownStore
	cooldownSeconds int

	mu      sync.Mutex
	queues  map[string]bool // domain -> queue declared this process
	rng     *rand.Rand
	rngMu   sync.Mutex
}

func NewAMQPBroker(ch *amqp.Channel, cooldownStore politeness.CooldownStore, cooldownSeconds int, randomSeed int64) *AMQPBroker {
	return &AMQPBroker{
		ch:              ch,
		cooldown:        cooldownStore,
		cooldownSeconds: cooldownSeconds,
		queues:          make(map[string]bool),
		rng:             rand.New(rand.NewSource(randomSeed)),
	}
}

func queueName(domain string) string {
	return "crawl." + domain
}

func (b *AMQPBroker) ensureQueue(domain string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.queues[domain] {
		return nil
	}
	_, err := b.ch.QueueDeclare(queueName(domain), true, false, false, false, nil)
	if err != nil {
		return err
	}
	b.queues[domain] = true
	return nil
}

func (b *AMQPBroker) knownDomains() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	domains := make([]string, 0, len(b.queues))
	for d := range b.queues {
		domains = append(domains, d)
	}
	return domains
}

func (b *AMQPBroker) Publish(ctx context.Context, msg Message) error {
	if err := b.ensureQueue(msg.Domain); err != nil {
		return &MessagingError{Cause: ErrCausePublishFailure, Err: err}
	}

	err := b.ch.PublishWithContext(ctx, "", queueName(msg.Domain), false, false, amqp.Publishing{
		ContentType:  "text/plain",
		DeliveryMode: amqp.Persistent,
		Body:         []byte(msg.URL),
	})
	if err != nil {
		return &MessagingError{Cause: ErrCausePublishFailure, Err: err}
	}
	return nil
}

// Next implements spec.md §4.2's selection over AMQP: take the domains
// this broker has published to (queues declared by other processes are
// not seen), filter to non-empty via QueueInspect, multi-get cooldowns,
// pick one uniformly at random, basic_get one message, ack it, set the
// cooldown marker, and return it.
func (b *AMQPBroker) Next(ctx context.Context) (Message, bool, error) {
	domains := b.knownDomains()
	if len(domains) == 0 {
		return Message{}, false, nil
	}

	nonEmpty := make([]string, 0, len(domains))
	for _, d := range domains {
		q, err := b.ch.QueueInspect(queueName(d))
		if err != nil {
			continue // queue vanished (e.g. deleted by GC); skip
		}
		if q.Messages > 0 {
			nonEmpty = append(nonEmpty, d)
		}
	}
	if len(nonEmpty) == 0 {
		return Message{}, false, nil
	}

	cooling, err := b.cooldown.CoolingDomains(ctx, nonEmpty)
	if err != nil {
		return Message{}, false, &MessagingError{Cause: ErrCauseCooldownLookup, Err: err}
	}

	eligible := make([]string, 0, len(nonEmpty))
	for _, d := range nonEmpty {
		if !cooling[d] {
			eligible = append(eligible, d)
		}
	}
	if len(eligible) == 0 {
		return Message{}, false, nil
	}

	domain := b.pickUniform(eligible)

	delivery, ok, err := b.ch.Get(queueName(domain), false)
	if err != nil {
		return Message{}, false, &MessagingError{Cause: ErrCauseConsumeFailure, Err: err}
	}
	if !ok {
		return Message{}, false, nil
	}
	if err := delivery.Ack(false); err != nil {
		return Message{}, false, &MessagingError{Cause: ErrCauseConsumeFailure, Err: fmt.Errorf("ack failed: %w", err)}
	}

	if err := b.cooldown.SetCooldown(ctx, domain, time.Duration(b.cooldownSeconds)*time.Second); err != nil {
		return Message{}, false, &MessagingError{Cause: ErrCauseCooldownSet, Err: err}
	}

	return Message{Domain: domain, URL: string(delivery.Body)}, true, nil
}

// Requeue republishes msg at the tail of its domain queue. AMQP has no
// native "push to front", so at-least-once redelivery here means tail
// reinsertion, matching spec.md §5's "reinsert the URL at the tail".
func (b *AMQPBroker) Requeue(ctx context.Context, msg Message) error {
	return b.Publish(ctx, msg)
}

func (b *AMQPBroker) pickUniform(domains []string) string {
	b.rngMu.Lock()
	defer b.rngMu.Unlock()
	return domains[b.rng.Intn(len(domains))]
}
