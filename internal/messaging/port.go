package messaging

import "context"

// Broker is the port every Messaging deployment (in-memory or AMQP)
// implements: publish fans discovered links out to per-domain queues;
// Next runs the spec.md §4.2 selection algorithm and delivers one URL.
// On delivery failure the caller must call Requeue to reinsert the
// message at the tail of its domain queue (at-least-once).
type Broker interface {
	// Publish appends msg to its domain's queue, creating the queue if
	// absent. Never rejects, never deduplicates.
	Publish(ctx context.Context, msg Message) error

	// Next selects one eligible domain (non-empty, non-cooling-down)
	// uniformly at random, pops its head message, and sets the domain's
	// cooldown marker. ok is false if no domain is currently eligible.
	Next(ctx context.Context) (msg Message, ok bool, err error)

	// Requeue reinserts msg at the tail of its domain queue. Called when
	// delivery to a subscriber fails (e.g. the subscriber disconnected).
	Requeue(ctx context.Context, msg Message) error
}
