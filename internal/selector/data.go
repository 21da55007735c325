package selector

/*
Selector - spec.md §4.3: drive the system forward by consuming Messaging
and invoking Crawler.

Two deployments satisfy the same fairness property (every non-cooling,
non-empty domain has positive probability of selection on every tick):
Loop, a bounded-semaphore dispatcher pulling from an in-process
messaging.Broker, and the ManagementAPILoop, which polls a RabbitMQ
deployment's HTTP management API directly instead of going through the
Broker abstraction (spec.md §4.3's "alternative deployment").
*/

// Stats holds counters for what one selector tick did. Loop and
// ManagementAPILoop do not fill it in, and nothing in the module reads it.
type Stats struct {
	Dispatched int
	Skipped    int
	Errored    int
}
