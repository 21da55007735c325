package politeness

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CooldownStore is the port for the cooldown half of Politeness: the KV
// key space `c:<domain>` (spec.md §6), set atomically with a TTL on
// dispatch and consulted by Messaging/Crawler before selecting a domain.
type CooldownStore interface {
	// SetCooldown atomically sets c:<domain> to a sentinel with the given
	// TTL, overwriting any existing marker.
	SetCooldown(ctx context.Context, domain string, ttl time.Duration) error

	// IsCoolingDown reports whether c:<domain> is currently present.
	IsCoolingDown(ctx context.Context, domain string) (bool, error)

	// CoolingDomains multi-gets c:<domain> for every domain in domains,
	// returning the subset currently cooling. This backs Messaging's
	// selection algorithm, which multi-gets cooldowns for every
	// non-empty queue in one round-trip.
	CoolingDomains(ctx context.Context, domains []string) (map[string]bool, error)
}

const cooldownKeyPrefix = "c:"

func cooldownKey(domain string) string { return cooldownKeyPrefix + domain }

// MemoryCooldownStore is an in-process CooldownStore, used for the
// single-replica in-memory deployment (no shared Redis). TTL expiry is
// evaluated lazily on read, matching the teacher's process-lifetime cache
// convention (see robots/cache.MemoryCache).
type MemoryCooldownStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
}

func NewMemoryCooldownStore() *MemoryCooldownStore {
	return &MemoryCooldownStore{expires: make(map[string]time.Time)}
}

func (s *MemoryCooldownStore) SetCooldown(_ context.Context, domain string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expires[cooldownKey(domain)] = time.Now().Add(ttl)
	return nil
}

func (s *MemoryCooldownStore) IsCoolingDown(_ context.Context, domain string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cooling(cooldownKey(domain)), nil
}

func (s *MemoryCooldownStore) CoolingDomains(_ context.Context, domains []string) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make(map[string]bool, len(domains))
	for _, d := range domains {
		if s.cooling(cooldownKey(d)) {
			result[d] = true
		}
	}
	return result, nil
}

// cooling must be called with s.mu held.
func (s *MemoryCooldownStore) cooling(key string) bool {
	exp, ok := s.expires[key]
	if !ok {
		return false
	}
	if time.Now().After(exp) {
		delete(s.expires, key)
		return false
	}
	return true
}

// RedisCooldownStore backs the cooldown key space with Redis `SET … EX`
// and `MGET`, shared across Crawler/Selector replicas per spec.md §5's
// "Cooldown/robots KV store: each operation is atomic at the KV layer".
type RedisCooldownStore struct {
	client *redis.Client
}

func NewRedisCooldownStore(client *redis.Client) *RedisCooldownStore {
	return &RedisCooldownStore{client: client}
}

func (s *RedisCooldownStore) SetCooldown(ctx context.Context, domain string, ttl time.Duration) error {
	return s.client.Set(ctx, cooldownKey(domain), "1", ttl).Err()
}

func (s *RedisCooldownStore) IsCoolingDown(ctx context.Context, domain string) (bool, error) {
	n, err := s.client.Exists(ctx, cooldownKey(domain)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisCooldownStore) CoolingDomains(ctx context.Context, domains []string) (map[string]bool, error) {
	if len(domains) == 0 {
		return map[string]bool{}, nil
	}
	keys := make([]string, len(domains))
	for i, d := range domains {
		keys[i] = cooldownKey(d)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	result := make(map[string]bool, len(domains))
	for i, v := range vals {
		if v != nil {
			result[domains[i]] = true
		}
	}
	return result, nil
}
