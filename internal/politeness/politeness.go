package politeness

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/internal/robots"
	"github.com/rohmanhakim/docs-crawler/internal/robots/cache"
)

/*
Politeness

Responsibilities (spec.md §4.4)

- is_allowed(url): robots.txt fetch-and-cache plus evaluation, delegated
  to robots.CachedRobot, which owns the `r:<domain>` cache entry.
- cooldown(domain, seconds): set `c:<domain>` with a TTL via CooldownStore.
  Called by Messaging on dispatch, and optionally by Crawler on terminal
  outcomes to extend a per-domain pause.

Politeness composes the two halves behind one port so Crawler/Messaging/
Selector depend on a single interface regardless of which KV backend
(in-memory or Redis) is configured.
*/

type Politeness struct {
	robot           robots.CachedRobot
	cooldown        CooldownStore
	cooldownSeconds int
}

// New builds a Politeness instance with an in-memory robots cache and the
// given CooldownStore. Use NewWithRobotsCache to share a cache across
// replicas (e.g. RedisCache).
func New(sink metadata.MetadataSink, userAgent string, cooldownStore CooldownStore, cooldownSeconds int) Politeness {
	return NewWithRobotsCache(sink, userAgent, cache.NewMemoryCache(), cooldownStore, cooldownSeconds)
}

// NewWithRobotsCache builds a Politeness instance with a caller-supplied
// robots cache (e.g. cache.RedisCache for the 30-day shared TTL).
func NewWithRobotsCache(sink metadata.MetadataSink, userAgent string, robotsCache cache.Cache, cooldownStore CooldownStore, cooldownSeconds int) Politeness {
	r := robots.NewCachedRobot(sink)
	r.InitWithCache(userAgent, robotsCache)
	return Politeness{robot: r, cooldown: cooldownStore, cooldownSeconds: cooldownSeconds}
}

// IsAllowed decides whether u may be crawled under the target host's
// robots.txt. A URL with no domain fails fast with a bad-input error; a
// robots-fetch transport failure surfaces as an error so the Crawler can
// decide whether to skip or retry (spec.md §4.4).
func (p *Politeness) IsAllowed(u url.URL) (bool, error) {
	if u.Hostname() == "" && u.Host == "" {
		return false, &PolitenessError{Cause: ErrCauseNoDomain, Err: fmt.Errorf("url %q has no domain", u.String())}
	}

	decision, err := p.robot.Decide(u)
	if err != nil {
		return false, &PolitenessError{Cause: ErrCauseRobotsDecide, Err: err}
	}
	return decision.Allowed, nil
}

// Cooldown sets a domain's cooldown marker with the configured default
// duration.
func (p *Politeness) Cooldown(ctx context.Context, domain string) error {
	return p.CooldownFor(ctx, domain, time.Duration(p.cooldownSeconds)*time.Second)
}

// CooldownFor sets a domain's cooldown marker with an explicit TTL,
// letting a caller (e.g. Crawler reacting to a 429) extend beyond the
// configured default.
func (p *Politeness) CooldownFor(ctx context.Context, domain string, ttl time.Duration) error {
	if err := p.cooldown.SetCooldown(ctx, domain, ttl); err != nil {
		return &PolitenessError{Cause: ErrCauseCooldownKV, Err: err}
	}
	return nil
}

// IsCoolingDown reports whether domain currently carries a cooldown
// marker.
func (p *Politeness) IsCoolingDown(ctx context.Context, domain string) (bool, error) {
	cooling, err := p.cooldown.IsCoolingDown(ctx, domain)
	if err != nil {
		return false, &PolitenessError{Cause: ErrCauseCooldownKV, Err: err}
	}
	return cooling, nil
}

// CoolingDomains multi-gets cooldown markers for every domain given,
// backing Messaging's selection algorithm (snapshot non-empty queues,
// multi-get cooldowns, pick uniformly among the rest).
func (p *Politeness) CoolingDomains(ctx context.Context, domains []string) (map[string]bool, error) {
	cooling, err := p.cooldown.CoolingDomains(ctx, domains)
	if err != nil {
		return nil, &PolitenessError{Cause: ErrCauseCooldownKV, Err: err}
	}
	return cooling, nil
}
