package robots

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/internal/robots/cache"
)

/*
CachedRobot

Responsibilities

- Fetch robots.txt per host (through RobotsFetcher, which caches results)
- Map the fetched response to an evaluable ruleSet
- Decide `is_allowed(url)` using the longest-match Allow/Disallow rule

This is spec.md §4.4's Politeness.is_allowed, scoped to the robots half
of Politeness (cooldown lives in internal/politeness, which wraps this
type alongside a KV-backed cooldown marker).
*/

type CachedRobot struct {
	sink      metadata.MetadataSink
	userAgent string
	fetcher   *RobotsFetcher
}

// NewCachedRobot creates a robot bound to the given metadata sink. Call
// Init or InitWithCache before Decide.
func NewCachedRobot(sink metadata.MetadataSink) CachedRobot {
	return CachedRobot{sink: sink}
}

// Init configures the robot with a user-agent and an in-memory cache.
func (r *CachedRobot) Init(userAgent string) {
	r.InitWithCache(userAgent, cache.NewMemoryCache())
}

// InitWithCache configures the robot with a user-agent and a caller-supplied cache.
func (r *CachedRobot) InitWithCache(userAgent string, c cache.Cache) {
	r.userAgent = userAgent
	r.fetcher = NewRobotsFetcher(r.sink, userAgent, c)
}

// Decide evaluates u against the target host's robots.txt, fetching and
// caching it as needed. A transport failure fetching robots.txt surfaces
// as an error (the caller, Crawler, decides whether to skip or retry);
// an absent or empty robots.txt is treated as allow-all.
func (r *CachedRobot) Decide(u url.URL) (Decision, error) {
	scheme := u.Scheme
	if scheme == "" {
		scheme = "https"
	}
	hostname := u.Host

	result, fetchErr := r.fetcher.Fetch(context.Background(), scheme, hostname)
	if fetchErr != nil {
		r.sink.RecordError(
			time.Now(),
			"robots",
			"CachedRobot.Decide",
			mapRobotsErrorToMetadataCause(fetchErr),
			fetchErr.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, fmt.Sprintf("%v", u)),
				metadata.NewAttr(metadata.AttrDomain, hostname),
			},
		)
		return Decision{}, fetchErr
	}

	rs := MapResponseToRuleSet(result.Response, r.userAgent, result.FetchedAt)
	return evaluate(rs, u), nil
}

// evaluate applies the longest-prefix-match rule across Allow and
// Disallow rules. Ties are broken in favor of Allow, matching the
// conventional robots exclusion protocol extension used by major crawlers.
func evaluate(rs ruleSet, u url.URL) Decision {
	if !rs.hasGroups {
		return Decision{Url: u, Allowed: true, Reason: EmptyRuleSet}
	}
	if !rs.matchedGroup {
		return Decision{Url: u, Allowed: true, Reason: UserAgentNotMatched}
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	bestLen := -1
	allowed := true
	matched := false

	for _, rule := range rs.disallowRules {
		if matchesPath(rule.prefix, path) && len(rule.prefix) > bestLen {
			bestLen = len(rule.prefix)
			allowed = false
			matched = true
		}
	}
	for _, rule := range rs.allowRules {
		if matchesPath(rule.prefix, path) && len(rule.prefix) >= bestLen {
			bestLen = len(rule.prefix)
			allowed = true
			matched = true
		}
	}

	var delay time.Duration
	if rs.crawlDelay != nil {
		delay = *rs.crawlDelay
	}

	if !matched {
		return Decision{Url: u, Allowed: true, Reason: NoMatchingRules, CrawlDelay: delay}
	}

	reason := AllowedByRobots
	if !allowed {
		reason = DisallowedByRobots
	}
	return Decision{Url: u, Allowed: allowed, Reason: reason, CrawlDelay: delay}
}

// matchesPath implements robots.txt path-pattern matching: "*" matches
// any sequence, a trailing "$" anchors the match to the end of the path.
func matchesPath(pattern, path string) bool {
	anchored := strings.HasSuffix(pattern, "$")
	if anchored {
		pattern = pattern[:len(pattern)-1]
	}

	parts := strings.Split(pattern, "*")
	idx := 0
	for i, part := range parts {
		if part == "" {
			continue
		}
		pos := strings.Index(path[idx:], part)
		if pos == -1 {
			return false
		}
		if i == 0 && pos != 0 {
			return false
		}
		idx += pos + len(part)
	}

	if anchored && idx != len(path) {
		return false
	}
	return true
}
