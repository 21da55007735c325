package pagestore

import (
	"context"
	"time"
)

// Store is the port the Crawler depends on for spec.md §4.1 step 6
// ("Persist page (idempotent upsert)") and §4.5's dedup-aware upsert
// contract. The page-store upsert always runs first and its returned
// uuid feeds the vector-store upsert.
type Store interface {
	// Upsert finds-or-creates the Page keyed by url: on insert, sets
	// first=last=now and a fresh uuid; on update, sets last=now and
	// sha256, preserving first and uuid. Returns the authoritative uuid.
	Upsert(ctx context.Context, url string, sha256 string) (UpsertResult, error)

	// RecentlySeen reports whether a Page with this url exists whose
	// last is within window of now, backing spec.md §4.1 step 2's
	// recency gate.
	RecentlySeen(ctx context.Context, url string, window time.Duration) (bool, error)
}
