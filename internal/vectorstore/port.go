package vectorstore

import "context"

// Store is the port the Crawler depends on for spec.md §4.1 step 8's
// vector upsert. Failures here are logged and non-fatal to the crawl
// (§4.1: "Failures here are logged and non-fatal"), so the Crawler
// chooses whether to surface them, not this package.
type Store interface {
	// EnsureCollection creates the collection (cosine distance, the
	// configured vector dim) if it does not already exist.
	EnsureCollection(ctx context.Context, dim int) error

	// Upsert writes or overwrites the vector point for p.ID.
	Upsert(ctx context.Context, p Point) error
}
