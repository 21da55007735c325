package pagestore

import "time"

/*
Page store - spec.md §3's Page entity, §4.5's dedup-aware upsert.

Collection "pages" in database "crawler" (grounded on
original_source/utils/src/database.rs's Page/PagesCollConf), unique index
on url, non-unique on first/last/sha256.
*/

const (
	DatabaseName   = "crawler"
	CollectionName = "pages"
)

// Page mirrors the Mongo document shape byte-for-byte with the original
// system's field names (url/first/last/sha256/uuid), so the collection is
// readable by either implementation.
type Page struct {
	URL     string    `bson:"url"`
	First   time.Time `bson:"first"`
	Last    time.Time `bson:"last"`
	SHA256  string    `bson:"sha256"`
	UUID    string    `bson:"uuid"`
}

// UpsertResult is what Upsert returns to the caller: the authoritative
// uuid (fresh on insert, preserved on update) plus whether this call
// created the record.
type UpsertResult struct {
	UUID      string
	Inserted  bool
	FirstSeen time.Time
	LastSeen  time.Time
}
