package pagestore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is the Store adapter backing Page persistence with MongoDB,
// grounded on original_source/utils/src/database.rs's Page/PagesCollConf
// (database "crawler", collection "pages", unique index on url) and
// original_source/crawler-service/src/core.rs's find_one_and_update
// upsert (SetOnInsert{first,uuid} + Set{last,sha256}, hinted on the url
// index, ReturnDocument::After).
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore wraps an already-connected client. EnsureIndexes should be
// called once at startup to create the unique url index (spec.md §3's
// document-store schema).
func NewMongoStore(client *mongo.Client) *MongoStore {
	return &MongoStore{coll: client.Database(DatabaseName).Collection(CollectionName)}
}

// EnsureIndexes creates the unique index on url and the non-unique
// indexes on first/last/sha256 spec.md §6 lists for the pages collection.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "url", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "first", Value: 1}}},
		{Keys: bson.D{{Key: "last", Value: 1}}},
		{Keys: bson.D{{Key: "sha256", Value: 1}}},
	})
	if err != nil {
		return &PageStoreError{Cause: ErrCauseUpsertFailure, Err: err}
	}
	return nil
}

func (s *MongoStore) Upsert(ctx context.Context, url string, sha256 string) (UpsertResult, error) {
	now := time.Now().UTC()
	candidateUUID := uuid.NewString()

	filter := bson.M{"url": url}
	update := bson.M{
		"$setOnInsert": bson.M{
			"first": now,
			"uuid":  candidateUUID,
		},
		"$set": bson.M{
			"last":   now,
			"sha256": sha256,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetHint(bson.D{{Key: "url", Value: 1}})

	var stored Page
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	if err != nil {
		return UpsertResult{}, &PageStoreError{Cause: ErrCauseUpsertFailure, Err: err}
	}
	if stored.UUID == "" {
		return UpsertResult{}, &PageStoreError{Cause: ErrCauseMissingUUID}
	}

	return UpsertResult{
		UUID:      stored.UUID,
		Inserted:  stored.UUID == candidateUUID,
		FirstSeen: stored.First,
		LastSeen:  stored.Last,
	}, nil
}

func (s *MongoStore) RecentlySeen(ctx context.Context, url string, window time.Duration) (bool, error) {
	cutoff := time.Now().UTC().Add(-window)
	filter := bson.M{"url": url, "last": bson.M{"$gte": cutoff}}

	count, err := s.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, &PageStoreError{Cause: ErrCauseQueryFailure, Err: err}
	}
	return count > 0, nil
}
