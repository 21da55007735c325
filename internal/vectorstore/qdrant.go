package vectorstore

import (
	"context"

	"github.com/qdrant/go-client/qdrant"
)

// QdrantStore is the Store adapter backing vector persistence with
// Qdrant, grounded on original_source/utils/src/database.rs's
// init_qdrant (CreateCollectionBuilder + VectorParams{size, distance:
// Cosine}, collection-exists check before create) and
// original_source/crawler-service/src/core.rs's PointStruct{id, vector,
// payload} upsert.
type QdrantStore struct {
	client *qdrant.Client
}

func NewQdrantStore(client *qdrant.Client) *QdrantStore {
	return &QdrantStore{client: client}
}

func (s *QdrantStore) EnsureCollection(ctx context.Context, dim int) error {
	exists, err := s.client.CollectionExists(ctx, CollectionName)
	if err != nil {
		return &VectorStoreError{Cause: ErrCauseCollectionSetup, Err: err}
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: CollectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dim),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return &VectorStoreError{Cause: ErrCauseCollectionSetup, Err: err}
	}
	return nil
}

func buildPayload(p Point) map[string]any {
	payload := map[string]any{"url": p.URL}
	if p.Title != "" {
		payload["title"] = p.Title
	}
	return payload
}

func (s *QdrantStore) Upsert(ctx context.Context, p Point) error {
	payload := buildPayload(p)

	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(p.ID),
		Vectors: qdrant.NewVectors(p.Vector...),
		Payload: qdrant.NewValueMap(payload),
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: CollectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return &VectorStoreError{Cause: ErrCauseUpsertFailure, Err: err}
	}
	return nil
}
