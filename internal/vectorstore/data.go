package vectorstore

/*
Vector store - spec.md §3's Vector point entity.

Collection "pages" (shared name with the document store, distinct
database), cosine distance, dim configured at init
(original_source/utils/src/database.rs's init_qdrant: VectorParams{size,
distance: Cosine}). Point id = Page.uuid (string), payload = {url,
title?}.
*/

const CollectionName = "pages"

// Point is the upsert input: id is Page.uuid, vector is the embedding,
// title is optional per spec.md §3's payload.
type Point struct {
	ID     string
	Vector []float32
	URL    string
	Title  string
}
