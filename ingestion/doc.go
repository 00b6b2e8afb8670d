// Package ingestion loads raw policy documents, splits them into
// overlapping chunks, computes embeddings, and stores the chunks into
// topic-scoped collections.
//
// Ingestion is idempotent: chunk identity derives from document ID and
// ordinal, so re-ingesting an unchanged document inserts nothing.
package ingestion
