package storage

import (
	"context"

	"github.com/finsight/advisor/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ChunkRepository provides operations for managing policy chunks.
type ChunkRepository interface {
	Repository

	// AddChunks adds one or more policy chunks to storage.
	// Chunks carry content-derived IDs (core.IDFromChunk), so re-adding a
	// chunk that already exists is a no-op: the stored copy is left intact.
	// Sets IngestedAt on newly stored chunks if not already set.
	// Returns the number of chunks actually inserted.
	AddChunks(ctx context.Context, chunks ...*core.PolicyChunk) (int, error)

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.PolicyChunk, error)

	// GetChunks retrieves multiple chunks by their IDs.
	// Returns only the chunks that exist (no error for missing chunks).
	GetChunks(ctx context.Context, ids ...core.ID) ([]*core.PolicyChunk, error)

	// ChunkExists reports whether a chunk with the given ID is stored.
	ChunkExists(ctx context.Context, id core.ID) (bool, error)

	// CountChunks returns the number of stored chunks for a topic.
	CountChunks(ctx context.Context, topic string) (int, error)

	// TopicChunks retrieves all chunks for a topic, ordered by document ID
	// and ordinal.
	TopicChunks(ctx context.Context, topic string) ([]*core.PolicyChunk, error)

	// Topics returns the distinct topics with at least one stored chunk,
	// in lexicographic order.
	Topics(ctx context.Context) ([]string, error)

	// FindSimilar finds chunks within a topic similar to the given vector.
	// Returns chunks with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, topic string, vector []float32, minSimilarity float32, limit int) ([]*core.RetrievedChunk, error)
}
