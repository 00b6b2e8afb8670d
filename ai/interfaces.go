package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
//
// Ingestion and retrieval must use the same embedder for a given collection,
// otherwise similarity scores between queries and stored chunks are meaningless.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Analyst performs one domain-expert reasoning call.
// Implementations must be thread-safe for concurrent use.
type Analyst interface {
	// Analyze runs the reasoning service with the stage's instructions, the
	// accumulated run context, and retrieved policy evidence, and parses the
	// structured response.
	//
	// Returns ErrMalformedResponse (possibly wrapped) when the service answers
	// but its output cannot be parsed into a StageResponse. Returns a
	// TransientError for failures worth retrying (timeouts, rate limits).
	Analyze(ctx context.Context, req StageRequest) (*StageResponse, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and Analyst
// instances, ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Analyst returns the reasoning service.
	// The returned Analyst is safe for concurrent use.
	Analyst() Analyst

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
