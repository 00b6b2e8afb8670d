package search

import (
	"context"
	"log/slog"
	"slices"

	"github.com/finsight/advisor/ai"
	"github.com/finsight/advisor/core"
	"github.com/finsight/advisor/storage"
)

const (
	// keywordWeight scales the keyword-overlap boost relative to
	// semantic similarity.
	keywordWeight = 0.3

	// candidateMultiplier widens the semantic candidate pool so the
	// keyword boost can promote chunks from below the top-k line.
	candidateMultiplier = 8
)

// Searcher provides hybrid retrieval over policy chunk collections.
type Searcher struct {
	chunks   storage.ChunkRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(chunks storage.ChunkRepository, provider ai.AIProvider, opts ...Option) (*Searcher, error) {
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		chunks:   chunks,
		embedder: provider.Embedder(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Query returns the top-k chunks for a topic ranked by combined score.
// An empty or unknown topic yields an empty result, not an error.
func (s *Searcher) Query(ctx context.Context, topic, text string, k int) ([]*core.RetrievedChunk, error) {
	return s.QueryWithMonitor(ctx, topic, text, k, nil)
}

// QueryWithMonitor is Query with per-stage callbacks.
func (s *Searcher) QueryWithMonitor(ctx context.Context, topic, text string, k int, monitor QueryMonitor) ([]*core.RetrievedChunk, error) {
	if k < 1 {
		return nil, ErrInvalidLimit
	}
	if monitor == nil {
		monitor = noopMonitor{}
	}
	monitor.Start(topic, text)

	if topic == "" {
		return []*core.RetrievedChunk{}, nil
	}

	embedding, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		s.logger.Error("error generating query embedding", "topic", topic, "err", err)
		return nil, err
	}

	// Wide candidate pool, no similarity floor: an empty collection is
	// a valid state and small collections should still fill k.
	candidates, err := s.chunks.FindSimilar(ctx, topic, embedding, -1, k*candidateMultiplier)
	if err != nil {
		s.logger.Error("error querying similar chunks", "topic", topic, "err", err)
		return nil, err
	}
	monitor.AfterSemanticSearch(candidates)

	queryTokens := tokenizeAndFilter(text)
	for _, candidate := range candidates {
		candidate.Keyword = keywordWeight * keywordOverlap(queryTokens, candidate.Chunk.Text)
		candidate.Score = candidate.Semantic + candidate.Keyword
	}

	slices.SortFunc(candidates, func(a, b *core.RetrievedChunk) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		// Earlier chunk wins on equal score
		return a.Chunk.Ordinal - b.Chunk.Ordinal
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	if candidates == nil {
		candidates = []*core.RetrievedChunk{}
	}

	monitor.Finish(candidates)
	return candidates, nil
}
