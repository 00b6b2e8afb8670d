package search

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/advisor/ai/mock"
	"github.com/finsight/advisor/core"
	"github.com/finsight/advisor/storage"
	"github.com/finsight/advisor/storage/badger"
)

func setupSearcher(t *testing.T, embedder *mock.MockEmbedder) (*Searcher, storage.ChunkRepository, func()) {
	t.Helper()

	repo, backend, err := badger.NewMemoryChunkRepository()
	require.NoError(t, err)

	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockAnalyst())
	searcher, err := NewSearcher(repo, provider)
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		backend.Close()
	}
	return searcher, repo, cleanup
}

func addChunk(t *testing.T, repo storage.ChunkRepository, topic string, ordinal int, text string, vector []float32) {
	t.Helper()
	chunk := &core.PolicyChunk{
		Id:         core.IDFromChunk("test_doc", ordinal),
		DocumentID: "test_doc",
		Topic:      topic,
		Ordinal:    ordinal,
		Text:       text,
		Vector:     vector,
	}
	_, err := repo.AddChunks(context.Background(), chunk)
	require.NoError(t, err)
}

// fixedEmbedder returns a constant vector for every input.
func fixedEmbedder(vector []float32) *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return vector, nil
	}
	return embedder
}

func TestNewSearcher(t *testing.T) {
	t.Run("requires chunk repository", func(t *testing.T) {
		_, err := NewSearcher(nil, mock.NewMockProvider())
		assert.ErrorIs(t, err, ErrChunkRepositoryRequired)
	})

	t.Run("requires provider", func(t *testing.T) {
		repo, backend, err := badger.NewMemoryChunkRepository()
		require.NoError(t, err)
		defer backend.Close()
		defer repo.Close()

		_, err = NewSearcher(repo, nil)
		assert.ErrorIs(t, err, ErrAIProviderRequired)
	})
}

func TestQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks by semantic similarity", func(t *testing.T) {
		searcher, repo, cleanup := setupSearcher(t, fixedEmbedder([]float32{1, 0, 0}))
		defer cleanup()

		addChunk(t, repo, "fraud_detection", 0, "velocity checks", []float32{0.9, 0.4, 0})
		addChunk(t, repo, "fraud_detection", 1, "counterparty screening", []float32{1, 0, 0})
		addChunk(t, repo, "fraud_detection", 2, "chargeback handling", []float32{0, 1, 0})

		results, err := searcher.Query(ctx, "fraud_detection", "unusual account activity", 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "counterparty screening", results[0].Chunk.Text)
		assert.Equal(t, "velocity checks", results[1].Chunk.Text)
	})

	t.Run("keyword overlap boosts ranking", func(t *testing.T) {
		searcher, repo, cleanup := setupSearcher(t, fixedEmbedder([]float32{1, 0, 0}))
		defer cleanup()

		// Equal semantic similarity; only keyword overlap differs.
		addChunk(t, repo, "loan_policies", 0, "general eligibility criteria", []float32{1, 0, 0})
		addChunk(t, repo, "loan_policies", 1, "mortgage refinance rate policy", []float32{1, 0, 0})

		results, err := searcher.Query(ctx, "loan_policies", "mortgage refinance rate", 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "mortgage refinance rate policy", results[0].Chunk.Text)
		assert.Greater(t, results[0].Keyword, float32(0))
		assert.Zero(t, results[1].Keyword)
	})

	t.Run("stemmed terms match", func(t *testing.T) {
		searcher, repo, cleanup := setupSearcher(t, fixedEmbedder([]float32{1, 0, 0}))
		defer cleanup()

		addChunk(t, repo, "transaction_monitoring", 0, "monitor large transaction transfers", []float32{1, 0, 0})

		results, err := searcher.Query(ctx, "transaction_monitoring", "monitoring transactions", 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Greater(t, results[0].Keyword, float32(0))
	})

	t.Run("ties break by ordinal", func(t *testing.T) {
		searcher, repo, cleanup := setupSearcher(t, fixedEmbedder([]float32{1, 0, 0}))
		defer cleanup()

		addChunk(t, repo, "compliance", 5, "identical text here", []float32{1, 0, 0})
		addChunk(t, repo, "compliance", 2, "identical text here", []float32{1, 0, 0})

		results, err := searcher.Query(ctx, "compliance", "completely unrelated query", 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, 2, results[0].Chunk.Ordinal)
		assert.Equal(t, 5, results[1].Chunk.Ordinal)
	})

	t.Run("returns at most k results", func(t *testing.T) {
		searcher, repo, cleanup := setupSearcher(t, fixedEmbedder([]float32{1, 0, 0}))
		defer cleanup()

		for i := 0; i < 10; i++ {
			addChunk(t, repo, "risk_assessment", i, "risk guidance", []float32{1, 0, 0})
		}

		results, err := searcher.Query(ctx, "risk_assessment", "risk", 3)
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("empty collection yields empty result", func(t *testing.T) {
		searcher, _, cleanup := setupSearcher(t, fixedEmbedder([]float32{1, 0, 0}))
		defer cleanup()

		results, err := searcher.Query(ctx, "customer_support", "refund policy", 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("empty topic yields empty result", func(t *testing.T) {
		searcher, _, cleanup := setupSearcher(t, fixedEmbedder([]float32{1, 0, 0}))
		defer cleanup()

		results, err := searcher.Query(ctx, "", "anything", 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("invalid limit rejected", func(t *testing.T) {
		searcher, _, cleanup := setupSearcher(t, fixedEmbedder([]float32{1, 0, 0}))
		defer cleanup()

		_, err := searcher.Query(ctx, "compliance", "kyc", 0)
		assert.ErrorIs(t, err, ErrInvalidLimit)
	})
}

// recordingMonitor captures every callback for assertions.
type recordingMonitor struct {
	startTopic string
	startQuery string
	candidates int
	results    []*core.RetrievedChunk
}

func (m *recordingMonitor) Start(topic, query string) {
	m.startTopic = topic
	m.startQuery = query
}

func (m *recordingMonitor) AfterSemanticSearch(candidates []*core.RetrievedChunk) {
	m.candidates = len(candidates)
}

func (m *recordingMonitor) Finish(results []*core.RetrievedChunk) {
	m.results = results
}

func TestQueryWithMonitor(t *testing.T) {
	ctx := context.Background()

	t.Run("monitor observes each retrieval stage", func(t *testing.T) {
		searcher, repo, cleanup := setupSearcher(t, fixedEmbedder([]float32{1, 0, 0}))
		defer cleanup()

		addChunk(t, repo, "fraud_detection", 0, "velocity checks", []float32{0.9, 0.4, 0})
		addChunk(t, repo, "fraud_detection", 1, "counterparty screening", []float32{1, 0, 0})
		addChunk(t, repo, "fraud_detection", 2, "chargeback handling", []float32{0, 1, 0})

		monitor := &recordingMonitor{}
		results, err := searcher.QueryWithMonitor(ctx, "fraud_detection", "unusual activity", 2, monitor)
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, "fraud_detection", monitor.startTopic)
		assert.Equal(t, "unusual activity", monitor.startQuery)
		assert.Equal(t, 3, monitor.candidates)
		assert.Equal(t, results, monitor.results)
	})

	t.Run("logging monitor satisfies the interface", func(t *testing.T) {
		var monitor QueryMonitor = &LoggingMonitor{Logger: slog.Default()}

		searcher, repo, cleanup := setupSearcher(t, fixedEmbedder([]float32{1, 0, 0}))
		defer cleanup()

		addChunk(t, repo, "compliance", 0, "kyc refresh cadence", []float32{1, 0, 0})

		results, err := searcher.QueryWithMonitor(ctx, "compliance", "kyc refresh", 1, monitor)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})
}

func TestTokenizeAndFilter(t *testing.T) {
	t.Run("removes stop words and punctuation", func(t *testing.T) {
		tokens := tokenizeAndFilter("What is the refund policy for wire transfers?")
		assert.NotContains(t, tokens, "what")
		assert.NotContains(t, tokens, "the")
		assert.Contains(t, tokens, "refund")
		assert.Contains(t, tokens, "transfer") // stemmed
	})

	t.Run("short words survive stemming", func(t *testing.T) {
		assert.Equal(t, "fee", stem("fees"))
		assert.Equal(t, "red", stem("red"))
	})
}

func TestKeywordOverlap(t *testing.T) {
	t.Run("proportional to matched tokens", func(t *testing.T) {
		tokens := tokenizeAndFilter("mortgage refinance rate")
		full := keywordOverlap(tokens, "mortgage refinance rate policy details")
		half := keywordOverlap(tokens, "mortgage eligibility only")
		none := keywordOverlap(tokens, "completely unrelated text")

		assert.InDelta(t, 1.0, full, 0.001)
		assert.Greater(t, full, half)
		assert.Greater(t, half, none)
		assert.Zero(t, none)
	})

	t.Run("empty query", func(t *testing.T) {
		assert.Zero(t, keywordOverlap(nil, "some text"))
	})
}
