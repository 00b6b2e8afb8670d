package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/advisor/ai/mock"
	"github.com/finsight/advisor/core"
	"github.com/finsight/advisor/storage"
	"github.com/finsight/advisor/storage/badger"
)

func setupPipeline(t *testing.T, opts ...Option) (*Pipeline, storage.ChunkRepository, func()) {
	t.Helper()

	repo, backend, err := badger.NewMemoryChunkRepository()
	require.NoError(t, err)

	pipeline, err := NewPipeline(repo, mock.NewMockProvider(), opts...)
	require.NoError(t, err)

	cleanup := func() {
		pipeline.Release()
		repo.Close()
		backend.Close()
	}
	return pipeline, repo, cleanup
}

func TestNewPipeline(t *testing.T) {
	t.Run("requires chunk repository", func(t *testing.T) {
		_, err := NewPipeline(nil, mock.NewMockProvider())
		assert.ErrorIs(t, err, ErrChunkRepositoryRequired)
	})

	t.Run("requires provider", func(t *testing.T) {
		repo, backend, err := badger.NewMemoryChunkRepository()
		require.NoError(t, err)
		defer backend.Close()
		defer repo.Close()

		_, err = NewPipeline(repo, nil)
		assert.ErrorIs(t, err, ErrAIProviderRequired)
	})

	t.Run("rejects invalid chunk size", func(t *testing.T) {
		repo, backend, err := badger.NewMemoryChunkRepository()
		require.NoError(t, err)
		defer backend.Close()
		defer repo.Close()

		_, err = NewPipeline(repo, mock.NewMockProvider(), WithChunkSize(0))
		assert.Error(t, err)
	})
}

func TestIngestDocument(t *testing.T) {
	ctx := context.Background()

	doc := core.PolicyDocument{
		ID: "fraud_detection_guide",
		Text: "Velocity checks flag accounts with more than five transfers per hour.\n\n" +
			"Transfers to new counterparties above $10,000 require manual review.\n\n" +
			strings.Repeat("Additional screening guidance. ", 60),
	}

	t.Run("stores embedded chunks", func(t *testing.T) {
		pipeline, repo, cleanup := setupPipeline(t, WithChunkSize(400), WithChunkOverlap(80))
		defer cleanup()

		inserted, err := pipeline.IngestDocument(ctx, TopicFraudDetection, doc)
		require.NoError(t, err)
		assert.Greater(t, inserted, 0)

		count, err := repo.CountChunks(ctx, TopicFraudDetection)
		require.NoError(t, err)
		assert.Equal(t, inserted, count)

		chunks, err := repo.TopicChunks(ctx, TopicFraudDetection)
		require.NoError(t, err)
		for _, chunk := range chunks {
			assert.NotEmpty(t, chunk.Vector)
			assert.False(t, chunk.IngestedAt.IsZero())
		}
	})

	t.Run("re-ingestion inserts nothing", func(t *testing.T) {
		pipeline, repo, cleanup := setupPipeline(t, WithChunkSize(400), WithChunkOverlap(80))
		defer cleanup()

		first, err := pipeline.IngestDocument(ctx, TopicFraudDetection, doc)
		require.NoError(t, err)
		require.Greater(t, first, 0)

		second, err := pipeline.IngestDocument(ctx, TopicFraudDetection, doc)
		require.NoError(t, err)
		assert.Equal(t, 0, second)

		count, err := repo.CountChunks(ctx, TopicFraudDetection)
		require.NoError(t, err)
		assert.Equal(t, first, count)
	})

	t.Run("empty document rejected", func(t *testing.T) {
		pipeline, _, cleanup := setupPipeline(t)
		defer cleanup()

		_, err := pipeline.IngestDocument(ctx, TopicCompliance, core.PolicyDocument{ID: "empty"})
		assert.ErrorIs(t, err, ErrEmptyDocument)
	})

	t.Run("empty topic rejected", func(t *testing.T) {
		pipeline, _, cleanup := setupPipeline(t)
		defer cleanup()

		_, err := pipeline.IngestDocument(ctx, "", doc)
		assert.ErrorIs(t, err, core.ErrEmptyTopic)
	})

	t.Run("topics are isolated", func(t *testing.T) {
		pipeline, repo, cleanup := setupPipeline(t)
		defer cleanup()

		loanDoc := core.PolicyDocument{
			ID:   "loan_policy_manual",
			Text: "Unsecured loans require a minimum credit score of 650.",
		}

		_, err := pipeline.IngestDocument(ctx, TopicFraudDetection, doc)
		require.NoError(t, err)
		_, err = pipeline.IngestDocument(ctx, TopicLoanPolicies, loanDoc)
		require.NoError(t, err)

		loanChunks, err := repo.TopicChunks(ctx, TopicLoanPolicies)
		require.NoError(t, err)
		require.Len(t, loanChunks, 1)
		assert.Equal(t, "loan_policy_manual", loanChunks[0].DocumentID)
	})
}

func TestIngestDir(t *testing.T) {
	ctx := context.Background()

	t.Run("ingests supported files by inferred topic", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "fraud_rules.txt", "Flag rapid transfers.\n\nWatch new counterparties.")
		writeFile(t, dir, "loan_policy.md", "Minimum credit score is 650.")
		writeFile(t, dir, "notes.xyz", "ignored")
		writeFile(t, dir, "untitled.txt", "no topic keyword here")

		pipeline, repo, cleanup := setupPipeline(t)
		defer cleanup()

		inserted, err := pipeline.IngestDir(ctx, dir)
		require.NoError(t, err)
		assert.Equal(t, 2, inserted)

		topics, err := repo.Topics(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{TopicFraudDetection, TopicLoanPolicies}, topics)
	})

	t.Run("missing directory", func(t *testing.T) {
		pipeline, _, cleanup := setupPipeline(t)
		defer cleanup()

		_, err := pipeline.IngestDir(ctx, "/nonexistent/path")
		assert.Error(t, err)
	})
}

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644))
}
