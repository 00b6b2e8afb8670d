package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://localhost:11434/v1", cfg.ReasoningHost)
		require.NoError(t, cfg.Validate())
	})

	t.Run("with host sets both", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://inference:9100/v1"))
		assert.Equal(t, "http://inference:9100/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://inference:9100/v1", cfg.ReasoningHost)
	})

	t.Run("separate hosts and models", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed:8080/v1"),
			WithReasoningHost("http://reason:8081/v1"),
			WithEmbeddingModel("text-embedding-3-small"),
			WithReasoningModel("gpt-4o-mini"),
		)
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://embed:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "gpt-4o-mini", cfg.ReasoningModel)
	})
}

func TestConfigNormalize(t *testing.T) {
	t.Run("appends v1 suffix", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://localhost:11434/v1", cfg.ReasoningHost)
	})

	t.Run("trailing slash trimmed first", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434/"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("missing embedding model", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingModel(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing reasoning model", func(t *testing.T) {
		cfg := NewConfig(WithReasoningModel(""))
		assert.Error(t, cfg.Validate())
	})
}

func TestTransientError(t *testing.T) {
	t.Run("nil passthrough", func(t *testing.T) {
		assert.NoError(t, Transient(nil))
	})

	t.Run("classification", func(t *testing.T) {
		err := Transient(assert.AnError)
		assert.True(t, IsTransient(err))
		assert.ErrorIs(t, err, assert.AnError)
		assert.False(t, IsTransient(assert.AnError))
	})
}
