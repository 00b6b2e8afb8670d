package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	t.Run("plain text file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "policy.txt")
		require.NoError(t, os.WriteFile(path, []byte("Escalate within 24 hours."), 0644))

		text, err := ExtractText(path)
		require.NoError(t, err)
		assert.Equal(t, "Escalate within 24 hours.", text)
	})

	t.Run("markdown file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "policy.md")
		require.NoError(t, os.WriteFile(path, []byte("# Refund Policy\n\nManager approval required."), 0644))

		text, err := ExtractText(path)
		require.NoError(t, err)
		assert.Contains(t, text, "Manager approval required.")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := ExtractText("policy.docx")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ExtractText("/nonexistent/policy.txt")
		assert.Error(t, err)
	})
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fraud_rules.txt"), []byte("rule one"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skipme.bin"), []byte{0x1}, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	docs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "fraud_rules", docs[0].ID)
	assert.Equal(t, "rule one", docs[0].Text)
}
