package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

func TestDownloadCmd_Use(t *testing.T) {
	assert.Equal(t, "download <filename>", downloadCmd.Use)
	assert.NotNil(t, downloadCmd.Flags().ShorthandLookup("o"))
}

func TestDownload_SavesArtifact(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()
	env.backend.artifacts["alpha.docx"] = "article body"
	dir := filepath.Join(t.TempDir(), "articles")

	out, err := executeCommand("download", "alpha.docx", "-o", dir)

	require.NoError(t, err)
	path := filepath.Join(dir, "alpha.docx")
	assert.Contains(t, out, "Saved "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "article body", string(data))
}

func TestDownload_Missing(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	dir := t.TempDir()

	_, err := executeCommand("download", "missing.docx", "-o", dir)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownload_RejectsPathNames(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("download", "../escape.docx", "-o", t.TempDir())

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
