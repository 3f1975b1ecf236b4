package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

func TestArticlesCmd(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()
	env.backend.listing = []domain.ArtifactInfo{
		{Filename: "Go_generics.docx", Title: "Go generics", Size: 2048, CreatedAt: time.Date(2026, 3, 4, 9, 30, 0, 0, time.Local)},
		{Filename: "untitled.docx", Size: 500},
	}

	out, err := executeCommand("articles")

	require.NoError(t, err)
	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "CREATED")
	assert.Regexp(t, `Go_generics\.docx\s+Go generics\s+2\.0 kB\s+2026-03-04 09:30`, out)
	assert.Regexp(t, `untitled\.docx\s+-\s+500 B\s+-`, out)
}

func TestArticlesCmd_Limit(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()
	env.backend.listing = []domain.ArtifactInfo{
		{Filename: "new.docx"}, {Filename: "mid.docx"}, {Filename: "old.docx"},
	}

	out, err := executeCommand("articles", "-n", "2")

	require.NoError(t, err)
	assert.Contains(t, out, "new.docx")
	assert.Contains(t, out, "mid.docx")
	assert.NotContains(t, out, "old.docx")
}

func TestArticlesCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("articles")

	require.NoError(t, err)
	assert.Contains(t, out, "No articles on the server.")
}
