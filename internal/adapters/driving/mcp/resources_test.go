package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

func TestExtractJobID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid history URI",
			uri:      "batchwriter://history/job-42",
			expected: "job-42",
		},
		{
			name:     "invalid prefix",
			uri:      "file://history/job-42",
			expected: "",
		},
		{
			name:     "nested path",
			uri:      "batchwriter://history/job-42/extra",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJobID(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func sampleRecords() []domain.JobRecord {
	finished := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	return []domain.JobRecord{
		{JobID: "job-2", FinishedAt: finished, Outcome: domain.OutcomeCompleted, Total: 2, Succeeded: 2},
		{JobID: "job-1", FinishedAt: finished.Add(-time.Hour), Outcome: domain.OutcomeLost, Total: 1},
	}
}

func TestServer_handleJobResource(t *testing.T) {
	orch := &mockOrchestrator{view: domain.LedgerView{
		JobID:  "job-3",
		Status: domain.JobStatusCompleted,
		Total:  1,
		Errors: []domain.TopicError{{Topic: "alpha", ErrorMessage: "timeout"}},
	}}
	server := newTestServer(t, &Ports{Workspace: newWorkspace(5), Orchestrator: orch})

	result, err := server.handleJobResource(context.Background(), makeReadResourceRequest("batchwriter://job"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.Contains(t, result.Contents[0].Text, `"job_id": "job-3"`)
	assert.Contains(t, result.Contents[0].Text, `"error": "timeout"`)
}

func TestServer_handleHistoryResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil history service returns empty list", func(t *testing.T) {
		server := newTestServer(t, &Ports{Workspace: newWorkspace(5), Orchestrator: &mockOrchestrator{}})

		result, err := server.handleHistoryResource(ctx, makeReadResourceRequest("batchwriter://history"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns records", func(t *testing.T) {
		history := &mockHistoryService{records: sampleRecords()}
		server := newTestServer(t, &Ports{
			Workspace:    newWorkspace(5),
			Orchestrator: &mockOrchestrator{},
			History:      history,
		})

		result, err := server.handleHistoryResource(ctx, makeReadResourceRequest("batchwriter://history"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, `"job_id": "job-2"`)
		assert.Contains(t, result.Contents[0].Text, `"outcome": "lost"`)
		assert.Contains(t, result.Contents[0].Text, `"finished_at": "2026-05-01T10:00:00Z"`)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		history := &mockHistoryService{err: errors.New("database error")}
		server := newTestServer(t, &Ports{
			Workspace:    newWorkspace(5),
			Orchestrator: &mockOrchestrator{},
			History:      history,
		})

		_, err := server.handleHistoryResource(ctx, makeReadResourceRequest("batchwriter://history"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing history")
	})
}

func TestServer_handleHistoryJobResource(t *testing.T) {
	ctx := context.Background()
	history := &mockHistoryService{records: sampleRecords()}
	server := newTestServer(t, &Ports{
		Workspace:    newWorkspace(5),
		Orchestrator: &mockOrchestrator{},
		History:      history,
	})

	t.Run("finds record", func(t *testing.T) {
		result, err := server.handleHistoryJobResource(ctx, makeReadResourceRequest("batchwriter://history/job-1"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, `"job_id": "job-1"`)
		assert.NotContains(t, result.Contents[0].Text, "job-2")
		assert.Equal(t, domain.DefaultHistoryRetention, history.limits[len(history.limits)-1])
	})

	t.Run("unknown job", func(t *testing.T) {
		_, err := server.handleHistoryJobResource(ctx, makeReadResourceRequest("batchwriter://history/job-9"))
		assert.Error(t, err)
	})

	t.Run("malformed URI", func(t *testing.T) {
		_, err := server.handleHistoryJobResource(ctx, makeReadResourceRequest("batchwriter://history/"))
		assert.Error(t, err)
	})
}

func TestServer_handleArticlesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists documents", func(t *testing.T) {
		artifacts := &mockArtifacts{listing: []domain.ArtifactInfo{
			{Filename: "Go_generics.docx", Title: "Go generics", Size: 2048, CreatedAt: time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)},
			{Filename: "untitled.docx", Size: 10},
		}}
		server := newTestServer(t, &Ports{Workspace: newWorkspace(5), Orchestrator: &mockOrchestrator{}, Artifacts: artifacts})

		result, err := server.handleArticlesResource(ctx, makeReadResourceRequest("batchwriter://articles"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		text := result.Contents[0].Text
		assert.Contains(t, text, `"filename": "Go_generics.docx"`)
		assert.Contains(t, text, `"size": 2048`)
		assert.Contains(t, text, `"created_at": "2026-03-04T09:30:00Z"`)
		assert.Contains(t, text, `"filename": "untitled.docx"`)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		artifacts := &mockArtifacts{listErr: errors.New("listing articles: connection refused")}
		server := newTestServer(t, &Ports{Workspace: newWorkspace(5), Orchestrator: &mockOrchestrator{}, Artifacts: artifacts})

		_, err := server.handleArticlesResource(ctx, makeReadResourceRequest("batchwriter://articles"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}
