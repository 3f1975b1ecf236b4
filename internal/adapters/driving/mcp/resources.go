package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

const (
	uriScheme = "batchwriter://"

	// historyLookback bounds how far back a single history record is searched.
	historyLookback = domain.DefaultHistoryRetention
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "job",
		Name:        "current-job",
		Description: "Progress and results of the job being followed",
		MIMEType:    "application/json",
	}, s.handleJobResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Recently finished jobs, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "history/{jobId}",
		Name:        "history-job",
		Description: "Summary of one finished job",
		MIMEType:    "application/json",
	}, s.handleHistoryJobResource)

	if s.ports.Artifacts != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "articles",
			Name:        "articles",
			Description: "Documents the server still holds, newest first",
			MIMEType:    "application/json",
		}, s.handleArticlesResource)
	}
}

// historyEntry is the JSON form of a job record.
type historyEntry struct {
	JobID       string `json:"job_id"`
	SubmittedAt string `json:"submitted_at,omitempty"`
	FinishedAt  string `json:"finished_at"`
	Outcome     string `json:"outcome"`
	Total       int    `json:"total"`
	Succeeded   int    `json:"succeeded"`
	Failed      int    `json:"failed"`
}

// articleEntry is the JSON form of a document held by the server.
type articleEntry struct {
	Filename  string `json:"filename"`
	Title     string `json:"title,omitempty"`
	Size      int64  `json:"size"`
	CreatedAt string `json:"created_at,omitempty"`
}

func newHistoryEntry(r domain.JobRecord) historyEntry {
	e := historyEntry{
		JobID:      r.JobID,
		FinishedAt: r.FinishedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Outcome:    string(r.Outcome),
		Total:      r.Total,
		Succeeded:  r.Succeeded,
		Failed:     r.Failed,
	}
	if !r.SubmittedAt.IsZero() {
		e.SubmittedAt = r.SubmittedAt.UTC().Format("2006-01-02T15:04:05Z")
	}
	return e
}

func (s *Server) handleJobResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.jobStatus())
}

func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return jsonResource(req.Params.URI, []historyEntry{})
	}

	records, err := s.ports.History.Recent(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}

	entries := make([]historyEntry, len(records))
	for i, r := range records {
		entries[i] = newHistoryEntry(r)
	}
	return jsonResource(req.Params.URI, entries)
}

func (s *Server) handleArticlesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	infos, err := s.ports.Artifacts.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	entries := make([]articleEntry, len(infos))
	for i, info := range infos {
		entries[i] = articleEntry{Filename: info.Filename, Title: info.Title, Size: info.Size}
		if !info.CreatedAt.IsZero() {
			entries[i].CreatedAt = info.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")
		}
	}
	return jsonResource(req.Params.URI, entries)
}

func (s *Server) handleHistoryJobResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	jobID := extractJobID(req.Params.URI)
	if jobID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	records, err := s.ports.History.Recent(ctx, historyLookback)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	for _, r := range records {
		if r.JobID == jobID {
			return jsonResource(req.Params.URI, newHistoryEntry(r))
		}
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractJobID extracts the job ID from a URI like batchwriter://history/{jobId}.
func extractJobID(uri string) string {
	const prefix = uriScheme + "history/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
