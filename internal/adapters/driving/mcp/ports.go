package mcp

import (
	"github.com/custodia-labs/batchwriter/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server calls into.
type Ports struct {
	// Workspace holds the topics of the next batch.
	Workspace driving.TopicWorkspace

	// Orchestrator submits and follows jobs.
	Orchestrator driving.JobOrchestrator

	// Resolver attaches images to topics. Optional; without it topics
	// carrying an image are rejected.
	Resolver driving.AttachmentResolver

	// History lists finished jobs. Optional.
	History driving.HistoryService

	// Artifacts reads generated articles. Optional.
	Artifacts driving.ArtifactService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Workspace == nil {
		return ErrMissingWorkspace
	}
	if p.Orchestrator == nil {
		return ErrMissingOrchestrator
	}
	return nil
}
