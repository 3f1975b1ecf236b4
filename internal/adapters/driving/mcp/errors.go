// Package mcp exposes batchwriter over the Model Context Protocol so an AI
// assistant can prepare topics, start a batch and follow its results.
package mcp

import "errors"

var (
	// ErrMissingWorkspace is returned when the topic workspace is not provided.
	ErrMissingWorkspace = errors.New("mcp: topic workspace is required")

	// ErrMissingOrchestrator is returned when the job orchestrator is not provided.
	ErrMissingOrchestrator = errors.New("mcp: job orchestrator is required")
)
