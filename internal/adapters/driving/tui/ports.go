// Package tui provides the interactive job progress view for batchwriter.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/batchwriter/internal/core/ports/driven"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driving"
)

// EventSource accepts a sink for orchestrator notifications.
type EventSource interface {
	SetEventSink(sink driven.EventSink)
}

// Ports aggregates the services the TUI needs.
type Ports struct {
	// Orchestrator observes the job and handles retries and discards.
	Orchestrator driving.JobOrchestrator

	// Events delivers live notifications. Without it the view only
	// refreshes on key presses.
	Events EventSource
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Orchestrator == nil {
		return ErrMissingOrchestrator
	}
	return nil
}
