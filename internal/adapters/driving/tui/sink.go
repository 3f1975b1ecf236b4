package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/batchwriter/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/batchwriter/internal/core/domain"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driven"
)

// Ensure EventSink implements the interface.
var _ driven.EventSink = (*EventSink)(nil)

// EventSink forwards orchestrator events into a running program.
type EventSink struct {
	send func(tea.Msg)
}

// NewEventSink creates a sink that sends to p.
func NewEventSink(p *tea.Program) *EventSink {
	return &EventSink{send: p.Send}
}

// Publish sends the event as a messages.JobEvent.
func (s *EventSink) Publish(event domain.JobEvent) {
	s.send(messages.JobEvent{Event: event})
}
