// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

// JobEvent carries an orchestrator notification into the program.
type JobEvent struct {
	Event domain.JobEvent
}

// Terminal reports whether the event ends observation of the job.
func (m JobEvent) Terminal() bool {
	return m.Event.Kind == domain.EventCompleted || m.Event.Kind == domain.EventLost
}

// RetryFinished is sent when a retry request returns.
type RetryFinished struct {
	Topic string
	Err   error
}

// ErrorOccurred reports an error to display.
type ErrorOccurred struct {
	Err error
}
