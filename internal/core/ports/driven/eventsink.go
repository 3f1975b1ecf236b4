package driven

import "github.com/custodia-labs/batchwriter/internal/core/domain"

// EventSink receives orchestrator notifications.
// Publish is called from the polling goroutine and must not block for long.
type EventSink interface {
	Publish(event domain.JobEvent)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(domain.JobEvent)

// Publish calls f(event).
func (f EventSinkFunc) Publish(event domain.JobEvent) {
	f(event)
}
