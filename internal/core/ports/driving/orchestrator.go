package driving

import (
	"context"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

// JobOrchestrator submits a batch, polls it to completion and drives retries.
type JobOrchestrator interface {
	// Submit creates a job from the workspace and starts polling it.
	Submit(ctx context.Context) (string, error)

	// Resume picks up a persisted job handle, if any.
	Resume(ctx context.Context) (domain.ResumeOutcome, error)

	// Track starts observing an existing job ID without submitting.
	Track(ctx context.Context, jobID string) error

	// RetryTopic asks the backend to regenerate one failed topic of the
	// current job and makes sure it is being polled.
	RetryTopic(ctx context.Context, topic string) error

	// DiscardError hides one error from the ledger without contacting the backend.
	DiscardError(topic string) bool

	// Wait blocks until polling stops. Returns domain.ErrJobLost if the job was lost.
	Wait(ctx context.Context) error

	// Stop stops observing the current job. The remote job keeps running
	// and its handle stays persisted.
	Stop()

	// State returns the current orchestrator state.
	State() domain.OrchestratorState

	// Ledger returns a copy of the displayed results.
	Ledger() domain.LedgerView

	// RetryPending reports whether a retry request for topic is in flight.
	RetryPending(topic string) bool

	// LastOutcome returns how the most recent job ended.
	LastOutcome() domain.JobOutcome
}
