package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driven"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driving"
	"github.com/custodia-labs/batchwriter/internal/logger"
)

// Ensure Orchestrator implements the interface.
var _ driving.JobOrchestrator = (*Orchestrator)(nil)

// DefaultPollInterval is the fixed delay between status polls.
const DefaultPollInterval = 2 * time.Second

// Orchestrator drives one batch job at a time through
// Idle -> Submitting -> Polling -> Idle.
//
// Polling runs in a single goroutine per job, so polls for a job never
// overlap. Each successful poll replaces the ledger with the backend's
// snapshot. A 404 ends the job as lost; any other poll error is logged and
// the same interval continues. There is no remote cancel: Stop only stops
// observing.
type Orchestrator struct {
	backend     driven.GenerationBackend
	workspace   driving.TopicWorkspace
	persistence driving.PersistenceService
	history     driven.JobHistoryStore
	sink        driven.EventSink
	interval    time.Duration
	now         func() time.Time

	mu          sync.Mutex
	state       domain.OrchestratorState
	jobID       string
	submittedAt time.Time
	ledger      domain.ResultLedger
	pending     map[string]bool
	outcome     domain.JobOutcome
	cancel      context.CancelFunc
	nudge       chan struct{}
	done        chan struct{}
}

// NewOrchestrator creates an idle orchestrator.
func NewOrchestrator(
	backend driven.GenerationBackend,
	workspace driving.TopicWorkspace,
	persistence driving.PersistenceService,
	interval time.Duration,
) *Orchestrator {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Orchestrator{
		backend:     backend,
		workspace:   workspace,
		persistence: persistence,
		interval:    interval,
		now:         time.Now,
		state:       domain.StateIdle,
		pending:     make(map[string]bool),
	}
}

// SetEventSink sets where notifications go. Nil disables them.
func (o *Orchestrator) SetEventSink(sink driven.EventSink) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sink = sink
}

// SetHistoryStore enables recording of finished jobs. Nil disables it.
func (o *Orchestrator) SetHistoryStore(store driven.JobHistoryStore) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.history = store
}

// Submit creates a job from the workspace and starts polling it.
// The staged topics are left untouched whatever the outcome.
func (o *Orchestrator) Submit(ctx context.Context) (string, error) {
	o.mu.Lock()
	if o.state != domain.StateIdle {
		o.mu.Unlock()
		return "", domain.ErrSubmissionInProgress
	}
	o.state = domain.StateSubmitting
	o.mu.Unlock()

	req, jobID, err := o.createJob(ctx)
	if err != nil {
		o.mu.Lock()
		o.state = domain.StateIdle
		o.mu.Unlock()
		return "", err
	}

	// The handle must be durable before the first poll.
	if err := o.persistence.SaveJobHandle(ctx, jobID); err != nil {
		logger.Warn("job %s will not survive a restart: %v", jobID, err)
	}

	o.mu.Lock()
	o.jobID = jobID
	o.submittedAt = o.now()
	o.outcome = domain.OutcomeNone
	o.pending = make(map[string]bool)
	o.ledger.Replace(&domain.Job{ID: jobID, Status: domain.JobStatusRunning, Total: len(req.Topics)})
	view := o.ledger.View()
	o.mu.Unlock()

	logger.Info("submitted job %s with %d topics (%d attachments)", jobID, len(req.Topics), len(req.Attachments))
	o.publish(domain.JobEvent{Kind: domain.EventSubmitted, JobID: jobID, Job: jobFromView(view)})

	o.mu.Lock()
	o.startPollingLocked(jobID, true)
	o.mu.Unlock()
	return jobID, nil
}

func (o *Orchestrator) createJob(ctx context.Context) (domain.JobRequest, string, error) {
	req := o.workspace.SubmissionRequest()
	if len(req.Topics) == 0 {
		return req, "", domain.ErrNoTopics
	}

	configured, err := o.backend.CheckPrerequisites(ctx)
	if err != nil {
		return req, "", fmt.Errorf("checking prerequisites: %w", err)
	}
	if !configured {
		return req, "", domain.ErrPrerequisiteNotConfigured
	}

	jobID, err := o.backend.CreateJob(ctx, req)
	if err != nil {
		return req, "", fmt.Errorf("%w: %w", domain.ErrJobCreateFailed, err)
	}
	if jobID == "" {
		return req, "", fmt.Errorf("%w: empty job id", domain.ErrJobCreateFailed)
	}
	return req, jobID, nil
}

// Resume picks up a persisted job handle. A running job is polled again
// without creating a new one; a completed job is loaded once and its handle
// cleared; an unknown job has its handle cleared silently. On any other
// error the handle is kept so a later resume can try again.
func (o *Orchestrator) Resume(ctx context.Context) (domain.ResumeOutcome, error) {
	if o.State() != domain.StateIdle {
		return domain.ResumeNone, domain.ErrSubmissionInProgress
	}

	handle, err := o.persistence.LoadJobHandle(ctx)
	if err != nil {
		return domain.ResumeNone, err
	}
	if handle == nil {
		return domain.ResumeNone, nil
	}

	job, err := o.backend.GetJobStatus(ctx, handle.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Info("persisted job %s is gone, forgetting it", handle.JobID)
			o.clearHandle(ctx)
			return domain.ResumeLost, nil
		}
		return domain.ResumeNone, fmt.Errorf("checking job %s: %w", handle.JobID, err)
	}

	outcome, err := o.adopt(handle.JobID, handle.SavedAt, job)
	if err != nil {
		return domain.ResumeNone, err
	}
	if outcome == domain.ResumeCompleted {
		o.clearHandle(ctx)
	}
	return outcome, nil
}

// Track starts observing an existing job without submitting anything.
func (o *Orchestrator) Track(ctx context.Context, jobID string) error {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return domain.ErrInvalidInput
	}
	if o.State() != domain.StateIdle {
		return domain.ErrSubmissionInProgress
	}

	job, err := o.backend.GetJobStatus(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("job %s: %w", jobID, domain.ErrJobLost)
		}
		return fmt.Errorf("checking job %s: %w", jobID, err)
	}

	if !job.IsCompleted() {
		if err := o.persistence.SaveJobHandle(ctx, jobID); err != nil {
			logger.Warn("job %s will not survive a restart: %v", jobID, err)
		}
	}
	_, err = o.adopt(jobID, o.now(), job)
	return err
}

// adopt makes a fetched job the current one and polls it if still running.
func (o *Orchestrator) adopt(jobID string, submittedAt time.Time, job *domain.Job) (domain.ResumeOutcome, error) {
	o.mu.Lock()
	if o.state != domain.StateIdle {
		o.mu.Unlock()
		return domain.ResumeNone, domain.ErrSubmissionInProgress
	}
	job.ID = jobID
	o.jobID = jobID
	o.submittedAt = submittedAt
	o.outcome = domain.OutcomeNone
	o.pending = make(map[string]bool)
	o.ledger.Replace(job)

	if !job.IsCompleted() {
		o.startPollingLocked(jobID, false)
		o.mu.Unlock()
		o.publish(domain.JobEvent{Kind: domain.EventProgress, JobID: jobID, Job: job.Clone()})
		return domain.ResumePolling, nil
	}

	o.outcome = domain.OutcomeCompleted
	view := o.ledger.View()
	o.mu.Unlock()

	o.publish(domain.JobEvent{Kind: domain.EventProgress, JobID: jobID, Job: job.Clone()})
	o.publish(domain.JobEvent{Kind: domain.EventCompleted, JobID: jobID, Job: job.Clone()})
	o.record(view, domain.OutcomeCompleted, submittedAt)
	return domain.ResumeCompleted, nil
}

// RetryTopic asks the backend to regenerate one failed topic of the current
// job. The error entry is not touched locally; the next snapshot supersedes
// it. If the job had already completed, polling starts again.
func (o *Orchestrator) RetryTopic(ctx context.Context, topic string) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return domain.ErrInvalidInput
	}

	o.mu.Lock()
	jobID := o.jobID
	if jobID == "" || o.state == domain.StateSubmitting {
		o.mu.Unlock()
		return domain.ErrNoJob
	}
	if o.pending[topic] {
		o.mu.Unlock()
		return fmt.Errorf("%s: %w", topic, domain.ErrRetryInProgress)
	}
	o.pending[topic] = true
	o.mu.Unlock()

	o.publish(domain.JobEvent{Kind: domain.EventRetryPending, JobID: jobID, Topic: topic})

	err := o.backend.RetryTopic(ctx, jobID, topic)

	o.mu.Lock()
	delete(o.pending, topic)
	if err != nil {
		o.mu.Unlock()
		err = fmt.Errorf("%w: %w", domain.ErrRetryRequestFailed, err)
		o.publish(domain.JobEvent{Kind: domain.EventRetryFailed, JobID: jobID, Topic: topic, Err: err})
		return err
	}
	current := o.jobID == jobID
	state := o.state
	if current && state == domain.StatePolling {
		select {
		case o.nudge <- struct{}{}:
		default:
		}
	}
	o.mu.Unlock()

	// A completed job is polled again until the retried topic settles.
	if current && state == domain.StateIdle {
		if err := o.persistence.SaveJobHandle(ctx, jobID); err != nil {
			logger.Warn("job %s will not survive a restart: %v", jobID, err)
		}
		o.mu.Lock()
		if o.jobID == jobID && o.state == domain.StateIdle {
			o.outcome = domain.OutcomeNone
			o.startPollingLocked(jobID, true)
		}
		o.mu.Unlock()
	}
	o.publish(domain.JobEvent{Kind: domain.EventRetryQueued, JobID: jobID, Topic: topic})
	return nil
}

// DiscardError hides one error from the displayed ledger. The backend is not
// told, so the entry returns with the next poll unless the backend dropped it.
func (o *Orchestrator) DiscardError(topic string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ledger.Discard(topic)
}

// Wait blocks until the current polling loop exits.
// Returns domain.ErrJobLost if the job was lost.
func (o *Orchestrator) Wait(ctx context.Context) error {
	o.mu.Lock()
	done := o.done
	o.mu.Unlock()

	if done != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
		}
	}

	if o.LastOutcome() == domain.OutcomeLost {
		return domain.ErrJobLost
	}
	return nil
}

// Stop stops observing the current job. The remote job keeps running and
// its handle stays persisted, so Resume can pick it up later.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	cancel := o.cancel
	done := o.done
	o.cancel = nil
	if o.state == domain.StatePolling {
		o.state = domain.StateIdle
	}
	if cancel != nil {
		cancel()
	}
	o.mu.Unlock()

	if cancel != nil && done != nil {
		<-done
	}
}

// State returns the current orchestrator state.
func (o *Orchestrator) State() domain.OrchestratorState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Ledger returns a copy of the displayed results.
func (o *Orchestrator) Ledger() domain.LedgerView {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ledger.View()
}

// RetryPending reports whether a retry request for topic is in flight.
func (o *Orchestrator) RetryPending(topic string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pending[strings.TrimSpace(topic)]
}

// LastOutcome returns how the most recent job ended.
func (o *Orchestrator) LastOutcome() domain.JobOutcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcome
}

// startPollingLocked enters Polling and starts the loop. Caller must hold o.mu.
func (o *Orchestrator) startPollingLocked(jobID string, immediate bool) {
	ctx, cancel := context.WithCancel(context.Background())
	o.state = domain.StatePolling
	o.cancel = cancel
	o.nudge = make(chan struct{}, 1)
	o.done = make(chan struct{})
	go o.pollLoop(ctx, jobID, immediate, o.nudge, o.done)
}

// finishLocked leaves Polling. Caller must hold o.mu.
func (o *Orchestrator) finishLocked(outcome domain.JobOutcome) {
	o.state = domain.StateIdle
	o.outcome = outcome
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

func (o *Orchestrator) pollLoop(ctx context.Context, jobID string, immediate bool, nudge <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	if immediate && o.poll(ctx, jobID) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-nudge:
		case <-ticker.C:
		}
		if o.poll(ctx, jobID) {
			return
		}
	}
}

// poll fetches one snapshot and reports whether polling should stop.
func (o *Orchestrator) poll(ctx context.Context, jobID string) bool {
	job, err := o.backend.GetJobStatus(ctx, jobID)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		if errors.Is(err, domain.ErrNotFound) {
			o.markLost(jobID)
			return true
		}
		logger.Warn("polling job %s: %v", jobID, err)
		o.publish(domain.JobEvent{
			Kind:  domain.EventPollError,
			JobID: jobID,
			Err:   fmt.Errorf("%w: %w", domain.ErrTransientPoll, err),
		})
		return false
	}

	o.mu.Lock()
	if o.jobID != jobID || ctx.Err() != nil {
		o.mu.Unlock()
		return true
	}
	job.ID = jobID
	o.ledger.Replace(job)
	completed := job.IsCompleted()
	if completed {
		o.finishLocked(domain.OutcomeCompleted)
	}
	view := o.ledger.View()
	submittedAt := o.submittedAt
	o.mu.Unlock()

	logger.Debug("job %s: %d/%d done, %.0f%%", jobID, view.CompletedCount, view.Total, view.ProgressPercent)
	o.publish(domain.JobEvent{Kind: domain.EventProgress, JobID: jobID, Job: job.Clone()})

	if completed {
		o.clearHandle(context.Background())
		o.record(view, domain.OutcomeCompleted, submittedAt)
		o.publish(domain.JobEvent{Kind: domain.EventCompleted, JobID: jobID, Job: job.Clone()})
	}
	return completed
}

// markLost ends a job the backend no longer knows. It is never resubmitted.
func (o *Orchestrator) markLost(jobID string) {
	o.mu.Lock()
	if o.jobID != jobID {
		o.mu.Unlock()
		return
	}
	view := o.ledger.View()
	submittedAt := o.submittedAt
	o.finishLocked(domain.OutcomeLost)
	o.jobID = ""
	o.mu.Unlock()

	logger.Warn("job %s is no longer known to the backend", jobID)
	o.clearHandle(context.Background())
	o.record(view, domain.OutcomeLost, submittedAt)
	o.publish(domain.JobEvent{
		Kind:  domain.EventLost,
		JobID: jobID,
		Err:   fmt.Errorf("job %s: %w", jobID, domain.ErrJobLost),
	})
}

func (o *Orchestrator) clearHandle(ctx context.Context) {
	if err := o.persistence.ClearJobHandle(ctx); err != nil {
		logger.Warn("could not clear job handle: %v", err)
	}
}

func (o *Orchestrator) record(view domain.LedgerView, outcome domain.JobOutcome, submittedAt time.Time) {
	o.mu.Lock()
	store := o.history
	o.mu.Unlock()
	if store == nil || view.JobID == "" {
		return
	}

	ctx := context.Background()
	if err := store.RecordJob(ctx, domain.NewJobRecord(view, outcome, submittedAt, o.now())); err != nil {
		logger.Warn("could not record job %s: %v", view.JobID, err)
		return
	}
	if err := store.PruneHistory(ctx, domain.DefaultHistoryRetention); err != nil {
		logger.Warn("could not prune job history: %v", err)
	}
}

func (o *Orchestrator) publish(event domain.JobEvent) {
	o.mu.Lock()
	sink := o.sink
	o.mu.Unlock()
	if sink != nil {
		sink.Publish(event)
	}
}

func jobFromView(v domain.LedgerView) *domain.Job {
	return &domain.Job{
		ID:              v.JobID,
		Status:          v.Status,
		Total:           v.Total,
		ProgressPercent: v.ProgressPercent,
		Results:         v.Results,
		Errors:          v.Errors,
	}
}
