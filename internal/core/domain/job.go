package domain

import "time"

// JobStatus is the backend's lifecycle stage of a generation job.
type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
)

// ArticleResult is one successfully generated topic.
type ArticleResult struct {
	Topic        string
	Filename     string
	ArticleTitle string
}

// TopicError is one failed topic.
type TopicError struct {
	Topic        string
	ErrorMessage string
}

// Job is the latest snapshot of a backend generation job. The client never
// edits the result and error lists; each poll replaces the whole snapshot.
type Job struct {
	ID              string
	Status          JobStatus
	Total           int
	ProgressPercent float64
	Results         []ArticleResult
	Errors          []TopicError
}

// IsCompleted reports whether the backend finished the job.
func (j *Job) IsCompleted() bool {
	return j != nil && j.Status == JobStatusCompleted
}

// CompletedCount returns the number of topics with an outcome.
func (j *Job) CompletedCount() int {
	if j == nil {
		return 0
	}
	return len(j.Results) + len(j.Errors)
}

// Clone returns a deep copy of the job.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	c.Results = append([]ArticleResult(nil), j.Results...)
	c.Errors = append([]TopicError(nil), j.Errors...)
	return &c
}

// JobRequest is the payload for creating a job.
type JobRequest struct {
	Topics      []string
	Attachments map[string]AttachmentRef
}

// JobHandle is the persisted reference to an in-flight job.
type JobHandle struct {
	JobID   string
	SavedAt time.Time
}

// OrchestratorState is the state of the job orchestrator.
type OrchestratorState string

const (
	StateIdle       OrchestratorState = "idle"
	StateSubmitting OrchestratorState = "submitting"
	StatePolling    OrchestratorState = "polling"
)

// JobOutcome is how the most recently observed job ended.
type JobOutcome string

const (
	OutcomeNone      JobOutcome = ""
	OutcomeCompleted JobOutcome = "completed"
	OutcomeLost      JobOutcome = "lost"
)

// ResumeOutcome reports what resuming a persisted job handle found.
type ResumeOutcome string

const (
	// ResumeNone means there was no fresh handle to resume.
	ResumeNone ResumeOutcome = "none"

	// ResumePolling means the job is still running and polling restarted.
	ResumePolling ResumeOutcome = "polling"

	// ResumeCompleted means the job had finished; its results were loaded once.
	ResumeCompleted ResumeOutcome = "completed"

	// ResumeLost means the backend no longer knows the job.
	ResumeLost ResumeOutcome = "lost"
)

// EventKind names an orchestrator notification.
type EventKind string

const (
	EventSubmitted    EventKind = "submitted"
	EventProgress     EventKind = "progress"
	EventCompleted    EventKind = "completed"
	EventLost         EventKind = "lost"
	EventPollError    EventKind = "poll_error"
	EventRetryPending EventKind = "retry_pending"
	EventRetryFailed  EventKind = "retry_failed"
	EventRetryQueued  EventKind = "retry_queued"
)

// JobEvent is published by the orchestrator for display.
type JobEvent struct {
	Kind  EventKind
	JobID string

	// Job is a copy of the latest snapshot, set for progress and completion.
	Job *Job

	// Topic is set for retry events.
	Topic string

	// Err is set for poll errors, failed retries and lost jobs.
	Err error
}
