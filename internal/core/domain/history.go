package domain

import "time"

// DefaultHistoryRetention is how many job records are kept.
const DefaultHistoryRetention = 100

// JobRecord is the local history entry for a job that finished or was lost.
type JobRecord struct {
	JobID       string
	SubmittedAt time.Time
	FinishedAt  time.Time
	Outcome     JobOutcome
	Total       int
	Succeeded   int
	Failed      int
}

// NewJobRecord summarises the final ledger view of a job.
func NewJobRecord(view LedgerView, outcome JobOutcome, submittedAt, finishedAt time.Time) *JobRecord {
	return &JobRecord{
		JobID:       view.JobID,
		SubmittedAt: submittedAt,
		FinishedAt:  finishedAt,
		Outcome:     outcome,
		Total:       view.Total,
		Succeeded:   len(view.Results),
		Failed:      len(view.Errors),
	}
}
