package domain

import "math"

// ResultLedger holds the results and errors of the latest job snapshot for
// display and for building retry requests.
//
// Replace swaps in the whole snapshot, so repeated polls never duplicate
// entries. Discard hides one error locally without telling the backend; the
// entry comes back with the next snapshot unless the backend dropped it too.
type ResultLedger struct {
	jobID    string
	status   JobStatus
	total    int
	progress float64
	results  []ArticleResult
	errors   []TopicError
}

// Replace overwrites the ledger with the given snapshot.
func (l *ResultLedger) Replace(job *Job) {
	if job == nil {
		l.Reset()
		return
	}
	l.jobID = job.ID
	l.status = job.Status
	l.total = job.Total
	l.progress = clampPercent(job.ProgressPercent)
	l.results = append([]ArticleResult(nil), job.Results...)
	l.errors = append([]TopicError(nil), job.Errors...)
}

// Reset empties the ledger.
func (l *ResultLedger) Reset() {
	*l = ResultLedger{}
}

// Discard removes the first displayed error for topic.
// It reports whether an entry was removed.
func (l *ResultLedger) Discard(topic string) bool {
	for i, e := range l.errors {
		if e.Topic == topic {
			l.errors = append(l.errors[:i:i], l.errors[i+1:]...)
			return true
		}
	}
	return false
}

// HasError reports whether topic currently has a displayed error.
func (l *ResultLedger) HasError(topic string) bool {
	for _, e := range l.errors {
		if e.Topic == topic {
			return true
		}
	}
	return false
}

// View returns a copy of the ledger contents.
func (l *ResultLedger) View() LedgerView {
	return LedgerView{
		JobID:           l.jobID,
		Status:          l.status,
		Total:           l.total,
		ProgressPercent: l.progress,
		CompletedCount:  len(l.results) + len(l.errors),
		Results:         append([]ArticleResult(nil), l.results...),
		Errors:          append([]TopicError(nil), l.errors...),
	}
}

// LedgerView is a read-only copy of a ResultLedger.
type LedgerView struct {
	JobID           string
	Status          JobStatus
	Total           int
	ProgressPercent float64
	CompletedCount  int
	Results         []ArticleResult
	Errors          []TopicError
}

// RoundedPercent returns the progress rounded to a whole percent.
func (v LedgerView) RoundedPercent() int {
	return int(math.Round(v.ProgressPercent))
}

func clampPercent(p float64) float64 {
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
