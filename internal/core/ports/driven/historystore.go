package driven

import (
	"context"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

// JobHistoryStore keeps a local record of finished jobs.
type JobHistoryStore interface {
	// RecordJob stores or replaces the record for a job.
	RecordJob(ctx context.Context, record *domain.JobRecord) error

	// ListJobs returns recent records, most recently finished first.
	ListJobs(ctx context.Context, limit int) ([]domain.JobRecord, error)

	// PruneHistory keeps only the most recent 'keep' records.
	PruneHistory(ctx context.Context, keep int) error
}
