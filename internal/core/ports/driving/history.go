package driving

import (
	"context"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

// HistoryService exposes the local record of finished jobs.
type HistoryService interface {
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]domain.JobRecord, error)
}
