package services

import (
	"context"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driven"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driving"
)

// Ensure History implements the interface.
var _ driving.HistoryService = (*History)(nil)

// defaultHistoryLimit applies when no positive limit is given.
const defaultHistoryLimit = 20

// History reads the local record of finished jobs.
type History struct {
	store driven.JobHistoryStore
}

// NewHistory creates a history service.
func NewHistory(store driven.JobHistoryStore) *History {
	return &History{store: store}
}

// Recent returns up to limit records, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]domain.JobRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > domain.DefaultHistoryRetention {
		limit = domain.DefaultHistoryRetention
	}
	return h.store.ListJobs(ctx, limit)
}
