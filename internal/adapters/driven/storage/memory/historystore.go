package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.JobHistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.JobHistoryStore.
type HistoryStore struct {
	mu      sync.RWMutex
	records map[string]domain.JobRecord
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		records: make(map[string]domain.JobRecord),
	}
}

// RecordJob stores or replaces the record for a job.
func (s *HistoryStore) RecordJob(_ context.Context, record *domain.JobRecord) error {
	if record == nil || record.JobID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *record
	if prev, ok := s.records[r.JobID]; ok && r.SubmittedAt.IsZero() {
		r.SubmittedAt = prev.SubmittedAt
	}
	s.records[r.JobID] = r
	return nil
}

// ListJobs returns recent records, most recently finished first.
func (s *HistoryStore) ListJobs(_ context.Context, limit int) ([]domain.JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.sortedLocked()
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// PruneHistory keeps only the most recent 'keep' records.
func (s *HistoryStore) PruneHistory(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.sortedLocked()
	if keep < 0 {
		keep = 0
	}
	for i := keep; i < len(records); i++ {
		delete(s.records, records[i].JobID)
	}
	return nil
}

func (s *HistoryStore) sortedLocked() []domain.JobRecord {
	records := make([]domain.JobRecord, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].FinishedAt.Equal(records[j].FinishedAt) {
			return records[i].JobID > records[j].JobID
		}
		return records[i].FinishedAt.After(records[j].FinishedAt)
	})
	return records
}
