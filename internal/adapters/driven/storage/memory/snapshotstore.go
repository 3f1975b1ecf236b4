package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is an in-memory implementation of driven.SnapshotStore.
// State lives only as long as the process.
type SnapshotStore struct {
	mu       sync.RWMutex
	snapshot *domain.PersistedSnapshot
	handle   *domain.JobHandle
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// SaveSnapshot overwrites the stored topic snapshot.
func (s *SnapshotStore) SaveSnapshot(_ context.Context, snap *domain.PersistedSnapshot) error {
	if snap == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = copySnapshot(snap)
	return nil
}

// LoadSnapshot returns the stored topic snapshot, or nil if none exists.
func (s *SnapshotStore) LoadSnapshot(_ context.Context) (*domain.PersistedSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, nil
	}
	return copySnapshot(s.snapshot), nil
}

// ClearSnapshot removes the stored topic snapshot.
func (s *SnapshotStore) ClearSnapshot(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
	return nil
}

// SaveJobHandle overwrites the stored job handle.
func (s *SnapshotStore) SaveJobHandle(_ context.Context, handle *domain.JobHandle) error {
	if handle == nil || handle.JobID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h := *handle
	s.handle = &h
	return nil
}

// LoadJobHandle returns the stored job handle, or nil if none exists.
func (s *SnapshotStore) LoadJobHandle(_ context.Context) (*domain.JobHandle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.handle == nil {
		return nil, nil
	}
	h := *s.handle
	return &h, nil
}

// ClearJobHandle removes the stored job handle.
func (s *SnapshotStore) ClearJobHandle(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handle = nil
	return nil
}

func copySnapshot(snap *domain.PersistedSnapshot) *domain.PersistedSnapshot {
	c := *snap
	c.JobHandle = nil
	c.Topics = make([]domain.SnapshotTopic, len(snap.Topics))
	for i, t := range snap.Topics {
		c.Topics[i] = domain.SnapshotTopic{Text: t.Text}
		if t.Attachment != nil {
			meta := *t.Attachment
			c.Topics[i].Attachment = &meta
		}
	}
	return &c
}
