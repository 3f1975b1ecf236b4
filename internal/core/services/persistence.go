package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driven"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driving"
	"github.com/custodia-labs/batchwriter/internal/logger"
)

// Ensure Persistence implements the interface.
var _ driving.PersistenceService = (*Persistence)(nil)

// Persistence applies the freshness window on top of a SnapshotStore.
// Stale records are treated exactly like missing ones.
type Persistence struct {
	store  driven.SnapshotStore
	window time.Duration
	now    func() time.Time
}

// NewPersistence creates a persistence service.
// A non-positive window falls back to domain.DefaultFreshnessWindow.
func NewPersistence(store driven.SnapshotStore, window time.Duration) *Persistence {
	if window <= 0 {
		window = domain.DefaultFreshnessWindow
	}
	return &Persistence{
		store:  store,
		window: window,
		now:    time.Now,
	}
}

// Save overwrites the topic snapshot.
func (p *Persistence) Save(ctx context.Context, set *domain.TopicSet, enableImage bool) error {
	if set == nil {
		return domain.ErrInvalidInput
	}
	if err := p.store.SaveSnapshot(ctx, domain.NewSnapshot(set, enableImage, p.now())); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot together with its job handle.
// Returns nil when neither a fresh snapshot nor a fresh handle exists.
func (p *Persistence) Load(ctx context.Context) (*domain.PersistedSnapshot, error) {
	snap, err := p.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	if snap != nil && !p.usable(snap.SchemaVersion, snap.SavedAt, "snapshot") {
		snap = nil
	}

	handle, err := p.LoadJobHandle(ctx)
	if err != nil {
		return nil, err
	}

	if snap == nil {
		if handle == nil {
			return nil, nil
		}
		snap = &domain.PersistedSnapshot{SchemaVersion: domain.SnapshotSchemaVersion}
	}
	snap.JobHandle = handle
	return snap, nil
}

// SaveJobHandle records the in-flight job ID with the current time.
func (p *Persistence) SaveJobHandle(ctx context.Context, jobID string) error {
	if jobID == "" {
		return domain.ErrInvalidInput
	}
	handle := &domain.JobHandle{JobID: jobID, SavedAt: p.now()}
	if err := p.store.SaveJobHandle(ctx, handle); err != nil {
		return fmt.Errorf("saving job handle: %w", err)
	}
	return nil
}

// LoadJobHandle returns the job handle, or nil when none is fresh.
func (p *Persistence) LoadJobHandle(ctx context.Context) (*domain.JobHandle, error) {
	handle, err := p.store.LoadJobHandle(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading job handle: %w", err)
	}
	if handle == nil || handle.JobID == "" {
		return nil, nil
	}
	if domain.IsExpired(handle.SavedAt, p.now(), p.window) {
		logger.Debug("ignoring job handle %s saved at %s", handle.JobID, handle.SavedAt.Format(time.RFC3339))
		return nil, nil
	}
	return handle, nil
}

// ClearJobHandle forgets the in-flight job.
func (p *Persistence) ClearJobHandle(ctx context.Context) error {
	if err := p.store.ClearJobHandle(ctx); err != nil {
		return fmt.Errorf("clearing job handle: %w", err)
	}
	return nil
}

// Discard removes the stored topic snapshot. The job handle is kept.
func (p *Persistence) Discard(ctx context.Context) error {
	if err := p.store.ClearSnapshot(ctx); err != nil {
		return fmt.Errorf("clearing snapshot: %w", err)
	}
	return nil
}

func (p *Persistence) usable(version int, savedAt time.Time, what string) bool {
	if version > domain.SnapshotSchemaVersion {
		logger.Warn("ignoring %s written by a newer version (schema %d)", what, version)
		return false
	}
	if domain.IsExpired(savedAt, p.now(), p.window) {
		logger.Debug("ignoring %s saved at %s", what, savedAt.Format(time.RFC3339))
		return false
	}
	return true
}
