package driven

import (
	"context"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

// SnapshotStore persists client state so it can be restored after a restart.
// The topic snapshot and the job handle live under separate keys and are
// written independently.
type SnapshotStore interface {
	// SaveSnapshot overwrites the stored topic snapshot.
	SaveSnapshot(ctx context.Context, snap *domain.PersistedSnapshot) error

	// LoadSnapshot returns the stored topic snapshot.
	// Returns nil and no error if none exists.
	LoadSnapshot(ctx context.Context) (*domain.PersistedSnapshot, error)

	// ClearSnapshot removes the stored topic snapshot.
	ClearSnapshot(ctx context.Context) error

	// SaveJobHandle overwrites the stored job handle.
	SaveJobHandle(ctx context.Context, handle *domain.JobHandle) error

	// LoadJobHandle returns the stored job handle.
	// Returns nil and no error if none exists.
	LoadJobHandle(ctx context.Context) (*domain.JobHandle, error)

	// ClearJobHandle removes the stored job handle.
	ClearJobHandle(ctx context.Context) error
}
