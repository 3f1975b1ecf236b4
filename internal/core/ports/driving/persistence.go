package driving

import (
	"context"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

// PersistenceService writes and restores client state with freshness rules.
type PersistenceService interface {
	// Save overwrites the topic snapshot.
	Save(ctx context.Context, set *domain.TopicSet, enableImage bool) error

	// Load returns the snapshot with its job handle, or nil when nothing
	// fresh is stored.
	Load(ctx context.Context) (*domain.PersistedSnapshot, error)

	// SaveJobHandle records the in-flight job ID.
	SaveJobHandle(ctx context.Context, jobID string) error

	// LoadJobHandle returns the job handle, or nil when none is fresh.
	LoadJobHandle(ctx context.Context) (*domain.JobHandle, error)

	// ClearJobHandle forgets the in-flight job.
	ClearJobHandle(ctx context.Context) error

	// Discard removes the stored topic snapshot. The job handle is kept.
	Discard(ctx context.Context) error
}
