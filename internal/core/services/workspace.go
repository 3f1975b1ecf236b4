package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driving"
	"github.com/custodia-labs/batchwriter/internal/logger"
)

// Ensure Workspace implements the interface.
var _ driving.TopicWorkspace = (*Workspace)(nil)

// Workspace owns the topic set being edited and persists it after every
// mutation. Persistence failures are logged and never fail the edit.
type Workspace struct {
	persistence driving.PersistenceService
	capacity    int

	mu          sync.Mutex
	set         *domain.TopicSet
	enableImage bool
}

// NewWorkspace creates a workspace with a single empty slot.
func NewWorkspace(persistence driving.PersistenceService, capacity int) *Workspace {
	if capacity < 1 {
		capacity = domain.DefaultMaxTopics
	}
	return &Workspace{
		persistence: persistence,
		capacity:    capacity,
		set:         domain.NewTopicSet(capacity),
		enableImage: true,
	}
}

// Restore replaces the workspace with the persisted snapshot if one is fresh.
// Attachments that never resolved are dropped and reported.
func (w *Workspace) Restore(ctx context.Context) (domain.RestoreReport, error) {
	snap, err := w.persistence.Load(ctx)
	if err != nil {
		return domain.RestoreReport{}, err
	}
	if snap == nil || len(snap.Topics) == 0 {
		return domain.RestoreReport{}, nil
	}

	set, report := snap.Restore(w.capacity, uuid.NewString)
	for _, idx := range report.DroppedAttachments {
		logger.Warn("attachment of topic %d was never uploaded and was lost on restart", idx+1)
	}

	w.mu.Lock()
	w.set = set
	w.enableImage = snap.EnableImage
	w.mu.Unlock()

	if len(report.DroppedAttachments) > 0 {
		w.persist(ctx)
	}
	return report, nil
}

// AddSlot appends an empty slot and returns its index.
func (w *Workspace) AddSlot(ctx context.Context) (int, error) {
	var idx int
	err := w.mutate(ctx, func(set *domain.TopicSet) error {
		var err error
		idx, err = set.AddSlot()
		return err
	})
	return idx, err
}

// RemoveSlot removes a slot and its attachment.
func (w *Workspace) RemoveSlot(ctx context.Context, index int) error {
	return w.mutate(ctx, func(set *domain.TopicSet) error {
		return set.RemoveSlot(index)
	})
}

// ClearAll empties the set, leaving one empty slot.
func (w *Workspace) ClearAll(ctx context.Context) {
	_ = w.mutate(ctx, func(set *domain.TopicSet) error {
		set.ClearAll()
		return nil
	})
}

// Reset returns the workspace to a single empty slot with image generation
// on, and deletes the stored snapshot.
func (w *Workspace) Reset(ctx context.Context) error {
	w.mu.Lock()
	w.set = domain.NewTopicSet(w.capacity)
	w.enableImage = true
	w.mu.Unlock()

	if w.persistence == nil {
		return nil
	}
	return w.persistence.Discard(ctx)
}

// SetText replaces the text of a slot.
func (w *Workspace) SetText(ctx context.Context, index int, text string) error {
	return w.mutate(ctx, func(set *domain.TopicSet) error {
		return set.SetText(index, text)
	})
}

// SetEnableImage toggles image generation for the batch.
func (w *Workspace) SetEnableImage(ctx context.Context, enabled bool) {
	w.mu.Lock()
	w.enableImage = enabled
	w.mu.Unlock()
	w.persist(ctx)
}

// EnableImage returns the image generation toggle.
func (w *Workspace) EnableImage() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enableImage
}

// PutAttachment stages an attachment on a slot, replacing any previous one.
func (w *Workspace) PutAttachment(ctx context.Context, index int, a *domain.Attachment) error {
	if a == nil {
		return domain.ErrInvalidInput
	}
	stored := a.Clone()
	return w.mutate(ctx, func(set *domain.TopicSet) error {
		return set.SetAttachment(index, stored)
	})
}

// UpdateAttachment applies fn to the slot's attachment if it still carries
// attachmentID. A replaced or cleared attachment yields domain.ErrNotFound.
func (w *Workspace) UpdateAttachment(
	ctx context.Context,
	index int,
	attachmentID string,
	fn func(*domain.Attachment),
) error {
	return w.mutate(ctx, func(set *domain.TopicSet) error {
		slot, ok := set.Slot(index)
		if !ok {
			return fmt.Errorf("slot %d: %w", index, domain.ErrNotFound)
		}
		if slot.Attachment == nil || slot.Attachment.ID != attachmentID {
			return fmt.Errorf("attachment %s on slot %d: %w", attachmentID, index, domain.ErrNotFound)
		}
		updated := slot.Attachment
		fn(updated)
		return set.SetAttachment(index, updated)
	})
}

// ClearAttachment removes a slot's attachment.
func (w *Workspace) ClearAttachment(ctx context.Context, index int) error {
	return w.mutate(ctx, func(set *domain.TopicSet) error {
		return set.ClearAttachment(index)
	})
}

// Slot returns a copy of one slot.
func (w *Workspace) Slot(index int) (domain.TopicSlot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.set.Slot(index)
}

// Slots returns copies of all slots in display order.
func (w *Workspace) Slots() []domain.TopicSlot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.set.Slots()
}

// Capacity returns the maximum number of slots.
func (w *Workspace) Capacity() int {
	return w.capacity
}

// SubmissionRequest builds the job request from non-empty slots.
func (w *Workspace) SubmissionRequest() domain.JobRequest {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.set.SubmissionRequest()
}

// mutate applies fn under the lock and persists on success.
func (w *Workspace) mutate(ctx context.Context, fn func(*domain.TopicSet) error) error {
	w.mu.Lock()
	err := fn(w.set)
	w.mu.Unlock()
	if err != nil {
		return err
	}
	w.persist(ctx)
	return nil
}

func (w *Workspace) persist(ctx context.Context) {
	if w.persistence == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.persistence.Save(ctx, w.set, w.enableImage); err != nil {
		logger.Warn("could not save topics: %v", err)
	}
}
