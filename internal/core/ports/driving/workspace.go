package driving

import (
	"context"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

// TopicWorkspace owns the topic set being edited. Every mutation is persisted.
type TopicWorkspace interface {
	// Restore loads the persisted snapshot, if fresh, into the workspace.
	Restore(ctx context.Context) (domain.RestoreReport, error)

	// AddSlot appends an empty slot and returns its index.
	AddSlot(ctx context.Context) (int, error)

	// RemoveSlot removes a slot and its attachment.
	RemoveSlot(ctx context.Context, index int) error

	// ClearAll empties the set, leaving one empty slot.
	ClearAll(ctx context.Context)

	// Reset returns the workspace to its initial state and deletes the
	// stored snapshot instead of saving an empty one.
	Reset(ctx context.Context) error

	// SetText replaces the text of a slot.
	SetText(ctx context.Context, index int, text string) error

	// SetEnableImage toggles image generation for the batch.
	SetEnableImage(ctx context.Context, enabled bool)

	// EnableImage returns the image generation toggle.
	EnableImage() bool

	// PutAttachment stages an attachment on a slot, replacing any previous one.
	PutAttachment(ctx context.Context, index int, a *domain.Attachment) error

	// UpdateAttachment applies fn to the slot's attachment if it is still the
	// one identified by attachmentID. Returns domain.ErrNotFound otherwise.
	UpdateAttachment(ctx context.Context, index int, attachmentID string, fn func(*domain.Attachment)) error

	// ClearAttachment removes a slot's attachment.
	ClearAttachment(ctx context.Context, index int) error

	// Slot returns a copy of one slot.
	Slot(index int) (domain.TopicSlot, bool)

	// Slots returns copies of all slots in display order.
	Slots() []domain.TopicSlot

	// Capacity returns the maximum number of slots.
	Capacity() int

	// SubmissionRequest builds the job request from non-empty slots.
	SubmissionRequest() domain.JobRequest
}
