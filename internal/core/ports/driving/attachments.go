package driving

import (
	"context"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

// AttachmentResolver turns the three acquisition sources into one staged
// attachment per slot and resolves it against the backend.
type AttachmentResolver interface {
	// StageFile reads an image file and stages it on the slot.
	StageFile(ctx context.Context, index int, path string) (*domain.Attachment, error)

	// StageClipboard stages pasted image bytes on the slot.
	StageClipboard(ctx context.Context, index int, data []byte) (*domain.Attachment, error)

	// PasteClipboard reads an image from the system clipboard and stages it.
	PasteClipboard(ctx context.Context, index int) (*domain.Attachment, error)

	// StageURL validates an absolute URL and stages it on the slot.
	StageURL(ctx context.Context, index int, rawURL string) (*domain.Attachment, error)

	// Resolve uploads staged bytes or probes a staged URL.
	Resolve(ctx context.Context, index int) (*domain.Attachment, error)

	// Clear removes the slot's attachment.
	Clear(ctx context.Context, index int) error
}
