package driven

import "context"

// Clipboard reads the system clipboard.
type Clipboard interface {
	// ReadImage returns the image currently on the clipboard.
	// Returns an error wrapping domain.ErrInvalidAttachmentType when the
	// clipboard holds no image.
	ReadImage(ctx context.Context) ([]byte, error)
}
