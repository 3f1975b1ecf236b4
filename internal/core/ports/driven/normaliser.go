package driven

import (
	"context"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

// Normaliser turns a generated document into readable text.
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Normalise extracts the article from the document bytes.
	// Returns an error wrapping domain.ErrInvalidInput for unreadable documents.
	Normalise(ctx context.Context, filename string, data []byte) (*domain.Article, error)
}
