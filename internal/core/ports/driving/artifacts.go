package driving

import (
	"context"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

// ArtifactService fetches and opens generated documents.
type ArtifactService interface {
	// Download saves a generated document into dir and returns its path.
	// Returns an error wrapping domain.ErrNotFound if the server has no such file.
	Download(ctx context.Context, filename, dir string) (string, error)

	// List returns up to limit documents the server holds, newest first.
	// A limit of zero or less returns all of them.
	List(ctx context.Context, limit int) ([]domain.ArtifactInfo, error)

	// Read fetches a generated document and returns its text without
	// saving it.
	Read(ctx context.Context, filename string) (*domain.Article, error)

	// Open opens a downloaded document in the default application.
	Open(ctx context.Context, path string) error
}
