package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

// GenerationBackend is the remote service that runs batch generation jobs.
type GenerationBackend interface {
	// CheckPrerequisites reports whether the backend is configured to generate.
	CheckPrerequisites(ctx context.Context) (bool, error)

	// CreateJob starts a job and returns its ID.
	CreateJob(ctx context.Context, req domain.JobRequest) (string, error)

	// GetJobStatus returns the current snapshot of a job.
	// Returns an error wrapping domain.ErrNotFound when the backend no longer
	// knows the job.
	GetJobStatus(ctx context.Context, jobID string) (*domain.Job, error)

	// RetryTopic asks the backend to regenerate one topic of an existing job.
	// The outcome shows up in later snapshots of the same job.
	RetryTopic(ctx context.Context, jobID, topic string) error

	// UploadAttachment stores image bytes and returns where they were stored.
	UploadAttachment(ctx context.Context, data []byte, filename string) (*domain.UploadedFile, error)

	// DownloadArtifact streams a generated document into w.
	DownloadArtifact(ctx context.Context, filename string, w io.Writer) error

	// ListArtifacts returns the generated documents the backend still holds,
	// newest first.
	ListArtifacts(ctx context.Context) ([]domain.ArtifactInfo, error)
}
