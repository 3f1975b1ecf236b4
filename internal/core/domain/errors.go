package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Attachment Errors.

	// ErrInvalidAttachmentType indicates a file or clipboard source that is not an image.
	ErrInvalidAttachmentType = errors.New("attachment is not an image")

	// ErrInvalidURL indicates an attachment URL that is not an absolute URL.
	ErrInvalidURL = errors.New("invalid image URL")

	// ErrUnreachableImage indicates the image behind a URL could not be loaded.
	ErrUnreachableImage = errors.New("image could not be loaded")

	// ErrUploadFailed indicates the backend did not accept an attachment upload.
	// The attachment stays staged and is never submitted.
	ErrUploadFailed = errors.New("attachment upload failed")

	// Topic Errors.

	// ErrCapacityExceeded indicates the topic set is full.
	ErrCapacityExceeded = errors.New("topic capacity exceeded")

	// ErrNoTopics indicates a submission without any non-empty topic.
	ErrNoTopics = errors.New("no topics to submit")

	// Job Errors.

	// ErrPrerequisiteNotConfigured indicates the backend reports that generation
	// prerequisites (such as the document converter) are not configured.
	ErrPrerequisiteNotConfigured = errors.New("generation prerequisites not configured")

	// ErrSubmissionInProgress indicates a submission was attempted while a job
	// is already being submitted or observed.
	ErrSubmissionInProgress = errors.New("a job is already active")

	// ErrJobCreateFailed indicates the backend refused or failed to create a job.
	ErrJobCreateFailed = errors.New("job creation failed")

	// ErrJobLost indicates the backend no longer knows the job, typically after a restart.
	ErrJobLost = errors.New("job lost")

	// ErrNoJob indicates an operation that needs a job when none is known.
	ErrNoJob = errors.New("no job")

	// ErrRetryRequestFailed indicates a retry request for a topic was not accepted.
	ErrRetryRequestFailed = errors.New("retry request failed")

	// ErrRetryInProgress indicates a retry for the same topic is still in flight.
	ErrRetryInProgress = errors.New("retry already pending")

	// ErrTransientPoll indicates a poll failure other than job loss.
	// Polling continues at the same interval.
	ErrTransientPoll = errors.New("transient poll error")
)
