package topicfile

import (
	"context"
	"fmt"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driving"
)

// ImageWarning records an image that could not be attached.
type ImageWarning struct {
	// Position is the entry's zero-based position in the file.
	Position int
	Topic    string
	Image    string
	Err      error
}

func (w ImageWarning) Error() string {
	return fmt.Sprintf("topic %d (%s): image %s: %v", w.Position+1, w.Topic, w.Image, w.Err)
}

// Apply replaces the workspace's topics with the file's.
// Images that fail to stage or resolve are reported, not fatal.
func Apply(
	ctx context.Context,
	f *File,
	workspace driving.TopicWorkspace,
	resolver driving.AttachmentResolver,
) ([]ImageWarning, error) {
	if len(f.Topics) > workspace.Capacity() {
		return nil, fmt.Errorf("%w: file has %d topics, limit is %d",
			domain.ErrCapacityExceeded, len(f.Topics), workspace.Capacity())
	}

	workspace.ClearAll(ctx)
	if f.EnableImage != nil {
		workspace.SetEnableImage(ctx, *f.EnableImage)
	}

	var warnings []ImageWarning
	index := workspace.Slots()[0].Index
	for i, entry := range f.Topics {
		if i > 0 {
			var err error
			if index, err = workspace.AddSlot(ctx); err != nil {
				return warnings, err
			}
		}
		if err := workspace.SetText(ctx, index, entry.Text); err != nil {
			return warnings, err
		}
		if entry.Image == "" {
			continue
		}
		if err := attach(ctx, resolver, index, entry, f.Dir); err != nil {
			warnings = append(warnings, ImageWarning{Position: i, Topic: entry.Text, Image: entry.Image, Err: err})
		}
	}
	return warnings, nil
}

func attach(ctx context.Context, resolver driving.AttachmentResolver, index int, entry Entry, dir string) error {
	var err error
	if entry.ImageURL() {
		_, err = resolver.StageURL(ctx, index, entry.Image)
	} else {
		_, err = resolver.StageFile(ctx, index, entry.ImagePath(dir))
	}
	if err != nil {
		return err
	}
	_, err = resolver.Resolve(ctx, index)
	return err
}
