package driven

import "context"

// ImageProber checks that an image can be loaded from a URL.
type ImageProber interface {
	// Probe returns nil if rawURL serves an image.
	// Implementations must honour ctx cancellation.
	Probe(ctx context.Context, rawURL string) error
}
