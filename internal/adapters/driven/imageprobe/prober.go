// Package imageprobe checks that a URL serves a loadable image.
package imageprobe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/batchwriter/internal/core/ports/driven"
)

// Ensure Prober implements the interface.
var _ driven.ImageProber = (*Prober)(nil)

// DefaultTimeout bounds a probe when the caller's context has no deadline.
const DefaultTimeout = 10 * time.Second

// sniffLen is how much of the body is read to detect the content type.
const sniffLen = 512

// ErrNotImage is returned when the URL serves something other than an image.
var ErrNotImage = errors.New("resource is not an image")

// Config holds configuration for the prober.
type Config struct {
	Timeout    time.Duration
	HTTPClient *http.Client
	UserAgent  string
}

// Prober loads the start of a resource and checks it is an image.
type Prober struct {
	client    *http.Client
	userAgent string
}

// New creates an image prober.
func New(cfg Config) *Prober {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "batchwriter"
	}
	return &Prober{client: client, userAgent: cfg.UserAgent}
}

// Probe returns nil if rawURL serves an image.
func (p *Prober) Probe(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fetching image: status %d", resp.StatusCode)
	}

	head, err := io.ReadAll(io.LimitReader(resp.Body, sniffLen))
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}
	if len(head) == 0 {
		return fmt.Errorf("%w: empty body", ErrNotImage)
	}

	if isImageType(resp.Header.Get("Content-Type")) {
		return nil
	}
	if detected := http.DetectContentType(head); isImageType(detected) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotImage, resp.Header.Get("Content-Type"))
}

func isImageType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "image/")
}
