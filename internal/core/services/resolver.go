package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driven"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driving"
	"github.com/custodia-labs/batchwriter/internal/logger"
)

// Ensure Resolver implements the interface.
var _ driving.AttachmentResolver = (*Resolver)(nil)

// DefaultProbeTimeout bounds a URL probe when none is configured.
const DefaultProbeTimeout = 10 * time.Second

// Resolver stages attachments on workspace slots and resolves them.
//
// Staging is synchronous and local. Resolution talks to the network: byte
// attachments are uploaded to the backend, URL attachments are probed.
// A resolution result is applied only if the slot still holds the same
// staged attachment.
type Resolver struct {
	workspace    driving.TopicWorkspace
	backend      driven.GenerationBackend
	prober       driven.ImageProber
	clipboard    driven.Clipboard
	probeTimeout time.Duration
	now          func() time.Time
	newID        func() string
}

// NewResolver creates an attachment resolver.
func NewResolver(
	workspace driving.TopicWorkspace,
	backend driven.GenerationBackend,
	prober driven.ImageProber,
	probeTimeout time.Duration,
) *Resolver {
	if probeTimeout <= 0 {
		probeTimeout = DefaultProbeTimeout
	}
	return &Resolver{
		workspace:    workspace,
		backend:      backend,
		prober:       prober,
		probeTimeout: probeTimeout,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// StageFile reads an image file and stages it on the slot.
func (r *Resolver) StageFile(ctx context.Context, index int, path string) (*domain.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image file: %w", err)
	}
	return r.stageBytes(ctx, index, domain.AttachmentUpload, filepath.Base(path), data)
}

// StageClipboard stages pasted image bytes on the slot.
func (r *Resolver) StageClipboard(ctx context.Context, index int, data []byte) (*domain.Attachment, error) {
	name := fmt.Sprintf("clipboard_%d.png", r.now().UnixMilli())
	return r.stageBytes(ctx, index, domain.AttachmentClipboard, name, data)
}

// SetClipboard sets the system clipboard used by PasteClipboard.
func (r *Resolver) SetClipboard(clipboard driven.Clipboard) {
	r.clipboard = clipboard
}

// PasteClipboard reads an image from the system clipboard and stages it.
func (r *Resolver) PasteClipboard(ctx context.Context, index int) (*domain.Attachment, error) {
	if r.clipboard == nil {
		return nil, errors.New("clipboard not available")
	}
	data, err := r.clipboard.ReadImage(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading clipboard: %w", err)
	}
	return r.StageClipboard(ctx, index, data)
}

// StageURL validates an absolute URL and stages it on the slot.
func (r *Resolver) StageURL(ctx context.Context, index int, rawURL string) (*domain.Attachment, error) {
	rawURL = strings.TrimSpace(rawURL)
	if err := validateImageURL(rawURL); err != nil {
		return nil, err
	}
	a := &domain.Attachment{
		ID:    r.newID(),
		Kind:  domain.AttachmentURL,
		State: domain.AttachmentStaged,
		URL:   rawURL,
	}
	if err := r.workspace.PutAttachment(ctx, index, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Resolve uploads staged bytes or probes a staged URL.
// On failure the attachment stays staged and is never submitted.
func (r *Resolver) Resolve(ctx context.Context, index int) (*domain.Attachment, error) {
	slot, ok := r.workspace.Slot(index)
	if !ok {
		return nil, fmt.Errorf("slot %d: %w", index, domain.ErrNotFound)
	}
	a := slot.Attachment
	if a == nil {
		return nil, fmt.Errorf("slot %d has no attachment: %w", index, domain.ErrNotFound)
	}
	if a.IsResolved() {
		return a, nil
	}

	if a.Kind == domain.AttachmentURL {
		return r.resolveURL(ctx, index, a)
	}
	return r.resolveUpload(ctx, index, a)
}

// Clear removes the slot's attachment.
func (r *Resolver) Clear(ctx context.Context, index int) error {
	return r.workspace.ClearAttachment(ctx, index)
}

func (r *Resolver) stageBytes(
	ctx context.Context,
	index int,
	kind domain.AttachmentKind,
	name string,
	data []byte,
) (*domain.Attachment, error) {
	contentType, ok := detectImageType(name, data)
	if !ok {
		return nil, fmt.Errorf("%w: %s (%s)", domain.ErrInvalidAttachmentType, name, contentType)
	}
	a := &domain.Attachment{
		ID:          r.newID(),
		Kind:        kind,
		State:       domain.AttachmentStaged,
		Filename:    name,
		ContentType: contentType,
		Data:        data,
		Preview:     "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data),
	}
	if err := r.workspace.PutAttachment(ctx, index, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Resolver) resolveUpload(ctx context.Context, index int, a *domain.Attachment) (*domain.Attachment, error) {
	uploaded, err := r.backend.UploadAttachment(ctx, a.Data, a.Filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUploadFailed, err)
	}

	var resolved *domain.Attachment
	err = r.workspace.UpdateAttachment(ctx, index, a.ID, func(cur *domain.Attachment) {
		cur.State = domain.AttachmentResolved
		cur.StoragePath = uploaded.StoragePath
		if uploaded.Filename != "" {
			cur.Filename = uploaded.Filename
		}
		cur.Data = nil
		resolved = cur.Clone()
	})
	if err != nil {
		return nil, replacedError(index, err)
	}
	logger.Debug("attachment %s for slot %d stored at %s", a.Filename, index, uploaded.StoragePath)
	return resolved, nil
}

func (r *Resolver) resolveURL(ctx context.Context, index int, a *domain.Attachment) (*domain.Attachment, error) {
	probeCtx, cancel := context.WithTimeout(ctx, r.probeTimeout)
	probeErr := r.prober.Probe(probeCtx, a.URL)
	cancel()

	var result *domain.Attachment
	err := r.workspace.UpdateAttachment(ctx, index, a.ID, func(cur *domain.Attachment) {
		if probeErr != nil {
			cur.State = domain.AttachmentStaged
			cur.URLStatus = domain.URLStatusUnreachable
			cur.Preview = ""
		} else {
			cur.State = domain.AttachmentResolved
			cur.URLStatus = domain.URLStatusLoaded
			cur.Preview = cur.URL
		}
		result = cur.Clone()
	})
	if err != nil {
		return nil, replacedError(index, err)
	}
	if probeErr != nil {
		return result, fmt.Errorf("%w: %w", domain.ErrUnreachableImage, probeErr)
	}
	return result, nil
}

func replacedError(index int, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("attachment on slot %d was replaced while resolving: %w", index, err)
	}
	return err
}

// validateImageURL accepts only absolute http(s) URLs.
func validateImageURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: empty", domain.ErrInvalidURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: %q is not absolute", domain.ErrInvalidURL, rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", domain.ErrInvalidURL, u.Scheme)
	}
	return nil
}

// detectImageType sniffs the content and falls back to the file extension
// only when sniffing is inconclusive.
func detectImageType(name string, data []byte) (string, bool) {
	if len(data) == 0 {
		return "empty", false
	}
	sniffed := http.DetectContentType(data)
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed, true
	}
	if sniffed == "application/octet-stream" {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); strings.HasPrefix(byExt, "image/") {
			return byExt, true
		}
	}
	return sniffed, false
}
