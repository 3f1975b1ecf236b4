package domain

import "strings"

// AttachmentKind identifies how an image attachment was acquired.
type AttachmentKind string

const (
	// AttachmentUpload is a local image file chosen by the user.
	AttachmentUpload AttachmentKind = "upload"

	// AttachmentClipboard is image data pasted from the clipboard.
	AttachmentClipboard AttachmentKind = "clipboard"

	// AttachmentURL is a remote image referenced by URL.
	AttachmentURL AttachmentKind = "url"
)

// IsBytes reports whether the attachment carries raw image bytes that need uploading.
func (k AttachmentKind) IsBytes() bool {
	return k == AttachmentUpload || k == AttachmentClipboard
}

// AttachmentState tracks whether an attachment is safe to submit.
type AttachmentState string

const (
	// AttachmentStaged is captured locally but not yet confirmed usable.
	AttachmentStaged AttachmentState = "staged"

	// AttachmentResolved is stored on the backend or confirmed loadable.
	AttachmentResolved AttachmentState = "resolved"
)

// URLStatus is the outcome of the last load probe for a URL attachment.
type URLStatus string

const (
	URLStatusPending     URLStatus = ""
	URLStatusLoaded      URLStatus = "loaded"
	URLStatusUnreachable URLStatus = "unreachable"
)

// Attachment is an image paired with a topic slot.
type Attachment struct {
	// ID identifies this particular staging. A replacement gets a new ID,
	// so late resolution results for the old one can be told apart.
	ID string

	Kind  AttachmentKind
	State AttachmentState

	// Filename is the human-readable name. For uploads it becomes the
	// server-assigned name once resolved.
	Filename string

	// ContentType is the detected MIME type of Data.
	ContentType string

	// Data holds the raw bytes for upload and clipboard attachments.
	// It is never persisted.
	Data []byte

	// Preview is a data URI for byte attachments, or the URL itself once a
	// URL attachment has loaded.
	Preview string

	// StoragePath is the backend path returned by the upload.
	StoragePath string

	// URL is the typed-in address for URL attachments. It is kept even when
	// the probe fails so it can be edited and retried.
	URL string

	URLStatus URLStatus
}

// IsResolved reports whether the attachment may be included in a submission.
func (a *Attachment) IsResolved() bool {
	if a == nil || a.State != AttachmentResolved {
		return false
	}
	if a.Kind == AttachmentURL {
		return a.URL != ""
	}
	return a.StoragePath != ""
}

// Ref returns the submission reference for a resolved attachment.
func (a *Attachment) Ref() (AttachmentRef, bool) {
	if !a.IsResolved() {
		return AttachmentRef{}, false
	}
	if a.Kind == AttachmentURL {
		return AttachmentRef{Mode: RefModeURL, URL: a.URL}, true
	}
	return AttachmentRef{Mode: RefModeUploaded, Path: a.StoragePath}, true
}

// Meta returns the persistable part of the attachment.
func (a *Attachment) Meta() *AttachmentMeta {
	if a == nil {
		return nil
	}
	return &AttachmentMeta{
		Kind:         a.Kind,
		State:        a.State,
		Filename:     a.Filename,
		UploadedPath: a.StoragePath,
		URL:          a.URL,
		Preview:      a.Preview,
	}
}

// Clone returns a copy that does not share the byte slice.
func (a *Attachment) Clone() *Attachment {
	if a == nil {
		return nil
	}
	c := *a
	if a.Data != nil {
		c.Data = append([]byte(nil), a.Data...)
	}
	return &c
}

// RefMode is the wire mode of an attachment reference in a job request.
type RefMode string

const (
	RefModeUploaded RefMode = "uploaded"
	RefModeURL      RefMode = "url"
)

// AttachmentRef points the backend at an already usable image.
type AttachmentRef struct {
	Mode RefMode
	Path string
	URL  string
}

// AttachmentMeta is what survives of an attachment across restarts.
type AttachmentMeta struct {
	Kind         AttachmentKind  `json:"type"`
	State        AttachmentState `json:"state,omitempty"`
	Filename     string          `json:"filename,omitempty"`
	UploadedPath string          `json:"uploaded_path,omitempty"`
	URL          string          `json:"url,omitempty"`
	Preview      string          `json:"preview,omitempty"`
}

// Restore rebuilds a resolved attachment from persisted metadata.
// Metadata that never resolved cannot be restored, since its bytes were not kept.
func (m *AttachmentMeta) Restore(id string) (*Attachment, bool) {
	if m == nil {
		return nil, false
	}
	if m.State != "" && m.State != AttachmentResolved {
		return nil, false
	}
	a := &Attachment{
		ID:       id,
		Kind:     m.Kind,
		State:    AttachmentResolved,
		Filename: m.Filename,
		Preview:  m.Preview,
	}
	switch {
	case m.Kind.IsBytes():
		if strings.TrimSpace(m.UploadedPath) == "" {
			return nil, false
		}
		a.StoragePath = m.UploadedPath
	case m.Kind == AttachmentURL:
		if strings.TrimSpace(m.URL) == "" {
			return nil, false
		}
		a.URL = m.URL
		a.URLStatus = URLStatusLoaded
		if a.Preview == "" {
			a.Preview = m.URL
		}
	default:
		return nil, false
	}
	return a, true
}

// UploadedFile is the backend's answer to an attachment upload.
type UploadedFile struct {
	StoragePath string
	Filename    string
}
