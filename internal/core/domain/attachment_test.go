package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachmentKind_IsBytes(t *testing.T) {
	assert.True(t, AttachmentUpload.IsBytes())
	assert.True(t, AttachmentClipboard.IsBytes())
	assert.False(t, AttachmentURL.IsBytes())
}

func TestAttachment_IsResolved(t *testing.T) {
	tests := []struct {
		name string
		att  *Attachment
		want bool
	}{
		{"nil", nil, false},
		{"staged upload", &Attachment{Kind: AttachmentUpload, State: AttachmentStaged}, false},
		{"resolved upload without path", &Attachment{Kind: AttachmentUpload, State: AttachmentResolved}, false},
		{"resolved upload", &Attachment{Kind: AttachmentUpload, State: AttachmentResolved, StoragePath: "p"}, true},
		{"resolved clipboard", &Attachment{Kind: AttachmentClipboard, State: AttachmentResolved, StoragePath: "p"}, true},
		{"staged url", &Attachment{Kind: AttachmentURL, State: AttachmentStaged, URL: "https://a/b.png"}, false},
		{"resolved url", &Attachment{Kind: AttachmentURL, State: AttachmentResolved, URL: "https://a/b.png"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.att.IsResolved())
		})
	}
}

func TestAttachment_Ref(t *testing.T) {
	ref, ok := (&Attachment{Kind: AttachmentURL, State: AttachmentResolved, URL: "https://a/b.png"}).Ref()
	require.True(t, ok)
	assert.Equal(t, RefModeURL, ref.Mode)
	assert.Equal(t, "https://a/b.png", ref.URL)

	_, ok = (&Attachment{Kind: AttachmentUpload, State: AttachmentStaged}).Ref()
	assert.False(t, ok)
}

func TestAttachmentMeta_Restore(t *testing.T) {
	t.Run("uploaded path comes back resolved", func(t *testing.T) {
		meta := &AttachmentMeta{Kind: AttachmentClipboard, State: AttachmentResolved, Filename: "clip.png", UploadedPath: "uploads/clip.png"}
		a, ok := meta.Restore("id-1")
		require.True(t, ok)
		assert.Equal(t, "id-1", a.ID)
		assert.True(t, a.IsResolved())
		assert.Equal(t, "uploads/clip.png", a.StoragePath)
		assert.Nil(t, a.Data)
	})

	t.Run("url without preview uses url", func(t *testing.T) {
		meta := &AttachmentMeta{Kind: AttachmentURL, URL: "https://a/b.png"}
		a, ok := meta.Restore("id-2")
		require.True(t, ok)
		assert.Equal(t, "https://a/b.png", a.Preview)
		assert.Equal(t, URLStatusLoaded, a.URLStatus)
	})

	t.Run("staged is dropped", func(t *testing.T) {
		meta := &AttachmentMeta{Kind: AttachmentUpload, State: AttachmentStaged, Filename: "x.png"}
		_, ok := meta.Restore("id")
		assert.False(t, ok)
	})

	t.Run("upload without path is dropped", func(t *testing.T) {
		_, ok := (&AttachmentMeta{Kind: AttachmentUpload}).Restore("id")
		assert.False(t, ok)
	})

	t.Run("unknown kind is dropped", func(t *testing.T) {
		_, ok := (&AttachmentMeta{Kind: "camera", UploadedPath: "p"}).Restore("id")
		assert.False(t, ok)
	})
}
