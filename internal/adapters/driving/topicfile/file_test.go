package topicfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFile = `
enable_image: false
topics:
  - Go generics in practice
  - text: "  Rust ownership explained  "
    image: ./rust.png
  - text: WebAssembly outside the browser
    image: https://example.com/wasm.png
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sampleFile))
	require.NoError(t, err)

	require.NotNil(t, f.EnableImage)
	assert.False(t, *f.EnableImage)
	assert.Equal(t, []Entry{
		{Text: "Go generics in practice"},
		{Text: "Rust ownership explained", Image: "./rust.png"},
		{Text: "WebAssembly outside the browser", Image: "https://example.com/wasm.png"},
	}, f.Topics)
}

func TestParse_NoToggle(t *testing.T) {
	f, err := Parse([]byte("topics: [a, b]"))
	require.NoError(t, err)

	assert.Nil(t, f.EnableImage)
	assert.Len(t, f.Topics, 2)
}

func TestParse_EmptyTopic(t *testing.T) {
	_, err := Parse([]byte("topics:\n  - ok\n  - text: '   '\n"))
	assert.ErrorIs(t, err, ErrEmptyTopic)
	assert.Contains(t, err.Error(), "topic 2")
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("topics: [unterminated"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "topics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleFile), 0o600))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, f.Dir)
	assert.Len(t, f.Topics, 3)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEntry_Image(t *testing.T) {
	tests := []struct {
		name    string
		image   string
		isURL   bool
		resolve string
	}{
		{"relative path", "img/a.png", false, filepath.Join("/base", "img/a.png")},
		{"absolute path", "/abs/a.png", false, "/abs/a.png"},
		{"https url", "https://x.test/a.png", true, "https://x.test/a.png"},
		{"http url", "http://x.test/a.png", true, "http://x.test/a.png"},
		{"other scheme is a path", "ftp://x.test/a.png", false, filepath.Join("/base", "ftp://x.test/a.png")},
		{"empty", "", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Entry{Text: "t", Image: tt.image}
			assert.Equal(t, tt.isURL, e.ImageURL())
			assert.Equal(t, tt.resolve, e.ImagePath("/base"))
		})
	}
}
