package clipboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

type call struct {
	name string
	args []string
}

func newTestReader(goos string, tools map[string]bool, env map[string]string) (*Reader, *[]call) {
	var calls []call
	r := &Reader{
		goos:   goos,
		getenv: func(k string) string { return env[k] },
		lookPath: func(name string) (string, error) {
			if tools[name] {
				return "/usr/bin/" + name, nil
			}
			return "", errors.New("not found")
		},
		run: func(_ context.Context, name string, args ...string) ([]byte, error) {
			calls = append(calls, call{name, args})
			return []byte("png"), nil
		},
	}
	return r, &calls
}

func TestNew(t *testing.T) {
	r := New()

	require.NotNil(t, r)
	assert.NotEmpty(t, r.goos)
	assert.NotNil(t, r.run)
}

func TestReadImage_CommandSelection(t *testing.T) {
	tests := []struct {
		name  string
		goos  string
		tools map[string]bool
		env   map[string]string
		want  string
	}{
		{"darwin pngpaste", osDarwin, map[string]bool{"pngpaste": true}, nil, "pngpaste"},
		{"linux x11", osLinux, map[string]bool{"xclip": true, "wl-paste": true}, nil, "xclip"},
		{"linux wayland", osLinux, map[string]bool{"xclip": true, "wl-paste": true}, map[string]string{"WAYLAND_DISPLAY": "wayland-0"}, "wl-paste"},
		{"linux wayland without wl-paste", osLinux, map[string]bool{"xclip": true}, map[string]string{"WAYLAND_DISPLAY": "wayland-0"}, "xclip"},
		{"windows", osWindows, nil, nil, "powershell"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, calls := newTestReader(tt.goos, tt.tools, tt.env)

			data, err := r.ReadImage(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []byte("png"), data)
			require.Len(t, *calls, 1)
			assert.Equal(t, tt.want, (*calls)[0].name)
		})
	}
}

func TestReadImage_XclipRequestsPNG(t *testing.T) {
	r, calls := newTestReader(osLinux, map[string]bool{"xclip": true}, nil)

	_, err := r.ReadImage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"-selection", "clipboard", "-t", "image/png", "-o"}, (*calls)[0].args)
}

func TestReadImage_NoTool(t *testing.T) {
	tests := []struct {
		name string
		goos string
	}{
		{"darwin", osDarwin},
		{"linux", osLinux},
		{"plan9", "plan9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, calls := newTestReader(tt.goos, nil, nil)

			_, err := r.ReadImage(context.Background())
			assert.ErrorIs(t, err, ErrUnavailable)
			assert.Empty(t, *calls)
		})
	}
}

func TestReadImage_ToolFails(t *testing.T) {
	r, _ := newTestReader(osLinux, map[string]bool{"xclip": true}, nil)
	r.run = func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("target image/png not available")
	}

	_, err := r.ReadImage(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidAttachmentType)
	assert.Contains(t, err.Error(), "target image/png not available")
}

func TestReadImage_Empty(t *testing.T) {
	r, _ := newTestReader(osWindows, nil, nil)
	r.run = func(context.Context, string, ...string) ([]byte, error) { return nil, nil }

	_, err := r.ReadImage(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidAttachmentType)
}

func TestReadImage_Cancelled(t *testing.T) {
	r, _ := newTestReader(osLinux, map[string]bool{"xclip": true}, nil)
	r.run = func(context.Context, string, ...string) ([]byte, error) { return nil, errors.New("killed") }
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.ReadImage(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunCommand_Missing(t *testing.T) {
	_, err := runCommand(context.Background(), "batchwriter-no-such-tool")
	assert.Error(t, err)
}
