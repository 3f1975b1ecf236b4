// Package clipboard reads images from the system clipboard using the
// platform's clipboard tools.
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.Clipboard = (*Reader)(nil)

// Operating system identifiers.
const (
	osDarwin  = "darwin"
	osLinux   = "linux"
	osWindows = "windows"
)

// ErrUnavailable is returned when no clipboard tool is installed.
var ErrUnavailable = errors.New("no clipboard image tool found")

const windowsScript = `Add-Type -AssemblyName System.Windows.Forms;` +
	`$img = [System.Windows.Forms.Clipboard]::GetImage();` +
	`if ($img) { $ms = New-Object System.IO.MemoryStream;` +
	`$img.Save($ms, [System.Drawing.Imaging.ImageFormat]::Png);` +
	`$out = [Console]::OpenStandardOutput(); $out.Write($ms.ToArray(), 0, $ms.Length) }`

// Reader reads PNG images from the clipboard.
type Reader struct {
	goos     string
	getenv   func(string) string
	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// New creates a clipboard reader for the current platform.
func New() *Reader {
	return &Reader{
		goos:     runtime.GOOS,
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		run:      runCommand,
	}
}

// ReadImage returns the PNG image on the clipboard.
func (r *Reader) ReadImage(ctx context.Context) ([]byte, error) {
	name, args, err := r.command()
	if err != nil {
		return nil, err
	}
	out, err := r.run(ctx, name, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidAttachmentType, name, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: clipboard holds no image", domain.ErrInvalidAttachmentType)
	}
	return out, nil
}

// command picks the tool that dumps the clipboard image to stdout.
func (r *Reader) command() (string, []string, error) {
	switch r.goos {
	case osDarwin:
		if _, err := r.lookPath("pngpaste"); err == nil {
			return "pngpaste", []string{"-"}, nil
		}
		return "", nil, fmt.Errorf("%w (install pngpaste)", ErrUnavailable)
	case osLinux:
		if r.getenv("WAYLAND_DISPLAY") != "" {
			if _, err := r.lookPath("wl-paste"); err == nil {
				return "wl-paste", []string{"--no-newline", "--type", "image/png"}, nil
			}
		}
		if _, err := r.lookPath("xclip"); err == nil {
			return "xclip", []string{"-selection", "clipboard", "-t", "image/png", "-o"}, nil
		}
		return "", nil, fmt.Errorf("%w (install xclip or wl-clipboard)", ErrUnavailable)
	case osWindows:
		return "powershell", []string{"-NoProfile", "-NonInteractive", "-Command", windowsScript}, nil
	default:
		return "", nil, fmt.Errorf("%w: unsupported platform %s", ErrUnavailable, r.goos)
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
