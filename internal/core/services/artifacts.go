package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driven"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driving"
	"github.com/custodia-labs/batchwriter/internal/logger"
)

// Operating system identifiers.
const (
	osDarwin  = "darwin"
	osLinux   = "linux"
	osWindows = "windows"
)

// Ensure ArtifactService implements the interface.
var _ driving.ArtifactService = (*ArtifactService)(nil)

// ArtifactService downloads generated documents and opens them.
type ArtifactService struct {
	backend    driven.GenerationBackend
	normaliser driven.Normaliser
	open       func(path string) error
}

// NewArtifactService creates a new artifact service.
func NewArtifactService(backend driven.GenerationBackend) *ArtifactService {
	return &ArtifactService{
		backend: backend,
		open:    openPath,
	}
}

// Download saves a generated document into dir and returns its path.
// The file only appears under its final name once fully written.
func (s *ArtifactService) Download(ctx context.Context, filename, dir string) (string, error) {
	if err := validateArtifactName(filename); err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating download directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("creating download file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmpPath != "" {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := s.backend.DownloadArtifact(ctx, filename, tmp); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing %s: %w", filename, err)
	}

	dest := filepath.Join(dir, filename)
	if err := os.Rename(tmpPath, dest); err != nil {
		return "", fmt.Errorf("saving %s: %w", filename, err)
	}
	tmpPath = ""
	logger.Debug("downloaded %s to %s", filename, dest)
	return dest, nil
}

// List returns up to limit documents held by the server, newest first.
// A limit of zero or less returns all of them.
func (s *ArtifactService) List(ctx context.Context, limit int) ([]domain.ArtifactInfo, error) {
	infos, err := s.backend.ListArtifacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	if limit > 0 && len(infos) > limit {
		infos = infos[:limit]
	}
	return infos, nil
}

// SetNormaliser sets the normaliser used by Read.
func (s *ArtifactService) SetNormaliser(n driven.Normaliser) {
	s.normaliser = n
}

// Read fetches a generated document into memory and returns its text.
func (s *ArtifactService) Read(ctx context.Context, filename string) (*domain.Article, error) {
	if s.normaliser == nil {
		return nil, errors.New("no document reader configured")
	}
	if err := validateArtifactName(filename); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.backend.DownloadArtifact(ctx, filename, &buf); err != nil {
		return nil, err
	}
	logger.Debug("read %s (%d bytes)", filename, buf.Len())
	return s.normaliser.Normalise(ctx, filename, buf.Bytes())
}

// Open opens a downloaded document in the default application.
func (s *ArtifactService) Open(_ context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	return s.open(path)
}

// validateArtifactName rejects names that would escape the download directory.
func validateArtifactName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("%w: artifact name %q", domain.ErrInvalidInput, name)
	}
	return nil
}

// openPath opens a file with the platform's default application.
func openPath(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case osDarwin:
		cmd = exec.Command("open", path)
	case osLinux:
		cmd = exec.Command("xdg-open", path)
	case osWindows:
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
