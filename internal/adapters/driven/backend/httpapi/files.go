package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"sort"
	"time"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

// uploadResponse is the body returned by POST /api/upload-image.
type uploadResponse struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// artifactListResponse is the body of GET /api/history.
type artifactListResponse struct {
	Files []artifactEntry `json:"files"`
}

type artifactEntry struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Created  string `json:"created"`
	Title    string `json:"title"`
}

// createdLayout is the server's local-time timestamp format.
const createdLayout = "2006-01-02 15:04:05"

// UploadAttachment sends image bytes as the multipart field "image".
func (c *Client) UploadAttachment(ctx context.Context, data []byte, filename string) (*domain.UploadedFile, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrInvalidInput)
	}
	if filename == "" {
		filename = "image.png"
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPost, "/api/upload-image", &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out uploadResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	if out.Path == "" {
		return nil, fmt.Errorf("decode response: missing path")
	}
	return &domain.UploadedFile{StoragePath: out.Path, Filename: out.Filename}, nil
}

// DownloadArtifact streams a generated document into w.
func (c *Client) DownloadArtifact(ctx context.Context, filename string, w io.Writer) error {
	if filename == "" {
		return domain.ErrInvalidInput
	}
	resp, err := c.send(ctx, http.MethodGet, "/api/download/"+url.PathEscape(filename), nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("downloading %s: %w", filename, err)
	}
	return nil
}

// ListArtifacts lists the documents in the server's output directory.
// Entries with an unreadable timestamp keep a zero CreatedAt.
func (c *Client) ListArtifacts(ctx context.Context) ([]domain.ArtifactInfo, error) {
	var resp artifactListResponse
	if err := c.getJSON(ctx, "/api/history", &resp); err != nil {
		return nil, err
	}

	infos := make([]domain.ArtifactInfo, 0, len(resp.Files))
	for _, f := range resp.Files {
		if f.Filename == "" {
			continue
		}
		info := domain.ArtifactInfo{Filename: f.Filename, Title: f.Title, Size: f.Size}
		if created, err := time.ParseInLocation(createdLayout, f.Created, time.Local); err == nil {
			info.CreatedAt = created
		}
		infos = append(infos, info)
	}
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})
	return infos, nil
}
