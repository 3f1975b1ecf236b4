package topicfile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/batchwriter/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/batchwriter/internal/core/domain"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driving"
	"github.com/custodia-labs/batchwriter/internal/core/services"
)

// stubResolver records staging calls.
type stubResolver struct {
	mu         sync.Mutex
	files      map[int]string
	urls       map[int]string
	resolved   []int
	resolveErr error
}

var _ driving.AttachmentResolver = (*stubResolver)(nil)

func newStubResolver() *stubResolver {
	return &stubResolver{files: map[int]string{}, urls: map[int]string{}}
}

func (s *stubResolver) StageFile(_ context.Context, index int, path string) (*domain.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[index] = path
	return &domain.Attachment{}, nil
}

func (s *stubResolver) StageClipboard(context.Context, int, []byte) (*domain.Attachment, error) {
	return nil, errors.New("not used")
}

func (s *stubResolver) PasteClipboard(context.Context, int) (*domain.Attachment, error) {
	return nil, errors.New("not used")
}

func (s *stubResolver) StageURL(_ context.Context, index int, rawURL string) (*domain.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls[index] = rawURL
	return &domain.Attachment{}, nil
}

func (s *stubResolver) Resolve(_ context.Context, index int) (*domain.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolved = append(s.resolved, index)
	return &domain.Attachment{}, s.resolveErr
}

func (s *stubResolver) Clear(context.Context, int) error { return nil }

func newWorkspace(capacity int) *services.Workspace {
	return services.NewWorkspace(services.NewPersistence(memory.NewSnapshotStore(), 0), capacity)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	ws := newWorkspace(5)
	_, err := ws.AddSlot(ctx)
	require.NoError(t, err)
	res := newStubResolver()

	f, err := Parse([]byte(sampleFile))
	require.NoError(t, err)
	f.Dir = "/topics"

	warnings, err := Apply(ctx, f, ws, res)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	slots := ws.Slots()
	require.Len(t, slots, 3)
	assert.Equal(t, "Go generics in practice", slots[0].Text)
	assert.Equal(t, "Rust ownership explained", slots[1].Text)
	assert.Equal(t, "WebAssembly outside the browser", slots[2].Text)
	assert.False(t, ws.EnableImage())

	assert.Equal(t, map[int]string{slots[1].Index: "/topics/rust.png"}, res.files)
	assert.Equal(t, map[int]string{slots[2].Index: "https://example.com/wasm.png"}, res.urls)
	assert.Equal(t, []int{slots[1].Index, slots[2].Index}, res.resolved)
}

func TestApply_KeepsToggleWhenUnset(t *testing.T) {
	ctx := context.Background()
	ws := newWorkspace(5)
	ws.SetEnableImage(ctx, false)

	f, err := Parse([]byte("topics: [one]"))
	require.NoError(t, err)

	_, err = Apply(ctx, f, ws, newStubResolver())
	require.NoError(t, err)
	assert.False(t, ws.EnableImage())
}

func TestApply_CapacityExceeded(t *testing.T) {
	ctx := context.Background()
	ws := newWorkspace(2)
	require.NoError(t, ws.SetText(ctx, ws.Slots()[0].Index, "keep me"))

	f, err := Parse([]byte("topics: [a, b, c]"))
	require.NoError(t, err)

	_, err = Apply(ctx, f, ws, newStubResolver())
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
	assert.Equal(t, "keep me", ws.Slots()[0].Text)
}

func TestApply_ImageFailureIsWarning(t *testing.T) {
	ctx := context.Background()
	ws := newWorkspace(5)
	res := newStubResolver()
	res.resolveErr = domain.ErrUnreachableImage

	f, err := Parse([]byte("topics:\n  - text: a\n    image: https://x.test/a.png\n  - b\n"))
	require.NoError(t, err)

	warnings, err := Apply(ctx, f, ws, res)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, 0, warnings[0].Position)
	assert.ErrorIs(t, warnings[0].Err, domain.ErrUnreachableImage)
	assert.Contains(t, warnings[0].Error(), "topic 1 (a)")
	assert.Len(t, ws.Slots(), 2)
}

func TestApply_EmptyFileClears(t *testing.T) {
	ctx := context.Background()
	ws := newWorkspace(5)
	require.NoError(t, ws.SetText(ctx, ws.Slots()[0].Index, "old"))

	_, err := Apply(ctx, &File{}, ws, newStubResolver())
	require.NoError(t, err)

	slots := ws.Slots()
	require.Len(t, slots, 1)
	assert.Empty(t, slots[0].Text)
}
