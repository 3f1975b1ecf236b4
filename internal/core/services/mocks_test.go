package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driven"
)

var errBoom = errors.New("boom")

// --- Mock implementations for batch generation testing ---

// mockSnapshotStore implements driven.SnapshotStore for testing.
type mockSnapshotStore struct {
	mu        sync.Mutex
	snapshot  *domain.PersistedSnapshot
	handle    *domain.JobHandle
	saves     int
	saveErr   error
	loadErr   error
	handleErr error
}

var _ driven.SnapshotStore = (*mockSnapshotStore)(nil)

func newMockSnapshotStore() *mockSnapshotStore {
	return &mockSnapshotStore{}
}

func (m *mockSnapshotStore) SaveSnapshot(_ context.Context, snap *domain.PersistedSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	c := *snap
	c.Topics = append([]domain.SnapshotTopic(nil), snap.Topics...)
	m.snapshot = &c
	m.saves++
	return nil
}

func (m *mockSnapshotStore) LoadSnapshot(_ context.Context) (*domain.PersistedSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.snapshot == nil {
		return nil, nil
	}
	c := *m.snapshot
	return &c, nil
}

func (m *mockSnapshotStore) ClearSnapshot(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = nil
	return nil
}

func (m *mockSnapshotStore) SaveJobHandle(_ context.Context, handle *domain.JobHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handleErr != nil {
		return m.handleErr
	}
	c := *handle
	m.handle = &c
	return nil
}

func (m *mockSnapshotStore) LoadJobHandle(_ context.Context) (*domain.JobHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handle == nil {
		return nil, nil
	}
	c := *m.handle
	return &c, nil
}

func (m *mockSnapshotStore) ClearJobHandle(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handle = nil
	return nil
}

func (m *mockSnapshotStore) currentHandle() *domain.JobHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handle
}

func (m *mockSnapshotStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// mockHistoryStore implements driven.JobHistoryStore for testing.
type mockHistoryStore struct {
	mu      sync.Mutex
	records map[string]domain.JobRecord
	pruned  int
	saveErr error
}

var _ driven.JobHistoryStore = (*mockHistoryStore)(nil)

func newMockHistoryStore() *mockHistoryStore {
	return &mockHistoryStore{records: make(map[string]domain.JobRecord)}
}

func (m *mockHistoryStore) RecordJob(_ context.Context, record *domain.JobRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records[record.JobID] = *record
	return nil
}

func (m *mockHistoryStore) ListJobs(_ context.Context, limit int) ([]domain.JobRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.JobRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FinishedAt.After(out[j].FinishedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockHistoryStore) PruneHistory(_ context.Context, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruned++
	return nil
}

func (m *mockHistoryStore) record(jobID string) (domain.JobRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[jobID]
	return r, ok
}

// mockBackend implements driven.GenerationBackend for testing.
// Status responses are served from a per-job queue; the last entry repeats.
type mockBackend struct {
	mu          sync.Mutex
	configured  bool
	checkErr    error
	createErr   error
	nextJobID   string
	created     []domain.JobRequest
	statuses    map[string][]statusReply
	statusCalls map[string]int
	retries     []string
	retryErr    error
	retryBlock  chan struct{}
	onRetry     func(jobID, topic string) // runs with mu held
	uploadErr   error
	uploads     []string
	uploadGate  chan struct{}
	uploadCalls int
	artifacts   map[string]string
	listing     []domain.ArtifactInfo
	listErr     error
}

type statusReply struct {
	job *domain.Job
	err error
}

var _ driven.GenerationBackend = (*mockBackend)(nil)

func newMockBackend() *mockBackend {
	return &mockBackend{
		configured:  true,
		nextJobID:   "job-1",
		statuses:    make(map[string][]statusReply),
		statusCalls: make(map[string]int),
		artifacts:   make(map[string]string),
	}
}

func (m *mockBackend) queueStatus(jobID string, replies ...statusReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[jobID] = append(m.statuses[jobID], replies...)
}

func (m *mockBackend) setStatus(jobID string, reply statusReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[jobID] = []statusReply{reply}
}

func (m *mockBackend) CheckPrerequisites(_ context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.configured, m.checkErr
}

func (m *mockBackend) CreateJob(_ context.Context, req domain.JobRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return "", m.createErr
	}
	m.created = append(m.created, req)
	return m.nextJobID, nil
}

func (m *mockBackend) GetJobStatus(_ context.Context, jobID string) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusCalls[jobID]++
	queue := m.statuses[jobID]
	if len(queue) == 0 {
		return nil, domain.ErrNotFound
	}
	reply := queue[0]
	if len(queue) > 1 {
		m.statuses[jobID] = queue[1:]
	}
	if reply.err != nil {
		return nil, reply.err
	}
	return reply.job.Clone(), nil
}

func (m *mockBackend) RetryTopic(_ context.Context, jobID, topic string) error {
	m.mu.Lock()
	block := m.retryBlock
	m.mu.Unlock()
	if block != nil {
		<-block
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.retryErr != nil {
		return m.retryErr
	}
	m.retries = append(m.retries, topic)
	if m.onRetry != nil {
		m.onRetry(jobID, topic)
	}
	return nil
}

func (m *mockBackend) UploadAttachment(_ context.Context, _ []byte, filename string) (*domain.UploadedFile, error) {
	m.mu.Lock()
	m.uploadCalls++
	gate := m.uploadGate
	m.mu.Unlock()
	if gate != nil {
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.uploads = append(m.uploads, filename)
	return &domain.UploadedFile{StoragePath: "/uploads/srv_" + filename, Filename: "srv_" + filename}, nil
}

func (m *mockBackend) DownloadArtifact(_ context.Context, filename string, w io.Writer) error {
	m.mu.Lock()
	body, ok := m.artifacts[filename]
	m.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}
	_, err := io.WriteString(w, body)
	return err
}

func (m *mockBackend) ListArtifacts(_ context.Context) ([]domain.ArtifactInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]domain.ArtifactInfo(nil), m.listing...), nil
}

func (m *mockBackend) calls(jobID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusCalls[jobID]
}

func (m *mockBackend) createdRequests() []domain.JobRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.JobRequest(nil), m.created...)
}

func (m *mockBackend) uploadsStarted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploadCalls
}

func (m *mockBackend) retried() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.retries...)
}

// mockProber implements driven.ImageProber for testing.
type mockProber struct {
	mu    sync.Mutex
	err   error
	urls  []string
	delay time.Duration
}

var _ driven.ImageProber = (*mockProber)(nil)

func (m *mockProber) Probe(ctx context.Context, url string) error {
	m.mu.Lock()
	m.urls = append(m.urls, url)
	err, delay := m.err, m.delay
	m.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// mockClipboard implements driven.Clipboard for testing.
type mockClipboard struct {
	data []byte
	err  error
}

var _ driven.Clipboard = (*mockClipboard)(nil)

func (m *mockClipboard) ReadImage(context.Context) ([]byte, error) {
	return m.data, m.err
}

// eventRecorder collects published events.
type eventRecorder struct {
	mu     sync.Mutex
	events []domain.JobEvent
}

func (r *eventRecorder) Publish(e domain.JobEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) kinds() []domain.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func (r *eventRecorder) has(kind domain.EventKind) bool {
	for _, k := range r.kinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// mockConfigStore implements driven.ConfigStore for testing.
type mockConfigStore struct {
	mu     sync.Mutex
	values map[string]any
	setErr error
}

var _ driven.ConfigStore = (*mockConfigStore)(nil)

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	v, _ := m.Get(key)
	s, _ := v.(string)
	return s
}

func (m *mockConfigStore) GetInt(key string) int {
	v, _ := m.Get(key)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	}
	return 0
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	v, _ := m.Get(key)
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func (m *mockConfigStore) GetDuration(key string) time.Duration {
	d, err := time.ParseDuration(m.GetString(key))
	if err != nil {
		return 0
	}
	return d
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *mockConfigStore) Path() string {
	return "/tmp/batchwriter/config.toml"
}

// running builds a running job snapshot.
func running(id string, total int, percent float64, results []domain.ArticleResult, errs []domain.TopicError) *domain.Job {
	return &domain.Job{
		ID:              id,
		Status:          domain.JobStatusRunning,
		Total:           total,
		ProgressPercent: percent,
		Results:         results,
		Errors:          errs,
	}
}

// completed builds a completed job snapshot.
func completed(id string, total int, results []domain.ArticleResult, errs []domain.TopicError) *domain.Job {
	return &domain.Job{
		ID:              id,
		Status:          domain.JobStatusCompleted,
		Total:           total,
		ProgressPercent: 100,
		Results:         results,
		Errors:          errs,
	}
}
