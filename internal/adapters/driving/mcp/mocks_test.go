package mcp

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/batchwriter/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/batchwriter/internal/core/domain"
	"github.com/custodia-labs/batchwriter/internal/core/services"
)

// mockOrchestrator is a mock implementation of driving.JobOrchestrator.
type mockOrchestrator struct {
	mu        sync.Mutex
	state     domain.OrchestratorState
	view      domain.LedgerView
	outcome   domain.JobOutcome
	submitted int
	resumed   int
	retried   []string
	stopped   int
	err       error
	resumeJob *domain.LedgerView
}

func (m *mockOrchestrator) Submit(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	if m.state != "" && m.state != domain.StateIdle {
		return "", domain.ErrSubmissionInProgress
	}
	m.submitted++
	m.state = domain.StatePolling
	m.view = domain.LedgerView{JobID: "job-1", Status: domain.JobStatusRunning, Total: 2}
	return "job-1", nil
}

func (m *mockOrchestrator) Resume(_ context.Context) (domain.ResumeOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumed++
	if m.resumeJob == nil {
		return domain.ResumeNone, nil
	}
	m.view = *m.resumeJob
	m.state = domain.StatePolling
	return domain.ResumePolling, nil
}

func (m *mockOrchestrator) Track(_ context.Context, _ string) error {
	return nil
}

func (m *mockOrchestrator) RetryTopic(_ context.Context, topic string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.view.JobID == "" {
		return domain.ErrNoJob
	}
	m.retried = append(m.retried, topic)
	return nil
}

func (m *mockOrchestrator) DiscardError(_ string) bool { return false }

func (m *mockOrchestrator) Wait(_ context.Context) error { return nil }

func (m *mockOrchestrator) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped++
	m.state = domain.StateIdle
}

func (m *mockOrchestrator) State() domain.OrchestratorState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == "" {
		return domain.StateIdle
	}
	return m.state
}

func (m *mockOrchestrator) Ledger() domain.LedgerView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

func (m *mockOrchestrator) RetryPending(_ string) bool { return false }

func (m *mockOrchestrator) LastOutcome() domain.JobOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcome
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	records []domain.JobRecord
	limits  []int
	err     error
}

func (m *mockHistoryService) Recent(_ context.Context, limit int) ([]domain.JobRecord, error) {
	m.limits = append(m.limits, limit)
	return m.records, m.err
}

// mockArtifacts is a mock implementation of driving.ArtifactService.
type mockArtifacts struct {
	articles map[string]*domain.Article
	listing  []domain.ArtifactInfo
	listErr  error
}

func (m *mockArtifacts) List(_ context.Context, _ int) ([]domain.ArtifactInfo, error) {
	return m.listing, m.listErr
}

func (m *mockArtifacts) Download(_ context.Context, _, _ string) (string, error) {
	return "", domain.ErrNotFound
}

func (m *mockArtifacts) Read(_ context.Context, filename string) (*domain.Article, error) {
	a, ok := m.articles[filename]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (m *mockArtifacts) Open(_ context.Context, _ string) error { return nil }

// mockProber accepts every URL.
type mockProber struct{}

func (mockProber) Probe(_ context.Context, _ string) error { return nil }

// newWorkspace returns a real workspace over an in-memory store.
func newWorkspace(capacity int) *services.Workspace {
	return services.NewWorkspace(services.NewPersistence(memory.NewSnapshotStore(), time.Hour), capacity)
}
