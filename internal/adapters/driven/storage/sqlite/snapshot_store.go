package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driven"
	"github.com/custodia-labs/batchwriter/internal/logger"
)

// Keys of the client_state table.
const (
	keySnapshot  = "topic_snapshot"
	keyJobHandle = "job_handle"
)

// snapshotStore implements driven.SnapshotStore on the client_state table.
type snapshotStore struct {
	store *Store
}

var _ driven.SnapshotStore = (*snapshotStore)(nil)

// jobHandlePayload is the stored form of a job handle.
type jobHandlePayload struct {
	JobID string `json:"job_id"`
}

// SaveSnapshot overwrites the stored topic snapshot.
func (s *snapshotStore) SaveSnapshot(ctx context.Context, snap *domain.PersistedSnapshot) error {
	if snap == nil {
		return domain.ErrInvalidInput
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return s.put(ctx, keySnapshot, payload, snap.SchemaVersion, formatTime(snap.SavedAt))
}

// LoadSnapshot returns the stored topic snapshot.
// Returns nil and no error if none exists or it cannot be decoded.
func (s *snapshotStore) LoadSnapshot(ctx context.Context) (*domain.PersistedSnapshot, error) {
	payload, version, savedAt, err := s.get(ctx, keySnapshot)
	if err != nil || payload == nil {
		return nil, err
	}

	var snap domain.PersistedSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		logger.Warn("discarding unreadable topic snapshot: %v", err)
		return nil, nil
	}
	if snap.SchemaVersion == 0 {
		snap.SchemaVersion = version
	}
	if snap.SavedAt.IsZero() {
		snap.SavedAt = parseTime(savedAt)
	}
	return &snap, nil
}

// ClearSnapshot removes the stored topic snapshot.
func (s *snapshotStore) ClearSnapshot(ctx context.Context) error {
	return s.delete(ctx, keySnapshot)
}

// SaveJobHandle overwrites the stored job handle.
func (s *snapshotStore) SaveJobHandle(ctx context.Context, handle *domain.JobHandle) error {
	if handle == nil || handle.JobID == "" {
		return domain.ErrInvalidInput
	}
	payload, err := json.Marshal(jobHandlePayload{JobID: handle.JobID})
	if err != nil {
		return fmt.Errorf("encoding job handle: %w", err)
	}
	return s.put(ctx, keyJobHandle, payload, domain.SnapshotSchemaVersion, formatTime(handle.SavedAt))
}

// LoadJobHandle returns the stored job handle.
// Returns nil and no error if none exists.
func (s *snapshotStore) LoadJobHandle(ctx context.Context) (*domain.JobHandle, error) {
	payload, version, savedAt, err := s.get(ctx, keyJobHandle)
	if err != nil || payload == nil {
		return nil, err
	}
	if version > domain.SnapshotSchemaVersion {
		return nil, nil
	}

	var p jobHandlePayload
	if err := json.Unmarshal(payload, &p); err != nil || p.JobID == "" {
		logger.Warn("discarding unreadable job handle")
		return nil, nil
	}
	return &domain.JobHandle{JobID: p.JobID, SavedAt: parseTime(savedAt)}, nil
}

// ClearJobHandle removes the stored job handle.
func (s *snapshotStore) ClearJobHandle(ctx context.Context) error {
	return s.delete(ctx, keyJobHandle)
}

func (s *snapshotStore) put(ctx context.Context, key string, payload []byte, version int, savedAt string) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO client_state (key, payload, schema_version, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			schema_version = excluded.schema_version,
			saved_at = excluded.saved_at
	`, key, string(payload), version, savedAt)
	if err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

func (s *snapshotStore) get(ctx context.Context, key string) ([]byte, int, string, error) {
	var payload, savedAt string
	var version int
	err := s.store.db.QueryRowContext(ctx, `
		SELECT payload, schema_version, saved_at FROM client_state WHERE key = ?
	`, key).Scan(&payload, &version, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, "", nil
	}
	if err != nil {
		return nil, 0, "", fmt.Errorf("loading %s: %w", key, err)
	}
	return []byte(payload), version, savedAt, nil
}

func (s *snapshotStore) delete(ctx context.Context, key string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM client_state WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}
