package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
)

func TestSnapshotStore_SaveAndLoad(t *testing.T) {
	store := setupTestStore(t)
	snapshots := store.SnapshotStore()
	ctx := context.Background()
	savedAt := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

	snap := &domain.PersistedSnapshot{
		SchemaVersion: domain.SnapshotSchemaVersion,
		EnableImage:   true,
		SavedAt:       savedAt,
		Topics: []domain.SnapshotTopic{
			{Text: "Go"},
			{Text: "Rust", Attachment: &domain.AttachmentMeta{
				Kind:         domain.AttachmentUpload,
				State:        domain.AttachmentResolved,
				Filename:     "crab.png",
				UploadedPath: "/uploads/crab.png",
			}},
		},
	}
	require.NoError(t, snapshots.SaveSnapshot(ctx, snap))

	loaded, err := snapshots.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, domain.SnapshotSchemaVersion, loaded.SchemaVersion)
	assert.True(t, loaded.EnableImage)
	assert.True(t, savedAt.Equal(loaded.SavedAt))
	require.Len(t, loaded.Topics, 2)
	assert.Equal(t, "/uploads/crab.png", loaded.Topics[1].Attachment.UploadedPath)
}

func TestSnapshotStore_Overwrite(t *testing.T) {
	store := setupTestStore(t)
	snapshots := store.SnapshotStore()
	ctx := context.Background()

	for _, text := range []string{"first", "second"} {
		require.NoError(t, snapshots.SaveSnapshot(ctx, &domain.PersistedSnapshot{
			SchemaVersion: 1,
			SavedAt:       time.Now(),
			Topics:        []domain.SnapshotTopic{{Text: text}},
		}))
	}

	loaded, err := snapshots.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Topics, 1)
	assert.Equal(t, "second", loaded.Topics[0].Text)
}

func TestSnapshotStore_LoadMissing(t *testing.T) {
	store := setupTestStore(t)

	snap, err := store.SnapshotStore().LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)

	handle, err := store.SnapshotStore().LoadJobHandle(context.Background())
	require.NoError(t, err)
	assert.Nil(t, handle)
}

func TestSnapshotStore_CorruptPayloadIsAbsent(t *testing.T) {
	store := setupTestStore(t)
	_, err := store.db.Exec(
		"INSERT INTO client_state (key, payload, schema_version, saved_at) VALUES (?, ?, 1, ?)",
		keySnapshot, "{not json", formatTime(time.Now()),
	)
	require.NoError(t, err)

	snap, err := store.SnapshotStore().LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSnapshotStore_Clear(t *testing.T) {
	store := setupTestStore(t)
	snapshots := store.SnapshotStore()
	ctx := context.Background()

	require.NoError(t, snapshots.SaveSnapshot(ctx, &domain.PersistedSnapshot{SchemaVersion: 1, SavedAt: time.Now()}))
	require.NoError(t, snapshots.ClearSnapshot(ctx))

	snap, err := snapshots.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSnapshotStore_SaveNil(t *testing.T) {
	store := setupTestStore(t)
	assert.ErrorIs(t, store.SnapshotStore().SaveSnapshot(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.SnapshotStore().SaveJobHandle(context.Background(), &domain.JobHandle{}), domain.ErrInvalidInput)
}

func TestSnapshotStore_JobHandleIndependentOfSnapshot(t *testing.T) {
	store := setupTestStore(t)
	snapshots := store.SnapshotStore()
	ctx := context.Background()
	savedAt := time.Date(2025, 6, 1, 10, 30, 0, 123, time.UTC)

	require.NoError(t, snapshots.SaveJobHandle(ctx, &domain.JobHandle{JobID: "job-42", SavedAt: savedAt}))
	require.NoError(t, snapshots.SaveSnapshot(ctx, &domain.PersistedSnapshot{SchemaVersion: 1, SavedAt: time.Now()}))
	require.NoError(t, snapshots.ClearSnapshot(ctx))

	handle, err := snapshots.LoadJobHandle(ctx)
	require.NoError(t, err)
	require.NotNil(t, handle)
	assert.Equal(t, "job-42", handle.JobID)
	assert.True(t, savedAt.Equal(handle.SavedAt))

	require.NoError(t, snapshots.ClearJobHandle(ctx))
	handle, err = snapshots.LoadJobHandle(ctx)
	require.NoError(t, err)
	assert.Nil(t, handle)
}

func TestSnapshotStore_JobHandleFromNewerSchema(t *testing.T) {
	store := setupTestStore(t)
	_, err := store.db.Exec(
		"INSERT INTO client_state (key, payload, schema_version, saved_at) VALUES (?, ?, 99, ?)",
		keyJobHandle, `{"job_id":"job-1"}`, formatTime(time.Now()),
	)
	require.NoError(t, err)

	handle, err := store.SnapshotStore().LoadJobHandle(context.Background())
	require.NoError(t, err)
	assert.Nil(t, handle)
}
