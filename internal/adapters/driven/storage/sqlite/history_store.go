package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/batchwriter/internal/core/domain"
	"github.com/custodia-labs/batchwriter/internal/core/ports/driven"
)

// historyStore implements driven.JobHistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.JobHistoryStore = (*historyStore)(nil)

// RecordJob stores or replaces the record for a job.
func (s *historyStore) RecordJob(ctx context.Context, record *domain.JobRecord) error {
	if record == nil || record.JobID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO job_history (job_id, submitted_at, finished_at, outcome, total, succeeded, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(job_id) DO UPDATE SET
			submitted_at = COALESCE(excluded.submitted_at, job_history.submitted_at),
			finished_at = excluded.finished_at,
			outcome = excluded.outcome,
			total = excluded.total,
			succeeded = excluded.succeeded,
			failed = excluded.failed
	`, record.JobID,
		formatNullableTime(record.SubmittedAt),
		formatTime(record.FinishedAt),
		string(record.Outcome),
		record.Total, record.Succeeded, record.Failed)

	if err != nil {
		return fmt.Errorf("recording job: %w", err)
	}
	return nil
}

// ListJobs returns recent records, most recently finished first.
func (s *historyStore) ListJobs(ctx context.Context, limit int) ([]domain.JobRecord, error) {
	if limit <= 0 {
		limit = domain.DefaultHistoryRetention
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT job_id, submitted_at, finished_at, outcome, total, succeeded, failed
		FROM job_history
		ORDER BY finished_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying job history: %w", err)
	}
	defer rows.Close()

	var records []domain.JobRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		record, err := scanJobRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating job history: %w", err)
	}

	return records, nil
}

// PruneHistory keeps only the most recent 'keep' records.
func (s *historyStore) PruneHistory(ctx context.Context, keep int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM job_history
		WHERE job_id NOT IN (
			SELECT job_id FROM (
				SELECT job_id, ROW_NUMBER() OVER (ORDER BY finished_at DESC, rowid DESC) as rn
				FROM job_history
			) WHERE rn <= ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning job history: %w", err)
	}
	return nil
}

// scanJobRecord scans a job record from *sql.Rows.
func scanJobRecord(rows *sql.Rows) (*domain.JobRecord, error) {
	var record domain.JobRecord
	var submittedAt sql.NullString
	var finishedAt, outcome string

	if err := rows.Scan(&record.JobID, &submittedAt, &finishedAt, &outcome,
		&record.Total, &record.Succeeded, &record.Failed); err != nil {
		return nil, fmt.Errorf("scanning job record: %w", err)
	}

	record.SubmittedAt = parseNullableTime(submittedAt)
	record.FinishedAt = parseTime(finishedAt)
	record.Outcome = domain.JobOutcome(outcome)

	return &record, nil
}
