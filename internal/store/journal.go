package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sync job statuses.
const (
	SyncStatusRequested = "requested"
	SyncStatusSucceeded = "succeeded"
	SyncStatusFailed    = "failed"
)

// SyncJob is one row of the sync audit journal.
type SyncJob struct {
	ID          string     `json:"id"`
	Resource    string     `json:"resource"`
	ProjectID   string     `json:"project_id,omitempty"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
	RequestedAt time.Time  `json:"requested_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// AppendSyncJob records a newly submitted sync job and returns its id.
func (s *Store) AppendSyncJob(ctx context.Context, resource, projectID string) (string, error) {
	id := uuid.Must(uuid.NewV7()).String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_jobs (id, resource, project_id, status, requested_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, resource, projectID, SyncStatusRequested, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("append sync job: %w", err)
	}
	return id, nil
}

// FinishSyncJob marks a job as succeeded or failed. errText is stored only
// for failures.
func (s *Store) FinishSyncJob(ctx context.Context, id, status, errText string) error {
	if status != SyncStatusSucceeded && status != SyncStatusFailed {
		return fmt.Errorf("finish sync job: invalid status %q", status)
	}
	if status == SyncStatusSucceeded {
		errText = ""
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE sync_jobs SET status = ?, error = ?, finished_at = ?
		WHERE id = ?
	`, status, errText, time.Now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("finish sync job %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("finish sync job %q: not found", id)
	}
	return nil
}

// ListRecentSyncJobs returns up to limit jobs ordered newest first.
func (s *Store) ListRecentSyncJobs(ctx context.Context, limit int) ([]SyncJob, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, resource, project_id, status, error, requested_at, finished_at
		FROM sync_jobs
		ORDER BY requested_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync jobs: %w", err)
	}
	defer rows.Close()

	var jobs []SyncJob
	for rows.Next() {
		job, err := scanSyncJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sync jobs: %w", err)
	}
	return jobs, nil
}

func scanSyncJob(rows *sql.Rows) (SyncJob, error) {
	var (
		job         SyncJob
		requestedAt string
		finishedAt  sql.NullString
	)
	if err := rows.Scan(&job.ID, &job.Resource, &job.ProjectID, &job.Status, &job.Error, &requestedAt, &finishedAt); err != nil {
		return SyncJob{}, fmt.Errorf("scan sync job: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, requestedAt)
	if err != nil {
		return SyncJob{}, fmt.Errorf("parse requested_at: %w", err)
	}
	job.RequestedAt = ts
	if finishedAt.Valid {
		fts, err := time.Parse(time.RFC3339Nano, finishedAt.String)
		if err != nil {
			return SyncJob{}, fmt.Errorf("parse finished_at: %w", err)
		}
		job.FinishedAt = &fts
	}
	return job, nil
}
