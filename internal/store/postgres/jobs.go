package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/airyshop/storefront/internal/store"
)

func (s *Store) EnqueueEmailJob(ctx context.Context, job *store.EmailJob) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = store.EmailJobPending
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO email_jobs (id, job_type, payload, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		job.ID, job.JobType, job.Payload, job.Status,
	)
	if err := row.Scan(&job.CreatedAt, &job.UpdatedAt); err != nil {
		return fmt.Errorf("failed to enqueue email job: %w", err)
	}
	return nil
}

// ClaimNextEmailJob claims the oldest pending job with SKIP LOCKED so
// concurrent workers never grab the same row.
func (s *Store) ClaimNextEmailJob(ctx context.Context, workerID string) (*store.EmailJob, error) {
	var job store.EmailJob
	err := s.pool.QueryRow(ctx, `
		UPDATE email_jobs
		SET status = 'running', claimed_by = $1, updated_at = NOW()
		WHERE id = (
			SELECT id FROM email_jobs
			WHERE status = 'pending'
			ORDER BY created_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING id, job_type, payload, status, last_error, claimed_by, created_at, updated_at`,
		workerID,
	).Scan(
		&job.ID,
		&job.JobType,
		&job.Payload,
		&job.Status,
		&job.LastError,
		&job.ClaimedBy,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to claim email job: %w", err)
	}
	return &job, nil
}

func (s *Store) CompleteEmailJob(ctx context.Context, jobID string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE email_jobs SET status = 'completed', updated_at = NOW() WHERE id = $1`, jobID)
	if err != nil {
		return fmt.Errorf("failed to complete email job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) FailEmailJob(ctx context.Context, jobID string, message string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE email_jobs SET status = 'failed', last_error = $2, updated_at = NOW() WHERE id = $1`,
		jobID, message)
	if err != nil {
		return fmt.Errorf("failed to mark email job failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
