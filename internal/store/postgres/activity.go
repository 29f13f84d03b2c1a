package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/airyshop/storefront/internal/domain"
)

const activityColumns = `id, user_email, user_name, kind, metadata, created_at`

func scanActivity(row pgx.Row) (*domain.ActivityEvent, error) {
	var (
		event        domain.ActivityEvent
		metadataJSON []byte
	)
	err := row.Scan(
		&event.ID,
		&event.UserEmail,
		&event.UserName,
		&event.Kind,
		&metadataJSON,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan activity event: %w", err)
	}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &event.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode activity metadata: %w", err)
		}
	}
	return &event, nil
}

func (s *Store) AppendActivity(ctx context.Context, event *domain.ActivityEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	metadataJSON, err := json.Marshal(event.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode activity metadata: %w", err)
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO user_activity (id, user_email, user_name, kind, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		event.ID, event.UserEmail, event.UserName, event.Kind, metadataJSON,
	)
	if err := row.Scan(&event.CreatedAt); err != nil {
		return fmt.Errorf("failed to append activity event: %w", err)
	}
	return nil
}

func (s *Store) ListRecentActivity(ctx context.Context, limit int) ([]domain.ActivityEvent, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+activityColumns+` FROM user_activity ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()
	return collectActivity(rows)
}

func (s *Store) ListActivityFor(ctx context.Context, identity string, limit int) ([]domain.ActivityEvent, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+activityColumns+` FROM user_activity WHERE user_email = $1 ORDER BY created_at DESC LIMIT $2`,
		identity, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()
	return collectActivity(rows)
}

func collectActivity(rows pgx.Rows) ([]domain.ActivityEvent, error) {
	var events []domain.ActivityEvent
	for rows.Next() {
		event, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}
