package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/airyshop/storefront/internal/domain"
	"github.com/airyshop/storefront/internal/store"
)

func (s *Store) GetUserByToken(ctx context.Context, token string) (*domain.User, error) {
	var user domain.User
	err := s.pool.QueryRow(ctx, `
		SELECT u.email, u.full_name, u.phone, u.role, u.created_at
		FROM users u
		JOIN user_tokens t ON t.user_email = u.email
		WHERE t.token = $1 AND t.expires_at > NOW()`, token,
	).Scan(
		&user.Email,
		&user.FullName,
		&user.Phone,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up user by token: %w", err)
	}
	return &user, nil
}

func (s *Store) UpsertUser(ctx context.Context, user *domain.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (email, full_name, phone, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE
		SET full_name = EXCLUDED.full_name,
		    phone = EXCLUDED.phone,
		    role = EXCLUDED.role`,
		user.Email, user.FullName, user.Phone, user.Role,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (s *Store) IssueToken(ctx context.Context, email, token string, expiresAt time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO user_tokens (token, user_email, expires_at)
		SELECT $1, email, $3 FROM users WHERE email = $2
		ON CONFLICT (token) DO UPDATE
		SET expires_at = EXCLUDED.expires_at`,
		token, email, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
