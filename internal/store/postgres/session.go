package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/airyshop/storefront/internal/domain"
	"github.com/airyshop/storefront/internal/store"
)

func (s *Store) CreateCheckoutSession(ctx context.Context, session *domain.CheckoutSession) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	shippingJSON, err := json.Marshal(session.Shipping)
	if err != nil {
		return fmt.Errorf("failed to encode shipping details: %w", err)
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO checkout_sessions (id, user_email, state, shipping, method)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		session.ID, session.UserEmail, session.State, shippingJSON, session.Method,
	)
	if err := row.Scan(&session.CreatedAt, &session.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create checkout session: %w", err)
	}
	return nil
}

func (s *Store) GetCheckoutSession(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	var (
		session      domain.CheckoutSession
		shippingJSON []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_email, state, shipping, method, order_id, created_at, updated_at
		FROM checkout_sessions WHERE id = $1`, sessionID,
	).Scan(
		&session.ID,
		&session.UserEmail,
		&session.State,
		&shippingJSON,
		&session.Method,
		&session.OrderID,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get checkout session: %w", err)
	}

	if len(shippingJSON) > 0 {
		if err := json.Unmarshal(shippingJSON, &session.Shipping); err != nil {
			return nil, fmt.Errorf("failed to decode shipping details: %w", err)
		}
	}
	return &session, nil
}

func (s *Store) UpdateCheckoutSession(ctx context.Context, session *domain.CheckoutSession) error {
	shippingJSON, err := json.Marshal(session.Shipping)
	if err != nil {
		return fmt.Errorf("failed to encode shipping details: %w", err)
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE checkout_sessions
		SET state = $2, shipping = $3, method = $4, order_id = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		session.ID, session.State, shippingJSON, session.Method, session.OrderID,
	)
	if err := row.Scan(&session.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrNotFound
		}
		return fmt.Errorf("failed to update checkout session: %w", err)
	}
	return nil
}
