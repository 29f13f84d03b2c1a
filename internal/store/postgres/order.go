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

const orderColumns = `id, order_number, transaction_id, user_email, user_name, items,
	subtotal, discount, tax, shipping, total, shipping_address,
	payment_method, payment_status, order_status, created_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order        domain.Order
		itemsJSON    []byte
		shippingJSON []byte
	)
	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.TransactionID,
		&order.UserEmail,
		&order.UserName,
		&itemsJSON,
		&order.Breakdown.Subtotal,
		&order.Breakdown.Discount,
		&order.Breakdown.Tax,
		&order.Breakdown.Shipping,
		&order.Breakdown.Total,
		&shippingJSON,
		&order.PaymentMethod,
		&order.PaymentStatus,
		&order.OrderStatus,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	if err := json.Unmarshal(shippingJSON, &order.Shipping); err != nil {
		return nil, fmt.Errorf("failed to decode shipping address: %w", err)
	}
	return &order, nil
}

func (s *Store) CreateOrder(ctx context.Context, order *domain.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}
	shippingJSON, err := json.Marshal(order.Shipping)
	if err != nil {
		return fmt.Errorf("failed to encode shipping address: %w", err)
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO orders (
			id, order_number, transaction_id, user_email, user_name, items,
			subtotal, discount, tax, shipping, total, shipping_address,
			payment_method, payment_status, order_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at`,
		order.ID, order.OrderNumber, order.TransactionID, order.UserEmail, order.UserName, itemsJSON,
		order.Breakdown.Subtotal, order.Breakdown.Discount, order.Breakdown.Tax,
		order.Breakdown.Shipping, order.Breakdown.Total, shippingJSON,
		order.PaymentMethod, order.PaymentStatus, order.OrderStatus,
	)
	if err := row.Scan(&order.CreatedAt); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
	return scanOrder(row)
}

func (s *Store) ListOrdersFor(ctx context.Context, identity string, limit int) ([]domain.Order, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_email = $1 ORDER BY created_at DESC LIMIT $2`,
		identity, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}
