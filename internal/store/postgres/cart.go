package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/airyshop/storefront/internal/domain"
	"github.com/airyshop/storefront/internal/store"
)

const cartItemColumns = `id, user_email, product_id, product_title, product_image, price, quantity, created_at, updated_at`

func scanCartItem(row pgx.Row) (*domain.CartItem, error) {
	var item domain.CartItem
	err := row.Scan(
		&item.ID,
		&item.UserEmail,
		&item.ProductID,
		&item.ProductTitle,
		&item.ProductImage,
		&item.Price,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan cart item: %w", err)
	}
	return &item, nil
}

func (s *Store) CreateCartItem(ctx context.Context, item *domain.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO cart_items (id, user_email, product_id, product_title, product_image, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		item.ID, item.UserEmail, item.ProductID, item.ProductTitle, item.ProductImage, item.Price, item.Quantity,
	)
	if err := row.Scan(&item.CreatedAt, &item.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}
	return nil
}

func (s *Store) GetCartItem(ctx context.Context, itemID string) (*domain.CartItem, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items WHERE id = $1`, itemID)
	return scanCartItem(row)
}

func (s *Store) GetCartItemByProduct(ctx context.Context, identity, productID string) (*domain.CartItem, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items WHERE user_email = $1 AND product_id = $2`,
		identity, productID)
	return scanCartItem(row)
}

func (s *Store) ListCartItems(ctx context.Context, identity string) ([]domain.CartItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items WHERE user_email = $1 ORDER BY created_at`, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *Store) UpdateCartItemQuantity(ctx context.Context, itemID string, quantity int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE cart_items SET quantity = $2, updated_at = now() WHERE id = $1`, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update cart item quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCartItem(ctx context.Context, itemID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ClearCart(ctx context.Context, identity string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_email = $1`, identity); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
