package domain

import (
	"context"
	"time"
)

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrCartItemNotFound = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
	ErrProductNotFound  = &Error{Code: ENOTFOUND, Message: "Product not found"}
)

// CartItem is one line item in a buyer's cart. At most one line item exists
// per (identity, product) pair; adding the same product again increments the
// quantity instead of duplicating the row. Title, image, and price are
// snapshotted from the product at add time and are not repriced when the
// catalog changes.
type CartItem struct {
	ID           string    `json:"id"`
	UserEmail    string    `json:"user_email"`
	ProductID    string    `json:"product_id"`
	ProductTitle string    `json:"product_title"`
	ProductImage string    `json:"product_image"`
	Price        float64   `json:"price"`
	Quantity     int       `json:"quantity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LineTotal is the extended price for this line item.
func (c CartItem) LineTotal() float64 {
	return c.Price * float64(c.Quantity)
}

// CartSummary aggregates a buyer's cart with its computed price breakdown.
type CartSummary struct {
	Items     []CartItem     `json:"items"`
	Breakdown PriceBreakdown `json:"breakdown"`
	ItemCount int            `json:"item_count"`
}

// CartService provides business logic for shopping cart operations.
// All operations are scoped to the buyer identity.
type CartService interface {
	// AddItem adds a product to the cart or increments the quantity if a
	// line item for the product already exists. Price, title, and image are
	// snapshotted from the product at add time.
	AddItem(ctx context.Context, identity string, productID string, quantity int) (*CartSummary, error)

	// UpdateItemQuantity replaces the stored quantity of a cart item.
	// Quantities below 1 are rejected with ErrInvalidQuantity.
	UpdateItemQuantity(ctx context.Context, identity string, itemID string, quantity int) (*CartSummary, error)

	// RemoveItem deletes a line item from the cart.
	RemoveItem(ctx context.Context, identity string, itemID string) (*CartSummary, error)

	// GetCartSummary returns the buyer's cart with its price breakdown.
	GetCartSummary(ctx context.Context, identity string) (*CartSummary, error)

	// ClearCart deletes every line item for the identity. Invoked once,
	// after a successful settlement.
	ClearCart(ctx context.Context, identity string) error
}
