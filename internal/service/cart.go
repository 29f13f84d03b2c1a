// Package service implements the storefront's business logic on top of
// the store contracts: cart aggregation, pricing, checkout, settlement,
// and the read models for orders and activity.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/airyshop/storefront/internal/domain"
	"github.com/airyshop/storefront/internal/store"
	"github.com/airyshop/storefront/internal/telemetry"
)

type cartService struct {
	store   store.EntityStore
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger
}

// NewCartService creates the cart service backed by the given store.
func NewCartService(entityStore store.EntityStore, metrics *telemetry.BusinessMetrics, logger *slog.Logger) domain.CartService {
	return &cartService{store: entityStore, metrics: metrics, logger: logger}
}

func (s *cartService) AddItem(ctx context.Context, identity string, productID string, quantity int) (*domain.CartSummary, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, domain.WrapError(err, domain.EINTERNAL, "cart.add", "Failed to load product")
	}

	// Same product already in the cart: bump the quantity instead of
	// creating a second line item.
	existing, err := s.store.GetCartItemByProduct(ctx, identity, productID)
	switch {
	case err == nil:
		if err := s.store.UpdateCartItemQuantity(ctx, existing.ID, existing.Quantity+quantity); err != nil {
			return nil, domain.WrapError(err, domain.EINTERNAL, "cart.add", "Failed to update cart item")
		}
	case errors.Is(err, store.ErrNotFound):
		item := &domain.CartItem{
			UserEmail:    identity,
			ProductID:    product.ID,
			ProductTitle: product.Title,
			ProductImage: product.Image,
			Price:        product.EffectivePrice(),
			Quantity:     quantity,
		}
		if err := s.store.CreateCartItem(ctx, item); err != nil {
			return nil, domain.WrapError(err, domain.EINTERNAL, "cart.add", "Failed to add cart item")
		}
	default:
		return nil, domain.WrapError(err, domain.EINTERNAL, "cart.add", "Failed to check cart")
	}

	s.metrics.CartItemsAdd.Inc()
	s.logger.Debug("added item to cart",
		slog.String("identity", identity),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return s.GetCartSummary(ctx, identity)
}

func (s *cartService) UpdateItemQuantity(ctx context.Context, identity string, itemID string, quantity int) (*domain.CartSummary, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.ownedItem(ctx, identity, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateCartItemQuantity(ctx, item.ID, quantity); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, domain.WrapError(err, domain.EINTERNAL, "cart.update", "Failed to update cart item")
	}

	return s.GetCartSummary(ctx, identity)
}

func (s *cartService) RemoveItem(ctx context.Context, identity string, itemID string) (*domain.CartSummary, error) {
	item, err := s.ownedItem(ctx, identity, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteCartItem(ctx, item.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, domain.WrapError(err, domain.EINTERNAL, "cart.remove", "Failed to remove cart item")
	}

	return s.GetCartSummary(ctx, identity)
}

func (s *cartService) GetCartSummary(ctx context.Context, identity string) (*domain.CartSummary, error) {
	items, err := s.store.ListCartItems(ctx, identity)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "cart.summary", "Failed to load cart")
	}

	summary := &domain.CartSummary{
		Items:     items,
		Breakdown: domain.ComputeBreakdown(items),
	}
	for _, item := range items {
		summary.ItemCount += item.Quantity
	}
	return summary, nil
}

func (s *cartService) ClearCart(ctx context.Context, identity string) error {
	if err := s.store.ClearCart(ctx, identity); err != nil {
		return domain.WrapError(err, domain.EINTERNAL, "cart.clear", "Failed to clear cart")
	}
	return nil
}

// ownedItem loads a cart item and verifies it belongs to the identity.
// Items owned by someone else are reported as not found rather than
// forbidden, so the API does not leak other buyers' item ids.
func (s *cartService) ownedItem(ctx context.Context, identity, itemID string) (*domain.CartItem, error) {
	item, err := s.store.GetCartItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, domain.WrapError(err, domain.EINTERNAL, "cart.get", fmt.Sprintf("Failed to load cart item %s", itemID))
	}
	if item.UserEmail != identity {
		return nil, ErrCartItemNotFound
	}
	return item, nil
}
