package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/airyshop/storefront/internal/domain"
	"github.com/airyshop/storefront/internal/store"
)

const defaultOrderListLimit = 50

type orderService struct {
	store  store.OrderStore
	logger *slog.Logger
}

// NewOrderService creates the order history read service.
func NewOrderService(orderStore store.OrderStore, logger *slog.Logger) domain.OrderService {
	return &orderService{store: orderStore, logger: logger}
}

func (s *orderService) GetOrder(ctx context.Context, identity, orderID string) (*domain.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, domain.WrapError(err, domain.EINTERNAL, "order.get", "Failed to load order")
	}
	// Hide other buyers' orders behind not-found.
	if order.UserEmail != identity {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, identity string, limit int) ([]domain.Order, error) {
	if limit < 1 || limit > defaultOrderListLimit {
		limit = defaultOrderListLimit
	}
	orders, err := s.store.ListOrdersFor(ctx, identity, limit)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "order.list", "Failed to list orders")
	}
	return orders, nil
}
