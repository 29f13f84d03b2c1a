package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/airyshop/storefront/internal/domain"
	"github.com/airyshop/storefront/internal/store"
)

type productService struct {
	store  store.ProductStore
	logger *slog.Logger
}

// NewProductService creates the catalog read service.
func NewProductService(productStore store.ProductStore, logger *slog.Logger) domain.ProductService {
	return &productService{store: productStore, logger: logger}
}

func (s *productService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "product.list", "Failed to list products")
	}
	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, domain.WrapError(err, domain.EINTERNAL, "product.get", "Failed to load product")
	}
	return product, nil
}
