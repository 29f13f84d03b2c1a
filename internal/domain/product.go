package domain

import (
	"context"
	"time"
)

// Product is a catalog entry. Catalog management itself lives outside this
// service; the storefront only reads products to display them and to
// snapshot pricing into the cart.
type Product struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Image         string    `json:"image"`
	Price         float64   `json:"price"`
	DiscountPrice float64   `json:"discount_price"` // 0 means no active discount
	Category      string    `json:"category"`
	CreatedAt     time.Time `json:"created_at"`
}

// EffectivePrice is the price a buyer pays right now: the discounted price
// when a discount is active, the list price otherwise.
func (p Product) EffectivePrice() float64 {
	if p.DiscountPrice > 0 && p.DiscountPrice < p.Price {
		return p.DiscountPrice
	}
	return p.Price
}

// ProductService provides read access to the catalog.
type ProductService interface {
	// ListProducts returns all catalog products.
	ListProducts(ctx context.Context) ([]Product, error)

	// GetProduct returns one product by id, or ErrProductNotFound.
	GetProduct(ctx context.Context, productID string) (*Product, error)
}
