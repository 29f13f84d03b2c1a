package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airyshop/storefront/internal/domain"
	"github.com/airyshop/storefront/internal/store/memory"
	"github.com/airyshop/storefront/internal/telemetry"
)

var (
	metricsOnce sync.Once
	metrics     *telemetry.BusinessMetrics
)

// testMetrics returns a shared metrics instance. Prometheus collectors
// register globally, so tests must not create a second set.
func testMetrics() *telemetry.BusinessMetrics {
	metricsOnce.Do(func() {
		metrics = telemetry.NewBusinessMetrics("storefront_test")
	})
	return metrics
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedCatalog(t *testing.T, s *memory.Store) {
	t.Helper()
	s.SeedProduct(domain.Product{ID: "p-headphones", Title: "Wireless Headphones", Price: 600})
	s.SeedProduct(domain.Product{ID: "p-speaker", Title: "Bluetooth Speaker", Price: 250, DiscountPrice: 200})
}

func TestCartService_AddItem(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	seedCatalog(t, mem)
	svc := NewCartService(mem, testMetrics(), testLogger())

	summary, err := svc.AddItem(ctx, "buyer@example.com", "p-headphones", 1)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, "Wireless Headphones", summary.Items[0].ProductTitle)
	assert.Equal(t, 600.0, summary.Items[0].Price)
	assert.Equal(t, 1, summary.ItemCount)
}

func TestCartService_AddItem_SnapshotsDiscountPrice(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	seedCatalog(t, mem)
	svc := NewCartService(mem, testMetrics(), testLogger())

	summary, err := svc.AddItem(ctx, "buyer@example.com", "p-speaker", 2)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	// Discounted price is captured at add time, not the list price.
	assert.Equal(t, 200.0, summary.Items[0].Price)
	assert.Equal(t, 400.0, summary.Items[0].LineTotal())
}

func TestCartService_AddItem_IncrementsExistingLine(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	seedCatalog(t, mem)
	svc := NewCartService(mem, testMetrics(), testLogger())

	_, err := svc.AddItem(ctx, "buyer@example.com", "p-headphones", 1)
	require.NoError(t, err)
	summary, err := svc.AddItem(ctx, "buyer@example.com", "p-headphones", 2)
	require.NoError(t, err)

	require.Len(t, summary.Items, 1, "same product must not create a second line item")
	assert.Equal(t, 3, summary.Items[0].Quantity)
	assert.Equal(t, 3, summary.ItemCount)
}

func TestCartService_AddItem_Rejections(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	seedCatalog(t, mem)
	svc := NewCartService(mem, testMetrics(), testLogger())

	_, err := svc.AddItem(ctx, "buyer@example.com", "p-headphones", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddItem(ctx, "buyer@example.com", "no-such-product", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_UpdateItemQuantity(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	seedCatalog(t, mem)
	svc := NewCartService(mem, testMetrics(), testLogger())

	summary, err := svc.AddItem(ctx, "buyer@example.com", "p-headphones", 1)
	require.NoError(t, err)
	itemID := summary.Items[0].ID

	summary, err = svc.UpdateItemQuantity(ctx, "buyer@example.com", itemID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Items[0].Quantity)

	// Zero and negative quantities are rejected, not treated as removal.
	_, err = svc.UpdateItemQuantity(ctx, "buyer@example.com", itemID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = svc.UpdateItemQuantity(ctx, "buyer@example.com", itemID, -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_OwnershipIsEnforced(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	seedCatalog(t, mem)
	svc := NewCartService(mem, testMetrics(), testLogger())

	summary, err := svc.AddItem(ctx, "alice@example.com", "p-headphones", 1)
	require.NoError(t, err)
	itemID := summary.Items[0].ID

	// Another buyer cannot touch the item, and cannot tell it exists.
	_, err = svc.UpdateItemQuantity(ctx, "bob@example.com", itemID, 3)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
	_, err = svc.RemoveItem(ctx, "bob@example.com", itemID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_RemoveItem(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	seedCatalog(t, mem)
	svc := NewCartService(mem, testMetrics(), testLogger())

	summary, err := svc.AddItem(ctx, "buyer@example.com", "p-headphones", 1)
	require.NoError(t, err)

	summary, err = svc.RemoveItem(ctx, "buyer@example.com", summary.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
	assert.Equal(t, 0, summary.ItemCount)
}

func TestCartService_SummaryBreakdown(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	seedCatalog(t, mem)
	svc := NewCartService(mem, testMetrics(), testLogger())

	_, err := svc.AddItem(ctx, "buyer@example.com", "p-headphones", 1)
	require.NoError(t, err)
	summary, err := svc.GetCartSummary(ctx, "buyer@example.com")
	require.NoError(t, err)

	assert.Equal(t, 600.0, summary.Breakdown.Subtotal)
	assert.Equal(t, 30.0, summary.Breakdown.Discount)
	assert.Equal(t, 102.6, summary.Breakdown.Tax)
	assert.Equal(t, 0.0, summary.Breakdown.Shipping)
	assert.Equal(t, 672.6, summary.Breakdown.Total)
}
