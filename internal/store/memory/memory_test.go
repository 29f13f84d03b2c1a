package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airyshop/storefront/internal/domain"
	"github.com/airyshop/storefront/internal/store"
	"github.com/airyshop/storefront/internal/store/memory"
)

func TestCartItemRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	item := &domain.CartItem{
		UserEmail:    "buyer@example.com",
		ProductID:    "p1",
		ProductTitle: "Wireless Headphones",
		Price:        199.0,
		Quantity:     1,
	}
	require.NoError(t, s.CreateCartItem(ctx, item))
	require.NotEmpty(t, item.ID)

	byProduct, err := s.GetCartItemByProduct(ctx, "buyer@example.com", "p1")
	require.NoError(t, err)
	assert.Equal(t, item.ID, byProduct.ID)

	require.NoError(t, s.UpdateCartItemQuantity(ctx, item.ID, 4))
	updated, err := s.GetCartItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	require.NoError(t, s.DeleteCartItem(ctx, item.ID))
	_, err = s.GetCartItem(ctx, item.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestClearCartOnlyTouchesOneIdentity(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	require.NoError(t, s.CreateCartItem(ctx, &domain.CartItem{UserEmail: "a@example.com", ProductID: "p1", Quantity: 1}))
	require.NoError(t, s.CreateCartItem(ctx, &domain.CartItem{UserEmail: "b@example.com", ProductID: "p1", Quantity: 1}))

	require.NoError(t, s.ClearCart(ctx, "a@example.com"))

	aItems, err := s.ListCartItems(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Empty(t, aItems)

	bItems, err := s.ListCartItems(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Len(t, bItems, 1)
}

func TestActivityNewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		err := s.AppendActivity(ctx, &domain.ActivityEvent{
			UserEmail: "buyer@example.com",
			Kind:      domain.ActivityOrderCreated,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	events, err := s.ListRecentActivity(ctx, 3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.True(t, events[0].CreatedAt.After(events[1].CreatedAt))
	assert.True(t, events[1].CreatedAt.After(events[2].CreatedAt))
}

func TestEmailJobQueue(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	_, err := s.ClaimNextEmailJob(ctx, "w1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	job := &store.EmailJob{JobType: "email:order_confirmation", Payload: []byte(`{}`)}
	require.NoError(t, s.EnqueueEmailJob(ctx, job))

	claimed, err := s.ClaimNextEmailJob(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, store.EmailJobRunning, claimed.Status)
	assert.Equal(t, "w1", claimed.ClaimedBy)

	// A second claim finds nothing while the job is running.
	_, err = s.ClaimNextEmailJob(ctx, "w2")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.CompleteEmailJob(ctx, claimed.ID))
}

func TestCheckoutSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	session := &domain.CheckoutSession{
		UserEmail: "buyer@example.com",
		State:     domain.CheckoutStateShipping,
	}
	require.NoError(t, s.CreateCheckoutSession(ctx, session))

	session.State = domain.CheckoutStatePayment
	require.NoError(t, s.UpdateCheckoutSession(ctx, session))

	got, err := s.GetCheckoutSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStatePayment, got.State)
}
