package payment_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airyshop/storefront/internal/domain"
	"github.com/airyshop/storefront/internal/payment"
)

func newTestProcessor(delay time.Duration) *payment.SimulatedProcessor {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return payment.NewSimulatedProcessor(delay, logger)
}

func TestSimulatedProcessor_Approves(t *testing.T) {
	p := newTestProcessor(0)

	result, err := p.Charge(context.Background(), payment.ChargeParams{
		Identity: "buyer@example.com",
		Method:   domain.PaymentMethodCard,
		Amount:   672.6,
	})
	require.NoError(t, err)

	assert.True(t, result.Approved)
	assert.Empty(t, result.Reason)
	assert.True(t, strings.HasPrefix(result.TransactionID, "TXN"))
}

func TestSimulatedProcessor_Declines(t *testing.T) {
	p := newTestProcessor(0)

	result, err := p.Charge(context.Background(), payment.ChargeParams{
		Identity:        "buyer@example.com",
		Method:          domain.PaymentMethodPaytm,
		Amount:          498.4,
		SimulateFailure: true,
	})
	require.NoError(t, err)

	assert.False(t, result.Approved)
	assert.NotEmpty(t, result.Reason)
	// A declined charge still records a transaction id.
	assert.True(t, strings.HasPrefix(result.TransactionID, "TXN"))
}

func TestSimulatedProcessor_ContextCancelled(t *testing.T) {
	p := newTestProcessor(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Charge(ctx, payment.ChargeParams{
		Identity: "buyer@example.com",
		Method:   domain.PaymentMethodCard,
		Amount:   100,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
