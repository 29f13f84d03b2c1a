package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeBreakdown_FreeShippingOverThreshold(t *testing.T) {
	items := []CartItem{
		{ProductID: "p1", Price: 600, Quantity: 1},
	}

	b := ComputeBreakdown(items)

	assert.Equal(t, 600.0, b.Subtotal)
	assert.Equal(t, 30.0, b.Discount)
	assert.Equal(t, (600.0-30.0)*0.18, b.Tax)
	assert.Equal(t, 0.0, b.Shipping)
	assert.Equal(t, 672.6, b.Total)
}

func TestComputeBreakdown_FlatShippingUnderThreshold(t *testing.T) {
	items := []CartItem{
		{ProductID: "p1", Price: 200, Quantity: 2},
	}

	b := ComputeBreakdown(items)

	assert.Equal(t, 400.0, b.Subtotal)
	assert.Equal(t, 20.0, b.Discount)
	assert.Equal(t, 68.4, b.Tax)
	assert.Equal(t, 50.0, b.Shipping)
	assert.Equal(t, 498.4, b.Total)
}

func TestComputeBreakdown_ShippingBoundaryIsStrict(t *testing.T) {
	// Free shipping requires subtotal strictly greater than 500.
	items := []CartItem{
		{ProductID: "p1", Price: 500, Quantity: 1},
	}

	b := ComputeBreakdown(items)

	assert.Equal(t, 500.0, b.Subtotal)
	assert.Equal(t, FlatShippingFee, b.Shipping)

	items[0].Price = 500.01
	b = ComputeBreakdown(items)
	assert.Equal(t, 0.0, b.Shipping)
}

func TestComputeBreakdown_Deterministic(t *testing.T) {
	items := []CartItem{
		{ProductID: "p1", Price: 123.45, Quantity: 3},
		{ProductID: "p2", Price: 0.99, Quantity: 7},
		{ProductID: "p3", Price: 899, Quantity: 1},
	}

	first := ComputeBreakdown(items)
	second := ComputeBreakdown(items)

	// Bit-identical, not just approximately equal.
	assert.Equal(t, first, second)
}

func TestComputeBreakdown_TotalIdentity(t *testing.T) {
	cases := [][]CartItem{
		{},
		{{Price: 1, Quantity: 1}},
		{{Price: 333.33, Quantity: 2}, {Price: 0.01, Quantity: 99}},
		{{Price: 500, Quantity: 1}},
		{{Price: 10000, Quantity: 5}},
	}

	for _, items := range cases {
		b := ComputeBreakdown(items)
		assert.Equal(t, b.Subtotal-b.Discount+b.Tax+b.Shipping, b.Total)
	}
}

func TestComputeBreakdown_EmptyCart(t *testing.T) {
	b := ComputeBreakdown(nil)

	assert.Equal(t, 0.0, b.Subtotal)
	assert.Equal(t, FlatShippingFee, b.Shipping)
	assert.Equal(t, FlatShippingFee, b.Total)
}

func TestCartItemLineTotal(t *testing.T) {
	item := CartItem{Price: 200, Quantity: 2}
	assert.Equal(t, 400.0, item.LineTotal())
}

func TestProductEffectivePrice(t *testing.T) {
	assert.Equal(t, 80.0, Product{Price: 100, DiscountPrice: 80}.EffectivePrice())
	assert.Equal(t, 100.0, Product{Price: 100}.EffectivePrice())
	// A "discount" above list price is ignored.
	assert.Equal(t, 100.0, Product{Price: 100, DiscountPrice: 120}.EffectivePrice())
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentMethodPaytm, PaymentMethodPhonePe, PaymentMethodGooglePay, PaymentMethodCard} {
		assert.True(t, ValidPaymentMethod(m), string(m))
	}
	assert.False(t, ValidPaymentMethod("upi"))
	assert.False(t, ValidPaymentMethod(""))
}
