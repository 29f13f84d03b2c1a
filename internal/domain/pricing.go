package domain

// Pricing constants for the storefront. Amounts are in currency units
// (rupees); fractions are carried as-is so that the breakdown shown in the
// cart, the checkout preview, and the stored order are bit-identical.
const (
	// DiscountRate is applied to the raw subtotal.
	DiscountRate = 0.05

	// TaxRate is applied to the discounted subtotal (GST).
	TaxRate = 0.18

	// FreeShippingThreshold is the subtotal above which shipping is free.
	// Strictly greater-than: a subtotal of exactly 500 still pays shipping.
	FreeShippingThreshold = 500.0

	// FlatShippingFee is charged below the free-shipping threshold.
	FlatShippingFee = 50.0
)

// PriceBreakdown is the derived pricing for a set of cart line items.
// It is recomputed wherever it is displayed and frozen onto the order at
// settlement; it is never persisted standalone.
type PriceBreakdown struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// ComputeBreakdown derives the price breakdown for the given line items.
// It is pure and deterministic: the same items always produce the same
// breakdown, and Total == Subtotal - Discount + Tax + Shipping holds
// exactly (same float64 arithmetic, no intermediate rounding).
func ComputeBreakdown(items []CartItem) PriceBreakdown {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}

	discount := subtotal * DiscountRate
	tax := (subtotal - discount) * TaxRate

	shipping := FlatShippingFee
	if subtotal > FreeShippingThreshold {
		shipping = 0
	}

	return PriceBreakdown{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal - discount + tax + shipping,
	}
}
