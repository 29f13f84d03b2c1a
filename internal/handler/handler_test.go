package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airyshop/storefront/internal/domain"
	"github.com/airyshop/storefront/internal/payment"
	"github.com/airyshop/storefront/internal/service"
	"github.com/airyshop/storefront/internal/store/memory"
	"github.com/airyshop/storefront/internal/telemetry"
)

var (
	metricsOnce sync.Once
	metrics     *telemetry.BusinessMetrics
)

func testMetrics() *telemetry.BusinessMetrics {
	metricsOnce.Do(func() {
		metrics = telemetry.NewBusinessMetrics("storefront_handler_test")
	})
	return metrics
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	store    *memory.Store
	products *ProductHandler
	cart     *CartHandler
	checkout *CheckoutHandler
	orders   *OrderHandler
	activity *ActivityHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := memory.New()
	st.SeedProduct(domain.Product{
		ID:    "p-headphones",
		Title: "Wireless Headphones",
		Price: 600,
	})
	st.SeedProduct(domain.Product{
		ID:            "p-speaker",
		Title:         "Bluetooth Speaker",
		Price:         250,
		DiscountPrice: 200,
	})

	logger := testLogger()
	m := testMetrics()
	processor := payment.NewSimulatedProcessor(0, logger)

	return &fixture{
		store:    st,
		products: NewProductHandler(service.NewProductService(st, logger)),
		cart:     NewCartHandler(service.NewCartService(st, m, logger)),
		checkout: NewCheckoutHandler(service.NewCheckoutService(st, processor, m, "ops@example.com", logger)),
		orders:   NewOrderHandler(service.NewOrderService(st, logger)),
		activity: NewActivityHandler(service.NewActivityService(st, logger)),
	}
}

func asUser(r *http.Request, email string) *http.Request {
	ctx := domain.NewContextWithUser(r.Context(), &domain.User{
		Email:    email,
		FullName: "Asha Rao",
		Role:     domain.RoleCustomer,
	})
	return r.WithContext(ctx)
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst))
}

func validShippingBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"name":    "Asha Rao",
		"email":   email,
		"phone":   "9876543210",
		"street":  "12 MG Road",
		"city":    "Bengaluru",
		"state":   "Karnataka",
		"pincode": "560001",
	}
}

// addToCart seeds the user's cart through the HTTP handler.
func (f *fixture) addToCart(t *testing.T, user, productID string, qty int) {
	t.Helper()
	rec := httptest.NewRecorder()
	f.cart.AddItem(rec, asUser(jsonRequest(http.MethodPost, "/api/cart/items", map[string]interface{}{
		"product_id": productID,
		"quantity":   qty,
	}), user))
	require.Equal(t, http.StatusOK, rec.Code)
}

// startCheckout opens a checkout session through the HTTP handler.
func (f *fixture) startCheckout(t *testing.T, user string) domain.CheckoutSession {
	t.Helper()
	rec := httptest.NewRecorder()
	f.checkout.Start(rec, asUser(jsonRequest(http.MethodPost, "/api/checkout", nil), user))
	require.Equal(t, http.StatusCreated, rec.Code)

	var session domain.CheckoutSession
	decodeBody(t, rec, &session)
	require.NotEmpty(t, session.ID)
	return session
}

func (f *fixture) submitShipping(t *testing.T, user, sessionID string, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	r := asUser(jsonRequest(http.MethodPost, "/api/checkout/"+sessionID+"/shipping", body), user)
	r.SetPathValue("id", sessionID)
	rec := httptest.NewRecorder()
	f.checkout.SubmitShipping(rec, r)
	return rec
}

func (f *fixture) pay(t *testing.T, user, sessionID, method string, simulateFailure bool) *httptest.ResponseRecorder {
	t.Helper()
	r := asUser(jsonRequest(http.MethodPost, "/api/checkout/"+sessionID+"/pay", map[string]interface{}{
		"method":           method,
		"simulate_failure": simulateFailure,
	}), user)
	r.SetPathValue("id", sessionID)
	rec := httptest.NewRecorder()
	f.checkout.Pay(rec, r)
	return rec
}

func TestProductHandler_List(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.products.List(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Products []domain.Product `json:"products"`
		Count    int              `json:"count"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, 2, body.Count)
	assert.Len(t, body.Products, 2)
}

func TestProductHandler_GetNotFound(t *testing.T) {
	f := newFixture(t)

	r := httptest.NewRequest(http.MethodGet, "/api/products/p-missing", nil)
	r.SetPathValue("id", "p-missing")
	rec := httptest.NewRecorder()
	f.products.Get(rec, r)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]errorBody
	decodeBody(t, rec, &body)
	assert.Equal(t, domain.ENOTFOUND, body["error"].Code)
}

func TestCartHandler_RequiresAuth(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.cart.Summary(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]errorBody
	decodeBody(t, rec, &body)
	assert.Equal(t, domain.EUNAUTHORIZED, body["error"].Code)
}

func TestCartHandler_AddItem(t *testing.T) {
	f := newFixture(t)

	r := asUser(jsonRequest(http.MethodPost, "/api/cart/items", map[string]interface{}{
		"product_id": "p-headphones",
		"quantity":   1,
	}), "asha@example.com")
	rec := httptest.NewRecorder()
	f.cart.AddItem(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)

	var summary domain.CartSummary
	decodeBody(t, rec, &summary)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, "p-headphones", summary.Items[0].ProductID)
	assert.InDelta(t, 672.6, summary.Breakdown.Total, 1e-9)
}

func TestCartHandler_AddItemDefaultsQuantity(t *testing.T) {
	f := newFixture(t)

	// A body without a quantity adds a single unit.
	r := asUser(jsonRequest(http.MethodPost, "/api/cart/items", map[string]interface{}{
		"product_id": "p-headphones",
	}), "asha@example.com")
	rec := httptest.NewRecorder()
	f.cart.AddItem(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)

	var summary domain.CartSummary
	decodeBody(t, rec, &summary)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 1, summary.Items[0].Quantity)
}

func TestCartHandler_AddItemRejectsBadBody(t *testing.T) {
	f := newFixture(t)

	r := asUser(httptest.NewRequest(http.MethodPost, "/api/cart/items", bytes.NewBufferString("{not json")), "asha@example.com")
	rec := httptest.NewRecorder()
	f.cart.AddItem(rec, r)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutHandler_ShippingValidationFields(t *testing.T) {
	f := newFixture(t)
	const user = "asha@example.com"

	f.addToCart(t, user, "p-headphones", 1)
	session := f.startCheckout(t, user)

	// Email and pincode left out on purpose.
	rec := f.submitShipping(t, user, session.ID, map[string]interface{}{
		"name":   "Asha Rao",
		"phone":  "9876543210",
		"street": "12 MG Road",
		"city":   "Bengaluru",
		"state":  "Karnataka",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]errorBody
	decodeBody(t, rec, &body)
	assert.Equal(t, domain.EINVALID, body["error"].Code)
	assert.Contains(t, body["error"].Fields, "Email")
	assert.Contains(t, body["error"].Fields, "Pincode")
}

func TestCheckoutHandler_FullFlow(t *testing.T) {
	f := newFixture(t)
	const user = "asha@example.com"

	f.addToCart(t, user, "p-headphones", 1)
	session := f.startCheckout(t, user)

	shipRec := f.submitShipping(t, user, session.ID, validShippingBody(user))
	require.Equal(t, http.StatusOK, shipRec.Code)

	payRec := f.pay(t, user, session.ID, "paytm", false)
	require.Equal(t, http.StatusOK, payRec.Code)

	var order domain.Order
	decodeBody(t, payRec, &order)
	require.NotEmpty(t, order.ID)
	assert.Equal(t, domain.PaymentStatusSuccess, order.PaymentStatus)
	assert.Equal(t, domain.OrderStatusConfirmed, order.OrderStatus)
	assert.InDelta(t, 672.6, order.Breakdown.Total, 1e-9)

	getReq := asUser(httptest.NewRequest(http.MethodGet, "/api/orders/"+order.ID, nil), user)
	getReq.SetPathValue("id", order.ID)
	getRec := httptest.NewRecorder()
	f.orders.Get(getRec, getReq)
	require.Equal(t, http.StatusOK, getRec.Code)
}

func TestCheckoutHandler_FailedPaymentReturnsFailedOrder(t *testing.T) {
	f := newFixture(t)
	const user = "ravi@example.com"

	f.addToCart(t, user, "p-speaker", 2)
	session := f.startCheckout(t, user)

	shipRec := f.submitShipping(t, user, session.ID, validShippingBody(user))
	require.Equal(t, http.StatusOK, shipRec.Code)

	payRec := f.pay(t, user, session.ID, "card", true)
	require.Equal(t, http.StatusOK, payRec.Code)

	var order domain.Order
	decodeBody(t, payRec, &order)
	assert.Equal(t, domain.PaymentStatusFailed, order.PaymentStatus)
	assert.Equal(t, domain.OrderStatusPending, order.OrderStatus)
	assert.InDelta(t, 498.4, order.Breakdown.Total, 1e-9)

	// The cart survives a failed payment.
	sumRec := httptest.NewRecorder()
	f.cart.Summary(sumRec, asUser(httptest.NewRequest(http.MethodGet, "/api/cart", nil), user))
	require.Equal(t, http.StatusOK, sumRec.Code)

	var summary domain.CartSummary
	decodeBody(t, sumRec, &summary)
	assert.Len(t, summary.Items, 1)
}

func TestCheckoutHandler_PayRejectsUnknownMethod(t *testing.T) {
	f := newFixture(t)
	const user = "asha@example.com"

	f.addToCart(t, user, "p-headphones", 1)
	session := f.startCheckout(t, user)

	shipRec := f.submitShipping(t, user, session.ID, validShippingBody(user))
	require.Equal(t, http.StatusOK, shipRec.Code)

	rec := f.pay(t, user, session.ID, "bitcoin", false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderHandler_ListRejectsBadLimit(t *testing.T) {
	f := newFixture(t)

	r := asUser(httptest.NewRequest(http.MethodGet, "/api/orders?limit=nope", nil), "asha@example.com")
	rec := httptest.NewRecorder()
	f.orders.List(rec, r)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestActivityHandler_Recent(t *testing.T) {
	f := newFixture(t)

	ctx := context.Background()
	require.NoError(t, f.store.AppendActivity(ctx, &domain.ActivityEvent{
		ID:        "evt-1",
		Kind:      domain.ActivitySignup,
		UserEmail: "asha@example.com",
	}))

	rec := httptest.NewRecorder()
	f.activity.Recent(rec, httptest.NewRequest(http.MethodGet, "/api/admin/activity", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Events []domain.ActivityEvent `json:"events"`
		Count  int                    `json:"count"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, 1, body.Count)
}
