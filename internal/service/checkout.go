package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/airyshop/storefront/internal/domain"
	"github.com/airyshop/storefront/internal/payment"
	"github.com/airyshop/storefront/internal/store"
	"github.com/airyshop/storefront/internal/telemetry"
)

// identityLocks serializes settlement per buyer identity. A second Pay
// for the same identity while one is in flight is refused instead of
// queued, so the same cart can never settle twice concurrently.
type identityLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newIdentityLocks() *identityLocks {
	return &identityLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *identityLocks) tryAcquire(identity string) bool {
	l.mu.Lock()
	lock, ok := l.locks[identity]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[identity] = lock
	}
	l.mu.Unlock()
	return lock.TryLock()
}

func (l *identityLocks) release(identity string) {
	l.mu.Lock()
	lock := l.locks[identity]
	l.mu.Unlock()
	if lock != nil {
		lock.Unlock()
	}
}

type checkoutService struct {
	store     store.EntityStore
	processor payment.Processor
	settler   *settler
	validate  *validator.Validate
	settling  *identityLocks
	metrics   *telemetry.BusinessMetrics
	logger    *slog.Logger
}

// NewCheckoutService creates the checkout orchestrator. operatorEmail
// receives a copy of every receipt; pass empty to disable the copy.
func NewCheckoutService(entityStore store.EntityStore, processor payment.Processor, metrics *telemetry.BusinessMetrics, operatorEmail string, logger *slog.Logger) domain.CheckoutService {
	return &checkoutService{
		store:     entityStore,
		processor: processor,
		settler:   newSettler(entityStore, metrics, operatorEmail, logger),
		validate:  validator.New(),
		settling:  newIdentityLocks(),
		metrics:   metrics,
		logger:    logger,
	}
}

func (s *checkoutService) StartCheckout(ctx context.Context, identity string) (*domain.CheckoutSession, error) {
	items, err := s.store.ListCartItems(ctx, identity)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "checkout.start", "Failed to load cart")
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	session := &domain.CheckoutSession{
		UserEmail: identity,
		State:     domain.CheckoutStateShipping,
	}
	if err := s.store.CreateCheckoutSession(ctx, session); err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "checkout.start", "Failed to create checkout session")
	}

	s.metrics.CheckoutStarted.Inc()
	s.logger.Info("checkout started",
		slog.String("identity", identity),
		slog.String("session_id", session.ID),
	)
	return session, nil
}

func (s *checkoutService) GetSession(ctx context.Context, identity, sessionID string) (*domain.CheckoutSession, error) {
	return s.ownedSession(ctx, identity, sessionID, "checkout.get")
}

func (s *checkoutService) SubmitShipping(ctx context.Context, identity, sessionID string, details domain.ShippingDetails) (*domain.CheckoutSession, error) {
	session, err := s.ownedSession(ctx, identity, sessionID, "checkout.shipping")
	if err != nil {
		return nil, err
	}

	// Shipping may be re-submitted while the buyer is still picking a
	// payment method, but not once settlement has begun.
	if session.State != domain.CheckoutStateShipping && session.State != domain.CheckoutStatePayment {
		return nil, ErrInvalidTransition
	}

	if err := s.validate.Struct(details); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			verr := &domain.ValidationError{Op: "checkout.shipping", Fields: make(map[string]string)}
			for _, fieldErr := range invalid {
				verr.Fields[fieldErr.Field()] = validationMessage(fieldErr)
			}
			return nil, verr
		}
		return nil, domain.WrapError(err, domain.EINTERNAL, "checkout.shipping", "Failed to validate shipping details")
	}

	session.Shipping = details
	session.State = domain.CheckoutStatePayment
	if err := s.store.UpdateCheckoutSession(ctx, session); err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "checkout.shipping", "Failed to update checkout session")
	}
	return session, nil
}

func (s *checkoutService) Pay(ctx context.Context, identity, sessionID string, method domain.PaymentMethod, simulateFailure bool) (*domain.Order, error) {
	if !domain.ValidPaymentMethod(method) {
		return nil, ErrUnknownPayMethod
	}

	session, err := s.ownedSession(ctx, identity, sessionID, "checkout.pay")
	if err != nil {
		return nil, err
	}
	if session.State != domain.CheckoutStatePayment {
		return nil, ErrInvalidTransition
	}

	if !s.settling.tryAcquire(identity) {
		return nil, ErrSettlementConflict
	}
	defer s.settling.release(identity)

	// Re-read the cart under the lock. The priced amounts charged and
	// recorded on the order come from this read, not from anything the
	// client sent.
	summary, err := s.cartSnapshot(ctx, identity)
	if err != nil {
		return nil, err
	}

	session.Method = method
	session.State = domain.CheckoutStateSettling
	if err := s.store.UpdateCheckoutSession(ctx, session); err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "checkout.pay", "Failed to update checkout session")
	}

	result, err := s.processor.Charge(ctx, payment.ChargeParams{
		Identity:        identity,
		Method:          method,
		Amount:          summary.Breakdown.Total,
		SimulateFailure: simulateFailure,
	})
	if err != nil {
		// The charge never resolved, so the attempt did not settle.
		// Reopen the session for another try.
		s.reopenSession(ctx, session)
		return nil, domain.WrapError(err, domain.EPAYMENT, "checkout.pay", "Payment processing failed")
	}

	order, err := s.settler.settle(ctx, session, summary, result)
	if err != nil {
		return nil, err
	}

	session.OrderID = order.ID
	if order.PaymentStatus == domain.PaymentStatusSuccess {
		session.State = domain.CheckoutStateSettled
	} else {
		session.State = domain.CheckoutStateFailed
	}
	if err := s.store.UpdateCheckoutSession(ctx, session); err != nil {
		// The order exists; a stale session state is recoverable.
		s.logger.Error("failed to finalize checkout session",
			slog.String("session_id", session.ID),
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	return order, nil
}

func (s *checkoutService) ownedSession(ctx context.Context, identity, sessionID, op string) (*domain.CheckoutSession, error) {
	session, err := s.store.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "Failed to load checkout session")
	}
	if session.UserEmail != identity {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *checkoutService) cartSnapshot(ctx context.Context, identity string) (*domain.CartSummary, error) {
	items, err := s.store.ListCartItems(ctx, identity)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "checkout.pay", "Failed to load cart")
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
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

func (s *checkoutService) reopenSession(ctx context.Context, session *domain.CheckoutSession) {
	session.State = domain.CheckoutStatePayment
	if err := s.store.UpdateCheckoutSession(ctx, session); err != nil {
		s.logger.Error("failed to reopen checkout session",
			slog.String("session_id", session.ID),
			slog.String("error", err.Error()),
		)
	}
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	default:
		return "Invalid value"
	}
}
