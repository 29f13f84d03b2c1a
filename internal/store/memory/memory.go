// Package memory provides an in-memory EntityStore used by tests and
// local development. All methods are safe for concurrent use.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/airyshop/storefront/internal/domain"
	"github.com/airyshop/storefront/internal/store"
)

// Store is an in-memory implementation of store.EntityStore.
type Store struct {
	mu        sync.RWMutex
	products  map[string]domain.Product
	cartItems map[string]domain.CartItem
	orders    map[string]domain.Order
	activity  []domain.ActivityEvent
	sessions  map[string]domain.CheckoutSession
	users     map[string]domain.User // keyed by session token
	profiles  map[string]domain.User // keyed by email
	emailJobs []store.EmailJob
}

// Compile-time check that Store implements the full entity store.
var _ store.EntityStore = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		products:  make(map[string]domain.Product),
		cartItems: make(map[string]domain.CartItem),
		orders:    make(map[string]domain.Order),
		sessions:  make(map[string]domain.CheckoutSession),
		users:     make(map[string]domain.User),
		profiles:  make(map[string]domain.User),
	}
}

// SeedProduct inserts a catalog product. Test and dev helper.
func (s *Store) SeedProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	s.products[p.ID] = p
}

// SeedUser registers a user resolvable by the given session token.
// Test and dev helper.
func (s *Store) SeedUser(token string, u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[token] = u
	s.profiles[u.Email] = u
}

// =============================================================================
// Products
// =============================================================================

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[productID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

// =============================================================================
// Cart items
// =============================================================================

func (s *Store) CreateCartItem(ctx context.Context, item *domain.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	s.cartItems[item.ID] = *item
	return nil
}

func (s *Store) GetCartItem(ctx context.Context, itemID string) (*domain.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.cartItems[itemID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &item, nil
}

func (s *Store) GetCartItemByProduct(ctx context.Context, identity, productID string) (*domain.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.cartItems {
		if item.UserEmail == identity && item.ProductID == productID {
			found := item
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListCartItems(ctx context.Context, identity string) ([]domain.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []domain.CartItem
	for _, item := range s.cartItems {
		if item.UserEmail == identity {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpdateCartItemQuantity(ctx context.Context, itemID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.cartItems[itemID]
	if !ok {
		return store.ErrNotFound
	}
	item.Quantity = quantity
	item.UpdatedAt = time.Now()
	s.cartItems[itemID] = item
	return nil
}

func (s *Store) DeleteCartItem(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cartItems[itemID]; !ok {
		return store.ErrNotFound
	}
	delete(s.cartItems, itemID)
	return nil
}

func (s *Store) ClearCart(ctx context.Context, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, item := range s.cartItems {
		if item.UserEmail == identity {
			delete(s.cartItems, id)
		}
	}
	return nil
}

// =============================================================================
// Orders
// =============================================================================

func (s *Store) CreateOrder(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	s.orders[order.ID] = *order
	return nil
}

func (s *Store) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &order, nil
}

func (s *Store) ListOrdersFor(ctx context.Context, identity string, limit int) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var orders []domain.Order
	for _, o := range s.orders {
		if o.UserEmail == identity {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

// =============================================================================
// Activity
// =============================================================================

func (s *Store) AppendActivity(ctx context.Context, event *domain.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	s.activity = append(s.activity, *event)
	return nil
}

func (s *Store) ListRecentActivity(ctx context.Context, limit int) ([]domain.ActivityEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recentActivity("", limit), nil
}

func (s *Store) ListActivityFor(ctx context.Context, identity string, limit int) ([]domain.ActivityEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recentActivity(identity, limit), nil
}

// recentActivity filters and orders events newest first. Caller holds the lock.
func (s *Store) recentActivity(identity string, limit int) []domain.ActivityEvent {
	var events []domain.ActivityEvent
	for _, e := range s.activity {
		if identity == "" || e.UserEmail == identity {
			events = append(events, e)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events
}

// =============================================================================
// Checkout sessions
// =============================================================================

func (s *Store) CreateCheckoutSession(ctx context.Context, session *domain.CheckoutSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now
	s.sessions[session.ID] = *session
	return nil
}

func (s *Store) GetCheckoutSession(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &session, nil
}

func (s *Store) UpdateCheckoutSession(ctx context.Context, session *domain.CheckoutSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; !ok {
		return store.ErrNotFound
	}
	session.UpdatedAt = time.Now()
	s.sessions[session.ID] = *session
	return nil
}

// =============================================================================
// Users
// =============================================================================

func (s *Store) GetUserByToken(ctx context.Context, token string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[token]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (s *Store) UpsertUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[user.Email] = *user
	for token, u := range s.users {
		if u.Email == user.Email {
			s.users[token] = *user
		}
	}
	return nil
}

// IssueToken binds a token to an existing user profile. Token expiry is
// not enforced by the in-memory backend.
func (s *Store) IssueToken(ctx context.Context, email, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[email]
	if !ok {
		return store.ErrNotFound
	}
	s.users[token] = profile
	return nil
}

// =============================================================================
// Email jobs
// =============================================================================

func (s *Store) EnqueueEmailJob(ctx context.Context, job *store.EmailJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	now := time.Now()
	job.Status = store.EmailJobPending
	job.CreatedAt = now
	job.UpdatedAt = now
	s.emailJobs = append(s.emailJobs, *job)
	return nil
}

func (s *Store) ClaimNextEmailJob(ctx context.Context, workerID string) (*store.EmailJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.emailJobs {
		if s.emailJobs[i].Status == store.EmailJobPending {
			s.emailJobs[i].Status = store.EmailJobRunning
			s.emailJobs[i].ClaimedBy = workerID
			s.emailJobs[i].UpdatedAt = time.Now()
			claimed := s.emailJobs[i]
			return &claimed, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CompleteEmailJob(ctx context.Context, jobID string) error {
	return s.setJobStatus(jobID, store.EmailJobCompleted, "")
}

func (s *Store) FailEmailJob(ctx context.Context, jobID string, message string) error {
	return s.setJobStatus(jobID, store.EmailJobFailed, message)
}

func (s *Store) setJobStatus(jobID string, status store.EmailJobStatus, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.emailJobs {
		if s.emailJobs[i].ID == jobID {
			s.emailJobs[i].Status = status
			s.emailJobs[i].LastError = message
			s.emailJobs[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return store.ErrNotFound
}
