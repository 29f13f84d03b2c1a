// Package store defines the persistence contracts the commerce core
// depends on. The core treats the entity store as an external
// collaborator: implementations live in the postgres and memory
// subpackages and are swapped freely in tests.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/airyshop/storefront/internal/domain"
)

// ErrNotFound is returned by lookups for records that do not exist.
// Services translate it into the matching domain error.
var ErrNotFound = errors.New("store: record not found")

// ProductStore provides read-only access to the catalog.
type ProductStore interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
}

// CartStore persists cart line items. At most one row exists per
// (identity, product) pair; the service layer enforces the
// increment-on-duplicate rule through GetCartItemByProduct.
type CartStore interface {
	CreateCartItem(ctx context.Context, item *domain.CartItem) error
	GetCartItem(ctx context.Context, itemID string) (*domain.CartItem, error)
	GetCartItemByProduct(ctx context.Context, identity, productID string) (*domain.CartItem, error)
	ListCartItems(ctx context.Context, identity string) ([]domain.CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, itemID string, quantity int) error
	DeleteCartItem(ctx context.Context, itemID string) error
	ClearCart(ctx context.Context, identity string) error
}

// OrderStore persists settled orders. Orders are write-once.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrdersFor(ctx context.Context, identity string, limit int) ([]domain.Order, error)
}

// ActivityStore appends audit events and serves "recent N" reads,
// newest first.
type ActivityStore interface {
	AppendActivity(ctx context.Context, event *domain.ActivityEvent) error
	ListRecentActivity(ctx context.Context, limit int) ([]domain.ActivityEvent, error)
	ListActivityFor(ctx context.Context, identity string, limit int) ([]domain.ActivityEvent, error)
}

// CheckoutSessionStore persists in-progress checkout sessions so the flow
// can resume across requests.
type CheckoutSessionStore interface {
	CreateCheckoutSession(ctx context.Context, session *domain.CheckoutSession) error
	GetCheckoutSession(ctx context.Context, sessionID string) (*domain.CheckoutSession, error)
	UpdateCheckoutSession(ctx context.Context, session *domain.CheckoutSession) error
}

// UserStore resolves session tokens to users. Full account management is
// out of scope; besides the lookup the storefront only needs the upsert
// path used by startup bootstrapping.
type UserStore interface {
	GetUserByToken(ctx context.Context, token string) (*domain.User, error)

	// UpsertUser creates the user or refreshes the profile stored
	// under its email.
	UpsertUser(ctx context.Context, user *domain.User) error

	// IssueToken registers a session token for an existing user.
	IssueToken(ctx context.Context, email, token string, expiresAt time.Time) error
}

// EmailJobStatus tracks an email job through the queue.
type EmailJobStatus string

const (
	EmailJobPending   EmailJobStatus = "pending"
	EmailJobRunning   EmailJobStatus = "running"
	EmailJobCompleted EmailJobStatus = "completed"
	EmailJobFailed    EmailJobStatus = "failed"
)

// EmailJob is one queued notification. Settlement enqueues jobs
// best-effort; the worker claims and sends them out of the request path.
type EmailJob struct {
	ID        string
	JobType   string
	Payload   []byte
	Status    EmailJobStatus
	LastError string
	ClaimedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EmailJobStore is the queue backing notification dispatch.
type EmailJobStore interface {
	// EnqueueEmailJob adds a pending job to the queue.
	EnqueueEmailJob(ctx context.Context, job *EmailJob) error

	// ClaimNextEmailJob atomically claims the oldest pending job for the
	// given worker. Returns ErrNotFound when the queue is empty.
	ClaimNextEmailJob(ctx context.Context, workerID string) (*EmailJob, error)

	// CompleteEmailJob marks a claimed job as completed.
	CompleteEmailJob(ctx context.Context, jobID string) error

	// FailEmailJob marks a claimed job as failed with the error message.
	FailEmailJob(ctx context.Context, jobID string, message string) error
}

// EntityStore aggregates every collaborator the storefront persists
// through. Both backends implement the whole set.
type EntityStore interface {
	ProductStore
	CartStore
	OrderStore
	ActivityStore
	CheckoutSessionStore
	UserStore
	EmailJobStore
}
