package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/airyshop/storefront/internal/domain"
)

type stubIdentities struct {
	users map[string]*domain.User
}

func (s *stubIdentities) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	user, ok := s.users[token]
	if !ok {
		return nil, domain.Unauthorized("identity.current", "unknown token")
	}
	return user, nil
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	user := domain.UserFromContext(r.Context())
	if user == nil {
		w.Write([]byte("anonymous"))
		return
	}
	w.Write([]byte(user.Email))
}

func TestWithUser_ResolvesBearerToken(t *testing.T) {
	identities := &stubIdentities{users: map[string]*domain.User{
		"tok-1": {Email: "asha@example.com", Role: domain.RoleCustomer},
	}}
	h := WithUser(identities)(http.HandlerFunc(echoUser))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer tok-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	assert.Equal(t, "asha@example.com", rec.Body.String())
}

func TestWithUser_ResolvesSessionCookie(t *testing.T) {
	identities := &stubIdentities{users: map[string]*domain.User{
		"tok-2": {Email: "ravi@example.com", Role: domain.RoleCustomer},
	}}
	h := WithUser(identities)(http.HandlerFunc(echoUser))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "tok-2"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	assert.Equal(t, "ravi@example.com", rec.Body.String())
}

func TestWithUser_InvalidTokenPassesThrough(t *testing.T) {
	identities := &stubIdentities{users: map[string]*domain.User{}}
	h := WithUser(identities)(http.HandlerFunc(echoUser))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer tok-bogus")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestRequireUser(t *testing.T) {
	h := RequireUser(http.HandlerFunc(echoUser))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	ctx := domain.NewContextWithUser(context.Background(), &domain.User{Email: "asha@example.com"})
	r := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	h := RequireAdmin(http.HandlerFunc(echoUser))

	customer := domain.NewContextWithUser(context.Background(), &domain.User{Email: "asha@example.com", Role: domain.RoleCustomer})
	r := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(customer)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := domain.NewContextWithUser(context.Background(), &domain.User{Email: "ops@example.com", Role: domain.RoleAdmin})
	r = httptest.NewRequest(http.MethodGet, "/", nil).WithContext(admin)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	cases := map[string]int{
		domain.EINVALID:      http.StatusBadRequest,
		domain.EUNAUTHORIZED: http.StatusUnauthorized,
		domain.EPAYMENT:      http.StatusPaymentRequired,
		domain.EFORBIDDEN:    http.StatusForbidden,
		domain.ENOTFOUND:     http.StatusNotFound,
		domain.ECONFLICT:     http.StatusConflict,
		domain.EINTERNAL:     http.StatusInternalServerError,
		"something_else":     http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ErrorCodeToHTTPStatus(code), code)
	}
}
