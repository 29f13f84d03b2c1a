package middleware

import (
	"net/http"
	"strings"

	"github.com/airyshop/storefront/internal/domain"
)

const sessionCookieName = "storefront_session"

// WithUser resolves the caller's session token and attaches the user to
// the request context. The token comes from the Authorization header
// (Bearer) or the session cookie. Requests without a valid session pass
// through unauthenticated; RequireUser enforces presence.
func WithUser(identities domain.IdentityProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := identities.CurrentUser(r.Context(), token)
			if err != nil {
				// Invalid session, continue without user
				next.ServeHTTP(w, r)
				return
			}

			ctx := domain.NewContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects unauthenticated requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if domain.UserFromContext(r.Context()) == nil {
			respondWithError(w, r, domain.Unauthorized("", "Authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects callers that are not administrators.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := domain.UserFromContext(r.Context())
		if user == nil {
			respondWithError(w, r, domain.Unauthorized("", "Authentication required"))
			return
		}
		if user.Role != domain.RoleAdmin {
			respondWithError(w, r, domain.Errorf(domain.EFORBIDDEN, "", "Administrator access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
