package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/impactclub/platform/internal/auth"
	"github.com/impactclub/platform/internal/rbac"
)

type contextKey string

const scopeKey contextKey = "authz.scope"

type sessionStore interface {
	IsAccessRevoked(ctx context.Context, jti string) (bool, error)
}

type scopeResolver interface {
	Lookup(ctx context.Context, subject uuid.UUID) (rbac.Scope, error)
}

// Authenticator resolves the caller's Scope from the Authorization header.
type Authenticator struct {
	jwt      *auth.JWTManager
	sessions sessionStore
	scopes   scopeResolver
}

// NewAuthenticator wires the token parser, the revocation store and the
// role/grant resolver.
func NewAuthenticator(jwtMgr *auth.JWTManager, sessions sessionStore, scopes scopeResolver) *Authenticator {
	return &Authenticator{jwt: jwtMgr, sessions: sessions, scopes: scopes}
}

// Authenticate attaches a Scope to every request. A missing, malformed,
// expired or revoked token degrades to the anonymous scope; only a backend
// failure produces an error response.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope, err := a.resolve(r)
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, "Service unavailable")
			return
		}
		next.ServeHTTP(w, r.WithContext(withScope(r.Context(), scope)))
	})
}

func (a *Authenticator) resolve(r *http.Request) (rbac.Scope, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return rbac.Anonymous(), nil
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return rbac.Anonymous(), nil
	}

	claims, err := a.jwt.ParseAndValidate(strings.TrimSpace(parts[1]))
	if err != nil {
		return rbac.Anonymous(), nil
	}

	revoked, err := a.sessions.IsAccessRevoked(r.Context(), claims.ID)
	if err != nil {
		return rbac.Scope{}, err
	}
	if revoked {
		return rbac.Anonymous(), nil
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return rbac.Anonymous(), nil
	}

	scope, err := a.scopes.Lookup(r.Context(), subject)
	if err != nil {
		if errors.Is(err, rbac.ErrBackendUnavailable) {
			return rbac.Scope{}, err
		}
		return rbac.Anonymous(), nil
	}
	return scope, nil
}

// RequireRoles gates a subtree to authenticated callers holding one of the
// given roles. Denials are generic on purpose.
func RequireRoles(roles ...rbac.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := GetScope(r.Context())
			if err := rbac.Authorize(scope, roles, nil); err != nil {
				if errors.Is(err, rbac.ErrUnauthenticated) {
					writeError(w, http.StatusUnauthorized, "Not authorized")
					return
				}
				writeError(w, http.StatusForbidden, "Not authorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withScope(ctx context.Context, scope rbac.Scope) context.Context {
	return context.WithValue(ctx, scopeKey, scope)
}

// GetScope returns the Scope resolved for the request, or the anonymous
// scope when the middleware did not run.
func GetScope(ctx context.Context) rbac.Scope {
	if scope, ok := ctx.Value(scopeKey).(rbac.Scope); ok {
		return scope
	}
	return rbac.Anonymous()
}

// WithScope injects a scope into a context. Exported for handler tests.
func WithScope(ctx context.Context, scope rbac.Scope) context.Context {
	return withScope(ctx, scope)
}
