package middleware

import (
	"context"
	"net/http"
	"strings"

	"social-service/portal-service/apperrors"
	"social-service/portal-service/identity"
	"social-service/portal-service/logging"
	"social-service/portal-service/models"
	"social-service/portal-service/services"
)

type ctxKey int

const (
	identityKey ctxKey = iota
	adminKey
	requestIDKey
)

// TokenFrom extracts a bearer token from the Authorization header, falling
// back to the x-access-token and token headers older clients send.
func TokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if strings.HasPrefix(strings.ToLower(h), "bearer ") {
			return strings.TrimSpace(h[len("bearer "):])
		}
		return strings.TrimSpace(h)
	}
	if t := r.Header.Get("x-access-token"); t != "" {
		return t
	}
	return r.Header.Get("token")
}

func IdentityFrom(ctx context.Context) (*models.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*models.Identity)
	return id, ok
}

func WithIdentity(ctx context.Context, id *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func AdminFrom(ctx context.Context) (*services.AdminPrincipal, bool) {
	p, ok := ctx.Value(adminKey).(*services.AdminPrincipal)
	return p, ok
}

// Authenticate attaches the verified identity to the request when a token is
// present. Requests without a token pass through anonymously; requests with a
// bad token are refused.
func Authenticate(v identity.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFrom(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := v.Verify(r.Context(), token)
			if err != nil {
				logging.Logger.WithField("event_id", RequestID(r.Context())).
					Warnf("Event ID: AUTH_INVALID_TOKEN, Description: Token refused for %s %s: %v", r.Method, r.URL.Path, err)
				WriteError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAuth refuses anonymous requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFrom(r.Context()); !ok {
			WriteError(w, r, apperrors.Unauthorized("authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type AdminResolver interface {
	ResolveAdmin(ctx context.Context, email string) (*services.AdminPrincipal, error)
}

// RequireAdmin lets the request through only when the caller resolves to an
// administrator.
func RequireAdmin(resolver AdminResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, _ := IdentityFrom(r.Context())
			principal, err := resolver.ResolveAdmin(r.Context(), id.Email)
			if err != nil {
				WriteError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminKey, principal)))
		}))
	}
}
