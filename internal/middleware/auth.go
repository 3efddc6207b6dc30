// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/access"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
)

const AdminTokenHeader = "X-Admin-Token"

// IdentityResolver turns a bearer token into the caller it was issued to.
type IdentityResolver interface {
	Authenticate(ctx context.Context, token string) (*access.Identity, error)
}

func Authenticator(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			identity, err := resolver.Authenticate(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			ctx := access.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the caller when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token != "" {
				identity, err := resolver.Authenticate(r.Context(), token)
				if err == nil {
					r = r.WithContext(access.WithIdentity(r.Context(), identity))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdminToken guards maintenance routes with a shared secret. An empty
// configured token disables the routes entirely.
func RequireAdminToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				core.NotFound(w, "route")
				return
			}

			supplied := r.Header.Get(AdminTokenHeader)
			if supplied == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing admin token"),
				)
				return
			}

			if !core.ConstantTimeEqual(supplied, token) {
				core.JSONError(w, core.ForbiddenError("invalid admin token"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrAccountInactive):
		core.JSONError(w, core.AccountInactiveError())
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	case errors.Is(err, core.ErrUnauthorized):
		core.JSONError(w, core.UnauthorizedError("invalid credentials"))
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func GetIdentity(ctx context.Context) *access.Identity {
	return access.FromContext(ctx)
}

func GetUserID(ctx context.Context) string {
	return access.CallerID(ctx)
}
