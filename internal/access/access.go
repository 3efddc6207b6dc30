// AngelaMos | 2026
// access.go

package access

import (
	"context"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
)

// Identity is the authenticated caller. It never carries credential material.
type Identity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"isActive"`
}

// Authorize allows a mutation only when the caller owns the resource.
// There is no role hierarchy and no delegation.
func Authorize(identity *Identity, ownerID string) error {
	if identity == nil || identity.ID == "" {
		return core.ErrUnauthorized
	}
	if identity.ID != ownerID {
		return core.ErrForbidden
	}
	return nil
}

type contextKey struct{}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, identity)
}

func FromContext(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(contextKey{}).(*Identity); ok {
		return identity
	}
	return nil
}

// CallerID returns the authenticated caller's id or "" for anonymous requests.
func CallerID(ctx context.Context) string {
	if identity := FromContext(ctx); identity != nil {
		return identity.ID
	}
	return ""
}
