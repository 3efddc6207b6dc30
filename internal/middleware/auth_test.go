// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/access"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
)

type fakeResolver struct {
	identities map[string]*access.Identity
	errs       map[string]error
}

func (f *fakeResolver) Authenticate(
	_ context.Context,
	token string,
) (*access.Identity, error) {
	if err, ok := f.errs[token]; ok {
		return nil, err
	}
	if id, ok := f.identities[token]; ok {
		return id, nil
	}
	return nil, core.ErrTokenInvalid
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		identities: map[string]*access.Identity{
			"good": {ID: "u1", Name: "A", Email: "a@x.com", IsActive: true},
		},
		errs: map[string]error{
			"expired":  core.ErrTokenExpired,
			"revoked":  core.ErrTokenRevoked,
			"inactive": core.ErrAccountInactive,
		},
	}
}

func echoCaller(w http.ResponseWriter, r *http.Request) {
	core.OK(w, GetUserID(r.Context()))
}

func TestAuthenticator(t *testing.T) {
	h := Authenticator(newFakeResolver())(http.HandlerFunc(echoCaller))

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{name: "valid token", header: "Bearer good", wantCode: http.StatusOK, wantBody: `"u1"`},
		{name: "lowercase scheme", header: "bearer good", wantCode: http.StatusOK, wantBody: `"u1"`},
		{name: "missing header", wantCode: http.StatusUnauthorized, wantBody: "UNAUTHENTICATED"},
		{name: "wrong scheme", header: "Basic good", wantCode: http.StatusUnauthorized, wantBody: "UNAUTHENTICATED"},
		{name: "unknown token", header: "Bearer nope", wantCode: http.StatusUnauthorized, wantBody: "TOKEN_INVALID"},
		{name: "expired token", header: "Bearer expired", wantCode: http.StatusUnauthorized, wantBody: "TOKEN_EXPIRED"},
		{name: "revoked token", header: "Bearer revoked", wantCode: http.StatusUnauthorized, wantBody: "TOKEN_REVOKED"},
		{name: "inactive account", header: "Bearer inactive", wantCode: http.StatusForbidden, wantBody: "ACCOUNT_INACTIVE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	h := OptionalAuth(newFakeResolver())(http.HandlerFunc(echoCaller))

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "anonymous", want: `""`},
		{name: "valid token", header: "Bearer good", want: `"u1"`},
		{name: "bad token is ignored", header: "Bearer expired", want: `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/books", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestRequireAdminToken(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		configured string
		supplied   string
		wantCode   int
	}{
		{name: "disabled", configured: "", supplied: "anything", wantCode: http.StatusNotFound},
		{name: "missing header", configured: "s3cret", wantCode: http.StatusUnauthorized},
		{name: "wrong token", configured: "s3cret", supplied: "guess", wantCode: http.StatusForbidden},
		{name: "matching token", configured: "s3cret", supplied: "s3cret", wantCode: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
			if tt.supplied != "" {
				req.Header.Set(AdminTokenHeader, tt.supplied)
			}
			rec := httptest.NewRecorder()

			RequireAdminToken(tt.configured)(ok).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
