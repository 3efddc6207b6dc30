// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/config"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
)

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	cfg := config.JWTConfig{
		PrivateKeyPath:    filepath.Join(dir, "private.pem"),
		PublicKeyPath:     filepath.Join(dir, "public.pem"),
		AccessTokenExpire: time.Hour,
		Issuer:            "book-reviews",
		Audience:          "book-reviews-api",
	}
	require.NoError(t, GenerateKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath))

	m, err := NewJWTManager(cfg)
	require.NoError(t, err)
	return m
}

func TestJWT_RoundTrip(t *testing.T) {
	m := newTestManager(t)

	issued, err := m.CreateAccessToken("user-1", 3)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.JTI)
	assert.WithinDuration(t, time.Now().Add(time.Hour), issued.ExpiresAt, time.Minute)

	claims, err := m.VerifyAccessToken(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, issued.JTI, claims.JTI)
}

func TestJWT_RejectsTampering(t *testing.T) {
	m := newTestManager(t)

	issued, err := m.CreateAccessToken("user-1", 0)
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(issued.Token + "x")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	_, err = m.VerifyAccessToken("not.a.token")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestJWT_RejectsForeignKey(t *testing.T) {
	m := newTestManager(t)
	other := newTestManager(t)

	issued, err := other.CreateAccessToken("user-1", 0)
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(issued.Token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestJWT_Expired(t *testing.T) {
	m := newTestManager(t)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	issued, err := m.CreateAccessToken("user-1", 0)
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(issued.Token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestJWT_KeyIDStableAcrossLoads(t *testing.T) {
	m := newTestManager(t)

	again, err := NewJWTManager(m.config)
	require.NoError(t, err)

	assert.NotEmpty(t, m.GetKeyID())
	assert.Equal(t, m.GetKeyID(), again.GetKeyID())
}

func TestJWT_JWKSHandler(t *testing.T) {
	m := newTestManager(t)

	rec := httptest.NewRecorder()
	m.GetJWKSHandler()(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Keys, 1)
	assert.Equal(t, "EC", body.Keys[0]["kty"])
	assert.Equal(t, m.GetKeyID(), body.Keys[0]["kid"])
	assert.NotContains(t, body.Keys[0], "d")
}

func TestLocalBlacklist(t *testing.T) {
	ctx := context.Background()
	bl := NewBlacklist(nil, time.Hour)

	revoked, err := bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))
	revoked, err = bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, bl.Revoke(ctx, "jti-2", time.Now().Add(-time.Minute)))
	revoked, err = bl.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
