// AngelaMos | 2026
// routes_test.go

package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/admin"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/app"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/auth"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/config"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/health"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/server"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/store/memory"
)

const adminToken = "s3cret"

type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

type apiClient struct {
	t      *testing.T
	router http.Handler
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()

	dir := t.TempDir()
	jwtCfg := config.JWTConfig{
		PrivateKeyPath:    filepath.Join(dir, "private.pem"),
		PublicKeyPath:     filepath.Join(dir, "public.pem"),
		AccessTokenExpire: time.Hour,
		Issuer:            "book-reviews",
		Audience:          "book-reviews-api",
	}
	require.NoError(t, auth.GenerateKeyPair(jwtCfg.PrivateKeyPath, jwtCfg.PublicKeyPath))

	jwtManager, err := auth.NewJWTManager(jwtCfg)
	require.NoError(t, err)

	cfg := &config.Config{
		Catalog: config.CatalogConfig{
			BookPageSize:       10,
			ReviewPageSize:     10,
			MaxPageSize:        50,
			SimilarLimit:       5,
			RecentReviewsLimit: 10,
		},
		Cache: config.CacheConfig{LeaderboardTTL: time.Minute},
	}

	svcs := app.NewServices(cfg, app.MemoryStores(memory.New()), jwtManager, nil)

	r := chi.NewRouter()
	server.Mount(
		r,
		app.NewHandlers(svcs, health.NewHandler(), admin.HandlerConfig{}),
		server.RouteConfig{
			Resolver:   svcs.Auth,
			Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
			AdminToken: adminToken,
			JWKS:       jwtManager.GetJWKSHandler(),
		},
	)

	return &apiClient{t: t, router: r}
}

func (c *apiClient) do(
	method, path, token string,
	body any,
	headers ...string,
) (int, envelope) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

type authData struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (c *apiClient) signup(name, email string) authData {
	c.t.Helper()

	status, env := c.do(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "secret123",
	})
	require.Equal(c.t, http.StatusCreated, status)
	return decode[authData](c.t, env)
}

type bookData struct {
	ID                 string         `json:"id"`
	Title              string         `json:"title"`
	AverageRating      float64        `json:"averageRating"`
	ReviewCount        int            `json:"reviewCount"`
	RatingDistribution map[string]int `json:"ratingDistribution"`
}

func (c *apiClient) createBook(token, title string) bookData {
	c.t.Helper()

	status, env := c.do(http.MethodPost, "/api/books", token, map[string]any{
		"title":         title,
		"author":        "Frank Herbert",
		"description":   "A desert planet and its spice.",
		"genre":         "Science Fiction",
		"publishedYear": 1965,
	})
	require.Equal(c.t, http.StatusCreated, status)
	return decode[bookData](c.t, env)
}

func (c *apiClient) review(token, bookID string, stars int) (int, envelope) {
	c.t.Helper()

	return c.do(http.MethodPost, "/api/reviews", token, map[string]any{
		"bookId":     bookID,
		"rating":     stars,
		"reviewText": "A thoughtful and rewarding read.",
	})
}

func TestSignupLoginAndMe(t *testing.T) {
	api := newAPI(t)
	api.signup("Ada Lovelace", "ada@example.com")

	status, env := api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ADA@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, status)
	login := decode[authData](t, env)
	require.NotEmpty(t, login.Token)

	status, env = api.do(http.MethodGet, "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, status)

	me := decode[struct {
		User    struct{ Email string } `json:"user"`
		Books   []json.RawMessage      `json:"books"`
		Reviews []json.RawMessage      `json:"reviews"`
	}](t, env)
	assert.Equal(t, "ada@example.com", me.User.Email)
	assert.NotNil(t, me.Books)
	assert.Empty(t, me.Books)
	assert.NotNil(t, me.Reviews)
	assert.Empty(t, me.Reviews)
}

func TestMe_RequiresToken(t *testing.T) {
	api := newAPI(t)

	status, env := api.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)
}

func TestSecondReviewIsRejected(t *testing.T) {
	api := newAPI(t)
	owner := api.signup("Owner", "owner@example.com")
	reader := api.signup("Reader", "reader@example.com")
	book := api.createBook(owner.Token, "Dune")

	status, _ := api.review(reader.Token, book.ID, 4)
	require.Equal(t, http.StatusCreated, status)

	status, env := api.review(reader.Token, book.ID, 5)
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, env.Success)

	status, env = api.do(http.MethodGet, "/api/books/"+book.ID, "", nil)
	require.Equal(t, http.StatusOK, status)
	got := decode[bookData](t, env)
	assert.InDelta(t, 4.0, got.AverageRating, 0.001)
	assert.Equal(t, 1, got.ReviewCount)
}

func TestRatingDistribution(t *testing.T) {
	api := newAPI(t)
	owner := api.signup("Owner", "owner@example.com")
	first := api.signup("First", "first@example.com")
	second := api.signup("Second", "second@example.com")
	book := api.createBook(owner.Token, "Dune")

	status, _ := api.review(first.Token, book.ID, 5)
	require.Equal(t, http.StatusCreated, status)
	status, _ = api.review(second.Token, book.ID, 3)
	require.Equal(t, http.StatusCreated, status)

	status, env := api.do(http.MethodGet, "/api/books/"+book.ID, "", nil)
	require.Equal(t, http.StatusOK, status)

	got := decode[bookData](t, env)
	assert.InDelta(t, 4.0, got.AverageRating, 0.001)
	assert.Equal(t, map[string]int{"1": 0, "2": 0, "3": 1, "4": 0, "5": 1}, got.RatingDistribution)
}

func TestUpdateBook_OwnerOnly(t *testing.T) {
	api := newAPI(t)
	owner := api.signup("Owner", "owner@example.com")
	other := api.signup("Other", "other@example.com")
	book := api.createBook(owner.Token, "Dune")

	update := map[string]any{"title": "Dune Messiah"}

	status, env := api.do(http.MethodPut, "/api/books/"+book.ID, other.Token, update)
	assert.Equal(t, http.StatusForbidden, status)
	assert.False(t, env.Success)

	status, env = api.do(http.MethodPut, "/api/books/"+book.ID, owner.Token, update)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Dune Messiah", decode[bookData](t, env).Title)
}

func TestBookFields_ValidatedAfterTrimming(t *testing.T) {
	api := newAPI(t)
	owner := api.signup("Owner", "owner@example.com")
	book := api.createBook(owner.Token, "Dune")

	valid := func() map[string]any {
		return map[string]any{
			"title":         "Children of Dune",
			"author":        "Frank Herbert",
			"description":   "The third book of the desert saga.",
			"genre":         "Science Fiction",
			"publishedYear": 1976,
		}
	}

	tests := []struct {
		name   string
		method string
		path   string
		field  string
		value  string
	}{
		{"create blank title", http.MethodPost, "/api/books", "title", "   "},
		{"create padded short description", http.MethodPost, "/api/books", "description", "         x"},
		{"create blank author", http.MethodPost, "/api/books", "author", "\t \n"},
		{"update blank title", http.MethodPut, "/api/books/" + book.ID, "title", "   "},
		{"update padded short description", http.MethodPut, "/api/books/" + book.ID, "description", "         x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := valid()
			body[tt.field] = tt.value

			status, env := api.do(tt.method, tt.path, owner.Token, body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "VALIDATION_FAILED", env.Code)
		})
	}

	t.Run("padded title is stored trimmed", func(t *testing.T) {
		body := valid()
		body["title"] = "  Children of Dune  "

		status, env := api.do(http.MethodPost, "/api/books", owner.Token, body)
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, "Children of Dune", decode[bookData](t, env).Title)
	})

	t.Run("stored book is unchanged", func(t *testing.T) {
		status, env := api.do(http.MethodGet, "/api/books/"+book.ID, "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Dune", decode[bookData](t, env).Title)
	})
}

func TestDeleteBook_HidesBookAndReviews(t *testing.T) {
	api := newAPI(t)
	owner := api.signup("Owner", "owner@example.com")
	reader := api.signup("Reader", "reader@example.com")
	book := api.createBook(owner.Token, "Dune")

	status, _ := api.review(reader.Token, book.ID, 4)
	require.Equal(t, http.StatusCreated, status)

	status, _ = api.do(http.MethodDelete, "/api/books/"+book.ID, owner.Token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = api.do(http.MethodGet, "/api/books/"+book.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env := api.do(http.MethodGet, "/api/reviews/book/"+book.ID, "", nil)
	require.Equal(t, http.StatusOK, status)

	list := decode[struct {
		Reviews    []json.RawMessage `json:"reviews"`
		Statistics struct {
			TotalReviews int `json:"totalReviews"`
		} `json:"statistics"`
	}](t, env)
	assert.Empty(t, list.Reviews)
	assert.Zero(t, list.Statistics.TotalReviews)

	t.Run("admin restore", func(t *testing.T) {
		path := "/api/admin/books/" + book.ID + "/restore"

		status, _ := api.do(http.MethodPost, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)

		status, env := api.do(http.MethodPost, path, "", nil, "X-Admin-Token", adminToken)
		require.Equal(t, http.StatusOK, status)

		restored := decode[struct {
			Book            bookData `json:"book"`
			ReviewsRestored int64    `json:"reviewsRestored"`
		}](t, env)
		assert.Equal(t, int64(1), restored.ReviewsRestored)
		assert.Equal(t, 1, restored.Book.ReviewCount)

		status, _ = api.do(http.MethodGet, "/api/books/"+book.ID, "", nil)
		assert.Equal(t, http.StatusOK, status)
	})
}

func TestRouting(t *testing.T) {
	api := newAPI(t)

	tests := []struct {
		name   string
		method string
		path   string
		status int
		code   string
	}{
		{
			name:   "malformed book id",
			method: http.MethodGet,
			path:   "/api/books/not-a-uuid",
			status: http.StatusBadRequest,
			code:   "VALIDATION_FAILED",
		},
		{
			name:   "unknown route",
			method: http.MethodGet,
			path:   "/api/nothing-here",
			status: http.StatusNotFound,
		},
		{
			name:   "genres",
			method: http.MethodGet,
			path:   "/api/books/genres",
			status: http.StatusOK,
		},
		{
			name:   "book list",
			method: http.MethodGet,
			path:   "/api/books?genre=Fiction&page=1&limit=5",
			status: http.StatusOK,
		},
		{
			name:   "unknown leaderboard",
			method: http.MethodGet,
			path:   "/api/users/leaderboard?type=likes",
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := api.do(tt.method, tt.path, "", nil)
			assert.Equal(t, tt.status, status)
			if tt.code != "" {
				assert.Equal(t, tt.code, env.Code)
			}
		})
	}
}

func TestOperationalEndpoints(t *testing.T) {
	api := newAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	req = httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil)
	rec = httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var jwks struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jwks))
	require.Len(t, jwks.Keys, 1)
	assert.Equal(t, "EC", jwks.Keys[0]["kty"])
}
