// AngelaMos | 2026
// routes.go

package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/admin"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/auth"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/catalog"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/config"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/health"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/middleware"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/review"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/stats"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/user"
)

const APIPrefix = "/api"

type Handlers struct {
	Auth    *auth.Handler
	Users   *user.Handler
	Catalog *catalog.Handler
	Reviews *review.Handler
	Stats   *stats.Handler
	Admin   *admin.Handler
	Health  *health.Handler
}

// RouteConfig carries the cross-cutting pieces of the router. Nil Tracer,
// Metrics, RateLimiter and CredentialLimiter leave that layer out.
type RouteConfig struct {
	Resolver          middleware.IdentityResolver
	Logger            *slog.Logger
	Tracer            trace.Tracer
	Metrics           *middleware.Metrics
	RateLimiter       *middleware.RateLimiter
	CredentialLimiter *middleware.RateLimiter
	CORS              config.CORSConfig
	Production        bool
	AdminToken        string
	JWKS              http.HandlerFunc
}

// Mount installs the middleware chain, the operational endpoints and every
// API route under /api.
func Mount(r chi.Router, h Handlers, cfg RouteConfig) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	r.Use(middleware.RequestID)
	if cfg.Tracer != nil {
		r.Use(middleware.Tracing(cfg.Tracer))
	}
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Instrument)
	}
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.SecurityHeaders(cfg.Production))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		core.NotFound(w, "route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		core.JSONError(w, core.NewAppError(
			core.ErrNotFound,
			"method not allowed",
			http.StatusMethodNotAllowed,
			"METHOD_NOT_ALLOWED",
		))
	})

	if h.Health != nil {
		h.Health.RegisterRoutes(r)
	}
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}
	if cfg.JWKS != nil {
		r.Get("/.well-known/jwks.json", cfg.JWKS)
	}

	r.Route(APIPrefix, func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Handler)
		}
		MountAPI(r, h, cfg)
	})
}

// MountAPI registers the feature routes on a router already scoped to the
// API prefix.
func MountAPI(r chi.Router, h Handlers, cfg RouteConfig) {
	authenticator := middleware.Authenticator(cfg.Resolver)
	optionalAuth := middleware.OptionalAuth(cfg.Resolver)

	credentialLimit := passthrough
	if cfg.CredentialLimiter != nil {
		credentialLimit = cfg.CredentialLimiter.Handler
	}

	r.Route("/auth", func(r chi.Router) {
		h.Auth.RegisterRoutes(r, authenticator, credentialLimit)
		h.Users.RegisterAccountRoutes(r, authenticator)
	})

	h.Catalog.RegisterRoutes(r, authenticator, optionalAuth)
	h.Reviews.RegisterRoutes(r, authenticator)

	r.Route("/users", func(r chi.Router) {
		h.Stats.RegisterRoutes(r, authenticator)
		h.Users.RegisterRoutes(r)
	})

	if h.Admin != nil {
		h.Admin.RegisterRoutes(r, middleware.RequireAdminToken(cfg.AdminToken))
	}
}

func passthrough(next http.Handler) http.Handler {
	return next
}
