// AngelaMos | 2026
// app.go

// Package app wires repositories into services and services into handlers.
// The API binary, the CLI and the end-to-end tests all build through here.
package app

import (
	"github.com/jmoiron/sqlx"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/admin"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/auth"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/catalog"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/config"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/health"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/review"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/server"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/stats"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/store/memory"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/user"
)

type Stores struct {
	Users    user.Repository
	Books    catalog.Repository
	Reviews  review.Repository
	Sessions auth.Repository
	Stats    stats.Repository
}

func PostgresStores(db *sqlx.DB) Stores {
	return Stores{
		Users:    user.NewRepository(db),
		Books:    catalog.NewRepository(db),
		Reviews:  review.NewRepository(db),
		Sessions: auth.NewRepository(db),
		Stats:    stats.NewRepository(db),
	}
}

func MemoryStores(s *memory.Store) Stores {
	return Stores{
		Users:    s.Users(),
		Books:    s.Books(),
		Reviews:  s.Reviews(),
		Sessions: s.Sessions(),
		Stats:    s.Stats(),
	}
}

type Services struct {
	Auth    *auth.Service
	Users   *user.Service
	Catalog *catalog.Service
	Reviews *review.Service
	Stats   *stats.Service
}

// NewServices resolves the dependency order between the feature services.
// rdb may be nil, in which case revocation and caching stay in process.
func NewServices(
	cfg *config.Config,
	stores Stores,
	jwt *auth.JWTManager,
	rdb *core.Redis,
) *Services {
	reviewSvc := review.NewService(stores.Reviews, stores.Books, review.Config{
		PageSize:    cfg.Catalog.ReviewPageSize,
		MaxPageSize: cfg.Catalog.MaxPageSize,
		RecentLimit: cfg.Catalog.RecentReviewsLimit,
	})

	catalogSvc := catalog.NewService(stores.Books, reviewSvc, catalog.Config{
		PageSize:     cfg.Catalog.BookPageSize,
		MaxPageSize:  cfg.Catalog.MaxPageSize,
		SimilarLimit: cfg.Catalog.SimilarLimit,
	})

	statsSvc := stats.NewService(
		stores.Stats,
		stats.NewLeaderboardCache(rdb, cfg.Cache.LeaderboardTTL),
	)

	userSvc := user.NewService(stores.Users, catalogSvc, reviewSvc, statsSvc)

	authSvc := auth.NewService(
		stores.Sessions,
		jwt,
		userSvc,
		auth.NewBlacklist(rdb, jwt.TokenLifetime()),
	)

	return &Services{
		Auth:    authSvc,
		Users:   userSvc,
		Catalog: catalogSvc,
		Reviews: reviewSvc,
		Stats:   statsSvc,
	}
}

// NewHandlers fills in the admin handler's service dependencies; adminDeps
// only needs the optional pool probes.
func NewHandlers(
	svcs *Services,
	healthHandler *health.Handler,
	adminDeps admin.HandlerConfig,
) server.Handlers {
	adminDeps.Books = svcs.Catalog
	adminDeps.Totals = svcs.Stats

	return server.Handlers{
		Auth:    auth.NewHandler(svcs.Auth),
		Users:   user.NewHandler(svcs.Users),
		Catalog: catalog.NewHandler(svcs.Catalog),
		Reviews: review.NewHandler(svcs.Reviews),
		Stats:   stats.NewHandler(svcs.Stats),
		Admin:   admin.NewHandler(adminDeps),
		Health:  healthHandler,
	}
}
