// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/catalog"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/stats"
)

// BookAdmin exposes catalog operations that ignore the active filter.
type BookAdmin interface {
	GetBookAnyState(ctx context.Context, id string) (*catalog.Book, error)
	RestoreBook(ctx context.Context, id string) (*catalog.Book, int64, error)
}

type TotalsSource interface {
	Totals(ctx context.Context) (*stats.Totals, error)
}

type Handler struct {
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	redisPing  func(ctx context.Context) error
	dbPing     func(ctx context.Context) error
	books      BookAdmin
	totals     TotalsSource
}

// HandlerConfig leaves DBStats and RedisStats nil when the backing store is
// not Postgres or Redis is not configured.
type HandlerConfig struct {
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	DBPing     func(ctx context.Context) error
	Books      BookAdmin
	Totals     TotalsSource
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		redisPing:  cfg.RedisPing,
		dbPing:     cfg.DBPing,
		books:      cfg.Books,
		totals:     cfg.Totals,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router, guard func(http.Handler) http.Handler) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(guard)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
		r.Get("/books/{bookID}", h.GetBook)
		r.Post("/books/{bookID}/restore", h.RestoreBook)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totals, err := h.totals.Totals(ctx)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	response := SystemStatsResponse{
		Platform: totals,
		Database: DatabaseStatus{
			Healthy: ping(ctx, h.dbPing),
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: ping(ctx, h.redisPing),
			Stats:   h.getRedisStats(),
		},
		Runtime: readRuntime(),
	}

	core.OK(w, response)
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, readRuntime())
}

func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, ok := core.URLParamID(w, r, "bookID")
	if !ok {
		return
	}

	book, err := h.books.GetBookAnyState(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, book)
}

func (h *Handler) RestoreBook(w http.ResponseWriter, r *http.Request) {
	id, ok := core.URLParamID(w, r, "bookID")
	if !ok {
		return
	}

	book, restored, err := h.books.RestoreBook(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("book restored",
		"book_id", id,
		"reviews_restored", restored,
	)

	core.OKWithMessage(w, "Book restored successfully", RestoreResponse{
		Book:            book,
		ReviewsRestored: restored,
	})
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrNotFound) {
		core.NotFound(w, "book")
		return
	}
	core.InternalServerError(w, err)
}

// ping treats an unconfigured dependency as unhealthy.
func ping(ctx context.Context, fn func(context.Context) error) bool {
	if fn == nil {
		return false
	}
	return fn(ctx) == nil
}

func readRuntime() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	s := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: s.MaxOpenConnections,
		OpenConnections:    s.OpenConnections,
		InUse:              s.InUse,
		Idle:               s.Idle,
		WaitCount:          s.WaitCount,
		WaitDuration:       s.WaitDuration.String(),
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	s := h.redisStats()
	return &RedisPoolStats{
		Hits:       s.Hits,
		Misses:     s.Misses,
		Timeouts:   s.Timeouts,
		TotalConns: s.TotalConns,
		IdleConns:  s.IdleConns,
	}
}

type RestoreResponse struct {
	Book            *catalog.Book `json:"book"`
	ReviewsRestored int64         `json:"reviewsRestored"`
}

type SystemStatsResponse struct {
	Platform *stats.Totals  `json:"platform"`
	Database DatabaseStatus `json:"database"`
	Redis    RedisStatus    `json:"redis"`
	Runtime  RuntimeStats   `json:"runtime"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"maxOpenConnections"`
	OpenConnections    int    `json:"openConnections"`
	InUse              int    `json:"inUse"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"waitCount"`
	WaitDuration       string `json:"waitDuration"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"totalConns"`
	IdleConns  uint32 `json:"idleConns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
	NumCPU       int    `json:"numCpu"`
	MemAlloc     uint64 `json:"memAllocBytes"`
	MemSys       uint64 `json:"memSysBytes"`
	NumGC        uint32 `json:"numGc"`
}
