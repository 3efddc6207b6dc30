// AngelaMos | 2026
// handler.go

package stats

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts onto a router already scoped to /users.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.With(authenticator).Get("/stats", h.MyStats)
	r.Get("/leaderboard", h.Leaderboard)
	r.Get("/search", h.Search)
}

func (h *Handler) MyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.UserStats(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, stats)
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("type")

	entries, err := h.service.Leaderboard(
		r.Context(),
		kind,
		core.QueryInt(r, "limit", 0),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	if kind == "" {
		kind = LeaderboardBooks
	}
	core.OK(w, map[string]any{"type": kind, "leaderboard": entries})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.SearchUsers(
		r.Context(),
		r.URL.Query().Get("q"),
		core.QueryInt(r, "limit", 0),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, map[string]any{"users": users})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrQueryTooShort):
		core.JSONError(w, core.InvalidQueryError(ErrQueryTooShort.Error()))
	case errors.Is(err, core.ErrInvalidQuery):
		core.JSONError(w, core.InvalidQueryError("type must be one of: books reviews"))
	default:
		core.InternalServerError(w, err)
	}
}
