// AngelaMos | 2026
// handler.go

package review

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
	"github.com/VanshTuteja/BookReviewsPlatform/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *core.Validator
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/reviews", func(r chi.Router) {
		r.Get("/recent", h.Recent)
		r.Get("/book/{bookID}", h.ListForBook)
		r.Get("/user/{userID}", h.ListForUser)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/", h.Create)
			r.Put("/{reviewID}", h.Update)
			r.Delete("/{reviewID}", h.Delete)
			r.Post("/{reviewID}/like", h.ToggleLike)
		})
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	req.Normalize()

	if err := h.validator.Validate(req); err != nil {
		core.JSONError(w, err)
		return
	}

	rev, err := h.service.CreateReview(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		req,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, "Review created successfully", rev)
}

func (h *Handler) ListForBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := core.URLParamID(w, r, "bookID")
	if !ok {
		return
	}

	resp, err := h.service.ListForBook(r.Context(), bookID, listParams(r))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := core.URLParamID(w, r, "userID")
	if !ok {
		return
	}

	resp, err := h.service.ListForUser(r.Context(), userID, listParams(r))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.Recent(r.Context(), core.QueryInt(r, "limit", 0))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, map[string]any{"reviews": reviews})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := core.URLParamID(w, r, "reviewID")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	req.Normalize()

	if err := h.validator.Validate(req); err != nil {
		core.JSONError(w, err)
		return
	}

	rev, err := h.service.UpdateReview(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		id,
		req,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OKWithMessage(w, "Review updated successfully", rev)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := core.URLParamID(w, r, "reviewID")
	if !ok {
		return
	}

	err := h.service.DeleteReview(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		id,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OKWithMessage(w, "Review deleted successfully", nil)
}

func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := core.URLParamID(w, r, "reviewID")
	if !ok {
		return
	}

	resp, err := h.service.ToggleLike(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		id,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, resp)
}

func listParams(r *http.Request) ListParams {
	q := r.URL.Query()
	return ListParams{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "limit", 0),
		SortBy:   q.Get("sortBy"),
		SortDesc: core.SortDirection(q.Get("sortOrder")) == "DESC",
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrDuplicateReview):
		core.JSONError(w, core.ConflictError(
			ErrDuplicateReview.Error(),
			"DUPLICATE_REVIEW",
		))
	case errors.Is(err, ErrBookNotFound):
		core.NotFound(w, "book")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "review")
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "authentication required")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "only the author can modify this review")
	default:
		core.InternalServerError(w, err)
	}
}
