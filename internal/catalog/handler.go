// AngelaMos | 2026
// handler.go

package catalog

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
		validator: core.NewValidator(core.WithSet("genre", Genres)),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	optionalAuth func(http.Handler) http.Handler,
) {
	r.Route("/books", func(r chi.Router) {
		r.Get("/genres", h.Genres)
		r.Get("/{bookID}/similar", h.Similar)

		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/", h.List)
			r.Get("/{bookID}", h.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/", h.Create)
			r.Put("/{bookID}", h.Update)
			r.Delete("/{bookID}", h.Delete)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := ListBooksParams{
		Search:    q.Get("search"),
		Genre:     q.Get("genre"),
		Author:    q.Get("author"),
		MinYear:   core.QueryIntPtr(r, "minYear"),
		MaxYear:   core.QueryIntPtr(r, "maxYear"),
		MinRating: core.QueryFloatPtr(r, "minRating"),
		SortBy:    q.Get("sortBy"),
		SortDesc:  core.SortDirection(q.Get("sortOrder")) == "DESC",
		Page:      core.QueryInt(r, "page", 1),
		PageSize:  core.QueryInt(r, "limit", 0),
	}

	resp, err := h.service.ListBooks(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Genres(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, map[string]any{"genres": Genres})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := core.URLParamID(w, r, "bookID")
	if !ok {
		return
	}

	detail, err := h.service.GetBook(
		r.Context(),
		id,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, detail)
}

func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	id, ok := core.URLParamID(w, r, "bookID")
	if !ok {
		return
	}

	books, err := h.service.SimilarBooks(
		r.Context(),
		id,
		core.QueryInt(r, "limit", 0),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, map[string]any{"books": books})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	req.Normalize()

	if err := h.validator.Validate(req); err != nil {
		core.JSONError(w, err)
		return
	}

	book, err := h.service.CreateBook(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		req,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, "Book created successfully", book)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := core.URLParamID(w, r, "bookID")
	if !ok {
		return
	}

	var req UpdateBookRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	req.Normalize()

	if err := h.validator.Validate(req); err != nil {
		core.JSONError(w, err)
		return
	}

	book, err := h.service.UpdateBook(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		id,
		req,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OKWithMessage(w, "Book updated successfully", book)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := core.URLParamID(w, r, "bookID")
	if !ok {
		return
	}

	err := h.service.DeleteBook(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		id,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OKWithMessage(w, "Book deleted successfully", nil)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "book")
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "authentication required")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "only the owner can modify this book")
	default:
		core.InternalServerError(w, err)
	}
}
