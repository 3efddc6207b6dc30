// AngelaMos | 2026
// handler.go

package user

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/catalog"
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
		validator: core.NewValidator(core.WithSet("genre", catalog.Genres)),
	}
}

// RegisterAccountRoutes mounts the caller's own account endpoints onto a
// router already scoped to /auth.
func (h *Handler) RegisterAccountRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Get("/me", h.GetMe)
		r.Put("/profile", h.UpdateProfile)
	})
}

// RegisterRoutes mounts onto a router already scoped to /users.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/{userID}/profile", h.GetProfile)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	me, err := h.service.Me(r.Context(), middleware.GetIdentity(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, me)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !h.validator.DecodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.UpdateProfile(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		req,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OKWithMessage(w, "Profile updated successfully", ToUserResponse(user))
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := core.URLParamID(w, r, "userID")
	if !ok {
		return
	}

	profile, err := h.service.PublicProfile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, profile)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "user")
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "authentication required")
	default:
		core.InternalServerError(w, err)
	}
}
