package users

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ayush/flowbit/backend/internal/httpx"
	"github.com/ayush/flowbit/backend/internal/middleware"
	"github.com/ayush/flowbit/backend/internal/models"
)

const notFoundMsg = "user not found"

// Handler holds profile HTTP handlers. All routes sit behind RequireAuth.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Profile returns the current user's public profile.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Profile(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		httpx.Error(w, r, httpx.NotFoundMessage(err, notFoundMsg))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

// UpdateProfile changes the current user's name.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	p, err := h.svc.UpdateProfile(r.Context(), middleware.UserID(r.Context()), req)
	if err != nil {
		httpx.Error(w, r, httpx.NotFoundMessage(err, notFoundMsg))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

// ChangePassword verifies the current password and stores the new one.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	userID := middleware.UserID(r.Context())
	if err := h.svc.ChangePassword(r.Context(), userID, req); err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			httpx.WriteMessage(w, http.StatusUnauthorized, "Invalid current password")
			return
		}
		httpx.Error(w, r, httpx.NotFoundMessage(err, notFoundMsg))
		return
	}

	slog.InfoContext(r.Context(), "password changed", "user_id", userID)
	httpx.WriteMessage(w, http.StatusOK, "Password updated successfully")
}
