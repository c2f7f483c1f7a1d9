package subscription

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/flowbit/backend/internal/httpx"
	"github.com/ayush/flowbit/backend/internal/middleware"
	"github.com/ayush/flowbit/backend/internal/models"
)

const notFoundMsg = "subscription not found"

// Handler holds subscription HTTP handlers. All routes sit behind RequireAuth.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List returns all subscriptions for the current user.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.List(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if subs == nil {
		subs = []models.Subscription{}
	}
	httpx.WriteJSON(w, http.StatusOK, subs)
}

// Create adds a subscription for the current user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var fields models.SubscriptionFields
	if err := httpx.Decode(r, &fields); err != nil {
		httpx.Error(w, r, err)
		return
	}

	sub, err := h.svc.Create(r.Context(), middleware.UserID(r.Context()), fields)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, sub)
}

// Update applies a partial update to one of the user's subscriptions.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var fields models.SubscriptionFields
	if err := httpx.Decode(r, &fields); err != nil {
		httpx.Error(w, r, err)
		return
	}

	sub, err := h.svc.Update(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"), fields)
	if err != nil {
		httpx.Error(w, r, httpx.NotFoundMessage(err, notFoundMsg))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sub)
}

// Delete removes one of the user's subscriptions.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, httpx.NotFoundMessage(err, notFoundMsg))
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Subscription removed")
}

// Stats returns the per-category breakdown and monthly total.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}
