// Package server assembles the HTTP routes.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ayush/flowbit/backend/internal/auth"
	"github.com/ayush/flowbit/backend/internal/middleware"
	"github.com/ayush/flowbit/backend/internal/subscription"
	"github.com/ayush/flowbit/backend/internal/users"
)

const banner = "FlowBit API is running..."

// Deps is everything the router wires together. Limiter may be nil, which
// turns auth throttling off.
type Deps struct {
	Auth          *auth.Handler
	Subscriptions *subscription.Handler
	Users         *users.Handler
	Tokens        middleware.TokenVerifier
	Limiter       middleware.Limiter
	Registry      *prometheus.Registry
	CORSOrigins   []string
	Logger        *slog.Logger
}

func NewRouter(d Deps) http.Handler {
	metrics := middleware.NewMetrics(d.Registry)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(metrics.Handler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(banner))
	})

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))

	// Auth routes (public)
	r.Route("/api/auth", func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(middleware.Throttle(d.Limiter))
		}
		r.Post("/register", d.Auth.Register)
		r.Post("/login", d.Auth.Login)
	})

	// Subscription routes (protected)
	r.Route("/api/subscriptions", func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.Tokens))
		r.Get("/", d.Subscriptions.List)
		r.Post("/", d.Subscriptions.Create)
		r.Get("/stats", d.Subscriptions.Stats)
		r.Put("/{id}", d.Subscriptions.Update)
		r.Delete("/{id}", d.Subscriptions.Delete)
	})

	// Profile routes (protected)
	r.Route("/api/users", func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.Tokens))
		r.Get("/profile", d.Users.Profile)
		r.Put("/profile", d.Users.UpdateProfile)
		r.Put("/password", d.Users.ChangePassword)
	})

	return r
}
