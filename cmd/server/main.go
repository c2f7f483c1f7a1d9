package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/flowbit/backend/internal/auth"
	"github.com/ayush/flowbit/backend/internal/config"
	"github.com/ayush/flowbit/backend/internal/middleware"
	"github.com/ayush/flowbit/backend/internal/server"
	"github.com/ayush/flowbit/backend/internal/store"
	"github.com/ayush/flowbit/backend/internal/subscription"
	"github.com/ayush/flowbit/backend/internal/users"
	"github.com/ayush/flowbit/backend/pkg/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		fatal("invalid configuration", err)
	}
	ctx := context.Background()

	var (
		userStore interface {
			auth.UserStore
			users.Store
		}
		subStore subscription.Store
	)

	if cfg.DataBackend == config.BackendMemory {
		mem := store.NewMemoryStore()
		userStore, subStore = mem, mem
		slog.Warn("using in-memory stores, data is lost on restart")
	} else {
		// ── PostgreSQL ────────────────────────────────────────────
		pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			fatal("postgres connect", err)
		}
		defer pgPool.Close()
		pgStore := store.NewPostgresStore(pgPool)
		if err := pgStore.Migrate(ctx); err != nil {
			fatal("postgres migrate", err)
		}
		userStore = pgStore

		// ── MongoDB ──────────────────────────────────────────────
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			fatal("mongo connect", err)
		}
		defer mongoClient.Disconnect(context.Background())
		mongoStore := store.NewMongoStore(mongoClient.Database(cfg.MongoDB))
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			fatal("mongo indexes", err)
		}
		subStore = mongoStore
	}

	// ── Redis ────────────────────────────────────────────────
	var limiter middleware.Limiter
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			fatal("redis connect", err)
		}
		defer rdb.Close()
		limiter = store.NewRedisLimiter(rdb, "auth", cfg.AuthRateLimit, cfg.AuthRateWindow)
	} else {
		slog.Warn("REDIS_ADDR not set, auth throttling disabled")
	}

	// ── Handlers ─────────────────────────────────────────────
	passwords := auth.NewPasswords()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	authHandler := auth.NewHandler(auth.NewService(userStore, passwords, tokens))
	subHandler := subscription.NewHandler(subscription.NewService(subStore))
	userHandler := users.NewHandler(users.NewService(userStore, passwords))

	// ── Metrics ──────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// ── Router ───────────────────────────────────────────────
	r := server.NewRouter(server.Deps{
		Auth:          authHandler,
		Subscriptions: subHandler,
		Users:         userHandler,
		Tokens:        tokens,
		Limiter:       limiter,
		Registry:      registry,
		CORSOrigins:   cfg.CORSOrigins,
		Logger:        logger,
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
