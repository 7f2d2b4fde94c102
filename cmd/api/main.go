// Package main is the entry point for the Wanderly API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pkordes/wanderly/internal/auth"
	"github.com/pkordes/wanderly/internal/config"
	"github.com/pkordes/wanderly/internal/handler"
	"github.com/pkordes/wanderly/internal/itinerary"
	"github.com/pkordes/wanderly/internal/kv"
	"github.com/pkordes/wanderly/internal/metrics"
	"github.com/pkordes/wanderly/internal/middleware"
	"github.com/pkordes/wanderly/internal/openai"
	"github.com/pkordes/wanderly/internal/places"
	"github.com/pkordes/wanderly/internal/repo"
	"github.com/pkordes/wanderly/internal/service"
	"github.com/pkordes/wanderly/internal/weather"
	"github.com/pkordes/wanderly/spec"
)

// limiterIdle is how long a user's rate-limit bucket survives without use.
const limiterIdle = 30 * time.Minute

func main() {
	// --- Config -----------------------------------------------------------
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ----------------------------------------------------------
	backend, closeBackend, err := kv.Open(ctx, kv.Options{
		Kind:        kv.Kind(cfg.StorageBackend),
		DatabaseURL: cfg.DatabaseURL,
		RedisURL:    cfg.RedisURL,
		SQLitePath:  cfg.SQLitePath,
	})
	if err != nil {
		slog.Error("failed to open storage", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer closeBackend()
	slog.Info("storage ready", "backend", cfg.StorageBackend)

	store := repo.NewStore(backend, repo.Options{Logger: logger})

	// --- Metrics ----------------------------------------------------------
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewCollector(registry)

	// --- Collaborators ----------------------------------------------------
	// A nil Completer makes the generator serve every request from templates.
	var llm itinerary.Completer
	if client, err := openai.NewClient(cfg.OpenAIAPIKey,
		openai.WithModel(cfg.OpenAIModel),
		openai.WithBaseURL(cfg.OpenAIBaseURL),
	); err == nil {
		llm = client
	} else {
		slog.Warn("OPENAI_API_KEY not set; itineraries will use templates")
	}
	generator := itinerary.NewGenerator(llm, logger, recorder, itinerary.WithTimeout(cfg.GenerationTimeout))

	tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL, time.Now)
	if err != nil {
		slog.Error("failed to configure tokens", "error", err)
		os.Exit(1)
	}

	// --- Services ---------------------------------------------------------
	trips := service.NewTripService(store.Trips, store.Members)
	srv := handler.NewServer(handler.Deps{
		Auth:       service.NewAuthService(store.Users, store.Credentials, store.Session),
		Tokens:     tokens,
		Trips:      trips,
		Members:    service.NewMemberService(store.Trips, store.Users, store.Members),
		Activities: service.NewActivityService(store.Trips, store.Activities),
		Votes:      service.NewVoteService(store.Activities, store.Votes),
		Messages:   service.NewMessageService(store.Trips, store.Messages),
		Planner:    service.NewPlannerService(trips, store.Activities, generator),
		Export:     service.NewExportService(store.Trips, store.Activities, store.Votes),
		Weather:    weather.New(cfg.OpenWeatherAPIKey, logger, recorder),
		Places:     places.New(cfg.GoogleMapsAPIKey, logger, recorder),
		Logger:     logger,
	})

	limiter := middleware.NewRateLimiter(cfg.GenerateRatePerMinute, logger)
	go sweepLimiter(ctx, limiter)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger, "/healthz", "/metrics"))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Mount("/", handler.NewRouter(srv, handler.RouterOptions{
		Verifier: tokens,
		Limiter:  limiter,
		Metrics:  metrics.Handler(registry),
		OpenAPI:  spec.OpenAPI,
	}))

	// --- HTTP Server ------------------------------------------------------
	// The write timeout leaves room for one full itinerary generation.
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.GenerationTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		return
	}
	slog.Info("server stopped")
}

// sweepLimiter periodically forgets idle users until ctx is done.
func sweepLimiter(ctx context.Context, rl *middleware.RateLimiter) {
	t := time.NewTicker(limiterIdle / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := rl.Sweep(limiterIdle); n > 0 {
				slog.Debug("rate limiter swept", "removed", n, "tracked", rl.Len())
			}
		}
	}
}
