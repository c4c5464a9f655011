// Package main is the entry point for the Trip Scout API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/pkordes/trip-scout/internal/config"
	"github.com/pkordes/trip-scout/internal/domain"
	"github.com/pkordes/trip-scout/internal/geocode"
	"github.com/pkordes/trip-scout/internal/handler"
	"github.com/pkordes/trip-scout/internal/middleware"
	"github.com/pkordes/trip-scout/internal/repo"
	"github.com/pkordes/trip-scout/internal/service"
	"github.com/pkordes/trip-scout/migrations"
	"github.com/pkordes/trip-scout/spec"
)

// maxBodyBytes caps request body sizes. Photo imports are the largest
// payload; 10 MiB fits roughly 100k records.
const maxBodyBytes = 10 << 20

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog is the stdlib structured logger introduced in Go 1.21.
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Migrations -------------------------------------------------------
	// goose needs a database/sql handle; open one just for the migration run.
	if err := runMigrations(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations up to date")

	// --- Wiring -----------------------------------------------------------
	photoRepo := repo.NewPhotoRepo(pool)
	tripRepo := repo.NewTripRepo(pool)

	var resolver geocode.Resolver
	if cfg.NominatimURL != "" {
		resolver = geocode.NewNominatim(cfg.NominatimURL, repo.NewGeocacheRepo(pool), cfg.GeocodeMaxPerMinute)
	}

	home := domain.Coordinate{}
	if cfg.Home != nil {
		home = *cfg.Home
	}

	photoSvc := service.NewPhotoService(photoRepo)
	scanSvc := service.NewScanService(photoRepo, tripRepo, resolver, cfg.Cluster, home, logger)
	tripSvc := service.NewTripService(tripRepo)
	exportSvc := service.NewExportService(tripRepo)

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID → RealIP → SlogLogger → Recoverer → CORS →
	// MaxBodySize. RequestID generates a unique trace ID per request; RealIP
	// sets r.RemoteAddr from X-Forwarded-For (safe behind a proxy);
	// SlogLogger writes one structured JSON log line per request; Recoverer
	// catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))

	srvHandler := handler.NewServer(photoSvc, scanSvc, tripSvc, exportSvc, spec.OpenAPI)
	r.Mount("/", srvHandler.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	// The write timeout leaves room for a scan over a large photo window.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// runMigrations applies all pending goose migrations from the embedded FS.
func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}
