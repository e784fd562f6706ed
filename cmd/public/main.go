// Package main is the entrypoint for the public invoice viewer. It
// serves the read-only invoice pages reached through shared links.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/rapidinvoice/rapidinvoice-mcp/internal/cache"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/config"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/handler"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/metrics"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/middleware"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/repository"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// The viewer works without Redis; the cache only absorbs repeat
	// reads of hot links.
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		logger.Info("connected to Redis")
	}

	recorder := metrics.NewNoop()

	var invoiceCache handler.InvoiceCache
	var cachePinger handler.Pinger
	if cacheClient != nil {
		invoiceCache = cacheClient
		cachePinger = cacheClient
	}

	publicHandler := handler.NewPublicInvoiceHandler(repo, invoiceCache, recorder, logger)
	healthHandler := handler.NewHealthHandler(repo, cachePinger, logger)

	r := setupRouter(publicHandler, healthHandler, logger)

	srv := server.New(
		r,
		cfg.ViewerPort,
		time.Duration(cfg.ViewerReadTimeout)*time.Second,
		time.Duration(cfg.ViewerWriteTimeout)*time.Second,
		time.Duration(cfg.ViewerShutdownTimeout)*time.Second,
		logger,
	)
	srv.OnShutdown("database", func(context.Context) error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("cache", func(context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting public viewer",
		"port", cfg.ViewerPort,
		"env", cfg.AppEnv,
		"cache_enabled", cacheClient != nil,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	var h slog.Handler
	if cfg.IsDevelopment() {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(publicHandler *handler.PublicInvoiceHandler, healthHandler *handler.HealthHandler, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	r.Get("/invoice/public/{token}", publicHandler.View)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
