// Package main is the entrypoint for the RapidInvoice MCP server.
//
// The process speaks JSON-RPC over stdin/stdout, so logs go to a file
// instead of the standard streams.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/rapidinvoice/rapidinvoice-mcp/internal/config"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/mcp"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/metrics"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/repository"
	"github.com/rapidinvoice/rapidinvoice-mcp/internal/service"
)

const serverVersion = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closeLog, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	apiKey := config.ResolveAPIKey(os.Args[1:], os.Getenv)
	if apiKey == "" {
		logger.Error("no API key provided")
		return fmt.Errorf("no API key: pass --api_key=VALUE or set API_KEY")
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return fmt.Errorf("failed to connect to database")
	}
	defer repo.Close()
	logger.Info("connected to database")

	invoiceService := service.NewInvoiceService(repo, logger, metrics.NewNoop())
	dispatcher := mcp.NewDispatcher(invoiceService, apiKey, cfg.PublicBaseURL, logger)

	srv := mcp.NewServer(dispatcher, mcp.ServerInfo{
		Name:    "rapidinvoice-mcp",
		Version: serverVersion,
	}, os.Stdin, os.Stdout, logger)

	logger.Info("MCP server starting", "version", serverVersion, "env", cfg.AppEnv)

	if err := srv.Run(ctx); err != nil {
		logger.Error("MCP server error", "error", err)
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("MCP server stopped")
	return nil
}

// initLogger opens the log file and returns a JSON logger writing to
// it. stdout is reserved for protocol frames.
func initLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	return logger, func() { f.Close() }, nil
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
