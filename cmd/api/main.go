// Package main is the entrypoint for the hosteldesk admin API.
//
// Startup:
//  1. Load and validate configuration from the environment (.env merged in).
//  2. Initialize the structured JSON logger.
//  3. Construct the mail provider selected by configuration (Brevo bulk API
//     or SMTP relay fallback). Selection happens once, here.
//  4. Build the dispatcher and mount the chi router.
package main

import (
	"log/slog"
	"os"
	"strings"

	"hosteldesk/internal/api"
	"hosteldesk/internal/config"
	"hosteldesk/internal/dispatch"
	"hosteldesk/internal/external"
	"hosteldesk/internal/types"
)

// slogAdapter wraps *slog.Logger to implement the types.Logger interface.
// slog.Logger satisfies Info/Warn/Error directly but With returns
// *slog.Logger, not types.Logger, so an adapter is necessary.
type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Info(msg string, args ...any)  { a.logger.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.logger.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.logger.Error(msg, args...) }
func (a *slogAdapter) With(args ...any) types.Logger {
	return &slogAdapter{logger: a.logger.With(args...)}
}

// parseLogLevel maps the LOG_LEVEL setting onto slog levels, defaulting to
// info for unrecognized values.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	typedLogger := &slogAdapter{logger: logger}

	provider := external.NewProviderFromConfig(cfg.Mail, typedLogger)
	dispatcher := dispatch.NewDispatcher(provider, typedLogger)

	logger.Info("hosteldesk admin API starting",
		"environment", cfg.Environment,
		"provider", cfg.Mail.SelectedProvider(),
		"from", cfg.Mail.Sender().Email,
	)

	server := api.NewServer(cfg, dispatcher, logger)
	if err := server.ListenAndServe(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// Compile-time assertion that slogAdapter implements types.Logger.
var _ types.Logger = (*slogAdapter)(nil)
