// Package cli provides common initialization for the zen binaries.
// cmd/zen, cmd/zen-worker and cmd/recurring-worker all start the same way:
// load .env, configure logging, validate config, open the backend.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"zen/internal/backend"
	"zen/internal/config"
	zlog "zen/internal/log"
	"zen/internal/services"
)

// SetupLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default. Unknown levels fall back to info.
func SetupLogger(w io.Writer, cfg *config.Config, component string) *zlog.Logger {
	level, err := zlog.ParseLevel(cfg.LogLevel)
	logger := zlog.New(zlog.Config{
		Level:     level,
		Component: component,
		Handler:   zlog.NewHandler(w, cfg.LogFormat, level),
	})
	zlog.SetDefault(logger)
	if err != nil {
		logger.Warn("Unknown log level, using info", "level", cfg.LogLevel)
	}
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenBackend creates the store and optional event publisher described by cfg.
func OpenBackend(ctx context.Context, logger *zlog.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, bc)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", bc.Type, err)
	}
	return res, nil
}

// NewLedger wires a LedgerService over an opened backend.
func NewLedger(res *backend.BackendResult, cfg *config.Config) *services.LedgerService {
	return services.NewLedgerService(res.Store, res.Publisher, services.LedgerOptions{
		HistoryMonths: cfg.HistoryMonths,
		Location:      cfg.Location(),
	})
}

// GracefulShutdown returns a context cancelled on SIGINT, SIGTERM or a call to
// the returned cancel func. cleanup then runs once, bounded by timeout, and
// done is closed.
func GracefulShutdown(logger *zlog.Logger, timeout time.Duration, cleanup func()) (context.Context, context.CancelFunc, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-ctx.Done():
		}
		cancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(finished)
		}()

		select {
		case <-finished:
			logger.Info("Shutdown complete")
		case <-time.After(timeout):
			logger.Warn("Shutdown timeout reached")
		}
		close(done)
	}()

	return ctx, cancel, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup finished.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}

// Fatal logs err and exits the process.
func Fatal(logger *zlog.Logger, msg string, err error) {
	logger.Error(msg, slog.Any(zlog.FieldError, err))
	os.Exit(1)
}
