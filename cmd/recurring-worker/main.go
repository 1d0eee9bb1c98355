// Command recurring-worker materializes due recurring transactions on a
// fixed interval so they appear even when nobody opens the ledger.
package main

import (
	"context"
	"os"
	"time"

	"zen/internal/cli"
	zlog "zen/internal/log"
	"zen/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.Fatal(zlog.Default(), "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(os.Stdout, cfg, zlog.ComponentRecurring)
	logger.Info("Starting recurring-worker")

	res, err := cli.OpenBackend(context.Background(), logger, cfg)
	if err != nil {
		cli.Fatal(logger, "Failed to open backend", err)
	}
	if res.Publisher == nil {
		logger.Info("AMQP disabled - occurrences will not be exported")
	}

	ctx, _, done := cli.GracefulShutdown(logger, shutdownTimeout, func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Cleanup failed", zlog.FieldError, err)
		}
	})

	ledger := cli.NewLedger(res, cfg)
	logger.Info("Recurring processor configured",
		"interval", cfg.RecurringInterval,
		"backend", cfg.DataBackend,
		"timezone", cfg.Location().String())

	logger.Info("Running initial recurring processing...")
	run(ctx, logger, ledger)

	ticker := time.NewTicker(cfg.RecurringInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			cli.WaitForShutdown(ctx, done)
			return
		case now := <-ticker.C:
			run(ctx, logger, ledger)
			logger.Debug("Next recurring check scheduled",
				"next_check", now.Add(cfg.RecurringInterval).Format("15:04:05"))
		}
	}
}

// run reloads the ledger, which materializes anything that became due.
func run(ctx context.Context, logger *zlog.Logger, ledger *services.LedgerService) {
	created, err := ledger.Load(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Recurring processing failed",
			zlog.NewFields().WithOperation(zlog.OpMaterialize).WithError(err).ToSlice()...)
		return
	}
	logger.InfoContext(ctx, "Recurring processing complete", "transactions_created", created)
}
