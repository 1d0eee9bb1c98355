// Command zen-worker mirrors ledger events into Google Sheets.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"zen/internal/cli"
	"zen/internal/config"
	zlog "zen/internal/log"
	"zen/internal/sheets"
	gsheet "zen/internal/sheets/google"
	"zen/internal/sheets/memory"
	"zen/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.Fatal(zlog.Default(), "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(os.Stdout, cfg, zlog.ComponentWorker)
	logger.Info("Starting zen-worker")

	if cfg.AMQPURL == "" {
		cli.Fatal(logger, "zen-worker needs a broker", errors.New("AMQP_URL is not set"))
	}

	res, err := cli.OpenBackend(context.Background(), logger, cfg)
	if err != nil {
		cli.Fatal(logger, "Failed to open backend", err)
	}
	if res.Events == nil {
		_ = res.Cleanup()
		cli.Fatal(logger, "Broker unavailable", errors.New("AMQP client could not be created"))
	}

	ctx, stop, done := cli.GracefulShutdown(logger, shutdownTimeout, func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Cleanup failed", zlog.FieldError, err)
		}
	})
	ctx = zlog.WithLogger(ctx, logger)

	writer, remover, err := newWriter(ctx, logger, cfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize Google Sheets client", err)
	}
	exporter := worker.NewExportWorker(res.Store, writer, remover)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Performing startup backfill...")
		if _, _, err := exporter.Backfill(gctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Startup backfill failed", zlog.FieldError, err)
		}
		return nil
	})
	g.Go(func() error {
		err := res.Events.ConsumeLedgerEvents(gctx, exporter.HandleEvent)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	err = g.Wait()
	stop()
	cli.WaitForShutdown(ctx, done)
	if err != nil {
		logger.Error("Event consumption failed", zlog.FieldError, err)
		os.Exit(1)
	}
}

// newWriter returns the Google Sheets exporter, or an in-process writer when
// no spreadsheet is configured so the queue keeps draining.
func newWriter(ctx context.Context, logger *zlog.Logger, cfg *config.Config) (sheets.LedgerWriter, sheets.TransactionRemover, error) {
	if !cfg.ExportEnabled() {
		logger.Warn("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided, events are only logged")
		store := memory.New()
		return store, store, nil
	}

	client, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:     cfg.GoogleSpreadsheetID,
		TransactionsSheet: cfg.GoogleSheetName,
		ArchivesSheet:     cfg.GoogleArchiveSheetName,
		CredentialsJSON:   cfg.GoogleServiceAccountJSON,
		CredentialsFile:   cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return client, client, nil
}
