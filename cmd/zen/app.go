package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"zen/internal/advice"
	"zen/internal/backend"
	"zen/internal/cli"
	"zen/internal/config"
	zlog "zen/internal/log"
	"zen/internal/render"
	"zen/internal/services"
)

const adviceCacheSize = 16

// app holds what every command needs once the root pre-run has finished.
type app struct {
	cfg     *config.Config
	logger  *zlog.Logger
	backend *backend.BackendResult
	ledger  *services.LedgerService
	money   *render.Money
	// materialized is the number of recurring occurrences created on load.
	materialized int
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "zen",
		Short: "৳ Personal income and expense ledger",
		Long: `zen records income and expenses, tracks monthly budgets and savings,
materializes recurring transactions and asks a language model for advice.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.close()
		},
	}

	root.AddCommand(addCmd(a))
	root.AddCommand(deleteCmd(a))
	root.AddCommand(listCmd(a))
	root.AddCommand(summaryCmd(a))
	root.AddCommand(budgetCmd(a))
	root.AddCommand(colorCmd(a))
	root.AddCommand(archiveCmd(a))
	root.AddCommand(archivesCmd(a))
	root.AddCommand(adviseCmd(a))
	root.AddCommand(dashboardCmd(a))
	root.AddCommand(recurringCmd(a))

	return root
}

// open loads configuration, opens the backend and loads the ledger, which
// materializes any recurring occurrences that became due.
func (a *app) open(cmd *cobra.Command, _ []string) error {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cli.SetupLogger(cmd.ErrOrStderr(), cfg, zlog.ComponentCLI)
	a.money = render.NewMoney(cfg.Locale())

	ctx := cmd.Context()
	res, err := cli.OpenBackend(ctx, a.logger, cfg)
	if err != nil {
		return err
	}
	a.backend = res
	a.ledger = cli.NewLedger(res, cfg)

	created, err := a.ledger.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	a.materialized = created
	return nil
}

func (a *app) close() error {
	if a.backend == nil {
		return nil
	}
	err := a.backend.Cleanup()
	a.backend = nil
	return err
}

// advisor builds the cached advisor. A missing or broken API key leaves the
// advisor without a generator, which yields the unconfigured insight.
func (a *app) advisor(ctx context.Context) *advice.CachedAdvisor {
	var gen advice.Generator
	if a.cfg.GeminiAPIKey != "" {
		g, err := advice.NewGeminiGenerator(ctx, a.cfg.GeminiAPIKey, a.cfg.GeminiModel)
		if err != nil {
			a.logger.WarnContext(ctx, "Gemini unavailable, advice disabled", zlog.FieldError, err)
		} else {
			gen = g
		}
	}
	return advice.NewCachedAdvisor(advice.NewService(gen, a.logger), adviceCacheSize, a.cfg.AdviceCacheTTL, a.logger)
}

// parseDay reads a YYYY-MM-DD flag on the ledger calendar.
func (a *app) parseDay(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, a.cfg.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

func printLine(cmd *cobra.Command, s string) {
	fmt.Fprintln(cmd.OutOrStdout(), s)
}

// userError maps service errors to short messages.
func userError(err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return errors.New(render.FormatError("লেনদেন পাওয়া যায়নি"))
	case errors.Is(err, services.ErrNothingToArchive):
		return errors.New(render.FormatError("আর্কাইভ করার মতো কোনো লেনদেন নেই"))
	default:
		return err
	}
}
