package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"zen/internal/cache"
	"zen/internal/render"
)

func summaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show this month's totals, categories, history and budgets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return render.Summary(cmd.OutOrStdout(), a.ledger.Summary(), a.ledger.Settings(), a.money)
		},
	}
}

func adviseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "advise",
		Short: "Ask for financial advice on the current ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			insights := a.advisor(ctx).Advise(ctx, a.ledger.Transactions(), a.ledger.Summary())
			return render.Insights(cmd.OutOrStdout(), insights)
		},
	}
}

func dashboardCmd(a *app) *cobra.Command {
	var refresh time.Duration

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show summary and advice, optionally refreshing on an interval",
		Long: `Show the summary followed by advice. With --refresh the ledger is reloaded
and redrawn on every tick; advice is only requested again when the ledger changed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			advisor := a.advisor(ctx)

			draw := func() error {
				out := cmd.OutOrStdout()
				if err := render.Summary(out, a.ledger.Summary(), a.ledger.Settings(), a.money); err != nil {
					return err
				}
				fmt.Fprintln(out)
				return render.Insights(out, advisor.Advise(ctx, a.ledger.Transactions(), a.ledger.Summary()))
			}

			if err := draw(); err != nil || refresh <= 0 {
				return err
			}

			manager := cache.NewManager(a.logger)
			manager.Register(advisor)
			manager.StartCleanup(a.cfg.AdviceCacheTTL + time.Minute)
			defer manager.Stop()

			ticker := time.NewTicker(refresh)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if _, err := a.ledger.Load(ctx); err != nil {
						a.logger.ErrorContext(ctx, "Reload failed", "error", err)
						continue
					}
					fmt.Fprintln(cmd.OutOrStdout(), render.SubtleStyle.Render("— "+time.Now().Format("15:04:05")+" —"))
					if err := draw(); err != nil {
						return err
					}
				}
			}
		},
	}

	cmd.Flags().DurationVar(&refresh, "refresh", 0, "redraw interval, e.g. 30s (0 draws once)")
	return cmd
}

func budgetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage monthly category budgets",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <category> <limit>",
		Short: "Set a category's monthly limit (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid limit %q: %w", args[1], err)
			}
			if err := a.ledger.SetBudget(cmd.Context(), args[0], limit); err != nil {
				return err
			}
			if limit == 0 {
				printLine(cmd, render.FormatSuccess(args[0]+" বাজেট সরানো হয়েছে"))
				return nil
			}
			printLine(cmd, render.FormatSuccess(fmt.Sprintf("%s বাজেট %s", args[0], a.money.Format(limit))))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show spending against every budget this month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return render.Budgets(cmd.OutOrStdout(), a.ledger.Summary().Budgets, a.money)
		},
	})

	return cmd
}

func colorCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "color",
		Short: "Customise category colours",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <category> <#rrggbb>",
		Short: "Set a category colour",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ledger.SetCategoryColor(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			printLine(cmd, render.CategoryStyle(a.ledger.Settings().ColorFor(args[0])).Render("■ "+args[0]))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore the default palette",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ledger.ResetCategoryColors(cmd.Context()); err != nil {
				return err
			}
			printLine(cmd, render.FormatSuccess("ডিফল্ট রং ফিরিয়ে আনা হয়েছে"))
			return nil
		},
	})

	return cmd
}

func archiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Close the month: move every transaction into an archive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			archive, err := a.ledger.Archive(cmd.Context())
			if err != nil {
				return userError(err)
			}
			printLine(cmd, render.FormatSuccess(fmt.Sprintf("%s %d আর্কাইভ করা হয়েছে: %d টি লেনদেন, সঞ্চয় %s",
				archive.MonthName, archive.Year, len(archive.Transactions), a.money.Format(archive.Savings()))))
			return nil
		},
	}
}

func archivesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "archives",
		Short: "List archived months",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return render.Archives(cmd.OutOrStdout(), a.ledger.Archives(), a.money)
		},
	}
}
