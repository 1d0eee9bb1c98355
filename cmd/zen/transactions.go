package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"zen/internal/core"
	"zen/internal/render"
	"zen/internal/services"
)

func addCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record income or an expense",
	}
	cmd.AddCommand(addTypeCmd(a, core.Income, "income", "Record income"))
	cmd.AddCommand(addTypeCmd(a, core.Expense, "expense", "Record an expense"))
	return cmd
}

func addTypeCmd(a *app, txType core.TransactionType, use, short string) *cobra.Command {
	var (
		category  string
		date      string
		note      string
		recurring bool
	)

	cmd := &cobra.Command{
		Use:   use + " <amount>",
		Short: short,
		Long: fmt.Sprintf(`%s. Known categories: %s.
Unknown categories are recorded as %s. With --recurring the transaction is
repeated every month on the same day.`, short, strings.Join(core.Categories(txType), ", "), core.CategoryOther),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := a.parseDay(date)
			if err != nil {
				return err
			}

			tx, err := a.ledger.Add(cmd.Context(), core.NewTransactionParams{
				Type:        txType,
				Amount:      args[0],
				Category:    category,
				Date:        day,
				Note:        note,
				IsRecurring: recurring,
			})
			if err != nil {
				return fmt.Errorf("add %s: %w", use, err)
			}

			printLine(cmd, render.FormatSuccess(fmt.Sprintf("%s %s (%s) %s", tx.Category, a.money.Format(tx.Amount), tx.Date.Format("2006-01-02"), tx.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category (default "+core.DefaultCategory(txType)+")")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&note, "note", "n", "", "free-text note")
	cmd.Flags().BoolVarP(&recurring, "recurring", "r", false, "repeat monthly")

	return cmd
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a transaction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ledger.Delete(cmd.Context(), args[0]); err != nil {
				return userError(err)
			}
			printLine(cmd, render.FormatSuccess("মুছে ফেলা হয়েছে "+args[0]))
			return nil
		},
	}
}

func listCmd(a *app) *cobra.Command {
	var (
		txType   string
		category string
		from     string
		to       string
		query    string
		limit    int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List transactions, most recently added first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := services.TransactionFilter{
				Category: category,
				Query:    query,
			}
			if txType != "" {
				f.Type = core.TransactionType(strings.ToUpper(txType))
				if !f.Type.IsValid() {
					return fmt.Errorf("invalid type %q, expected income or expense", txType)
				}
			}
			var err error
			if f.From, err = a.parseDay(from); err != nil {
				return err
			}
			if f.To, err = a.parseDay(to); err != nil {
				return err
			}

			txs := a.ledger.Filter(f)
			if limit > 0 {
				txs = services.Recent(txs, limit)
			}
			return render.Transactions(cmd.OutOrStdout(), txs, a.ledger.Settings(), a.money)
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", "", "income or expense")
	cmd.Flags().StringVarP(&category, "category", "c", "", "exact category")
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search notes and categories")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "show at most this many")

	return cmd
}

func recurringCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recurring",
		Short: "Create this month's due recurring transactions and list templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			printLine(cmd, render.FormatInfo(fmt.Sprintf("%d টি পুনরাবৃত্ত লেনদেন তৈরি হয়েছে", a.materialized)))

			var templates []core.Transaction
			for _, tx := range a.ledger.Transactions() {
				if tx.IsRecurring {
					templates = append(templates, tx)
				}
			}
			return render.Transactions(cmd.OutOrStdout(), templates, a.ledger.Settings(), a.money)
		},
	}
}
