package render

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"zen/internal/core"
)

const (
	barWidth       = 20
	breakdownLimit = 6
)

// Summary writes the dashboard for the current month.
func Summary(w io.Writer, s core.FinancialSummary, st core.Settings, m *Money) error {
	var b strings.Builder

	totals := lipgloss.JoinHorizontal(lipgloss.Top,
		RenderBox("ব্যালেন্স", signed(s.Balance, m)),
		RenderBox("আয়", IncomeStyle.Render(m.Format(s.TotalIncome))),
		RenderBox("ব্যয়", ExpenseStyle.Render(m.Format(s.TotalExpenses))),
		RenderBox("সঞ্চয়", signed(s.Savings, m)),
	)
	b.WriteString(TitleStyle.Render(s.Month.Label() + " " + fmt.Sprint(s.Month.Year())))
	b.WriteString("\n")
	b.WriteString(totals)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "সঞ্চয়ের হার: %s   দৈনিক গড় খরচ: %s   গত মাসের তুলনায়: %s\n",
		m.Percent(s.SavingsRate),
		m.Format(s.DailyAverage),
		change(s.SavingsChange, m))
	if s.BudgetUsage > 0 {
		fmt.Fprintf(&b, "বাজেট ব্যবহার: %s\n", m.Percent(s.BudgetUsage))
	}

	if breakdown := s.SortedBreakdown(breakdownLimit); len(breakdown) > 0 {
		b.WriteString("\n" + HeaderStyle.Render("খরচের খাত") + "\n")
		for _, c := range breakdown {
			share := 0.0
			if s.TotalExpenses > 0 {
				share = c.Amount / s.TotalExpenses * 100
			}
			fmt.Fprintf(&b, "  %s %s %s\n",
				CategoryStyle(st.ColorFor(c.Name)).Render(Bar(share, barWidth)),
				c.Name,
				SubtleStyle.Render(m.Format(c.Amount)))
		}
	}

	if len(s.MonthlyHistory) > 0 {
		b.WriteString("\n" + HeaderStyle.Render("মাসিক ইতিহাস") + "\n")
		peak := 0.0
		for _, h := range s.MonthlyHistory {
			peak = math.Max(peak, math.Max(h.Income, h.Expense))
		}
		for _, h := range s.MonthlyHistory {
			fmt.Fprintf(&b, "  %-10s %s %s\n",
				h.Label,
				IncomeStyle.Render(Bar(ratio(h.Income, peak), barWidth/2)),
				ExpenseStyle.Render(Bar(ratio(h.Expense, peak), barWidth/2)))
		}
	}

	if len(s.Budgets) > 0 {
		b.WriteString("\n")
		if err := Budgets(&b, s.Budgets, m); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Transactions writes one row per transaction in list order.
func Transactions(w io.Writer, txs []core.Transaction, st core.Settings, m *Money) error {
	if len(txs) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("কোনো লেনদেন নেই।"))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		HeaderStyle.Render("তারিখ"),
		HeaderStyle.Render("খাত"),
		HeaderStyle.Render("পরিমাণ"),
		HeaderStyle.Render("নোট"),
		HeaderStyle.Render("ID"))

	for _, tx := range txs {
		amount := ExpenseStyle.Render(ExpenseIcon + " " + m.Format(tx.Amount))
		if tx.Type == core.Income {
			amount = IncomeStyle.Render(IncomeIcon + " " + m.Format(tx.Amount))
		}
		note := tx.Note
		if tx.IsRecurring {
			note = strings.TrimSpace(RepeatIcon + " " + note)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			tx.Date.Format("2006-01-02"),
			CategoryStyle(st.ColorFor(tx.Category)).Render(tx.Category),
			amount,
			note,
			SubtleStyle.Render(tx.ID))
	}
	return tw.Flush()
}

// Budgets writes a progress bar per budgeted category.
func Budgets(w io.Writer, statuses []core.BudgetStatus, m *Money) error {
	if len(statuses) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("কোনো বাজেট নির্ধারণ করা হয়নি।"))
		return err
	}

	if _, err := fmt.Fprintln(w, HeaderStyle.Render("বাজেট")); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, st := range statuses {
		style := IncomeStyle
		switch {
		case st.Over:
			style = ExpenseStyle
		case st.Percent >= 80:
			style = WarningStyle
		}
		marker := ""
		if st.Over {
			marker = " " + ExpenseStyle.Render(WarningIcon)
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s / %s%s\n",
			st.Category,
			style.Render(Bar(st.Percent, barWidth)),
			m.Format(st.Spent),
			m.Format(st.Limit),
			marker)
	}
	return tw.Flush()
}

// Archives writes one line per archived month, newest first.
func Archives(w io.Writer, archives []core.MonthlyArchive, m *Money) error {
	if len(archives) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("কোনো আর্কাইভ নেই।"))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		HeaderStyle.Render("মাস"),
		HeaderStyle.Render("আয়"),
		HeaderStyle.Render("ব্যয়"),
		HeaderStyle.Render("সঞ্চয়"),
		HeaderStyle.Render("লেনদেন"))
	for _, a := range archives {
		fmt.Fprintf(tw, "%s %d\t%s\t%s\t%s\t%d\n",
			a.MonthName, a.Year,
			IncomeStyle.Render(m.Format(a.TotalIncome)),
			ExpenseStyle.Render(m.Format(a.TotalExpense)),
			signed(a.Savings(), m),
			len(a.Transactions))
	}
	return tw.Flush()
}

// Insights writes advice entries.
func Insights(w io.Writer, insights []core.Insight) error {
	if len(insights) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("এই মুহূর্তে কোনো পরামর্শ নেই।"))
		return err
	}
	for _, in := range insights {
		var title string
		switch in.Type {
		case core.InsightSuccess:
			title = FormatSuccess(in.Title)
		case core.InsightWarning:
			title = FormatWarning(in.Title)
		default:
			title = FormatInfo(in.Title)
		}
		if _, err := fmt.Fprintf(w, "%s\n  %s\n", title, in.Description); err != nil {
			return err
		}
	}
	return nil
}

// Bar draws a horizontal bar filled to percent of width.
func Bar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(math.Max(0, math.Min(percent, 100)) / 100 * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func ratio(v, peak float64) float64 {
	if peak <= 0 {
		return 0
	}
	return v / peak * 100
}

func signed(v float64, m *Money) string {
	if v < 0 {
		return ExpenseStyle.Render(m.Format(v))
	}
	return IncomeStyle.Render(m.Format(v))
}

func change(pct float64, m *Money) string {
	switch {
	case pct > 0:
		return IncomeStyle.Render("+" + m.Percent(pct))
	case pct < 0:
		return ExpenseStyle.Render(m.Percent(pct))
	default:
		return SubtleStyle.Render(m.Percent(0))
	}
}
