package services

import (
	"math"
	"sort"
	"strings"
	"time"

	"zen/internal/core"
)

// DefaultHistoryMonths is the length of the rolling monthly history.
const DefaultHistoryMonths = 6

// SummaryOptions tunes BuildSummary. The zero value is usable.
type SummaryOptions struct {
	HistoryMonths int
	Budgets       core.Budgets
	// Archives fill months that have no live transactions.
	Archives []core.MonthlyArchive
}

type monthTotals struct {
	income  core.Accumulator
	expense core.Accumulator
}

func (m *monthTotals) add(tx core.Transaction) {
	switch tx.Type {
	case core.Income:
		m.income.Add(tx.Amount)
	case core.Expense:
		m.expense.Add(tx.Amount)
	}
}

// BuildSummary aggregates txs for the month containing now. Months are read
// on now's calendar. txs is not modified.
func BuildSummary(txs []core.Transaction, now time.Time, opts SummaryOptions) core.FinancialSummary {
	loc := now.Location()
	current := core.MonthKeyOf(now, loc)

	n := opts.HistoryMonths
	if n <= 0 {
		n = DefaultHistoryMonths
	}

	live := make(map[core.MonthKey]*monthTotals)
	breakdown := make(map[string]*core.Accumulator)
	var allIncome, allExpense core.Accumulator

	for _, tx := range txs {
		key := core.MonthKeyOf(tx.Date, loc)
		mt, ok := live[key]
		if !ok {
			mt = &monthTotals{}
			live[key] = mt
		}
		mt.add(tx)

		switch tx.Type {
		case core.Income:
			allIncome.Add(tx.Amount)
		case core.Expense:
			allExpense.Add(tx.Amount)
			if key == current {
				acc, ok := breakdown[tx.Category]
				if !ok {
					acc = &core.Accumulator{}
					breakdown[tx.Category] = acc
				}
				acc.Add(tx.Amount)
			}
		}
	}

	archived := archivedTotals(opts.Archives, loc)
	totalsFor := func(key core.MonthKey) (float64, float64) {
		if mt, ok := live[key]; ok {
			return mt.income.Value(), mt.expense.Value()
		}
		if mt, ok := archived[key]; ok {
			return mt.income.Value(), mt.expense.Value()
		}
		return 0, 0
	}

	s := core.FinancialSummary{
		Month:             current,
		CategoryBreakdown: make(map[string]float64, len(breakdown)),
		MonthlyHistory:    make([]core.MonthTotals, 0, n),
	}

	// an archived current month shows in the history only; the live view starts empty
	if mt, ok := live[current]; ok {
		s.TotalIncome, s.TotalExpenses = mt.income.Value(), mt.expense.Value()
	}
	s.Savings = core.Sum(s.TotalIncome, -s.TotalExpenses)
	s.Balance = core.Sum(allIncome.Value(), -allExpense.Value())

	prevIncome, prevExpense := totalsFor(current.AddMonths(-1))
	s.PreviousMonthSavings = core.Sum(prevIncome, -prevExpense)

	for category, acc := range breakdown {
		s.CategoryBreakdown[category] = acc.Value()
	}

	for i := n - 1; i >= 0; i-- {
		key := current.AddMonths(-i)
		income, expense := totalsFor(key)
		s.MonthlyHistory = append(s.MonthlyHistory, core.MonthTotals{
			Month:   key,
			Label:   key.Label(),
			Income:  income,
			Expense: expense,
		})
	}

	s.SavingsRate = SavingsRate(s.TotalIncome, s.TotalExpenses)
	s.SavingsChange = percentChange(s.Savings, s.PreviousMonthSavings)
	s.DailyAverage = s.TotalExpenses / float64(now.In(loc).Day())

	active := opts.Budgets.Active()
	if total := active.Total(); total > 0 {
		s.BudgetUsage = s.TotalExpenses / total * 100
	}
	s.Budgets = budgetStatuses(active, s.CategoryBreakdown)

	return s
}

// SavingsRate returns (income-expense)/income as a percentage, or 0 when
// there is no income.
func SavingsRate(income, expense float64) float64 {
	if income <= 0 {
		return 0
	}
	return (income - expense) / income * 100
}

func percentChange(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return (cur - prev) / math.Abs(prev) * 100
}

// archivedTotals folds archived transactions into per-month totals. An
// archive without transactions contributes its header totals to its own month.
func archivedTotals(archives []core.MonthlyArchive, loc *time.Location) map[core.MonthKey]*monthTotals {
	out := make(map[core.MonthKey]*monthTotals)
	get := func(key core.MonthKey) *monthTotals {
		mt, ok := out[key]
		if !ok {
			mt = &monthTotals{}
			out[key] = mt
		}
		return mt
	}
	for _, a := range archives {
		if len(a.Transactions) == 0 {
			if a.Month < 1 || a.Month > 12 {
				continue
			}
			mt := get(a.Key())
			mt.income.Add(a.TotalIncome)
			mt.expense.Add(a.TotalExpense)
			continue
		}
		for _, tx := range a.Transactions {
			get(core.MonthKeyOf(tx.Date, loc)).add(tx)
		}
	}
	return out
}

func budgetStatuses(budgets core.Budgets, spent map[string]float64) []core.BudgetStatus {
	out := make([]core.BudgetStatus, 0, len(budgets))
	for category, limit := range budgets {
		st := core.BudgetStatus{
			Category: category,
			Limit:    limit,
			Spent:    spent[category],
		}
		st.Percent = st.Spent / limit * 100
		if st.Percent > 100 {
			st.Percent = 100
		}
		st.Over = st.Spent > limit
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// TransactionFilter selects transactions for the list view. Zero fields match everything.
type TransactionFilter struct {
	Type     core.TransactionType
	Category string
	// From and To are inclusive calendar days.
	From time.Time
	To   time.Time
	// Query matches the note or category, case-insensitively.
	Query string
}

// FilterTransactions returns the transactions matching f in their original order.
func FilterTransactions(txs []core.Transaction, f TransactionFilter) []core.Transaction {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	var to time.Time
	if !f.To.IsZero() {
		to = time.Date(f.To.Year(), f.To.Month(), f.To.Day()+1, 0, 0, 0, 0, f.To.Location())
	}
	var from time.Time
	if !f.From.IsZero() {
		from = time.Date(f.From.Year(), f.From.Month(), f.From.Day(), 0, 0, 0, 0, f.From.Location())
	}

	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.Category != "" && tx.Category != f.Category {
			continue
		}
		if !from.IsZero() && tx.Date.Before(from) {
			continue
		}
		if !to.IsZero() && !tx.Date.Before(to) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(tx.Note), query) &&
			!strings.Contains(strings.ToLower(tx.Category), query) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// Recent returns the first n transactions. The list is head-prepended, so
// list order stands in for recency.
func Recent(txs []core.Transaction, n int) []core.Transaction {
	if n < 0 {
		n = 0
	}
	if n > len(txs) {
		n = len(txs)
	}
	return append([]core.Transaction(nil), txs[:n]...)
}
