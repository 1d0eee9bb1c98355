package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zen/internal/core"
)

func tx(id string, typ core.TransactionType, amount float64, category string, date time.Time) core.Transaction {
	return core.Transaction{ID: id, Type: typ, Amount: amount, Category: category, Date: date}
}

func TestBuildSummary_CurrentMonth(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx("1", core.Expense, 100, core.CategoryFood, now.AddDate(0, 0, -2)),
		tx("2", core.Income, 500, core.CategorySalary, now.AddDate(0, 0, -10)),
	}

	s := BuildSummary(txs, now, SummaryOptions{})

	assert.Equal(t, 500.0, s.TotalIncome)
	assert.Equal(t, 100.0, s.TotalExpenses)
	assert.Equal(t, 400.0, s.Savings)
	assert.Equal(t, map[string]float64{core.CategoryFood: 100}, s.CategoryBreakdown)
	assert.Equal(t, 80.0, s.SavingsRate)
	assert.InDelta(t, 100.0/15, s.DailyAverage, 1e-9)
	assert.Equal(t, 400.0, s.Balance)
	assert.Equal(t, core.NewMonthKey(2025, time.March), s.Month)
}

func TestBuildSummary_SavingsAreExactDecimals(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx("1", core.Income, 0.3, core.CategorySalary, now),
		tx("2", core.Expense, 0.1, core.CategoryFood, now),
		tx("3", core.Income, 0.3, core.CategorySalary, now.AddDate(0, -1, 0)),
		tx("4", core.Expense, 0.1, core.CategoryFood, now.AddDate(0, -1, 0)),
	}

	s := BuildSummary(txs, now, SummaryOptions{})

	assert.Equal(t, 0.2, s.Savings)
	assert.Equal(t, 0.2, s.PreviousMonthSavings)
	assert.Equal(t, 0.4, s.Balance)
}

func TestBuildSummary_Empty(t *testing.T) {
	now := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)

	s := BuildSummary(nil, now, SummaryOptions{})

	assert.Zero(t, s.TotalIncome)
	assert.Zero(t, s.TotalExpenses)
	assert.Zero(t, s.Savings)
	assert.Zero(t, s.SavingsRate)
	assert.Zero(t, s.BudgetUsage)
	assert.Empty(t, s.CategoryBreakdown)
	require.Len(t, s.MonthlyHistory, DefaultHistoryMonths)
	for _, m := range s.MonthlyHistory {
		assert.Zero(t, m.Income)
		assert.Zero(t, m.Expense)
	}
}

func TestBuildSummary_HistoryWrapsYear(t *testing.T) {
	now := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx("1", core.Income, 1000, core.CategorySalary, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)),
		tx("2", core.Expense, 40, core.CategoryBills, time.Date(2024, 9, 30, 23, 0, 0, 0, time.UTC)),
		tx("3", core.Expense, 60, core.CategoryBills, time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC)), // outside window
	}

	s := BuildSummary(txs, now, SummaryOptions{})

	require.Len(t, s.MonthlyHistory, 6)
	wantMonths := []string{"2024-09", "2024-10", "2024-11", "2024-12", "2025-01", "2025-02"}
	for i, m := range s.MonthlyHistory {
		assert.Equal(t, wantMonths[i], m.Month.String())
		assert.Equal(t, m.Month.Label(), m.Label)
	}
	assert.Equal(t, 40.0, s.MonthlyHistory[0].Expense)
	assert.Equal(t, 1000.0, s.MonthlyHistory[3].Income)
	assert.Equal(t, "ফেব্রুয়ারি", s.MonthlyHistory[5].Label)
	assert.Zero(t, s.PreviousMonthSavings)
	assert.Equal(t, 900.0, s.Balance)
}

func TestBuildSummary_LocalCalendar(t *testing.T) {
	dhaka := time.FixedZone("BDT", 6*3600)
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, dhaka)
	// Jan 31 20:00 UTC is Feb 1 02:00 in Dhaka.
	txs := []core.Transaction{
		tx("1", core.Expense, 25, core.CategoryFood, time.Date(2025, 1, 31, 20, 0, 0, 0, time.UTC)),
	}

	s := BuildSummary(txs, now, SummaryOptions{})

	assert.Equal(t, 25.0, s.TotalExpenses)
	assert.Zero(t, s.PreviousMonthSavings)
}

func TestBuildSummary_PreviousMonthAndChange(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx("1", core.Income, 300, core.CategorySalary, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)),
		tx("2", core.Income, 400, core.CategorySalary, time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)),
		tx("3", core.Expense, 200, core.CategoryRent, time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC)),
	}

	s := BuildSummary(txs, now, SummaryOptions{})

	assert.Equal(t, 200.0, s.PreviousMonthSavings)
	assert.Equal(t, 300.0, s.Savings)
	assert.Equal(t, 50.0, s.SavingsChange)

	negative := BuildSummary([]core.Transaction{
		tx("4", core.Expense, 100, core.CategoryRent, time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC)),
	}, now, SummaryOptions{})
	assert.Equal(t, -100.0, negative.PreviousMonthSavings)
	assert.Equal(t, 100.0, negative.SavingsChange) // 0 vs -100 is an improvement
}

func TestBuildSummary_Budgets(t *testing.T) {
	now := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx("1", core.Expense, 150, core.CategoryFood, now),
		tx("2", core.Expense, 50, core.CategoryTransport, now),
	}
	budgets := core.Budgets{
		core.CategoryFood:      100,
		core.CategoryTransport: 300,
		core.CategoryRent:      0, // no budget
	}

	s := BuildSummary(txs, now, SummaryOptions{Budgets: budgets})

	assert.Equal(t, 50.0, s.BudgetUsage)
	require.Len(t, s.Budgets, 2)
	assert.Equal(t, core.BudgetStatus{Category: core.CategoryFood, Limit: 100, Spent: 150, Percent: 100, Over: true}, s.Budgets[0])
	assert.Equal(t, core.CategoryTransport, s.Budgets[1].Category)
	assert.InDelta(t, 16.666, s.Budgets[1].Percent, 0.001)
	assert.False(t, s.Budgets[1].Over)
}

func TestBuildSummary_ArchiveFillsEmptyMonths(t *testing.T) {
	now := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)
	march := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	archives := []core.MonthlyArchive{
		{
			ID: "a1", Year: 2025, Month: 3, TotalIncome: 1000, TotalExpense: 400,
			Transactions: []core.Transaction{
				tx("1", core.Income, 1000, core.CategorySalary, march),
				tx("2", core.Expense, 400, core.CategoryRent, march),
			},
		},
		{ID: "legacy", Year: 2025, Month: 1, TotalIncome: 50, TotalExpense: 20},
	}

	s := BuildSummary(nil, now, SummaryOptions{Archives: archives})

	assert.Equal(t, 600.0, s.PreviousMonthSavings)
	assert.Equal(t, 1000.0, s.MonthlyHistory[4].Income)
	assert.Equal(t, 50.0, s.MonthlyHistory[2].Income)
	assert.Zero(t, s.Balance, "archived transactions are not part of the live balance")

	// live data wins over the archive for the same month
	live := []core.Transaction{tx("3", core.Income, 10, core.CategoryGift, march)}
	s = BuildSummary(live, now, SummaryOptions{Archives: archives})
	assert.Equal(t, 10.0, s.PreviousMonthSavings)
}

func TestBuildSummary_Properties(t *testing.T) {
	now := time.Date(2025, 6, 30, 23, 59, 0, 0, time.UTC)
	categories := core.Categories(core.Expense)
	var txs []core.Transaction
	for i := 0; i < 200; i++ {
		typ := core.Expense
		if i%3 == 0 {
			typ = core.Income
		}
		txs = append(txs, tx(
			string(rune('a'+i%26))+string(rune('0'+i%10)),
			typ,
			float64(i%17)+0.35,
			categories[i%len(categories)],
			now.AddDate(0, 0, -i),
		))
	}
	snapshot := append([]core.Transaction(nil), txs...)

	for _, n := range []int{1, 3, 6, 12} {
		s := BuildSummary(txs, now, SummaryOptions{HistoryMonths: n})

		assert.Equal(t, s.TotalIncome-s.TotalExpenses, s.Savings)

		var breakdown float64
		for _, v := range s.CategoryBreakdown {
			breakdown += v
		}
		assert.InDelta(t, s.TotalExpenses, breakdown, 1e-6)

		require.Len(t, s.MonthlyHistory, n)
		last := s.MonthlyHistory[n-1]
		assert.Equal(t, core.MonthKeyOf(now, now.Location()), last.Month)
		assert.Equal(t, s.TotalIncome, last.Income)
		assert.Equal(t, s.TotalExpenses, last.Expense)
		for i := 1; i < n; i++ {
			assert.Equal(t, s.MonthlyHistory[i-1].Month.AddMonths(1), s.MonthlyHistory[i].Month)
		}
	}
	assert.Equal(t, snapshot, txs, "input must not be modified")
}

func TestSavingsRate(t *testing.T) {
	assert.Zero(t, SavingsRate(0, 100))
	assert.Zero(t, SavingsRate(0, 0))
	assert.Equal(t, -100.0, SavingsRate(100, 200))
	assert.Equal(t, 25.0, SavingsRate(400, 300))
}

func TestFilterTransactions(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2025, 3, day, 15, 0, 0, 0, time.UTC) }
	txs := []core.Transaction{
		tx("1", core.Expense, 10, core.CategoryFood, d(1)),
		tx("2", core.Income, 20, core.CategorySalary, d(5)),
		tx("3", core.Expense, 30, core.CategoryRent, d(10)),
		tx("4", core.Expense, 40, core.CategoryFood, d(20)),
	}
	txs[3].Note = "Dinner with friends"

	ids := func(list []core.Transaction) []string {
		var out []string
		for _, t := range list {
			out = append(out, t.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter TransactionFilter
		want   []string
	}{
		{"no filter", TransactionFilter{}, []string{"1", "2", "3", "4"}},
		{"type", TransactionFilter{Type: core.Expense}, []string{"1", "3", "4"}},
		{"category", TransactionFilter{Category: core.CategoryFood}, []string{"1", "4"}},
		{"inclusive range", TransactionFilter{From: d(5), To: d(10)}, []string{"2", "3"}},
		{"from only", TransactionFilter{From: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}, []string{"3", "4"}},
		{"query", TransactionFilter{Query: "dinner"}, []string{"4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterTransactions(txs, tt.filter)))
		})
	}
}

func TestRecent(t *testing.T) {
	txs := []core.Transaction{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	assert.Len(t, Recent(txs, 2), 2)
	assert.Equal(t, "a", Recent(txs, 2)[0].ID)
	assert.Len(t, Recent(txs, 10), 3)
	assert.Empty(t, Recent(txs, -1))
}
