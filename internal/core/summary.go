package core

import (
	"sort"
	"time"
)

// MonthTotals is one slot of the rolling monthly history.
type MonthTotals struct {
	Month   MonthKey `json:"month"`
	Label   string   `json:"label"`
	Income  float64  `json:"income"`
	Expense float64  `json:"expense"`
}

// BudgetStatus describes spending against one category limit.
type BudgetStatus struct {
	Category string  `json:"category"`
	Limit    float64 `json:"limit"`
	Spent    float64 `json:"spent"`
	Percent  float64 `json:"percent"` // capped at 100
	Over     bool    `json:"over"`
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// FinancialSummary is derived from the ledger on demand and never persisted.
type FinancialSummary struct {
	Month                MonthKey           `json:"month"`
	TotalIncome          float64            `json:"totalIncome"`
	TotalExpenses        float64            `json:"totalExpenses"`
	Savings              float64            `json:"savings"`
	PreviousMonthSavings float64            `json:"previousMonthSavings"`
	Balance              float64            `json:"balance"`
	CategoryBreakdown    map[string]float64 `json:"categoryBreakdown"`
	MonthlyHistory       []MonthTotals      `json:"monthlyHistory"`
	SavingsRate          float64            `json:"savingsRate"`
	SavingsChange        float64            `json:"savingsChange"`
	BudgetUsage          float64            `json:"budgetUsage"`
	DailyAverage         float64            `json:"dailyAverage"`
	Budgets              []BudgetStatus     `json:"budgets"`
}

// SortedBreakdown returns the category breakdown largest first, ties by
// name. A positive limit keeps only the first limit entries.
func (s FinancialSummary) SortedBreakdown(limit int) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(s.CategoryBreakdown))
	for name, amount := range s.CategoryBreakdown {
		out = append(out, CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Budgets maps a category to its monthly limit. Zero or negative limits
// mean no budget.
type Budgets map[string]float64

// Active returns only the categories with a positive limit.
func (b Budgets) Active() Budgets {
	out := make(Budgets, len(b))
	for c, limit := range b {
		if limit > 0 {
			out[c] = limit
		}
	}
	return out
}

// Total sums all positive limits.
func (b Budgets) Total() float64 {
	var acc Accumulator
	for _, limit := range b {
		if limit > 0 {
			acc.Add(limit)
		}
	}
	return acc.Value()
}

// Settings is the persisted user preference document.
type Settings struct {
	Budgets        Budgets           `json:"budgets"`
	CategoryColors map[string]string `json:"categoryColors"`
}

// DefaultSettings returns empty budgets and the default palette.
func DefaultSettings() Settings {
	colors := make(map[string]string, len(DefaultCategoryColors))
	for k, v := range DefaultCategoryColors {
		colors[k] = v
	}
	return Settings{Budgets: Budgets{}, CategoryColors: colors}
}

// ColorFor returns the configured colour for a category, falling back to
// the default palette and then to the "other" colour.
func (s Settings) ColorFor(category string) string {
	if c, ok := s.CategoryColors[category]; ok && c != "" {
		return c
	}
	if c, ok := DefaultCategoryColors[category]; ok {
		return c
	}
	return DefaultCategoryColors[CategoryOther]
}

// MonthlyArchive is a frozen snapshot of the ledger taken when a month is closed.
type MonthlyArchive struct {
	ID           string        `json:"id"`
	MonthName    string        `json:"monthName"`
	Year         int           `json:"year"`
	Month        int           `json:"month"` // 1-12
	TotalIncome  float64       `json:"totalIncome"`
	TotalExpense float64       `json:"totalExpense"`
	Transactions []Transaction `json:"transactions"`
	ArchivedAt   time.Time     `json:"archivedAt"`
}

// Key returns the archived month.
func (a MonthlyArchive) Key() MonthKey {
	return NewMonthKey(a.Year, time.Month(a.Month))
}

// Savings returns income minus expense for the archived month.
func (a MonthlyArchive) Savings() float64 {
	return a.TotalIncome - a.TotalExpense
}

type InsightType string

const (
	InsightSuccess InsightType = "success"
	InsightWarning InsightType = "warning"
	InsightInfo    InsightType = "info"
)

// Insight is one piece of advice about the ledger.
type Insight struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Type        InsightType `json:"type"`
}

func (t InsightType) IsValid() bool {
	switch t {
	case InsightSuccess, InsightWarning, InsightInfo:
		return true
	}
	return false
}
