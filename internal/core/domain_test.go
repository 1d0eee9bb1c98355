package core

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	good := Transaction{ID: "t1", Type: Expense, Amount: 10, Category: CategoryFood, Date: date}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(*Transaction)
		err  error
	}{
		{"empty id", func(tx *Transaction) { tx.ID = " " }, ErrEmptyID},
		{"bad type", func(tx *Transaction) { tx.Type = "TRANSFER" }, ErrInvalidType},
		{"zero amount", func(tx *Transaction) { tx.Amount = 0 }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount = -5 }, ErrInvalidAmount},
		{"nan amount", func(tx *Transaction) { tx.Amount = math.NaN() }, ErrInvalidAmount},
		{"zero date", func(tx *Transaction) { tx.Date = time.Time{} }, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := good
			tc.mut(&tx)
			if err := tx.Validate(); err != tc.err {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
		})
	}
}

func TestNewTransaction(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tx, err := NewTransaction("id-1", NewTransactionParams{
		Type:        Expense,
		Amount:      "1000",
		Category:    CategoryRent,
		Note:        "  flat  ",
		IsRecurring: true,
	}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Amount != 1000 || tx.Category != CategoryRent || tx.Note != "flat" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
	if !tx.Date.Equal(now) {
		t.Fatalf("expected date to default to now, got %v", tx.Date)
	}
	if tx.Frequency != FrequencyMonthly {
		t.Fatalf("expected MONTHLY frequency, got %q", tx.Frequency)
	}

	tx, err = NewTransaction("id-2", NewTransactionParams{Type: Income, Amount: "5", Category: "lottery"}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Category != CategoryOther || tx.Frequency != FrequencyNone {
		t.Fatalf("expected other category and NONE frequency, got %+v", tx)
	}

	for _, amount := range []string{"", "0", "-3", "abc"} {
		if _, err := NewTransaction("x", NewTransactionParams{Type: Expense, Amount: amount}, now); err != ErrInvalidAmount {
			t.Fatalf("amount %q: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
	if _, err := NewTransaction("x", NewTransactionParams{Type: "GIFT", Amount: "1"}, now); err != ErrInvalidType {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestTransactionJSONShape(t *testing.T) {
	tx := Transaction{
		ID:       "1",
		Type:     Income,
		Amount:   500,
		Category: CategorySalary,
		Date:     time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(tx)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"id", "type", "amount", "category", "date", "note"} {
		if _, ok := m[k]; !ok {
			t.Fatalf("missing key %q in %s", k, b)
		}
	}
	for _, k := range []string{"sourceTemplateId", "occurrenceMonth", "isRecurring"} {
		if _, ok := m[k]; ok {
			t.Fatalf("unexpected key %q in %s", k, b)
		}
	}
}

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		typ   TransactionType
		label string
		want  string
	}{
		{Expense, CategoryFood, CategoryFood},
		{Expense, "", CategoryFood},
		{Income, "", CategorySalary},
		{Income, CategoryFood, CategoryOther}, // expense label on income
		{Expense, CategorySalary, CategoryOther},
		{Expense, "Groceries", CategoryOther},
		{Income, CategoryOther, CategoryOther},
	}
	for _, tc := range cases {
		if got := NormalizeCategory(tc.typ, tc.label); got != tc.want {
			t.Fatalf("NormalizeCategory(%s, %q) = %q, want %q", tc.typ, tc.label, got, tc.want)
		}
	}
}

func TestMonthKey(t *testing.T) {
	jan := NewMonthKey(2025, time.January)
	if prev := jan.AddMonths(-1); prev.Year() != 2024 || prev.Month() != time.December {
		t.Fatalf("expected December 2024, got %s", prev)
	}
	if next := NewMonthKey(2024, time.December).AddMonths(1); next != jan {
		t.Fatalf("expected %s, got %s", jan, next)
	}
	if jan.String() != "2025-01" {
		t.Fatalf("unexpected string %q", jan.String())
	}
	if jan.Label() != "জানুয়ারি" {
		t.Fatalf("unexpected label %q", jan.Label())
	}
	if d := NewMonthKey(2024, time.February).DaysIn(); d != 29 {
		t.Fatalf("expected 29 days in Feb 2024, got %d", d)
	}

	// 23:30 UTC on Jan 31 is already February in UTC+6.
	dhaka := time.FixedZone("BDT", 6*3600)
	instant := time.Date(2025, 1, 31, 23, 30, 0, 0, time.UTC)
	if got := MonthKeyOf(instant, dhaka); got != NewMonthKey(2025, time.February) {
		t.Fatalf("expected 2025-02 in local calendar, got %s", got)
	}
	if got := MonthKeyOf(instant, nil); got != jan {
		t.Fatalf("expected 2025-01 in own location, got %s", got)
	}
	if !jan.Start(time.UTC).Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", jan.Start(time.UTC))
	}
}

func TestCategoriesHaveDefaultColors(t *testing.T) {
	for _, typ := range []TransactionType{Income, Expense} {
		for _, c := range Categories(typ) {
			if _, ok := DefaultCategoryColors[c]; !ok {
				t.Errorf("%s category %q has no default colour", typ, c)
			}
		}
	}
	if got := DefaultCategoryColors[CategoryEntertainment]; got != "#6366f1" {
		t.Errorf("entertainment colour = %q, want #6366f1", got)
	}
}

func TestBudgets(t *testing.T) {
	b := Budgets{CategoryFood: 300, CategoryRent: 0, CategoryBills: -1, CategoryHealth: 0.2}
	if len(b.Active()) != 2 {
		t.Fatalf("expected 2 active budgets, got %v", b.Active())
	}
	if b.Total() != 300.2 {
		t.Fatalf("expected 300.2, got %v", b.Total())
	}
}

func TestSettingsColorFor(t *testing.T) {
	s := DefaultSettings()
	s.CategoryColors[CategoryFood] = "#000000"
	if got := s.ColorFor(CategoryFood); got != "#000000" {
		t.Fatalf("expected custom colour, got %q", got)
	}
	if got := s.ColorFor("unknown"); got != DefaultCategoryColors[CategoryOther] {
		t.Fatalf("expected fallback colour, got %q", got)
	}
	if DefaultCategoryColors[CategoryFood] != "#f87171" {
		t.Fatal("default palette must not be modified through settings")
	}
}

func TestSortedBreakdown(t *testing.T) {
	s := FinancialSummary{CategoryBreakdown: map[string]float64{
		"a": 10, "b": 30, "c": 20, "d": 30, "e": 1, "f": 5,
	}}
	got := s.SortedBreakdown(5)
	if len(got) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(got))
	}
	want := []string{"b", "d", "c", "a", "f"}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, got[i].Name)
		}
	}
}
