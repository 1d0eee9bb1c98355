package google

import (
	"testing"
	"time"

	"zen/internal/core"
)

func TestTransactionRow(t *testing.T) {
	tx := core.Transaction{
		ID:               "auto-1",
		Type:             core.Expense,
		Amount:           1000,
		Category:         core.CategoryRent,
		Date:             time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		Note:             "flat [Auto:tpl]",
		SourceTemplateID: "tpl",
	}

	row := transactionRow(tx)

	if len(row) != len(transactionHeader) {
		t.Fatalf("row has %d cells, header %d", len(row), len(transactionHeader))
	}
	want := []any{"auto-1", "2025-03-05", "2025-03", "EXPENSE", core.CategoryRent, 1000.0, "flat [Auto:tpl]", "tpl"}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("cell %d = %v, want %v", i, row[i], want[i])
		}
	}
}

func TestArchiveRow(t *testing.T) {
	a := core.MonthlyArchive{
		ID:           "arch-1",
		MonthName:    "মার্চ",
		Year:         2025,
		Month:        3,
		TotalIncome:  900,
		TotalExpense: 300,
		Transactions: make([]core.Transaction, 4),
		ArchivedAt:   time.Date(2025, 3, 31, 18, 0, 0, 0, time.UTC),
	}

	row := archiveRow(a)

	if len(row) != len(archiveHeader) {
		t.Fatalf("row has %d cells, header %d", len(row), len(archiveHeader))
	}
	if row[5] != 600.0 {
		t.Errorf("savings = %v, want 600", row[5])
	}
	if row[6] != 4 {
		t.Errorf("transaction count = %v, want 4", row[6])
	}
	if row[7] != "2025-03-31T18:00:00Z" {
		t.Errorf("archived at = %v", row[7])
	}
}

func TestRowOf(t *testing.T) {
	values := [][]any{
		{"ID"},
		{"a"},
		{},
		{" b "},
	}
	cases := map[string]int{"a": 2, "b": 4, "c": 0, "ID": 1}
	for id, want := range cases {
		if got := rowOf(values, id); got != want {
			t.Errorf("rowOf(%q) = %d, want %d", id, got, want)
		}
	}
}
