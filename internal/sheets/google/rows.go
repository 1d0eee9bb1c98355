package google

import (
	"fmt"
	"strings"
	"time"

	"zen/internal/core"
)

var (
	transactionHeader = []any{"ID", "Date", "Month", "Type", "Category", "Amount", "Note", "Template"}
	archiveHeader     = []any{"ID", "Year", "Month", "Income", "Expense", "Savings", "Transactions", "Archived at"}
)

func transactionRow(tx core.Transaction) []any {
	return []any{
		tx.ID,
		tx.Date.Format("2006-01-02"),
		core.MonthKeyOf(tx.Date, nil).String(),
		string(tx.Type),
		tx.Category,
		tx.Amount,
		tx.Note,
		tx.SourceTemplateID,
	}
}

func archiveRow(a core.MonthlyArchive) []any {
	return []any{
		a.ID,
		a.Year,
		a.MonthName,
		a.TotalIncome,
		a.TotalExpense,
		a.Savings(),
		len(a.Transactions),
		a.ArchivedAt.Format(time.RFC3339),
	}
}

// rowOf returns the 1-based row whose first cell equals id, or 0.
func rowOf(values [][]any, id string) int {
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == id {
			return i + 1
		}
	}
	return 0
}
