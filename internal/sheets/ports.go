package sheets

import (
	"context"

	"zen/internal/core"
)

// Ports for outbound adapters.
type (
	// LedgerWriter mirrors ledger records into a spreadsheet. Appends are
	// idempotent per id so redelivered events do not duplicate rows.
	LedgerWriter interface {
		AppendTransaction(ctx context.Context, tx core.Transaction) (rowRef string, err error)
		AppendArchive(ctx context.Context, a core.MonthlyArchive) (rowRef string, err error)
	}

	// TransactionRemover clears the row of a deleted transaction.
	TransactionRemover interface {
		RemoveTransaction(ctx context.Context, id string) (found bool, err error)
	}
)
