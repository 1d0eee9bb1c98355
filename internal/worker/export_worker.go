package worker

import (
	"context"
	"fmt"

	"zen/internal/amqp"
	"zen/internal/core"
	zlog "zen/internal/log"
	"zen/internal/sheets"
)

// LedgerReader is the read side of the ledger store used by the worker.
type LedgerReader interface {
	LoadTransactions(ctx context.Context) ([]core.Transaction, error)
	FindTransaction(ctx context.Context, id string) (core.Transaction, bool, error)
	FindArchive(ctx context.Context, id string) (core.MonthlyArchive, bool, error)
}

// ExportWorker mirrors ledger events into a spreadsheet.
type ExportWorker struct {
	store   LedgerReader
	writer  sheets.LedgerWriter
	remover sheets.TransactionRemover
}

// NewExportWorker creates a worker. remover may be nil, in which case
// deletions are only logged.
func NewExportWorker(store LedgerReader, writer sheets.LedgerWriter, remover sheets.TransactionRemover) *ExportWorker {
	return &ExportWorker{
		store:   store,
		writer:  writer,
		remover: remover,
	}
}

// HandleEvent processes one ledger event. Records that no longer exist are
// logged and acknowledged; store and sheet failures are returned so the
// event is redelivered.
func (w *ExportWorker) HandleEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	zlog.FromContext(ctx).InfoContext(ctx, "Processing ledger event",
		"type", ev.Type,
		"id", ev.ID,
		"timestamp", ev.Timestamp)

	switch ev.Type {
	case amqp.EventTransactionCreated:
		return w.exportTransaction(ctx, ev.ID)
	case amqp.EventTransactionDeleted:
		return w.removeTransaction(ctx, ev.ID)
	case amqp.EventLedgerArchived:
		return w.exportArchive(ctx, ev.ID)
	default:
		zlog.FromContext(ctx).WarnContext(ctx, "Ignoring unknown ledger event", "type", ev.Type, "id", ev.ID)
		return nil
	}
}

func (w *ExportWorker) exportTransaction(ctx context.Context, id string) error {
	tx, ok, err := w.store.FindTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}
	if !ok {
		zlog.FromContext(ctx).WarnContext(ctx, "Transaction not in ledger, skipping export", "id", id)
		return nil
	}

	ref, err := w.writer.AppendTransaction(ctx, tx)
	if err != nil {
		return fmt.Errorf("export transaction: %w", err)
	}

	zlog.FromContext(ctx).InfoContext(ctx, "Exported transaction",
		"id", id,
		"type", tx.Type,
		"amount", tx.Amount,
		"ref", ref)
	return nil
}

func (w *ExportWorker) removeTransaction(ctx context.Context, id string) error {
	if w.remover == nil {
		zlog.FromContext(ctx).WarnContext(ctx, "No remover configured, skipping sheet deletion", "id", id)
		return nil
	}

	found, err := w.remover.RemoveTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("remove transaction: %w", err)
	}

	zlog.FromContext(ctx).InfoContext(ctx, "Processed transaction deletion", "id", id, "row_found", found)
	return nil
}

func (w *ExportWorker) exportArchive(ctx context.Context, id string) error {
	a, ok, err := w.store.FindArchive(ctx, id)
	if err != nil {
		return fmt.Errorf("get archive from storage: %w", err)
	}
	if !ok {
		zlog.FromContext(ctx).WarnContext(ctx, "Archive not found, skipping export", "id", id)
		return nil
	}

	ref, err := w.writer.AppendArchive(ctx, a)
	if err != nil {
		return fmt.Errorf("export archive: %w", err)
	}

	zlog.FromContext(ctx).InfoContext(ctx, "Exported archive",
		"id", id,
		"month", a.Key().String(),
		"transactions", len(a.Transactions),
		"ref", ref)
	return nil
}

// Backfill exports every live transaction. Appends are idempotent, so this
// recovers events lost while the worker was down. Failures are logged per
// transaction and counted.
func (w *ExportWorker) Backfill(ctx context.Context) (exported int, failed int, err error) {
	txs, err := w.store.LoadTransactions(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("load transactions for backfill: %w", err)
	}

	// oldest first so the sheet reads chronologically by insertion
	for i := len(txs) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return exported, failed, err
		}
		tx := txs[i]
		if _, err := w.writer.AppendTransaction(ctx, tx); err != nil {
			zlog.FromContext(ctx).ErrorContext(ctx, "Failed to backfill transaction", "id", tx.ID, "error", err)
			failed++
			continue
		}
		exported++
	}

	zlog.FromContext(ctx).InfoContext(ctx, "Startup backfill complete",
		"exported", exported,
		"failed", failed)
	return exported, failed, nil
}
