package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"zen/internal/core"
)

// LedgerRepository reads and writes the ledger documents as JSON in a KV.
// List documents are decoded record by record: a record that fails to decode
// is dropped on its own. A document that fails to decode as a whole is
// replaced by its default on read.
type LedgerRepository struct {
	kv KV
}

func NewLedgerRepository(kv KV) *LedgerRepository {
	return &LedgerRepository{kv: kv}
}

func (r *LedgerRepository) Close() error {
	if r.kv != nil {
		return r.kv.Close()
	}
	return nil
}

func (r *LedgerRepository) LoadTransactions(ctx context.Context) ([]core.Transaction, error) {
	return loadList[core.Transaction](ctx, r.kv, KeyTransactions)
}

func (r *LedgerRepository) SaveTransactions(ctx context.Context, txs []core.Transaction) error {
	if txs == nil {
		txs = []core.Transaction{}
	}
	return r.save(ctx, KeyTransactions, txs)
}

// LoadSettings returns the stored settings with missing fields filled from
// core.DefaultSettings.
func (r *LedgerRepository) LoadSettings(ctx context.Context) (core.Settings, error) {
	var stored core.Settings
	if err := r.load(ctx, KeySettings, &stored); err != nil {
		return core.Settings{}, err
	}

	s := core.DefaultSettings()
	for c, limit := range stored.Budgets {
		s.Budgets[c] = limit
	}
	for c, color := range stored.CategoryColors {
		if color != "" {
			s.CategoryColors[c] = color
		}
	}
	return s, nil
}

func (r *LedgerRepository) SaveSettings(ctx context.Context, s core.Settings) error {
	return r.save(ctx, KeySettings, s)
}

func (r *LedgerRepository) LoadArchives(ctx context.Context) ([]core.MonthlyArchive, error) {
	return loadList[core.MonthlyArchive](ctx, r.kv, KeyArchives)
}

func (r *LedgerRepository) SaveArchives(ctx context.Context, archives []core.MonthlyArchive) error {
	if archives == nil {
		archives = []core.MonthlyArchive{}
	}
	return r.save(ctx, KeyArchives, archives)
}

// FindTransaction looks id up in the live ledger.
func (r *LedgerRepository) FindTransaction(ctx context.Context, id string) (core.Transaction, bool, error) {
	txs, err := r.LoadTransactions(ctx)
	if err != nil {
		return core.Transaction{}, false, err
	}
	for _, tx := range txs {
		if tx.ID == id {
			return tx, true, nil
		}
	}
	return core.Transaction{}, false, nil
}

// FindArchive looks id up in the archive history.
func (r *LedgerRepository) FindArchive(ctx context.Context, id string) (core.MonthlyArchive, bool, error) {
	archives, err := r.LoadArchives(ctx)
	if err != nil {
		return core.MonthlyArchive{}, false, err
	}
	for _, a := range archives {
		if a.ID == id {
			return a, true, nil
		}
	}
	return core.MonthlyArchive{}, false, nil
}

// load decodes the document at key into dst. A missing key leaves dst
// untouched; undecodable data is logged and dst is reset.
func (r *LedgerRepository) load(ctx context.Context, key string, dst *core.Settings) error {
	raw, ok, err := r.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		slog.WarnContext(ctx, "Discarding malformed stored data",
			"key", key,
			"bytes", len(raw),
			"error", err)
		*dst = core.Settings{}
	}
	return nil
}

// loadList decodes the JSON array stored at key one element at a time.
// Elements that fail to decode are logged and skipped; an unreadable array
// yields an empty list.
func loadList[T any](ctx context.Context, kv KV, key string) ([]T, error) {
	out := []T{}
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return out, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		slog.WarnContext(ctx, "Discarding malformed stored data",
			"key", key,
			"bytes", len(raw),
			"error", err)
		return out, nil
	}

	for i, elem := range elems {
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			slog.WarnContext(ctx, "Skipping malformed stored record",
				"key", key,
				"index", i,
				"error", err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *LedgerRepository) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
