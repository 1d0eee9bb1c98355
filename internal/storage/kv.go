// Package storage persists the ledger as JSON documents in a key-value store.
package storage

import "context"

// Keys under which the ledger documents are stored.
const (
	KeyTransactions = "zen_transactions"
	KeySettings     = "zen_settings"
	KeyArchives     = "zen_archives"
)

// KV is a byte-valued key-value store. Get reports ok=false for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
