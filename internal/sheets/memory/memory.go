package memory

import (
	"context"
	"fmt"
	"sync"

	"zen/internal/core"
	ports "zen/internal/sheets"
)

var (
	_ ports.LedgerWriter       = (*Store)(nil)
	_ ports.TransactionRemover = (*Store)(nil)
)

// Store keeps exported rows in memory. It stands in for a spreadsheet when
// none is configured.
type Store struct {
	mu           sync.Mutex
	transactions []core.Transaction
	archives     []core.MonthlyArchive
}

func New() *Store {
	return &Store{}
}

// AppendTransaction stores the transaction and returns a synthetic row reference.
func (s *Store) AppendTransaction(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.transactions {
		if existing.ID == tx.ID {
			return fmt.Sprintf("mem:tx:%d", i+1), nil
		}
	}
	s.transactions = append(s.transactions, tx)
	return fmt.Sprintf("mem:tx:%d", len(s.transactions)), nil
}

func (s *Store) AppendArchive(_ context.Context, a core.MonthlyArchive) (string, error) {
	if a.ID == "" {
		return "", fmt.Errorf("archive without id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.archives {
		if existing.ID == a.ID {
			return fmt.Sprintf("mem:archive:%d", i+1), nil
		}
	}
	s.archives = append(s.archives, a)
	return fmt.Sprintf("mem:archive:%d", len(s.archives)), nil
}

func (s *Store) RemoveTransaction(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tx := range s.transactions {
		if tx.ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Transactions returns a snapshot of the exported transactions.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.transactions...)
}

// Archives returns a snapshot of the exported archives.
func (s *Store) Archives() []core.MonthlyArchive {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.MonthlyArchive(nil), s.archives...)
}
