package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"zen/internal/core"
)

var (
	ErrNotFound         = errors.New("transaction not found")
	ErrNothingToArchive = errors.New("nothing to archive")
	ErrInvalidColor     = errors.New("invalid colour, expected #rrggbb")
	ErrInvalidBudget    = errors.New("invalid budget limit")
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LedgerStore persists the ledger documents.
type LedgerStore interface {
	LoadTransactions(ctx context.Context) ([]core.Transaction, error)
	SaveTransactions(ctx context.Context, txs []core.Transaction) error
	LoadSettings(ctx context.Context) (core.Settings, error)
	SaveSettings(ctx context.Context, s core.Settings) error
	LoadArchives(ctx context.Context) ([]core.MonthlyArchive, error)
	SaveArchives(ctx context.Context, archives []core.MonthlyArchive) error
}

// EventPublisher announces ledger changes to other processes.
type EventPublisher interface {
	PublishTransactionCreated(ctx context.Context, id string) error
	PublishTransactionDeleted(ctx context.Context, id string) error
	PublishLedgerArchived(ctx context.Context, id string) error
}

// LedgerOptions configures a LedgerService. Zero fields take defaults.
type LedgerOptions struct {
	HistoryMonths int
	Location      *time.Location
	Now           func() time.Time
	NewID         IDFunc
	Processor     *RecurringProcessor
}

// LedgerService owns the live transaction list. Every mutation is written
// back to the store before it becomes visible; events are best effort.
type LedgerService struct {
	store     LedgerStore
	publisher EventPublisher
	processor *RecurringProcessor

	historyMonths int
	loc           *time.Location
	clock         func() time.Time
	newID         IDFunc

	mu       sync.Mutex
	loaded   bool
	txs      []core.Transaction
	settings core.Settings
	archives []core.MonthlyArchive
}

// NewLedgerService creates a ledger over store. publisher may be nil.
func NewLedgerService(store LedgerStore, publisher EventPublisher, opts LedgerOptions) *LedgerService {
	s := &LedgerService{
		store:         store,
		publisher:     publisher,
		processor:     opts.Processor,
		historyMonths: opts.HistoryMonths,
		loc:           opts.Location,
		clock:         opts.Now,
		newID:         opts.NewID,
	}
	if s.processor == nil {
		s.processor = NewRecurringProcessor(nil)
	}
	if s.historyMonths <= 0 {
		s.historyMonths = DefaultHistoryMonths
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

func (s *LedgerService) now() time.Time {
	return s.clock().In(s.loc)
}

// Load reads the ledger from the store and materializes due recurring
// occurrences. It returns the number of occurrences created.
func (s *LedgerService) Load(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *LedgerService) load(ctx context.Context) (int, error) {
	txs, err := s.store.LoadTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("load transactions: %w", err)
	}
	settings, err := s.store.LoadSettings(ctx)
	if err != nil {
		return 0, fmt.Errorf("load settings: %w", err)
	}
	archives, err := s.store.LoadArchives(ctx)
	if err != nil {
		return 0, fmt.Errorf("load archives: %w", err)
	}

	s.txs, s.settings, s.archives = txs, settings, archives
	s.loaded = true

	occ := s.processor.Materialize(ctx, txs, s.now())
	if len(occ) == 0 {
		return 0, nil
	}

	next := Prepend(occ, txs)
	if err := s.store.SaveTransactions(ctx, next); err != nil {
		return 0, fmt.Errorf("save materialized transactions: %w", err)
	}
	s.txs = next

	for _, tx := range occ {
		s.publishCreated(ctx, tx.ID)
	}
	return len(occ), nil
}

func (s *LedgerService) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	_, err := s.load(ctx)
	return err
}

// Add validates p and prepends the new transaction to the ledger. Invalid
// input returns a core validation error and leaves the ledger unchanged.
func (s *LedgerService) Add(ctx context.Context, p core.NewTransactionParams) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return core.Transaction{}, err
	}

	tx, err := core.NewTransaction(s.newID(), p, s.now())
	if err != nil {
		return core.Transaction{}, err
	}

	next := Prepend([]core.Transaction{tx}, s.txs)
	if err := s.store.SaveTransactions(ctx, next); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	s.txs = next

	slog.InfoContext(ctx, "Transaction added",
		"id", tx.ID,
		"type", tx.Type,
		"amount", tx.Amount,
		"category", tx.Category,
		"recurring", tx.IsRecurring)

	s.publishCreated(ctx, tx.ID)
	return tx, nil
}

// Delete removes the transaction with id.
func (s *LedgerService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	next := make([]core.Transaction, 0, len(s.txs))
	for _, tx := range s.txs {
		if tx.ID != id {
			next = append(next, tx)
		}
	}
	if len(next) == len(s.txs) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := s.store.SaveTransactions(ctx, next); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}
	s.txs = next

	slog.InfoContext(ctx, "Transaction deleted", "id", id)

	if s.publisher == nil {
		slog.WarnContext(ctx, "Event publisher not available, skipping delete event")
		return nil
	}
	if err := s.publisher.PublishTransactionDeleted(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete event", "id", id, "error", err)
	}
	return nil
}

// Transactions returns a copy of the live list, newest insertion first.
func (s *LedgerService) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txs...)
}

func (s *LedgerService) Filter(f TransactionFilter) []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FilterTransactions(s.txs, f)
}

func (s *LedgerService) Recent(n int) []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Recent(s.txs, n)
}

// Summary aggregates the ledger for the current month.
func (s *LedgerService) Summary() core.FinancialSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BuildSummary(s.txs, s.now(), SummaryOptions{
		HistoryMonths: s.historyMonths,
		Budgets:       s.settings.Budgets,
		Archives:      s.archives,
	})
}

// Settings returns a copy of the current settings.
func (s *LedgerService) Settings() core.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySettings(s.settings)
}

// SetBudget sets the monthly limit for category. A zero limit removes it.
func (s *LedgerService) SetBudget(ctx context.Context, category string, limit float64) error {
	category = strings.TrimSpace(category)
	if category == "" || limit < 0 {
		return ErrInvalidBudget
	}
	return s.updateSettings(ctx, func(st *core.Settings) {
		if limit == 0 {
			delete(st.Budgets, category)
			return
		}
		st.Budgets[category] = limit
	})
}

func (s *LedgerService) SetCategoryColor(ctx context.Context, category, color string) error {
	if !hexColor.MatchString(color) {
		return ErrInvalidColor
	}
	return s.updateSettings(ctx, func(st *core.Settings) {
		st.CategoryColors[category] = strings.ToLower(color)
	})
}

// ResetCategoryColors restores the default palette.
func (s *LedgerService) ResetCategoryColors(ctx context.Context) error {
	return s.updateSettings(ctx, func(st *core.Settings) {
		st.CategoryColors = core.DefaultSettings().CategoryColors
	})
}

func (s *LedgerService) updateSettings(ctx context.Context, fn func(*core.Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	next := copySettings(s.settings)
	fn(&next)
	if err := s.store.SaveSettings(ctx, next); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.settings = next
	return nil
}

// Archive closes the current month: every live transaction moves into a new
// MonthlyArchive carrying this month's totals, and the live list is cleared.
func (s *LedgerService) Archive(ctx context.Context) (core.MonthlyArchive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return core.MonthlyArchive{}, err
	}
	if len(s.txs) == 0 {
		return core.MonthlyArchive{}, ErrNothingToArchive
	}

	now := s.now()
	sum := BuildSummary(s.txs, now, SummaryOptions{HistoryMonths: 1})
	month := core.MonthKeyOf(now, s.loc)

	archive := core.MonthlyArchive{
		ID:           uuid.NewString(),
		MonthName:    month.Label(),
		Year:         month.Year(),
		Month:        int(month.Month()),
		TotalIncome:  sum.TotalIncome,
		TotalExpense: sum.TotalExpenses,
		Transactions: append([]core.Transaction(nil), s.txs...),
		ArchivedAt:   now,
	}

	archives := append([]core.MonthlyArchive{archive}, s.archives...)
	if err := s.store.SaveArchives(ctx, archives); err != nil {
		return core.MonthlyArchive{}, fmt.Errorf("save archives: %w", err)
	}

	// the archive must not outlive a failed clear, or the month is archived twice
	if err := s.store.SaveTransactions(ctx, []core.Transaction{}); err != nil {
		if rbErr := s.store.SaveArchives(ctx, s.archives); rbErr != nil {
			slog.ErrorContext(ctx, "Failed to roll back archive",
				"archive_id", archive.ID,
				"error", rbErr)
			return core.MonthlyArchive{}, errors.Join(fmt.Errorf("clear transactions: %w", err), fmt.Errorf("roll back archive: %w", rbErr))
		}
		return core.MonthlyArchive{}, fmt.Errorf("clear transactions: %w", err)
	}
	s.archives = archives
	s.txs = []core.Transaction{}

	slog.InfoContext(ctx, "Ledger archived",
		"archive_id", archive.ID,
		"month", month.String(),
		"transactions", len(archive.Transactions),
		"income", archive.TotalIncome,
		"expense", archive.TotalExpense)

	if s.publisher == nil {
		slog.WarnContext(ctx, "Event publisher not available, skipping archive event")
		return archive, nil
	}
	if err := s.publisher.PublishLedgerArchived(ctx, archive.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish archive event", "archive_id", archive.ID, "error", err)
	}
	return archive, nil
}

// Archives returns the archive history, newest first.
func (s *LedgerService) Archives() []core.MonthlyArchive {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.MonthlyArchive(nil), s.archives...)
}

func (s *LedgerService) publishCreated(ctx context.Context, id string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Event publisher not available, skipping create event")
		return
	}
	if err := s.publisher.PublishTransactionCreated(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish create event", "id", id, "error", err)
	}
}

func copySettings(src core.Settings) core.Settings {
	dst := core.Settings{
		Budgets:        make(core.Budgets, len(src.Budgets)),
		CategoryColors: make(map[string]string, len(src.CategoryColors)),
	}
	for k, v := range src.Budgets {
		dst.Budgets[k] = v
	}
	for k, v := range src.CategoryColors {
		dst.CategoryColors[k] = v
	}
	return dst
}
