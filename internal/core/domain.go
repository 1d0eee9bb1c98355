package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

const (
	FrequencyNone    Frequency = "NONE"
	FrequencyMonthly Frequency = "MONTHLY"
)

type (
	TransactionType string

	Frequency string

	// Transaction is a single dated income or expense record. Records flagged
	// IsRecurring are templates scanned by the recurring processor.
	Transaction struct {
		ID          string          `json:"id"`
		Type        TransactionType `json:"type"`
		Amount      float64         `json:"amount"`
		Category    string          `json:"category"`
		Date        time.Time       `json:"date"`
		Note        string          `json:"note"`
		IsRecurring bool            `json:"isRecurring,omitempty"`
		Frequency   Frequency       `json:"frequency,omitempty"`

		// Set on materialized occurrences only.
		SourceTemplateID string   `json:"sourceTemplateId,omitempty"`
		OccurrenceMonth  MonthKey `json:"occurrenceMonth,omitempty"`
	}

	// NewTransactionParams carries user input for a new transaction. Amount is
	// kept as text so validation happens in one place.
	NewTransactionParams struct {
		Type        TransactionType
		Amount      string
		Category    string
		Date        time.Time
		Note        string
		IsRecurring bool
	}
)

var (
	ErrEmptyID       = errors.New("empty transaction id")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

// IsValid reports whether t is one of the two supported types.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if t.Amount <= 0 || math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// IsOccurrence reports whether t was materialized from a recurring template.
func (t Transaction) IsOccurrence() bool {
	return t.SourceTemplateID != ""
}

// NewTransaction validates p and builds a transaction with the given id.
// Amounts that are not strictly positive numbers are rejected.
func NewTransaction(id string, p NewTransactionParams, now time.Time) (Transaction, error) {
	if !p.Type.IsValid() {
		return Transaction{}, ErrInvalidType
	}
	amount, err := ParseAmount(p.Amount)
	if err != nil {
		return Transaction{}, err
	}

	date := p.Date
	if date.IsZero() {
		date = now
	}

	freq := FrequencyNone
	if p.IsRecurring {
		freq = FrequencyMonthly
	}

	t := Transaction{
		ID:          id,
		Type:        p.Type,
		Amount:      amount,
		Category:    NormalizeCategory(p.Type, p.Category),
		Date:        date,
		Note:        strings.TrimSpace(p.Note),
		IsRecurring: p.IsRecurring,
		Frequency:   freq,
	}
	return t, t.Validate()
}
