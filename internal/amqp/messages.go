package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType names a ledger change.
type EventType string

const (
	EventTransactionCreated EventType = "transaction.created"
	EventTransactionDeleted EventType = "transaction.deleted"
	EventLedgerArchived     EventType = "ledger.archived"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventTransactionCreated, EventTransactionDeleted, EventLedgerArchived:
		return true
	}
	return false
}

// LedgerEvent is a lightweight notification about a ledger change. It carries
// only the id; consumers read the record from the store.
type LedgerEvent struct {
	Type      EventType `json:"type"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEvent(t EventType, id string) *LedgerEvent {
	return &LedgerEvent{
		Type:      t,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes and validates an event.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var ev LedgerEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	if !ev.Type.IsValid() {
		return nil, fmt.Errorf("unknown event type %q", ev.Type)
	}
	if ev.ID == "" {
		return nil, fmt.Errorf("event %s without id", ev.Type)
	}
	return &ev, nil
}
