package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types published after a committed ledger command.
const (
	EventAccountCreated     = "account.created"
	EventAccountUpdated     = "account.updated"
	EventAccountDeleted     = "account.deleted"
	EventTransactionCreated = "transaction.created"
	EventTransactionUpdated = "transaction.updated"
	EventTransactionDeleted = "transaction.deleted"
	EventTransferCreated    = "transfer.created"
	EventRecurringCreated   = "recurring.created"
	EventGroupCreated       = "group.created"
	EventGroupUpdated       = "group.updated"
	EventGroupDeleted       = "group.deleted"
	EventGroupMoved         = "group.moved"
	EventBudgetCreated      = "budget.created"
	EventBudgetUpdated      = "budget.updated"
	EventBudgetDeleted      = "budget.deleted"
	EventBudgetMoved        = "budget.moved"
)

// LedgerEvent tells consumers that the ledger changed. It carries no state;
// consumers reload the book to see the result.
type LedgerEvent struct {
	Type      string    `json:"type"`
	EntityID  string    `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEvent(eventType, entityID string) LedgerEvent {
	return LedgerEvent{
		Type:      eventType,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (e LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes an event, rejecting bodies without a type.
func LedgerEventFromJSON(data []byte) (LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return LedgerEvent{}, err
	}
	if e.Type == "" {
		return LedgerEvent{}, fmt.Errorf("ledger event without type")
	}
	return e, nil
}
