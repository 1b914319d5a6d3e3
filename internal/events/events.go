// Package events publishes domain events about user data changes.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Event types, also used as routing keys.
const (
	TransactionCreated  = "transaction.created"
	TransactionUpdated  = "transaction.updated"
	TransactionDeleted  = "transaction.deleted"
	TransactionImported = "transaction.imported"
	BudgetCreated       = "budget.created"
)

// Event describes a change to one entity owned by a user.
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"userId"`
	EntityID   string    `json:"entityId"`
	Count      int       `json:"count,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// New returns an event stamped with the current time.
func New(typ, userID, entityID string) Event {
	return Event{Type: typ, UserID: userID, EntityID: entityID, OccurredAt: time.Now().UTC()}
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
