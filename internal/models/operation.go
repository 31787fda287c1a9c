package models

import (
	"encoding/json"
	"time"
)

// OperationType is the kind of mutation an operation carries.
type OperationType string

const (
	OperationCreate OperationType = "CREATE"
	OperationUpdate OperationType = "UPDATE"
	OperationDelete OperationType = "DELETE"
)

// Entity names the conflict resolver knows how to auto-resolve.
// Any other entity falls back to manual resolution.
const (
	EntityTransaction = "transaction"
	EntityAccount     = "account"
	EntityBudget      = "budget"
	EntityGoal        = "goal"
)

// Operation is a single create/update/delete intent against a named entity.
// Operations are immutable once enqueued; the queue item wrapping them
// carries the mutable sync state.
type Operation struct {
	Timestamp time.Time       `json:"timestamp"` // Timestamp local wall-clock time the mutation was made
	ID        string          `json:"id"`        // ID unique operation identifier (UUID)
	Type      OperationType   `json:"type"`      // Type CREATE, UPDATE or DELETE
	Entity    string          `json:"entity"`    // Entity entity kind, e.g. "transaction"
	EntityID  string          `json:"entity_id"` // EntityID identifier of the mutated entity
	ClientID  string          `json:"client_id"` // ClientID identifier of the originating client
	Data      json.RawMessage `json:"data"`      // Data entity payload at mutation time
	Version   int64           `json:"version"`   // Version entity version the client last saw
}

// Clone returns a deep copy of the operation.
func (o *Operation) Clone() *Operation {
	data := make(json.RawMessage, len(o.Data))
	copy(data, o.Data)

	cp := *o
	cp.Data = data
	return &cp
}
