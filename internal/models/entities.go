package models

import (
	"encoding/json"
	"time"
)

// Transaction is the subset of the transaction entity the resolver
// compares. Unknown fields round-trip untouched through the raw payload.
type Transaction struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Amount      float64   `json:"amount"`
}

// Account is the subset of the account entity the resolver merges.
// OriginalBalance is the pre-edit balance snapshot captured when the
// mutation was enqueued; without it a balance delta cannot be computed.
type Account struct {
	Name            string   `json:"name,omitempty"`
	Balance         float64  `json:"balance"`
	OriginalBalance *float64 `json:"original_balance,omitempty"`
}

// Budget is the subset of the budget entity the resolver merges.
type Budget struct {
	Category string  `json:"category,omitempty"`
	Amount   float64 `json:"amount"`
	Spent    float64 `json:"spent"`
}

// EntityRecord is one cached entity snapshot, the client's last known
// server-side state for an entity. Used by the bootstrap merge and kept
// current as mutations complete.
type EntityRecord struct {
	UpdatedAt time.Time       `json:"updated_at"`
	Entity    string          `json:"entity"`
	EntityID  string          `json:"entity_id"`
	Data      json.RawMessage `json:"data"`
	Version   int64           `json:"version"`
}

// Clone returns a deep copy of the record.
func (r *EntityRecord) Clone() *EntityRecord {
	data := make(json.RawMessage, len(r.Data))
	copy(data, r.Data)

	cp := *r
	cp.Data = data
	return &cp
}
