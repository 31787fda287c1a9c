package models

import (
	"encoding/json"
	"time"
)

// ResolutionStrategy says how a conflict was (or must be) resolved.
type ResolutionStrategy string

const (
	// StrategyClient keeps the client payload (client change is strictly newer).
	StrategyClient ResolutionStrategy = "client"
	// StrategyServer keeps the server payload (server change is strictly newer).
	StrategyServer ResolutionStrategy = "server"
	// StrategyMerge combines both sides field by field.
	StrategyMerge ResolutionStrategy = "merge"
	// StrategyManual defers to explicit user action.
	StrategyManual ResolutionStrategy = "manual"
)

// ConflictRecord is the durable audit record of one detected conflict.
// It is created when a remote apply reports divergence and mutated when
// resolved, but never deleted.
type ConflictRecord struct {
	Timestamp      time.Time          `json:"timestamp"`
	ID             string             `json:"id"`
	OperationID    string             `json:"operation_id"`
	Entity         string             `json:"entity"`
	Strategy       ResolutionStrategy `json:"strategy"`
	ClientData     json.RawMessage    `json:"client_data"`
	ServerData     json.RawMessage    `json:"server_data"`
	ResolutionData json.RawMessage    `json:"resolution_data,omitempty"`
	Operation      Operation          `json:"operation"` // Operation original queued operation, kept for manual resubmission
	Resolved       bool               `json:"resolved"`
}

// Resolution is the outcome of running the resolver against one conflict.
// Data is nil when Strategy is StrategyManual.
type Resolution struct {
	Strategy ResolutionStrategy
	Data     json.RawMessage
	Record   *ConflictRecord
}
