// Package api holds the wire types shared between the client and the
// sync endpoint. All timestamps travel as RFC 3339 strings.
package api

import (
	"encoding/json"
	"time"
)

// ApplyRequest submits one client mutation to the authority.
type ApplyRequest struct {
	OperationID string          `json:"operation_id"`
	Type        string          `json:"type"` // CREATE, UPDATE or DELETE
	Entity      string          `json:"entity"`
	EntityID    string          `json:"entity_id"`
	ClientID    string          `json:"client_id"`
	UserID      string          `json:"user_id"`
	Data        json.RawMessage `json:"data,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
	Version     int64           `json:"version"`
}

// ApplyResponse acknowledges an accepted mutation.
type ApplyResponse struct {
	EntityID string `json:"entity_id"`
	Version  int64  `json:"version"`
	// SyncHint asks the client to run another drain pass right away,
	// e.g. because the server queued follow-up changes.
	SyncHint bool `json:"sync_hint,omitempty"`
}

// ConflictResponse is the body of an HTTP 409: the server's current
// state for the entity the mutation touched.
type ConflictResponse struct {
	Entity        string          `json:"entity"`
	EntityID      string          `json:"entity_id"`
	ServerData    json.RawMessage `json:"server_data"`
	ServerVersion int64           `json:"server_version"`
}

// SnapshotRecord is one entity in a full snapshot pull.
type SnapshotRecord struct {
	Entity    string          `json:"entity"`
	EntityID  string          `json:"entity_id"`
	Data      json.RawMessage `json:"data"`
	Version   int64           `json:"version"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SnapshotResponse is the server's full state for one user.
type SnapshotResponse struct {
	Records []SnapshotRecord `json:"records"`
}

// ErrorResponse is the uniform error body for non-2xx responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
