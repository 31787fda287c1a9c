package models

import "time"

// SyncStatus is a derived, read-only view of the sync engine. Callers
// always receive a copy; mutating it has no effect on the engine.
type SyncStatus struct {
	LastSyncTime   time.Time `json:"last_sync_time"`
	SyncErrors     []string  `json:"sync_errors"`
	PendingChanges int       `json:"pending_changes"`
	IsOnline       bool      `json:"is_online"`
	IsSyncing      bool      `json:"is_syncing"`
}

// Clone returns a defensive copy of the status snapshot.
func (s *SyncStatus) Clone() *SyncStatus {
	cp := *s
	cp.SyncErrors = make([]string, len(s.SyncErrors))
	copy(cp.SyncErrors, s.SyncErrors)
	return &cp
}

// ConnectionState is a read-only snapshot of the connection monitor.
// It is mutated only by the monitor's transition function; observers are
// handed copies.
type ConnectionState struct {
	LastConnected    time.Time `json:"last_connected"`
	LastDisconnected time.Time `json:"last_disconnected"`
	ConnectionCount  int       `json:"connection_count"`
	IsConnected      bool      `json:"is_connected"`
	IsReconnecting   bool      `json:"is_reconnecting"`
}
