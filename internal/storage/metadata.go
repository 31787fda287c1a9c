package storage

import (
	"context"
	"time"
)

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines interface for storing sync engine metadata.
// Times are persisted as RFC 3339 strings, never as live values.
type MetadataStorage interface {
	// SaveLastSyncTime saves the completion time of the last drain pass.
	SaveLastSyncTime(ctx context.Context, t time.Time) error

	// GetLastSyncTime retrieves the completion time of the last drain pass.
	// Returns the zero time if no pass has completed yet.
	GetLastSyncTime(ctx context.Context) (time.Time, error)

	// SaveClientID persists this client's stable identifier.
	SaveClientID(ctx context.Context, clientID string) error

	// GetClientID retrieves this client's stable identifier.
	// Returns an empty string if none has been assigned yet.
	GetClientID(ctx context.Context) (string, error)
}
