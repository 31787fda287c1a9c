package storage

import (
	"context"

	"github.com/steveg1983/wealthtracker-pro-sub004/internal/models"
)

//go:generate moq -out snapshotstorage_mock.go . SnapshotStorage

// SnapshotStorage caches the client's last known server-side entity state.
// The bootstrap merge reads it; the sync engine keeps it current as
// mutations complete.
type SnapshotStorage interface {
	// SaveRecord stores or replaces a cached entity snapshot.
	SaveRecord(ctx context.Context, record *models.EntityRecord) error

	// GetRecord retrieves the snapshot for one entity instance.
	// Returns ErrRecordNotFound if no snapshot is cached.
	GetRecord(ctx context.Context, entity, entityID string) (*models.EntityRecord, error)

	// ListRecords returns cached snapshots for one entity kind,
	// or for all kinds when entity is empty.
	ListRecords(ctx context.Context, entity string) ([]*models.EntityRecord, error)

	// DeleteRecord drops a cached snapshot.
	// Deleting a missing record is not an error.
	DeleteRecord(ctx context.Context, entity, entityID string) error
}
