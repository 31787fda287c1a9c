package storage

import (
	"context"

	"github.com/steveg1983/wealthtracker-pro-sub004/internal/models"
)

//go:generate moq -out conflictstorage_mock.go . ConflictStorage

// ConflictStorage defines durable storage for conflict records. Records
// are an audit trail: they are updated when resolved but never deleted.
type ConflictStorage interface {
	// SaveConflict stores a new conflict record or updates an existing one.
	SaveConflict(ctx context.Context, record *models.ConflictRecord) error

	// GetConflict retrieves a conflict record by ID.
	// Returns ErrConflictNotFound if the record doesn't exist.
	GetConflict(ctx context.Context, id string) (*models.ConflictRecord, error)

	// ListUnresolved returns all records still awaiting resolution.
	ListUnresolved(ctx context.Context) ([]*models.ConflictRecord, error)

	// ListConflicts returns every conflict record, resolved or not.
	ListConflicts(ctx context.Context) ([]*models.ConflictRecord, error)
}
