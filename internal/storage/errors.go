package storage

import "errors"

// Common storage errors
var (
	// ErrItemNotFound indicates that a queue item was not found
	ErrItemNotFound = errors.New("queue item not found")

	// ErrConflictNotFound indicates that a conflict record was not found
	ErrConflictNotFound = errors.New("conflict record not found")

	// ErrRecordNotFound indicates that an entity snapshot was not found
	ErrRecordNotFound = errors.New("entity record not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
