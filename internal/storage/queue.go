package storage

import (
	"context"

	"github.com/steveg1983/wealthtracker-pro-sub004/internal/models"
)

//go:generate moq -out queuestorage_mock.go . QueueStorage

// QueueStorage defines the durable mutation queue. Implementations must
// preserve enqueue order: ListPending and ListAll return items in the
// order SaveItem first saw them.
type QueueStorage interface {
	// SaveItem stores a new queue item or updates an existing one.
	// Updating an item never changes its position in the queue.
	SaveItem(ctx context.Context, item *models.QueueItem) error

	// GetItem retrieves a queue item by ID.
	// Returns ErrItemNotFound if the item doesn't exist.
	GetItem(ctx context.Context, id string) (*models.QueueItem, error)

	// ListPending returns all pending items in enqueue order.
	ListPending(ctx context.Context) ([]*models.QueueItem, error)

	// ListAll returns every stored item in enqueue order, regardless of status.
	ListAll(ctx context.Context) ([]*models.QueueItem, error)

	// DeleteItem removes an item from the queue.
	// Deleting a missing item is not an error.
	DeleteItem(ctx context.Context, id string) error
}
