package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/steveg1983/wealthtracker-pro-sub004/internal/models"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/storage"
)

// SaveItem stores a new queue item or updates an existing one.
// The autoincrement seq column fixes the enqueue order; updates keep
// the original seq so the item never moves in the queue.
func (s *Storage) SaveItem(ctx context.Context, item *models.QueueItem) error {
	opData, err := json.Marshal(item.Operation)
	if err != nil {
		return fmt.Errorf("failed to marshal operation: %w", err)
	}

	query := `
		INSERT INTO queue_items (id, status, retries, error, enqueued_at, operation)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			retries = excluded.retries,
			error = excluded.error,
			enqueued_at = excluded.enqueued_at,
			operation = excluded.operation
	`

	_, err = s.db.ExecContext(ctx, query,
		item.ID,
		string(item.Status),
		item.Retries,
		item.Error,
		item.EnqueuedAt.Format(time.RFC3339Nano),
		string(opData),
	)
	if err != nil {
		return fmt.Errorf("failed to save queue item: %w", err)
	}

	return nil
}

// GetItem retrieves a queue item by ID.
// Returns storage.ErrItemNotFound if the item doesn't exist.
func (s *Storage) GetItem(ctx context.Context, id string) (*models.QueueItem, error) {
	query := `
		SELECT id, status, retries, error, enqueued_at, operation
		FROM queue_items
		WHERE id = ?
	`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get queue item: %w", err)
	}

	return item, nil
}

// ListPending returns all pending items in enqueue order.
func (s *Storage) ListPending(ctx context.Context) ([]*models.QueueItem, error) {
	query := `
		SELECT id, status, retries, error, enqueued_at, operation
		FROM queue_items
		WHERE status = ?
		ORDER BY seq ASC
	`

	rows, err := s.db.QueryContext(ctx, query, string(models.ItemPending))
	if err != nil {
		return nil, fmt.Errorf("failed to query pending items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// ListAll returns every stored item in enqueue order, regardless of status.
func (s *Storage) ListAll(ctx context.Context) ([]*models.QueueItem, error) {
	query := `
		SELECT id, status, retries, error, enqueued_at, operation
		FROM queue_items
		ORDER BY seq ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query queue items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// DeleteItem removes an item from the queue.
// Deleting a missing item is not an error.
func (s *Storage) DeleteItem(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM queue_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete queue item: %w", err)
	}

	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.QueueItem, error) {
	item := &models.QueueItem{}
	var status, enqueuedAt, opData string

	err := row.Scan(
		&item.ID,
		&status,
		&item.Retries,
		&item.Error,
		&enqueuedAt,
		&opData,
	)
	if err != nil {
		return nil, err
	}

	item.Status = models.ItemStatus(status)

	item.EnqueuedAt, err = time.Parse(time.RFC3339Nano, enqueuedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse enqueued_at: %w", err)
	}

	if err := json.Unmarshal([]byte(opData), &item.Operation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal operation: %w", err)
	}

	return item, nil
}

func scanItems(rows *sql.Rows) ([]*models.QueueItem, error) {
	var items []*models.QueueItem

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan queue item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return items, nil
}
