package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/steveg1983/wealthtracker-pro-sub004/internal/models"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/storage"
)

// Queue items are stored under an 8-byte big-endian sequence key so that
// bucket iteration yields enqueue order. A second bucket maps item id to
// its sequence key; updates reuse the existing key and therefore never
// change an item's position.

// SaveItem stores a new queue item or updates an existing one.
func (s *Storage) SaveItem(ctx context.Context, item *models.QueueItem) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := s.encode(item)
	if err != nil {
		return fmt.Errorf("failed to encode queue item: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		queue := tx.Bucket(bucketQueue)
		index := tx.Bucket(bucketQueueIndex)

		key := index.Get([]byte(item.ID))
		if key == nil {
			seq, err := queue.NextSequence()
			if err != nil {
				return fmt.Errorf("failed to allocate sequence: %w", err)
			}
			key = make([]byte, 8)
			binary.BigEndian.PutUint64(key, seq)

			if err := index.Put([]byte(item.ID), key); err != nil {
				return fmt.Errorf("failed to index item: %w", err)
			}
		}

		if err := queue.Put(key, data); err != nil {
			return fmt.Errorf("failed to save item: %w", err)
		}
		return nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// GetItem retrieves a queue item by ID
func (s *Storage) GetItem(ctx context.Context, id string) (*models.QueueItem, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var item *models.QueueItem

	err := s.db.View(func(tx *bbolt.Tx) error {
		key := tx.Bucket(bucketQueueIndex).Get([]byte(id))
		if key == nil {
			return storage.ErrItemNotFound
		}

		data := tx.Bucket(bucketQueue).Get(key)
		if data == nil {
			return storage.ErrItemNotFound
		}

		item = &models.QueueItem{}
		return s.decode(data, item)
	})

	if err != nil {
		return nil, err
	}

	return item, nil
}

// ListPending returns all pending items in enqueue order
func (s *Storage) ListPending(ctx context.Context) ([]*models.QueueItem, error) {
	return s.listItems(func(item *models.QueueItem) bool {
		return item.Status == models.ItemPending
	})
}

// ListAll returns every stored item in enqueue order
func (s *Storage) ListAll(ctx context.Context) ([]*models.QueueItem, error) {
	return s.listItems(func(item *models.QueueItem) bool { return true })
}

// listItems walks the queue bucket in key (= enqueue) order
func (s *Storage) listItems(keep func(*models.QueueItem) bool) ([]*models.QueueItem, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var items []*models.QueueItem

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketQueue).ForEach(func(k, v []byte) error {
			var item models.QueueItem
			if err := s.decode(v, &item); err != nil {
				return fmt.Errorf("failed to decode item: %w", err)
			}
			if keep(&item) {
				items = append(items, &item)
			}
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list queue items: %w", err)
	}

	return items, nil
}

// DeleteItem removes an item from the queue.
// Deleting a missing item is not an error.
func (s *Storage) DeleteItem(ctx context.Context, id string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		index := tx.Bucket(bucketQueueIndex)

		key := index.Get([]byte(id))
		if key == nil {
			return nil
		}

		if err := tx.Bucket(bucketQueue).Delete(key); err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}
		if err := index.Delete([]byte(id)); err != nil {
			return fmt.Errorf("failed to delete index entry: %w", err)
		}
		return nil
	})

	if err != nil {
		return fmt.Errorf("delete transaction failed: %w", err)
	}

	return nil
}
