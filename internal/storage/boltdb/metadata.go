package boltdb

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/steveg1983/wealthtracker-pro-sub004/internal/storage"
)

var (
	keyLastSyncTime = []byte("last_sync_time")
	keyClientID     = []byte("client_id")
)

// Metadata values are small strings; times are stored as RFC 3339, the
// persistence contract for all dates.

// SaveLastSyncTime saves the completion time of the last drain pass
func (s *Storage) SaveLastSyncTime(ctx context.Context, t time.Time) error {
	return s.putMetadata(keyLastSyncTime, t.UTC().Format(time.RFC3339Nano))
}

// GetLastSyncTime retrieves the completion time of the last drain pass.
// Returns the zero time if no pass has completed yet.
func (s *Storage) GetLastSyncTime(ctx context.Context) (time.Time, error) {
	value, err := s.getMetadata(keyLastSyncTime)
	if err != nil {
		return time.Time{}, err
	}
	if value == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse last sync time: %w", err)
	}
	return t, nil
}

// SaveClientID persists this client's stable identifier
func (s *Storage) SaveClientID(ctx context.Context, clientID string) error {
	return s.putMetadata(keyClientID, clientID)
}

// GetClientID retrieves this client's stable identifier.
// Returns an empty string if none has been assigned yet.
func (s *Storage) GetClientID(ctx context.Context) (string, error) {
	return s.getMetadata(keyClientID)
}

func (s *Storage) putMetadata(key []byte, value string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMetadata).Put(key, []byte(value))
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

func (s *Storage) getMetadata(key []byte) (string, error) {
	if s.db == nil {
		return "", storage.ErrStorageClosed
	}

	var value string

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMetadata).Get(key)
		if data != nil {
			value = string(data)
		}
		return nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to read metadata: %w", err)
	}

	return value, nil
}
