package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	keyLastSyncTime = "last_sync_time"
	keyClientID     = "client_id"
)

// SaveLastSyncTime saves the completion time of the last drain pass.
func (s *Storage) SaveLastSyncTime(ctx context.Context, t time.Time) error {
	return s.putMetadata(ctx, keyLastSyncTime, t.Format(time.RFC3339Nano))
}

// GetLastSyncTime retrieves the completion time of the last drain pass.
// Returns the zero time if no pass has completed yet.
func (s *Storage) GetLastSyncTime(ctx context.Context) (time.Time, error) {
	value, err := s.getMetadata(ctx, keyLastSyncTime)
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

// SaveClientID persists this client's stable identifier.
func (s *Storage) SaveClientID(ctx context.Context, clientID string) error {
	return s.putMetadata(ctx, keyClientID, clientID)
}

// GetClientID retrieves this client's stable identifier.
// Returns an empty string if none has been assigned yet.
func (s *Storage) GetClientID(ctx context.Context) (string, error) {
	return s.getMetadata(ctx, keyClientID)
}

func (s *Storage) putMetadata(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to save metadata %s: %w", key, err)
	}

	return nil
}

func (s *Storage) getMetadata(ctx context.Context, key string) (string, error) {
	var value string

	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get metadata %s: %w", key, err)
	}

	return value, nil
}
