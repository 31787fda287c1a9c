package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/steveg1983/wealthtracker-pro-sub004/internal/models"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/storage"
)

// SaveConflict stores a new conflict record or updates an existing one
func (s *Storage) SaveConflict(ctx context.Context, record *models.ConflictRecord) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := s.encode(record)
	if err != nil {
		return fmt.Errorf("failed to encode conflict record: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketConflicts).Put([]byte(record.ID), data); err != nil {
			return fmt.Errorf("failed to save conflict record: %w", err)
		}
		return nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// GetConflict retrieves a conflict record by ID
func (s *Storage) GetConflict(ctx context.Context, id string) (*models.ConflictRecord, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var record *models.ConflictRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketConflicts).Get([]byte(id))
		if data == nil {
			return storage.ErrConflictNotFound
		}

		record = &models.ConflictRecord{}
		return s.decode(data, record)
	})

	if err != nil {
		return nil, err
	}

	return record, nil
}

// ListUnresolved returns all records still awaiting resolution
func (s *Storage) ListUnresolved(ctx context.Context) ([]*models.ConflictRecord, error) {
	return s.filterConflicts(func(r *models.ConflictRecord) bool { return !r.Resolved })
}

// ListConflicts returns every conflict record, resolved or not
func (s *Storage) ListConflicts(ctx context.Context) ([]*models.ConflictRecord, error) {
	return s.filterConflicts(func(r *models.ConflictRecord) bool { return true })
}

func (s *Storage) filterConflicts(keep func(*models.ConflictRecord) bool) ([]*models.ConflictRecord, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var records []*models.ConflictRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketConflicts).ForEach(func(k, v []byte) error {
			var record models.ConflictRecord
			if err := s.decode(v, &record); err != nil {
				return fmt.Errorf("failed to decode conflict record: %w", err)
			}
			if keep(&record) {
				records = append(records, &record)
			}
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list conflict records: %w", err)
	}

	return records, nil
}
