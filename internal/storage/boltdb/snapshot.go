package boltdb

import (
	"context"
	"fmt"
	"strings"

	"go.etcd.io/bbolt"

	"github.com/steveg1983/wealthtracker-pro-sub004/internal/models"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/storage"
)

// snapshotKey builds the "entity/id" composite key. Entity names never
// contain a slash, so the prefix scan in ListRecords is unambiguous.
func snapshotKey(entity, entityID string) []byte {
	return []byte(entity + "/" + entityID)
}

// SaveRecord stores or replaces a cached entity snapshot
func (s *Storage) SaveRecord(ctx context.Context, record *models.EntityRecord) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := s.encode(record)
	if err != nil {
		return fmt.Errorf("failed to encode entity record: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		key := snapshotKey(record.Entity, record.EntityID)
		if err := tx.Bucket(bucketSnapshots).Put(key, data); err != nil {
			return fmt.Errorf("failed to save entity record: %w", err)
		}
		return nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// GetRecord retrieves the snapshot for one entity instance
func (s *Storage) GetRecord(ctx context.Context, entity, entityID string) (*models.EntityRecord, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var record *models.EntityRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSnapshots).Get(snapshotKey(entity, entityID))
		if data == nil {
			return storage.ErrRecordNotFound
		}

		record = &models.EntityRecord{}
		return s.decode(data, record)
	})

	if err != nil {
		return nil, err
	}

	return record, nil
}

// ListRecords returns cached snapshots for one entity kind, or all kinds
// when entity is empty
func (s *Storage) ListRecords(ctx context.Context, entity string) ([]*models.EntityRecord, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	prefix := ""
	if entity != "" {
		prefix = entity + "/"
	}

	var records []*models.EntityRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSnapshots).ForEach(func(k, v []byte) error {
			if prefix != "" && !strings.HasPrefix(string(k), prefix) {
				return nil
			}

			var record models.EntityRecord
			if err := s.decode(v, &record); err != nil {
				return fmt.Errorf("failed to decode entity record: %w", err)
			}
			records = append(records, &record)
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list entity records: %w", err)
	}

	return records, nil
}

// DeleteRecord drops a cached snapshot.
// Deleting a missing record is not an error.
func (s *Storage) DeleteRecord(ctx context.Context, entity, entityID string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Delete(snapshotKey(entity, entityID))
	})

	if err != nil {
		return fmt.Errorf("delete transaction failed: %w", err)
	}

	return nil
}
