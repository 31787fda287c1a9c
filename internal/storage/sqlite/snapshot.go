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

// SaveRecord stores or replaces a cached entity snapshot.
func (s *Storage) SaveRecord(ctx context.Context, record *models.EntityRecord) error {
	query := `
		INSERT INTO entity_records (entity, entity_id, version, updated_at, data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(entity, entity_id) DO UPDATE SET
			version = excluded.version,
			updated_at = excluded.updated_at,
			data = excluded.data
	`

	_, err := s.db.ExecContext(ctx, query,
		record.Entity,
		record.EntityID,
		record.Version,
		record.UpdatedAt.Format(time.RFC3339Nano),
		string(record.Data),
	)
	if err != nil {
		return fmt.Errorf("failed to save entity record: %w", err)
	}

	return nil
}

// GetRecord retrieves the snapshot for one entity instance.
// Returns storage.ErrRecordNotFound if no snapshot is cached.
func (s *Storage) GetRecord(ctx context.Context, entity, entityID string) (*models.EntityRecord, error) {
	query := `
		SELECT entity, entity_id, version, updated_at, data
		FROM entity_records
		WHERE entity = ? AND entity_id = ?
	`

	record, err := scanRecord(s.db.QueryRowContext(ctx, query, entity, entityID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get entity record: %w", err)
	}

	return record, nil
}

// ListRecords returns cached snapshots for one entity kind,
// or for all kinds when entity is empty.
func (s *Storage) ListRecords(ctx context.Context, entity string) ([]*models.EntityRecord, error) {
	query := `
		SELECT entity, entity_id, version, updated_at, data
		FROM entity_records
		ORDER BY entity ASC, entity_id ASC
	`
	args := []any{}

	if entity != "" {
		query = `
			SELECT entity, entity_id, version, updated_at, data
			FROM entity_records
			WHERE entity = ?
			ORDER BY entity_id ASC
		`
		args = append(args, entity)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entity records: %w", err)
	}
	defer rows.Close()

	var records []*models.EntityRecord

	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entity record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}

// DeleteRecord drops a cached snapshot.
// Deleting a missing record is not an error.
func (s *Storage) DeleteRecord(ctx context.Context, entity, entityID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM entity_records WHERE entity = ? AND entity_id = ?`,
		entity, entityID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete entity record: %w", err)
	}

	return nil
}

func scanRecord(row rowScanner) (*models.EntityRecord, error) {
	record := &models.EntityRecord{}
	var updatedAt, data string

	err := row.Scan(
		&record.Entity,
		&record.EntityID,
		&record.Version,
		&updatedAt,
		&data,
	)
	if err != nil {
		return nil, err
	}

	record.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	record.Data = json.RawMessage(data)

	return record, nil
}
