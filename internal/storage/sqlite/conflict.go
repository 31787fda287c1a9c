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

// SaveConflict stores a new conflict record or updates an existing one.
func (s *Storage) SaveConflict(ctx context.Context, record *models.ConflictRecord) error {
	opData, err := json.Marshal(record.Operation)
	if err != nil {
		return fmt.Errorf("failed to marshal operation: %w", err)
	}

	query := `
		INSERT INTO conflict_records (
			id, operation_id, entity, strategy, resolved, timestamp,
			client_data, server_data, resolution_data, operation
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			operation_id = excluded.operation_id,
			entity = excluded.entity,
			strategy = excluded.strategy,
			resolved = excluded.resolved,
			timestamp = excluded.timestamp,
			client_data = excluded.client_data,
			server_data = excluded.server_data,
			resolution_data = excluded.resolution_data,
			operation = excluded.operation
	`

	_, err = s.db.ExecContext(ctx, query,
		record.ID,
		record.OperationID,
		record.Entity,
		string(record.Strategy),
		boolToInt(record.Resolved),
		record.Timestamp.Format(time.RFC3339Nano),
		string(record.ClientData),
		string(record.ServerData),
		string(record.ResolutionData),
		string(opData),
	)
	if err != nil {
		return fmt.Errorf("failed to save conflict record: %w", err)
	}

	return nil
}

// GetConflict retrieves a conflict record by ID.
// Returns storage.ErrConflictNotFound if the record doesn't exist.
func (s *Storage) GetConflict(ctx context.Context, id string) (*models.ConflictRecord, error) {
	query := `
		SELECT id, operation_id, entity, strategy, resolved, timestamp,
		       client_data, server_data, resolution_data, operation
		FROM conflict_records
		WHERE id = ?
	`

	record, err := scanConflict(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrConflictNotFound
		}
		return nil, fmt.Errorf("failed to get conflict record: %w", err)
	}

	return record, nil
}

// ListUnresolved returns all records still awaiting resolution.
func (s *Storage) ListUnresolved(ctx context.Context) ([]*models.ConflictRecord, error) {
	query := `
		SELECT id, operation_id, entity, strategy, resolved, timestamp,
		       client_data, server_data, resolution_data, operation
		FROM conflict_records
		WHERE resolved = 0
		ORDER BY timestamp ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query unresolved conflicts: %w", err)
	}
	defer rows.Close()

	return scanConflicts(rows)
}

// ListConflicts returns every conflict record, resolved or not.
func (s *Storage) ListConflicts(ctx context.Context) ([]*models.ConflictRecord, error) {
	query := `
		SELECT id, operation_id, entity, strategy, resolved, timestamp,
		       client_data, server_data, resolution_data, operation
		FROM conflict_records
		ORDER BY timestamp ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query conflict records: %w", err)
	}
	defer rows.Close()

	return scanConflicts(rows)
}

func scanConflict(row rowScanner) (*models.ConflictRecord, error) {
	record := &models.ConflictRecord{}
	var strategy, timestamp, clientData, serverData, resolutionData, opData string
	var resolved int

	err := row.Scan(
		&record.ID,
		&record.OperationID,
		&record.Entity,
		&strategy,
		&resolved,
		&timestamp,
		&clientData,
		&serverData,
		&resolutionData,
		&opData,
	)
	if err != nil {
		return nil, err
	}

	record.Strategy = models.ResolutionStrategy(strategy)
	record.Resolved = intToBool(resolved)

	record.Timestamp, err = time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse timestamp: %w", err)
	}

	if clientData != "" {
		record.ClientData = json.RawMessage(clientData)
	}
	if serverData != "" {
		record.ServerData = json.RawMessage(serverData)
	}
	if resolutionData != "" {
		record.ResolutionData = json.RawMessage(resolutionData)
	}

	if err := json.Unmarshal([]byte(opData), &record.Operation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal operation: %w", err)
	}

	return record, nil
}

func scanConflicts(rows *sql.Rows) ([]*models.ConflictRecord, error) {
	var records []*models.ConflictRecord

	for rows.Next() {
		record, err := scanConflict(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conflict record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}
