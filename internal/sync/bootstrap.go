package sync

import (
	"bytes"
	"context"
	"fmt"

	"github.com/steveg1983/wealthtracker-pro-sub004/internal/models"
)

// bootstrap runs the one-time merge between the server snapshot and the
// local entity cache. Remote-only records are cached locally, local-only
// records are queued as creates (offline-first migration up), and
// records present on both sides with diverging payloads go through the
// conflict resolver.
func (e *Engine) bootstrap(ctx context.Context, userID string) error {
	remote, err := e.remote.FetchSnapshot(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch server snapshot: %w", err)
	}

	local, err := e.snapshots.ListRecords(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to list local snapshots: %w", err)
	}

	localByKey := make(map[string]*models.EntityRecord, len(local))
	for _, record := range local {
		localByKey[record.Entity+"/"+record.EntityID] = record
	}

	for _, serverRecord := range remote {
		key := serverRecord.Entity + "/" + serverRecord.EntityID
		localRecord, ok := localByKey[key]
		delete(localByKey, key)

		if !ok {
			if err := e.snapshots.SaveRecord(ctx, serverRecord); err != nil {
				return fmt.Errorf("failed to cache server record: %w", err)
			}
			continue
		}

		if bytes.Equal(localRecord.Data, serverRecord.Data) {
			// Same payload; keep the server's version number.
			if localRecord.Version != serverRecord.Version {
				localRecord.Version = serverRecord.Version
				if err := e.snapshots.SaveRecord(ctx, localRecord); err != nil {
					return fmt.Errorf("failed to refresh record version: %w", err)
				}
			}
			continue
		}

		if err := e.mergeBootstrapRecord(ctx, localRecord, serverRecord); err != nil {
			return err
		}
	}

	// Whatever is left exists only locally: queue creates so the server
	// learns about it.
	for _, localRecord := range localByKey {
		if _, err := e.QueueOperation(ctx, models.OperationCreate,
			localRecord.Entity, localRecord.EntityID, localRecord.Data); err != nil {
			return fmt.Errorf("failed to queue local-only record: %w", err)
		}
	}

	e.logger.Info("bootstrap merge complete",
		"server_records", len(remote),
		"local_only", len(localByKey),
	)

	return nil
}

// mergeBootstrapRecord reconciles one entity present on both sides with
// different payloads. The resolver decides; a manual outcome leaves the
// local cache untouched with the record waiting for the user.
func (e *Engine) mergeBootstrapRecord(ctx context.Context, localRecord, serverRecord *models.EntityRecord) error {
	item := &models.QueueItem{
		ID:         e.ids.NewID(),
		Status:     models.ItemPending,
		EnqueuedAt: e.clock.Now(),
		Operation: models.Operation{
			ID:        e.ids.NewID(),
			Type:      models.OperationUpdate,
			Entity:    localRecord.Entity,
			EntityID:  localRecord.EntityID,
			ClientID:  e.clientID,
			Data:      localRecord.Data,
			Timestamp: localRecord.UpdatedAt,
			Version:   localRecord.Version,
		},
	}

	resolution, err := e.resolver.Resolve(ctx, item, serverRecord.Data)
	if err != nil {
		return fmt.Errorf("failed to merge %s %s: %w", localRecord.Entity, localRecord.EntityID, err)
	}

	switch resolution.Strategy {
	case models.StrategyServer:
		if err := e.snapshots.SaveRecord(ctx, serverRecord); err != nil {
			return fmt.Errorf("failed to accept server record: %w", err)
		}

	case models.StrategyClient, models.StrategyMerge:
		if _, err := e.QueueOperation(ctx, models.OperationUpdate,
			localRecord.Entity, localRecord.EntityID, resolution.Data); err != nil {
			return fmt.Errorf("failed to queue merged record: %w", err)
		}

	default:
		// Manual: the resolver persisted the record; nothing to do here.
	}

	return nil
}
