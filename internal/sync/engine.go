package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	"github.com/steveg1983/wealthtracker-pro-sub004/internal/clock"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/ids"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/models"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/storage"
)

const (
	// DefaultMaxRetries is how many retries a transient failure gets
	// before the item is failed terminally.
	DefaultMaxRetries = 3

	// DefaultSyncInterval is the period of the recurring drain timer.
	DefaultSyncInterval = 5 * time.Second
)

// Config tunes the engine. Zero values fall back to the defaults.
type Config struct {
	MaxRetries   int
	SyncInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.SyncInterval <= 0 {
		c.SyncInterval = DefaultSyncInterval
	}
	return c
}

// Deps are the engine's injected collaborators. Queue, Conflicts,
// Snapshots, Metadata, Remote and Resolver are required; Clock, IDs and
// Logger default to the system implementations when nil.
type Deps struct {
	Queue     storage.QueueStorage
	Conflicts storage.ConflictStorage
	Snapshots storage.SnapshotStorage
	Metadata  storage.MetadataStorage
	Remote    RemoteClient
	Resolver  ConflictResolver
	Clock     clock.Clock
	IDs       ids.Generator
	Logger    *slog.Logger
}

// Engine is the sync coordinator: it owns the durable mutation queue,
// drains it against the remote authority, routes conflicts to the
// resolver and exposes a derived status view. All state transitions
// happen under one mutex; remote and storage calls run outside it.
type Engine struct {
	queue     storage.QueueStorage
	conflicts storage.ConflictStorage
	snapshots storage.SnapshotStorage
	metadata  storage.MetadataStorage
	remote    RemoteClient
	resolver  ConflictResolver
	clock     clock.Clock
	ids       ids.Generator
	logger    *slog.Logger
	cfg       Config

	mu             gosync.Mutex
	status         models.SyncStatus
	userID         string
	clientID       string
	initialized    bool
	bootstrapDone  bool
	drainRequested bool
	generation     int
	ticker         clock.Ticker
	stopCh         chan struct{}
}

// New creates an engine. It does nothing until Initialize is called.
func New(deps Deps, cfg Config) *Engine {
	if deps.Clock == nil {
		deps.Clock = clock.System()
	}
	if deps.IDs == nil {
		deps.IDs = ids.Default()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	return &Engine{
		queue:     deps.Queue,
		conflicts: deps.Conflicts,
		snapshots: deps.Snapshots,
		metadata:  deps.Metadata,
		remote:    deps.Remote,
		resolver:  deps.Resolver,
		clock:     deps.Clock,
		ids:       deps.IDs,
		logger:    deps.Logger,
		cfg:       cfg.withDefaults(),
	}
}

// Initialize prepares the engine for a user: loads persisted state,
// assigns a stable client id, starts the recurring drain timer and, when
// online, runs the one-time bootstrap merge followed by a drain pass.
// Calling it again for the same user is a no-op.
func (e *Engine) Initialize(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("user id is required")
	}

	e.mu.Lock()
	if e.initialized && e.userID == userID {
		e.mu.Unlock()
		return nil
	}
	gen := e.generation
	e.mu.Unlock()

	clientID, err := e.metadata.GetClientID(ctx)
	if err != nil {
		return fmt.Errorf("failed to load client id: %w", err)
	}
	if clientID == "" {
		clientID = e.ids.NewID()
		if err := e.metadata.SaveClientID(ctx, clientID); err != nil {
			return fmt.Errorf("failed to save client id: %w", err)
		}
	}

	lastSync, err := e.metadata.GetLastSyncTime(ctx)
	if err != nil {
		return fmt.Errorf("failed to load last sync time: %w", err)
	}

	items, err := e.queue.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load queue: %w", err)
	}

	// An item left in syncing by an interrupted run never got a verdict.
	// Put it back in line; SaveItem keeps its queue position.
	pending := 0
	for _, item := range items {
		if item.Status == models.ItemSyncing {
			item.Status = models.ItemPending
			if err := e.queue.SaveItem(ctx, item); err != nil {
				return fmt.Errorf("failed to reclaim interrupted item: %w", err)
			}
		}
		if item.Status == models.ItemPending {
			pending++
		}
	}

	e.mu.Lock()
	if e.generation != gen {
		e.mu.Unlock()
		return nil
	}
	e.userID = userID
	e.clientID = clientID
	e.status.LastSyncTime = lastSync
	e.status.PendingChanges = pending
	e.bootstrapDone = false
	e.initialized = true
	online := e.status.IsOnline
	if e.ticker == nil {
		e.startTimerLocked()
	}
	e.mu.Unlock()

	e.logger.Info("sync engine initialized",
		"user_id", userID,
		"client_id", clientID,
		"pending", pending,
	)

	if online {
		return e.Sync(ctx)
	}

	return nil
}

// QueueOperation records a local mutation durably and, when online,
// kicks off a drain pass in the background. The mutation is visible in
// PendingChanges immediately.
func (e *Engine) QueueOperation(ctx context.Context, opType models.OperationType, entity, entityID string, data json.RawMessage) (*models.QueueItem, error) {
	e.mu.Lock()
	if !e.initialized {
		e.mu.Unlock()
		return nil, errors.New("engine is not initialized")
	}
	clientID := e.clientID
	online := e.status.IsOnline
	e.mu.Unlock()

	var version int64
	if record, err := e.snapshots.GetRecord(ctx, entity, entityID); err == nil {
		version = record.Version
	} else if !errors.Is(err, storage.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to read entity snapshot: %w", err)
	}

	now := e.clock.Now()
	item := &models.QueueItem{
		ID:         e.ids.NewID(),
		Status:     models.ItemPending,
		EnqueuedAt: now,
		Operation: models.Operation{
			ID:        e.ids.NewID(),
			Type:      opType,
			Entity:    entity,
			EntityID:  entityID,
			ClientID:  clientID,
			Data:      data,
			Timestamp: now,
			Version:   version,
		},
	}

	if err := e.queue.SaveItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to persist queue item: %w", err)
	}

	e.mu.Lock()
	e.status.PendingChanges++
	e.mu.Unlock()

	e.logger.Debug("operation queued",
		"operation_id", item.Operation.ID,
		"type", string(opType),
		"entity", entity,
		"entity_id", entityID,
	)

	if online {
		go func() {
			if err := e.Sync(context.WithoutCancel(ctx)); err != nil {
				e.logger.Error("background sync failed", "error", err)
			}
		}()
	}

	return item.Clone(), nil
}

// Sync runs one drain pass: snapshot the pending items in enqueue order
// and process them one by one. A pass already in flight, an offline
// engine or an uninitialized engine makes Sync a no-op. Item failures
// never abort the pass; remote trouble surfaces through the status view.
func (e *Engine) Sync(ctx context.Context) error {
	e.mu.Lock()
	if !e.initialized || e.status.IsSyncing || !e.status.IsOnline {
		e.mu.Unlock()
		return nil
	}
	e.status.IsSyncing = true
	gen := e.generation
	userID := e.userID
	bootstrapped := e.bootstrapDone
	e.mu.Unlock()

	defer e.finishSync(gen)

	if !bootstrapped {
		if err := e.bootstrap(ctx, userID); err != nil {
			// Left pending; the next pass retries the bootstrap.
			e.logger.Error("bootstrap merge failed", "error", err)
			e.recordSyncError(gen, fmt.Sprintf("bootstrap: %v", err))
		} else {
			e.mu.Lock()
			if e.generation == gen {
				e.bootstrapDone = true
			}
			e.mu.Unlock()
		}
	}

	items, err := e.queue.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending items: %w", err)
	}

	for _, item := range items {
		if e.stopped(gen) {
			return nil
		}
		e.processItem(ctx, gen, item, userID)
	}

	now := e.clock.Now()
	if err := e.metadata.SaveLastSyncTime(ctx, now); err != nil {
		e.logger.Error("failed to persist last sync time", "error", err)
	}

	remaining, err := e.queue.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to recount pending items: %w", err)
	}

	e.mu.Lock()
	if e.generation == gen {
		e.status.LastSyncTime = now
		e.status.PendingChanges = len(remaining)
	}
	e.mu.Unlock()

	return nil
}

// ResolveConflict settles a manual conflict: the resolved payload is
// re-enqueued as a fresh pending mutation and the conflict record is
// marked resolved. The new item drains through the normal pass.
func (e *Engine) ResolveConflict(ctx context.Context, conflictID string, payload json.RawMessage) error {
	e.mu.Lock()
	if !e.initialized {
		e.mu.Unlock()
		return errors.New("engine is not initialized")
	}
	online := e.status.IsOnline
	e.mu.Unlock()

	record, err := e.conflicts.GetConflict(ctx, conflictID)
	if err != nil {
		return fmt.Errorf("failed to load conflict: %w", err)
	}
	if record.Resolved {
		return fmt.Errorf("conflict %s is already resolved", conflictID)
	}

	op := record.Operation.Clone()
	op.ID = e.ids.NewID()
	op.Data = payload
	op.Timestamp = e.clock.Now()

	item := &models.QueueItem{
		ID:         e.ids.NewID(),
		Status:     models.ItemPending,
		EnqueuedAt: op.Timestamp,
		Operation:  *op,
	}

	if err := e.queue.SaveItem(ctx, item); err != nil {
		return fmt.Errorf("failed to enqueue resolved operation: %w", err)
	}

	record.Resolved = true
	record.Strategy = models.StrategyManual
	record.ResolutionData = payload
	if err := e.conflicts.SaveConflict(ctx, record); err != nil {
		return fmt.Errorf("failed to mark conflict resolved: %w", err)
	}

	e.mu.Lock()
	e.status.PendingChanges++
	e.mu.Unlock()

	e.logger.Info("conflict resolved manually",
		"conflict_id", conflictID,
		"entity", record.Entity,
	)

	if online {
		go func() {
			if err := e.Sync(context.WithoutCancel(ctx)); err != nil {
				e.logger.Error("background sync failed", "error", err)
			}
		}()
	}

	return nil
}

// GetSyncStatus returns a defensive copy of the current status view.
func (e *Engine) GetSyncStatus() *models.SyncStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status.Clone()
}

// SetOnline feeds the engine connectivity transitions. Coming online
// triggers a background drain pass.
func (e *Engine) SetOnline(online bool) {
	e.mu.Lock()
	if e.status.IsOnline == online {
		e.mu.Unlock()
		return
	}
	e.status.IsOnline = online
	initialized := e.initialized
	e.mu.Unlock()

	e.logger.Info("connectivity changed", "online", online)

	if online && initialized {
		go func() {
			if err := e.Sync(context.Background()); err != nil {
				e.logger.Error("background sync failed", "error", err)
			}
		}()
	}
}

// Stop halts the drain timer and invalidates in-flight passes so late
// completions cannot mutate torn-down state. The engine can be
// re-initialized afterwards.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.generation++
	e.initialized = false
	e.status.IsSyncing = false
	if e.ticker != nil {
		e.ticker.Stop()
		e.ticker = nil
	}
	if e.stopCh != nil {
		close(e.stopCh)
		e.stopCh = nil
	}
}

// startTimerLocked starts the recurring drain timer. Caller holds e.mu.
func (e *Engine) startTimerLocked() {
	e.ticker = e.clock.NewTicker(e.cfg.SyncInterval)
	e.stopCh = make(chan struct{})

	go func(t clock.Ticker, stop <-chan struct{}) {
		for {
			select {
			case <-t.C():
				if err := e.Sync(context.Background()); err != nil {
					e.logger.Error("scheduled sync failed", "error", err)
				}
			case <-stop:
				return
			}
		}
	}(e.ticker, e.stopCh)
}

func (e *Engine) finishSync(gen int) {
	e.mu.Lock()
	again := false
	if e.generation == gen {
		e.status.IsSyncing = false
		again = e.drainRequested
		e.drainRequested = false
	}
	e.mu.Unlock()

	if again {
		go func() {
			if err := e.Sync(context.Background()); err != nil {
				e.logger.Error("follow-up sync failed", "error", err)
			}
		}()
	}
}

// requestDrain is handed to the remote client as EnqueueImmediateSync.
// During a pass it marks a follow-up pass instead of starting one, so
// the single-flight invariant holds.
func (e *Engine) requestDrain() {
	e.mu.Lock()
	if e.status.IsSyncing {
		e.drainRequested = true
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	go func() {
		if err := e.Sync(context.Background()); err != nil {
			e.logger.Error("requested sync failed", "error", err)
		}
	}()
}

func (e *Engine) stopped(gen int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation != gen
}

// recordSyncError appends to the status view unless the pass that
// produced the error has been invalidated by Stop.
func (e *Engine) recordSyncError(gen int, msg string) {
	e.mu.Lock()
	if e.generation == gen {
		e.status.SyncErrors = append(e.status.SyncErrors, msg)
	}
	e.mu.Unlock()
}

// processItem runs one item through the apply protocol:
// completed, conflict or retry. Every outcome is persisted before the
// pass moves on.
func (e *Engine) processItem(ctx context.Context, gen int, item *models.QueueItem, userID string) {
	item.Status = models.ItemSyncing
	if err := e.queue.SaveItem(ctx, item); err != nil {
		e.logger.Error("failed to mark item syncing", "item_id", item.ID, "error", err)
		return
	}

	pctx := &ProcessContext{
		UserID:               userID,
		Logger:               e.logger,
		EnqueueImmediateSync: e.requestDrain,
	}

	err := e.remote.Apply(ctx, &item.Operation, pctx)

	switch {
	case err == nil:
		e.completeItem(ctx, item)
	default:
		if ce, ok := AsConflict(err); ok {
			e.handleConflict(ctx, gen, item, ce)
			return
		}
		e.retryItem(ctx, gen, item, err)
	}
}

func (e *Engine) completeItem(ctx context.Context, item *models.QueueItem) {
	item.Status = models.ItemCompleted
	item.Error = ""

	if err := e.queue.DeleteItem(ctx, item.ID); err != nil {
		e.logger.Error("failed to remove completed item", "item_id", item.ID, "error", err)
	}

	e.updateSnapshot(ctx, &item.Operation, item.Operation.Data, item.Operation.Version+1)

	e.logger.Debug("operation synced",
		"operation_id", item.Operation.ID,
		"entity", item.Operation.Entity,
		"entity_id", item.Operation.EntityID,
	)
}

// retryItem handles a transient failure. Conflicts never reach here, so
// every call increments the retry counter.
func (e *Engine) retryItem(ctx context.Context, gen int, item *models.QueueItem, applyErr error) {
	item.Retries++
	item.Error = applyErr.Error()

	if item.Retries > e.cfg.MaxRetries {
		item.Status = models.ItemFailed
		if err := e.queue.DeleteItem(ctx, item.ID); err != nil {
			e.logger.Error("failed to remove failed item", "item_id", item.ID, "error", err)
		}

		msg := fmt.Sprintf("%s %s %s: %v",
			item.Operation.Type, item.Operation.Entity, item.Operation.EntityID, applyErr)
		e.recordSyncError(gen, msg)

		e.logger.Error("operation failed permanently",
			"operation_id", item.Operation.ID,
			"entity", item.Operation.Entity,
			"retries", item.Retries,
			"error", applyErr,
		)
		return
	}

	item.Status = models.ItemPending
	if err := e.queue.SaveItem(ctx, item); err != nil {
		e.logger.Error("failed to persist retry state", "item_id", item.ID, "error", err)
		return
	}

	e.logger.Warn("operation will be retried",
		"operation_id", item.Operation.ID,
		"attempt", item.Retries,
		"error", applyErr,
	)
}

// handleConflict routes a divergence to the resolver and acts on the
// strategy it returns. A second conflict on the resubmitted payload
// escalates to manual; conflicts never count against the retry bound.
func (e *Engine) handleConflict(ctx context.Context, gen int, item *models.QueueItem, ce *ConflictError) {
	resolution, err := e.resolver.Resolve(ctx, item, ce.ServerData)
	if err != nil {
		e.logger.Error("conflict resolution failed", "item_id", item.ID, "error", err)
		item.Status = models.ItemPending
		if saveErr := e.queue.SaveItem(ctx, item); saveErr != nil {
			e.logger.Error("failed to restore pending state", "item_id", item.ID, "error", saveErr)
		}
		return
	}

	e.logger.Info("conflict detected",
		"operation_id", item.Operation.ID,
		"entity", item.Operation.Entity,
		"strategy", string(resolution.Strategy),
	)

	switch resolution.Strategy {
	case models.StrategyServer:
		// The server side stands: accept its snapshot and drop the item.
		e.updateSnapshot(ctx, &item.Operation, ce.ServerData, ce.ServerVersion)
		e.dropItem(ctx, item)

	case models.StrategyClient, models.StrategyMerge:
		e.resubmit(ctx, gen, item, resolution, ce)

	default:
		// Manual. The record carries the operation; the item leaves the
		// queue and waits for ResolveConflict.
		e.dropItem(ctx, item)
	}
}

// resubmit applies the resolved payload once. A second conflict means
// the server moved again mid-resolution; escalate to manual.
func (e *Engine) resubmit(ctx context.Context, gen int, item *models.QueueItem, resolution *models.Resolution, ce *ConflictError) {
	op := item.Operation.Clone()
	op.Data = resolution.Data
	op.Version = ce.ServerVersion

	pctx := &ProcessContext{
		UserID:               e.currentUserID(),
		Logger:               e.logger,
		EnqueueImmediateSync: e.requestDrain,
	}

	err := e.remote.Apply(ctx, op, pctx)
	switch {
	case err == nil:
		item.Operation = *op
		e.completeItem(ctx, item)

	default:
		if _, ok := AsConflict(err); ok {
			e.escalateToManual(ctx, item, resolution)
			return
		}
		e.retryItem(ctx, gen, item, err)
	}
}

func (e *Engine) escalateToManual(ctx context.Context, item *models.QueueItem, resolution *models.Resolution) {
	if resolution.Record != nil {
		record := resolution.Record
		record.Strategy = models.StrategyManual
		record.Resolved = false
		record.ResolutionData = nil
		if err := e.conflicts.SaveConflict(ctx, record); err != nil {
			e.logger.Error("failed to escalate conflict", "conflict_id", record.ID, "error", err)
		}
	}

	e.logger.Warn("conflict escalated to manual resolution",
		"operation_id", item.Operation.ID,
		"entity", item.Operation.Entity,
	)

	e.dropItem(ctx, item)
}

func (e *Engine) dropItem(ctx context.Context, item *models.QueueItem) {
	if err := e.queue.DeleteItem(ctx, item.ID); err != nil {
		e.logger.Error("failed to remove queue item", "item_id", item.ID, "error", err)
	}
}

func (e *Engine) updateSnapshot(ctx context.Context, op *models.Operation, data json.RawMessage, version int64) {
	if op.Type == models.OperationDelete {
		if err := e.snapshots.DeleteRecord(ctx, op.Entity, op.EntityID); err != nil {
			e.logger.Error("failed to drop entity snapshot", "entity", op.Entity, "entity_id", op.EntityID, "error", err)
		}
		return
	}

	record := &models.EntityRecord{
		Entity:    op.Entity,
		EntityID:  op.EntityID,
		Data:      data,
		Version:   version,
		UpdatedAt: e.clock.Now(),
	}
	if err := e.snapshots.SaveRecord(ctx, record); err != nil {
		e.logger.Error("failed to cache entity snapshot", "entity", op.Entity, "entity_id", op.EntityID, "error", err)
	}
}

func (e *Engine) currentUserID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.userID
}
