package sync

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveg1983/wealthtracker-pro-sub004/internal/clock"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/ids"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/models"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/storage/boltdb"
)

type testEnv struct {
	engine   *Engine
	store    *boltdb.Storage
	remote   *RemoteClientMock
	resolver *ConflictResolverMock
	clk      *clock.Fake
}

func newTestEnv(t *testing.T, cfg Config) *testEnv {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	remote := &RemoteClientMock{
		FetchSnapshotFunc: func(ctx context.Context, userID string) ([]*models.EntityRecord, error) {
			return nil, nil
		},
	}
	resolver := &ConflictResolverMock{}
	clk := clock.NewFake()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	engine := New(Deps{
		Queue:     store,
		Conflicts: store,
		Snapshots: store,
		Metadata:  store,
		Remote:    remote,
		Resolver:  resolver,
		Clock:     clk,
		IDs:       ids.Sequence("id"),
		Logger:    logger,
	}, cfg)
	t.Cleanup(engine.Stop)

	return &testEnv{
		engine:   engine,
		store:    store,
		remote:   remote,
		resolver: resolver,
		clk:      clk,
	}
}

// initOnline brings the engine up with connectivity so the first Sync
// (including the bootstrap) runs synchronously inside Initialize.
func (env *testEnv) initOnline(t *testing.T) {
	t.Helper()
	env.engine.SetOnline(true)
	require.NoError(t, env.engine.Initialize(context.Background(), "user-1"))
}

// seedItem plants a pending item directly in storage, bypassing
// QueueOperation so tests control the drain pass explicitly.
func (env *testEnv) seedItem(t *testing.T, entityID, data string) *models.QueueItem {
	t.Helper()
	item := &models.QueueItem{
		ID:         "item-" + entityID,
		Status:     models.ItemPending,
		EnqueuedAt: env.clk.Now(),
		Operation: models.Operation{
			ID:        "op-" + entityID,
			Type:      models.OperationUpdate,
			Entity:    models.EntityTransaction,
			EntityID:  entityID,
			ClientID:  "client-1",
			Data:      json.RawMessage(data),
			Timestamp: env.clk.Now(),
			Version:   1,
		},
	}
	require.NoError(t, env.store.SaveItem(context.Background(), item))
	return item
}

func TestSyncProcessesItemsInEnqueueOrder(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.initOnline(t)

	env.remote.ApplyFunc = func(ctx context.Context, op *models.Operation, pctx *ProcessContext) error {
		return nil
	}

	env.seedItem(t, "t1", `{"amount":1}`)
	env.seedItem(t, "t2", `{"amount":2}`)
	env.seedItem(t, "t3", `{"amount":3}`)

	require.NoError(t, env.engine.Sync(context.Background()))

	calls := env.remote.ApplyCalls()
	require.Len(t, calls, 3)
	assert.Equal(t, "t1", calls[0].Op.EntityID)
	assert.Equal(t, "t2", calls[1].Op.EntityID)
	assert.Equal(t, "t3", calls[2].Op.EntityID)

	items, err := env.store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, env.engine.GetSyncStatus().PendingChanges)
}

func TestSyncIsNoopWhileOffline(t *testing.T) {
	env := newTestEnv(t, Config{})
	require.NoError(t, env.engine.Initialize(context.Background(), "user-1"))

	env.remote.ApplyFunc = func(ctx context.Context, op *models.Operation, pctx *ProcessContext) error {
		return nil
	}
	env.seedItem(t, "t1", `{"amount":1}`)

	require.NoError(t, env.engine.Sync(context.Background()))

	assert.Empty(t, env.remote.ApplyCalls())
	items, err := env.store.ListPending(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestSyncSingleFlight(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.initOnline(t)

	block := make(chan struct{})
	env.remote.ApplyFunc = func(ctx context.Context, op *models.Operation, pctx *ProcessContext) error {
		<-block
		return nil
	}

	env.seedItem(t, "t1", `{"amount":1}`)

	done := make(chan error, 1)
	go func() {
		done <- env.engine.Sync(context.Background())
	}()

	require.Eventually(t, func() bool {
		return env.engine.GetSyncStatus().IsSyncing
	}, time.Second, 5*time.Millisecond)

	// Second pass returns immediately while the first is in flight.
	require.NoError(t, env.engine.Sync(context.Background()))
	assert.Len(t, env.remote.ApplyCalls(), 1)

	close(block)
	require.NoError(t, <-done)
	assert.Len(t, env.remote.ApplyCalls(), 1)
}

func TestTransientFailureRetriesUpToBound(t *testing.T) {
	env := newTestEnv(t, Config{MaxRetries: 3})
	env.initOnline(t)

	env.remote.ApplyFunc = func(ctx context.Context, op *models.Operation, pctx *ProcessContext) error {
		return errors.New("connection reset")
	}

	env.seedItem(t, "t1", `{"amount":1}`)

	// Three retries plus the first attempt: four apply calls, then the
	// item is failed and removed.
	for i := 0; i < 4; i++ {
		require.NoError(t, env.engine.Sync(context.Background()))
	}
	assert.Len(t, env.remote.ApplyCalls(), 4)

	items, err := env.store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)

	status := env.engine.GetSyncStatus()
	require.Len(t, status.SyncErrors, 1)
	assert.Contains(t, status.SyncErrors[0], "transaction")
	assert.Contains(t, status.SyncErrors[0], "connection reset")

	// Further passes have nothing left to apply.
	require.NoError(t, env.engine.Sync(context.Background()))
	assert.Len(t, env.remote.ApplyCalls(), 4)
}

func TestItemFailureDoesNotAbortPass(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.initOnline(t)

	env.remote.ApplyFunc = func(ctx context.Context, op *models.Operation, pctx *ProcessContext) error {
		if op.EntityID == "t1" {
			return errors.New("server hiccup")
		}
		return nil
	}

	env.seedItem(t, "t1", `{"amount":1}`)
	env.seedItem(t, "t2", `{"amount":2}`)

	require.NoError(t, env.engine.Sync(context.Background()))

	calls := env.remote.ApplyCalls()
	require.Len(t, calls, 2)

	items, err := env.store.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "t1", items[0].Operation.EntityID)
	assert.Equal(t, 1, items[0].Retries)
}

func TestCompletedItemUpdatesSnapshot(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.initOnline(t)

	env.remote.ApplyFunc = func(ctx context.Context, op *models.Operation, pctx *ProcessContext) error {
		return nil
	}

	env.seedItem(t, "t1", `{"amount":42}`)
	require.NoError(t, env.engine.Sync(context.Background()))

	record, err := env.store.GetRecord(context.Background(), models.EntityTransaction, "t1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":42}`, string(record.Data))
	assert.Equal(t, int64(2), record.Version)
}

func TestConflictRoutedToResolverAndResubmitted(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.initOnline(t)

	serverData := json.RawMessage(`{"amount":99}`)
	resolved := json.RawMessage(`{"amount":7}`)

	applied := 0
	env.remote.ApplyFunc = func(ctx context.Context, op *models.Operation, pctx *ProcessContext) error {
		applied++
		if applied == 1 {
			return &ConflictError{
				Entity:        op.Entity,
				EntityID:      op.EntityID,
				ServerData:    serverData,
				ServerVersion: 5,
			}
		}
		return nil
	}
	env.resolver.ResolveFunc = func(ctx context.Context, item *models.QueueItem, sd json.RawMessage) (*models.Resolution, error) {
		assert.JSONEq(t, string(serverData), string(sd))
		return &models.Resolution{Strategy: models.StrategyClient, Data: resolved}, nil
	}

	item := env.seedItem(t, "t1", `{"amount":7}`)
	require.NoError(t, env.engine.Sync(context.Background()))

	require.Len(t, env.resolver.ResolveCalls(), 1)
	assert.Equal(t, item.ID, env.resolver.ResolveCalls()[0].Item.ID)

	calls := env.remote.ApplyCalls()
	require.Len(t, calls, 2)
	assert.JSONEq(t, string(resolved), string(calls[1].Op.Data))
	assert.Equal(t, int64(5), calls[1].Op.Version)

	// The conflict did not count as a retry and the item is gone.
	items, err := env.store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestConflictServerStrategyAcceptsSnapshot(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.initOnline(t)

	serverData := json.RawMessage(`{"amount":99}`)
	env.remote.ApplyFunc = func(ctx context.Context, op *models.Operation, pctx *ProcessContext) error {
		return &ConflictError{Entity: op.Entity, EntityID: op.EntityID, ServerData: serverData, ServerVersion: 9}
	}
	env.resolver.ResolveFunc = func(ctx context.Context, item *models.QueueItem, sd json.RawMessage) (*models.Resolution, error) {
		return &models.Resolution{Strategy: models.StrategyServer}, nil
	}

	env.seedItem(t, "t1", `{"amount":1}`)
	require.NoError(t, env.engine.Sync(context.Background()))

	assert.Len(t, env.remote.ApplyCalls(), 1)

	record, err := env.store.GetRecord(context.Background(), models.EntityTransaction, "t1")
	require.NoError(t, err)
	assert.JSONEq(t, string(serverData), string(record.Data))
	assert.Equal(t, int64(9), record.Version)

	items, err := env.store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSecondConflictEscalatesToManual(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.initOnline(t)

	env.remote.ApplyFunc = func(ctx context.Context, op *models.Operation, pctx *ProcessContext) error {
		return &ConflictError{Entity: op.Entity, EntityID: op.EntityID, ServerData: json.RawMessage(`{"amount":9}`), ServerVersion: 2}
	}

	record := &models.ConflictRecord{ID: "conf-1"}
	env.resolver.ResolveFunc = func(ctx context.Context, item *models.QueueItem, sd json.RawMessage) (*models.Resolution, error) {
		record.OperationID = item.Operation.ID
		record.Entity = item.Operation.Entity
		record.Operation = *item.Operation.Clone()
		record.Resolved = true
		record.Strategy = models.StrategyClient
		require.NoError(t, env.store.SaveConflict(ctx, record))
		return &models.Resolution{Strategy: models.StrategyClient, Data: item.Operation.Data, Record: record}, nil
	}

	env.seedItem(t, "t1", `{"amount":1}`)
	require.NoError(t, env.engine.Sync(context.Background()))

	// One resolution, one resubmit, then manual escalation.
	assert.Len(t, env.resolver.ResolveCalls(), 1)
	assert.Len(t, env.remote.ApplyCalls(), 2)

	stored, err := env.store.GetConflict(context.Background(), "conf-1")
	require.NoError(t, err)
	assert.Equal(t, models.StrategyManual, stored.Strategy)
	assert.False(t, stored.Resolved)

	items, err := env.store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestResolveConflictRequeuesPayload(t *testing.T) {
	env := newTestEnv(t, Config{})
	require.NoError(t, env.engine.Initialize(context.Background(), "user-1"))

	record := &models.ConflictRecord{
		ID:          "conf-1",
		OperationID: "op-1",
		Entity:      models.EntityTransaction,
		Strategy:    models.StrategyManual,
		Operation: models.Operation{
			ID:       "op-1",
			Type:     models.OperationUpdate,
			Entity:   models.EntityTransaction,
			EntityID: "t1",
			Data:     json.RawMessage(`{"amount":1}`),
		},
		Timestamp: env.clk.Now(),
	}
	require.NoError(t, env.store.SaveConflict(context.Background(), record))

	payload := json.RawMessage(`{"amount":3}`)
	require.NoError(t, env.engine.ResolveConflict(context.Background(), "conf-1", payload))

	items, err := env.store.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.JSONEq(t, string(payload), string(items[0].Operation.Data))
	assert.Equal(t, "t1", items[0].Operation.EntityID)

	stored, err := env.store.GetConflict(context.Background(), "conf-1")
	require.NoError(t, err)
	assert.True(t, stored.Resolved)
	assert.JSONEq(t, string(payload), string(stored.ResolutionData))

	// Resolving twice is rejected.
	err = env.engine.ResolveConflict(context.Background(), "conf-1", payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already resolved")
}

func TestInitializeIsIdempotentPerUser(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.initOnline(t)
	require.NoError(t, env.engine.Initialize(context.Background(), "user-1"))

	// The bootstrap snapshot was pulled exactly once.
	assert.Len(t, env.remote.FetchSnapshotCalls(), 1)

	clientID, err := env.store.GetClientID(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, clientID)
}

func TestQueueOperationWhileOffline(t *testing.T) {
	env := newTestEnv(t, Config{})
	require.NoError(t, env.engine.Initialize(context.Background(), "user-1"))

	_, err := env.engine.QueueOperation(context.Background(),
		models.OperationCreate, models.EntityTransaction, "t1", json.RawMessage(`{"amount":1}`))
	require.NoError(t, err)
	_, err = env.engine.QueueOperation(context.Background(),
		models.OperationUpdate, models.EntityTransaction, "t1", json.RawMessage(`{"amount":2}`))
	require.NoError(t, err)

	assert.Empty(t, env.remote.ApplyCalls())
	assert.Equal(t, 2, env.engine.GetSyncStatus().PendingChanges)
}

func TestComingOnlineDrainsQueue(t *testing.T) {
	env := newTestEnv(t, Config{})
	require.NoError(t, env.engine.Initialize(context.Background(), "user-1"))

	env.remote.ApplyFunc = func(ctx context.Context, op *models.Operation, pctx *ProcessContext) error {
		return nil
	}

	for _, id := range []string{"t1", "t2", "t3"} {
		_, err := env.engine.QueueOperation(context.Background(),
			models.OperationCreate, models.EntityTransaction, id, json.RawMessage(`{"amount":1}`))
		require.NoError(t, err)
	}

	env.engine.SetOnline(true)

	require.Eventually(t, func() bool {
		status := env.engine.GetSyncStatus()
		return status.PendingChanges == 0 && !status.IsSyncing
	}, 2*time.Second, 10*time.Millisecond)

	calls := env.remote.ApplyCalls()
	require.Len(t, calls, 3)
	assert.Equal(t, "t1", calls[0].Op.EntityID)
	assert.Equal(t, "t2", calls[1].Op.EntityID)
	assert.Equal(t, "t3", calls[2].Op.EntityID)
}

func TestBootstrapCachesRemoteRecords(t *testing.T) {
	env := newTestEnv(t, Config{})

	env.remote.FetchSnapshotFunc = func(ctx context.Context, userID string) ([]*models.EntityRecord, error) {
		return []*models.EntityRecord{
			{Entity: models.EntityAccount, EntityID: "a1", Data: json.RawMessage(`{"balance":100}`), Version: 3},
		}, nil
	}
	env.remote.ApplyFunc = func(ctx context.Context, op *models.Operation, pctx *ProcessContext) error {
		return nil
	}

	env.initOnline(t)

	record, err := env.store.GetRecord(context.Background(), models.EntityAccount, "a1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"balance":100}`, string(record.Data))
	assert.Equal(t, int64(3), record.Version)
}

func TestBootstrapMigratesLocalOnlyRecordsUp(t *testing.T) {
	env := newTestEnv(t, Config{})

	// Local cache has a record the server never saw.
	require.NoError(t, env.store.SaveRecord(context.Background(), &models.EntityRecord{
		Entity:   models.EntityBudget,
		EntityID: "b1",
		Data:     json.RawMessage(`{"amount":50,"spent":10}`),
		Version:  1,
	}))

	env.remote.ApplyFunc = func(ctx context.Context, op *models.Operation, pctx *ProcessContext) error {
		return nil
	}

	env.initOnline(t)

	require.Eventually(t, func() bool {
		return env.engine.GetSyncStatus().PendingChanges == 0
	}, 2*time.Second, 10*time.Millisecond)

	var sawCreate bool
	for _, call := range env.remote.ApplyCalls() {
		if call.Op.Type == models.OperationCreate && call.Op.EntityID == "b1" {
			sawCreate = true
		}
	}
	assert.True(t, sawCreate, "expected a CREATE for the local-only record")
}

func TestImmediateSyncHintSchedulesFollowUpPass(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.initOnline(t)

	hinted := false
	env.remote.ApplyFunc = func(ctx context.Context, op *models.Operation, pctx *ProcessContext) error {
		if !hinted {
			hinted = true
			pctx.EnqueueImmediateSync()
		}
		return nil
	}

	env.seedItem(t, "t1", `{"amount":1}`)
	require.NoError(t, env.engine.Sync(context.Background()))

	// The follow-up pass runs after the current one finishes.
	require.Eventually(t, func() bool {
		return !env.engine.GetSyncStatus().IsSyncing
	}, time.Second, 5*time.Millisecond)
	assert.Len(t, env.remote.ApplyCalls(), 1)
}

func TestStopInvalidatesEngine(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.initOnline(t)

	env.remote.ApplyFunc = func(ctx context.Context, op *models.Operation, pctx *ProcessContext) error {
		return nil
	}
	env.seedItem(t, "t1", `{"amount":1}`)

	env.engine.Stop()

	require.NoError(t, env.engine.Sync(context.Background()))
	assert.Empty(t, env.remote.ApplyCalls())

	_, err := env.engine.QueueOperation(context.Background(),
		models.OperationCreate, models.EntityTransaction, "t2", json.RawMessage(`{}`))
	require.Error(t, err)
}

func TestGetSyncStatusReturnsCopy(t *testing.T) {
	env := newTestEnv(t, Config{})
	require.NoError(t, env.engine.Initialize(context.Background(), "user-1"))

	status := env.engine.GetSyncStatus()
	status.PendingChanges = 999
	status.SyncErrors = append(status.SyncErrors, "mutated")

	fresh := env.engine.GetSyncStatus()
	assert.Equal(t, 0, fresh.PendingChanges)
	assert.Empty(t, fresh.SyncErrors)
}

func TestInitializeReclaimsItemInterruptedMidApply(t *testing.T) {
	env := newTestEnv(t, Config{})

	// A crash between marking the item syncing and the apply verdict
	// leaves it persisted as syncing.
	item := env.seedItem(t, "t1", `{"amount":1}`)
	item.Status = models.ItemSyncing
	require.NoError(t, env.store.SaveItem(context.Background(), item))

	require.NoError(t, env.engine.Initialize(context.Background(), "user-1"))

	assert.Equal(t, 1, env.engine.GetSyncStatus().PendingChanges)
	stored, err := env.store.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemPending, stored.Status)
	assert.Empty(t, env.remote.ApplyCalls())
}

func TestReclaimedItemDrainsOnFirstOnlinePass(t *testing.T) {
	env := newTestEnv(t, Config{})

	item := env.seedItem(t, "t1", `{"amount":1}`)
	item.Status = models.ItemSyncing
	require.NoError(t, env.store.SaveItem(context.Background(), item))

	env.remote.ApplyFunc = func(ctx context.Context, op *models.Operation, pctx *ProcessContext) error {
		return nil
	}
	env.initOnline(t)

	require.Len(t, env.remote.ApplyCalls(), 1)
	assert.Equal(t, "t1", env.remote.ApplyCalls()[0].Op.EntityID)

	items, err := env.store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, env.engine.GetSyncStatus().PendingChanges)
}

func TestFailureLandingAfterStopLeavesStatusUntouched(t *testing.T) {
	env := newTestEnv(t, Config{MaxRetries: 1})

	item := env.seedItem(t, "t1", `{"amount":1}`)
	item.Retries = 1
	require.NoError(t, env.store.SaveItem(context.Background(), item))

	// The terminal failure lands after Stop invalidated the pass; the
	// error must not leak into a later session's status view.
	env.remote.ApplyFunc = func(ctx context.Context, op *models.Operation, pctx *ProcessContext) error {
		env.engine.Stop()
		return errors.New("connection reset")
	}
	env.initOnline(t)

	assert.Empty(t, env.engine.GetSyncStatus().SyncErrors)
}
