package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveg1983/wealthtracker-pro-sub004/internal/models"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func newQueueItem(id string) *models.QueueItem {
	return &models.QueueItem{
		ID:         id,
		Status:     models.ItemPending,
		EnqueuedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Operation: models.Operation{
			ID:       "op-" + id,
			Type:     models.OperationCreate,
			Entity:   models.EntityTransaction,
			EntityID: "t-" + id,
			ClientID: "client-1",
			Data:     json.RawMessage(`{"amount":1}`),
		},
	}
}

func TestMigrationsRun(t *testing.T) {
	s := newTestStorage(t)

	var count int
	err := s.DB().QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN
		 ('queue_items', 'conflict_records', 'entity_records', 'metadata')`,
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestQueueFIFOOrderAndUpdateInPlace(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.SaveItem(ctx, newQueueItem(id)))
	}

	// Updating the head must not move it.
	head, err := s.GetItem(ctx, "c")
	require.NoError(t, err)
	head.Retries = 1
	require.NoError(t, s.SaveItem(ctx, head))

	items, err := s.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "c", items[0].ID)
	assert.Equal(t, "a", items[1].ID)
	assert.Equal(t, "b", items[2].ID)
	assert.Equal(t, 1, items[0].Retries)
}

func TestQueueGetDeleteAndStatusFilter(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.GetItem(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrItemNotFound)

	require.NoError(t, s.SaveItem(ctx, newQueueItem("a")))
	failed := newQueueItem("b")
	failed.Status = models.ItemFailed
	require.NoError(t, s.SaveItem(ctx, failed))

	pending, err := s.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "a", pending[0].ID)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.DeleteItem(ctx, "a"))
	require.NoError(t, s.DeleteItem(ctx, "a"))
	_, err = s.GetItem(ctx, "a")
	assert.ErrorIs(t, err, storage.ErrItemNotFound)
}

func TestConflictRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.GetConflict(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrConflictNotFound)

	record := &models.ConflictRecord{
		ID:          "conf-1",
		OperationID: "op-1",
		Entity:      models.EntityBudget,
		Strategy:    models.StrategyManual,
		ClientData:  json.RawMessage(`{"amount":400}`),
		ServerData:  json.RawMessage(`{"amount":350}`),
		Operation: models.Operation{
			ID:       "op-1",
			Type:     models.OperationUpdate,
			Entity:   models.EntityBudget,
			EntityID: "b1",
		},
		Timestamp: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.SaveConflict(ctx, record))

	unresolved, err := s.ListUnresolved(ctx)
	require.NoError(t, err)
	require.Len(t, unresolved, 1)
	assert.Equal(t, "b1", unresolved[0].Operation.EntityID)

	record.Resolved = true
	record.Strategy = models.StrategyMerge
	record.ResolutionData = json.RawMessage(`{"amount":350,"spent":120}`)
	require.NoError(t, s.SaveConflict(ctx, record))

	unresolved, err = s.ListUnresolved(ctx)
	require.NoError(t, err)
	assert.Empty(t, unresolved)

	stored, err := s.GetConflict(ctx, "conf-1")
	require.NoError(t, err)
	assert.True(t, stored.Resolved)
	assert.Equal(t, models.StrategyMerge, stored.Strategy)
	assert.JSONEq(t, `{"amount":350,"spent":120}`, string(stored.ResolutionData))
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.GetRecord(ctx, models.EntityAccount, "missing")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)

	updatedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRecord(ctx, &models.EntityRecord{
		Entity: models.EntityAccount, EntityID: "a1",
		Data: json.RawMessage(`{"balance":100}`), Version: 1, UpdatedAt: updatedAt,
	}))
	require.NoError(t, s.SaveRecord(ctx, &models.EntityRecord{
		Entity: models.EntityBudget, EntityID: "b1",
		Data: json.RawMessage(`{"amount":50}`), Version: 1, UpdatedAt: updatedAt,
	}))

	record, err := s.GetRecord(ctx, models.EntityAccount, "a1")
	require.NoError(t, err)
	assert.True(t, record.UpdatedAt.Equal(updatedAt))

	// Replace keeps a single row per entity instance.
	require.NoError(t, s.SaveRecord(ctx, &models.EntityRecord{
		Entity: models.EntityAccount, EntityID: "a1",
		Data: json.RawMessage(`{"balance":130}`), Version: 2, UpdatedAt: updatedAt,
	}))

	accounts, err := s.ListRecords(ctx, models.EntityAccount)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, int64(2), accounts[0].Version)

	all, err := s.ListRecords(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.DeleteRecord(ctx, models.EntityAccount, "a1"))
	require.NoError(t, s.DeleteRecord(ctx, models.EntityAccount, "a1"))
}

func TestMetadataRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	last, err := s.GetLastSyncTime(ctx)
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	now := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	require.NoError(t, s.SaveLastSyncTime(ctx, now))
	require.NoError(t, s.SaveClientID(ctx, "client-42"))

	last, err = s.GetLastSyncTime(ctx)
	require.NoError(t, err)
	assert.True(t, last.Equal(now))

	clientID, err := s.GetClientID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "client-42", clientID)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sync.db")
	ctx := context.Background()

	s, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, s.SaveItem(ctx, newQueueItem("a")))
	require.NoError(t, s.Close())

	s, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer s.Close()

	item, err := s.GetItem(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "op-a", item.Operation.ID)
}
