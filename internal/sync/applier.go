// Package sync implements the offline mutation queue and the sync engine
// that drains it against the remote authority. All collaborators are
// injected: storage, the remote client, the conflict resolver, the clock
// and the id generator, so the whole engine runs deterministically in tests.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/steveg1983/wealthtracker-pro-sub004/internal/models"
)

//go:generate moq -out remoteclient_mock.go . RemoteClient
//go:generate moq -out conflictresolver_mock.go . ConflictResolver

// ProcessContext carries per-drain call context into the remote client.
// EnqueueImmediateSync asks the engine for another drain pass right after
// the current one finishes, without waiting for the next tick.
type ProcessContext struct {
	UserID               string
	Logger               *slog.Logger
	EnqueueImmediateSync func()
}

// RemoteClient applies local mutations against the remote authority and
// pulls full snapshots for the bootstrap merge.
type RemoteClient interface {
	// Apply submits one operation. A divergent server state is reported
	// as *ConflictError; any other error is treated as transient.
	Apply(ctx context.Context, op *models.Operation, pctx *ProcessContext) error

	// FetchSnapshot returns the server's current state for all entities
	// of the given user.
	FetchSnapshot(ctx context.Context, userID string) ([]*models.EntityRecord, error)
}

// ConflictResolver decides how a detected conflict is settled. It persists
// a ConflictRecord for every call; the engine acts on the returned strategy.
type ConflictResolver interface {
	Resolve(ctx context.Context, item *models.QueueItem, serverData json.RawMessage) (*models.Resolution, error)
}

// ConflictError reports that the remote authority holds state the client
// has not seen. It is the only error kind that routes an item to the
// conflict resolver instead of the retry path.
type ConflictError struct {
	Entity        string
	EntityID      string
	ServerData    json.RawMessage
	ServerVersion int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s %s: server holds a newer version (%d)", e.Entity, e.EntityID, e.ServerVersion)
}

// AsConflict unwraps err into a *ConflictError if one is in the chain.
func AsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
