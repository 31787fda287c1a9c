// Package conflict decides how diverging local and server states are
// reconciled. Strategies are per entity kind: transactions race on their
// date, accounts merge balance deltas, budgets take the conservative
// bound per field. Anything the resolver cannot settle deterministically
// is deferred to the user.
package conflict

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/steveg1983/wealthtracker-pro-sub004/internal/clock"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/ids"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/models"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/storage"
	enginesync "github.com/steveg1983/wealthtracker-pro-sub004/internal/sync"
)

// Resolver implements the per-entity resolution strategies. Every call
// persists a ConflictRecord, resolved or not, for the audit trail.
type Resolver struct {
	conflicts storage.ConflictStorage
	clock     clock.Clock
	ids       ids.Generator
	logger    *slog.Logger
}

var _ enginesync.ConflictResolver = (*Resolver)(nil)

// New creates a resolver. Clock, IDs and Logger default to the system
// implementations when nil.
func New(conflicts storage.ConflictStorage, clk clock.Clock, gen ids.Generator, logger *slog.Logger) *Resolver {
	if clk == nil {
		clk = clock.System()
	}
	if gen == nil {
		gen = ids.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		conflicts: conflicts,
		clock:     clk,
		ids:       gen,
		logger:    logger,
	}
}

// Resolve settles the conflict between the item's payload and the
// server's. The returned resolution carries the merged payload for
// client and merge outcomes and nil data for server and manual ones.
func (r *Resolver) Resolve(ctx context.Context, item *models.QueueItem, serverData json.RawMessage) (*models.Resolution, error) {
	strategy, data := r.decide(item, serverData)

	record := &models.ConflictRecord{
		ID:          r.ids.NewID(),
		OperationID: item.Operation.ID,
		Entity:      item.Operation.Entity,
		Strategy:    strategy,
		ClientData:  item.Operation.Data,
		ServerData:  serverData,
		Operation:   *item.Operation.Clone(),
		Timestamp:   r.clock.Now(),
	}
	if strategy != models.StrategyManual {
		record.Resolved = true
		record.ResolutionData = data
	}

	if err := r.conflicts.SaveConflict(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist conflict record: %w", err)
	}

	r.logger.Info("conflict recorded",
		"conflict_id", record.ID,
		"entity", record.Entity,
		"strategy", string(strategy),
	)

	return &models.Resolution{
		Strategy: strategy,
		Data:     data,
		Record:   record,
	}, nil
}

// decide picks the strategy and the resolved payload. Payloads that do
// not parse as their entity kind cannot be auto-resolved and fall back
// to manual.
func (r *Resolver) decide(item *models.QueueItem, serverData json.RawMessage) (models.ResolutionStrategy, json.RawMessage) {
	clientData := item.Operation.Data

	switch item.Operation.Entity {
	case models.EntityTransaction:
		return r.decideTransaction(clientData, serverData)
	case models.EntityAccount:
		return r.decideAccount(clientData, serverData)
	case models.EntityBudget:
		return r.decideBudget(clientData, serverData)
	default:
		return models.StrategyManual, nil
	}
}

// decideTransaction: the strictly newer transaction date wins. Equal
// dates give no basis to pick a side.
func (r *Resolver) decideTransaction(clientData, serverData json.RawMessage) (models.ResolutionStrategy, json.RawMessage) {
	var client, server models.Transaction
	if err := json.Unmarshal(clientData, &client); err != nil {
		r.logger.Warn("unparseable client transaction", "error", err)
		return models.StrategyManual, nil
	}
	if err := json.Unmarshal(serverData, &server); err != nil {
		r.logger.Warn("unparseable server transaction", "error", err)
		return models.StrategyManual, nil
	}

	switch {
	case client.Date.After(server.Date):
		return models.StrategyClient, clientData
	case server.Date.After(client.Date):
		return models.StrategyServer, nil
	default:
		return models.StrategyManual, nil
	}
}

// decideAccount: both sides may have moved the balance independently, so
// the client's delta is replayed on top of the server's balance. Without
// the pre-edit snapshot the delta is unknowable.
func (r *Resolver) decideAccount(clientData, serverData json.RawMessage) (models.ResolutionStrategy, json.RawMessage) {
	var client, server models.Account
	if err := json.Unmarshal(clientData, &client); err != nil {
		r.logger.Warn("unparseable client account", "error", err)
		return models.StrategyManual, nil
	}
	if err := json.Unmarshal(serverData, &server); err != nil {
		r.logger.Warn("unparseable server account", "error", err)
		return models.StrategyManual, nil
	}

	if client.OriginalBalance == nil {
		return models.StrategyManual, nil
	}

	merged, err := mergeFields(serverData, map[string]any{
		"balance": server.Balance + (client.Balance - *client.OriginalBalance),
	})
	if err != nil {
		r.logger.Warn("account merge failed", "error", err)
		return models.StrategyManual, nil
	}

	return models.StrategyMerge, merged
}

// decideBudget: the stricter limit and the higher recorded spending win,
// so a merge never hides an overrun.
func (r *Resolver) decideBudget(clientData, serverData json.RawMessage) (models.ResolutionStrategy, json.RawMessage) {
	var client, server models.Budget
	if err := json.Unmarshal(clientData, &client); err != nil {
		r.logger.Warn("unparseable client budget", "error", err)
		return models.StrategyManual, nil
	}
	if err := json.Unmarshal(serverData, &server); err != nil {
		r.logger.Warn("unparseable server budget", "error", err)
		return models.StrategyManual, nil
	}

	merged, err := mergeFields(serverData, map[string]any{
		"amount": min(client.Amount, server.Amount),
		"spent":  max(client.Spent, server.Spent),
	})
	if err != nil {
		r.logger.Warn("budget merge failed", "error", err)
		return models.StrategyManual, nil
	}

	return models.StrategyMerge, merged
}

// mergeFields overlays the given fields on top of the server payload, so
// fields the resolver does not model survive the merge untouched.
func mergeFields(serverData json.RawMessage, overrides map[string]any) (json.RawMessage, error) {
	base := make(map[string]any)
	if err := json.Unmarshal(serverData, &base); err != nil {
		return nil, fmt.Errorf("failed to parse server payload: %w", err)
	}

	for key, value := range overrides {
		base[key] = value
	}

	merged, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("failed to encode merged payload: %w", err)
	}

	return merged, nil
}
