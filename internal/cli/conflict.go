package cli

import (
	"context"
	"encoding/json"
	"fmt"
)

// RunConflicts lists the conflicts awaiting manual resolution.
func (c *Cli) RunConflicts(ctx context.Context) error {
	records, err := c.conflicts.ListUnresolved(ctx)
	if err != nil {
		return fmt.Errorf("failed to list conflicts: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No unresolved conflicts.")
		return nil
	}

	fmt.Printf("Unresolved conflicts: %d\n", len(records))
	for _, record := range records {
		fmt.Println()
		fmt.Printf("ID:        %s\n", record.ID)
		fmt.Printf("Entity:    %s %s\n", record.Entity, record.Operation.EntityID)
		fmt.Printf("Operation: %s (%s)\n", record.Operation.Type, record.OperationID)
		fmt.Printf("Detected:  %s\n", record.Timestamp.Format("2006-01-02 15:04:05"))
		fmt.Printf("Client:    %s\n", compactJSON(record.ClientData))
		fmt.Printf("Server:    %s\n", compactJSON(record.ServerData))
	}

	return nil
}

var resolveUsage = "Usage: wealthtracker-sync resolve <conflict-id> <json-payload>"

// RunResolve resolves one conflict with a user-chosen payload; the
// payload is re-queued as a fresh mutation.
func (c *Cli) RunResolve(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("missing arguments. %s", resolveUsage)
	}

	conflictID := args[0]
	payload := []byte(args[1])
	if !json.Valid(payload) {
		return fmt.Errorf("payload is not valid JSON")
	}

	if err := c.engine.ResolveConflict(ctx, conflictID, payload); err != nil {
		return fmt.Errorf("failed to resolve conflict: %w", err)
	}

	fmt.Printf("Conflict %s resolved; the payload is queued for sync.\n", conflictID)
	return nil
}

func compactJSON(data json.RawMessage) string {
	if len(data) == 0 {
		return "(none)"
	}
	var buf []byte
	var v any
	if err := json.Unmarshal(data, &v); err == nil {
		if buf, err = json.Marshal(v); err == nil {
			return string(buf)
		}
	}
	return string(data)
}
