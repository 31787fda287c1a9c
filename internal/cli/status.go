package cli

import (
	"context"
	"fmt"
)

// RunStatus prints the sync status view and the queued operations.
func (c *Cli) RunStatus(ctx context.Context) error {
	status := c.engine.GetSyncStatus()

	fmt.Println("=== Sync Status ===")
	fmt.Printf("Online:          %v\n", status.IsOnline)
	fmt.Printf("Syncing:         %v\n", status.IsSyncing)
	fmt.Printf("Pending changes: %d\n", status.PendingChanges)
	if status.LastSyncTime.IsZero() {
		fmt.Println("Last sync:       never")
	} else {
		fmt.Printf("Last sync:       %s\n", status.LastSyncTime.Format("2006-01-02 15:04:05"))
	}

	if len(status.SyncErrors) > 0 {
		fmt.Println()
		fmt.Println("Errors:")
		for _, msg := range status.SyncErrors {
			fmt.Printf("  - %s\n", msg)
		}
	}

	items, err := c.queue.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list queue: %w", err)
	}

	if len(items) > 0 {
		fmt.Println()
		fmt.Println("Queue:")
		for _, item := range items {
			fmt.Printf("  [%s] %s %s %s (retries: %d)\n",
				item.Status,
				item.Operation.Type,
				item.Operation.Entity,
				item.Operation.EntityID,
				item.Retries,
			)
		}
	}

	return nil
}
