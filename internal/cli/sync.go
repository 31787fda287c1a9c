package cli

import (
	"context"
	"fmt"
)

// RunSync marks the engine online and runs one drain pass.
func (c *Cli) RunSync(ctx context.Context) error {
	c.engine.SetOnline(true)

	if err := c.engine.Sync(ctx); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	status := c.engine.GetSyncStatus()
	fmt.Printf("Sync complete. Pending changes: %d\n", status.PendingChanges)
	if len(status.SyncErrors) > 0 {
		fmt.Println("Some operations failed:")
		for _, msg := range status.SyncErrors {
			fmt.Printf("  - %s\n", msg)
		}
	}

	return nil
}
