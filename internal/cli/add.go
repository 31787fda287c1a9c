package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/steveg1983/wealthtracker-pro-sub004/internal/models"
)

var addUsage = "Usage: wealthtracker-sync add <create|update|delete> <entity> <entity-id> [json-payload]"

// RunAdd queues one mutation. The payload is optional for deletes.
func (c *Cli) RunAdd(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("missing arguments. %s", addUsage)
	}

	var opType models.OperationType
	switch strings.ToLower(args[0]) {
	case "create":
		opType = models.OperationCreate
	case "update":
		opType = models.OperationUpdate
	case "delete":
		opType = models.OperationDelete
	default:
		return fmt.Errorf("unknown operation type: %s. %s", args[0], addUsage)
	}

	entity := args[1]
	entityID := args[2]

	var payload json.RawMessage
	if len(args) > 3 {
		if !json.Valid([]byte(args[3])) {
			return fmt.Errorf("payload is not valid JSON")
		}
		payload = json.RawMessage(args[3])
	} else if opType != models.OperationDelete {
		return fmt.Errorf("a JSON payload is required for %s. %s", opType, addUsage)
	}

	item, err := c.engine.QueueOperation(ctx, opType, entity, entityID, payload)
	if err != nil {
		return fmt.Errorf("failed to queue operation: %w", err)
	}

	fmt.Printf("Queued %s %s %s (operation %s)\n", opType, entity, entityID, item.Operation.ID)
	return nil
}
