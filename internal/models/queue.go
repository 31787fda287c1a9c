package models

import "time"

// ItemStatus is the lifecycle state of a queued mutation.
type ItemStatus string

const (
	// ItemPending means the item is waiting for the next drain pass.
	ItemPending ItemStatus = "pending"
	// ItemSyncing means a remote-apply call for the item is in flight.
	// An item is syncing for at most the duration of one call.
	ItemSyncing ItemStatus = "syncing"
	// ItemCompleted means the remote authority accepted the mutation.
	ItemCompleted ItemStatus = "completed"
	// ItemFailed means the retry bound was exceeded; the item is terminal.
	ItemFailed ItemStatus = "failed"
)

// QueueItem is one durable entry in the mutation queue. Items are created
// on local mutation and mutated (status, retries) only by the sync engine.
type QueueItem struct {
	EnqueuedAt time.Time  `json:"enqueued_at"`
	ID         string     `json:"id"`
	Status     ItemStatus `json:"status"`
	Error      string     `json:"error,omitempty"` // Error last failure message, if any
	Operation  Operation  `json:"operation"`
	Retries    int        `json:"retries"`
}

// Clone returns a deep copy of the queue item.
func (i *QueueItem) Clone() *QueueItem {
	cp := *i
	cp.Operation = *i.Operation.Clone()
	return &cp
}
