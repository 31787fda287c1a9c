// Package cli implements the demonstration client commands on top of the
// sync engine: inspect status, queue operations, drain the queue, list
// and resolve conflicts, and watch the live connection.
package cli

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/steveg1983/wealthtracker-pro-sub004/internal/storage"
	enginesync "github.com/steveg1983/wealthtracker-pro-sub004/internal/sync"
)

// Cli bundles the collaborators the commands need.
type Cli struct {
	engine    *enginesync.Engine
	queue     storage.QueueStorage
	conflicts storage.ConflictStorage
	wsURL     string
	token     string
}

// New creates the command runner.
func New(engine *enginesync.Engine, queue storage.QueueStorage, conflicts storage.ConflictStorage, wsURL, token string) *Cli {
	return &Cli{
		engine:    engine,
		queue:     queue,
		conflicts: conflicts,
		wsURL:     wsURL,
		token:     token,
	}
}

// PrintUsage prints the command summary.
func PrintUsage() {
	fmt.Println("Usage: wealthtracker-sync [flags] <command> [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  status                     Show sync status and queued operations")
	fmt.Println("  add <type> <entity> <id> <json>")
	fmt.Println("                             Queue a CREATE, UPDATE or DELETE operation")
	fmt.Println("  sync                       Run one drain pass now")
	fmt.Println("  conflicts                  List unresolved conflicts")
	fmt.Println("  resolve <conflict-id> <json>")
	fmt.Println("                             Resolve a conflict with the given payload")
	fmt.Println("  watch                      Watch the live connection state")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -server   Sync server URL")
	fmt.Println("  -ws       Realtime websocket URL")
	fmt.Println("  -db       Path to the local database")
	fmt.Println("  -store    Local storage backend: bolt or sqlite")
	fmt.Println("  -user     User identifier")
	fmt.Println("  -token    Bearer token for the sync server")
	fmt.Println("  -encrypt  Encrypt the local database at rest")
}

// ReadPassphrase prompts for the at-rest encryption passphrase without
// echoing it.
func ReadPassphrase() (string, error) {
	fmt.Fprint(os.Stderr, "Passphrase: ")
	passBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	if len(passBytes) == 0 {
		return "", fmt.Errorf("passphrase cannot be empty")
	}
	return string(passBytes), nil
}
