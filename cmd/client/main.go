package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	apiclient "github.com/steveg1983/wealthtracker-pro-sub004/internal/api"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/cli"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/conflict"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/crypto"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/storage"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/storage/boltdb"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/storage/sqlite"
	enginesync "github.com/steveg1983/wealthtracker-pro-sub004/internal/sync"
)

// localStore is what both storage backends provide.
type localStore interface {
	storage.QueueStorage
	storage.ConflictStorage
	storage.SnapshotStorage
	storage.MetadataStorage
	Close() error
}

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Sync server URL")
	wsURL := flag.String("ws", "", "Realtime websocket URL")
	dbPath := flag.String("db", "wealthtracker-sync.db", "Path to local database")
	storeKind := flag.String("store", "bolt", "Local storage backend: bolt or sqlite")
	userID := flag.String("user", "", "User identifier")
	token := flag.String("token", "", "Bearer token for the sync server")
	encrypt := flag.Bool("encrypt", false, "Encrypt the local database at rest")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}
	command := args[0]

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "A user identifier is required, set -user")
		os.Exit(1)
	}

	ctx := context.Background()

	store, err := openStore(ctx, *storeKind, *dbPath, *userID, *encrypt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	remote := apiclient.NewClient(*serverURL, *token)
	resolver := conflict.New(store, nil, nil, slog.Default())

	engine := enginesync.New(enginesync.Deps{
		Queue:     store,
		Conflicts: store,
		Snapshots: store,
		Metadata:  store,
		Remote:    remote,
		Resolver:  resolver,
		Logger:    slog.Default(),
	}, enginesync.Config{})
	defer engine.Stop()

	if err := engine.Initialize(ctx, *userID); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize sync engine: %v\n", err)
		os.Exit(1)
	}

	c := cli.New(engine, store, store, *wsURL, *token)

	switch command {
	case "status":
		if err := c.RunStatus(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "add":
		if err := c.RunAdd(ctx, args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "sync":
		if err := c.RunSync(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "conflicts":
		if err := c.RunConflicts(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "resolve":
		if err := c.RunResolve(ctx, args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "watch":
		if err := c.RunWatch(ctx, *userID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		cli.PrintUsage()
		os.Exit(1)
	}
}

// openStore opens the chosen local backend. At-rest encryption is a
// boltdb feature; sqlite relies on filesystem permissions.
func openStore(ctx context.Context, kind, dbPath, userID string, encrypt bool) (localStore, error) {
	switch kind {
	case "bolt":
		var opts []boltdb.Option
		if encrypt {
			key, err := loadEncryptionKey(dbPath, userID)
			if err != nil {
				return nil, fmt.Errorf("failed to prepare encryption key: %w", err)
			}
			opts = append(opts, boltdb.WithCipher(key))
		}
		return boltdb.New(ctx, dbPath, opts...)
	case "sqlite":
		if encrypt {
			return nil, fmt.Errorf("-encrypt is only supported with -store bolt")
		}
		return sqlite.New(ctx, dbPath)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", kind)
	}
}

// loadEncryptionKey derives the at-rest key from an interactive
// passphrase. The Argon2 salt lives in a sidecar file next to the
// database so the same key can be derived on the next run.
func loadEncryptionKey(dbPath, userID string) ([]byte, error) {
	saltPath := dbPath + ".salt"

	saltBase64, err := os.ReadFile(saltPath)
	if os.IsNotExist(err) {
		generated, genErr := crypto.GenerateSaltBase64()
		if genErr != nil {
			return nil, fmt.Errorf("failed to generate salt: %w", genErr)
		}
		if writeErr := os.WriteFile(saltPath, []byte(generated), 0o600); writeErr != nil {
			return nil, fmt.Errorf("failed to write salt file: %w", writeErr)
		}
		saltBase64 = []byte(generated)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read salt file: %w", err)
	}

	passphrase, err := cli.ReadPassphrase()
	if err != nil {
		return nil, err
	}

	key, err := crypto.DeriveKeyFromBase64Salt(passphrase, userID, string(saltBase64))
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	return key, nil
}

func printVersion() {
	fmt.Printf("WealthTracker Sync Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
