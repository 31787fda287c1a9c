package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/steveg1983/wealthtracker-pro-sub004/internal/crypto"
)

var (
	// BoltDB bucket names
	bucketQueue      = []byte("queue")
	bucketQueueIndex = []byte("queue_index")
	bucketConflicts  = []byte("conflicts")
	bucketSnapshots  = []byte("snapshots")
	bucketMetadata   = []byte("metadata")
)

// Option configures the storage instance.
type Option func(*Storage)

// WithCipher enables at-rest encryption of stored values with the given
// 32-byte AES key.
func WithCipher(key []byte) Option {
	return func(s *Storage) {
		s.cipherKey = key
	}
}

// Storage is the BoltDB implementation of the engine's persistence
// contracts: queue items, conflict records, entity snapshots and
// metadata.
type Storage struct {
	db        *bbolt.DB
	cipherKey []byte
}

// New creates a new BoltDB storage instance.
// dbPath is the path to the BoltDB database file.
func New(ctx context.Context, dbPath string, opts ...Option) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	storage := &Storage{db: db}
	for _, opt := range opts {
		opt(storage)
	}

	if err := storage.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// initBuckets creates the required buckets if they don't exist yet
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{bucketQueue, bucketQueueIndex, bucketConflicts, bucketSnapshots, bucketMetadata}
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// encode serializes a value to JSON and, when a cipher key is set,
// encrypts it. All time values cross this boundary as RFC 3339 strings.
func (s *Storage) encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}
	if s.cipherKey == nil {
		return data, nil
	}

	encrypted, err := crypto.Encrypt(data, s.cipherKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt value: %w", err)
	}
	return encrypted, nil
}

// decode reverses encode.
func (s *Storage) decode(data []byte, v any) error {
	if s.cipherKey != nil {
		plain, err := crypto.Decrypt(data, s.cipherKey)
		if err != nil {
			return fmt.Errorf("failed to decrypt value: %w", err)
		}
		data = plain
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}
