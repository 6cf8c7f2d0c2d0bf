// Package cache persists the last successfully fetched usage snapshot so the
// widget opens with last-known values (marked stale) instead of an empty
// screen. Credentials are never written here.
package cache

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/dgraph-io/badger/v3"

	"github.com/clawdeck/clawdeck/models"
)

const snapshotKey = "usage/last_snapshot"

// SnapshotStore is a BadgerDB-backed store for the last-known snapshot.
type SnapshotStore struct {
	db     *badger.DB
	mu     sync.Mutex
	closed bool
}

// StoreConfig configures the snapshot store.
type StoreConfig struct {
	Dir string
	// TTL after which a persisted snapshot is considered too old to show.
	TTL time.Duration
}

// NewSnapshotStore opens (or creates) the store at cfg.Dir.
func NewSnapshotStore(cfg StoreConfig) (*SnapshotStore, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("snapshot store dir not set")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts = opts.WithLogger(nil)
	opts = opts.WithValueLogFileSize(1 << 20)
	opts = opts.WithMemTableSize(1 << 20)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}

	s := &SnapshotStore{db: db}
	return s, nil
}

// Put persists a snapshot, replacing the previous one.
func (s *SnapshotStore) Put(snap *models.UsageSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("snapshot store is closed")
	}

	data, err := sonic.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(snapshotKey), data).WithTTL(24 * time.Hour)
		return txn.SetEntry(entry)
	})
}

// Get returns the persisted snapshot, or nil when none exists or it expired.
func (s *SnapshotStore) Get() (*models.UsageSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("snapshot store is closed")
	}

	var snap *models.UsageSnapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var decoded models.UsageSnapshot
			if err := sonic.Unmarshal(val, &decoded); err != nil {
				return fmt.Errorf("decode snapshot: %w", err)
			}
			snap = &decoded
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Close closes the underlying database.
func (s *SnapshotStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
