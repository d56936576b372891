// Package store persists server state in an embedded Badger database:
// the favorites record and the last good ranked-list snapshot.
package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/streamscoutapp/streamscout-server/internal/domain"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// New opens (or creates) the database at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	return open(opts, logger)
}

// NewInMemory opens a database that lives only as long as the process.
func NewInMemory(logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return open(opts, logger)
}

func open(opts badger.Options, logger *slog.Logger) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("Badger database opened", "path", opts.Dir, "in_memory", opts.InMemory)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// Ping verifies the database can serve a read.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(keyFavorites)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// Record returns a handle to a single raw value stored under key.
func (s *Store) Record(key string) *Record {
	return &Record{store: s, key: []byte(key)}
}

// Favorites returns the record holding the favorites set.
func (s *Store) Favorites() *Record {
	return &Record{store: s, key: keyFavorites}
}

// SaveSnapshot persists the last good ranked list.
func (s *Store) SaveSnapshot(ctx context.Context, result *domain.AnalyzeResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if result == nil {
		return ErrInvalidInput.WithMessage("snapshot is nil")
	}
	return s.set(keySnapshot, result)
}

// LoadSnapshot returns the persisted ranked list, or ErrNotFound.
func (s *Store) LoadSnapshot(ctx context.Context) (*domain.AnalyzeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var result domain.AnalyzeResult
	if err := s.get(keySnapshot, &result); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound.WithMessage("no snapshot stored")
		}
		return nil, ErrCorrupt.WithCause(err)
	}
	return &result, nil
}

// Record is a single raw value under a fixed key.
type Record struct {
	store *Store
	key   []byte
}

// Key returns the record's key.
func (r *Record) Key() string {
	return string(r.key)
}

// Load returns the stored bytes, or nil when the key is absent.
func (r *Record) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []byte
	err := r.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(r.key)
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", r.key, err)
	}
	return out, nil
}

// Save replaces the stored bytes.
func (r *Record) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := r.store.db.Update(func(txn *badger.Txn) error {
		return txn.Set(r.key, data)
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", r.key, err)
	}
	return nil
}

// Delete removes the record. Deleting an absent record is not an error.
func (r *Record) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(r.key)
	})
}

func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}
