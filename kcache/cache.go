// SPDX-License-Identifier: MIT

package kcache

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/katalvlaran/lvkernel/matrix"
)

// prefix keeps kernel entries apart from anything else sharing the store.
const prefix byte = 0x4b

// Options configures Open.
type Options struct {
	// Dir is the on-disk location. Ignored when InMemory is set.
	Dir string
	// InMemory keeps everything in RAM; nothing is written to disk.
	InMemory bool
	// TTL expires entries after the given duration. Zero keeps them forever.
	TTL time.Duration
	// Logger receives badger's internal logs. Nil silences them.
	Logger *slog.Logger
}

// Cache is a content-addressed store of kernel matrices.
type Cache struct {
	db     *badger.DB
	ttl    time.Duration
	mu     sync.RWMutex
	closed bool
}

// Open opens or creates a cache.
func Open(opts Options) (*Cache, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("kcache: Dir is required unless InMemory is set")
	}
	if opts.TTL < 0 {
		return nil, fmt.Errorf("kcache: negative TTL %v", opts.TTL)
	}

	bo := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		bo = bo.WithInMemory(true)
	}
	if opts.Logger != nil {
		bo = bo.WithLogger(badgerLogger{log: opts.Logger})
	} else {
		bo = bo.WithLogger(nil)
	}
	// kernel matrices are written once and read many times
	bo = bo.WithNumVersionsToKeep(1).
		WithValueThreshold(1 << 10)

	db, err := badger.Open(bo)
	if err != nil {
		return nil, fmt.Errorf("kcache: open: %w", err)
	}

	return &Cache{db: db, ttl: opts.TTL}, nil
}

// OpenInMemory opens a cache that lives only as long as the process.
func OpenInMemory() (*Cache, error) {
	return Open(Options{InMemory: true})
}

// Close releases the store. It is safe to call more than once.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	return c.db.Close()
}

func dbKey(k Key) []byte {
	b := make([]byte, 1+len(k))
	b[0] = prefix
	copy(b[1:], k[:])
	return b
}

// Get returns the matrices stored under k, or ErrNotFound.
func (c *Cache) Get(k Key) ([]*matrix.Dense, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrClosed
	}

	var out []*matrix.Dense
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(dbKey(k))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			ms, err := decodeMatrices(val)
			if err != nil {
				return fmt.Errorf("key %s: %w", k, err)
			}
			out = ms
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("kcache: get: %w", err)
	}

	return out, nil
}

// Put stores ms under k, replacing any previous value.
func (c *Cache) Put(k Key, ms []*matrix.Dense) error {
	val, err := encodeMatrices(ms)
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(dbKey(k), val)
		if c.ttl > 0 {
			e = e.WithTTL(c.ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("kcache: put: %w", err)
	}

	return nil
}

// Delete removes k. Deleting a missing key is not an error.
func (c *Cache) Delete(k Key) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	if err := c.db.Update(func(txn *badger.Txn) error { return txn.Delete(dbKey(k)) }); err != nil {
		return fmt.Errorf("kcache: delete: %w", err)
	}

	return nil
}

// Len counts the live entries.
func (c *Cache) Len() (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return 0, ErrClosed
	}

	n := 0
	err := c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte{prefix}})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("kcache: len: %w", err)
	}

	return n, nil
}

// GetOrCompute returns the cached value for k, or runs compute, stores its
// result and returns it. The second result reports a cache hit. Errors from
// compute are returned unchanged and nothing is stored.
func (c *Cache) GetOrCompute(k Key, compute func() ([]*matrix.Dense, error)) ([]*matrix.Dense, bool, error) {
	ms, err := c.Get(k)
	switch {
	case err == nil:
		return ms, true, nil
	case !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrCorrupt):
		return nil, false, err
	}

	ms, err = compute()
	if err != nil {
		return nil, false, err
	}
	if err = c.Put(k, ms); err != nil {
		return nil, false, err
	}

	return ms, false, nil
}
