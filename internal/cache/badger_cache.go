package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/truckline/dispatchdesk/internal/logger"
	"github.com/truckline/dispatchdesk/pkg/api/interfaces"
)

const gcInterval = 5 * time.Minute

// BadgerCache implements Cache on a badger store. Expiry uses badger's
// native entry TTL.
type BadgerCache struct {
	db     *badger.DB
	logger interfaces.Logger
	stopGC chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewBadgerCache opens (or creates) a badger store in dir.
func NewBadgerCache(dir string) (*BadgerCache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create badger directory: %w", err)
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	opts.ValueLogFileSize = 1 << 20

	return openBadger(opts)
}

// NewInMemoryBadgerCache returns a badger store that never touches disk.
func NewInMemoryBadgerCache() (*BadgerCache, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return openBadger(opts)
}

func openBadger(opts badger.Options) (*BadgerCache, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	c := &BadgerCache{
		db:     db,
		logger: logger.GetPackageLogger("cache"),
		stopGC: make(chan struct{}),
	}

	if !opts.InMemory {
		c.wg.Add(1)
		go c.runGC()
	}

	return c, nil
}

func (c *BadgerCache) runGC() {
	defer c.wg.Done()

	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				c.logger.Debug("Badger value log GC failed: %v", err)
			}
		case <-c.stopGC:
			return
		}
	}
}

// Get implements interfaces.Cache.
func (c *BadgerCache) Get(key string, dest interface{}) (bool, error) {
	var found bool

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}

		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, dest); err != nil {
				return fmt.Errorf("unmarshal cache value %s: %w", key, err)
			}

			found = true

			return nil
		})
	})

	return found, err
}

// Set implements interfaces.Cache.
func (c *BadgerCache) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}

	entry := badger.NewEntry([]byte(key), data)
	if ttl > 0 {
		entry = entry.WithTTL(ttl)
	}

	if err := c.db.Update(func(txn *badger.Txn) error { return txn.SetEntry(entry) }); err != nil {
		return fmt.Errorf("badger set %s: %w", key, err)
	}

	c.logger.Debug("Cached %s for %v", key, ttl)

	return nil
}

// Delete implements interfaces.Cache.
func (c *BadgerCache) Delete(key string) error {
	if err := c.db.Update(func(txn *badger.Txn) error { return txn.Delete([]byte(key)) }); err != nil {
		return fmt.Errorf("badger delete %s: %w", key, err)
	}

	return nil
}

// Clear implements interfaces.Cache.
func (c *BadgerCache) Clear() error {
	return c.db.DropAll()
}

// Close stops the GC loop and closes the store. It is safe to call twice.
func (c *BadgerCache) Close() error {
	var err error

	c.once.Do(func() {
		close(c.stopGC)
		c.wg.Wait()
		err = c.db.Close()
	})

	return err
}
