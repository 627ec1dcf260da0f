// Package statscache persists per-run statistics on disk, keyed by the
// analyzed project root, so the next report can show the previous score.
package statscache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when RunRecord format changes.
const schemaVersion uint16 = 1

// RunRecord is one persisted run summary.
type RunRecord struct {
	Schema uint16

	// Root is the analyzed project root the record belongs to.
	Root string
	// When is the wall-clock finish time, unix seconds.
	When int64

	Score      float64
	Statements int
	Files      int

	Fatal      int
	Errors     int
	Warnings   int
	Refactors  int
	Convention int
	Info       int
}

// Cache stores run records on disk. Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes the cache at the standard XDG location.
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// OpenAt initializes the cache at an explicit directory. Tests use it.
func OpenAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(root string) string {
	sum := sha256.Sum256([]byte(root))
	return filepath.Join(c.dir, "runs", hex.EncodeToString(sum[:])+".mp")
}

// Put writes the record for its root atomically: encode to a temp file in the
// same directory, then rename over the old record.
func (c *Cache) Put(rec *RunRecord) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	rec.Schema = schemaVersion
	if rec.When == 0 {
		rec.When = time.Now().Unix()
	}

	p := c.pathFor(rec.Root)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(rec); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, p)
}

// Get reads the record for a root. A missing record or a schema mismatch
// reports ok=false without an error; stale formats are simply ignored.
func (c *Cache) Get(root string, out *RunRecord) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(root))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != schemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
