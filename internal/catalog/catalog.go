// Package catalog implements the storage manager: the process-wide
// registry mapping table names to tables.
package catalog

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/dyod/columnstore/internal/dtype"
	"github.com/dyod/columnstore/internal/table"
)

// Catalog is a concurrency-safe name -> table registry. The zero value is
// not usable; construct with New, or use the process-wide singleton
// returned by Instance.
type Catalog struct {
	mu     sync.RWMutex
	tables map[string]*table.Table
	log    *zap.Logger
}

// New returns an empty, independently-lifecycled catalog — tests build
// their own instead of reaching for the shared singleton so cases never
// leak tables into one another.
func New() *Catalog {
	return &Catalog{tables: make(map[string]*table.Table), log: zap.NewNop()}
}

// SetLogger replaces the catalog's logger.
func (c *Catalog) SetLogger(log *zap.Logger) { c.log = log }

var (
	instance     *Catalog
	instanceOnce sync.Once
)

// Instance returns the process-wide catalog, constructing it exactly once
// regardless of how many goroutines race to call Instance first — fixing
// the original StorageManager::get()'s re-allocate-on-every-call bug.
func Instance() *Catalog {
	instanceOnce.Do(func() {
		instance = New()
	})
	return instance
}

// Add registers t under name, failing with ErrDuplicateTable if the name
// is already taken.
func (c *Catalog) Add(name string, t *table.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tables[name]; ok {
		return fmt.Errorf("catalog: table %q: %w", name, dtype.ErrDuplicateTable)
	}
	c.tables[name] = t
	c.log.Info("table added", zap.String("table", name))
	return nil
}

// Drop removes name from the registry, failing with ErrUnknownTable if it
// is not present.
func (c *Catalog) Drop(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tables[name]; !ok {
		return fmt.Errorf("catalog: table %q: %w", name, dtype.ErrUnknownTable)
	}
	delete(c.tables, name)
	c.log.Info("table dropped", zap.String("table", name))
	return nil
}

// Get returns the table registered under name.
func (c *Catalog) Get(name string) (*table.Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("catalog: table %q: %w", name, dtype.ErrUnknownTable)
	}
	return t, nil
}

// Has reports whether name is registered.
func (c *Catalog) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.tables[name]
	return ok
}

// Names returns the registered table names, sorted for deterministic
// output.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.tables))
	for name := range c.tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Print writes one summary line per table — column count, row count,
// chunk count — in name order.
func (c *Catalog) Print(w io.Writer) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := c.tables[name]
		_, err := fmt.Fprintf(w, "table %s: %d columns, %d rows, %d chunks\n",
			name, t.ColumnCount(), t.RowCount(), t.ChunkCount())
		if err != nil {
			return err
		}
	}
	return nil
}

// Reset empties the catalog — used by tests that share Instance().
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables = make(map[string]*table.Table)
}
