// Package table implements the column-store table: an ordered set of
// column definitions plus a sequence of chunks, each chunk a fixed-size
// horizontal partition holding one segment per column.
package table

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dyod/columnstore/internal/chunk"
	"github.com/dyod/columnstore/internal/dtype"
	"github.com/dyod/columnstore/internal/logutil"
	"github.com/dyod/columnstore/internal/segment"
)

// Table owns the column schema and the chunk sequence. Chunks are rolled
// automatically by Append once the current chunk reaches TargetChunkSize
// or has been compressed.
type Table struct {
	mu sync.RWMutex

	columnNames    []string
	columnTypes    []dtype.Kind
	columnNullable []bool

	chunks          []*chunk.Chunk
	targetChunkSize uint32

	log *zap.Logger
}

// New returns an empty table (no columns, one empty chunk) that rolls a
// new chunk once the current one holds targetChunkSize rows.
func New(targetChunkSize uint32) *Table {
	return &Table{
		chunks:          []*chunk.Chunk{chunk.New()},
		targetChunkSize: targetChunkSize,
		log:             zap.NewNop(),
	}
}

// SetLogger replaces the table's logger; tables default to a no-op logger
// so tests never need to wire one up.
func (t *Table) SetLogger(log *zap.Logger) { t.log = log }

// AddColumnDefinition declares a column without touching any chunk's
// segments. Callers that also need the first chunk's segment created
// should use AddColumn instead; AddColumnDefinition only records the
// schema.
func (t *Table) AddColumnDefinition(name string, kind dtype.Kind, nullable bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, existing := range t.columnNames {
		if existing == name {
			return fmt.Errorf("table: column %q: %w", name, dtype.ErrDuplicateColumn)
		}
	}
	t.columnNames = append(t.columnNames, name)
	t.columnTypes = append(t.columnTypes, kind)
	t.columnNullable = append(t.columnNullable, nullable)
	return nil
}

// AddColumn declares a new column and adds its (empty) segment to the
// table's first chunk. It fails if the table already holds rows — columns
// may only be added to a table that is still entirely empty.
func (t *Table) AddColumn(name string, kind dtype.Kind, nullable bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.chunks[0].Size() != 0 {
		return fmt.Errorf("table: cannot add column %q to a non-empty table: %w", name, dtype.ErrInvalidArgument)
	}
	for _, existing := range t.columnNames {
		if existing == name {
			return fmt.Errorf("table: column %q: %w", name, dtype.ErrDuplicateColumn)
		}
	}
	t.columnNames = append(t.columnNames, name)
	t.columnTypes = append(t.columnTypes, kind)
	t.columnNullable = append(t.columnNullable, nullable)
	t.chunks[0].AddSegment(newValueSegment(kind, nullable))
	return nil
}

// CreateNewChunk appends a fresh, empty, fully mutable chunk with one
// empty value segment per declared column.
func (t *Table) CreateNewChunk() {
	c := chunk.New()
	for i := range t.columnNames {
		c.AddSegment(newValueSegment(t.columnTypes[i], t.columnNullable[i]))
	}
	t.chunks = append(t.chunks, c)
}

// Append adds one row, rolling a new chunk first if the last chunk is
// full or has already been compressed (dictionary-encoded chunks never
// accept further appends).
func (t *Table) Append(row []dtype.Variant) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if dtype.Debug && len(row) != len(t.columnNames) {
		panic(fmt.Sprintf("table: row has %d values, table has %d columns", len(row), len(t.columnNames)))
	}
	last := t.chunks[len(t.chunks)-1]
	if uint32(last.Size()) >= t.targetChunkSize || !last.IsMutable() {
		t.createNewChunkLocked()
		last = t.chunks[len(t.chunks)-1]
	}
	return last.Append(row)
}

func (t *Table) createNewChunkLocked() {
	c := chunk.New()
	for i := range t.columnNames {
		c.AddSegment(newValueSegment(t.columnTypes[i], t.columnNullable[i]))
	}
	t.chunks = append(t.chunks, c)
}

// ChunkCount returns the number of chunks, including any still being
// appended to.
func (t *Table) ChunkCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.chunks)
}

// RowCount returns the total number of rows across all chunks.
func (t *Table) RowCount() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var n uint64
	for _, c := range t.chunks {
		n += uint64(c.Size())
	}
	return n
}

// ColumnCount returns the number of declared columns.
func (t *Table) ColumnCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.columnNames)
}

// ColumnNames returns a copy of the declared column names in order.
func (t *Table) ColumnNames() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.columnNames))
	copy(out, t.columnNames)
	return out
}

// ColumnName returns the name of column id.
func (t *Table) ColumnName(id int) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if id < 0 || id >= len(t.columnNames) {
		return "", fmt.Errorf("table: column id %d: %w", id, dtype.ErrUnknownColumn)
	}
	return t.columnNames[id], nil
}

// ColumnType returns the declared Kind of column id.
func (t *Table) ColumnType(id int) (dtype.Kind, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if id < 0 || id >= len(t.columnTypes) {
		return 0, fmt.Errorf("table: column id %d: %w", id, dtype.ErrUnknownColumn)
	}
	return t.columnTypes[id], nil
}

// ColumnNullable reports whether column id accepts NULL.
func (t *Table) ColumnNullable(id int) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if id < 0 || id >= len(t.columnNullable) {
		return false, fmt.Errorf("table: column id %d: %w", id, dtype.ErrUnknownColumn)
	}
	return t.columnNullable[id], nil
}

// ColumnIDByName resolves a column name to its id.
func (t *Table) ColumnIDByName(name string) (int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i, n := range t.columnNames {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("table: column %q: %w", name, dtype.ErrUnknownColumn)
}

// TargetChunkSize returns the row count at which a chunk is rolled over.
func (t *Table) TargetChunkSize() uint32 { return t.targetChunkSize }

// NewResult returns a table whose column metadata mirrors the given
// schema but which starts with zero chunks. It is the shape a scan
// operator builds its output into: every matching input chunk becomes
// one AppendReferenceChunk call.
func NewResult(names []string, types []dtype.Kind, nullable []bool) *Table {
	return &Table{
		columnNames:    append([]string(nil), names...),
		columnTypes:    append([]dtype.Kind(nil), types...),
		columnNullable: append([]bool(nil), nullable...),
		log:            zap.NewNop(),
	}
}

// AppendReferenceChunk appends a single new chunk holding exactly segs,
// one reference segment per column, all sharing the scan's position
// list. The resulting chunk reports IsMutable() == false since
// ReferenceSegment does not implement Appendable.
func (t *Table) AppendReferenceChunk(segs []segment.Segment) error {
	if dtype.Debug && len(segs) != len(t.columnNames) {
		panic(fmt.Sprintf("table: chunk has %d segments, table has %d columns", len(segs), len(t.columnNames)))
	}
	c := chunk.New()
	for _, s := range segs {
		c.AddSegment(s)
	}
	t.mu.Lock()
	t.chunks = append(t.chunks, c)
	t.mu.Unlock()
	return nil
}

// GetChunk returns the chunk at chunkID.
func (t *Table) GetChunk(chunkID uint32) (*chunk.Chunk, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if chunkID >= uint32(len(t.chunks)) {
		return nil, fmt.Errorf("table: chunk id %d: %w", chunkID, dtype.ErrUnknownColumn)
	}
	return t.chunks[chunkID], nil
}

// AsBaseTable adapts the table to segment.BaseTable, the minimal surface a
// ReferenceSegment resolves through. A distinct adapter type is required
// because GetChunk's concrete return type (*chunk.Chunk) does not
// structurally match segment.BaseTable's method signature even though
// *chunk.Chunk itself satisfies segment.BaseChunk.
func (t *Table) AsBaseTable() segment.BaseTable { return baseTableAdapter{t} }

type baseTableAdapter struct{ t *Table }

func (a baseTableAdapter) GetChunk(chunkID uint32) (segment.BaseChunk, error) {
	c, err := a.t.GetChunk(chunkID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// IsBaseTable reports whether bt is this table's own AsBaseTable adapter
// — used by scan tests to confirm that pipelined scans flatten their
// reference segments down to the original base table.
func (t *Table) IsBaseTable(bt segment.BaseTable) bool {
	a, ok := bt.(baseTableAdapter)
	return ok && a.t == t
}

// CompressChunk replaces chunkID's value segments with dictionary-encoded
// equivalents, one goroutine per column via errgroup. Each worker writes
// its finished segment into its own pre-allocated slot, so no mutex is
// needed to guard the fan-in — the join before the atomic chunk swap is
// the only synchronization point.
func (t *Table) CompressChunk(chunkID uint32) error {
	t.mu.Lock()
	if chunkID >= uint32(len(t.chunks)) {
		t.mu.Unlock()
		return fmt.Errorf("table: chunk id %d: %w", chunkID, dtype.ErrUnknownColumn)
	}
	src := t.chunks[chunkID]
	columnTypes := append([]dtype.Kind(nil), t.columnTypes...)
	t.mu.Unlock()

	log := t.log.With(zap.Uint32("chunk_id", chunkID), zap.Int("columns", len(columnTypes)))
	log.Debug("compress_chunk: start")

	compressed := make([]segment.Segment, len(columnTypes))
	g := new(errgroup.Group)
	for i := range columnTypes {
		i := i
		g.Go(func() error {
			raw, err := src.GetSegment(i)
			if err != nil {
				return err
			}
			ds, err := newDictionarySegment(columnTypes[i], raw)
			if err != nil {
				return fmt.Errorf("table: compress column %d: %w", i, err)
			}
			compressed[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("compress_chunk: failed", zap.Error(err))
		return err
	}

	newChunk := chunk.New()
	for _, s := range compressed {
		newChunk.AddSegment(s)
	}

	t.mu.Lock()
	t.chunks[chunkID] = newChunk
	t.mu.Unlock()

	log.Debug("compress_chunk: done", logutil.Values(zap.Int("rows", newChunk.Size())))
	return nil
}
