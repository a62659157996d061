// Package chunk implements the horizontal partition of a table: an
// ordered list of segments, one per column, all sharing the same row
// cardinality.
package chunk

import (
	"fmt"

	"github.com/dyod/columnstore/internal/dtype"
	"github.com/dyod/columnstore/internal/segment"
)

// Chunk holds one segment per column. All segments in a chunk must report
// the same Size.
type Chunk struct {
	segments []segment.Segment
}

// New returns an empty chunk with no segments yet.
func New() *Chunk {
	return &Chunk{}
}

// AddSegment appends a new column to the chunk.
func (c *Chunk) AddSegment(s segment.Segment) {
	c.segments = append(c.segments, s)
}

// GetSegment returns the segment at columnID, failing with
// ErrUnknownColumn if out of range.
func (c *Chunk) GetSegment(columnID int) (segment.Segment, error) {
	if columnID < 0 || columnID >= len(c.segments) {
		return nil, fmt.Errorf("chunk: column %d: %w", columnID, dtype.ErrUnknownColumn)
	}
	return c.segments[columnID], nil
}

// ColumnCount returns the number of segments (columns) in the chunk.
func (c *Chunk) ColumnCount() int { return len(c.segments) }

// Size returns the chunk's row count — every segment's Len(), which must
// agree.
func (c *Chunk) Size() int {
	if len(c.segments) == 0 {
		return 0
	}
	return c.segments[0].Len()
}

// IsMutable reports whether every segment in the chunk still accepts
// appends. A chunk becomes immutable the instant any column is
// dictionary-encoded (or the chunk holds reference segments, i.e. is a
// scan result).
func (c *Chunk) IsMutable() bool {
	for _, s := range c.segments {
		if _, ok := s.(segment.Appendable); !ok {
			return false
		}
	}
	return true
}

// Append adds one value per column, type-dispatched to each column's
// segment. It panics if the row's arity does not match the column count
// (a debug-only contract violation, not a surfaced error) and fails with
// ErrInvalidArgument if the chunk is not mutable.
func (c *Chunk) Append(row []dtype.Variant) error {
	if dtype.Debug && len(row) != len(c.segments) {
		panic(fmt.Sprintf("chunk: row has %d values, chunk has %d columns", len(row), len(c.segments)))
	}
	if !c.IsMutable() {
		return fmt.Errorf("chunk: cannot append to a dictionary-encoded chunk: %w", dtype.ErrInvalidArgument)
	}
	for i, v := range row {
		appendable, ok := c.segments[i].(segment.Appendable)
		if !ok {
			return fmt.Errorf("chunk: column %d is not appendable: %w", i, dtype.ErrInvalidArgument)
		}
		if err := appendable.Append(v); err != nil {
			return err
		}
	}
	return nil
}
