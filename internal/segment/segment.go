// Package segment implements the three segment encodings a chunk's
// columns can hold: dense value segments, dictionary-compressed segments,
// and reference segments that indirect into a base table.
package segment

import "github.com/dyod/columnstore/internal/dtype"

// Segment is the common, encoding-erased interface a Chunk stores one of
// per column.
type Segment interface {
	// Len returns the number of rows in this segment.
	Len() int
	// Index returns the value at position i as a tagged Variant, NULL for
	// a NULL row.
	Index(i int) dtype.Variant
	// EstimateMemoryUsage returns an approximate byte footprint.
	EstimateMemoryUsage() int
}

// PosList is an ordered, immutable sequence of row ids produced by a scan.
// Multiple reference segments from the same scan share one PosList by
// holding the same slice header — no duplication of the backing array.
type PosList []dtype.RowID

// BaseChunk is the minimal chunk surface a ReferenceSegment needs to
// resolve through a base table, kept here (rather than importing the
// chunk package) to avoid a segment<->chunk<->table import cycle.
type BaseChunk interface {
	GetSegment(columnID int) (Segment, error)
}

// BaseTable is the minimal table surface a ReferenceSegment needs.
type BaseTable interface {
	GetChunk(chunkID uint32) (BaseChunk, error)
}

// Appendable is a Segment that can still accept rows — a value segment.
// Dictionary and reference segments intentionally do not implement it: a
// chunk becomes append-only-rejected the moment any of its segments is
// compressed or is itself a scan result.
type Appendable interface {
	Segment
	Append(v dtype.Variant) error
}
