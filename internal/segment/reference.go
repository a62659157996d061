package segment

import (
	"fmt"

	"github.com/dyod/columnstore/internal/dtype"
)

// ReferenceSegment is the runtime representation of an intermediate query
// result without materialization: a position list into a base table's
// column, never into another reference segment (scans flatten those).
type ReferenceSegment struct {
	referencedTable    BaseTable
	referencedColumnID int
	posList            PosList
}

// NewReferenceSegment builds a reference segment over posList, a position
// list shared verbatim (not copied) across every reference segment that a
// single scan emits.
func NewReferenceSegment(referencedTable BaseTable, referencedColumnID int, posList PosList) *ReferenceSegment {
	return &ReferenceSegment{
		referencedTable:    referencedTable,
		referencedColumnID: referencedColumnID,
		posList:            posList,
	}
}

// Index resolves row i through the position list and base table, returning
// NULL for a null row id or for an underlying NULL value.
func (s *ReferenceSegment) Index(i int) dtype.Variant {
	rowID := s.posList[i]
	if rowID.IsNull() {
		return dtype.Null
	}
	chunk, err := s.referencedTable.GetChunk(rowID.ChunkID)
	if err != nil {
		panic(fmt.Sprintf("reference segment: %v", err))
	}
	base, err := chunk.GetSegment(s.referencedColumnID)
	if err != nil {
		panic(fmt.Sprintf("reference segment: %v", err))
	}
	if dtype.Debug && int(rowID.ChunkOffset) >= base.Len() {
		panic(fmt.Sprintf("reference segment: row id offset %d out of bounds [0,%d)", rowID.ChunkOffset, base.Len()))
	}
	return base.Index(int(rowID.ChunkOffset))
}

// Len implements Segment.
func (s *ReferenceSegment) Len() int { return len(s.posList) }

// PosList returns the shared position list backing this segment.
func (s *ReferenceSegment) PosList() PosList { return s.posList }

// ReferencedTable returns the base table this segment ultimately
// indirects through.
func (s *ReferenceSegment) ReferencedTable() BaseTable { return s.referencedTable }

// ReferencedColumnID returns the column id within the referenced table.
func (s *ReferenceSegment) ReferencedColumnID() int { return s.referencedColumnID }

// EstimateMemoryUsage implements Segment.
func (s *ReferenceSegment) EstimateMemoryUsage() int {
	return len(s.posList) * 8 // two uint32 fields per RowID
}
