package operator

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dyod/columnstore/internal/dtype"
	"github.com/dyod/columnstore/internal/segment"
	"github.com/dyod/columnstore/internal/table"
)

// ScanType is one of the six relational predicates TableScan supports.
type ScanType int

const (
	Equals ScanType = iota
	NotEquals
	LessThan
	LessThanEquals
	GreaterThan
	GreaterThanEquals
)

func (s ScanType) String() string {
	switch s {
	case Equals:
		return "="
	case NotEquals:
		return "!="
	case LessThan:
		return "<"
	case LessThanEquals:
		return "<="
	case GreaterThan:
		return ">"
	case GreaterThanEquals:
		return ">="
	default:
		return fmt.Sprintf("ScanType(%d)", int(s))
	}
}

// TableScan is the predicate engine: it dispatches on the target column's
// segment encoding at execution time and produces a new table of
// zero-copy reference segments, preserving base-table provenance across
// pipelined scans.
type TableScan struct {
	Base

	columnID    int
	scanType    ScanType
	searchValue dtype.Variant
	log         *zap.Logger
}

// NewTableScan returns a scan operator reading columnID out of in's
// output, comparing each row against searchValue with scanType.
func NewTableScan(in Operator, columnID int, scanType ScanType, searchValue dtype.Variant) *TableScan {
	return &TableScan{Base: NewBase(in, nil), columnID: columnID, scanType: scanType, searchValue: searchValue, log: noopLogger}
}

// SetLogger replaces the operator's logger.
func (s *TableScan) SetLogger(log *zap.Logger) { s.log = log }

// ColumnID returns the scanned column id.
func (s *TableScan) ColumnID() int { return s.columnID }

// ScanType returns the comparison operator.
func (s *TableScan) ScanType() ScanType { return s.scanType }

// SearchValue returns the comparison's right-hand side.
func (s *TableScan) SearchValue() dtype.Variant { return s.searchValue }

// Execute implements Operator.
func (s *TableScan) Execute() error {
	out, err := s.onExecute()
	if err != nil {
		return err
	}
	return s.Finish(out)
}

func (s *TableScan) onExecute() (*table.Table, error) {
	corrID := uuid.New()
	log := s.log.With(zap.String("correlation_id", corrID.String()), zap.Int("column_id", s.columnID), zap.String("op", s.scanType.String()))

	input, err := s.LeftInputTable()
	if err != nil {
		return nil, err
	}

	names := input.ColumnNames()
	types := make([]dtype.Kind, len(names))
	nullable := make([]bool, len(names))
	for i := range names {
		k, err := input.ColumnType(i)
		if err != nil {
			return nil, err
		}
		n, err := input.ColumnNullable(i)
		if err != nil {
			return nil, err
		}
		types[i] = k
		nullable[i] = n
	}
	out := table.NewResult(names, types, nullable)

	if s.searchValue.IsNull() {
		log.Debug("table_scan: search value is NULL, returning empty result")
		return out, nil
	}

	kind, err := input.ColumnType(s.columnID)
	if err != nil {
		return nil, err
	}

	chunkCount := input.ChunkCount()
	var totalMatches int
	for chunkID := 0; chunkID < chunkCount; chunkID++ {
		c, err := input.GetChunk(uint32(chunkID))
		if err != nil {
			return nil, err
		}
		seg, err := c.GetSegment(s.columnID)
		if err != nil {
			return nil, err
		}

		posList, referencedTable, err := scanSegment(kind, seg, s.scanType, s.searchValue, uint32(chunkID), input)
		if err != nil {
			return nil, err
		}
		if len(posList) == 0 {
			continue
		}
		totalMatches += len(posList)

		segs := make([]segment.Segment, len(names))
		for col := range names {
			segs[col] = segment.NewReferenceSegment(referencedTable, col, posList)
		}
		if err := out.AppendReferenceChunk(segs); err != nil {
			return nil, err
		}
	}

	log.Debug("table_scan: done", zap.Int("matches", totalMatches))
	return out, nil
}

// scanSegment dispatches on kind to instantiate the right generic scan
// path, returning the chunk-local match position list plus the table
// reference segments in the output should ultimately resolve through
// (the scanned table itself, or — for a reference-segment scan — the
// base table the input was already indirecting into).
func scanSegment(kind dtype.Kind, seg segment.Segment, scanType ScanType, searchValue dtype.Variant, chunkID uint32, owner *table.Table) (segment.PosList, segment.BaseTable, error) {
	switch kind {
	case dtype.Int32:
		return scanTyped[int32](seg, scanType, searchValue, chunkID, owner)
	case dtype.Int64:
		return scanTyped[int64](seg, scanType, searchValue, chunkID, owner)
	case dtype.Float32:
		return scanTyped[float32](seg, scanType, searchValue, chunkID, owner)
	case dtype.Float64:
		return scanTyped[float64](seg, scanType, searchValue, chunkID, owner)
	case dtype.String:
		return scanTyped[string](seg, scanType, searchValue, chunkID, owner)
	default:
		panic("table_scan: unresolvable kind")
	}
}

func scanTyped[T dtype.Scalar](seg segment.Segment, scanType ScanType, searchValue dtype.Variant, chunkID uint32, owner *table.Table) (segment.PosList, segment.BaseTable, error) {
	switch s := seg.(type) {
	case *segment.ValueSegment[T]:
		sv := dtype.Cast[T](searchValue)
		cmp := compareOp[T](scanType)
		return scanValueSegment(s, cmp, sv, chunkID), owner.AsBaseTable(), nil
	case *segment.DictionarySegment[T]:
		sv := dtype.Cast[T](searchValue)
		return scanDictionarySegment(s, scanType, sv, chunkID), owner.AsBaseTable(), nil
	case *segment.ReferenceSegment:
		sv := dtype.Cast[T](searchValue)
		cmp := compareOp[T](scanType)
		posList, err := scanReferenceSegment[T](s, cmp, sv)
		return posList, s.ReferencedTable(), err
	default:
		return nil, nil, fmt.Errorf("table_scan: %w", dtype.ErrUnsupportedSeg)
	}
}

func compareOp[T dtype.Scalar](op ScanType) func(a, b T) bool {
	switch op {
	case Equals:
		return func(a, b T) bool { return a == b }
	case NotEquals:
		return func(a, b T) bool { return a != b }
	case LessThan:
		return func(a, b T) bool { return a < b }
	case LessThanEquals:
		return func(a, b T) bool { return a <= b }
	case GreaterThan:
		return func(a, b T) bool { return a > b }
	case GreaterThanEquals:
		return func(a, b T) bool { return a >= b }
	default:
		panic(fmt.Sprintf("table_scan: unresolvable scan type %d", int(op)))
	}
}

func scanValueSegment[T dtype.Scalar](s *segment.ValueSegment[T], cmp func(a, b T) bool, searchValue T, chunkID uint32) segment.PosList {
	var out segment.PosList
	n := s.Len()
	for i := 0; i < n; i++ {
		v, ok := s.GetTyped(i)
		if !ok {
			continue
		}
		if cmp(v, searchValue) {
			out = append(out, dtype.RowID{ChunkID: chunkID, ChunkOffset: uint32(i)})
		}
	}
	return out
}

// scanDictionarySegment implements the id-space fast path: lower_bound
// and upper_bound translate the value-level predicate into a value-id
// range once, then every row only needs an id comparison.
func scanDictionarySegment[T dtype.Scalar](s *segment.DictionarySegment[T], scanType ScanType, searchValue T, chunkID uint32) segment.PosList {
	d := dtype.ValueID(s.UniqueValuesCount())
	lb := s.LowerBound(searchValue)
	if lb == dtype.InvalidValueID {
		lb = d
	}
	ub := s.UpperBound(searchValue)
	if ub == dtype.InvalidValueID {
		ub = d
	}

	av := s.AttributeVector()
	nullID := s.NullValueID()
	n := s.Len()
	var out segment.PosList
	for i := 0; i < n; i++ {
		id := av.Get(i)
		if id == nullID {
			continue
		}
		var match bool
		switch scanType {
		case Equals:
			match = lb != ub && id == lb
		case NotEquals:
			if lb == ub {
				match = true
			} else {
				match = id != lb
			}
		case LessThan:
			match = id < lb
		case LessThanEquals:
			match = id < ub
		case GreaterThan:
			match = id >= ub
		case GreaterThanEquals:
			match = id >= lb
		}
		if match {
			out = append(out, dtype.RowID{ChunkID: chunkID, ChunkOffset: uint32(i)})
		}
	}
	return out
}

// scanReferenceSegment walks an already-built position list, resolving
// each row through the base table it indirects into, and passes through
// the original row id on match — flattening scan-of-scan chains to the
// ultimate base table.
func scanReferenceSegment[T dtype.Scalar](ref *segment.ReferenceSegment, cmp func(a, b T) bool, searchValue T) (segment.PosList, error) {
	baseTable := ref.ReferencedTable()
	var out segment.PosList
	for _, rowID := range ref.PosList() {
		if rowID.IsNull() {
			continue
		}
		baseChunk, err := baseTable.GetChunk(rowID.ChunkID)
		if err != nil {
			return nil, err
		}
		baseSeg, err := baseChunk.GetSegment(ref.ReferencedColumnID())
		if err != nil {
			return nil, err
		}
		switch baseSeg.(type) {
		case *segment.ValueSegment[T], *segment.DictionarySegment[T]:
		default:
			return nil, fmt.Errorf("table_scan: %w", dtype.ErrUnsupportedSeg)
		}
		v := baseSeg.Index(int(rowID.ChunkOffset))
		if v.IsNull() {
			continue
		}
		if cmp(dtype.Cast[T](v), searchValue) {
			out = append(out, rowID)
		}
	}
	return out, nil
}
