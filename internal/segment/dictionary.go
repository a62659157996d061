package segment

import (
	"fmt"
	"sort"

	"github.com/dyod/columnstore/internal/avector"
	"github.com/dyod/columnstore/internal/dtype"
)

// DictionarySegment holds a strictly sorted distinct dictionary plus an
// attribute vector of dictionary indices, one per source row. NULL is
// never stored in the dictionary; a row's attribute-vector entry equal to
// NullValueID marks it NULL directly from the source's null mask.
type DictionarySegment[T dtype.Scalar] struct {
	kind        dtype.Kind
	dictionary  []T
	av          avector.Vector
	nullValueID dtype.ValueID
}

// NewDictionarySegment builds a dictionary segment from a value segment's
// current contents: sort + unique the distinct non-null values, invert
// them into a value-id lookup, and encode every source row (including
// NULLs via the null mask) into a width-adaptive attribute vector.
func NewDictionarySegment[T dtype.Scalar](src *ValueSegment[T]) (*DictionarySegment[T], error) {
	n := src.Len()
	values := src.Values()
	nulls := src.NullValues()

	distinct := make([]T, 0, n)
	for i := 0; i < n; i++ {
		if nulls != nil && nulls[i] {
			continue
		}
		distinct = append(distinct, values[i])
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] < distinct[j] })
	distinct = uniqueAdjacent(distinct)

	d := len(distinct)
	nullValueID := dtype.ValueID(d)
	// one id for NULL, one reserved for INVALID, the rest for real values.
	if uint64(d)+2 > uint64(^uint32(0)) {
		return nil, fmt.Errorf("dictionary would need %d ids: %w", d+2, dtype.ErrEncodingOverflow)
	}

	inverse := make(map[T]dtype.ValueID, d)
	for id, v := range distinct {
		inverse[v] = dtype.ValueID(id)
	}

	av := avector.New(n, nullValueID)
	for i := 0; i < n; i++ {
		if nulls != nil && nulls[i] {
			av.Set(i, nullValueID)
			continue
		}
		av.Set(i, inverse[values[i]])
	}

	return &DictionarySegment[T]{
		kind:        src.kind,
		dictionary:  distinct,
		av:          av,
		nullValueID: nullValueID,
	}, nil
}

func uniqueAdjacent[T comparable](sorted []T) []T {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// Get returns the value at i, panicking on NULL.
func (s *DictionarySegment[T]) Get(i int) T {
	id := s.av.Get(i)
	if id == s.nullValueID {
		panic(fmt.Sprintf("dictionary segment: %v at position %d", dtype.ErrNullAccess, i))
	}
	return s.dictionary[id]
}

// GetTyped returns (value, true) or (zero, false) if row i is NULL.
func (s *DictionarySegment[T]) GetTyped(i int) (T, bool) {
	id := s.av.Get(i)
	if id == s.nullValueID {
		var zero T
		return zero, false
	}
	return s.dictionary[id], true
}

// Index implements Segment.
func (s *DictionarySegment[T]) Index(i int) dtype.Variant {
	id := s.av.Get(i)
	if id == s.nullValueID {
		return dtype.Null
	}
	return dtype.NewVariant(s.kind, s.dictionary[id])
}

// ValueOfValueID returns the dictionary entry for id; panics for
// NullValueID (querying the dictionary entry of NULL makes no sense).
func (s *DictionarySegment[T]) ValueOfValueID(id dtype.ValueID) T {
	if id == s.nullValueID {
		panic("dictionary segment: value_of_value_id called with null_value_id")
	}
	return s.dictionary[id]
}

// LowerBound returns the index of the first dictionary entry >= v, or
// InvalidValueID if none qualifies.
func (s *DictionarySegment[T]) LowerBound(v T) dtype.ValueID {
	idx := sort.Search(len(s.dictionary), func(i int) bool { return !(s.dictionary[i] < v) })
	if idx == len(s.dictionary) {
		return dtype.InvalidValueID
	}
	return dtype.ValueID(idx)
}

// UpperBound returns the index of the first dictionary entry > v, or
// InvalidValueID if none qualifies.
func (s *DictionarySegment[T]) UpperBound(v T) dtype.ValueID {
	idx := sort.Search(len(s.dictionary), func(i int) bool { return v < s.dictionary[i] })
	if idx == len(s.dictionary) {
		return dtype.InvalidValueID
	}
	return dtype.ValueID(idx)
}

// LowerBoundVariant/UpperBoundVariant accept a search value still wrapped
// as a Variant and cast it to T before the lookup.
func (s *DictionarySegment[T]) LowerBoundVariant(v dtype.Variant) dtype.ValueID {
	return s.LowerBound(dtype.Cast[T](v))
}

func (s *DictionarySegment[T]) UpperBoundVariant(v dtype.Variant) dtype.ValueID {
	return s.UpperBound(dtype.Cast[T](v))
}

// Dictionary returns the sorted distinct values backing this segment.
func (s *DictionarySegment[T]) Dictionary() []T { return s.dictionary }

// AttributeVector returns the dictionary-index array, one entry per row.
func (s *DictionarySegment[T]) AttributeVector() avector.Vector { return s.av }

// NullValueID returns the sentinel id marking NULL; always len(dictionary).
func (s *DictionarySegment[T]) NullValueID() dtype.ValueID { return s.nullValueID }

// UniqueValuesCount returns the number of distinct values, i.e.
// len(dictionary).
func (s *DictionarySegment[T]) UniqueValuesCount() int { return len(s.dictionary) }

// Len implements Segment.
func (s *DictionarySegment[T]) Len() int { return s.av.Len() }

// Kind returns the segment's element kind.
func (s *DictionarySegment[T]) Kind() dtype.Kind { return s.kind }

// EstimateMemoryUsage implements Segment: dictionary entries plus the
// attribute vector's width-adaptive footprint.
func (s *DictionarySegment[T]) EstimateMemoryUsage() int {
	var zero T
	return len(s.dictionary)*sizeOf(zero) + s.av.Len()*s.av.Width()
}
