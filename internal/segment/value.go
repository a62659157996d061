package segment

import (
	"fmt"

	"github.com/dyod/columnstore/internal/dtype"
)

// ValueSegment is a dense, typed column with an optional per-element NULL
// mark. Append is O(1) amortized.
type ValueSegment[T dtype.Scalar] struct {
	kind     dtype.Kind
	nullable bool
	values   []T
	nullMask []bool
}

// NewValueSegment returns an empty value segment for the given kind.
func NewValueSegment[T dtype.Scalar](kind dtype.Kind, nullable bool) *ValueSegment[T] {
	return &ValueSegment[T]{kind: kind, nullable: nullable}
}

// Append adds v (possibly NULL) to the end of the segment. Appending NULL
// to a non-nullable segment fails with ErrInvalidArgument.
func (s *ValueSegment[T]) Append(v dtype.Variant) error {
	if v.IsNull() {
		if !s.nullable {
			return fmt.Errorf("value segment is not nullable: %w", dtype.ErrInvalidArgument)
		}
		var zero T
		s.values = append(s.values, zero)
		s.nullMask = append(s.nullMask, true)
		return nil
	}
	s.values = append(s.values, dtype.Cast[T](v))
	s.nullMask = append(s.nullMask, false)
	return nil
}

// AppendValue is the typed convenience form of Append for non-NULL data,
// used by generic callers that already hold a concrete T (e.g. the
// dictionary segment and testdata generators).
func (s *ValueSegment[T]) AppendValue(v T) {
	s.values = append(s.values, v)
	s.nullMask = append(s.nullMask, false)
}

// Get returns the value at i, panicking with ErrNullAccess semantics if it
// is NULL — callers that must tolerate NULL should use GetTyped.
func (s *ValueSegment[T]) Get(i int) T {
	s.checkBounds(i)
	if s.nullMask != nil && s.nullMask[i] {
		panic(fmt.Sprintf("value segment: %v at position %d", dtype.ErrNullAccess, i))
	}
	return s.values[i]
}

// GetTyped returns (value, true) or (zero, false) if the row is NULL.
func (s *ValueSegment[T]) GetTyped(i int) (T, bool) {
	s.checkBounds(i)
	if s.nullMask != nil && s.nullMask[i] {
		var zero T
		return zero, false
	}
	return s.values[i], true
}

// IsNull reports whether row i is NULL.
func (s *ValueSegment[T]) IsNull(i int) bool {
	s.checkBounds(i)
	return s.nullMask != nil && s.nullMask[i]
}

// Index implements Segment.
func (s *ValueSegment[T]) Index(i int) dtype.Variant {
	s.checkBounds(i)
	if s.nullMask != nil && s.nullMask[i] {
		return dtype.Null
	}
	return dtype.NewVariant(s.kind, s.values[i])
}

// Values returns the dense backing slice (NULL positions hold the zero
// value; consult NullValues to tell them apart).
func (s *ValueSegment[T]) Values() []T { return s.values }

// NullValues returns the per-row NULL mask (nil while the segment is
// empty). A non-nullable segment keeps the mask too, with every entry
// false.
func (s *ValueSegment[T]) NullValues() []bool { return s.nullMask }

// IsNullable reports whether this segment accepts NULL.
func (s *ValueSegment[T]) IsNullable() bool { return s.nullable }

// Len implements Segment.
func (s *ValueSegment[T]) Len() int { return len(s.values) }

// Kind returns the segment's element kind.
func (s *ValueSegment[T]) Kind() dtype.Kind { return s.kind }

// EstimateMemoryUsage implements Segment.
func (s *ValueSegment[T]) EstimateMemoryUsage() int {
	var zero T
	return len(s.values)*sizeOf(zero) + len(s.nullMask)
}

func (s *ValueSegment[T]) checkBounds(i int) {
	if dtype.Debug && (i < 0 || i >= len(s.values)) {
		panic(fmt.Sprintf("value segment: index %d out of bounds [0,%d)", i, len(s.values)))
	}
}

func sizeOf(v any) int {
	switch v.(type) {
	case int32, float32:
		return 4
	case int64, float64:
		return 8
	case string:
		return 16 // header estimate; actual bytes vary with content
	default:
		return 8
	}
}
