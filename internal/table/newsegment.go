package table

import (
	"github.com/dyod/columnstore/internal/dtype"
	"github.com/dyod/columnstore/internal/segment"
)

// newValueSegment is component A's narrow waist for segment construction:
// a runtime Kind becomes the static type parameter of the matching
// ValueSegment instantiation.
func newValueSegment(kind dtype.Kind, nullable bool) segment.Segment {
	return dtype.Resolve(kind, func(k dtype.Kind) segment.Segment {
		switch k {
		case dtype.Int32:
			return segment.NewValueSegment[int32](k, nullable)
		case dtype.Int64:
			return segment.NewValueSegment[int64](k, nullable)
		case dtype.Float32:
			return segment.NewValueSegment[float32](k, nullable)
		case dtype.Float64:
			return segment.NewValueSegment[float64](k, nullable)
		case dtype.String:
			return segment.NewValueSegment[string](k, nullable)
		default:
			panic("table: unresolvable kind in newValueSegment")
		}
	})
}

// newDictionarySegment compresses src (a Segment known to be the matching
// ValueSegment[T] for kind) into a DictionarySegment.
func newDictionarySegment(kind dtype.Kind, src segment.Segment) (segment.Segment, error) {
	switch kind {
	case dtype.Int32:
		return segment.NewDictionarySegment(src.(*segment.ValueSegment[int32]))
	case dtype.Int64:
		return segment.NewDictionarySegment(src.(*segment.ValueSegment[int64]))
	case dtype.Float32:
		return segment.NewDictionarySegment(src.(*segment.ValueSegment[float32]))
	case dtype.Float64:
		return segment.NewDictionarySegment(src.(*segment.ValueSegment[float64]))
	case dtype.String:
		return segment.NewDictionarySegment(src.(*segment.ValueSegment[string]))
	default:
		panic("table: unresolvable kind in newDictionarySegment")
	}
}
