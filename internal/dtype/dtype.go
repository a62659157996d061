// Package dtype holds the closed set of scalar element kinds the storage
// engine understands, the AllTypeVariant tagged-value sum type, row
// addressing, and the error taxonomy surfaced by the rest of the engine.
package dtype

import (
	"errors"
	"fmt"
)

// Debug gates the bounds/arity checks the original C++ kernel reserved for
// debug builds (DebugAssert). Tests run with it enabled; a long-running
// embedding that has already validated its call sites may turn it off.
var Debug = true

// Kind identifies one of the closed set of column element types. Every
// generic segment and scan operation dispatches on a Kind via Resolve.
type Kind int

const (
	Int32 Kind = iota
	Int64
	Float32
	Float64
	String
)

func (k Kind) String() string {
	switch k {
	case Int32:
		return "int"
	case Int64:
		return "long"
	case Float32:
		return "float"
	case Float64:
		return "double"
	case String:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps the closed, string-addressed type names accepted at the
// table boundary (add_column / column_type) to a Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "int":
		return Int32, nil
	case "long":
		return Int64, nil
	case "float":
		return Float32, nil
	case "double":
		return Float64, nil
	case "string":
		return String, nil
	default:
		return 0, fmt.Errorf("dtype: unknown type name %q: %w", name, ErrInvalidArgument)
	}
}

// Resolve invokes fn with a Kind witness. The switch is the single narrow
// waist where a runtime type tag becomes the static type parameter used by
// generic segment/scan code; an unrecognized Kind is a contract violation,
// not a surfaced error.
func Resolve[R any](k Kind, fn func(k Kind) R) R {
	switch k {
	case Int32, Int64, Float32, Float64, String:
		return fn(k)
	default:
		panic(fmt.Sprintf("dtype: unresolvable kind %d", int(k)))
	}
}

// RowID addresses a single row within a table: the chunk it lives in and
// its offset within that chunk.
type RowID struct {
	ChunkID     uint32
	ChunkOffset uint32
}

// NullRowID is the sentinel row id meaning "no row" — e.g. a reference
// segment position pointing at a row that no longer exists.
var NullRowID = RowID{ChunkID: ^uint32(0), ChunkOffset: ^uint32(0)}

// IsNull reports whether r is the null row id sentinel.
func (r RowID) IsNull() bool { return r == NullRowID }

// ValueID indexes into a dictionary segment's sorted distinct values.
// INVALID_VALUE_ID marks "no such dictionary entry" and is distinct from
// every real id and from a segment's own null_value_id.
type ValueID uint32

// InvalidValueID is the sentinel meaning "not found" in a dictionary
// lookup (lower_bound/upper_bound past the end, or no match).
const InvalidValueID ValueID = ^ValueID(0)

// Variant is the tagged sum of the scalar kinds plus a distinguished NULL,
// the AllTypeVariant of spec.md.
type Variant struct {
	kind  Kind
	isSet bool
	i64   int64
	f64   float64
	str   string
}

// Null is the distinguished NULL variant.
var Null = Variant{}

// NewVariant wraps a concrete Go value as a Variant of kind k.
func NewVariant[T Scalar](k Kind, v T) Variant {
	vv := Variant{kind: k, isSet: true}
	switch any(v).(type) {
	case string:
		vv.str = any(v).(string)
	case float32:
		vv.f64 = float64(any(v).(float32))
	case float64:
		vv.f64 = any(v).(float64)
	case int32:
		vv.i64 = int64(any(v).(int32))
	case int64:
		vv.i64 = any(v).(int64)
	}
	return vv
}

// IsNull reports whether v represents NULL.
func (v Variant) IsNull() bool { return !v.isSet }

// Kind returns the variant's element kind; meaningless if IsNull.
func (v Variant) Kind() Kind { return v.kind }

// Cast converts v to T, the compile-time type matching k. It panics on a
// genuine kind mismatch (a programming-contract violation per spec.md §4
// Failure policy) and converts freely between compatible numeric kinds.
func Cast[T Scalar](v Variant) T {
	var zero T
	if v.IsNull() {
		panic("dtype: cannot cast NULL variant")
	}
	switch any(zero).(type) {
	case string:
		if v.kind != String {
			panic(fmt.Sprintf("dtype: cannot cast %s variant to string", v.kind))
		}
		return any(v.str).(T)
	case int32:
		if !isNumeric(v.kind) {
			panic(fmt.Sprintf("dtype: cannot cast %s variant to int32", v.kind))
		}
		if v.kind == Float32 || v.kind == Float64 {
			return any(int32(v.f64)).(T)
		}
		return any(int32(v.i64)).(T)
	case int64:
		if !isNumeric(v.kind) {
			panic(fmt.Sprintf("dtype: cannot cast %s variant to int64", v.kind))
		}
		if v.kind == Float32 || v.kind == Float64 {
			return any(int64(v.f64)).(T)
		}
		return any(v.i64).(T)
	case float32:
		if !isNumeric(v.kind) {
			panic(fmt.Sprintf("dtype: cannot cast %s variant to float32", v.kind))
		}
		if v.kind == Float32 || v.kind == Float64 {
			return any(float32(v.f64)).(T)
		}
		return any(float32(v.i64)).(T)
	case float64:
		if !isNumeric(v.kind) {
			panic(fmt.Sprintf("dtype: cannot cast %s variant to float64", v.kind))
		}
		if v.kind == Float32 || v.kind == Float64 {
			return any(v.f64).(T)
		}
		return any(float64(v.i64)).(T)
	default:
		panic("dtype: unsupported cast target type")
	}
}

func isNumeric(k Kind) bool {
	switch k {
	case Int32, Int64, Float32, Float64:
		return true
	default:
		return false
	}
}

// Scalar is the closed set of Go types a column element can hold.
type Scalar interface {
	~int32 | ~int64 | ~float32 | ~float64 | ~string
}

// Error taxonomy (spec.md §7). These are the surfaced, recoverable
// failures; programming-contract violations (bounds, arity, type-tag
// mismatch) panic instead, matching the original's Fail/DebugAssert split.
var (
	ErrUnknownTable     = errors.New("dtype: unknown table")
	ErrUnknownColumn    = errors.New("dtype: unknown column")
	ErrDuplicateColumn  = errors.New("dtype: duplicate column")
	ErrDuplicateTable   = errors.New("dtype: duplicate table")
	ErrNullAccess       = errors.New("dtype: null access")
	ErrInvalidArgument  = errors.New("dtype: invalid argument")
	ErrUnsupportedSeg   = errors.New("dtype: unsupported segment encoding")
	ErrEncodingOverflow = errors.New("dtype: dictionary encoding would overflow")
	ErrNotExecuted      = errors.New("dtype: operator output requested before execute")
)
