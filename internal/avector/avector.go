// Package avector implements the dictionary segment's attribute vector: a
// fixed-width integer array of value ids, backed by uint8, uint16 or
// uint32 depending on the largest id the caller asked for (see New for
// the thresholds). A largest id of exactly 256 or 65536 still selects the
// narrower backing, which cannot hold that id itself.
package avector

import (
	"fmt"

	"github.com/dyod/columnstore/internal/dtype"
)

// Vector is a fixed-width array of dictionary value ids.
type Vector interface {
	Get(i int) dtype.ValueID
	Set(i int, v dtype.ValueID)
	Len() int
	// Width returns the backing element width in bytes: 1, 2, or 4.
	Width() int
}

// New allocates a Vector of the given logical length, choosing the
// narrowest of the three backing widths per the dictionary segment's own
// thresholds: maxID <= 256 gets 1 byte, maxID <= 65536 gets 2 bytes,
// otherwise 4 bytes (maxID is normally the segment's null_value_id, the
// largest id that must be representable).
func New(length int, maxID dtype.ValueID) Vector {
	switch {
	case maxID <= 256:
		return &uint8Vector{data: make([]uint8, length)}
	case maxID <= 65536:
		return &uint16Vector{data: make([]uint16, length)}
	case uint64(maxID) <= 0xFFFFFFFF:
		return &uint32Vector{data: make([]uint32, length)}
	default:
		panic(fmt.Sprintf("avector: value id %d exceeds the largest representable width", maxID))
	}
}

type uint8Vector struct{ data []uint8 }

func (v *uint8Vector) Get(i int) dtype.ValueID {
	checkBounds(i, len(v.data))
	return dtype.ValueID(v.data[i])
}

func (v *uint8Vector) Set(i int, id dtype.ValueID) {
	checkBounds(i, len(v.data))
	v.data[i] = uint8(id)
}

func (v *uint8Vector) Len() int   { return len(v.data) }
func (v *uint8Vector) Width() int { return 1 }

type uint16Vector struct{ data []uint16 }

func (v *uint16Vector) Get(i int) dtype.ValueID {
	checkBounds(i, len(v.data))
	return dtype.ValueID(v.data[i])
}

func (v *uint16Vector) Set(i int, id dtype.ValueID) {
	checkBounds(i, len(v.data))
	v.data[i] = uint16(id)
}

func (v *uint16Vector) Len() int   { return len(v.data) }
func (v *uint16Vector) Width() int { return 2 }

type uint32Vector struct{ data []uint32 }

func (v *uint32Vector) Get(i int) dtype.ValueID {
	checkBounds(i, len(v.data))
	return dtype.ValueID(v.data[i])
}

func (v *uint32Vector) Set(i int, id dtype.ValueID) {
	checkBounds(i, len(v.data))
	v.data[i] = uint32(id)
}

func (v *uint32Vector) Len() int   { return len(v.data) }
func (v *uint32Vector) Width() int { return 4 }

func checkBounds(i, n int) {
	if dtype.Debug && (i < 0 || i >= n) {
		panic(fmt.Sprintf("avector: index %d out of bounds [0,%d)", i, n))
	}
}
