// Package testdata builds deterministic synthetic tables for tests that
// need bulk data — e.g. the multi-column compress_chunk stress coverage —
// without depending on wall-clock-seeded randomness.
package testdata

import (
	"encoding/binary"
	"fmt"
	"io"

	faker "github.com/go-faker/faker/v4"

	"github.com/dyod/columnstore/internal/dtype"
	"github.com/dyod/columnstore/internal/table"
	"github.com/dyod/columnstore/pkg/prng"
)

// intSource draws bounded pseudo-random int32s off a deterministic
// io.Reader, the same prng.Reader shape faker accepts as a crypto source.
type intSource struct {
	r   io.Reader
	buf [8]byte
}

func newIntSource(seed int64) *intSource {
	return &intSource{r: prng.New(seed)}
}

func (s *intSource) next(bound int32) int32 {
	if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
		panic(fmt.Sprintf("testdata: prng read failed: %v", err))
	}
	v := int64(binary.LittleEndian.Uint64(s.buf[:]))
	if v < 0 {
		v = -v
	}
	return int32(v % int64(bound))
}

// GenerateWideIntTable builds a numColumns-wide, numRows-tall all-int32
// table, every value in [0, 100), seeded deterministically — the shape
// CompressChunk's parallel fan-out needs many columns to exercise.
func GenerateWideIntTable(numColumns, numRows int, targetChunkSize uint32, seed int64) (*table.Table, [][]int32, error) {
	tb := table.New(targetChunkSize)
	for col := 0; col < numColumns; col++ {
		if err := tb.AddColumn(fmt.Sprintf("col_%d", col), dtype.Int32, false); err != nil {
			return nil, nil, err
		}
	}

	src := newIntSource(seed)
	snapshot := make([][]int32, numRows)
	for row := 0; row < numRows; row++ {
		values := make([]dtype.Variant, numColumns)
		rowSnapshot := make([]int32, numColumns)
		for col := 0; col < numColumns; col++ {
			v := src.next(100)
			values[col] = dtype.NewVariant(dtype.Int32, v)
			rowSnapshot[col] = v
		}
		if err := tb.Append(values); err != nil {
			return nil, nil, err
		}
		snapshot[row] = rowSnapshot
	}
	return tb, snapshot, nil
}

// GeneratePersonTable builds an (id int32, external_id string) table,
// the external_id column filled by faker's UUID generator seeded through
// the same deterministic reader prng.New hands out elsewhere in the
// engine, so repeated test runs see identical data.
func GeneratePersonTable(numRows int, targetChunkSize uint32, seed int64) (*table.Table, error) {
	faker.SetCryptoSource(prng.New(seed))

	tb := table.New(targetChunkSize)
	if err := tb.AddColumn("id", dtype.Int32, false); err != nil {
		return nil, err
	}
	if err := tb.AddColumn("external_id", dtype.String, false); err != nil {
		return nil, err
	}
	for row := 0; row < numRows; row++ {
		values := []dtype.Variant{
			dtype.NewVariant(dtype.Int32, int32(row)),
			dtype.NewVariant(dtype.String, faker.UUIDHyphenated()),
		}
		if err := tb.Append(values); err != nil {
			return nil, err
		}
	}
	return tb, nil
}
