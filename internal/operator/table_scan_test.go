package operator

import (
	"testing"

	"github.com/dyod/columnstore/internal/catalog"
	"github.com/dyod/columnstore/internal/dtype"
	"github.com/dyod/columnstore/internal/segment"
)

func runGetTable(t *testing.T, cat *catalog.Catalog, name string) *GetTable {
	t.Helper()
	op := NewGetTable(cat, name)
	if err := op.Execute(); err != nil {
		t.Fatalf("get_table execute: %v", err)
	}
	return op
}

func TestTableScanOverValueSegment(t *testing.T) {
	cat := catalog.New()
	tb := buildTable(t, 100, [][2]any{
		{int32(1), "a"}, {int32(2), "b"}, {int32(3), "c"}, {int32(4), "d"},
	})
	if err := cat.Add("t", tb); err != nil {
		t.Fatalf("add: %v", err)
	}
	src := runGetTable(t, cat, "t")

	scan := NewTableScan(src, 0, GreaterThan, dtype.NewVariant(dtype.Int32, int32(2)))
	if err := scan.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	out, err := scan.Output()
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	if got := out.RowCount(); got != 2 {
		t.Fatalf("row count = %d, want 2", got)
	}
}

func TestTableScanOverDictionarySegment(t *testing.T) {
	cat := catalog.New()
	tb := buildTable(t, 100, [][2]any{
		{int32(1), "a"}, {int32(2), "b"}, {int32(3), "c"}, {int32(4), "d"},
	})
	if err := tb.CompressChunk(0); err != nil {
		t.Fatalf("compress_chunk: %v", err)
	}
	if err := cat.Add("t", tb); err != nil {
		t.Fatalf("add: %v", err)
	}
	src := runGetTable(t, cat, "t")

	scan := NewTableScan(src, 0, LessThanEquals, dtype.NewVariant(dtype.Int32, int32(2)))
	if err := scan.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	out, err := scan.Output()
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	if got := out.RowCount(); got != 2 {
		t.Fatalf("row count = %d, want 2", got)
	}
}

func TestTableScanNullSearchValueShortCircuits(t *testing.T) {
	cat := catalog.New()
	tb := buildTable(t, 100, [][2]any{{int32(1), "a"}})
	if err := cat.Add("t", tb); err != nil {
		t.Fatalf("add: %v", err)
	}
	src := runGetTable(t, cat, "t")

	scan := NewTableScan(src, 0, Equals, dtype.Null)
	if err := scan.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	out, err := scan.Output()
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	if got := out.RowCount(); got != 0 {
		t.Fatalf("row count = %d, want 0", got)
	}
	if got := out.ColumnCount(); got != 2 {
		t.Fatalf("column count = %d, want 2", got)
	}
}

func TestTableScanSkipsNullRows(t *testing.T) {
	cat := catalog.New()
	tb := buildTable(t, 100, [][2]any{
		{int32(1), "a"}, {int32(2), nil}, {int32(3), "c"},
	})
	if err := cat.Add("t", tb); err != nil {
		t.Fatalf("add: %v", err)
	}
	src := runGetTable(t, cat, "t")

	scan := NewTableScan(src, 1, NotEquals, dtype.NewVariant(dtype.String, "c"))
	if err := scan.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	out, err := scan.Output()
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	// row 2 (index 1) is NULL and must never match, even via !=.
	if got := out.RowCount(); got != 1 {
		t.Fatalf("row count = %d, want 1", got)
	}
}

func TestTableScanFlattensScanOfScan(t *testing.T) {
	cat := catalog.New()
	tb := buildTable(t, 100, [][2]any{
		{int32(1), "a"}, {int32(2), "b"}, {int32(3), "c"}, {int32(4), "d"},
	})
	if err := cat.Add("t", tb); err != nil {
		t.Fatalf("add: %v", err)
	}
	src := runGetTable(t, cat, "t")

	first := NewTableScan(src, 0, GreaterThan, dtype.NewVariant(dtype.Int32, int32(1))) // ids 2,3,4
	if err := first.Execute(); err != nil {
		t.Fatalf("first execute: %v", err)
	}

	second := NewTableScan(first, 0, LessThan, dtype.NewVariant(dtype.Int32, int32(3))) // ids 2
	if err := second.Execute(); err != nil {
		t.Fatalf("second execute: %v", err)
	}
	out, err := second.Output()
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	if got := out.RowCount(); got != 1 {
		t.Fatalf("row count = %d, want 1", got)
	}

	c, err := out.GetChunk(0)
	if err != nil {
		t.Fatalf("get_chunk(0): %v", err)
	}
	seg, err := c.GetSegment(0)
	if err != nil {
		t.Fatalf("get_segment(0): %v", err)
	}
	ref, ok := seg.(*segment.ReferenceSegment)
	if !ok {
		t.Fatalf("segment type = %T, want *segment.ReferenceSegment", seg)
	}
	if !tb.IsBaseTable(ref.ReferencedTable()) {
		t.Fatal("second scan's reference segment does not flatten to the original base table")
	}
	if got := dtype.Cast[int32](seg.Index(0)); got != 2 {
		t.Fatalf("matched row id = %d, want 2", got)
	}
}
