package operator

import (
	"errors"
	"testing"

	"github.com/dyod/columnstore/internal/catalog"
	"github.com/dyod/columnstore/internal/dtype"
	"github.com/dyod/columnstore/internal/table"
)

func buildTable(t *testing.T, targetChunkSize uint32, rows [][2]any) *table.Table {
	t.Helper()
	tb := table.New(targetChunkSize)
	if err := tb.AddColumn("id", dtype.Int32, false); err != nil {
		t.Fatalf("add_column id: %v", err)
	}
	if err := tb.AddColumn("name", dtype.String, true); err != nil {
		t.Fatalf("add_column name: %v", err)
	}
	for _, row := range rows {
		id := dtype.NewVariant(dtype.Int32, row[0].(int32))
		var name dtype.Variant
		if row[1] == nil {
			name = dtype.Null
		} else {
			name = dtype.NewVariant(dtype.String, row[1].(string))
		}
		if err := tb.Append([]dtype.Variant{id, name}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	return tb
}

func TestGetTableUnknown(t *testing.T) {
	cat := catalog.New()
	op := NewGetTable(cat, "missing")
	if err := op.Execute(); err == nil {
		t.Fatal("execute against missing table expected error, got nil")
	}
	if _, err := op.Output(); err == nil {
		t.Fatal("output after failed execute expected error, got nil")
	}
}

func TestGetTableRoundtrip(t *testing.T) {
	cat := catalog.New()
	tb := buildTable(t, 10, [][2]any{{int32(1), "a"}})
	if err := cat.Add("t", tb); err != nil {
		t.Fatalf("add: %v", err)
	}
	op := NewGetTable(cat, "t")
	if err := op.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	out, err := op.Output()
	if err != nil || out != tb {
		t.Fatalf("output() = (%v, %v), want original table", out, err)
	}
}

func TestOutputBeforeExecuteFails(t *testing.T) {
	cat := catalog.New()
	op := NewGetTable(cat, "t")
	_, err := op.Output()
	if !errors.Is(err, dtype.ErrNotExecuted) {
		t.Fatalf("output before execute = %v, want ErrNotExecuted", err)
	}
}

func TestExecuteTwicePanics(t *testing.T) {
	cat := catalog.New()
	tb := buildTable(t, 10, [][2]any{{int32(1), "a"}})
	if err := cat.Add("t", tb); err != nil {
		t.Fatalf("add: %v", err)
	}
	op := NewGetTable(cat, "t")
	if err := op.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("second execute expected to panic, did not")
		}
	}()
	_ = op.Execute()
}
