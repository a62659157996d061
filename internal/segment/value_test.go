package segment

import (
	"testing"

	"github.com/dyod/columnstore/internal/dtype"
)

func TestValueSegmentAppendAndGet(t *testing.T) {
	s := NewValueSegment[int32](dtype.Int32, false)
	s.AppendValue(4)
	s.AppendValue(6)
	s.AppendValue(3)
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	if got := s.Get(1); got != 6 {
		t.Fatalf("Get(1) = %d, want 6", got)
	}
}

func TestValueSegmentNullHandling(t *testing.T) {
	s := NewValueSegment[string](dtype.String, true)
	if err := s.Append(dtype.NewVariant(dtype.String, "a")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Append(dtype.Null); err != nil {
		t.Fatalf("append null: %v", err)
	}
	if !s.IsNull(1) {
		t.Fatal("IsNull(1) = false, want true")
	}
	if _, ok := s.GetTyped(1); ok {
		t.Fatal("GetTyped(1) reported non-null for a NULL row")
	}
	if v := s.Index(0); v.IsNull() {
		t.Fatal("Index(0) reported NULL for a set row")
	}
	if v := s.Index(1); !v.IsNull() {
		t.Fatal("Index(1) reported non-NULL for a NULL row")
	}
}

func TestValueSegmentAppendNullRejectedWhenNotNullable(t *testing.T) {
	s := NewValueSegment[int32](dtype.Int32, false)
	if err := s.Append(dtype.Null); err == nil {
		t.Fatal("appending NULL to a non-nullable segment expected error, got nil")
	}
}

func TestValueSegmentGetPanicsOnNull(t *testing.T) {
	s := NewValueSegment[int32](dtype.Int32, true)
	_ = s.Append(dtype.Null)
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("Get on a NULL row expected to panic, did not")
		}
	}()
	s.Get(0)
}
