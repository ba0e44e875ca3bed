package eval

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shapekit/dyn/ir"
)

func TestToAny(t *testing.T) {
	v := ir.Record(
		ir.Field{Name: "name", Value: ir.FromString("Alice")},
		ir.Field{Name: "age", Value: ir.FromInt32(30)},
		ir.Field{Name: "tags", Value: ir.Sequence(ir.FromString("a"), ir.FromString("b"))},
		ir.Field{Name: "nick", Value: ir.Some(ir.FromString("Ally"))},
		ir.Field{Name: "scores", Value: ir.MapOf(
			ir.Entry{Key: ir.FromString("math"), Value: ir.FromFloat64(9.5)},
		)},
	)
	want := map[string]any{
		"name": "Alice",
		"age":  30,
		"tags": []any{"a", "b"},
		"nick": map[string]any{"case": "Some", "value": "Ally"},
		"scores": map[string]any{
			"math": 9.5,
		},
	}
	if diff := cmp.Diff(want, ToAny(v)); diff != "" {
		t.Fatalf("ToAny mismatch (-want +got):\n%s", diff)
	}
}

func TestToAnyNonStringKeys(t *testing.T) {
	m := ir.MapOf(ir.Entry{Key: ir.FromInt32(1), Value: ir.FromString("one")})
	want := []any{[]any{1, "one"}}
	if diff := cmp.Diff(want, ToAny(m)); diff != "" {
		t.Fatalf("ToAny mismatch (-want +got):\n%s", diff)
	}
}

func TestFromAnyRoundtrip(t *testing.T) {
	in := map[string]any{
		"b": []any{int64(1), 2.5, "x", true, nil},
		"a": "first",
	}
	v, err := FromAny(in)
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	// Record fields come out in sorted key order.
	if v.Fields[0].Name != "a" || v.Fields[1].Name != "b" {
		t.Fatalf("field order = %s, want sorted keys", v)
	}
	if diff := cmp.Diff(in, ToAny(v)); diff != "" {
		t.Fatalf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}

// Unsigned values beyond the int64 range have no faithful
// representation and must not wrap around.
func TestFromAnyUnsignedRange(t *testing.T) {
	v, err := FromAny(uint64(5))
	if err != nil {
		t.Fatalf("FromAny(uint64(5)): %v", err)
	}
	if !ir.Equal(v, ir.FromInt64(5)) {
		t.Fatalf("FromAny(uint64(5)) = %s, want 5", v)
	}
	if _, err := FromAny(uint64(math.MaxUint64)); err == nil {
		t.Fatalf("max uint64 converted, want error")
	}
	if _, err := FromAny(uint(math.MaxUint64)); err == nil {
		t.Fatalf("max uint converted, want error")
	}
}

func TestFromAnyRejectsOpaque(t *testing.T) {
	if _, err := FromAny(struct{ X int }{1}); err == nil {
		t.Fatalf("opaque struct converted, want error")
	}
	if _, err := FromAny([]any{make(chan int)}); err == nil {
		t.Fatalf("channel converted, want error")
	}
}
