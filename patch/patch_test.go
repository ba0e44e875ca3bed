package patch

import (
	"testing"

	"github.com/shapekit/dyn/ir"
)

func agePatch(delta int64) Patch {
	return Patch{Ops: []Op{{
		At:        ir.Root().Field("age"),
		Operation: PrimitiveDelta{Delta: IntDelta{PrimKind: ir.PrimInt32, Delta: delta}},
	}}}
}

func namePatch(name string) Patch {
	return Patch{Ops: []Op{{
		At:        ir.Root().Field("name"),
		Operation: Set{Value: ir.FromString(name)},
	}}}
}

func testPerson() *ir.Value {
	return ir.Record(
		ir.Field{Name: "name", Value: ir.FromString("Alice")},
		ir.Field{Name: "age", Value: ir.FromInt32(30)},
	)
}

func mustApply(t *testing.T, p Patch, v *ir.Value) *ir.Value {
	t.Helper()
	got, err := p.Apply(v, Strict)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	return got
}

func TestMonoidIdentity(t *testing.T) {
	v := testPerson()
	p := agePatch(1)
	left := mustApply(t, Empty().Concat(p), v)
	right := mustApply(t, p.Concat(Empty()), v)
	plain := mustApply(t, p, v)
	if !ir.Equal(left, plain) || !ir.Equal(right, plain) {
		t.Fatalf("empty is not an identity: %s / %s / %s", left, right, plain)
	}
}

func TestMonoidAssociativity(t *testing.T) {
	v := testPerson()
	p1, p2, p3 := agePatch(1), namePatch("Bob"), agePatch(5)
	a := mustApply(t, p1.Concat(p2).Concat(p3), v)
	b := mustApply(t, p1.Concat(p2.Concat(p3)), v)
	if !ir.Equal(a, b) {
		t.Fatalf("association changed the result: %s vs %s", a, b)
	}
	want := ir.Record(
		ir.Field{Name: "name", Value: ir.FromString("Bob")},
		ir.Field{Name: "age", Value: ir.FromInt32(36)},
	)
	if !ir.Equal(a, want) {
		t.Fatalf("concat apply = %s, want %s", a, want)
	}
}

func TestConcatOrder(t *testing.T) {
	v := testPerson()
	p := namePatch("Bob").Concat(namePatch("Carol"))
	got := mustApply(t, p, v)
	if !ir.Equal(ir.Get(got, "name"), ir.FromString("Carol")) {
		t.Fatalf("later op did not win: %s", got)
	}
}

func TestIsEmpty(t *testing.T) {
	if !Empty().IsEmpty() {
		t.Fatalf("Empty() is not empty")
	}
	if agePatch(0).IsEmpty() {
		t.Fatalf("non-empty patch reports empty")
	}
}

func TestReRoot(t *testing.T) {
	v := ir.Record(ir.Field{Name: "owner", Value: testPerson()})
	p := agePatch(1).ReRoot(ir.Root().Field("owner"))
	got := mustApply(t, p, v)
	if !ir.Equal(ir.Get(ir.Get(got, "owner"), "age"), ir.FromInt32(31)) {
		t.Fatalf("re-rooted patch missed: %s", got)
	}
}
