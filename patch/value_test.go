package patch

import (
	"math/big"
	"testing"
	"time"

	"github.com/shapekit/dyn/ir"
)

// A patch survives the trip through its value representation: decoding
// the encoding applies identically.
func TestPatchValueRoundtrip(t *testing.T) {
	p := Patch{Ops: []Op{
		{
			At:        ir.Root().Field("name"),
			Operation: Set{Value: ir.FromString("Bob")},
		},
		{
			At:        ir.Root().Field("age"),
			Operation: PrimitiveDelta{Delta: IntDelta{PrimKind: ir.PrimInt32, Delta: 1}},
		},
		{
			At: ir.Root().Field("tags"),
			Operation: SequenceEdit{Edits: []SeqOp{
				InsertAt(0, ir.FromString("new")),
				DeleteAt(2, 1),
				Append(ir.FromString("last")),
			}},
		},
		{
			At: ir.Root().Field("index"),
			Operation: MapEdit{Edits: []MapOp{
				AddKey(ir.FromString("k"), ir.FromBool(true)),
				RemoveKey(ir.FromString("old")),
				ModifyKey(ir.FromString("n"), Patch{Ops: []Op{{
					At:        ir.Root(),
					Operation: PrimitiveDelta{Delta: FloatDelta{PrimKind: ir.PrimFloat64, Delta: 0.5}},
				}}}),
			}},
		},
		{
			At: ir.Root().Field("owner"),
			Operation: Nested{Patch: Patch{Ops: []Op{{
				At:        ir.Root().Field("since"),
				Operation: PrimitiveDelta{Delta: DurationDelta{PrimKind: ir.PrimDuration, Delta: time.Minute}},
			}}}},
		},
		{
			At:        ir.Root().At(3).Case("Some").Elements().MapKeys().Wrapped(),
			Operation: PrimitiveDelta{Delta: BigIntDelta{Delta: big.NewInt(42)}},
		},
	}}

	decoded, err := FromValue(p.ToValue())
	if err != nil {
		t.Fatalf("FromValue: %v", err)
	}
	if !ir.Equal(decoded.ToValue(), p.ToValue()) {
		t.Fatalf("roundtrip changed the patch:\n got %s\nwant %s", decoded.ToValue(), p.ToValue())
	}
	if len(decoded.Ops) != len(p.Ops) {
		t.Fatalf("got %d ops, want %d", len(decoded.Ops), len(p.Ops))
	}
	for i := range p.Ops {
		if decoded.Ops[i].At.String() != p.Ops[i].At.String() {
			t.Errorf("op %d path = %s, want %s", i, decoded.Ops[i].At, p.Ops[i].At)
		}
	}
}

func TestFromValueRejectsJunk(t *testing.T) {
	if _, err := FromValue(ir.FromInt32(3)); err == nil {
		t.Fatalf("decoding a primitive succeeded, want error")
	}
	bad := ir.Sequence(ir.Record(
		ir.Field{Name: "path", Value: ir.Sequence()},
		ir.Field{Name: "op", Value: ir.Variant("Bogus", ir.Unit())},
	))
	if _, err := FromValue(bad); err == nil {
		t.Fatalf("decoding an unknown op case succeeded, want error")
	}
}

// Well-cased variants with mangled bodies must come back as errors, not
// panics.
func TestFromValueMalformedShapes(t *testing.T) {
	ops := []*ir.Value{
		ir.Variant("PrimitiveDelta", ir.Variant("IntDelta", ir.Record())),
		ir.Variant("PrimitiveDelta", ir.Variant("BigIntDelta", ir.FromString("nope"))),
		ir.Variant("PrimitiveDelta", ir.FromInt32(1)),
		ir.Variant("SequenceEdit", ir.Sequence(ir.Variant("Insert", ir.Record()))),
		ir.Variant("SequenceEdit", ir.Sequence(ir.Variant("Delete", ir.Record(
			ir.Field{Name: "index", Value: ir.FromString("zero")},
		)))),
		ir.Variant("MapEdit", ir.Sequence(ir.Variant("Add", ir.Record()))),
		ir.Variant("MapEdit", ir.FromBool(true)),
	}
	for i, op := range ops {
		enc := ir.Sequence(ir.Record(
			ir.Field{Name: "path", Value: ir.Sequence()},
			ir.Field{Name: "op", Value: op},
		))
		if _, err := FromValue(enc); err == nil {
			t.Errorf("op %d: malformed body decoded, want error", i)
		}
	}

	badPath := ir.Sequence(ir.Record(
		ir.Field{Name: "path", Value: ir.Sequence(ir.Variant("Field", ir.FromInt32(7)))},
		ir.Field{Name: "op", Value: ir.Variant("Set", ir.Unit())},
	))
	if _, err := FromValue(badPath); err == nil {
		t.Errorf("non-string field node decoded, want error")
	}
}
