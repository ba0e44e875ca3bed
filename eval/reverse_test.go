package eval

import (
	"testing"

	"github.com/shapekit/dyn/ir"
)

func TestReverseIdentity(t *testing.T) {
	r, ok := Reverse(Identity{})
	if !ok {
		t.Fatalf("identity is not reversible")
	}
	if _, isID := r.(Identity); !isID {
		t.Fatalf("reverse of identity is %T", r)
	}
}

func TestReverseConvert(t *testing.T) {
	r, ok := Reverse(Convert{Arg: Identity{}, Conversion: IntToString})
	if !ok {
		t.Fatalf("convert of identity is not reversible")
	}
	c, isConv := r.(Convert)
	if !isConv || c.Conversion != StringToInt {
		t.Fatalf("reverse = %#v, want Convert(StringToInt)", r)
	}

	if _, ok := Reverse(Convert{Arg: Fail{Message: "x"}, Conversion: IntToString}); ok {
		t.Fatalf("convert of a non-identity argument reported reversible")
	}
}

func TestReverseArith(t *testing.T) {
	e := Arith{Op: Add, Left: Identity{}, Right: Literal{Value: ir.FromInt32(3)}}
	r, ok := Reverse(e)
	if !ok {
		t.Fatalf("add-literal is not reversible")
	}
	in := ir.FromInt32(10)
	fwd, err := EvalOne(e, in)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	back, err := EvalOne(r, fwd)
	if err != nil {
		t.Fatalf("eval reverse: %v", err)
	}
	if !ir.Equal(back, in) {
		t.Fatalf("reverse roundtrip = %s, want %s", back, in)
	}
}

func TestReverseChain(t *testing.T) {
	// A multiply over an inner conversion reverses to the conversion's
	// inverse wrapped around a divide.
	e := Arith{
		Op:    Multiply,
		Left:  Convert{Arg: Identity{}, Conversion: IntToLong},
		Right: Literal{Value: ir.FromInt64(4)},
	}
	r, ok := Reverse(e)
	if !ok {
		t.Fatalf("chain is not reversible")
	}
	in := ir.FromInt32(5)
	fwd, err := EvalOne(e, in)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !ir.Equal(fwd, ir.FromInt64(20)) {
		t.Fatalf("forward = %s, want 20", fwd)
	}
	back, err := EvalOne(r, fwd)
	if err != nil {
		t.Fatalf("eval reverse: %v", err)
	}
	if !ir.Equal(back, in) {
		t.Fatalf("chain roundtrip = %s, want %s", back, in)
	}
}

func TestIrreversibleExprs(t *testing.T) {
	cases := []Expr{
		Literal{Value: ir.FromInt32(1)},
		Select{At: ir.Root().Field("x")},
		StringConcat{Left: Identity{}, Right: Literal{Value: ir.FromString("!")}},
		Script{Source: "it"},
		Fail{Message: "x"},
		Arith{Op: Add, Left: Identity{}, Right: Identity{}},
		Arith{Op: Multiply, Left: Identity{}, Right: Literal{Value: ir.FromInt32(0)}},
	}
	for _, e := range cases {
		if _, ok := Reverse(e); ok {
			t.Errorf("%T reported reversible", e)
		}
	}
}

func TestExprValueRoundtrip(t *testing.T) {
	re, err := NewRegex(`^a+$`, Identity{})
	if err != nil {
		t.Fatalf("NewRegex: %v", err)
	}
	exprs := []Expr{
		Literal{Value: ir.FromInt32(7)},
		Select{At: ir.Root().Field("a").Elements()},
		Identity{},
		Convert{Arg: Identity{}, Conversion: StringToLong},
		Arith{Op: Divide, Left: Identity{}, Right: Literal{Value: ir.FromInt32(2)}},
		Relational{Op: Ge, Left: Identity{}, Right: Literal{Value: ir.FromInt32(0)}},
		Logical{Op: Or, Left: Literal{Value: ir.FromBool(true)}, Right: Identity{}},
		Not{Arg: Identity{}},
		StringConcat{Left: Identity{}, Right: Literal{Value: ir.FromString("!")}},
		Split{Arg: Identity{}, Sep: ","},
		re,
		Fail{Message: "nope"},
		Script{Source: "it + 1"},
	}
	for _, e := range exprs {
		decoded, err := FromValue(ToValue(e))
		if err != nil {
			t.Errorf("%T: FromValue: %v", e, err)
			continue
		}
		if !ir.Equal(ToValue(decoded), ToValue(e)) {
			t.Errorf("%T: roundtrip changed encoding", e)
		}
	}
}

// Known cases with mangled bodies decode to errors, never panics.
func TestExprFromValueMalformed(t *testing.T) {
	bad := []*ir.Value{
		ir.Variant("Script", ir.Record()),
		ir.Variant("Fail", ir.Sequence()),
		ir.Variant("Split", ir.Record(
			ir.Field{Name: "arg", Value: ir.Variant("Identity", ir.Unit())},
			ir.Field{Name: "sep", Value: ir.FromInt32(1)},
		)),
		ir.Variant("Regex", ir.Record(
			ir.Field{Name: "arg", Value: ir.Variant("Identity", ir.Unit())},
		)),
		ir.Variant("Arith", ir.Record(
			ir.Field{Name: "left", Value: ir.Variant("Identity", ir.Unit())},
			ir.Field{Name: "right", Value: ir.Variant("Identity", ir.Unit())},
		)),
		ir.Variant("Convert", ir.Record(
			ir.Field{Name: "arg", Value: ir.Variant("Identity", ir.Unit())},
			ir.Field{Name: "conversion", Value: ir.Unit()},
		)),
	}
	for i, v := range bad {
		if _, err := FromValue(v); err == nil {
			t.Errorf("case %d: malformed expression decoded, want error", i)
		}
	}
}
