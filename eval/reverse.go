package eval

import "github.com/shapekit/dyn/ir"

// Reverse derives the inverse expression where one exists. The analysis
// is conservative: it reports false for anything it cannot prove, so a
// true result always yields an expression that undoes the original on
// values the original accepts.
//
// Reversible forms:
//   - Identity
//   - Convert of Identity, inverted via the conversion's Reverse
//   - Not of a reversible argument
//   - Arith with a literal right operand and reversible left operand;
//     Add inverts to Subtract and Multiply to Divide (and back)
func Reverse(e Expr) (Expr, bool) {
	switch x := e.(type) {
	case Identity:
		return Identity{}, true
	case Convert:
		if _, ok := x.Arg.(Identity); !ok {
			return nil, false
		}
		return Convert{Arg: Identity{}, Conversion: x.Conversion.Reverse()}, true
	case Not:
		inner, ok := Reverse(x.Arg)
		if !ok {
			return nil, false
		}
		return Not{Arg: inner}, true
	case Arith:
		lit, ok := x.Right.(Literal)
		if !ok {
			return nil, false
		}
		op, ok := invertArith(x.Op, lit.Value)
		if !ok {
			return nil, false
		}
		left, ok := Reverse(x.Left)
		if !ok {
			return nil, false
		}
		// Undo the outer operation first, then the inner chain.
		return compose(left, Arith{Op: op, Left: Identity{}, Right: lit}), true
	}
	return nil, false
}

func invertArith(op ArithOp, right *ir.Value) (ArithOp, bool) {
	switch op {
	case Add:
		return Subtract, true
	case Subtract:
		return Add, true
	case Multiply:
		if isZeroNumeric(right) {
			return 0, false
		}
		return Divide, true
	case Divide:
		if isZeroNumeric(right) {
			return 0, false
		}
		return Multiply, true
	}
	return 0, false
}

func isZeroNumeric(v *ir.Value) bool {
	v = v.Force()
	if v.Kind != ir.KindPrimitive {
		return false
	}
	p := v.Prim
	switch p.Kind {
	case ir.PrimInt8, ir.PrimInt16, ir.PrimInt32, ir.PrimInt64:
		return p.Int == 0
	case ir.PrimFloat32, ir.PrimFloat64:
		return p.Float == 0
	case ir.PrimBigInt:
		return p.Big.Sign() == 0
	case ir.PrimBigDecimal:
		return p.Dec.Sign() == 0
	}
	return false
}

// compose threads the result of outer into inner by substituting inner's
// Identity leaves. Both sides come from Reverse, so the shapes are the
// small reversible forms above.
func compose(inner, outer Expr) Expr {
	if _, ok := inner.(Identity); ok {
		return outer
	}
	return subst(inner, outer)
}

func subst(e, repl Expr) Expr {
	switch x := e.(type) {
	case Identity:
		return repl
	case Convert:
		return Convert{Arg: subst(x.Arg, repl), Conversion: x.Conversion}
	case Not:
		return Not{Arg: subst(x.Arg, repl)}
	case Arith:
		return Arith{Op: x.Op, Left: subst(x.Left, repl), Right: x.Right}
	}
	return e
}
