package eval

import (
	"fmt"
	"math/big"

	"github.com/shapekit/dyn/ir"
)

// arith combines two numeric primitives. Operands must carry the same
// numeric tag; integer results keep the operand width and wrap on
// overflow the way the machine does.
func arith(op ArithOp, a, b *ir.Value) (*ir.Value, error) {
	a, b = a.Force(), b.Force()
	if a.Kind != ir.KindPrimitive || b.Kind != ir.KindPrimitive {
		return nil, &ir.TypeMismatchError{Want: "numeric Primitive", Got: kindName(a) + ", " + kindName(b)}
	}
	pa, pb := a.Prim, b.Prim
	if pa.Kind != pb.Kind {
		return nil, &ir.TypeMismatchError{Want: pa.Kind.String(), Got: pb.Kind.String()}
	}
	if !pa.Kind.IsNumeric() {
		return nil, &ir.TypeMismatchError{Want: "numeric Primitive", Got: pa.Kind.String()}
	}
	switch pa.Kind {
	case ir.PrimInt8, ir.PrimInt16, ir.PrimInt32, ir.PrimInt64:
		if op == Divide && pb.Int == 0 {
			return nil, &FailError{Message: "division by zero"}
		}
		var n int64
		switch op {
		case Add:
			n = pa.Int + pb.Int
		case Subtract:
			n = pa.Int - pb.Int
		case Multiply:
			n = pa.Int * pb.Int
		case Divide:
			n = pa.Int / pb.Int
		}
		return intValue(pa.Kind, n), nil
	case ir.PrimFloat32, ir.PrimFloat64:
		var f float64
		switch op {
		case Add:
			f = pa.Float + pb.Float
		case Subtract:
			f = pa.Float - pb.Float
		case Multiply:
			f = pa.Float * pb.Float
		case Divide:
			f = pa.Float / pb.Float
		}
		if pa.Kind == ir.PrimFloat32 {
			return ir.FromFloat32(float32(f)), nil
		}
		return ir.FromFloat64(f), nil
	case ir.PrimBigInt:
		n := new(big.Int)
		switch op {
		case Add:
			n.Add(pa.Big, pb.Big)
		case Subtract:
			n.Sub(pa.Big, pb.Big)
		case Multiply:
			n.Mul(pa.Big, pb.Big)
		case Divide:
			if pb.Big.Sign() == 0 {
				return nil, &FailError{Message: "division by zero"}
			}
			n.Quo(pa.Big, pb.Big)
		}
		return ir.FromBigInt(n), nil
	case ir.PrimBigDecimal:
		d := new(big.Float)
		switch op {
		case Add:
			d.Add(pa.Dec, pb.Dec)
		case Subtract:
			d.Sub(pa.Dec, pb.Dec)
		case Multiply:
			d.Mul(pa.Dec, pb.Dec)
		case Divide:
			if pb.Dec.Sign() == 0 {
				return nil, &FailError{Message: "division by zero"}
			}
			d.Quo(pa.Dec, pb.Dec)
		}
		return ir.FromBigDecimal(d), nil
	}
	return nil, fmt.Errorf("arith %s unsupported on %s", op, pa.Kind)
}

func intValue(kind ir.PrimKind, n int64) *ir.Value {
	switch kind {
	case ir.PrimInt8:
		return ir.FromInt8(int8(n))
	case ir.PrimInt16:
		return ir.FromInt16(int16(n))
	case ir.PrimInt32:
		return ir.FromInt32(int32(n))
	default:
		return ir.FromInt64(n)
	}
}

// relational compares two values under the total value order, so mixed
// kinds are admissible and equality is structural.
func relational(op RelOp, a, b *ir.Value) (*ir.Value, error) {
	c := ir.Compare(a, b)
	var res bool
	switch op {
	case Eq:
		res = c == 0
	case Ne:
		res = c != 0
	case Lt:
		res = c < 0
	case Le:
		res = c <= 0
	case Gt:
		res = c > 0
	case Ge:
		res = c >= 0
	}
	return ir.FromBool(res), nil
}

func logical(op LogicOp, a, b *ir.Value) (*ir.Value, error) {
	ab, err := boolOf(a)
	if err != nil {
		return nil, err
	}
	bb, err := boolOf(b)
	if err != nil {
		return nil, err
	}
	switch op {
	case And:
		return ir.FromBool(ab && bb), nil
	default:
		return ir.FromBool(ab || bb), nil
	}
}
