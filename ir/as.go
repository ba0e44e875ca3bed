package ir

import (
	"math/big"
	"time"
)

// Checked payload accessors. Decoders route field access through these
// so a malformed encoding surfaces as a TypeMismatchError instead of a
// panic. All of them force lazy values and tolerate nil.

func AsString(v *Value) (string, error) {
	p, err := asPrim(v, PrimString)
	if err != nil {
		return "", err
	}
	return p.Str, nil
}

// AsInt64 accepts any integer width and widens.
func AsInt64(v *Value) (int64, error) {
	v = v.Force()
	if v != nil && v.Kind == KindPrimitive {
		switch v.Prim.Kind {
		case PrimInt8, PrimInt16, PrimInt32, PrimInt64:
			return v.Prim.Int, nil
		}
	}
	return 0, &TypeMismatchError{Want: "integer Primitive", Got: shapeOf(v)}
}

func AsFloat64(v *Value) (float64, error) {
	v = v.Force()
	if v != nil && v.Kind == KindPrimitive {
		switch v.Prim.Kind {
		case PrimFloat32, PrimFloat64:
			return v.Prim.Float, nil
		}
	}
	return 0, &TypeMismatchError{Want: "float Primitive", Got: shapeOf(v)}
}

func AsDuration(v *Value) (time.Duration, error) {
	p, err := asPrim(v, PrimDuration)
	if err != nil {
		return 0, err
	}
	return p.Dur, nil
}

func AsBigInt(v *Value) (*big.Int, error) {
	p, err := asPrim(v, PrimBigInt)
	if err != nil {
		return nil, err
	}
	return p.Big, nil
}

func AsBigDecimal(v *Value) (*big.Float, error) {
	p, err := asPrim(v, PrimBigDecimal)
	if err != nil {
		return nil, err
	}
	return p.Dec, nil
}

func AsSequence(v *Value) ([]*Value, error) {
	v = v.Force()
	if v == nil || v.Kind != KindSequence {
		return nil, &TypeMismatchError{Want: "Sequence", Got: shapeOf(v)}
	}
	return v.Elems, nil
}

func asPrim(v *Value, want PrimKind) (*Primitive, error) {
	v = v.Force()
	if v == nil || v.Kind != KindPrimitive || v.Prim.Kind != want {
		return nil, &TypeMismatchError{Want: want.String(), Got: shapeOf(v)}
	}
	return v.Prim, nil
}

func shapeOf(v *Value) string {
	switch {
	case v == nil:
		return "<nil>"
	case v.Kind == KindPrimitive:
		return v.Prim.Kind.String()
	}
	return v.Kind.String()
}
