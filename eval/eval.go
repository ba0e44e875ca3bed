package eval

import (
	"fmt"
	"strings"

	"github.com/shapekit/dyn/debug"
	"github.com/shapekit/dyn/ir"
)

// Eval interprets an expression against an input value. The result is
// plural: fan-out selections yield several values, and binary
// combinators combine the cross-product of their children's results.
// Errors are values; evaluation never panics on user input.
func Eval(e Expr, input *ir.Value) ([]*ir.Value, error) {
	if debug.Eval() {
		debug.Logf("eval %T on %s\n", e, input)
	}
	switch x := e.(type) {
	case Literal:
		return []*ir.Value{x.Value}, nil
	case Identity:
		return []*ir.Value{input}, nil
	case Select:
		return ir.ListPath(nil, input, x.At)
	case Convert:
		return mapResults(x.Arg, input, func(v *ir.Value) (*ir.Value, error) {
			v = v.Force()
			if v.Kind != ir.KindPrimitive {
				return nil, &ir.TypeMismatchError{Want: "Primitive", Got: v.Kind.String()}
			}
			return x.Conversion.Apply(v.Prim)
		})
	case Arith:
		return combine(x.Left, x.Right, input, func(a, b *ir.Value) (*ir.Value, error) {
			return arith(x.Op, a, b)
		})
	case Relational:
		return combine(x.Left, x.Right, input, func(a, b *ir.Value) (*ir.Value, error) {
			return relational(x.Op, a, b)
		})
	case Logical:
		return combine(x.Left, x.Right, input, func(a, b *ir.Value) (*ir.Value, error) {
			return logical(x.Op, a, b)
		})
	case Not:
		return mapResults(x.Arg, input, func(v *ir.Value) (*ir.Value, error) {
			b, err := boolOf(v)
			if err != nil {
				return nil, err
			}
			return ir.FromBool(!b), nil
		})
	case StringConcat:
		return combine(x.Left, x.Right, input, func(a, b *ir.Value) (*ir.Value, error) {
			as, err := stringOf(a)
			if err != nil {
				return nil, err
			}
			bs, err := stringOf(b)
			if err != nil {
				return nil, err
			}
			return ir.FromString(as + bs), nil
		})
	case Split:
		return mapResults(x.Arg, input, func(v *ir.Value) (*ir.Value, error) {
			s, err := stringOf(v)
			if err != nil {
				return nil, err
			}
			parts := strings.Split(s, x.Sep)
			elems := make([]*ir.Value, len(parts))
			for i, p := range parts {
				elems[i] = ir.FromString(p)
			}
			return ir.Sequence(elems...), nil
		})
	case Regex:
		return mapResults(x.Arg, input, func(v *ir.Value) (*ir.Value, error) {
			s, err := stringOf(v)
			if err != nil {
				return nil, err
			}
			if x.re == nil {
				return nil, fmt.Errorf("regex %q not compiled; use NewRegex", x.Pattern)
			}
			return ir.FromBool(x.re.MatchString(s)), nil
		})
	case Fail:
		return nil, &FailError{Message: x.Message}
	case Script:
		return runScript(x, input)
	}
	return nil, fmt.Errorf("unknown expression %T", e)
}

// EvalOne is Eval restricted to single-valued expressions; anything else
// is an error.
func EvalOne(e Expr, input *ir.Value) (*ir.Value, error) {
	res, err := Eval(e, input)
	if err != nil {
		return nil, err
	}
	if len(res) != 1 {
		return nil, fmt.Errorf("expected a single result, got %d", len(res))
	}
	return res[0], nil
}

func mapResults(arg Expr, input *ir.Value, f func(*ir.Value) (*ir.Value, error)) ([]*ir.Value, error) {
	vs, err := Eval(arg, input)
	if err != nil {
		return nil, err
	}
	res := make([]*ir.Value, len(vs))
	for i, v := range vs {
		nv, err := f(v)
		if err != nil {
			return nil, err
		}
		res[i] = nv
	}
	return res, nil
}

func combine(left, right Expr, input *ir.Value, f func(a, b *ir.Value) (*ir.Value, error)) ([]*ir.Value, error) {
	ls, err := Eval(left, input)
	if err != nil {
		return nil, err
	}
	rs, err := Eval(right, input)
	if err != nil {
		return nil, err
	}
	res := make([]*ir.Value, 0, len(ls)*len(rs))
	for _, a := range ls {
		for _, b := range rs {
			v, err := f(a, b)
			if err != nil {
				return nil, err
			}
			res = append(res, v)
		}
	}
	return res, nil
}

func boolOf(v *ir.Value) (bool, error) {
	v = v.Force()
	if v.Kind != ir.KindPrimitive || v.Prim.Kind != ir.PrimBool {
		return false, &ir.TypeMismatchError{Want: "Bool", Got: kindName(v)}
	}
	return v.Prim.Bool, nil
}

func stringOf(v *ir.Value) (string, error) {
	v = v.Force()
	if v.Kind != ir.KindPrimitive || v.Prim.Kind != ir.PrimString {
		return "", &ir.TypeMismatchError{Want: "String", Got: kindName(v)}
	}
	return v.Prim.Str, nil
}

func kindName(v *ir.Value) string {
	if v.Kind == ir.KindPrimitive {
		return v.Prim.Kind.String()
	}
	return v.Kind.String()
}
