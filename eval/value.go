package eval

import (
	"fmt"

	"github.com/shapekit/dyn/ir"
)

// Expressions are representable as ir values so migrations carrying
// them can be persisted. Scripts encode as their source and regexes as
// their pattern; FromValue recompiles patterns.

// ToValue encodes an expression as an ir value.
func ToValue(e Expr) *ir.Value {
	switch x := e.(type) {
	case Literal:
		return ir.Variant("Literal", x.Value)
	case Select:
		return ir.Variant("Select", x.At.ToValue())
	case Identity:
		return ir.Variant("Identity", ir.Unit())
	case Convert:
		return ir.Variant("Convert", ir.Record(
			ir.Field{Name: "arg", Value: ToValue(x.Arg)},
			ir.Field{Name: "conversion", Value: ir.FromString(x.Conversion.String())},
		))
	case Arith:
		return ir.Variant("Arith", binaryValue(x.Op.String(), x.Left, x.Right))
	case Relational:
		return ir.Variant("Relational", binaryValue(x.Op.String(), x.Left, x.Right))
	case Logical:
		return ir.Variant("Logical", binaryValue(x.Op.String(), x.Left, x.Right))
	case Not:
		return ir.Variant("Not", ToValue(x.Arg))
	case StringConcat:
		return ir.Variant("StringConcat", ir.Record(
			ir.Field{Name: "left", Value: ToValue(x.Left)},
			ir.Field{Name: "right", Value: ToValue(x.Right)},
		))
	case Split:
		return ir.Variant("Split", ir.Record(
			ir.Field{Name: "arg", Value: ToValue(x.Arg)},
			ir.Field{Name: "sep", Value: ir.FromString(x.Sep)},
		))
	case Regex:
		return ir.Variant("Regex", ir.Record(
			ir.Field{Name: "arg", Value: ToValue(x.Arg)},
			ir.Field{Name: "pattern", Value: ir.FromString(x.Pattern)},
		))
	case Fail:
		return ir.Variant("Fail", ir.FromString(x.Message))
	case Script:
		return ir.Variant("Script", ir.FromString(x.Source))
	}
	panic(fmt.Sprintf("unknown expression %T", e))
}

func binaryValue(op string, left, right Expr) *ir.Value {
	return ir.Record(
		ir.Field{Name: "op", Value: ir.FromString(op)},
		ir.Field{Name: "left", Value: ToValue(left)},
		ir.Field{Name: "right", Value: ToValue(right)},
	)
}

// FromValue decodes an expression encoded by ToValue.
func FromValue(v *ir.Value) (Expr, error) {
	if v == nil {
		return nil, fmt.Errorf("expression: expected Variant")
	}
	v = v.Force()
	if v.Kind != ir.KindVariant {
		return nil, fmt.Errorf("expression: expected Variant, got %s", v.Kind)
	}
	body := v.CaseValue.Force()
	switch v.CaseName {
	case "Literal":
		return Literal{Value: body}, nil
	case "Select":
		at, err := ir.OpticFromValue(body)
		if err != nil {
			return nil, err
		}
		return Select{At: at}, nil
	case "Identity":
		return Identity{}, nil
	case "Convert":
		arg, err := FromValue(ir.Get(body, "arg"))
		if err != nil {
			return nil, err
		}
		name, err := stringField(body, "conversion")
		if err != nil {
			return nil, err
		}
		c, err := conversionByName(name)
		if err != nil {
			return nil, err
		}
		return Convert{Arg: arg, Conversion: c}, nil
	case "Arith":
		left, right, err := binaryFromValue(body)
		if err != nil {
			return nil, err
		}
		name, err := stringField(body, "op")
		if err != nil {
			return nil, err
		}
		op, err := arithOpByName(name)
		if err != nil {
			return nil, err
		}
		return Arith{Op: op, Left: left, Right: right}, nil
	case "Relational":
		left, right, err := binaryFromValue(body)
		if err != nil {
			return nil, err
		}
		name, err := stringField(body, "op")
		if err != nil {
			return nil, err
		}
		op, err := relOpByName(name)
		if err != nil {
			return nil, err
		}
		return Relational{Op: op, Left: left, Right: right}, nil
	case "Logical":
		left, right, err := binaryFromValue(body)
		if err != nil {
			return nil, err
		}
		name, err := stringField(body, "op")
		if err != nil {
			return nil, err
		}
		op, err := logicOpByName(name)
		if err != nil {
			return nil, err
		}
		return Logical{Op: op, Left: left, Right: right}, nil
	case "Not":
		arg, err := FromValue(body)
		if err != nil {
			return nil, err
		}
		return Not{Arg: arg}, nil
	case "StringConcat":
		left, err := FromValue(ir.Get(body, "left"))
		if err != nil {
			return nil, err
		}
		right, err := FromValue(ir.Get(body, "right"))
		if err != nil {
			return nil, err
		}
		return StringConcat{Left: left, Right: right}, nil
	case "Split":
		arg, err := FromValue(ir.Get(body, "arg"))
		if err != nil {
			return nil, err
		}
		sep, err := stringField(body, "sep")
		if err != nil {
			return nil, err
		}
		return Split{Arg: arg, Sep: sep}, nil
	case "Regex":
		arg, err := FromValue(ir.Get(body, "arg"))
		if err != nil {
			return nil, err
		}
		pattern, err := stringField(body, "pattern")
		if err != nil {
			return nil, err
		}
		return NewRegex(pattern, arg)
	case "Fail":
		msg, err := ir.AsString(body)
		if err != nil {
			return nil, err
		}
		return Fail{Message: msg}, nil
	case "Script":
		src, err := ir.AsString(body)
		if err != nil {
			return nil, err
		}
		return Script{Source: src}, nil
	}
	return nil, fmt.Errorf("unknown expression case %q", v.CaseName)
}

func binaryFromValue(body *ir.Value) (left, right Expr, err error) {
	left, err = FromValue(ir.Get(body, "left"))
	if err != nil {
		return nil, nil, err
	}
	right, err = FromValue(ir.Get(body, "right"))
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func stringField(body *ir.Value, name string) (string, error) {
	s, err := ir.AsString(ir.Get(body, name))
	if err != nil {
		return "", fmt.Errorf("field %q: %w", name, err)
	}
	return s, nil
}

func conversionByName(name string) (Conversion, error) {
	for c := IntToString; c <= Lowercase; c++ {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown conversion %q", name)
}

func arithOpByName(name string) (ArithOp, error) {
	for op := Add; op <= Divide; op++ {
		if op.String() == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown arithmetic op %q", name)
}

func relOpByName(name string) (RelOp, error) {
	for op := Eq; op <= Ge; op++ {
		if op.String() == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown relational op %q", name)
}

func logicOpByName(name string) (LogicOp, error) {
	for op := And; op <= Or; op++ {
		if op.String() == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown logical op %q", name)
}
