package migrate

import (
	"fmt"

	"github.com/shapekit/dyn/eval"
	"github.com/shapekit/dyn/ir"
)

// Migrations are representable as ir values so an external layer may
// persist or transmit them. A migration encodes as a Sequence of action
// variants; expressions and optics encode through their own codecs.

// ToValue encodes the migration as an ir value.
func (m Migration) ToValue() *ir.Value {
	actions := make([]*ir.Value, len(m.Actions))
	for i, a := range m.Actions {
		actions[i] = actionToValue(a)
	}
	return ir.Sequence(actions...)
}

// FromValue decodes a migration encoded by ToValue.
func FromValue(v *ir.Value) (Migration, error) {
	elems, err := ir.AsSequence(v)
	if err != nil {
		return Migration{}, err
	}
	actions := make([]Action, len(elems))
	for i, e := range elems {
		a, err := actionFromValue(e)
		if err != nil {
			return Migration{}, fmt.Errorf("action %d: %w", i, err)
		}
		actions[i] = a
	}
	return Migration{Actions: actions}, nil
}

func actionToValue(a Action) *ir.Value {
	target := ir.Field{Name: "target", Value: a.target().ToValue()}
	switch x := a.(type) {
	case AddField:
		return ir.Variant("AddField", ir.Record(target,
			ir.Field{Name: "name", Value: ir.FromString(x.Name)},
			ir.Field{Name: "default", Value: eval.ToValue(x.Default)},
		))
	case DropField:
		return ir.Variant("DropField", ir.Record(target,
			ir.Field{Name: "name", Value: ir.FromString(x.Name)},
			ir.Field{Name: "captured", Value: eval.ToValue(x.Captured)},
		))
	case Rename:
		return ir.Variant("Rename", ir.Record(target,
			ir.Field{Name: "from", Value: ir.FromString(x.From)},
			ir.Field{Name: "to", Value: ir.FromString(x.To)},
		))
	case TransformValue:
		return ir.Variant("TransformValue", ir.Record(target,
			ir.Field{Name: "name", Value: ir.FromString(x.Name)},
			ir.Field{Name: "expr", Value: eval.ToValue(x.Expr)},
		))
	case Mandate:
		return ir.Variant("Mandate", ir.Record(target,
			ir.Field{Name: "name", Value: ir.FromString(x.Name)},
			ir.Field{Name: "default", Value: eval.ToValue(x.Default)},
		))
	case Optionalize:
		return ir.Variant("Optionalize", ir.Record(target,
			ir.Field{Name: "name", Value: ir.FromString(x.Name)},
		))
	case ChangeType:
		return ir.Variant("ChangeType", ir.Record(target,
			ir.Field{Name: "name", Value: ir.FromString(x.Name)},
			ir.Field{Name: "conversion", Value: ir.FromString(x.Conversion.String())},
		))
	case RenameCase:
		return ir.Variant("RenameCase", ir.Record(target,
			ir.Field{Name: "from", Value: ir.FromString(x.From)},
			ir.Field{Name: "to", Value: ir.FromString(x.To)},
		))
	case TransformCase:
		return ir.Variant("TransformCase", ir.Record(target,
			ir.Field{Name: "case", Value: ir.FromString(x.Case)},
			ir.Field{Name: "actions", Value: Migration{Actions: x.Actions}.ToValue()},
		))
	case TransformElements:
		return ir.Variant("TransformElements", ir.Record(target,
			ir.Field{Name: "expr", Value: eval.ToValue(x.Expr)},
		))
	case TransformKeys:
		return ir.Variant("TransformKeys", ir.Record(target,
			ir.Field{Name: "expr", Value: eval.ToValue(x.Expr)},
		))
	case TransformValues:
		return ir.Variant("TransformValues", ir.Record(target,
			ir.Field{Name: "expr", Value: eval.ToValue(x.Expr)},
		))
	case Join:
		return ir.Variant("Join", ir.Record(target,
			ir.Field{Name: "targetName", Value: ir.FromString(x.TargetName)},
			ir.Field{Name: "sourceFields", Value: stringSeq(x.SourceFields)},
			ir.Field{Name: "combiner", Value: eval.ToValue(x.Combiner)},
		))
	case Split:
		return ir.Variant("Split", ir.Record(target,
			ir.Field{Name: "sourceName", Value: ir.FromString(x.SourceName)},
			ir.Field{Name: "targetFields", Value: stringSeq(x.TargetFields)},
			ir.Field{Name: "splitter", Value: eval.ToValue(x.Splitter)},
		))
	}
	panic(fmt.Sprintf("unknown action %T", a))
}

func actionFromValue(v *ir.Value) (Action, error) {
	v = v.Force()
	if v.Kind != ir.KindVariant {
		return nil, fmt.Errorf("expected Variant, got %s", v.Kind)
	}
	body := v.CaseValue.Force()
	target, err := ir.OpticFromValue(ir.Get(body, "target"))
	if err != nil {
		return nil, err
	}
	str := func(name string) string {
		f := ir.Get(body, name)
		if f == nil {
			return ""
		}
		f = f.Force()
		if f.Kind != ir.KindPrimitive || f.Prim.Kind != ir.PrimString {
			return ""
		}
		return f.Prim.Str
	}
	expr := func(name string) (eval.Expr, error) {
		return eval.FromValue(ir.Get(body, name))
	}
	switch v.CaseName {
	case "AddField":
		def, err := expr("default")
		if err != nil {
			return nil, err
		}
		return AddField{Target: target, Name: str("name"), Default: def}, nil
	case "DropField":
		captured, err := expr("captured")
		if err != nil {
			return nil, err
		}
		return DropField{Target: target, Name: str("name"), Captured: captured}, nil
	case "Rename":
		return Rename{Target: target, From: str("from"), To: str("to")}, nil
	case "TransformValue":
		e, err := expr("expr")
		if err != nil {
			return nil, err
		}
		return TransformValue{Target: target, Name: str("name"), Expr: e}, nil
	case "Mandate":
		def, err := expr("default")
		if err != nil {
			return nil, err
		}
		return Mandate{Target: target, Name: str("name"), Default: def}, nil
	case "Optionalize":
		return Optionalize{Target: target, Name: str("name")}, nil
	case "ChangeType":
		c, err := conversionByName(str("conversion"))
		if err != nil {
			return nil, err
		}
		return ChangeType{Target: target, Name: str("name"), Conversion: c}, nil
	case "RenameCase":
		return RenameCase{Target: target, From: str("from"), To: str("to")}, nil
	case "TransformCase":
		nested, err := FromValue(ir.Get(body, "actions"))
		if err != nil {
			return nil, err
		}
		return TransformCase{Target: target, Case: str("case"), Actions: nested.Actions}, nil
	case "TransformElements":
		e, err := expr("expr")
		if err != nil {
			return nil, err
		}
		return TransformElements{Target: target, Expr: e}, nil
	case "TransformKeys":
		e, err := expr("expr")
		if err != nil {
			return nil, err
		}
		return TransformKeys{Target: target, Expr: e}, nil
	case "TransformValues":
		e, err := expr("expr")
		if err != nil {
			return nil, err
		}
		return TransformValues{Target: target, Expr: e}, nil
	case "Join":
		comb, err := expr("combiner")
		if err != nil {
			return nil, err
		}
		sources, err := stringsOf(ir.Get(body, "sourceFields"))
		if err != nil {
			return nil, err
		}
		return Join{
			Target:       target,
			TargetName:   str("targetName"),
			SourceFields: sources,
			Combiner:     comb,
		}, nil
	case "Split":
		sp, err := expr("splitter")
		if err != nil {
			return nil, err
		}
		targets, err := stringsOf(ir.Get(body, "targetFields"))
		if err != nil {
			return nil, err
		}
		return Split{
			Target:       target,
			SourceName:   str("sourceName"),
			TargetFields: targets,
			Splitter:     sp,
		}, nil
	}
	return nil, fmt.Errorf("unknown action case %q", v.CaseName)
}

func stringSeq(ss []string) *ir.Value {
	elems := make([]*ir.Value, len(ss))
	for i, s := range ss {
		elems[i] = ir.FromString(s)
	}
	return ir.Sequence(elems...)
}

func stringsOf(v *ir.Value) ([]string, error) {
	elems, err := ir.AsSequence(v)
	if err != nil {
		return nil, err
	}
	ss := make([]string, len(elems))
	for i, e := range elems {
		s, err := ir.AsString(e)
		if err != nil {
			return nil, err
		}
		ss[i] = s
	}
	return ss, nil
}

func conversionByName(name string) (eval.Conversion, error) {
	for c := eval.IntToString; c <= eval.Lowercase; c++ {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown conversion %q", name)
}
