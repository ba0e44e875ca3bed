package patch

import (
	"fmt"

	"github.com/shapekit/dyn/ir"
)

// Patches are themselves representable as ir values so an external layer
// may persist or transmit them; no byte or text encoding is defined here.
// A patch encodes as a Sequence of {path, op} records, with optic nodes
// and operations as variants.

// ToValue encodes the patch as an ir value.
func (p Patch) ToValue() *ir.Value {
	ops := make([]*ir.Value, len(p.Ops))
	for i := range p.Ops {
		op := &p.Ops[i]
		ops[i] = ir.Record(
			ir.Field{Name: "path", Value: op.At.ToValue()},
			ir.Field{Name: "op", Value: operationToValue(op.Operation)},
		)
	}
	return ir.Sequence(ops...)
}

// FromValue decodes a patch encoded by ToValue.
func FromValue(v *ir.Value) (Patch, error) {
	elems, err := ir.AsSequence(v)
	if err != nil {
		return Patch{}, err
	}
	ops := make([]Op, len(elems))
	for i, e := range elems {
		at, err := ir.OpticFromValue(ir.Get(e, "path"))
		if err != nil {
			return Patch{}, fmt.Errorf("op %d: %w", i, err)
		}
		operation, err := operationFromValue(ir.Get(e, "op"))
		if err != nil {
			return Patch{}, fmt.Errorf("op %d: %w", i, err)
		}
		ops[i] = Op{At: at, Operation: operation}
	}
	return Patch{Ops: ops}, nil
}

func operationToValue(o Operation) *ir.Value {
	switch x := o.(type) {
	case Set:
		return ir.Variant("Set", x.Value)
	case PrimitiveDelta:
		return ir.Variant("PrimitiveDelta", deltaToValue(x.Delta))
	case SequenceEdit:
		edits := make([]*ir.Value, len(x.Edits))
		for i := range x.Edits {
			edits[i] = seqOpToValue(&x.Edits[i])
		}
		return ir.Variant("SequenceEdit", ir.Sequence(edits...))
	case MapEdit:
		edits := make([]*ir.Value, len(x.Edits))
		for i := range x.Edits {
			edits[i] = mapOpToValue(&x.Edits[i])
		}
		return ir.Variant("MapEdit", ir.Sequence(edits...))
	case Nested:
		return ir.Variant("Patch", x.Patch.ToValue())
	}
	panic(fmt.Sprintf("unknown operation %T", o))
}

func operationFromValue(v *ir.Value) (Operation, error) {
	v = v.Force()
	if v == nil || v.Kind != ir.KindVariant {
		return nil, fmt.Errorf("operation: expected Variant")
	}
	body := v.CaseValue.Force()
	switch v.CaseName {
	case "Set":
		return Set{Value: body}, nil
	case "PrimitiveDelta":
		d, err := deltaFromValue(body)
		if err != nil {
			return nil, err
		}
		return PrimitiveDelta{Delta: d}, nil
	case "SequenceEdit":
		elems, err := ir.AsSequence(body)
		if err != nil {
			return nil, err
		}
		edits := make([]SeqOp, len(elems))
		for i, e := range elems {
			op, err := seqOpFromValue(e)
			if err != nil {
				return nil, err
			}
			edits[i] = op
		}
		return SequenceEdit{Edits: edits}, nil
	case "MapEdit":
		elems, err := ir.AsSequence(body)
		if err != nil {
			return nil, err
		}
		edits := make([]MapOp, len(elems))
		for i, e := range elems {
			op, err := mapOpFromValue(e)
			if err != nil {
				return nil, err
			}
			edits[i] = op
		}
		return MapEdit{Edits: edits}, nil
	case "Patch":
		p, err := FromValue(body)
		if err != nil {
			return nil, err
		}
		return Nested{Patch: p}, nil
	}
	return nil, fmt.Errorf("unknown operation case %q", v.CaseName)
}

func deltaToValue(d Delta) *ir.Value {
	kind := ir.FromInt64(int64(d.Kind().TypeIndex()))
	switch x := d.(type) {
	case IntDelta:
		return ir.Variant("IntDelta", ir.Record(
			ir.Field{Name: "kind", Value: kind},
			ir.Field{Name: "delta", Value: ir.FromInt64(x.Delta)},
		))
	case FloatDelta:
		return ir.Variant("FloatDelta", ir.Record(
			ir.Field{Name: "kind", Value: kind},
			ir.Field{Name: "delta", Value: ir.FromFloat64(x.Delta)},
		))
	case BigIntDelta:
		return ir.Variant("BigIntDelta", ir.FromBigInt(x.Delta))
	case BigDecimalDelta:
		return ir.Variant("BigDecimalDelta", ir.FromBigDecimal(x.Delta))
	case DurationDelta:
		return ir.Variant("DurationDelta", ir.Record(
			ir.Field{Name: "kind", Value: kind},
			ir.Field{Name: "delta", Value: ir.FromDuration(x.Delta)},
		))
	}
	panic(fmt.Sprintf("unknown delta %T", d))
}

func deltaFromValue(v *ir.Value) (Delta, error) {
	v = v.Force()
	if v == nil || v.Kind != ir.KindVariant {
		return nil, fmt.Errorf("delta: expected Variant")
	}
	body := v.CaseValue.Force()
	kindOf := func() (ir.PrimKind, error) {
		n, err := ir.AsInt64(ir.Get(body, "kind"))
		return ir.PrimKind(n), err
	}
	switch v.CaseName {
	case "IntDelta":
		k, err := kindOf()
		if err != nil {
			return nil, fmt.Errorf("delta: %w", err)
		}
		d, err := ir.AsInt64(ir.Get(body, "delta"))
		if err != nil {
			return nil, fmt.Errorf("delta: %w", err)
		}
		return IntDelta{PrimKind: k, Delta: d}, nil
	case "FloatDelta":
		k, err := kindOf()
		if err != nil {
			return nil, fmt.Errorf("delta: %w", err)
		}
		d, err := ir.AsFloat64(ir.Get(body, "delta"))
		if err != nil {
			return nil, fmt.Errorf("delta: %w", err)
		}
		return FloatDelta{PrimKind: k, Delta: d}, nil
	case "BigIntDelta":
		d, err := ir.AsBigInt(body)
		if err != nil {
			return nil, fmt.Errorf("delta: %w", err)
		}
		return BigIntDelta{Delta: d}, nil
	case "BigDecimalDelta":
		d, err := ir.AsBigDecimal(body)
		if err != nil {
			return nil, fmt.Errorf("delta: %w", err)
		}
		return BigDecimalDelta{Delta: d}, nil
	case "DurationDelta":
		k, err := kindOf()
		if err != nil {
			return nil, fmt.Errorf("delta: %w", err)
		}
		d, err := ir.AsDuration(ir.Get(body, "delta"))
		if err != nil {
			return nil, fmt.Errorf("delta: %w", err)
		}
		return DurationDelta{PrimKind: k, Delta: d}, nil
	}
	return nil, fmt.Errorf("unknown delta case %q", v.CaseName)
}

func seqOpToValue(e *SeqOp) *ir.Value {
	switch e.Kind {
	case SeqInsert:
		return ir.Variant("Insert", ir.Record(
			ir.Field{Name: "index", Value: ir.FromInt64(int64(e.Index))},
			ir.Field{Name: "values", Value: ir.Sequence(e.Values...)},
		))
	case SeqDelete:
		return ir.Variant("Delete", ir.Record(
			ir.Field{Name: "index", Value: ir.FromInt64(int64(e.Index))},
			ir.Field{Name: "count", Value: ir.FromInt64(int64(e.Count))},
		))
	default:
		return ir.Variant("Append", ir.Record(
			ir.Field{Name: "values", Value: ir.Sequence(e.Values...)},
		))
	}
}

func seqOpFromValue(v *ir.Value) (SeqOp, error) {
	v = v.Force()
	if v == nil || v.Kind != ir.KindVariant {
		return SeqOp{}, fmt.Errorf("sequence edit: expected Variant")
	}
	body := v.CaseValue.Force()
	switch v.CaseName {
	case "Insert":
		idx, err := ir.AsInt64(ir.Get(body, "index"))
		if err != nil {
			return SeqOp{}, fmt.Errorf("sequence edit: %w", err)
		}
		vals, err := ir.AsSequence(ir.Get(body, "values"))
		if err != nil {
			return SeqOp{}, fmt.Errorf("sequence edit: %w", err)
		}
		return InsertAt(int(idx), vals...), nil
	case "Delete":
		idx, err := ir.AsInt64(ir.Get(body, "index"))
		if err != nil {
			return SeqOp{}, fmt.Errorf("sequence edit: %w", err)
		}
		count, err := ir.AsInt64(ir.Get(body, "count"))
		if err != nil {
			return SeqOp{}, fmt.Errorf("sequence edit: %w", err)
		}
		return DeleteAt(int(idx), int(count)), nil
	case "Append":
		vals, err := ir.AsSequence(ir.Get(body, "values"))
		if err != nil {
			return SeqOp{}, fmt.Errorf("sequence edit: %w", err)
		}
		return Append(vals...), nil
	}
	return SeqOp{}, fmt.Errorf("unknown sequence edit case %q", v.CaseName)
}

func mapOpToValue(e *MapOp) *ir.Value {
	switch e.Kind {
	case MapAdd:
		return ir.Variant("Add", ir.Record(
			ir.Field{Name: "key", Value: e.Key},
			ir.Field{Name: "value", Value: e.Value},
		))
	case MapRemove:
		return ir.Variant("Remove", ir.Record(
			ir.Field{Name: "key", Value: e.Key},
		))
	default:
		return ir.Variant("Modify", ir.Record(
			ir.Field{Name: "key", Value: e.Key},
			ir.Field{Name: "patch", Value: e.Patch.ToValue()},
		))
	}
}

func mapOpFromValue(v *ir.Value) (MapOp, error) {
	v = v.Force()
	if v == nil || v.Kind != ir.KindVariant {
		return MapOp{}, fmt.Errorf("map edit: expected Variant")
	}
	body := v.CaseValue.Force()
	key := ir.Get(body, "key")
	if key == nil {
		return MapOp{}, fmt.Errorf("map edit: missing key")
	}
	switch v.CaseName {
	case "Add":
		return AddKey(key, ir.Get(body, "value")), nil
	case "Remove":
		return RemoveKey(key), nil
	case "Modify":
		p, err := FromValue(ir.Get(body, "patch"))
		if err != nil {
			return MapOp{}, err
		}
		return ModifyKey(key, p), nil
	}
	return MapOp{}, fmt.Errorf("unknown map edit case %q", v.CaseName)
}
