package migrate

import (
	"fmt"

	"github.com/shapekit/dyn/debug"
	"github.com/shapekit/dyn/eval"
	"github.com/shapekit/dyn/ir"
)

// Interpret folds the migration's actions over the input, left to
// right. The first failing action aborts the whole migration; the error
// carries the action index and target path.
func Interpret(m Migration, input *ir.Value) (*ir.Value, error) {
	cur := input
	for i, a := range m.Actions {
		if debug.Migrate() {
			debug.Logf("action %d: %T at %s\n", i, a, a.target())
		}
		next, err := applyAction(a, cur)
		if err != nil {
			return nil, &MigrationError{Index: i, Path: a.target().String(), Err: err}
		}
		cur = next
	}
	return cur, nil
}

// navigable restricts action targets to structural-container nodes.
// Case, index and key addressing belong to patches, not migrations.
func navigable(o ir.Optic) error {
	for _, n := range o.Nodes() {
		switch n.Kind {
		case ir.NodeField, ir.NodeElements, ir.NodeMapKeys, ir.NodeMapValues:
		default:
			return fmt.Errorf("unsupported navigation node %s in migration target", n.Kind)
		}
	}
	return nil
}

func applyAction(a Action, input *ir.Value) (*ir.Value, error) {
	if err := navigable(a.target()); err != nil {
		return nil, err
	}
	return ir.Modify(input, a.target(), func(v *ir.Value) (*ir.Value, error) {
		return applyAt(a, v)
	})
}

func applyAt(a Action, v *ir.Value) (*ir.Value, error) {
	v = v.Force()
	switch x := a.(type) {
	case AddField:
		return addField(v, x)
	case DropField:
		return dropField(v, x.Name)
	case Rename:
		return renameField(v, x.From, x.To)
	case TransformValue:
		return overField(v, x.Name, func(fv *ir.Value) (*ir.Value, error) {
			return eval.EvalOne(x.Expr, fv)
		})
	case Mandate:
		return mandate(v, x)
	case Optionalize:
		return overField(v, x.Name, func(fv *ir.Value) (*ir.Value, error) {
			return ir.Some(fv), nil
		})
	case ChangeType:
		return overField(v, x.Name, func(fv *ir.Value) (*ir.Value, error) {
			fv = fv.Force()
			if fv.Kind != ir.KindPrimitive {
				return nil, &ir.TypeMismatchError{Want: "Primitive", Got: fv.Kind.String()}
			}
			return x.Conversion.Apply(fv.Prim)
		})
	case RenameCase:
		return renameCase(v, x.From, x.To)
	case TransformCase:
		return transformCase(v, x)
	case TransformElements:
		return transformElements(v, x.Expr)
	case TransformKeys:
		return transformKeys(v, x.Expr)
	case TransformValues:
		return transformValues(v, x.Expr)
	case Join:
		return joinFields(v, x)
	case Split:
		return splitField(v, x)
	}
	return nil, fmt.Errorf("unknown action %T", a)
}

func wantRecord(v *ir.Value) error {
	if v.Kind != ir.KindRecord {
		return &ir.TypeMismatchError{Want: "Record", Got: v.Kind.String()}
	}
	return nil
}

func addField(v *ir.Value, a AddField) (*ir.Value, error) {
	if err := wantRecord(v); err != nil {
		return nil, err
	}
	if ir.FieldIndex(v, a.Name) >= 0 {
		return nil, &FieldNotFoundError{Name: a.Name, Reason: "already present"}
	}
	dv, err := eval.EvalOne(a.Default, v)
	if err != nil {
		return nil, err
	}
	fields := append(append([]ir.Field(nil), v.Fields...), ir.Field{Name: a.Name, Value: dv})
	return ir.Record(fields...), nil
}

func dropField(v *ir.Value, name string) (*ir.Value, error) {
	if err := wantRecord(v); err != nil {
		return nil, err
	}
	i := ir.FieldIndex(v, name)
	if i < 0 {
		return nil, &FieldNotFoundError{Name: name, Reason: "not found"}
	}
	fields := make([]ir.Field, 0, len(v.Fields)-1)
	fields = append(fields, v.Fields[:i]...)
	fields = append(fields, v.Fields[i+1:]...)
	return ir.Record(fields...), nil
}

func renameField(v *ir.Value, from, to string) (*ir.Value, error) {
	if err := wantRecord(v); err != nil {
		return nil, err
	}
	i := ir.FieldIndex(v, from)
	if i < 0 {
		return nil, &FieldNotFoundError{Name: from, Reason: "not found"}
	}
	if from != to && ir.FieldIndex(v, to) >= 0 {
		return nil, &FieldNotFoundError{Name: to, Reason: "already present"}
	}
	fields := append([]ir.Field(nil), v.Fields...)
	fields[i].Name = to
	return ir.Record(fields...), nil
}

func overField(v *ir.Value, name string, f func(*ir.Value) (*ir.Value, error)) (*ir.Value, error) {
	if err := wantRecord(v); err != nil {
		return nil, err
	}
	i := ir.FieldIndex(v, name)
	if i < 0 {
		return nil, &FieldNotFoundError{Name: name, Reason: "not found"}
	}
	nv, err := f(v.Fields[i].Value)
	if err != nil {
		return nil, err
	}
	fields := append([]ir.Field(nil), v.Fields...)
	fields[i].Value = nv
	return ir.Record(fields...), nil
}

func mandate(v *ir.Value, a Mandate) (*ir.Value, error) {
	return overField(v, a.Name, func(fv *ir.Value) (*ir.Value, error) {
		fv = fv.Force()
		if fv.Kind != ir.KindVariant {
			return nil, &CaseMismatchError{Want: "Some or None", Got: fv.Kind.String()}
		}
		switch fv.CaseName {
		case "Some":
			return fv.CaseValue, nil
		case "None":
			return eval.EvalOne(a.Default, v)
		default:
			return nil, &CaseMismatchError{Want: "Some or None", Got: fv.CaseName}
		}
	})
}

func renameCase(v *ir.Value, from, to string) (*ir.Value, error) {
	if v.Kind != ir.KindVariant {
		return nil, &ir.TypeMismatchError{Want: "Variant", Got: v.Kind.String()}
	}
	if v.CaseName != from {
		return v, nil
	}
	return ir.Variant(to, v.CaseValue), nil
}

func transformCase(v *ir.Value, a TransformCase) (*ir.Value, error) {
	if v.Kind != ir.KindVariant {
		return nil, &ir.TypeMismatchError{Want: "Variant", Got: v.Kind.String()}
	}
	if v.CaseName != a.Case {
		return v, nil
	}
	nv, err := Interpret(Migration{Actions: a.Actions}, v.CaseValue)
	if err != nil {
		return nil, err
	}
	return ir.Variant(a.Case, nv), nil
}

func transformElements(v *ir.Value, e eval.Expr) (*ir.Value, error) {
	if v.Kind != ir.KindSequence {
		return nil, &ir.TypeMismatchError{Want: "Sequence", Got: v.Kind.String()}
	}
	elems := make([]*ir.Value, len(v.Elems))
	for i, el := range v.Elems {
		nv, err := eval.EvalOne(e, el)
		if err != nil {
			return nil, err
		}
		elems[i] = nv
	}
	return ir.Sequence(elems...), nil
}

func transformKeys(v *ir.Value, e eval.Expr) (*ir.Value, error) {
	if v.Kind != ir.KindMap {
		return nil, &ir.TypeMismatchError{Want: "Map", Got: v.Kind.String()}
	}
	entries := make([]ir.Entry, len(v.Entries))
	for i, en := range v.Entries {
		nk, err := eval.EvalOne(e, en.Key)
		if err != nil {
			return nil, err
		}
		entries[i] = ir.Entry{Key: nk, Value: en.Value}
	}
	nv := ir.MapOf(entries...)
	for i := range entries {
		if ir.EntryIndex(nv, entries[i].Key) != i {
			return nil, fmt.Errorf("key %s: %w", entries[i].Key, ir.ErrDuplicateKey)
		}
	}
	return nv, nil
}

func transformValues(v *ir.Value, e eval.Expr) (*ir.Value, error) {
	if v.Kind != ir.KindMap {
		return nil, &ir.TypeMismatchError{Want: "Map", Got: v.Kind.String()}
	}
	entries := make([]ir.Entry, len(v.Entries))
	for i, en := range v.Entries {
		nv, err := eval.EvalOne(e, en.Value)
		if err != nil {
			return nil, err
		}
		entries[i] = ir.Entry{Key: en.Key, Value: nv}
	}
	return ir.MapOf(entries...), nil
}

func joinFields(v *ir.Value, a Join) (*ir.Value, error) {
	if err := wantRecord(v); err != nil {
		return nil, err
	}
	sources := make([]*ir.Value, len(a.SourceFields))
	for i, name := range a.SourceFields {
		j := ir.FieldIndex(v, name)
		if j < 0 {
			return nil, &FieldNotFoundError{Name: name, Reason: "not found"}
		}
		sources[i] = v.Fields[j].Value
	}
	combined, err := eval.EvalOne(a.Combiner, ir.Sequence(sources...))
	if err != nil {
		return nil, err
	}
	drop := make(map[string]bool, len(a.SourceFields))
	for _, name := range a.SourceFields {
		drop[name] = true
	}
	fields := make([]ir.Field, 0, len(v.Fields))
	for _, f := range v.Fields {
		if drop[f.Name] {
			continue
		}
		// The target may reuse a source name, but not a surviving one.
		if f.Name == a.TargetName {
			return nil, &FieldNotFoundError{Name: a.TargetName, Reason: "already present"}
		}
		fields = append(fields, f)
	}
	fields = append(fields, ir.Field{Name: a.TargetName, Value: combined})
	return ir.Record(fields...), nil
}

func splitField(v *ir.Value, a Split) (*ir.Value, error) {
	if err := wantRecord(v); err != nil {
		return nil, err
	}
	i := ir.FieldIndex(v, a.SourceName)
	if i < 0 {
		return nil, &FieldNotFoundError{Name: a.SourceName, Reason: "not found"}
	}
	parts, err := eval.Eval(a.Splitter, v.Fields[i].Value)
	if err != nil {
		return nil, err
	}
	// A splitter may yield its parts either as several results or as a
	// single sequence, which is what the string Split expression does.
	if len(parts) == 1 && len(a.TargetFields) > 1 {
		if p := parts[0].Force(); p.Kind == ir.KindSequence {
			parts = p.Elems
		}
	}
	if len(parts) != len(a.TargetFields) {
		return nil, fmt.Errorf("splitter yielded %d values for %d target fields", len(parts), len(a.TargetFields))
	}
	// Targets may reuse the source name, which is removed, but must not
	// duplicate each other or collide with a surviving field.
	targets := make(map[string]bool, len(a.TargetFields))
	for _, name := range a.TargetFields {
		if targets[name] {
			return nil, &FieldNotFoundError{Name: name, Reason: "already present"}
		}
		targets[name] = true
	}
	fields := make([]ir.Field, 0, len(v.Fields)-1+len(parts))
	for j, f := range v.Fields {
		if j == i {
			continue
		}
		if targets[f.Name] {
			return nil, &FieldNotFoundError{Name: f.Name, Reason: "already present"}
		}
		fields = append(fields, f)
	}
	for j, name := range a.TargetFields {
		fields = append(fields, ir.Field{Name: name, Value: parts[j]})
	}
	return ir.Record(fields...), nil
}
