package ir

import "fmt"

// Optics are representable as values so path-addressed structures such
// as patches and migrations can be persisted alongside the data they
// describe. An optic encodes as a Sequence of node variants.

// ToValue encodes the optic as a value.
func (o Optic) ToValue() *Value {
	nodes := o.Nodes()
	elems := make([]*Value, len(nodes))
	for i, n := range nodes {
		switch n.Kind {
		case NodeField:
			elems[i] = Variant("Field", FromString(n.Name))
		case NodeCase:
			elems[i] = Variant("Case", FromString(n.Name))
		case NodeElements:
			elems[i] = Variant("Elements", Unit())
		case NodeAtIndex:
			elems[i] = Variant("AtIndex", FromInt64(int64(n.Index)))
		case NodeAtIndices:
			is := make([]*Value, len(n.Indices))
			for j, idx := range n.Indices {
				is[j] = FromInt64(int64(idx))
			}
			elems[i] = Variant("AtIndices", Sequence(is...))
		case NodeMapKeys:
			elems[i] = Variant("MapKeys", Unit())
		case NodeMapValues:
			elems[i] = Variant("MapValues", Unit())
		case NodeAtMapKey:
			elems[i] = Variant("AtMapKey", n.Key)
		case NodeAtMapKeys:
			elems[i] = Variant("AtMapKeys", Sequence(n.Keys...))
		case NodeWrapped:
			elems[i] = Variant("Wrapped", Unit())
		}
	}
	return Sequence(elems...)
}

// OpticFromValue decodes an optic encoded by ToValue.
func OpticFromValue(v *Value) (Optic, error) {
	if v == nil {
		return Optic{}, fmt.Errorf("optic: expected Sequence of nodes")
	}
	v = v.Force()
	if v.Kind != KindSequence {
		return Optic{}, fmt.Errorf("optic: expected Sequence of nodes, got %s", v.Kind)
	}
	o := Root()
	for i, e := range v.Elems {
		e = e.Force()
		if e.Kind != KindVariant {
			return Optic{}, fmt.Errorf("optic node %d: expected Variant, got %s", i, e.Kind)
		}
		switch e.CaseName {
		case "Field":
			name, err := AsString(e.CaseValue)
			if err != nil {
				return Optic{}, fmt.Errorf("optic node %d: %w", i, err)
			}
			o = o.Field(name)
		case "Case":
			name, err := AsString(e.CaseValue)
			if err != nil {
				return Optic{}, fmt.Errorf("optic node %d: %w", i, err)
			}
			o = o.Case(name)
		case "Elements":
			o = o.Elements()
		case "AtIndex":
			n, err := AsInt64(e.CaseValue)
			if err != nil {
				return Optic{}, fmt.Errorf("optic node %d: %w", i, err)
			}
			o = o.At(int(n))
		case "AtIndices":
			elems, err := AsSequence(e.CaseValue)
			if err != nil {
				return Optic{}, fmt.Errorf("optic node %d: %w", i, err)
			}
			is := make([]int, len(elems))
			for j, idx := range elems {
				n, err := AsInt64(idx)
				if err != nil {
					return Optic{}, fmt.Errorf("optic node %d: %w", i, err)
				}
				is[j] = int(n)
			}
			o = o.AtIndices(is...)
		case "MapKeys":
			o = o.MapKeys()
		case "MapValues":
			o = o.MapValues()
		case "AtMapKey":
			o = o.AtKey(e.CaseValue)
		case "AtMapKeys":
			keys, err := AsSequence(e.CaseValue)
			if err != nil {
				return Optic{}, fmt.Errorf("optic node %d: %w", i, err)
			}
			o = o.AtKeys(keys...)
		case "Wrapped":
			o = o.Wrapped()
		default:
			return Optic{}, fmt.Errorf("optic node %d: unknown case %q", i, e.CaseName)
		}
	}
	return o, nil
}
