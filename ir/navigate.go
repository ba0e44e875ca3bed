package ir

import "fmt"

// GetPath resolves an optic to the single value it addresses. Fan-out
// nodes (Elements, AtIndices, MapKeys, MapValues, AtMapKeys) are a
// navigation failure here; use ListPath for multi-target walks.
func GetPath(v *Value, o Optic) (*Value, error) {
	nodes := o.Nodes()
	for i := range nodes {
		v = v.Force()
		n := &nodes[i]
		if n.fanOut() {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind,
				Reason: "fan-out node in single-target navigation"}
		}
		next, err := step(v, o, i)
		if err != nil {
			return nil, err
		}
		v = next
	}
	return v.Force(), nil
}

// ListPath resolves an optic to every value it addresses, appending to
// dst. Fan-out nodes expand; a shape mismatch is an error, not an empty
// result.
func ListPath(dst []*Value, v *Value, o Optic) ([]*Value, error) {
	return listPath(dst, v, o, 0)
}

func listPath(dst []*Value, v *Value, o Optic, i int) ([]*Value, error) {
	v = v.Force()
	nodes := o.Nodes()
	if i == len(nodes) {
		return append(dst, v), nil
	}
	n := &nodes[i]
	var err error
	switch n.Kind {
	case NodeElements:
		if v.Kind != KindSequence {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind, Reason: "expected Sequence"}
		}
		for _, e := range v.Elems {
			if dst, err = listPath(dst, e, o, i+1); err != nil {
				return nil, err
			}
		}
		return dst, nil
	case NodeAtIndices:
		if v.Kind != KindSequence {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind, Reason: "expected Sequence"}
		}
		for _, idx := range n.Indices {
			if idx < 0 || idx >= len(v.Elems) {
				return nil, &NavigationError{At: o, Seg: i, Got: v.Kind,
					Reason: fmt.Sprintf("index %d out of range (len %d)", idx, len(v.Elems))}
			}
			if dst, err = listPath(dst, v.Elems[idx], o, i+1); err != nil {
				return nil, err
			}
		}
		return dst, nil
	case NodeMapKeys:
		if v.Kind != KindMap {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind, Reason: "expected Map"}
		}
		for j := range v.Entries {
			if dst, err = listPath(dst, v.Entries[j].Key, o, i+1); err != nil {
				return nil, err
			}
		}
		return dst, nil
	case NodeMapValues:
		if v.Kind != KindMap {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind, Reason: "expected Map"}
		}
		for j := range v.Entries {
			if dst, err = listPath(dst, v.Entries[j].Value, o, i+1); err != nil {
				return nil, err
			}
		}
		return dst, nil
	case NodeAtMapKeys:
		if v.Kind != KindMap {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind, Reason: "expected Map"}
		}
		for _, k := range n.Keys {
			idx := EntryIndex(v, k)
			if idx < 0 {
				return nil, &NavigationError{At: o, Seg: i, Got: v.Kind,
					Reason: fmt.Sprintf("no key %s", k)}
			}
			if dst, err = listPath(dst, v.Entries[idx].Value, o, i+1); err != nil {
				return nil, err
			}
		}
		return dst, nil
	default:
		next, err := step(v, o, i)
		if err != nil {
			return nil, err
		}
		return listPath(dst, next, o, i+1)
	}
}

// step resolves one single-target node against a forced value.
func step(v *Value, o Optic, i int) (*Value, error) {
	n := &o.Nodes()[i]
	switch n.Kind {
	case NodeField:
		if v.Kind != KindRecord {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind, Reason: "expected Record"}
		}
		idx := FieldIndex(v, n.Name)
		if idx < 0 {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind,
				Reason: fmt.Sprintf("no field %q", n.Name)}
		}
		return v.Fields[idx].Value, nil
	case NodeCase:
		if v.Kind != KindVariant {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind, Reason: "expected Variant"}
		}
		if v.CaseName != n.Name {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind,
				Reason: fmt.Sprintf("active case %q, not %q", v.CaseName, n.Name)}
		}
		return v.CaseValue, nil
	case NodeAtIndex:
		if v.Kind != KindSequence {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind, Reason: "expected Sequence"}
		}
		if n.Index < 0 || n.Index >= len(v.Elems) {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind,
				Reason: fmt.Sprintf("index %d out of range (len %d)", n.Index, len(v.Elems))}
		}
		return v.Elems[n.Index], nil
	case NodeAtMapKey:
		if v.Kind != KindMap {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind, Reason: "expected Map"}
		}
		idx := EntryIndex(v, n.Key)
		if idx < 0 {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind,
				Reason: fmt.Sprintf("no key %s", n.Key)}
		}
		return v.Entries[idx].Value, nil
	case NodeWrapped:
		// Wrapper types erase in the dynamic representation; forcing
		// already happened, so this is the identity.
		return v, nil
	default:
		return nil, &NavigationError{At: o, Seg: i, Got: v.Kind,
			Reason: fmt.Sprintf("unsupported node %s", n.Kind)}
	}
}

// Modify rebuilds the tree with f applied at every location the optic
// addresses. The input tree is never mutated; untouched subtrees are
// shared between input and output.
func Modify(v *Value, o Optic, f func(*Value) (*Value, error)) (*Value, error) {
	return modify(v, o, 0, f, false)
}

// ModifyCreate is Modify, except that a missing record field or map key
// at the final path segment is created: f receives nil and its result is
// appended. Non-final segments never create.
func ModifyCreate(v *Value, o Optic, f func(*Value) (*Value, error)) (*Value, error) {
	return modify(v, o, 0, f, true)
}

func modify(v *Value, o Optic, i int, f func(*Value) (*Value, error), create bool) (*Value, error) {
	v = v.Force()
	nodes := o.Nodes()
	if i == len(nodes) {
		return f(v)
	}
	n := &nodes[i]
	last := i == len(nodes)-1
	switch n.Kind {
	case NodeField:
		if v.Kind != KindRecord {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind, Reason: "expected Record"}
		}
		idx := FieldIndex(v, n.Name)
		if idx < 0 {
			if !create || !last {
				return nil, &NavigationError{At: o, Seg: i, Got: v.Kind,
					Reason: fmt.Sprintf("no field %q", n.Name)}
			}
			nv, err := f(nil)
			if err != nil {
				return nil, err
			}
			fields := make([]Field, len(v.Fields)+1)
			copy(fields, v.Fields)
			fields[len(v.Fields)] = Field{Name: n.Name, Value: nv}
			return Record(fields...), nil
		}
		nv, err := modify(v.Fields[idx].Value, o, i+1, f, create)
		if err != nil {
			return nil, err
		}
		return withField(v, idx, nv), nil

	case NodeCase:
		if v.Kind != KindVariant {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind, Reason: "expected Variant"}
		}
		if v.CaseName != n.Name {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind,
				Reason: fmt.Sprintf("active case %q, not %q", v.CaseName, n.Name)}
		}
		nv, err := modify(v.CaseValue, o, i+1, f, create)
		if err != nil {
			return nil, err
		}
		return Variant(v.CaseName, nv), nil

	case NodeElements:
		if v.Kind != KindSequence {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind, Reason: "expected Sequence"}
		}
		elems := make([]*Value, len(v.Elems))
		for j, e := range v.Elems {
			nv, err := modify(e, o, i+1, f, create)
			if err != nil {
				return nil, err
			}
			elems[j] = nv
		}
		return Sequence(elems...), nil

	case NodeAtIndex:
		if v.Kind != KindSequence {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind, Reason: "expected Sequence"}
		}
		if n.Index < 0 || n.Index >= len(v.Elems) {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind,
				Reason: fmt.Sprintf("index %d out of range (len %d)", n.Index, len(v.Elems))}
		}
		nv, err := modify(v.Elems[n.Index], o, i+1, f, create)
		if err != nil {
			return nil, err
		}
		return withElem(v, n.Index, nv), nil

	case NodeAtIndices:
		if v.Kind != KindSequence {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind, Reason: "expected Sequence"}
		}
		elems := make([]*Value, len(v.Elems))
		copy(elems, v.Elems)
		for _, idx := range n.Indices {
			if idx < 0 || idx >= len(elems) {
				return nil, &NavigationError{At: o, Seg: i, Got: v.Kind,
					Reason: fmt.Sprintf("index %d out of range (len %d)", idx, len(elems))}
			}
			nv, err := modify(elems[idx], o, i+1, f, create)
			if err != nil {
				return nil, err
			}
			elems[idx] = nv
		}
		return Sequence(elems...), nil

	case NodeMapKeys:
		if v.Kind != KindMap {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind, Reason: "expected Map"}
		}
		entries := make([]Entry, len(v.Entries))
		for j, e := range v.Entries {
			nk, err := modify(e.Key, o, i+1, f, create)
			if err != nil {
				return nil, err
			}
			entries[j] = Entry{Key: nk, Value: e.Value}
		}
		if err := checkUniqueKeys(entries); err != nil {
			return nil, err
		}
		return MapOf(entries...), nil

	case NodeMapValues:
		if v.Kind != KindMap {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind, Reason: "expected Map"}
		}
		entries := make([]Entry, len(v.Entries))
		for j, e := range v.Entries {
			nv, err := modify(e.Value, o, i+1, f, create)
			if err != nil {
				return nil, err
			}
			entries[j] = Entry{Key: e.Key, Value: nv}
		}
		return MapOf(entries...), nil

	case NodeAtMapKey:
		if v.Kind != KindMap {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind, Reason: "expected Map"}
		}
		idx := EntryIndex(v, n.Key)
		if idx < 0 {
			if !create || !last {
				return nil, &NavigationError{At: o, Seg: i, Got: v.Kind,
					Reason: fmt.Sprintf("no key %s", n.Key)}
			}
			nv, err := f(nil)
			if err != nil {
				return nil, err
			}
			entries := make([]Entry, len(v.Entries)+1)
			copy(entries, v.Entries)
			entries[len(v.Entries)] = Entry{Key: n.Key, Value: nv}
			return MapOf(entries...), nil
		}
		nv, err := modify(v.Entries[idx].Value, o, i+1, f, create)
		if err != nil {
			return nil, err
		}
		return withEntry(v, idx, nv), nil

	case NodeAtMapKeys:
		if v.Kind != KindMap {
			return nil, &NavigationError{At: o, Seg: i, Got: v.Kind, Reason: "expected Map"}
		}
		entries := make([]Entry, len(v.Entries))
		copy(entries, v.Entries)
		for _, k := range n.Keys {
			idx := EntryIndex(v, k)
			if idx < 0 {
				return nil, &NavigationError{At: o, Seg: i, Got: v.Kind,
					Reason: fmt.Sprintf("no key %s", k)}
			}
			nv, err := modify(entries[idx].Value, o, i+1, f, create)
			if err != nil {
				return nil, err
			}
			entries[idx] = Entry{Key: entries[idx].Key, Value: nv}
		}
		return MapOf(entries...), nil

	case NodeWrapped:
		return modify(v, o, i+1, f, create)

	default:
		return nil, &NavigationError{At: o, Seg: i, Got: v.Kind,
			Reason: fmt.Sprintf("unsupported node %s", n.Kind)}
	}
}

func withField(v *Value, idx int, nv *Value) *Value {
	fields := make([]Field, len(v.Fields))
	copy(fields, v.Fields)
	fields[idx] = Field{Name: fields[idx].Name, Value: nv}
	return Record(fields...)
}

func withElem(v *Value, idx int, nv *Value) *Value {
	elems := make([]*Value, len(v.Elems))
	copy(elems, v.Elems)
	elems[idx] = nv
	return Sequence(elems...)
}

func withEntry(v *Value, idx int, nv *Value) *Value {
	entries := make([]Entry, len(v.Entries))
	copy(entries, v.Entries)
	entries[idx] = Entry{Key: entries[idx].Key, Value: nv}
	return MapOf(entries...)
}

func checkUniqueKeys(entries []Entry) error {
	for i := range entries {
		for j := i + 1; j < len(entries); j++ {
			if Equal(entries[i].Key, entries[j].Key) {
				return fmt.Errorf("%w: %s", ErrDuplicateKey, entries[i].Key)
			}
		}
	}
	return nil
}
