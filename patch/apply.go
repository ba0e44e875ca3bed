package patch

import (
	"fmt"

	"github.com/shapekit/dyn/debug"
	"github.com/shapekit/dyn/ir"
)

// Mode governs how failures are handled while applying a patch.
type Mode int

const (
	// Strict aborts the whole application on the first navigation,
	// type or range failure.
	Strict Mode = iota
	// Lenient skips a failing op; the remaining ops still apply.
	Lenient
	// Clobber makes a failing Set or delta op overwrite the addressed
	// value outright instead of failing. A Set whose path cannot be
	// navigated at all, and failing sequence/map edits, are skipped as
	// in Lenient.
	Clobber
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "Strict"
	case Lenient:
		return "Lenient"
	case Clobber:
		return "Clobber"
	}
	return "<unknown mode>"
}

// Apply executes the patch ops in order, threading the value through.
// The input is never mutated; the result shares untouched subtrees with
// it.
func (p Patch) Apply(v *ir.Value, mode Mode) (*ir.Value, error) {
	cur := v
	for i := range p.Ops {
		op := &p.Ops[i]
		if debug.Patch() {
			debug.Logf("apply op %d at %s (%s)\n", i, op.At, mode)
			debug.Dump("value", cur)
		}
		next, err := applyOp(cur, op, mode)
		if err != nil {
			if mode == Strict {
				return nil, fmt.Errorf("op %d at %s: %w", i, op.At, err)
			}
			continue
		}
		cur = next
	}
	return cur, nil
}

func applyOp(v *ir.Value, op *Op, mode Mode) (*ir.Value, error) {
	switch x := op.Operation.(type) {
	case Set:
		return ir.ModifyCreate(v, op.At, func(*ir.Value) (*ir.Value, error) {
			return x.Value, nil
		})
	case PrimitiveDelta:
		return ir.Modify(v, op.At, func(cur *ir.Value) (*ir.Value, error) {
			if cur.Kind != ir.KindPrimitive {
				if mode == Clobber {
					return ir.FromPrimitive(applyToZero(x.Delta)), nil
				}
				return nil, &ir.TypeMismatchError{Want: "Primitive", Got: cur.Kind.String()}
			}
			np, err := x.Delta.apply(cur.Prim)
			if err != nil {
				if mode == Clobber {
					return ir.FromPrimitive(applyToZero(x.Delta)), nil
				}
				return nil, err
			}
			return ir.FromPrimitive(np), nil
		})
	case SequenceEdit:
		return ir.Modify(v, op.At, func(cur *ir.Value) (*ir.Value, error) {
			return applySeqEdits(cur, x.Edits)
		})
	case MapEdit:
		return ir.Modify(v, op.At, func(cur *ir.Value) (*ir.Value, error) {
			return applyMapEdits(cur, x.Edits, mode)
		})
	case Nested:
		return ir.Modify(v, op.At, func(cur *ir.Value) (*ir.Value, error) {
			return x.Patch.Apply(cur, mode)
		})
	}
	return nil, fmt.Errorf("unknown operation %T", op.Operation)
}

// applySeqEdits replays sequence edits against a sequence or against the
// runes of a string primitive. Indices are in the evolving coordinate
// space, so edits replay without re-deriving offsets.
func applySeqEdits(cur *ir.Value, edits []SeqOp) (*ir.Value, error) {
	if cur.Kind == ir.KindPrimitive && cur.Prim.Kind == ir.PrimString {
		return applyStringEdits(cur, edits)
	}
	if cur.Kind != ir.KindSequence {
		return nil, &ir.TypeMismatchError{Want: "Sequence or String", Got: cur.Kind.String()}
	}
	elems := make([]*ir.Value, len(cur.Elems))
	copy(elems, cur.Elems)
	for i := range edits {
		e := &edits[i]
		switch e.Kind {
		case SeqInsert:
			if e.Index < 0 || e.Index > len(elems) {
				return nil, fmt.Errorf("insert index %d out of range (len %d)", e.Index, len(elems))
			}
			tail := make([]*ir.Value, 0, len(elems)+len(e.Values))
			tail = append(tail, elems[:e.Index]...)
			tail = append(tail, e.Values...)
			elems = append(tail, elems[e.Index:]...)
		case SeqDelete:
			if e.Index < 0 || e.Count < 0 || e.Index+e.Count > len(elems) {
				return nil, fmt.Errorf("delete range [%d,%d) out of range (len %d)",
					e.Index, e.Index+e.Count, len(elems))
			}
			elems = append(elems[:e.Index:e.Index], elems[e.Index+e.Count:]...)
		case SeqAppend:
			elems = append(elems, e.Values...)
		}
	}
	return ir.Sequence(elems...), nil
}

func applyStringEdits(cur *ir.Value, edits []SeqOp) (*ir.Value, error) {
	txt := []rune(cur.Prim.Str)
	for i := range edits {
		e := &edits[i]
		switch e.Kind {
		case SeqInsert, SeqAppend:
			idx := e.Index
			if e.Kind == SeqAppend {
				idx = len(txt)
			}
			if idx < 0 || idx > len(txt) {
				return nil, fmt.Errorf("insert index %d out of range (len %d)", idx, len(txt))
			}
			ins, err := editRunes(e.Values)
			if err != nil {
				return nil, err
			}
			tail := make([]rune, 0, len(txt)+len(ins))
			tail = append(tail, txt[:idx]...)
			tail = append(tail, ins...)
			txt = append(tail, txt[idx:]...)
		case SeqDelete:
			if e.Index < 0 || e.Count < 0 || e.Index+e.Count > len(txt) {
				return nil, fmt.Errorf("delete range [%d,%d) out of range (len %d)",
					e.Index, e.Index+e.Count, len(txt))
			}
			txt = append(txt[:e.Index:e.Index], txt[e.Index+e.Count:]...)
		}
	}
	return ir.FromString(string(txt)), nil
}

// editRunes flattens insert payloads for string targets: each value must
// be a String or Char primitive.
func editRunes(values []*ir.Value) ([]rune, error) {
	var res []rune
	for _, v := range values {
		v = v.Force()
		if v.Kind != ir.KindPrimitive {
			return nil, &ir.TypeMismatchError{Want: "String or Char", Got: v.Kind.String()}
		}
		switch v.Prim.Kind {
		case ir.PrimString:
			res = append(res, []rune(v.Prim.Str)...)
		case ir.PrimChar:
			res = append(res, v.Prim.Char)
		default:
			return nil, &ir.TypeMismatchError{Want: "String or Char", Got: v.Prim.Kind.String()}
		}
	}
	return res, nil
}

func applyMapEdits(cur *ir.Value, edits []MapOp, mode Mode) (*ir.Value, error) {
	if cur.Kind != ir.KindMap {
		return nil, &ir.TypeMismatchError{Want: "Map", Got: cur.Kind.String()}
	}
	entries := make([]ir.Entry, len(cur.Entries))
	copy(entries, cur.Entries)
	for i := range edits {
		e := &edits[i]
		idx := -1
		for j := range entries {
			if ir.Equal(entries[j].Key, e.Key) {
				idx = j
				break
			}
		}
		switch e.Kind {
		case MapAdd:
			if idx >= 0 {
				return nil, fmt.Errorf("%w: %s", ir.ErrDuplicateKey, e.Key)
			}
			entries = append(entries, ir.Entry{Key: e.Key, Value: e.Value})
		case MapRemove:
			if idx < 0 {
				return nil, fmt.Errorf("remove: no key %s", e.Key)
			}
			entries = append(entries[:idx:idx], entries[idx+1:]...)
		case MapModify:
			if idx < 0 {
				return nil, fmt.Errorf("modify: no key %s", e.Key)
			}
			nv, err := e.Patch.Apply(entries[idx].Value, mode)
			if err != nil {
				return nil, err
			}
			entries[idx] = ir.Entry{Key: entries[idx].Key, Value: nv}
		}
	}
	return ir.MapOf(entries...), nil
}
