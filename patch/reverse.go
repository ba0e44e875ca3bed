package patch

import (
	"errors"
	"fmt"

	"github.com/shapekit/dyn/ir"
)

// ErrIrreversible is reported for ops whose inverse cannot be derived
// from the op alone.
var ErrIrreversible = errors.New("irreversible patch op")

// Reverse derives the inverse patch: applying p then p.Reverse() is the
// identity wherever p succeeds. Ops are emitted in reverse order with
// each op inverted. Set discards the prior value and Delete carries only
// a count, so patches containing either are irreversible; delta, insert,
// append, map add and nested ops invert exactly.
func (p Patch) Reverse() (Patch, error) {
	ops := make([]Op, 0, len(p.Ops))
	for i := len(p.Ops) - 1; i >= 0; i-- {
		op := &p.Ops[i]
		rev, err := reverseOperation(op.Operation)
		if err != nil {
			return Patch{}, fmt.Errorf("op %d at %s: %w", i, op.At, err)
		}
		ops = append(ops, Op{At: op.At, Operation: rev})
	}
	return Patch{Ops: ops}, nil
}

func reverseOperation(o Operation) (Operation, error) {
	switch x := o.(type) {
	case Set:
		return nil, fmt.Errorf("%w: set discards the prior value", ErrIrreversible)
	case PrimitiveDelta:
		return PrimitiveDelta{Delta: x.Delta.negate()}, nil
	case SequenceEdit:
		edits := make([]SeqOp, 0, len(x.Edits))
		for i := len(x.Edits) - 1; i >= 0; i-- {
			e := &x.Edits[i]
			switch e.Kind {
			case SeqInsert:
				edits = append(edits, DeleteAt(e.Index, insertedLen(e.Values)))
			default:
				// Delete carries no values and Append no position.
				return nil, fmt.Errorf("%w: %v sequence edit", ErrIrreversible, e.Kind)
			}
		}
		return SequenceEdit{Edits: edits}, nil
	case MapEdit:
		edits := make([]MapOp, 0, len(x.Edits))
		for i := len(x.Edits) - 1; i >= 0; i-- {
			e := &x.Edits[i]
			switch e.Kind {
			case MapAdd:
				edits = append(edits, RemoveKey(e.Key))
			case MapModify:
				rp, err := e.Patch.Reverse()
				if err != nil {
					return nil, err
				}
				edits = append(edits, ModifyKey(e.Key, rp))
			default:
				return nil, fmt.Errorf("%w: remove discards the prior value", ErrIrreversible)
			}
		}
		return MapEdit{Edits: edits}, nil
	case Nested:
		rp, err := x.Patch.Reverse()
		if err != nil {
			return nil, err
		}
		return Nested{Patch: rp}, nil
	}
	return nil, fmt.Errorf("unknown operation %T", o)
}

// insertedLen counts the evolving-coordinate width of an insert payload:
// rune counts for string chunks, one slot per other value.
func insertedLen(values []*ir.Value) int {
	n := 0
	for _, v := range values {
		v = v.Force()
		if v.Kind == ir.KindPrimitive && v.Prim.Kind == ir.PrimString {
			n += len([]rune(v.Prim.Str))
			continue
		}
		n++
	}
	return n
}
