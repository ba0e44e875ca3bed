package libdiff

import (
	"math"
	"math/big"

	"github.com/shapekit/dyn/debug"
	"github.com/shapekit/dyn/ir"
	"github.com/shapekit/dyn/lcs"
	"github.com/shapekit/dyn/patch"
)

// Diff computes the patch transforming old into new. Identical values
// yield the empty patch; values of different kinds yield a single Set at
// the root. Same-kind values dispatch to the structural cases below.
// Lazy values are forced transparently.
func Diff(old, new *ir.Value) patch.Patch {
	old, new = old.Force(), new.Force()
	if debug.Diff() {
		debug.Logf("diff %s\n", old.Kind)
		debug.Dump("old", old)
		debug.Dump("new", new)
	}
	if ir.Equal(old, new) {
		return patch.Empty()
	}
	if old.Kind != new.Kind {
		return setRoot(new)
	}
	switch old.Kind {
	case ir.KindPrimitive:
		return diffPrimitive(old.Prim, new.Prim, new)
	case ir.KindRecord:
		return diffRecord(old, new)
	case ir.KindVariant:
		return diffVariant(old, new)
	case ir.KindSequence:
		return diffSequence(old, new)
	case ir.KindMap:
		return diffMap(old, new)
	}
	panic("kind")
}

func setRoot(v *ir.Value) patch.Patch {
	return patch.Patch{Ops: []patch.Op{{At: ir.Root(), Operation: patch.Set{Value: v}}}}
}

func deltaRoot(d patch.Delta) patch.Patch {
	return patch.Patch{Ops: []patch.Op{{At: ir.Root(), Operation: patch.PrimitiveDelta{Delta: d}}}}
}

// diffPrimitive emits deltas for numeric and temporal kinds so patches
// stay small and compose as sums; every other kind gets a Set. Float NaN
// transitions never become deltas: NaN arithmetic would poison delta
// composition.
func diffPrimitive(a, b *ir.Primitive, newVal *ir.Value) patch.Patch {
	if a.Kind != b.Kind {
		return setRoot(newVal)
	}
	switch a.Kind {
	case ir.PrimInt8, ir.PrimInt16, ir.PrimInt32, ir.PrimInt64:
		return deltaRoot(patch.IntDelta{PrimKind: a.Kind, Delta: b.Int - a.Int})
	case ir.PrimFloat32, ir.PrimFloat64:
		if math.IsNaN(a.Float) || math.IsNaN(b.Float) {
			// NaN -> NaN is handled by the equality fast path; any
			// other NaN edge is a Set.
			return setRoot(newVal)
		}
		return deltaRoot(patch.FloatDelta{PrimKind: a.Kind, Delta: b.Float - a.Float})
	case ir.PrimBigInt:
		return deltaRoot(patch.BigIntDelta{Delta: new(big.Int).Sub(b.Big, a.Big)})
	case ir.PrimBigDecimal:
		return deltaRoot(patch.BigDecimalDelta{Delta: new(big.Float).Sub(b.Dec, a.Dec)})
	case ir.PrimInstant:
		return deltaRoot(patch.DurationDelta{PrimKind: a.Kind, Delta: b.Time.Sub(a.Time)})
	case ir.PrimDuration:
		return deltaRoot(patch.DurationDelta{PrimKind: a.Kind, Delta: b.Dur - a.Dur})
	case ir.PrimString:
		return diffString(a.Str, b.Str, newVal)
	default:
		return setRoot(newVal)
	}
}

// diffRecord walks the fields of new: a field absent from old becomes a
// Set at Field(name) (which creates it on apply), a changed field
// recurses with the sub-patch re-rooted under Field(name). Fields only
// in old are not represented; no delete operation exists for record
// fields.
func diffRecord(old, new *ir.Value) patch.Patch {
	var res patch.Patch
	for _, f := range new.Fields {
		idx := ir.FieldIndex(old, f.Name)
		if idx < 0 {
			res.Ops = append(res.Ops, patch.Op{
				At:        ir.Root().Field(f.Name),
				Operation: patch.Set{Value: f.Value},
			})
			continue
		}
		ov := old.Fields[idx].Value
		if ir.Equal(ov, f.Value) {
			continue
		}
		res = res.Concat(Diff(ov, f.Value).ReRoot(ir.Root().Field(f.Name)))
	}
	return res
}

func diffVariant(old, new *ir.Value) patch.Patch {
	if old.CaseName != new.CaseName {
		return setRoot(new)
	}
	return Diff(old.CaseValue, new.CaseValue).ReRoot(ir.Root().Case(new.CaseName))
}

// diffSequence aligns elements with the LCS and emits, between matches,
// a Delete then an Insert covering the unmatched spans. The cursor
// tracks the position in the evolving sequence so the edits replay
// without re-deriving offsets; the trailing new span becomes an Append.
func diffSequence(old, new *ir.Value) patch.Patch {
	pairs := lcs.IndicesLCS(len(old.Elems), len(new.Elems), func(i, j int) bool {
		return ir.Equal(old.Elems[i], new.Elems[j])
	})
	var edits []patch.SeqOp
	oi, ni, cursor := 0, 0, 0
	for _, pr := range pairs {
		if del := pr[0] - oi; del > 0 {
			edits = append(edits, patch.DeleteAt(cursor, del))
		}
		if ins := pr[1] - ni; ins > 0 {
			edits = append(edits, patch.InsertAt(cursor, new.Elems[ni:pr[1]]...))
			cursor += ins
		}
		oi, ni = pr[0]+1, pr[1]+1
		cursor++
	}
	if oi < len(old.Elems) {
		edits = append(edits, patch.DeleteAt(cursor, len(old.Elems)-oi))
	}
	if ni < len(new.Elems) {
		edits = append(edits, patch.Append(new.Elems[ni:]...))
	}
	if len(edits) == 0 {
		return patch.Empty()
	}
	return patch.Patch{Ops: []patch.Op{{
		At:        ir.Root(),
		Operation: patch.SequenceEdit{Edits: edits},
	}}}
}

// diffMap merges by key: new-only keys Add, changed values Modify with a
// nested patch (maps address by key, so nothing is re-rooted), old-only
// keys Remove.
func diffMap(old, new *ir.Value) patch.Patch {
	var edits []patch.MapOp
	for _, e := range new.Entries {
		idx := ir.EntryIndex(old, e.Key)
		if idx < 0 {
			edits = append(edits, patch.AddKey(e.Key, e.Value))
			continue
		}
		ov := old.Entries[idx].Value
		if ir.Equal(ov, e.Value) {
			continue
		}
		edits = append(edits, patch.ModifyKey(e.Key, Diff(ov, e.Value)))
	}
	for _, e := range old.Entries {
		if ir.EntryIndex(new, e.Key) < 0 {
			edits = append(edits, patch.RemoveKey(e.Key))
		}
	}
	if len(edits) == 0 {
		return patch.Empty()
	}
	return patch.Patch{Ops: []patch.Op{{
		At:        ir.Root(),
		Operation: patch.MapEdit{Edits: edits},
	}}}
}
