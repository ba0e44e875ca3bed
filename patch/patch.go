// Package patch represents path-addressed edit operations over ir values:
// an ordered list of (optic, operation) pairs that compose as a monoid
// and apply under a failure-handling mode.
//
// Patches are immutable once built; they are produced by libdiff.Diff or
// authored by hand, and compose with Concat. Concatenation is associative
// with Empty as a two-sided identity by construction; the semantic
// contract, under test, is that applying p1.Concat(p2) equals applying p1
// then p2 wherever both succeed.
package patch

import "github.com/shapekit/dyn/ir"

// Patch is an ordered sequence of operations. Order is application
// order; paths are not deduplicated.
type Patch struct {
	Ops []Op
}

// Op is one path-addressed operation.
type Op struct {
	At        ir.Optic
	Operation Operation
}

// Operation is the closed union of edit operations. The set of
// implementations is fixed; exhaustive type switches elsewhere depend
// on it.
type Operation interface {
	isOperation()
}

// Set replaces the addressed value outright. When the final path segment
// is a missing record field or map key, Set creates it; this is what
// makes diffs of records with new-only fields round-trip.
type Set struct {
	Value *ir.Value
}

// PrimitiveDelta adds an arithmetic or temporal difference to the
// addressed primitive instead of storing the new value.
type PrimitiveDelta struct {
	Delta Delta
}

// SequenceEdit executes its edits in order against the addressed
// sequence, or against the runes of an addressed string primitive.
// Edit indices are positions in the evolving sequence, not in the
// original.
type SequenceEdit struct {
	Edits []SeqOp
}

// MapEdit executes its edits in order against the addressed map.
type MapEdit struct {
	Edits []MapOp
}

// Nested applies a whole patch re-rooted at the addressed value.
type Nested struct {
	Patch Patch
}

func (Set) isOperation()            {}
func (PrimitiveDelta) isOperation() {}
func (SequenceEdit) isOperation()   {}
func (MapEdit) isOperation()        {}
func (Nested) isOperation()         {}

// SeqOpKind discriminates sequence edits.
type SeqOpKind int

const (
	SeqInsert SeqOpKind = iota
	SeqDelete
	SeqAppend
)

// SeqOp is one sequence edit. Index and Count are in the coordinate
// space of the evolving sequence; for string targets they count runes.
type SeqOp struct {
	Kind   SeqOpKind
	Index  int         // Insert, Delete
	Count  int         // Delete
	Values []*ir.Value // Insert, Append
}

func InsertAt(index int, values ...*ir.Value) SeqOp {
	return SeqOp{Kind: SeqInsert, Index: index, Values: values}
}

func DeleteAt(index, count int) SeqOp {
	return SeqOp{Kind: SeqDelete, Index: index, Count: count}
}

func Append(values ...*ir.Value) SeqOp {
	return SeqOp{Kind: SeqAppend, Values: values}
}

// MapOpKind discriminates map edits.
type MapOpKind int

const (
	MapAdd MapOpKind = iota
	MapRemove
	MapModify
)

// MapOp is one map edit. Modify carries a nested patch applied to the
// value under Key; maps address by key, so nested map diffs are not
// re-rooted.
type MapOp struct {
	Kind  MapOpKind
	Key   *ir.Value
	Value *ir.Value // Add
	Patch Patch     // Modify
}

func AddKey(key, value *ir.Value) MapOp {
	return MapOp{Kind: MapAdd, Key: key, Value: value}
}

func RemoveKey(key *ir.Value) MapOp {
	return MapOp{Kind: MapRemove, Key: key}
}

func ModifyKey(key *ir.Value, p Patch) MapOp {
	return MapOp{Kind: MapModify, Key: key, Patch: p}
}

// Empty returns the identity patch.
func Empty() Patch {
	return Patch{}
}

// IsEmpty reports whether the patch has no operations.
func (p Patch) IsEmpty() bool {
	return len(p.Ops) == 0
}

// Concat is the patch monoid: op-list concatenation.
func (p Patch) Concat(q Patch) Patch {
	if len(q.Ops) == 0 {
		return p
	}
	if len(p.Ops) == 0 {
		return q
	}
	ops := make([]Op, len(p.Ops)+len(q.Ops))
	copy(ops, p.Ops)
	copy(ops[len(p.Ops):], q.Ops)
	return Patch{Ops: ops}
}

// ReRoot prefixes every op's path with the given optic.
func (p Patch) ReRoot(at ir.Optic) Patch {
	if at.IsRoot() || len(p.Ops) == 0 {
		return p
	}
	ops := make([]Op, len(p.Ops))
	for i, op := range p.Ops {
		ops[i] = Op{At: at.Concat(op.At), Operation: op.Operation}
	}
	return Patch{Ops: ops}
}
