package ir

import (
	"cmp"
	"sort"
)

// Compare returns an integer comparing two values.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
//
// The order is total and deterministic: kinds rank
// Primitive < Record < Variant < Sequence < Map, primitives order by
// type index first and payload second, and composites compare
// lexicographically. Maps compare by entry content in key order, so the
// arrangement of entries does not affect the result. Lazy values are
// forced before comparison.
func Compare(a, b *Value) int {
	a, b = a.Force(), b.Force()
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	if a.Kind != b.Kind {
		return cmp.Compare(a.Kind, b.Kind)
	}
	switch a.Kind {
	case KindPrimitive:
		return comparePrimitives(a.Prim, b.Prim)
	case KindRecord:
		return compareRecords(a, b)
	case KindVariant:
		if c := cmp.Compare(a.CaseName, b.CaseName); c != 0 {
			return c
		}
		return Compare(a.CaseValue, b.CaseValue)
	case KindSequence:
		return compareSequences(a, b)
	case KindMap:
		return compareMaps(a, b)
	}
	panic("kind")
}

// Equal reports structural equality. NaN floats compare equal to each
// other so that diffing a value against itself is always empty.
func Equal(a, b *Value) bool {
	return Compare(a, b) == 0
}

func compareRecords(a, b *Value) int {
	n := min(len(a.Fields), len(b.Fields))
	for i := 0; i < n; i++ {
		if c := cmp.Compare(a.Fields[i].Name, b.Fields[i].Name); c != 0 {
			return c
		}
		if c := Compare(a.Fields[i].Value, b.Fields[i].Value); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a.Fields), len(b.Fields))
}

func compareSequences(a, b *Value) int {
	n := min(len(a.Elems), len(b.Elems))
	for i := 0; i < n; i++ {
		if c := Compare(a.Elems[i], b.Elems[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a.Elems), len(b.Elems))
}

// compareMaps ranks maps by their entries taken in key order, not entry
// order. Entry order is presentation, not identity: the key-based map
// diff could not otherwise roundtrip a map whose entries were rearranged.
func compareMaps(a, b *Value) int {
	ka, kb := keyOrder(a), keyOrder(b)
	n := min(len(ka), len(kb))
	for i := 0; i < n; i++ {
		ea, eb := a.Entries[ka[i]], b.Entries[kb[i]]
		if c := Compare(ea.Key, eb.Key); c != 0 {
			return c
		}
		if c := Compare(ea.Value, eb.Value); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a.Entries), len(b.Entries))
}

func keyOrder(v *Value) []int {
	idx := make([]int, len(v.Entries))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		return Compare(v.Entries[idx[i]].Key, v.Entries[idx[j]].Key) < 0
	})
	return idx
}
