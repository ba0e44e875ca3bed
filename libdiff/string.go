package libdiff

import (
	"github.com/shapekit/dyn/ir"
	"github.com/shapekit/dyn/lcs"
	"github.com/shapekit/dyn/patch"
)

// diffString emits rune-level Insert/Delete edits against the LCS of the
// two strings. Positions are in the evolving string: the cursor advances
// over kept and inserted runes, so the edits replay in order without
// re-deriving offsets. The edit script is only worth keeping while the
// total inserted length stays under the length of the new string;
// otherwise a whole-value Set is smaller.
func diffString(a, b string, newVal *ir.Value) patch.Patch {
	ra, rb := []rune(a), []rune(b)
	rl := []rune(lcs.StringLCS(a, b))
	var edits []patch.SeqOp
	i, j, cursor := 0, 0, 0
	editSize := 0
	for k := 0; k < len(rl); k++ {
		di := 0
		for ra[i+di] != rl[k] {
			di++
		}
		if di > 0 {
			edits = append(edits, patch.DeleteAt(cursor, di))
			i += di
		}
		start := j
		for rb[j] != rl[k] {
			j++
		}
		if j > start {
			edits = append(edits, patch.InsertAt(cursor, ir.FromString(string(rb[start:j]))))
			cursor += j - start
			editSize += j - start
		}
		i++
		j++
		cursor++
	}
	if i < len(ra) {
		edits = append(edits, patch.DeleteAt(cursor, len(ra)-i))
	}
	if j < len(rb) {
		edits = append(edits, patch.InsertAt(cursor, ir.FromString(string(rb[j:]))))
		editSize += len(rb) - j
	}
	if len(edits) == 0 {
		return patch.Empty()
	}
	if editSize >= len(rb) {
		return setRoot(newVal)
	}
	return patch.Patch{Ops: []patch.Op{{
		At:        ir.Root(),
		Operation: patch.SequenceEdit{Edits: edits},
	}}}
}
