package migrate

import (
	"fmt"

	"github.com/shapekit/dyn/eval"
)

// Diagnostics analyze reports on.
const (
	// oversizedThreshold is the action count past which a migration is
	// flagged as a candidate for splitting into versioned steps.
	oversizedThreshold = 64
)

// Diagnostic is a single analyze finding, tied to the action it is
// about.
type Diagnostic struct {
	Index   int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("action %d: %s", d.Index, d.Message)
}

// Report is the result of analyzing a migration. Reverse is non-nil
// only when Reversible is true.
type Report struct {
	Diagnostics []Diagnostic
	Reversible  bool
	Reverse     *Migration
}

// Analyze inspects a migration without running it. It flags field drops
// with no rename covering the same field, redundant renames, and
// oversized migrations, and synthesizes the reverse migration when
// every action has one. Only Rename, RenameCase, Optionalize, Join and
// Split reverse; one action of any other kind makes the whole migration
// irreversible.
func Analyze(m Migration) Report {
	var r Report
	r.Diagnostics = append(r.Diagnostics, flagDrops(m)...)
	r.Diagnostics = append(r.Diagnostics, flagRenames(m)...)
	if n := len(m.Actions); n > oversizedThreshold {
		r.Diagnostics = append(r.Diagnostics, Diagnostic{
			Index:   n - 1,
			Message: fmt.Sprintf("migration has %d actions; consider splitting it", n),
		})
	}
	if rev, ok := reverseMigration(m); ok {
		r.Reversible = true
		r.Reverse = rev
	}
	return r
}

// flagDrops reports DropField actions whose field was never renamed
// away at the same target; dropping a field that no rename accounts for
// loses data silently.
func flagDrops(m Migration) []Diagnostic {
	var ds []Diagnostic
	for i, a := range m.Actions {
		d, ok := a.(DropField)
		if !ok {
			continue
		}
		covered := false
		for _, b := range m.Actions {
			if rn, ok := b.(Rename); ok &&
				rn.Target.String() == d.Target.String() &&
				(rn.From == d.Name || rn.To == d.Name) {
				covered = true
				break
			}
		}
		if !covered {
			ds = append(ds, Diagnostic{
				Index:   i,
				Message: fmt.Sprintf("drop of %q has no matching rename; data is lost", d.Name),
			})
		}
	}
	return ds
}

// flagRenames reports renames that do nothing: from equal to to, or an
// adjacent pair at the same target that cancels out.
func flagRenames(m Migration) []Diagnostic {
	var ds []Diagnostic
	for i, a := range m.Actions {
		rn, ok := a.(Rename)
		if !ok {
			continue
		}
		if rn.From == rn.To {
			ds = append(ds, Diagnostic{
				Index:   i,
				Message: fmt.Sprintf("rename of %q to itself", rn.From),
			})
			continue
		}
		if i+1 < len(m.Actions) {
			if next, ok := m.Actions[i+1].(Rename); ok &&
				next.Target.String() == rn.Target.String() &&
				next.From == rn.To && next.To == rn.From {
				ds = append(ds, Diagnostic{
					Index:   i,
					Message: fmt.Sprintf("rename %q to %q is cancelled by the next action", rn.From, rn.To),
				})
			}
		}
	}
	return ds
}

func reverseMigration(m Migration) (*Migration, bool) {
	rev := make([]Action, 0, len(m.Actions))
	for i := len(m.Actions) - 1; i >= 0; i-- {
		ra, ok := reverseAction(m.Actions[i])
		if !ok {
			return nil, false
		}
		rev = append(rev, ra)
	}
	return &Migration{Actions: rev}, true
}

func reverseAction(a Action) (Action, bool) {
	switch x := a.(type) {
	case Rename:
		return Rename{Target: x.Target, From: x.To, To: x.From}, true
	case RenameCase:
		return RenameCase{Target: x.Target, From: x.To, To: x.From}, true
	case Optionalize:
		// Undoing Optionalize must not invent data, so the reverse
		// mandates with a failing default: a None in the migrated value
		// means the original is unrecoverable.
		return Mandate{
			Target:  x.Target,
			Name:    x.Name,
			Default: eval.Fail{Message: fmt.Sprintf("cannot undo optionalize of %q on None", x.Name)},
		}, true
	case Join:
		comb, ok := eval.Reverse(x.Combiner)
		if !ok {
			return nil, false
		}
		return Split{
			Target:       x.Target,
			SourceName:   x.TargetName,
			TargetFields: x.SourceFields,
			Splitter:     comb,
		}, true
	case Split:
		sp, ok := eval.Reverse(x.Splitter)
		if !ok {
			return nil, false
		}
		return Join{
			Target:       x.Target,
			TargetName:   x.SourceName,
			SourceFields: x.TargetFields,
			Combiner:     sp,
		}, true
	}
	return nil, false
}
