// Package libdiff computes structural differences between ir values.
//
// # Usage
//
//	// Compute the patch between two values
//	p := libdiff.Diff(oldValue, newValue)
//
//	// Replay it
//	patched, err := p.Apply(oldValue, patch.Strict)
//
// Diffs are patch values that can be stored, transmitted (via their ir
// representation), composed and applied to reconstruct value states.
// For same-typed inputs, Diff(old, new).Apply(old, patch.Strict)
// reproduces new exactly.
//
// # Related Packages
//
//   - github.com/shapekit/dyn/ir - value representation
//   - github.com/shapekit/dyn/patch - patch algebra and application
//   - github.com/shapekit/dyn/lcs - edit-script alignment
package libdiff
