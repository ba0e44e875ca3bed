// Package migrate evolves values across schema versions. A migration is
// an ordered list of actions, each addressed at a target inside the
// value tree; interpreting a migration folds the actions over the input
// and stops at the first failure.
package migrate

import (
	"github.com/shapekit/dyn/eval"
	"github.com/shapekit/dyn/ir"
)

// Migration is an ordered list of schema-evolution actions.
type Migration struct {
	Actions []Action
}

// Action is the closed union of schema-evolution steps. Every action
// carries a Target optic addressing the container it rewrites; targets
// may only use Field, Elements, MapKeys and MapValues nodes.
type Action interface {
	isAction()
	target() ir.Optic
}

// AddField appends a field to the target record. The default expression
// evaluates against the record itself.
type AddField struct {
	Target  ir.Optic
	Name    string
	Default eval.Expr
}

// DropField removes a field from the target record. The captured
// expression documents what the dropped data meant; it is not evaluated
// during interpretation.
type DropField struct {
	Target   ir.Optic
	Name     string
	Captured eval.Expr
}

// Rename changes a field's name in the target record.
type Rename struct {
	Target   ir.Optic
	From, To string
}

// TransformValue rewrites a field's value with an expression evaluated
// against the old field value.
type TransformValue struct {
	Target ir.Optic
	Name   string
	Expr   eval.Expr
}

// Mandate unwraps an optional field. Some(v) becomes v; None becomes
// the default expression evaluated against the record.
type Mandate struct {
	Target  ir.Optic
	Name    string
	Default eval.Expr
}

// Optionalize wraps a field's value in Some.
type Optionalize struct {
	Target ir.Optic
	Name   string
}

// ChangeType coerces a primitive field with a bidirectional conversion.
type ChangeType struct {
	Target     ir.Optic
	Name       string
	Conversion eval.Conversion
}

// RenameCase changes the case name of target variants currently in the
// From case; variants in other cases pass through unchanged.
type RenameCase struct {
	Target   ir.Optic
	From, To string
}

// TransformCase applies nested actions to the payload of target variants
// in the named case; other cases pass through unchanged.
type TransformCase struct {
	Target  ir.Optic
	Case    string
	Actions []Action
}

// TransformElements rewrites every element of the target sequence.
type TransformElements struct {
	Target ir.Optic
	Expr   eval.Expr
}

// TransformKeys rewrites every key of the target map. Rewritten keys
// must stay pairwise distinct.
type TransformKeys struct {
	Target ir.Optic
	Expr   eval.Expr
}

// TransformValues rewrites every value of the target map.
type TransformValues struct {
	Target ir.Optic
	Expr   eval.Expr
}

// Join replaces several source fields of the target record with one new
// field. The combiner evaluates against the Sequence of source values
// in declaration order.
type Join struct {
	Target       ir.Optic
	TargetName   string
	SourceFields []string
	Combiner     eval.Expr
}

// Split replaces one source field of the target record with several new
// fields. The splitter evaluates against the source value and must
// yield exactly one result per target field.
type Split struct {
	Target       ir.Optic
	SourceName   string
	TargetFields []string
	Splitter     eval.Expr
}

func (a AddField) isAction()          {}
func (a DropField) isAction()         {}
func (a Rename) isAction()            {}
func (a TransformValue) isAction()    {}
func (a Mandate) isAction()           {}
func (a Optionalize) isAction()       {}
func (a ChangeType) isAction()        {}
func (a RenameCase) isAction()        {}
func (a TransformCase) isAction()     {}
func (a TransformElements) isAction() {}
func (a TransformKeys) isAction()     {}
func (a TransformValues) isAction()   {}
func (a Join) isAction()              {}
func (a Split) isAction()             {}

func (a AddField) target() ir.Optic          { return a.Target }
func (a DropField) target() ir.Optic         { return a.Target }
func (a Rename) target() ir.Optic            { return a.Target }
func (a TransformValue) target() ir.Optic    { return a.Target }
func (a Mandate) target() ir.Optic           { return a.Target }
func (a Optionalize) target() ir.Optic       { return a.Target }
func (a ChangeType) target() ir.Optic        { return a.Target }
func (a RenameCase) target() ir.Optic        { return a.Target }
func (a TransformCase) target() ir.Optic     { return a.Target }
func (a TransformElements) target() ir.Optic { return a.Target }
func (a TransformKeys) target() ir.Optic     { return a.Target }
func (a TransformValues) target() ir.Optic   { return a.Target }
func (a Join) target() ir.Optic              { return a.Target }
func (a Split) target() ir.Optic             { return a.Target }
