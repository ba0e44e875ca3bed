// Package eval is a pure expression interpreter over ir values. An
// expression evaluates against an input value and yields a list of
// result values: selecting through a fan-out optic produces several,
// and binary combinators combine the cross-product of their children's
// results.
package eval

import (
	"fmt"
	"regexp"

	"github.com/shapekit/dyn/ir"
)

// Expr is the closed union of expression nodes. The set of
// implementations is fixed; Eval and Reverse match on it exhaustively.
type Expr interface {
	isExpr()
}

// Literal yields a constant, ignoring the input.
type Literal struct {
	Value *ir.Value
}

// Select walks an optic from the input; fan-out nodes yield several
// results.
type Select struct {
	At ir.Optic
}

// Identity yields the input unchanged.
type Identity struct{}

// Convert applies a bidirectional primitive coercion to its argument.
type Convert struct {
	Arg        Expr
	Conversion Conversion
}

// ArithOp enumerates arithmetic combinators.
type ArithOp int

const (
	Add ArithOp = iota
	Subtract
	Multiply
	Divide
)

func (o ArithOp) String() string {
	return [...]string{"Add", "Subtract", "Multiply", "Divide"}[o]
}

// Arith combines two numeric results; operands dispatch on their
// numeric-type tag and must agree.
type Arith struct {
	Op          ArithOp
	Left, Right Expr
}

// RelOp enumerates relational combinators.
type RelOp int

const (
	Eq RelOp = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

func (o RelOp) String() string {
	return [...]string{"Eq", "Ne", "Lt", "Le", "Gt", "Ge"}[o]
}

// Relational compares two results under the total value order.
type Relational struct {
	Op          RelOp
	Left, Right Expr
}

// LogicOp enumerates binary boolean combinators.
type LogicOp int

const (
	And LogicOp = iota
	Or
)

func (o LogicOp) String() string {
	return [...]string{"And", "Or"}[o]
}

// Logical combines two boolean results.
type Logical struct {
	Op          LogicOp
	Left, Right Expr
}

// Not negates a boolean result.
type Not struct {
	Arg Expr
}

// StringConcat joins two string results. Inherently lossy: it has no
// reverse.
type StringConcat struct {
	Left, Right Expr
}

// Split divides a string result around a separator, yielding a sequence.
type Split struct {
	Arg Expr
	Sep string
}

// Regex tests a string result against a compiled pattern, yielding a
// boolean.
type Regex struct {
	Arg     Expr
	Pattern string
	re      *regexp.Regexp
}

// NewRegex compiles the pattern eagerly so an invalid pattern fails at
// construction, not at every evaluation.
func NewRegex(pattern string, arg Expr) (Regex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Regex{}, fmt.Errorf("regex %q: %w", pattern, err)
	}
	return Regex{Arg: arg, Pattern: pattern, re: re}, nil
}

// Fail is the explicit authored failure node.
type Fail struct {
	Message string
}

// Script compiles and runs an expr-lang program against the input value
// converted to plain Go data, bound as "it". Inherently irreversible.
type Script struct {
	Source string
}

// DefaultValue resolves to a Literal of the kind's zero value at build
// time; there is no default-value node at evaluation time.
func DefaultValue(kind ir.PrimKind) Expr {
	return Literal{Value: ir.FromPrimitive(ir.ZeroPrimitive(kind))}
}

func (Literal) isExpr()      {}
func (Select) isExpr()       {}
func (Identity) isExpr()     {}
func (Convert) isExpr()      {}
func (Arith) isExpr()        {}
func (Relational) isExpr()   {}
func (Logical) isExpr()      {}
func (Not) isExpr()          {}
func (StringConcat) isExpr() {}
func (Split) isExpr()        {}
func (Regex) isExpr()        {}
func (Fail) isExpr()         {}
func (Script) isExpr()       {}
