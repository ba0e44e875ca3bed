package eval

import (
	"github.com/expr-lang/expr"

	"github.com/shapekit/dyn/debug"
	"github.com/shapekit/dyn/ir"
)

// runScript compiles and runs an expr-lang program with the input bound
// as "it". The result converts back through FromAny, so a script yields
// exactly one value.
func runScript(s Script, input *ir.Value) ([]*ir.Value, error) {
	if debug.Eval() {
		debug.Logf("script %q on %s\n", s.Source, input)
	}
	env := map[string]any{"it": ToAny(input)}
	prg, err := expr.Compile(s.Source, expr.Env(env))
	if err != nil {
		return nil, err
	}
	res, err := expr.Run(prg, env)
	if err != nil {
		return nil, err
	}
	v, err := FromAny(res)
	if err != nil {
		return nil, err
	}
	return []*ir.Value{v}, nil
}
