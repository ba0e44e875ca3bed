package migrate

import (
	"errors"
	"testing"

	"github.com/shapekit/dyn/eval"
	"github.com/shapekit/dyn/ir"
)

func address(street, city, zip string) *ir.Value {
	return ir.Record(
		ir.Field{Name: "street", Value: ir.FromString(street)},
		ir.Field{Name: "city", Value: ir.FromString(city)},
		ir.Field{Name: "zip", Value: ir.FromString(zip)},
	)
}

func mustMigrate(t *testing.T, m Migration, in *ir.Value) *ir.Value {
	t.Helper()
	got, err := Interpret(m, in)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	return got
}

// Adding a country field with a literal default appends it to the
// record.
func TestAddFieldCountry(t *testing.T) {
	m := Migration{Actions: []Action{
		AddField{Target: ir.Root(), Name: "country", Default: eval.Literal{Value: ir.FromString("USA")}},
	}}
	got := mustMigrate(t, m, address("1 Main St", "Springfield", "01101"))
	want := ir.Record(
		ir.Field{Name: "street", Value: ir.FromString("1 Main St")},
		ir.Field{Name: "city", Value: ir.FromString("Springfield")},
		ir.Field{Name: "zip", Value: ir.FromString("01101")},
		ir.Field{Name: "country", Value: ir.FromString("USA")},
	)
	if !ir.Equal(got, want) {
		t.Fatalf("migrated = %s, want %s", got, want)
	}

	if _, err := Interpret(m, got); err == nil {
		t.Fatalf("adding an existing field succeeded, want error")
	}
}

func TestDropRenameTransform(t *testing.T) {
	in := ir.Record(
		ir.Field{Name: "name", Value: ir.FromString("alice")},
		ir.Field{Name: "age", Value: ir.FromInt32(30)},
		ir.Field{Name: "legacy", Value: ir.FromBool(true)},
	)
	m := Migration{Actions: []Action{
		DropField{Target: ir.Root(), Name: "legacy", Captured: eval.Identity{}},
		Rename{Target: ir.Root(), From: "name", To: "fullName"},
		TransformValue{Target: ir.Root(), Name: "fullName", Expr: eval.Convert{Arg: eval.Identity{}, Conversion: eval.Uppercase}},
	}}
	got := mustMigrate(t, m, in)
	want := ir.Record(
		ir.Field{Name: "fullName", Value: ir.FromString("ALICE")},
		ir.Field{Name: "age", Value: ir.FromInt32(30)},
	)
	if !ir.Equal(got, want) {
		t.Fatalf("migrated = %s, want %s", got, want)
	}
}

func TestMandateAndOptionalize(t *testing.T) {
	some := ir.Record(ir.Field{Name: "nick", Value: ir.Some(ir.FromString("Ally"))})
	none := ir.Record(ir.Field{Name: "nick", Value: ir.None()})
	m := Migration{Actions: []Action{
		Mandate{Target: ir.Root(), Name: "nick", Default: eval.Literal{Value: ir.FromString("n/a")}},
	}}

	if got := mustMigrate(t, m, some); !ir.Equal(ir.Get(got, "nick"), ir.FromString("Ally")) {
		t.Errorf("mandate Some = %s", got)
	}
	if got := mustMigrate(t, m, none); !ir.Equal(ir.Get(got, "nick"), ir.FromString("n/a")) {
		t.Errorf("mandate None = %s", got)
	}

	plain := ir.Record(ir.Field{Name: "nick", Value: ir.FromString("Ally")})
	_, err := Interpret(m, plain)
	var cm *CaseMismatchError
	if !errors.As(err, &cm) {
		t.Errorf("mandate on a non-option: err = %v, want CaseMismatchError", err)
	}

	opt := Migration{Actions: []Action{Optionalize{Target: ir.Root(), Name: "nick"}}}
	if got := mustMigrate(t, opt, plain); !ir.Equal(ir.Get(got, "nick"), ir.Some(ir.FromString("Ally"))) {
		t.Errorf("optionalize = %s", got)
	}
}

func TestChangeType(t *testing.T) {
	in := ir.Record(ir.Field{Name: "age", Value: ir.FromString("30")})
	m := Migration{Actions: []Action{
		ChangeType{Target: ir.Root(), Name: "age", Conversion: eval.StringToInt},
	}}
	got := mustMigrate(t, m, in)
	if !ir.Equal(ir.Get(got, "age"), ir.FromInt32(30)) {
		t.Fatalf("change type = %s", got)
	}

	bad := ir.Record(ir.Field{Name: "age", Value: ir.FromString("old")})
	if _, err := Interpret(m, bad); err == nil {
		t.Fatalf("unparsable conversion succeeded, want error")
	}
}

func TestVariantActions(t *testing.T) {
	in := ir.Record(ir.Field{Name: "status", Value: ir.Variant("Enabled", ir.FromInt32(3))})
	m := Migration{Actions: []Action{
		RenameCase{Target: ir.Root().Field("status"), From: "Enabled", To: "Active"},
	}}
	got := mustMigrate(t, m, in)
	if !ir.Equal(ir.Get(got, "status"), ir.Variant("Active", ir.FromInt32(3))) {
		t.Fatalf("rename case = %s", got)
	}

	// Values in other cases pass through untouched.
	other := ir.Record(ir.Field{Name: "status", Value: ir.Variant("Disabled", ir.Unit())})
	if got := mustMigrate(t, m, other); !ir.Equal(got, other) {
		t.Fatalf("rename case touched another case: %s", got)
	}

	tc := Migration{Actions: []Action{
		TransformCase{
			Target: ir.Root().Field("status"),
			Case:   "Enabled",
			Actions: []Action{
				AddField{Target: ir.Root(), Name: "since", Default: eval.Literal{Value: ir.FromInt32(2020)}},
			},
		},
	}}
	nested := ir.Record(ir.Field{Name: "status", Value: ir.Variant("Enabled", ir.Record())})
	got = mustMigrate(t, tc, nested)
	wantPayload := ir.Record(ir.Field{Name: "since", Value: ir.FromInt32(2020)})
	if !ir.Equal(ir.Get(got, "status"), ir.Variant("Enabled", wantPayload)) {
		t.Fatalf("transform case = %s", got)
	}
}

func TestContainerTransforms(t *testing.T) {
	seq := ir.Sequence(ir.FromInt32(1), ir.FromInt32(2))
	m := Migration{Actions: []Action{
		TransformElements{Target: ir.Root(), Expr: eval.Arith{
			Op:    eval.Multiply,
			Left:  eval.Identity{},
			Right: eval.Literal{Value: ir.FromInt32(10)},
		}},
	}}
	got := mustMigrate(t, m, seq)
	if !ir.Equal(got, ir.Sequence(ir.FromInt32(10), ir.FromInt32(20))) {
		t.Fatalf("transform elements = %s", got)
	}

	mp := ir.MapOf(
		ir.Entry{Key: ir.FromString("a"), Value: ir.FromInt32(1)},
		ir.Entry{Key: ir.FromString("b"), Value: ir.FromInt32(2)},
	)
	keys := Migration{Actions: []Action{
		TransformKeys{Target: ir.Root(), Expr: eval.Convert{Arg: eval.Identity{}, Conversion: eval.Uppercase}},
	}}
	got = mustMigrate(t, keys, mp)
	wantMap := ir.MapOf(
		ir.Entry{Key: ir.FromString("A"), Value: ir.FromInt32(1)},
		ir.Entry{Key: ir.FromString("B"), Value: ir.FromInt32(2)},
	)
	if !ir.Equal(got, wantMap) {
		t.Fatalf("transform keys = %s", got)
	}

	collide := Migration{Actions: []Action{
		TransformKeys{Target: ir.Root(), Expr: eval.Literal{Value: ir.FromString("same")}},
	}}
	if _, err := Interpret(collide, mp); !errors.Is(err, ir.ErrDuplicateKey) {
		t.Fatalf("colliding keys: err = %v, want ErrDuplicateKey", err)
	}

	vals := Migration{Actions: []Action{
		TransformValues{Target: ir.Root(), Expr: eval.Convert{Arg: eval.Identity{}, Conversion: eval.IntToString}},
	}}
	got = mustMigrate(t, vals, mp)
	wantVals := ir.MapOf(
		ir.Entry{Key: ir.FromString("a"), Value: ir.FromString("1")},
		ir.Entry{Key: ir.FromString("b"), Value: ir.FromString("2")},
	)
	if !ir.Equal(got, wantVals) {
		t.Fatalf("transform values = %s", got)
	}
}

func TestJoinAndSplit(t *testing.T) {
	in := ir.Record(
		ir.Field{Name: "first", Value: ir.FromString("Ada")},
		ir.Field{Name: "last", Value: ir.FromString("Lovelace")},
	)
	join := Migration{Actions: []Action{
		Join{
			Target:       ir.Root(),
			TargetName:   "name",
			SourceFields: []string{"first", "last"},
			Combiner: eval.StringConcat{
				Left: eval.StringConcat{
					Left:  eval.Select{At: ir.Root().At(0)},
					Right: eval.Literal{Value: ir.FromString(" ")},
				},
				Right: eval.Select{At: ir.Root().At(1)},
			},
		},
	}}
	joined := mustMigrate(t, join, in)
	want := ir.Record(ir.Field{Name: "name", Value: ir.FromString("Ada Lovelace")})
	if !ir.Equal(joined, want) {
		t.Fatalf("join = %s, want %s", joined, want)
	}

	split := Migration{Actions: []Action{
		Split{
			Target:       ir.Root(),
			SourceName:   "name",
			TargetFields: []string{"first", "last"},
			Splitter:     eval.Split{Arg: eval.Identity{}, Sep: " "},
		},
	}}
	back := mustMigrate(t, split, joined)
	if !ir.Equal(back, in) {
		t.Fatalf("split = %s, want %s", back, in)
	}

	wrong := Migration{Actions: []Action{
		Split{
			Target:       ir.Root(),
			SourceName:   "name",
			TargetFields: []string{"a", "b", "c"},
			Splitter:     eval.Split{Arg: eval.Identity{}, Sep: " "},
		},
	}}
	if _, err := Interpret(wrong, joined); err == nil {
		t.Fatalf("arity-mismatched split succeeded, want error")
	}
}

// A join or split target that collides with a surviving field would
// produce a record with two fields of one name. Reusing a consumed
// source name stays legal.
func TestJoinSplitTargetCollision(t *testing.T) {
	combiner := eval.Select{At: ir.Root().At(0)}
	in := ir.Record(
		ir.Field{Name: "full", Value: ir.FromString("existing")},
		ir.Field{Name: "first", Value: ir.FromString("Ada")},
		ir.Field{Name: "last", Value: ir.FromString("Lovelace")},
	)
	join := Migration{Actions: []Action{
		Join{Target: ir.Root(), TargetName: "full", SourceFields: []string{"first", "last"}, Combiner: combiner},
	}}
	var fnf *FieldNotFoundError
	if _, err := Interpret(join, in); !errors.As(err, &fnf) || fnf.Name != "full" {
		t.Fatalf("join onto surviving field: err = %v, want already-present full", err)
	}

	intoSource := Migration{Actions: []Action{
		Join{Target: ir.Root(), TargetName: "first", SourceFields: []string{"first", "last"}, Combiner: combiner},
	}}
	got, err := Interpret(intoSource, ir.Record(
		ir.Field{Name: "first", Value: ir.FromString("Ada")},
		ir.Field{Name: "last", Value: ir.FromString("Lovelace")},
	))
	if err != nil {
		t.Fatalf("join onto consumed source: %v", err)
	}
	want := ir.Record(ir.Field{Name: "first", Value: ir.FromString("Ada")})
	if !ir.Equal(got, want) {
		t.Fatalf("join onto consumed source = %s, want %s", got, want)
	}

	split := Migration{Actions: []Action{
		Split{
			Target:       ir.Root(),
			SourceName:   "name",
			TargetFields: []string{"first", "last"},
			Splitter:     eval.Split{Arg: eval.Identity{}, Sep: " "},
		},
	}}
	_, err = Interpret(split, ir.Record(
		ir.Field{Name: "name", Value: ir.FromString("Ada Lovelace")},
		ir.Field{Name: "last", Value: ir.FromString("kept")},
	))
	if !errors.As(err, &fnf) || fnf.Name != "last" {
		t.Fatalf("split onto surviving field: err = %v, want already-present last", err)
	}

	dup := Migration{Actions: []Action{
		Split{
			Target:       ir.Root(),
			SourceName:   "name",
			TargetFields: []string{"first", "first"},
			Splitter:     eval.Split{Arg: eval.Identity{}, Sep: " "},
		},
	}}
	_, err = Interpret(dup, ir.Record(ir.Field{Name: "name", Value: ir.FromString("Ada Lovelace")}))
	if !errors.As(err, &fnf) || fnf.Name != "first" {
		t.Fatalf("duplicate split targets: err = %v, want already-present first", err)
	}
}

// Failures carry the index of the failing action and its target path.
func TestInterpretErrorContext(t *testing.T) {
	m := Migration{Actions: []Action{
		AddField{Target: ir.Root(), Name: "ok", Default: eval.Literal{Value: ir.Unit()}},
		Rename{Target: ir.Root().Field("missing"), From: "a", To: "b"},
	}}
	_, err := Interpret(m, ir.Record())
	var me *MigrationError
	if !errors.As(err, &me) {
		t.Fatalf("err = %v, want MigrationError", err)
	}
	if me.Index != 1 {
		t.Errorf("index = %d, want 1", me.Index)
	}
	if me.Path != "$.missing" {
		t.Errorf("path = %q, want $.missing", me.Path)
	}
}

// Migration targets may only address structural containers.
func TestTargetRestriction(t *testing.T) {
	bad := []ir.Optic{
		ir.Root().At(0),
		ir.Root().Case("Some"),
		ir.Root().AtKey(ir.FromString("k")),
		ir.Root().Wrapped(),
	}
	for _, at := range bad {
		m := Migration{Actions: []Action{
			AddField{Target: at, Name: "x", Default: eval.Literal{Value: ir.Unit()}},
		}}
		if _, err := Interpret(m, ir.Record()); err == nil {
			t.Errorf("target %s accepted, want unsupported-node error", at)
		}
	}
}

// Fan-out targets migrate every addressed location.
func TestFanOutTarget(t *testing.T) {
	in := ir.Sequence(
		ir.Record(ir.Field{Name: "v", Value: ir.FromInt32(1)}),
		ir.Record(ir.Field{Name: "v", Value: ir.FromInt32(2)}),
	)
	m := Migration{Actions: []Action{
		Rename{Target: ir.Root().Elements(), From: "v", To: "value"},
	}}
	got := mustMigrate(t, m, in)
	want := ir.Sequence(
		ir.Record(ir.Field{Name: "value", Value: ir.FromInt32(1)}),
		ir.Record(ir.Field{Name: "value", Value: ir.FromInt32(2)}),
	)
	if !ir.Equal(got, want) {
		t.Fatalf("fan-out rename = %s, want %s", got, want)
	}
}
