package libdiff

import (
	"os"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/shapekit/dyn/eval"
	"github.com/shapekit/dyn/ir"
	"github.com/shapekit/dyn/patch"
)

type fixtureCase struct {
	Name string `yaml:"name"`
	Old  any    `yaml:"old"`
	New  any    `yaml:"new"`
}

// Fixture documents decode to plain Go data and enter the value model
// through the scripting bridge, so the fixtures double as FromAny
// coverage.
func TestDiffRoundtripFixtures(t *testing.T) {
	raw, err := os.ReadFile("testdata/roundtrip.yaml")
	if err != nil {
		t.Fatalf("read fixtures: %v", err)
	}
	var cases []fixtureCase
	if err := yaml.Unmarshal(raw, &cases); err != nil {
		t.Fatalf("decode fixtures: %v", err)
	}
	if len(cases) == 0 {
		t.Fatalf("no fixture cases")
	}
	for _, tc := range cases {
		old, err := eval.FromAny(tc.Old)
		if err != nil {
			t.Errorf("%s: old: %v", tc.Name, err)
			continue
		}
		new, err := eval.FromAny(tc.New)
		if err != nil {
			t.Errorf("%s: new: %v", tc.Name, err)
			continue
		}
		p := Diff(old, new)
		got, err := p.Apply(old, patch.Strict)
		if err != nil {
			t.Errorf("%s: apply: %v", tc.Name, err)
			continue
		}
		if !ir.Equal(got, new) {
			t.Errorf("%s: roundtrip = %s, want %s\npatch: %s", tc.Name, got, new, p.ToValue())
		}
	}
}
