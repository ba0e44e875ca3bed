package ir

import (
	"errors"
	"testing"
)

func personV(name string, age int32) *Value {
	return Record(
		Field{Name: "name", Value: FromString(name)},
		Field{Name: "age", Value: FromInt32(age)},
	)
}

func TestGetPath(t *testing.T) {
	doc := Record(
		Field{Name: "owner", Value: personV("Alice", 30)},
		Field{Name: "pets", Value: Sequence(FromString("cat"), FromString("dog"))},
		Field{Name: "status", Value: Variant("Active", FromInt32(7))},
	)

	tests := []struct {
		name string
		at   Optic
		want *Value
	}{
		{"root", Root(), doc},
		{"field", Root().Field("owner").Field("name"), FromString("Alice")},
		{"index", Root().Field("pets").At(1), FromString("dog")},
		{"case", Root().Field("status").Case("Active"), FromInt32(7)},
	}
	for _, tc := range tests {
		got, err := GetPath(doc, tc.at)
		if err != nil {
			t.Errorf("%s: GetPath(%s) error: %v", tc.name, tc.at, err)
			continue
		}
		if !Equal(got, tc.want) {
			t.Errorf("%s: GetPath(%s) = %s, want %s", tc.name, tc.at, got, tc.want)
		}
	}
}

func TestGetPathErrors(t *testing.T) {
	doc := Record(
		Field{Name: "owner", Value: personV("Alice", 30)},
		Field{Name: "status", Value: Variant("Active", FromInt32(7))},
	)

	tests := []struct {
		name string
		at   Optic
	}{
		{"missing field", Root().Field("nope")},
		{"field on primitive", Root().Field("owner").Field("name").Field("x")},
		{"case mismatch", Root().Field("status").Case("Disabled")},
		{"index on record", Root().At(0)},
		{"fan-out rejected", Root().Field("owner").Elements()},
	}
	for _, tc := range tests {
		if _, err := GetPath(doc, tc.at); err == nil {
			t.Errorf("%s: GetPath(%s) succeeded, want error", tc.name, tc.at)
		}
	}
}

func TestListPathFanOut(t *testing.T) {
	doc := Sequence(personV("Alice", 30), personV("Bob", 41))
	got, err := ListPath(nil, doc, Root().Elements().Field("age"))
	if err != nil {
		t.Fatalf("ListPath: %v", err)
	}
	if len(got) != 2 || !Equal(got[0], FromInt32(30)) || !Equal(got[1], FromInt32(41)) {
		t.Fatalf("ListPath = %v, want [30 41]", got)
	}

	m := MapOf(
		Entry{Key: FromString("a"), Value: FromInt32(1)},
		Entry{Key: FromString("b"), Value: FromInt32(2)},
	)
	keys, err := ListPath(nil, m, Root().MapKeys())
	if err != nil {
		t.Fatalf("ListPath keys: %v", err)
	}
	if len(keys) != 2 || !Equal(keys[0], FromString("a")) {
		t.Fatalf("ListPath keys = %v", keys)
	}
}

func TestModify(t *testing.T) {
	doc := Record(Field{Name: "owner", Value: personV("Alice", 30)})
	got, err := Modify(doc, Root().Field("owner").Field("age"), func(v *Value) (*Value, error) {
		return FromInt32(int32(v.Prim.Int) + 1), nil
	})
	if err != nil {
		t.Fatalf("Modify: %v", err)
	}
	want := Record(Field{Name: "owner", Value: personV("Alice", 31)})
	if !Equal(got, want) {
		t.Fatalf("Modify = %s, want %s", got, want)
	}
	// The original tree is untouched.
	if !Equal(doc, Record(Field{Name: "owner", Value: personV("Alice", 30)})) {
		t.Fatalf("Modify mutated its input")
	}
}

func TestModifyFanOut(t *testing.T) {
	doc := Sequence(FromInt32(1), FromInt32(2), FromInt32(3))
	got, err := Modify(doc, Root().Elements(), func(v *Value) (*Value, error) {
		return FromInt32(int32(v.Prim.Int) * 10), nil
	})
	if err != nil {
		t.Fatalf("Modify: %v", err)
	}
	want := Sequence(FromInt32(10), FromInt32(20), FromInt32(30))
	if !Equal(got, want) {
		t.Fatalf("Modify = %s, want %s", got, want)
	}
}

func TestModifyCreateFinalField(t *testing.T) {
	doc := Record(Field{Name: "a", Value: FromInt32(1)})
	got, err := ModifyCreate(doc, Root().Field("b"), func(v *Value) (*Value, error) {
		if v != nil {
			t.Fatalf("expected nil for a missing field, got %s", v)
		}
		return FromInt32(2), nil
	})
	if err != nil {
		t.Fatalf("ModifyCreate: %v", err)
	}
	want := Record(
		Field{Name: "a", Value: FromInt32(1)},
		Field{Name: "b", Value: FromInt32(2)},
	)
	if !Equal(got, want) {
		t.Fatalf("ModifyCreate = %s, want %s", got, want)
	}

	// Creation only happens at the final segment; a missing field
	// mid-path is still a navigation error.
	if _, err := ModifyCreate(doc, Root().Field("b").Field("c"), func(v *Value) (*Value, error) {
		return FromInt32(0), nil
	}); err == nil {
		t.Fatalf("ModifyCreate through a missing field succeeded, want error")
	}
}

func TestModifyMapKeysUnique(t *testing.T) {
	m := MapOf(
		Entry{Key: FromString("a"), Value: FromInt32(1)},
		Entry{Key: FromString("b"), Value: FromInt32(2)},
	)
	_, err := Modify(m, Root().MapKeys(), func(v *Value) (*Value, error) {
		return FromString("same"), nil
	})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("Modify collapsing keys: err = %v, want ErrDuplicateKey", err)
	}
}

func TestWrappedIsIdentity(t *testing.T) {
	doc := Record(Field{Name: "a", Value: FromInt32(1)})
	got, err := GetPath(doc, Root().Wrapped().Field("a"))
	if err != nil {
		t.Fatalf("GetPath through wrapped: %v", err)
	}
	if !Equal(got, FromInt32(1)) {
		t.Fatalf("GetPath = %s, want 1", got)
	}
}
