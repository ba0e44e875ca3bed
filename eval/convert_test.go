package eval

import (
	"errors"
	"math"
	"testing"

	"github.com/shapekit/dyn/ir"
)

type convTest struct {
	conv Conversion
	in   *ir.Value
	want *ir.Value
}

var convTests = []convTest{
	{IntToString, ir.FromInt32(42), ir.FromString("42")},
	{StringToInt, ir.FromString("-7"), ir.FromInt32(-7)},
	{LongToString, ir.FromInt64(1 << 40), ir.FromString("1099511627776")},
	{StringToLong, ir.FromString("1099511627776"), ir.FromInt64(1 << 40)},
	{IntToLong, ir.FromInt32(5), ir.FromInt64(5)},
	{LongToInt, ir.FromInt64(5), ir.FromInt32(5)},
	{FloatToDouble, ir.FromFloat32(1.5), ir.FromFloat64(1.5)},
	{DoubleToFloat, ir.FromFloat64(1.5), ir.FromFloat32(1.5)},
	{BoolToString, ir.FromBool(true), ir.FromString("true")},
	{StringToBool, ir.FromString("false"), ir.FromBool(false)},
	{CharToString, ir.FromChar('x'), ir.FromString("x")},
	{StringToChar, ir.FromString("x"), ir.FromChar('x')},
	{Uppercase, ir.FromString("Mixed"), ir.FromString("MIXED")},
	{Lowercase, ir.FromString("MIXED"), ir.FromString("mixed")},
}

func TestConversions(t *testing.T) {
	for _, tc := range convTests {
		got, err := tc.conv.Apply(tc.in.Prim)
		if err != nil {
			t.Errorf("%s(%s): %v", tc.conv, tc.in, err)
			continue
		}
		if !ir.Equal(got, tc.want) {
			t.Errorf("%s(%s) = %s, want %s", tc.conv, tc.in, got, tc.want)
		}
	}
}

type convFailTest struct {
	name string
	conv Conversion
	in   *ir.Value
}

var convFailTests = []convFailTest{
	{"unparsable int", StringToInt, ir.FromString("abc")},
	{"int overflow", StringToInt, ir.FromString("3000000000")},
	{"long narrowing", LongToInt, ir.FromInt64(math.MaxInt32 + 1)},
	{"double narrowing", DoubleToFloat, ir.FromFloat64(1e300)},
	{"unparsable bool", StringToBool, ir.FromString("maybe")},
	{"multi-rune char", StringToChar, ir.FromString("ab")},
	{"empty char", StringToChar, ir.FromString("")},
	{"wrong kind", IntToString, ir.FromString("42")},
}

func TestConversionFailures(t *testing.T) {
	for _, tc := range convFailTests {
		_, err := tc.conv.Apply(tc.in.Prim)
		var ce *ConversionError
		if !errors.As(err, &ce) {
			t.Errorf("%s: err = %v, want ConversionError", tc.name, err)
		}
	}
}

// Every conversion's reverse undoes it wherever both directions apply.
func TestConversionReverseRoundtrip(t *testing.T) {
	for _, tc := range convTests {
		if rr := tc.conv.Reverse().Reverse(); rr != tc.conv {
			t.Errorf("%s: double reverse = %s", tc.conv, rr)
		}
		mid, err := tc.conv.Apply(tc.in.Prim)
		if err != nil {
			t.Fatalf("%s: %v", tc.conv, err)
		}
		back, err := tc.conv.Reverse().Apply(mid.Prim)
		if err != nil {
			t.Errorf("%s reverse: %v", tc.conv, err)
			continue
		}
		// Case transforms are lossy in one direction and only
		// round-trip on already-normalized input.
		if tc.conv == Uppercase || tc.conv == Lowercase {
			continue
		}
		if !ir.Equal(back, tc.in) {
			t.Errorf("%s: roundtrip = %s, want %s", tc.conv, back, tc.in)
		}
	}
}
