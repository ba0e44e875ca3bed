package eval

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shapekit/dyn/ir"
)

// Conversion is the closed union of bidirectional primitive coercions.
// "Int" is Int32 and "Long" is Int64. Each conversion exposes its exact
// reverse; the pair round-trips wherever both directions succeed.
type Conversion int

const (
	IntToString Conversion = iota
	StringToInt
	LongToString
	StringToLong
	IntToLong
	LongToInt
	FloatToDouble
	DoubleToFloat
	BoolToString
	StringToBool
	CharToString
	StringToChar
	Uppercase
	Lowercase
)

func (c Conversion) String() string {
	return [...]string{
		"IntToString", "StringToInt",
		"LongToString", "StringToLong",
		"IntToLong", "LongToInt",
		"FloatToDouble", "DoubleToFloat",
		"BoolToString", "StringToBool",
		"CharToString", "StringToChar",
		"Uppercase", "Lowercase",
	}[c]
}

// Reverse returns the inverse coercion.
func (c Conversion) Reverse() Conversion {
	if c%2 == 0 {
		return c + 1
	}
	return c - 1
}

// Apply coerces one primitive. Narrowing detects overflow and fails;
// parses fail on malformed input.
func (c Conversion) Apply(p *ir.Primitive) (*ir.Value, error) {
	fail := func(reason string) error {
		return &ConversionError{Conversion: c, Input: p.Literal(), Reason: reason}
	}
	kindErr := func(want ir.PrimKind) error {
		return fail("input is " + p.Kind.String() + ", want " + want.String())
	}
	switch c {
	case IntToString:
		if p.Kind != ir.PrimInt32 {
			return nil, kindErr(ir.PrimInt32)
		}
		return ir.FromString(strconv.FormatInt(p.Int, 10)), nil
	case StringToInt:
		if p.Kind != ir.PrimString {
			return nil, kindErr(ir.PrimString)
		}
		n, err := strconv.ParseInt(p.Str, 10, 32)
		if err != nil {
			return nil, fail(err.Error())
		}
		return ir.FromInt32(int32(n)), nil
	case LongToString:
		if p.Kind != ir.PrimInt64 {
			return nil, kindErr(ir.PrimInt64)
		}
		return ir.FromString(strconv.FormatInt(p.Int, 10)), nil
	case StringToLong:
		if p.Kind != ir.PrimString {
			return nil, kindErr(ir.PrimString)
		}
		n, err := strconv.ParseInt(p.Str, 10, 64)
		if err != nil {
			return nil, fail(err.Error())
		}
		return ir.FromInt64(n), nil
	case IntToLong:
		if p.Kind != ir.PrimInt32 {
			return nil, kindErr(ir.PrimInt32)
		}
		return ir.FromInt64(p.Int), nil
	case LongToInt:
		if p.Kind != ir.PrimInt64 {
			return nil, kindErr(ir.PrimInt64)
		}
		if p.Int < math.MinInt32 || p.Int > math.MaxInt32 {
			return nil, fail("out of Int32 range")
		}
		return ir.FromInt32(int32(p.Int)), nil
	case FloatToDouble:
		if p.Kind != ir.PrimFloat32 {
			return nil, kindErr(ir.PrimFloat32)
		}
		return ir.FromFloat64(p.Float), nil
	case DoubleToFloat:
		if p.Kind != ir.PrimFloat64 {
			return nil, kindErr(ir.PrimFloat64)
		}
		f := p.Float
		if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
			return nil, fail("out of Float32 range")
		}
		return ir.FromFloat32(float32(f)), nil
	case BoolToString:
		if p.Kind != ir.PrimBool {
			return nil, kindErr(ir.PrimBool)
		}
		return ir.FromString(strconv.FormatBool(p.Bool)), nil
	case StringToBool:
		if p.Kind != ir.PrimString {
			return nil, kindErr(ir.PrimString)
		}
		b, err := strconv.ParseBool(p.Str)
		if err != nil {
			return nil, fail(err.Error())
		}
		return ir.FromBool(b), nil
	case CharToString:
		if p.Kind != ir.PrimChar {
			return nil, kindErr(ir.PrimChar)
		}
		return ir.FromString(string(p.Char)), nil
	case StringToChar:
		if p.Kind != ir.PrimString {
			return nil, kindErr(ir.PrimString)
		}
		if utf8.RuneCountInString(p.Str) != 1 {
			return nil, fail("not a single character")
		}
		r, _ := utf8.DecodeRuneInString(p.Str)
		return ir.FromChar(r), nil
	case Uppercase:
		if p.Kind != ir.PrimString {
			return nil, kindErr(ir.PrimString)
		}
		return ir.FromString(strings.ToUpper(p.Str)), nil
	case Lowercase:
		if p.Kind != ir.PrimString {
			return nil, kindErr(ir.PrimString)
		}
		return ir.FromString(strings.ToLower(p.Str)), nil
	}
	return nil, fail("unknown conversion")
}
