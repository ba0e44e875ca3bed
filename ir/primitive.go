package ir

import (
	"math"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// PrimKind discriminates the primitive payload. The numeric value of a
// PrimKind is its stable type index: dispatch tables and the total order
// rely on it, so the order of the constants must not change.
type PrimKind int

const (
	PrimUnit PrimKind = iota
	PrimBool
	PrimInt8
	PrimInt16
	PrimInt32
	PrimInt64
	PrimFloat32
	PrimFloat64
	PrimChar
	PrimString
	PrimBigInt
	PrimBigDecimal
	PrimInstant
	PrimDuration
	PrimUUID
	PrimCurrency
)

func (k PrimKind) String() string {
	s, ok := map[PrimKind]string{
		PrimUnit:       "Unit",
		PrimBool:       "Bool",
		PrimInt8:       "Int8",
		PrimInt16:      "Int16",
		PrimInt32:      "Int32",
		PrimInt64:      "Int64",
		PrimFloat32:    "Float32",
		PrimFloat64:    "Float64",
		PrimChar:       "Char",
		PrimString:     "String",
		PrimBigInt:     "BigInt",
		PrimBigDecimal: "BigDecimal",
		PrimInstant:    "Instant",
		PrimDuration:   "Duration",
		PrimUUID:       "UUID",
		PrimCurrency:   "Currency",
	}[k]
	if ok {
		return s
	}
	return "<unknown primitive>"
}

// TypeIndex returns the stable index of the primitive type.
func (k PrimKind) TypeIndex() int {
	return int(k)
}

// IsNumeric reports whether values of this kind support arithmetic deltas.
func (k PrimKind) IsNumeric() bool {
	switch k {
	case PrimInt8, PrimInt16, PrimInt32, PrimInt64,
		PrimFloat32, PrimFloat64, PrimBigInt, PrimBigDecimal:
		return true
	default:
		return false
	}
}

// IsTemporal reports whether values of this kind support duration deltas.
func (k PrimKind) IsTemporal() bool {
	return k == PrimInstant || k == PrimDuration
}

// Primitive is a tagged union over the atomic payload types. The payload
// field in use is determined by Kind.
type Primitive struct {
	Kind  PrimKind
	Bool  bool
	Int   int64 // Int8, Int16, Int32, Int64
	Float float64
	Char  rune
	Str   string // String, Currency
	Big   *big.Int
	Dec   *big.Float
	Time  time.Time
	Dur   time.Duration
	UUID  uuid.UUID
}

// comparePrimitives orders primitives by type index first, payload second.
// NaN floats order before all other floats of the same kind and compare
// equal to each other, so ordering and equality stay total.
func comparePrimitives(a, b *Primitive) int {
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}
	switch a.Kind {
	case PrimUnit:
		return 0
	case PrimBool:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case PrimInt8, PrimInt16, PrimInt32, PrimInt64:
		return cmpOrdered(a.Int, b.Int)
	case PrimFloat32, PrimFloat64:
		return compareFloats(a.Float, b.Float)
	case PrimChar:
		return cmpOrdered(a.Char, b.Char)
	case PrimString, PrimCurrency:
		return cmpOrdered(a.Str, b.Str)
	case PrimBigInt:
		return a.Big.Cmp(b.Big)
	case PrimBigDecimal:
		return a.Dec.Cmp(b.Dec)
	case PrimInstant:
		return a.Time.Compare(b.Time)
	case PrimDuration:
		return cmpOrdered(a.Dur, b.Dur)
	case PrimUUID:
		for i := range a.UUID {
			if c := cmpOrdered(a.UUID[i], b.UUID[i]); c != 0 {
				return c
			}
		}
		return 0
	}
	panic("primitive kind")
}

func compareFloats(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpOrdered[T interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~string
}](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ZeroPrimitive returns the zero value of the given primitive kind.
func ZeroPrimitive(kind PrimKind) *Primitive {
	p := &Primitive{Kind: kind}
	switch kind {
	case PrimBigInt:
		p.Big = new(big.Int)
	case PrimBigDecimal:
		p.Dec = new(big.Float)
	}
	return p
}

func (p *Primitive) clone() *Primitive {
	dst := *p
	if p.Big != nil {
		dst.Big = new(big.Int).Set(p.Big)
	}
	if p.Dec != nil {
		dst.Dec = new(big.Float).Set(p.Dec)
	}
	return &dst
}

// Literal renders the primitive for diagnostics and paths. It is not a
// codec: the output is not meant to be parsed back.
func (p *Primitive) Literal() string {
	switch p.Kind {
	case PrimUnit:
		return "()"
	case PrimBool:
		return strconv.FormatBool(p.Bool)
	case PrimInt8, PrimInt16, PrimInt32, PrimInt64:
		return strconv.FormatInt(p.Int, 10)
	case PrimFloat32, PrimFloat64:
		return strconv.FormatFloat(p.Float, 'g', -1, 64)
	case PrimChar:
		return strconv.QuoteRune(p.Char)
	case PrimString:
		return strconv.Quote(p.Str)
	case PrimCurrency:
		return p.Str
	case PrimBigInt:
		return p.Big.String()
	case PrimBigDecimal:
		return p.Dec.Text('g', -1)
	case PrimInstant:
		return p.Time.Format(time.RFC3339Nano)
	case PrimDuration:
		return p.Dur.String()
	case PrimUUID:
		return p.UUID.String()
	}
	return "<unknown primitive>"
}
