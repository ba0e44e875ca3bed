package ir

import (
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the value payload.
type Kind int

const (
	KindPrimitive Kind = iota
	KindRecord
	KindVariant
	KindSequence
	KindMap
	KindLazy
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		KindPrimitive: "Primitive",
		KindRecord:    "Record",
		KindVariant:   "Variant",
		KindSequence:  "Sequence",
		KindMap:       "Map",
		KindLazy:      "Lazy",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

// Value is the dynamic value tree. It works as a recursive tagged union:
// the payload fields in use are determined by Kind. Values are immutable
// once built and freely shareable.
type Value struct {
	Kind Kind

	Prim *Primitive // KindPrimitive

	Fields []Field // KindRecord, names unique

	CaseName  string // KindVariant
	CaseValue *Value // KindVariant

	Elems []*Value // KindSequence

	Entries []Entry // KindMap, keys unique by structural equality

	cell *lazyCell // KindLazy
}

// Field is one named record member.
type Field struct {
	Name  string
	Value *Value
}

// Entry is one map member.
type Entry struct {
	Key   *Value
	Value *Value
}

type lazyCell struct {
	once  sync.Once
	thunk func() *Value
	val   *Value
}

// Lazy wraps a thunk in a memoizing cell. The thunk runs at most once,
// even under concurrent forcing; equality, ordering, diffing and
// navigation all force lazy values transparently.
func Lazy(thunk func() *Value) *Value {
	return &Value{Kind: KindLazy, cell: &lazyCell{thunk: thunk}}
}

// Force resolves lazy cells, chasing chains of lazies. Non-lazy values
// are returned as is.
func (v *Value) Force() *Value {
	for v != nil && v.Kind == KindLazy {
		c := v.cell
		c.once.Do(func() {
			c.val = c.thunk()
			c.thunk = nil
		})
		v = c.val
	}
	return v
}

func Unit() *Value {
	return &Value{Kind: KindPrimitive, Prim: &Primitive{Kind: PrimUnit}}
}

func FromBool(b bool) *Value {
	return &Value{Kind: KindPrimitive, Prim: &Primitive{Kind: PrimBool, Bool: b}}
}

func FromInt8(v int8) *Value {
	return &Value{Kind: KindPrimitive, Prim: &Primitive{Kind: PrimInt8, Int: int64(v)}}
}

func FromInt16(v int16) *Value {
	return &Value{Kind: KindPrimitive, Prim: &Primitive{Kind: PrimInt16, Int: int64(v)}}
}

func FromInt32(v int32) *Value {
	return &Value{Kind: KindPrimitive, Prim: &Primitive{Kind: PrimInt32, Int: int64(v)}}
}

func FromInt64(v int64) *Value {
	return &Value{Kind: KindPrimitive, Prim: &Primitive{Kind: PrimInt64, Int: v}}
}

func FromFloat32(v float32) *Value {
	return &Value{Kind: KindPrimitive, Prim: &Primitive{Kind: PrimFloat32, Float: float64(v)}}
}

func FromFloat64(v float64) *Value {
	return &Value{Kind: KindPrimitive, Prim: &Primitive{Kind: PrimFloat64, Float: v}}
}

func FromChar(c rune) *Value {
	return &Value{Kind: KindPrimitive, Prim: &Primitive{Kind: PrimChar, Char: c}}
}

func FromString(s string) *Value {
	return &Value{Kind: KindPrimitive, Prim: &Primitive{Kind: PrimString, Str: s}}
}

func FromBigInt(v *big.Int) *Value {
	return &Value{Kind: KindPrimitive, Prim: &Primitive{Kind: PrimBigInt, Big: new(big.Int).Set(v)}}
}

func FromBigDecimal(v *big.Float) *Value {
	return &Value{Kind: KindPrimitive, Prim: &Primitive{Kind: PrimBigDecimal, Dec: new(big.Float).Set(v)}}
}

func FromInstant(t time.Time) *Value {
	return &Value{Kind: KindPrimitive, Prim: &Primitive{Kind: PrimInstant, Time: t}}
}

func FromDuration(d time.Duration) *Value {
	return &Value{Kind: KindPrimitive, Prim: &Primitive{Kind: PrimDuration, Dur: d}}
}

func FromUUID(id uuid.UUID) *Value {
	return &Value{Kind: KindPrimitive, Prim: &Primitive{Kind: PrimUUID, UUID: id}}
}

func FromCurrency(code string) *Value {
	return &Value{Kind: KindPrimitive, Prim: &Primitive{Kind: PrimCurrency, Str: code}}
}

func FromPrimitive(p *Primitive) *Value {
	return &Value{Kind: KindPrimitive, Prim: p}
}

// Record builds a record value. Field names must be unique; field order
// is significant and preserved.
func Record(fields ...Field) *Value {
	return &Value{Kind: KindRecord, Fields: fields}
}

// Variant builds a variant value with the given active case.
func Variant(caseName string, v *Value) *Value {
	return &Value{Kind: KindVariant, CaseName: caseName, CaseValue: v}
}

// Sequence builds an ordered sequence value.
func Sequence(elems ...*Value) *Value {
	return &Value{Kind: KindSequence, Elems: elems}
}

// MapOf builds an ordered map value. Keys must be unique by structural
// equality; entry order is significant and preserved.
func MapOf(entries ...Entry) *Value {
	return &Value{Kind: KindMap, Entries: entries}
}

// Some and None build the conventional option encoding used by the
// migrate package: a variant with cases "Some" and "None".
func Some(v *Value) *Value {
	return Variant("Some", v)
}

func None() *Value {
	return Variant("None", Unit())
}

// Get returns the value of the named record field, or nil if the value
// is not a record or has no such field.
func Get(v *Value, name string) *Value {
	v = v.Force()
	if v == nil || v.Kind != KindRecord {
		return nil
	}
	for i := range v.Fields {
		if v.Fields[i].Name == name {
			return v.Fields[i].Value
		}
	}
	return nil
}

// FieldIndex returns the position of the named field, or -1.
func FieldIndex(v *Value, name string) int {
	for i := range v.Fields {
		if v.Fields[i].Name == name {
			return i
		}
	}
	return -1
}

// EntryIndex returns the position of the entry with the given key, or -1.
// Keys are matched by structural equality.
func EntryIndex(v *Value, key *Value) int {
	for i := range v.Entries {
		if Equal(v.Entries[i].Key, key) {
			return i
		}
	}
	return -1
}

// Clone deep-copies a value. Lazy cells are forced: clones never share
// pending thunks with their source.
func (v *Value) Clone() *Value {
	v = v.Force()
	if v == nil {
		return nil
	}
	dst := &Value{Kind: v.Kind, CaseName: v.CaseName}
	switch v.Kind {
	case KindPrimitive:
		dst.Prim = v.Prim.clone()
	case KindRecord:
		dst.Fields = make([]Field, len(v.Fields))
		for i, f := range v.Fields {
			dst.Fields[i] = Field{Name: f.Name, Value: f.Value.Clone()}
		}
	case KindVariant:
		dst.CaseValue = v.CaseValue.Clone()
	case KindSequence:
		dst.Elems = make([]*Value, len(v.Elems))
		for i, e := range v.Elems {
			dst.Elems[i] = e.Clone()
		}
	case KindMap:
		dst.Entries = make([]Entry, len(v.Entries))
		for i, e := range v.Entries {
			dst.Entries[i] = Entry{Key: e.Key.Clone(), Value: e.Value.Clone()}
		}
	}
	return dst
}

// Visit walks the tree pre- and post-order, forcing lazy cells. The
// callback's dive result controls descent on the pre-order call.
func (v *Value) Visit(f func(v *Value, isPost bool) (bool, error)) error {
	v = v.Force()
	dive, err := f(v, false)
	if err != nil {
		return err
	}
	if dive {
		switch v.Kind {
		case KindRecord:
			for i := range v.Fields {
				if err := v.Fields[i].Value.Visit(f); err != nil {
					return err
				}
			}
		case KindVariant:
			if err := v.CaseValue.Visit(f); err != nil {
				return err
			}
		case KindSequence:
			for _, e := range v.Elems {
				if err := e.Visit(f); err != nil {
					return err
				}
			}
		case KindMap:
			for i := range v.Entries {
				if err := v.Entries[i].Key.Visit(f); err != nil {
					return err
				}
				if err := v.Entries[i].Value.Visit(f); err != nil {
					return err
				}
			}
		}
	}
	_, err = f(v, true)
	return err
}

// String renders the value for diagnostics. It is not a codec.
func (v *Value) String() string {
	var b strings.Builder
	v.render(&b)
	return b.String()
}

func (v *Value) render(b *strings.Builder) {
	v = v.Force()
	if v == nil {
		b.WriteString("<nil>")
		return
	}
	switch v.Kind {
	case KindPrimitive:
		b.WriteString(v.Prim.Literal())
	case KindRecord:
		b.WriteByte('{')
		for i, f := range v.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			f.Value.render(b)
		}
		b.WriteByte('}')
	case KindVariant:
		b.WriteString(v.CaseName)
		b.WriteByte('(')
		v.CaseValue.render(b)
		b.WriteByte(')')
	case KindSequence:
		b.WriteByte('[')
		for i, e := range v.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			e.render(b)
		}
		b.WriteByte(']')
	case KindMap:
		b.WriteString("{|")
		for i, e := range v.Entries {
			if i > 0 {
				b.WriteString(", ")
			}
			e.Key.render(b)
			b.WriteString(": ")
			e.Value.render(b)
		}
		b.WriteString("|}")
	}
}
