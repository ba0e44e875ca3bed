package eval

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/shapekit/dyn/ir"
)

// ToAny converts a value to plain Go data for the scripting bridge.
// Records and string-keyed maps become map[string]any, sequences become
// []any, variants become a two-field map with "case" and "value".
// Maps with non-string keys become a slice of [key, value] pairs.
func ToAny(v *ir.Value) any {
	v = v.Force()
	switch v.Kind {
	case ir.KindPrimitive:
		return primToAny(v.Prim)
	case ir.KindRecord:
		res := make(map[string]any, len(v.Fields))
		for _, f := range v.Fields {
			res[f.Name] = ToAny(f.Value)
		}
		return res
	case ir.KindVariant:
		return map[string]any{"case": v.CaseName, "value": ToAny(v.CaseValue)}
	case ir.KindSequence:
		res := make([]any, len(v.Elems))
		for i, e := range v.Elems {
			res[i] = ToAny(e)
		}
		return res
	case ir.KindMap:
		if stringKeyed(v) {
			res := make(map[string]any, len(v.Entries))
			for _, e := range v.Entries {
				res[e.Key.Force().Prim.Str] = ToAny(e.Value)
			}
			return res
		}
		res := make([]any, len(v.Entries))
		for i, e := range v.Entries {
			res[i] = []any{ToAny(e.Key), ToAny(e.Value)}
		}
		return res
	}
	return nil
}

func stringKeyed(v *ir.Value) bool {
	for _, e := range v.Entries {
		k := e.Key.Force()
		if k.Kind != ir.KindPrimitive || k.Prim.Kind != ir.PrimString {
			return false
		}
	}
	return true
}

func primToAny(p *ir.Primitive) any {
	switch p.Kind {
	case ir.PrimUnit:
		return nil
	case ir.PrimBool:
		return p.Bool
	case ir.PrimInt8, ir.PrimInt16, ir.PrimInt32:
		return int(p.Int)
	case ir.PrimInt64:
		return p.Int
	case ir.PrimFloat32, ir.PrimFloat64:
		return p.Float
	case ir.PrimChar:
		return string(p.Char)
	case ir.PrimString:
		return p.Str
	case ir.PrimBigInt:
		return p.Big
	case ir.PrimBigDecimal:
		return p.Dec
	case ir.PrimInstant:
		return p.Time
	case ir.PrimDuration:
		return p.Dur
	case ir.PrimUUID:
		return p.UUID.String()
	case ir.PrimCurrency:
		return p.Str
	}
	return nil
}

// FromAny converts plain Go data back into a value. Map keys are sorted
// so the result is deterministic.
func FromAny(v any) (*ir.Value, error) {
	switch x := v.(type) {
	case nil:
		return ir.Unit(), nil
	case *ir.Value:
		return x.Clone(), nil
	case bool:
		return ir.FromBool(x), nil
	case int:
		return ir.FromInt64(int64(x)), nil
	case int32:
		return ir.FromInt32(x), nil
	case int64:
		return ir.FromInt64(x), nil
	case uint:
		return fromUint(uint64(x))
	case uint64:
		return fromUint(x)
	case float32:
		return ir.FromFloat32(x), nil
	case float64:
		return ir.FromFloat64(x), nil
	case string:
		return ir.FromString(x), nil
	case *big.Int:
		return ir.FromBigInt(x), nil
	case *big.Float:
		return ir.FromBigDecimal(x), nil
	case time.Time:
		return ir.FromInstant(x), nil
	case time.Duration:
		return ir.FromDuration(x), nil
	case uuid.UUID:
		return ir.FromUUID(x), nil
	case []any:
		elems := make([]*ir.Value, len(x))
		for i, e := range x {
			ev, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			elems[i] = ev
		}
		return ir.Sequence(elems...), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]ir.Field, len(keys))
		for i, k := range keys {
			fv, err := FromAny(x[k])
			if err != nil {
				return nil, err
			}
			fields[i] = ir.Field{Name: k, Value: fv}
		}
		return ir.Record(fields...), nil
	}
	return nil, fmt.Errorf("cannot represent %T as a value", v)
}

func fromUint(x uint64) (*ir.Value, error) {
	if x > math.MaxInt64 {
		return nil, fmt.Errorf("unsigned value %d overflows int64", x)
	}
	return ir.FromInt64(int64(x)), nil
}
