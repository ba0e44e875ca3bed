package patch

import (
	"fmt"
	"math/big"
	"time"

	"github.com/shapekit/dyn/ir"
)

// Delta is the closed union of primitive differences. A delta applies to
// exactly one primitive kind; applying it to anything else is a type
// mismatch.
type Delta interface {
	isDelta()
	// Kind is the primitive kind the delta applies to.
	Kind() ir.PrimKind
	apply(p *ir.Primitive) (*ir.Primitive, error)
	negate() Delta
}

// IntDelta is the difference of two fixed-width integers. Application
// wraps at the target width, matching two's-complement subtraction in
// the differ.
type IntDelta struct {
	PrimKind ir.PrimKind // Int8, Int16, Int32 or Int64
	Delta    int64
}

// FloatDelta is the difference of two floats. NaN transitions never
// produce deltas; the differ special-cases them to Set.
type FloatDelta struct {
	PrimKind ir.PrimKind // Float32 or Float64
	Delta    float64
}

type BigIntDelta struct {
	Delta *big.Int
}

type BigDecimalDelta struct {
	Delta *big.Float
}

// DurationDelta shifts an Instant or adds to a Duration.
type DurationDelta struct {
	PrimKind ir.PrimKind // Instant or Duration
	Delta    time.Duration
}

func (IntDelta) isDelta()        {}
func (FloatDelta) isDelta()      {}
func (BigIntDelta) isDelta()     {}
func (BigDecimalDelta) isDelta() {}
func (DurationDelta) isDelta()   {}

func (d IntDelta) Kind() ir.PrimKind        { return d.PrimKind }
func (d FloatDelta) Kind() ir.PrimKind      { return d.PrimKind }
func (d BigIntDelta) Kind() ir.PrimKind     { return ir.PrimBigInt }
func (d BigDecimalDelta) Kind() ir.PrimKind { return ir.PrimBigDecimal }
func (d DurationDelta) Kind() ir.PrimKind   { return d.PrimKind }

func (d IntDelta) apply(p *ir.Primitive) (*ir.Primitive, error) {
	if p.Kind != d.PrimKind {
		return nil, deltaMismatch(d, p)
	}
	sum := p.Int + d.Delta
	switch d.PrimKind {
	case ir.PrimInt8:
		sum = int64(int8(sum))
	case ir.PrimInt16:
		sum = int64(int16(sum))
	case ir.PrimInt32:
		sum = int64(int32(sum))
	}
	return &ir.Primitive{Kind: p.Kind, Int: sum}, nil
}

func (d IntDelta) negate() Delta {
	return IntDelta{PrimKind: d.PrimKind, Delta: -d.Delta}
}

func (d FloatDelta) apply(p *ir.Primitive) (*ir.Primitive, error) {
	if p.Kind != d.PrimKind {
		return nil, deltaMismatch(d, p)
	}
	sum := p.Float + d.Delta
	if d.PrimKind == ir.PrimFloat32 {
		sum = float64(float32(sum))
	}
	return &ir.Primitive{Kind: p.Kind, Float: sum}, nil
}

func (d FloatDelta) negate() Delta {
	return FloatDelta{PrimKind: d.PrimKind, Delta: -d.Delta}
}

func (d BigIntDelta) apply(p *ir.Primitive) (*ir.Primitive, error) {
	if p.Kind != ir.PrimBigInt {
		return nil, deltaMismatch(d, p)
	}
	return &ir.Primitive{Kind: p.Kind, Big: new(big.Int).Add(p.Big, d.Delta)}, nil
}

func (d BigIntDelta) negate() Delta {
	return BigIntDelta{Delta: new(big.Int).Neg(d.Delta)}
}

func (d BigDecimalDelta) apply(p *ir.Primitive) (*ir.Primitive, error) {
	if p.Kind != ir.PrimBigDecimal {
		return nil, deltaMismatch(d, p)
	}
	return &ir.Primitive{Kind: p.Kind, Dec: new(big.Float).Add(p.Dec, d.Delta)}, nil
}

func (d BigDecimalDelta) negate() Delta {
	return BigDecimalDelta{Delta: new(big.Float).Neg(d.Delta)}
}

func (d DurationDelta) apply(p *ir.Primitive) (*ir.Primitive, error) {
	if p.Kind != d.PrimKind {
		return nil, deltaMismatch(d, p)
	}
	switch d.PrimKind {
	case ir.PrimInstant:
		return &ir.Primitive{Kind: p.Kind, Time: p.Time.Add(d.Delta)}, nil
	default:
		return &ir.Primitive{Kind: p.Kind, Dur: p.Dur + d.Delta}, nil
	}
}

func (d DurationDelta) negate() Delta {
	return DurationDelta{PrimKind: d.PrimKind, Delta: -d.Delta}
}

func deltaMismatch(d Delta, p *ir.Primitive) error {
	return &ir.TypeMismatchError{
		Want: d.Kind().String(),
		Got:  p.Kind.String(),
	}
}

// applyToZero applies a delta to the zero value of its kind. Clobber
// mode uses this when the addressed value does not match the delta.
func applyToZero(d Delta) *ir.Primitive {
	p, err := d.apply(ir.ZeroPrimitive(d.Kind()))
	if err != nil {
		panic(fmt.Sprintf("delta zero application: %v", err))
	}
	return p
}
